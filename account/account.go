// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - account identifiers
//
// an account is an ed25519 public key tagged with a key variant byte;
// the text form is base58 over: variant ++ public key ++ 4 byte
// SHA3-256 checksum
package account

import (
	"bytes"

	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/util"
)

// supported key algorithms
const (
	ED25519 = iota + 1
	algorithmLimit
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key variant starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02

	algorithmShift = 4 // high nibble is the algorithm
)

// Account - base type for accounts
type Account struct {
	AccountInterface
}

// AccountInterface - interface type for account methods
type AccountInterface interface {
	KeyType() int
	PublicKeyBytes() []byte
	CheckSignature(message []byte, signature Signature) error
	Bytes() []byte
	String() string
	MarshalText() ([]byte, error)
	IsTesting() bool
}

// ED25519Account - for ed25519 signatures
type ED25519Account struct {
	Test      bool
	PublicKey []byte
}

// AccountFromBase58 - convert a base58 encoded string to an account
func AccountFromBase58(accountBase58Encoded string) (*Account, error) {
	accountDecoded := util.FromBase58(accountBase58Encoded)
	if 0 == len(accountDecoded) {
		return nil, fault.CannotDecodeAccount
	}

	// verify checksum before any other field
	checksumStart := len(accountDecoded) - checksumLength
	if checksumStart <= 0 {
		return nil, fault.CannotDecodeAccount
	}
	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}

	return AccountFromBytes(accountDecoded[:checksumStart])
}

// AccountFromBytes - convert a binary encoded buffer to an account
func AccountFromBytes(accountBytes []byte) (*Account, error) {

	keyVariant, keyVariantLength := util.FromVarint64(accountBytes)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.NotPublicKey
	}

	keyAlgorithm := keyVariant >> algorithmShift
	if keyAlgorithm < ED25519 || keyAlgorithm >= algorithmLimit {
		return nil, fault.InvalidKeyType
	}

	isTest := 0 != keyVariant&testKeyCode

	keyLength := len(accountBytes) - keyVariantLength
	if ed25519.PublicKeySize != keyLength {
		return nil, fault.InvalidKeyLength
	}

	publicKey := make([]byte, keyLength)
	copy(publicKey, accountBytes[keyVariantLength:])

	account := &Account{
		AccountInterface: &ED25519Account{
			Test:      isTest,
			PublicKey: publicKey,
		},
	}
	return account, nil
}

// PublicKeyAccount - wrap a bare 32 byte ed25519 public key
//
// state records store bare keys; the network flag comes from the
// chain the node is running on
func PublicKeyAccount(publicKey []byte, test bool) (*Account, error) {
	if ed25519.PublicKeySize != len(publicKey) {
		return nil, fault.InvalidKeyLength
	}
	pk := make([]byte, len(publicKey))
	copy(pk, publicKey)
	return &Account{
		AccountInterface: &ED25519Account{
			Test:      test,
			PublicKey: pk,
		},
	}, nil
}

// UnmarshalText - convert base58 text into an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	account.AccountInterface = a.AccountInterface
	return nil
}

// KeyType - key type code (see enumeration above)
func (account *ED25519Account) KeyType() int {
	return ED25519
}

// PublicKeyBytes - fetch the public key as a byte slice
func (account *ED25519Account) PublicKeyBytes() []byte {
	return account.PublicKey
}

// CheckSignature - check the signature of a message
func (account *ED25519Account) CheckSignature(message []byte, signature Signature) error {

	if ed25519.SignatureSize != len(signature) {
		return fault.InvalidSignature
	}

	if !ed25519.Verify(account.PublicKey, message, []byte(signature)) {
		return fault.InvalidSignature
	}
	return nil
}

// Bytes - byte slice for encoded key
func (account *ED25519Account) Bytes() []byte {
	keyVariant := byte(ED25519<<algorithmShift) | publicKeyCode
	if account.Test {
		keyVariant |= testKeyCode
	}
	return append([]byte{keyVariant}, account.PublicKey...)
}

// String - base58 encoding of encoded key with checksum
func (account *ED25519Account) String() string {
	buffer := account.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return util.ToBase58(buffer)
}

// MarshalText - convert an account to its base58 JSON form
func (account ED25519Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// IsTesting - return whether the public key is in test mode or not
func (account ED25519Account) IsTesting() bool {
	return account.Test
}
