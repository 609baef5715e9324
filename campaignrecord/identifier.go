// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package campaignrecord

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/fault"
)

// limits
const (
	CampaignIdentifierLength = 32
	HoldingIdentifierLength  = 32
)

// seed tags for identifier derivation
//
// any client can recompute an identifier offline from the same inputs
const (
	campaignTag = "campaign"
	holdingTag  = "holding"
)

// CampaignIdentifier - the derived address of a campaign account
//
// SHA3-256 over: tag ++ authority public key ++ title bytes
type CampaignIdentifier [CampaignIdentifierLength]byte

// HoldingIdentifier - the derived address of a donor holding account
//
// SHA3-256 over: tag ++ owner public key ++ badge mint public key
type HoldingIdentifier [HoldingIdentifierLength]byte

// NewCampaignIdentifier - derive a campaign identifier
func NewCampaignIdentifier(authority *account.Account, title string) CampaignIdentifier {
	h := sha3.New256()
	h.Write([]byte(campaignTag))
	h.Write(authority.PublicKeyBytes())
	h.Write([]byte(title))
	var id CampaignIdentifier
	copy(id[:], h.Sum(nil))
	return id
}

// NewHoldingIdentifier - derive a holding identifier
func NewHoldingIdentifier(owner *account.Account, badgeKey *account.Account) HoldingIdentifier {
	h := sha3.New256()
	h.Write([]byte(holdingTag))
	h.Write(owner.PublicKeyBytes())
	h.Write(badgeKey.PublicKeyBytes())
	var id HoldingIdentifier
	copy(id[:], h.Sum(nil))
	return id
}

// String - convert a binary identifier to hex string for use by the fmt package (for %s)
func (campaignId CampaignIdentifier) String() string {
	return hex.EncodeToString(campaignId[:])
}

// GoString - convert a binary identifier to hex string for use by the fmt package (for %#v)
func (campaignId CampaignIdentifier) GoString() string {
	return "<campaign:" + hex.EncodeToString(campaignId[:]) + ">"
}

// Scan - convert a hex text representation to an identifier for use by the format package scan routines
func (campaignId *CampaignIdentifier) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, isHexDigit)
	if nil != err {
		return err
	}
	if len(token) != hex.EncodedLen(CampaignIdentifierLength) {
		return fault.NotCampaignIdentifier
	}

	byteCount, err := hex.Decode(campaignId[:], token)
	if nil != err {
		return err
	}
	if CampaignIdentifierLength != byteCount {
		return fault.NotCampaignIdentifier
	}
	return nil
}

// MarshalText - convert identifier to hex text
func (campaignId CampaignIdentifier) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(campaignId))
	buffer := make([]byte, size)
	hex.Encode(buffer, campaignId[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into an identifier
func (campaignId *CampaignIdentifier) UnmarshalText(s []byte) error {
	if len(campaignId) != hex.DecodedLen(len(s)) {
		return fault.NotCampaignIdentifier
	}
	byteCount, err := hex.Decode(campaignId[:], s)
	if nil != err {
		return err
	}
	if CampaignIdentifierLength != byteCount {
		return fault.NotCampaignIdentifier
	}
	return nil
}

// CampaignIdentifierFromBytes - convert and validate a binary byte slice to an identifier
func CampaignIdentifierFromBytes(campaignId *CampaignIdentifier, buffer []byte) error {
	if CampaignIdentifierLength != len(buffer) {
		return fault.NotCampaignIdentifier
	}
	copy(campaignId[:], buffer)
	return nil
}

// String - convert a binary identifier to hex string for use by the fmt package (for %s)
func (holdingId HoldingIdentifier) String() string {
	return hex.EncodeToString(holdingId[:])
}

// GoString - convert a binary identifier to hex string for use by the fmt package (for %#v)
func (holdingId HoldingIdentifier) GoString() string {
	return "<holding:" + hex.EncodeToString(holdingId[:]) + ">"
}

// MarshalText - convert identifier to hex text
func (holdingId HoldingIdentifier) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(holdingId))
	buffer := make([]byte, size)
	hex.Encode(buffer, holdingId[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into an identifier
func (holdingId *HoldingIdentifier) UnmarshalText(s []byte) error {
	if len(holdingId) != hex.DecodedLen(len(s)) {
		return fault.NotHoldingIdentifier
	}
	byteCount, err := hex.Decode(holdingId[:], s)
	if nil != err {
		return err
	}
	if HoldingIdentifierLength != byteCount {
		return fault.NotHoldingIdentifier
	}
	return nil
}

func isHexDigit(c rune) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if c >= 'A' && c <= 'F' {
		return true
	}
	if c >= 'a' && c <= 'f' {
		return true
	}
	return false
}
