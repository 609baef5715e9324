// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	AuthorizationError GenericError
	ExistsError        GenericError
	InsufficientError  GenericError
	InvalidError       GenericError
	NotFoundError      GenericError
	OverflowError      GenericError
	ProcessError       GenericError
)

// common errors - keep in alphabetic order
var (
	AlreadyInitialised       = ExistsError("already initialised")
	BadgeAlreadyExists       = ExistsError("badge identity already exists")
	BadgeNotTransferable     = InvalidError("badge is not transferable")
	BalanceOverflow          = OverflowError("balance overflow")
	CampaignAlreadyExists    = ExistsError("campaign already exists")
	CampaignNotFound         = NotFoundError("campaign not found")
	CannotDecodeAccount      = InvalidError("cannot decode account")
	ChecksumMismatch         = InvalidError("checksum mismatch")
	CreditAmountIsZero       = InvalidError("credit amount is zero")
	DonationAmountIsZero     = InvalidError("donation amount is zero")
	GoalIsZero               = InvalidError("goal is zero")
	HoldingNotFound          = NotFoundError("holding not found")
	InsufficientFunds        = InsufficientError("insufficient funds")
	InvalidChain             = InvalidError("invalid chain")
	InvalidCount             = InvalidError("invalid count")
	InvalidCountersignature  = AuthorizationError("invalid countersignature")
	InvalidCursor            = InvalidError("invalid cursor")
	InvalidDonorOrAuthority  = InvalidError("invalid donor or authority")
	InvalidKeyLength         = InvalidError("invalid key length")
	InvalidKeyType           = InvalidError("invalid key type")
	InvalidSignature         = AuthorizationError("invalid signature")
	InvalidStructPointer     = InvalidError("invalid struct pointer")
	MetadataURITooLong       = InvalidError("metadata uri too long")
	MetadataURITooShort      = InvalidError("metadata uri too short")
	MintNotFound             = NotFoundError("mint not found")
	NotACampaignRecord       = InvalidError("not a campaign record")
	NotAvailableWhenStopped  = ProcessError("not available when stopped")
	NotAHoldingRecord        = InvalidError("not a holding record")
	NotAMintRecord           = InvalidError("not a mint record")
	NotAPackedRecord         = InvalidError("not a packed record")
	NotCampaignIdentifier    = InvalidError("not a campaign identifier")
	NotHoldingIdentifier     = InvalidError("not a holding identifier")
	NotInitialised           = NotFoundError("not initialised")
	NotPublicKey             = InvalidError("not a public key")
	NotPrivateKey            = InvalidError("not a private key")
	RaisedOverflow           = OverflowError("raised total overflow")
	SignatureTooLong         = InvalidError("signature too long")
	TitleTooLong             = InvalidError("title too long")
	TitleTooShort            = InvalidError("title too short")
	TransactionAlreadyInUse  = ProcessError("transaction already in use")
	WrongNetworkForPublicKey = InvalidError("wrong network for public key")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AuthorizationError) Error() string { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e InsufficientError) Error() string  { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e OverflowError) Error() string      { return string(e) }
func (e ProcessError) Error() string       { return string(e) }

// determine the class of an error
func IsErrAuthorization(e error) bool { _, ok := e.(AuthorizationError); return ok }
func IsErrExists(e error) bool        { _, ok := e.(ExistsError); return ok }
func IsErrInsufficient(e error) bool  { _, ok := e.(InsufficientError); return ok }
func IsErrInvalid(e error) bool       { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool      { _, ok := e.(NotFoundError); return ok }
func IsErrOverflow(e error) bool      { _, ok := e.(OverflowError); return ok }
func IsErrProcess(e error) bool       { _, ok := e.(ProcessError); return ok }
