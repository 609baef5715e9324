// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package campaignrecord

import (
	"encoding/hex"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/util"
)

// TagType - type code for records
type TagType uint64

// enumerate the possible record types
// this is encoded as a Varint64 at the start of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	// instruction records submitted by clients
	CampaignOpenTag = TagType(iota) // create a campaign
	DonationTag     = TagType(iota) // donate and issue a badge

	// this item must be last
	InvalidTag = TagType(iota)
)

// Packed - packed records are just a byte slice
type Packed []byte

// Record - generic record interface
type Record interface {
	Pack(account *account.Account) (Packed, error)
}

// byte sizes for various fields
const (
	minTitleLength       = 1
	MaxTitleLength       = 50
	minMetadataURILength = 1
	MaxMetadataURILength = 200
	maxSignatureLength   = 1024
)

// mint flag bits
const (
	MintNonTransferable = byte(0x01)
)

// CampaignOpen - the unpacked campaign creation instruction
type CampaignOpen struct {
	Authority   *account.Account  `json:"authority"`   // base58
	Title       string            `json:"title"`       // utf-8
	Goal        uint64            `json:"goal,string"` // smallest unit of the funding asset
	MetadataURI string            `json:"metadataUri"` // utf-8, opaque
	Signature   account.Signature `json:"signature"`   // hex: corresponds to authority
}

// Donation - the unpacked donation instruction
//
// the badge key is a caller generated fresh identity; it must
// countersign so that a donation cannot name a key the caller does not
// control and so that a replay with the same identity is detectable
type Donation struct {
	CampaignId       CampaignIdentifier `json:"campaignId"`       // link to campaign record
	Amount           uint64             `json:"amount,string"`    // smallest unit of the funding asset
	Donor            *account.Account   `json:"donor"`            // base58: signs and pays rent
	BadgeKey         *account.Account   `json:"badgeKey"`         // base58: fresh badge mint identity
	Signature        account.Signature  `json:"signature"`        // hex: corresponds to donor
	Countersignature account.Signature  `json:"countersignature"` // hex: corresponds to badge key
}

// Campaign - the persisted campaign state record
//
/// storage layout (read by external indexers):
//   authority    32 bytes, bare public key
//   title        Varint64 length ++ utf-8 bytes
//   metadataUri  Varint64 length ++ utf-8 bytes
//   goal         8 bytes big endian
//   raised       8 bytes big endian
type Campaign struct {
	Authority   *account.Account `json:"authority"`
	Title       string           `json:"title"`
	MetadataURI string           `json:"metadataUri"`
	Goal        uint64           `json:"goal,string"`
	Raised      uint64           `json:"raised,string"`
}

// Mint - the persisted badge mint state record
//
// created once per donation; flags are fixed at creation and the
// transfer path refuses any mint carrying MintNonTransferable
type Mint struct {
	BadgeKey   *account.Account   `json:"badgeKey"`
	CampaignId CampaignIdentifier `json:"campaignId"`
	Flags      byte               `json:"flags"`
	Decimals   byte               `json:"decimals"`
	Supply     uint64             `json:"supply,string"`
}

// Holding - the persisted donor holding state record
type Holding struct {
	Owner    *account.Account `json:"owner"`
	BadgeKey *account.Account `json:"badgeKey"`
	Balance  uint64           `json:"balance,string"`
}

// Type - returns the record type code
func (record Packed) Type() TagType {
	recordType, n := util.FromVarint64(record)
	if 0 == n {
		return NullTag
	}
	return TagType(recordType)
}

// RecordName - returns the name of a record as a string
func RecordName(record interface{}) (string, bool) {
	switch record.(type) {
	case *CampaignOpen, CampaignOpen:
		return "CampaignOpen", true

	case *Donation, Donation:
		return "Donation", true

	default:
		return "*unknown*", false
	}
}

// CampaignId - compute the derived campaign identifier for this instruction
func (campaign *CampaignOpen) CampaignId() CampaignIdentifier {
	return NewCampaignIdentifier(campaign.Authority, campaign.Title)
}

// MarshalText - convert a packed to its hex JSON form
func (record Packed) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(record))
	b := make([]byte, size)
	hex.Encode(b, record)
	return b, nil
}

// UnmarshalText - convert a packed from its hex JSON form
func (record *Packed) UnmarshalText(s []byte) error {
	size := hex.DecodedLen(len(s))
	*record = make([]byte, size)
	_, err := hex.Decode(*record, s)
	return err
}
