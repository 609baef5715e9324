// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package campaignrecord

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/util"
)

// Pack - pack a CampaignOpen
//
// Pack Varint64(tag) followed by fields in order as struct above with
// signature last
//
// NOTE: returns the "unsigned" message on signature failure - for
//       signing and testing
func (campaign *CampaignOpen) Pack(address *account.Account) (Packed, error) {
	if len(campaign.Signature) > maxSignatureLength {
		return nil, fault.SignatureTooLong
	}

	if nil == campaign.Authority || nil == address {
		return nil, fault.InvalidDonorOrAuthority
	}

	if utf8.RuneCountInString(campaign.Title) < minTitleLength {
		return nil, fault.TitleTooShort
	}
	if utf8.RuneCountInString(campaign.Title) > MaxTitleLength {
		return nil, fault.TitleTooLong
	}

	if utf8.RuneCountInString(campaign.MetadataURI) < minMetadataURILength {
		return nil, fault.MetadataURITooShort
	}
	if utf8.RuneCountInString(campaign.MetadataURI) > MaxMetadataURILength {
		return nil, fault.MetadataURITooLong
	}

	if 0 == campaign.Goal {
		return nil, fault.GoalIsZero
	}

	// concatenate bytes
	message := util.ToVarint64(uint64(CampaignOpenTag))
	message = appendAccount(message, campaign.Authority)
	message = appendString(message, campaign.Title)
	message = appendUint64(message, campaign.Goal)
	message = appendString(message, campaign.MetadataURI)

	// signature
	err := address.CheckSignature(message, campaign.Signature)
	if nil != err {
		return message, err
	}
	// Signature Last
	return appendBytes(message, campaign.Signature), nil
}

// Pack - pack a Donation
//
// Pack Varint64(tag) followed by fields in order as struct above with
// the donor signature then the badge key countersignature last
//
// NOTE: returns the partially signed message on signature failure -
//       the donor signs the base message, the badge key countersigns
//       base message ++ donor signature
func (donation *Donation) Pack(address *account.Account) (Packed, error) {
	if len(donation.Signature) > maxSignatureLength {
		return nil, fault.SignatureTooLong
	}
	if len(donation.Countersignature) > maxSignatureLength {
		return nil, fault.SignatureTooLong
	}

	if nil == donation.Donor || nil == donation.BadgeKey || nil == address {
		return nil, fault.InvalidDonorOrAuthority
	}

	if 0 == donation.Amount {
		return nil, fault.DonationAmountIsZero
	}

	// concatenate bytes
	message := util.ToVarint64(uint64(DonationTag))
	message = appendBytes(message, donation.CampaignId[:])
	message = appendUint64(message, donation.Amount)
	message = appendAccount(message, donation.Donor)
	message = appendAccount(message, donation.BadgeKey)

	// signature
	err := address.CheckSignature(message, donation.Signature)
	if nil != err {
		return message, err
	}
	message = appendBytes(message, donation.Signature)

	// countersignature
	err = donation.BadgeKey.CheckSignature(message, donation.Countersignature)
	if nil != err {
		return message, fault.InvalidCountersignature
	}
	// Countersignature Last
	return appendBytes(message, donation.Countersignature), nil
}

// PackState - pack a Campaign state record
//
// no tag and no signature: the layout is the fixed account format
// that external indexers deserialize
func (campaign *Campaign) PackState() (Packed, error) {
	if nil == campaign.Authority {
		return nil, fault.InvalidDonorOrAuthority
	}
	if utf8.RuneCountInString(campaign.Title) < minTitleLength ||
		utf8.RuneCountInString(campaign.Title) > MaxTitleLength {
		return nil, fault.NotACampaignRecord
	}
	if utf8.RuneCountInString(campaign.MetadataURI) < minMetadataURILength ||
		utf8.RuneCountInString(campaign.MetadataURI) > MaxMetadataURILength {
		return nil, fault.NotACampaignRecord
	}

	message := Packed(campaign.Authority.PublicKeyBytes())
	message = appendString(message, campaign.Title)
	message = appendString(message, campaign.MetadataURI)
	message = appendFixed64(message, campaign.Goal)
	message = appendFixed64(message, campaign.Raised)
	return message, nil
}

// PackState - pack a Mint state record
func (mint *Mint) PackState() (Packed, error) {
	if nil == mint.BadgeKey {
		return nil, fault.NotAMintRecord
	}

	message := Packed(mint.BadgeKey.PublicKeyBytes())
	message = append(message, mint.CampaignId[:]...)
	message = append(message, mint.Flags, mint.Decimals)
	message = appendFixed64(message, mint.Supply)
	return message, nil
}

// PackState - pack a Holding state record
func (holding *Holding) PackState() (Packed, error) {
	if nil == holding.Owner || nil == holding.BadgeKey {
		return nil, fault.NotAHoldingRecord
	}

	message := Packed(holding.Owner.PublicKeyBytes())
	message = append(message, holding.BadgeKey.PublicKeyBytes()...)
	message = appendFixed64(message, holding.Balance)
	return message, nil
}

// append a single field to a buffer
//
// the field is prefixed by Varint64(length)
func appendString(buffer Packed, s string) Packed {
	l := util.ToVarint64(uint64(len(s)))
	buffer = append(buffer, l...)
	return append(buffer, s...)
}

// append an account to a buffer
//
// the field is prefixed by Varint64(length)
func appendAccount(buffer Packed, address *account.Account) Packed {
	data := address.Bytes()
	l := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, l...)
	return append(buffer, data...)
}

// append bytes to a buffer
//
// the field is prefixed by Varint64(length)
func appendBytes(buffer Packed, data []byte) Packed {
	l := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, l...)
	return append(buffer, data...)
}

// append a Varint64 to a buffer
func appendUint64(buffer Packed, value uint64) Packed {
	valueBytes := util.ToVarint64(value)
	return append(buffer, valueBytes...)
}

// append an 8 byte big endian value to a buffer
func appendFixed64(buffer Packed, value uint64) Packed {
	valueBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(valueBytes, value)
	return append(buffer, valueBytes...)
}
