// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package campaignrecord

import (
	"encoding/binary"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/util"
)

const (
	publicKeyLength = 32
	fixed64Length   = 8
)

// Unpack - turn a byte slice into an instruction record
//
// the unpacker only decodes fields; signatures are verified by
// repacking the result during execution
//
// must cast result to the correct type
//
// e.g.
//   open, ok := result.(*campaignrecord.CampaignOpen)
// or:
//   switch instruction := result.(type) {
//   case *campaignrecord.CampaignOpen:
func (record Packed) Unpack(testnet bool) (r Record, n int, e error) {

	defer func() {
		if p := recover(); nil != p {
			e = fault.NotAPackedRecord
		}
	}()

	recordType, n := util.ClippedVarint64(record, 1, 8192)
	if 0 == n {
		return nil, 0, fault.NotAPackedRecord
	}

unpack_switch:
	switch TagType(recordType) {

	case CampaignOpenTag:

		// authority
		authorityLength, authorityOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == authorityOffset {
			break unpack_switch
		}
		n += authorityOffset
		authority, err := account.AccountFromBytes(record[n : n+authorityLength])
		if nil != err {
			return nil, 0, err
		}
		if authority.IsTesting() != testnet {
			return nil, 0, fault.WrongNetworkForPublicKey
		}
		n += authorityLength

		// title
		titleLength, titleOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == titleOffset {
			break unpack_switch
		}
		n += titleOffset
		title := string(record[n : n+titleLength])
		n += titleLength

		// goal
		goal, goalLength := util.FromVarint64(record[n:])
		if 0 == goalLength {
			break unpack_switch
		}
		n += goalLength

		// metadata uri
		uriLength, uriOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == uriOffset {
			break unpack_switch
		}
		n += uriOffset
		metadataURI := string(record[n : n+uriLength])
		n += uriLength

		// signature is remainder of record
		signatureLength, signatureOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == signatureOffset {
			break unpack_switch
		}
		n += signatureOffset
		signature := make(account.Signature, signatureLength)
		copy(signature, record[n:n+signatureLength])
		n += signatureLength

		r := &CampaignOpen{
			Authority:   authority,
			Title:       title,
			Goal:        goal,
			MetadataURI: metadataURI,
			Signature:   signature,
		}
		return r, n, nil

	case DonationTag:

		// campaign id
		idLength, idOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == idOffset {
			break unpack_switch
		}
		n += idOffset
		var campaignId CampaignIdentifier
		err := CampaignIdentifierFromBytes(&campaignId, record[n:n+idLength])
		if nil != err {
			return nil, 0, err
		}
		n += idLength

		// amount
		amount, amountLength := util.FromVarint64(record[n:])
		if 0 == amountLength {
			break unpack_switch
		}
		n += amountLength

		// donor
		donorLength, donorOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == donorOffset {
			break unpack_switch
		}
		n += donorOffset
		donor, err := account.AccountFromBytes(record[n : n+donorLength])
		if nil != err {
			return nil, 0, err
		}
		if donor.IsTesting() != testnet {
			return nil, 0, fault.WrongNetworkForPublicKey
		}
		n += donorLength

		// badge key
		badgeLength, badgeOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == badgeOffset {
			break unpack_switch
		}
		n += badgeOffset
		badgeKey, err := account.AccountFromBytes(record[n : n+badgeLength])
		if nil != err {
			return nil, 0, err
		}
		if badgeKey.IsTesting() != testnet {
			return nil, 0, fault.WrongNetworkForPublicKey
		}
		n += badgeLength

		// signature
		signatureLength, signatureOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == signatureOffset {
			break unpack_switch
		}
		n += signatureOffset
		signature := make(account.Signature, signatureLength)
		copy(signature, record[n:n+signatureLength])
		n += signatureLength

		// countersignature is remainder of record
		countersignatureLength, countersignatureOffset := util.ClippedVarint64(record[n:], 1, 8192)
		if 0 == countersignatureOffset {
			break unpack_switch
		}
		n += countersignatureOffset
		countersignature := make(account.Signature, countersignatureLength)
		copy(countersignature, record[n:n+countersignatureLength])
		n += countersignatureLength

		r := &Donation{
			CampaignId:       campaignId,
			Amount:           amount,
			Donor:            donor,
			BadgeKey:         badgeKey,
			Signature:        signature,
			Countersignature: countersignature,
		}
		return r, n, nil
	}
	return nil, 0, fault.NotAPackedRecord
}

// UnpackCampaign - decode a Campaign state record
func UnpackCampaign(buffer []byte, testnet bool) (c *Campaign, e error) {

	defer func() {
		if p := recover(); nil != p {
			e = fault.NotACampaignRecord
		}
	}()

	if len(buffer) < publicKeyLength {
		return nil, fault.NotACampaignRecord
	}
	authority, err := account.PublicKeyAccount(buffer[:publicKeyLength], testnet)
	if nil != err {
		return nil, err
	}
	n := publicKeyLength

	titleLength, titleOffset := util.ClippedVarint64(buffer[n:], 1, MaxTitleLength*4)
	if 0 == titleOffset {
		return nil, fault.NotACampaignRecord
	}
	n += titleOffset
	title := string(buffer[n : n+titleLength])
	n += titleLength

	uriLength, uriOffset := util.ClippedVarint64(buffer[n:], 1, MaxMetadataURILength*4)
	if 0 == uriOffset {
		return nil, fault.NotACampaignRecord
	}
	n += uriOffset
	metadataURI := string(buffer[n : n+uriLength])
	n += uriLength

	if len(buffer) != n+2*fixed64Length {
		return nil, fault.NotACampaignRecord
	}
	goal := binary.BigEndian.Uint64(buffer[n:])
	raised := binary.BigEndian.Uint64(buffer[n+fixed64Length:])

	return &Campaign{
		Authority:   authority,
		Title:       title,
		MetadataURI: metadataURI,
		Goal:        goal,
		Raised:      raised,
	}, nil
}

// UnpackMint - decode a Mint state record
func UnpackMint(buffer []byte, testnet bool) (*Mint, error) {

	if len(buffer) != publicKeyLength+CampaignIdentifierLength+2+fixed64Length {
		return nil, fault.NotAMintRecord
	}

	badgeKey, err := account.PublicKeyAccount(buffer[:publicKeyLength], testnet)
	if nil != err {
		return nil, err
	}
	n := publicKeyLength

	var campaignId CampaignIdentifier
	err = CampaignIdentifierFromBytes(&campaignId, buffer[n:n+CampaignIdentifierLength])
	if nil != err {
		return nil, err
	}
	n += CampaignIdentifierLength

	flags := buffer[n]
	decimals := buffer[n+1]
	n += 2

	supply := binary.BigEndian.Uint64(buffer[n:])

	return &Mint{
		BadgeKey:   badgeKey,
		CampaignId: campaignId,
		Flags:      flags,
		Decimals:   decimals,
		Supply:     supply,
	}, nil
}

// UnpackHolding - decode a Holding state record
func UnpackHolding(buffer []byte, testnet bool) (*Holding, error) {

	if len(buffer) != 2*publicKeyLength+fixed64Length {
		return nil, fault.NotAHoldingRecord
	}

	owner, err := account.PublicKeyAccount(buffer[:publicKeyLength], testnet)
	if nil != err {
		return nil, err
	}

	badgeKey, err := account.PublicKeyAccount(buffer[publicKeyLength:2*publicKeyLength], testnet)
	if nil != err {
		return nil, err
	}

	balance := binary.BigEndian.Uint64(buffer[2*publicKeyLength:])

	return &Holding{
		Owner:    owner,
		BadgeKey: badgeKey,
		Balance:  balance,
	}, nil
}
