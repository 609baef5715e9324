// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package badge - donation badges
//
// every accepted donation mints exactly one unit of a fresh
// non-transferable badge into a holding owned by the donor; the badge
// key is single use, a second donation naming the same key is a replay
// and is rejected
package badge

import (
	"bytes"
	"errors"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/balance"
	"github.com/pledgenet/pledged/campaign"
	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/mode"
	"github.com/pledgenet/pledged/storage"
)

// HoldingInfo - a holding record together with its identifier
type HoldingInfo struct {
	HoldingId campaignrecord.HoldingIdentifier `json:"holdingId"`
	Holding   *campaignrecord.Holding          `json:"holding"`
}

// Donate - apply a donation to the store
//
// all stages are checked before any state is staged so a failure at
// any point leaves the campaign record byte for byte unchanged
func Donate(trx storage.Transaction, donation *campaignrecord.Donation, rent uint64) (campaignrecord.HoldingIdentifier, error) {
	var holdingId campaignrecord.HoldingIdentifier

	// repack validates fields, the donor signature and the badge
	// countersignature
	_, err := donation.Pack(donation.Donor)
	if nil != err {
		return holdingId, err
	}

	state, err := campaign.Read(trx, donation.CampaignId)
	if nil != err {
		return holdingId, err
	}

	// a reused badge key is a replayed donation
	badgeKey := donation.BadgeKey.PublicKeyBytes()
	if trx.Has(storage.Pool.Mints, badgeKey) {
		return holdingId, fault.BadgeAlreadyExists
	}

	holdingId = campaignrecord.NewHoldingIdentifier(donation.Donor, donation.BadgeKey)
	if trx.Has(storage.Pool.Holdings, holdingId[:]) {
		return holdingId, fault.BadgeAlreadyExists
	}

	raised := state.Raised + donation.Amount
	if raised < state.Raised {
		return holdingId, fault.RaisedOverflow
	}

	if 0 != rent {
		_, err = balance.Debit(trx, donation.Donor, rent)
		if nil != err {
			return holdingId, err
		}
	}

	state.Raised = raised
	err = campaign.Update(trx, donation.CampaignId, state)
	if nil != err {
		return holdingId, err
	}

	mint := &campaignrecord.Mint{
		BadgeKey:   donation.BadgeKey,
		CampaignId: donation.CampaignId,
		Flags:      campaignrecord.MintNonTransferable,
		Decimals:   0,
		Supply:     1,
	}
	packedMint, err := mint.PackState()
	if nil != err {
		return holdingId, err
	}
	trx.Put(storage.Pool.Mints, badgeKey, packedMint)

	holding := &campaignrecord.Holding{
		Owner:    donation.Donor,
		BadgeKey: donation.BadgeKey,
		Balance:  1,
	}
	packedHolding, err := holding.PackState()
	if nil != err {
		return holdingId, err
	}
	trx.Put(storage.Pool.Holdings, holdingId[:], packedHolding)

	trx.Put(storage.Pool.OwnerHoldings, ownerIndexKey(donation.Donor, holdingId), badgeKey)

	count, _ := trx.GetN(storage.Pool.DonationCounts, donation.CampaignId[:])
	trx.PutN(storage.Pool.DonationCounts, donation.CampaignId[:], count+1)

	return holdingId, nil
}

// Transfer - move badge units from one owner to another
//
// the mint flags decide transferability; donation badges always carry
// MintNonTransferable so this refuses them
func Transfer(trx storage.Transaction, owner *account.Account, newOwner *account.Account, badgeKey *account.Account) error {

	packedMint := trx.Get(storage.Pool.Mints, badgeKey.PublicKeyBytes())
	if nil == packedMint {
		return fault.MintNotFound
	}
	mint, err := campaignrecord.UnpackMint(packedMint, mode.IsTesting())
	if nil != err {
		return err
	}

	if 0 != mint.Flags&campaignrecord.MintNonTransferable {
		return fault.BadgeNotTransferable
	}

	sourceId := campaignrecord.NewHoldingIdentifier(owner, badgeKey)
	packedSource := trx.Get(storage.Pool.Holdings, sourceId[:])
	if nil == packedSource {
		return fault.HoldingNotFound
	}
	source, err := campaignrecord.UnpackHolding(packedSource, mode.IsTesting())
	if nil != err {
		return err
	}
	if source.Balance < 1 {
		return fault.InsufficientFunds
	}

	destinationId := campaignrecord.NewHoldingIdentifier(newOwner, badgeKey)
	destination := &campaignrecord.Holding{
		Owner:    newOwner,
		BadgeKey: badgeKey,
		Balance:  0,
	}
	packedDestination := trx.Get(storage.Pool.Holdings, destinationId[:])
	if nil != packedDestination {
		destination, err = campaignrecord.UnpackHolding(packedDestination, mode.IsTesting())
		if nil != err {
			return err
		}
	}

	source.Balance -= 1
	destination.Balance += 1

	packed, err := source.PackState()
	if nil != err {
		return err
	}
	trx.Put(storage.Pool.Holdings, sourceId[:], packed)

	packed, err = destination.PackState()
	if nil != err {
		return err
	}
	trx.Put(storage.Pool.Holdings, destinationId[:], packed)
	trx.Put(storage.Pool.OwnerHoldings, ownerIndexKey(newOwner, destinationId), badgeKey.PublicKeyBytes())

	return nil
}

// FetchMint - read a committed badge mint record
func FetchMint(badgeKey *account.Account) (*campaignrecord.Mint, error) {
	packed := storage.Pool.Mints.Get(badgeKey.PublicKeyBytes())
	if nil == packed {
		return nil, fault.MintNotFound
	}
	return campaignrecord.UnpackMint(packed, mode.IsTesting())
}

// FetchHolding - read a committed holding record
func FetchHolding(holdingId campaignrecord.HoldingIdentifier) (*campaignrecord.Holding, error) {
	packed := storage.Pool.Holdings.Get(holdingId[:])
	if nil == packed {
		return nil, fault.HoldingNotFound
	}
	return campaignrecord.UnpackHolding(packed, mode.IsTesting())
}

// terminates an index scan at the end of one owner's key range
var errEndOfRange = errors.New("end of range")

// ListByOwner - holdings owned by one account
func ListByOwner(owner *account.Account) ([]HoldingInfo, error) {
	publicKey := owner.PublicKeyBytes()
	results := []HoldingInfo(nil)

	cursor := storage.Pool.OwnerHoldings.NewFetchCursor().Seek(publicKey)
	err := cursor.Map(func(key []byte, value []byte) error {
		if len(key) != len(publicKey)+campaignrecord.HoldingIdentifierLength {
			return fault.NotHoldingIdentifier
		}
		if !bytes.Equal(key[:len(publicKey)], publicKey) {
			return errEndOfRange
		}

		var holdingId campaignrecord.HoldingIdentifier
		copy(holdingId[:], key[len(publicKey):])

		holding, err := FetchHolding(holdingId)
		if nil != err {
			return err
		}

		results = append(results, HoldingInfo{
			HoldingId: holdingId,
			Holding:   holding,
		})
		return nil
	})
	if nil != err && errEndOfRange != err {
		return nil, err
	}
	return results, nil
}

func ownerIndexKey(owner *account.Account, holdingId campaignrecord.HoldingIdentifier) []byte {
	publicKey := owner.PublicKeyBytes()
	key := make([]byte, 0, len(publicKey)+len(holdingId))
	key = append(key, publicKey...)
	key = append(key, holdingId[:]...)
	return key
}
