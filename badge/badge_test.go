// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package badge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pledgenet/pledged/badge"
	"github.com/pledgenet/pledged/balance"
	"github.com/pledgenet/pledged/campaign"
	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/storage"
)

func TestDonate(t *testing.T) {
	authority := newKeyPair(0xb1)
	donor := newKeyPair(0xb2)
	badgeKey := newKeyPair(0xb3)

	campaignId := openCampaign(t, authority, "first donation", 100000)
	donation := makeDonation(t, campaignId, 2500, donor, badgeKey)

	trx := begin(t)
	holdingId, err := badge.Donate(trx, donation, 0)
	assert.Nil(t, err, "donate failed")
	err = trx.Commit()
	assert.Nil(t, err, "commit failed")

	// raised accumulates
	state, err := campaign.Fetch(campaignId)
	assert.Nil(t, err, "fetch failed")
	assert.Equal(t, uint64(2500), state.Raised, "wrong raised total")

	// badge mint is fixed supply and soulbound
	mint, err := badge.FetchMint(donation.BadgeKey)
	assert.Nil(t, err, "mint fetch failed")
	assert.Equal(t, campaignId, mint.CampaignId, "wrong mint campaign")
	assert.Equal(t, campaignrecord.MintNonTransferable, mint.Flags&campaignrecord.MintNonTransferable, "mint is transferable")
	assert.Equal(t, byte(0), mint.Decimals, "wrong decimals")
	assert.Equal(t, uint64(1), mint.Supply, "wrong supply")

	// the donor holds exactly one unit
	holding, err := badge.FetchHolding(holdingId)
	assert.Nil(t, err, "holding fetch failed")
	assert.Equal(t, donation.Donor, holding.Owner, "wrong holding owner")
	assert.Equal(t, donation.BadgeKey, holding.BadgeKey, "wrong holding badge key")
	assert.Equal(t, uint64(1), holding.Balance, "wrong holding balance")

	assert.Equal(t, uint64(1), campaign.DonationCount(campaignId), "wrong donation count")
}

func TestDonateAccumulates(t *testing.T) {
	authority := newKeyPair(0xb4)
	donor := newKeyPair(0xb5)

	campaignId := openCampaign(t, authority, "accumulating", 10000)

	amounts := []uint64{100, 200, 300}
	total := uint64(0)
	for i, amount := range amounts {
		badgeKey := newKeyPair(0xc0 + byte(i))
		donation := makeDonation(t, campaignId, amount, donor, badgeKey)

		trx := begin(t)
		_, err := badge.Donate(trx, donation, 0)
		assert.Nil(t, err, "donate failed")
		err = trx.Commit()
		assert.Nil(t, err, "commit failed")

		total += amount
		state, err := campaign.Fetch(campaignId)
		assert.Nil(t, err, "fetch failed")
		assert.Equal(t, total, state.Raised, "wrong raised total")
	}

	// over funding is allowed, raised may exceed goal
	badgeKey := newKeyPair(0xc8)
	donation := makeDonation(t, campaignId, 100000, donor, badgeKey)
	trx := begin(t)
	_, err := badge.Donate(trx, donation, 0)
	assert.Nil(t, err, "over funding donate failed")
	err = trx.Commit()
	assert.Nil(t, err, "commit failed")

	state, err := campaign.Fetch(campaignId)
	assert.Nil(t, err, "fetch failed")
	assert.True(t, state.Raised > state.Goal, "raised not allowed past goal")

	assert.Equal(t, uint64(4), campaign.DonationCount(campaignId), "wrong donation count")
}

func TestDonateReplay(t *testing.T) {
	authority := newKeyPair(0xb6)
	donor := newKeyPair(0xb7)
	badgeKey := newKeyPair(0xb8)

	campaignId := openCampaign(t, authority, "replayed", 10000)
	donation := makeDonation(t, campaignId, 500, donor, badgeKey)

	trx := begin(t)
	_, err := badge.Donate(trx, donation, 0)
	assert.Nil(t, err, "donate failed")
	err = trx.Commit()
	assert.Nil(t, err, "commit failed")

	before := storage.Pool.Campaigns.Get(campaignId[:])

	// the same countersigned record again
	trx = begin(t)
	_, err = badge.Donate(trx, donation, 0)
	assert.Equal(t, fault.BadgeAlreadyExists, err, "expected badge already exists")
	trx.Abort()

	// a fresh donation reusing the badge key is also a replay
	replay := makeDonation(t, campaignId, 999, donor, badgeKey)
	trx = begin(t)
	_, err = badge.Donate(trx, replay, 0)
	assert.Equal(t, fault.BadgeAlreadyExists, err, "expected badge already exists")
	trx.Abort()

	after := storage.Pool.Campaigns.Get(campaignId[:])
	assert.Equal(t, before, after, "campaign record changed by rejected donation")
}

func TestDonateUnknownCampaign(t *testing.T) {
	donor := newKeyPair(0xb9)
	badgeKey := newKeyPair(0xba)

	var campaignId campaignrecord.CampaignIdentifier
	for i := range campaignId {
		campaignId[i] = 0xee
	}

	donation := makeDonation(t, campaignId, 500, donor, badgeKey)

	trx := begin(t)
	defer trx.Abort()
	_, err := badge.Donate(trx, donation, 0)
	assert.Equal(t, fault.CampaignNotFound, err, "expected campaign not found")
}

func TestDonateOverflow(t *testing.T) {
	authority := newKeyPair(0xbb)
	donor := newKeyPair(0xbc)
	badgeKey := newKeyPair(0xbd)

	campaignId := openCampaign(t, authority, "overflowing", 10000)

	// push raised close to the limit
	trx := begin(t)
	state, err := campaign.Read(trx, campaignId)
	assert.Nil(t, err, "read failed")
	state.Raised = ^uint64(0) - 5
	err = campaign.Update(trx, campaignId, state)
	assert.Nil(t, err, "update failed")
	err = trx.Commit()
	assert.Nil(t, err, "commit failed")

	before := storage.Pool.Campaigns.Get(campaignId[:])

	donation := makeDonation(t, campaignId, 10, donor, badgeKey)
	trx = begin(t)
	_, err = badge.Donate(trx, donation, 0)
	assert.Equal(t, fault.RaisedOverflow, err, "expected overflow")
	trx.Abort()

	// no badge, no holding, campaign byte for byte unchanged
	after := storage.Pool.Campaigns.Get(campaignId[:])
	assert.Equal(t, before, after, "campaign record changed by rejected donation")

	_, err = badge.FetchMint(donation.BadgeKey)
	assert.Equal(t, fault.MintNotFound, err, "rejected donation minted a badge")
}

func TestDonateTamperedAmount(t *testing.T) {
	authority := newKeyPair(0xbe)
	donor := newKeyPair(0xbf)
	badgeKey := newKeyPair(0xd0)

	campaignId := openCampaign(t, authority, "tampered donation", 10000)
	donation := makeDonation(t, campaignId, 500, donor, badgeKey)
	donation.Amount = 1 // invalidates both signatures

	trx := begin(t)
	defer trx.Abort()
	_, err := badge.Donate(trx, donation, 0)
	assert.Equal(t, fault.InvalidSignature, err, "expected invalid signature")
}

func TestDonateRent(t *testing.T) {
	authority := newKeyPair(0xd1)
	donor := newKeyPair(0xd2)
	badgeKey := newKeyPair(0xd3)

	campaignId := openCampaign(t, authority, "rented donation", 10000)
	donation := makeDonation(t, campaignId, 500, donor, badgeKey)

	const rent = 100

	trx := begin(t)
	_, err := badge.Donate(trx, donation, rent)
	assert.Equal(t, fault.InsufficientFunds, err, "expected insufficient funds")
	trx.Abort()

	trx = begin(t)
	_, err = balance.Credit(trx, donation.Donor, 150)
	assert.Nil(t, err, "credit failed")
	_, err = badge.Donate(trx, donation, rent)
	assert.Nil(t, err, "donate failed")
	assert.Equal(t, uint64(50), balance.Balance(trx, donation.Donor), "rent not debited")
	err = trx.Commit()
	assert.Nil(t, err, "commit failed")
}

func TestTransferRefused(t *testing.T) {
	authority := newKeyPair(0xd4)
	donor := newKeyPair(0xd5)
	badgeKey := newKeyPair(0xd6)
	receiver := newKeyPair(0xd7)

	campaignId := openCampaign(t, authority, "soulbound", 10000)
	donation := makeDonation(t, campaignId, 500, donor, badgeKey)

	trx := begin(t)
	holdingId, err := badge.Donate(trx, donation, 0)
	assert.Nil(t, err, "donate failed")
	err = trx.Commit()
	assert.Nil(t, err, "commit failed")

	trx = begin(t)
	defer trx.Abort()
	err = badge.Transfer(trx, donation.Donor, receiver.account(t), donation.BadgeKey)
	assert.Equal(t, fault.BadgeNotTransferable, err, "expected not transferable")

	// the holding still belongs to the donor
	holding, err := badge.FetchHolding(holdingId)
	assert.Nil(t, err, "holding fetch failed")
	assert.Equal(t, donation.Donor, holding.Owner, "holding owner changed")
	assert.Equal(t, uint64(1), holding.Balance, "holding balance changed")
}

func TestTransferUnknownMint(t *testing.T) {
	donor := newKeyPair(0xd8)
	receiver := newKeyPair(0xd9)
	badgeKey := newKeyPair(0xda)

	trx := begin(t)
	defer trx.Abort()
	err := badge.Transfer(trx, donor.account(t), receiver.account(t), badgeKey.account(t))
	assert.Equal(t, fault.MintNotFound, err, "expected mint not found")
}

func TestListByOwner(t *testing.T) {
	authority := newKeyPair(0xdb)
	donor := newKeyPair(0xdc)

	campaignId := openCampaign(t, authority, "listing holdings", 10000)

	expected := map[campaignrecord.HoldingIdentifier]uint64{}
	for i := 0; i < 3; i += 1 {
		badgeKey := newKeyPair(0xe0 + byte(i))
		donation := makeDonation(t, campaignId, 100+uint64(i), donor, badgeKey)

		trx := begin(t)
		holdingId, err := badge.Donate(trx, donation, 0)
		assert.Nil(t, err, "donate failed")
		err = trx.Commit()
		assert.Nil(t, err, "commit failed")

		expected[holdingId] = 1
	}

	infos, err := badge.ListByOwner(donor.account(t))
	assert.Nil(t, err, "list failed")
	assert.Equal(t, len(expected), len(infos), "wrong holding count")
	for _, info := range infos {
		balance, ok := expected[info.HoldingId]
		assert.True(t, ok, "unexpected holding listed")
		assert.Equal(t, balance, info.Holding.Balance, "wrong holding balance")
	}
}
