// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package executor_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pledgenet/pledged/badge"
	"github.com/pledgenet/pledged/balance"
	"github.com/pledgenet/pledged/campaign"
	"github.com/pledgenet/pledged/executor"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/mode"
)

func TestExecuteCampaignOpen(t *testing.T) {
	authority := newKeyPair(0x71)
	fund(t, authority.account(t), 100)

	packed, campaignId := packOpen(t, authority, "executed campaign", 5000)

	result, err := executor.Execute(packed)
	assert.Nil(t, err, "execute failed")
	assert.Equal(t, "campaign-created", result.Action, "wrong action")
	assert.Equal(t, campaignId, *result.CampaignId, "wrong campaign identifier")

	state, err := campaign.Fetch(campaignId)
	assert.Nil(t, err, "fetch failed")
	assert.Equal(t, uint64(5000), state.Goal, "wrong goal")
	assert.Equal(t, uint64(0), state.Raised, "new campaign has raised funds")

	// rent was charged
	assert.Equal(t, uint64(100-rentCampaign), balance.CommittedBalance(authority.account(t)), "wrong balance after rent")
}

func TestExecuteDonation(t *testing.T) {
	authority := newKeyPair(0x72)
	donor := newKeyPair(0x73)
	badgeKey := newKeyPair(0x74)

	fund(t, authority.account(t), 100)
	fund(t, donor.account(t), 100)

	packed, campaignId := packOpen(t, authority, "donated campaign", 5000)
	_, err := executor.Execute(packed)
	assert.Nil(t, err, "campaign execute failed")

	result, err := executor.Execute(packDonation(t, campaignId, 1234, donor, badgeKey))
	assert.Nil(t, err, "donation execute failed")
	assert.Equal(t, "badge-minted", result.Action, "wrong action")
	assert.Equal(t, campaignId, *result.CampaignId, "wrong campaign identifier")
	assert.Equal(t, uint64(1234), result.Raised, "wrong raised total")

	holding, err := badge.FetchHolding(*result.HoldingId)
	assert.Nil(t, err, "holding fetch failed")
	assert.Equal(t, uint64(1), holding.Balance, "wrong holding balance")

	assert.Equal(t, uint64(100-rentDonation), balance.CommittedBalance(donor.account(t)), "wrong balance after rent")
}

func TestExecuteInsufficientRent(t *testing.T) {
	authority := newKeyPair(0x75)

	packed, campaignId := packOpen(t, authority, "unfunded campaign", 5000)

	_, err := executor.Execute(packed)
	assert.Equal(t, fault.InsufficientFunds, err, "expected insufficient funds")

	_, err = campaign.Fetch(campaignId)
	assert.Equal(t, fault.CampaignNotFound, err, "rejected campaign was stored")
}

func TestExecuteGarbage(t *testing.T) {
	_, err := executor.Execute([]byte{0xff, 0x01, 0x02})
	assert.NotNil(t, err, "garbage was executed")
}

func TestExecuteStopped(t *testing.T) {
	authority := newKeyPair(0x76)
	fund(t, authority.account(t), 100)

	packed, _ := packOpen(t, authority, "stopped campaign", 5000)

	mode.Set(mode.Stopped)
	_, err := executor.Execute(packed)
	assert.Equal(t, fault.NotAvailableWhenStopped, err, "expected not available")

	_, err = executor.Credit(authority.account(t), 10)
	assert.Equal(t, fault.NotAvailableWhenStopped, err, "expected not available")
	mode.Set(mode.Normal)

	_, err = executor.Execute(packed)
	assert.Nil(t, err, "execute after restart failed")
}

func TestExecuteConcurrentDuplicate(t *testing.T) {
	authority := newKeyPair(0x77)
	fund(t, authority.account(t), 1000)

	packed, _ := packOpen(t, authority, "raced campaign", 5000)

	const racers = 8

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i += 1 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = executor.Execute(packed)
		}(i)
	}
	wg.Wait()

	// exactly one creation wins
	created := 0
	for _, err := range errs {
		switch err {
		case nil:
			created += 1
		case fault.CampaignAlreadyExists:
			// expected for the losers
		default:
			t.Fatalf("unexpected error: %s", err)
		}
	}
	assert.Equal(t, 1, created, "wrong number of created campaigns")

	// one creation, one rent charge
	assert.Equal(t, uint64(1000-rentCampaign), balance.CommittedBalance(authority.account(t)), "wrong balance after race")
}
