// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package executor - apply packed instructions to the store
//
// instructions are unpacked, dispatched by tag and applied inside the
// single global storage transaction; identifiers named by an
// instruction are locked for its duration so two identical creations
// race to a lock and the loser fails the exists check, it can never
// overwrite
package executor

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/badge"
	"github.com/pledgenet/pledged/balance"
	"github.com/pledgenet/pledged/campaign"
	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/mode"
	"github.com/pledgenet/pledged/storage"
)

// Result - the outcome of an applied instruction
type Result struct {
	Action     string                             `json:"action"`
	CampaignId *campaignrecord.CampaignIdentifier `json:"campaignId,omitempty"`
	HoldingId  *campaignrecord.HoldingIdentifier  `json:"holdingId,omitempty"`
	Raised     uint64                             `json:"raised,string"`
}

// serialises use of the single global storage transaction, waiters
// block instead of failing the begin
var trxMutex sync.Mutex

var globalData struct {
	sync.RWMutex
	log          *logger.L
	rentCampaign uint64
	rentDonation uint64

	// set once during initialise
	initialised bool
}

// Initialise - set up the executor
//
// rent values are the per-record charge debited from the signer of
// each applied instruction, zero disables charging
func Initialise(rentCampaign uint64, rentDonation uint64) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("executor")
	globalData.log.Info("starting…")

	globalData.rentCampaign = rentCampaign
	globalData.rentDonation = rentDonation

	globalData.initialised = true
	return nil
}

// Finalise - shutdown the executor
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.initialised = false
	return nil
}

// Execute - unpack a packed instruction and apply it
func Execute(packed campaignrecord.Packed) (*Result, error) {
	if mode.IsNot(mode.Normal) {
		return nil, fault.NotAvailableWhenStopped
	}

	record, _, err := packed.Unpack(mode.IsTesting())
	if nil != err {
		return nil, err
	}

	switch record := record.(type) {
	case *campaignrecord.CampaignOpen:
		return executeCampaignOpen(record)
	case *campaignrecord.Donation:
		return executeDonation(record)
	default:
		return nil, fault.NotAPackedRecord
	}
}

func executeCampaignOpen(open *campaignrecord.CampaignOpen) (*Result, error) {
	log := globalData.log

	campaignId := open.CampaignId()

	unlock := lock(campaignId[:])
	defer unlock()

	trxMutex.Lock()
	defer trxMutex.Unlock()

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return nil, err
	}

	campaignId, err = campaign.Open(trx, open, globalData.rentCampaign)
	if nil != err {
		trx.Abort()
		log.Warnf("campaign open rejected: %s", err)
		return nil, err
	}

	err = trx.Commit()
	if nil != err {
		trx.Abort()
		return nil, err
	}

	log.Infof("campaign created: %v", campaignId)

	return &Result{
		Action:     "campaign-created",
		CampaignId: &campaignId,
	}, nil
}

func executeDonation(donation *campaignrecord.Donation) (*Result, error) {
	log := globalData.log

	badgeKey := donation.BadgeKey.PublicKeyBytes()

	unlock := lock(donation.CampaignId[:], badgeKey)
	defer unlock()

	trxMutex.Lock()
	defer trxMutex.Unlock()

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return nil, err
	}

	holdingId, err := badge.Donate(trx, donation, globalData.rentDonation)
	if nil != err {
		trx.Abort()
		log.Warnf("donation rejected: %s", err)
		return nil, err
	}

	state, err := campaign.Read(trx, donation.CampaignId)
	if nil != err {
		trx.Abort()
		return nil, err
	}

	err = trx.Commit()
	if nil != err {
		trx.Abort()
		return nil, err
	}

	log.Infof("badge minted: %v  raised: %d", holdingId, state.Raised)

	return &Result{
		Action:     "badge-minted",
		CampaignId: &donation.CampaignId,
		HoldingId:  &holdingId,
		Raised:     state.Raised,
	}, nil
}

// Credit - settle external funds into an owner balance
//
// this is the feed for the rent charges, it is not a packed
// instruction as the settlement proof is checked upstream
func Credit(owner *account.Account, amount uint64) (uint64, error) {
	if mode.IsNot(mode.Normal) {
		return 0, fault.NotAvailableWhenStopped
	}

	unlock := lock(owner.PublicKeyBytes())
	defer unlock()

	trxMutex.Lock()
	defer trxMutex.Unlock()

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return 0, err
	}

	total, err := balance.Credit(trx, owner, amount)
	if nil != err {
		trx.Abort()
		return 0, err
	}

	err = trx.Commit()
	if nil != err {
		trx.Abort()
		return 0, err
	}

	globalData.log.Infof("credit: %d  new balance: %d", amount, total)
	return total, nil
}
