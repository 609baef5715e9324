// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package campaign - campaign state maintenance
//
// a campaign is created by a signed CampaignOpen instruction; its
// identifier is derived from the authority and title so a second
// creation with the same pair is always rejected, never overwritten
package campaign

import (
	"bytes"
	"errors"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/balance"
	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/mode"
	"github.com/pledgenet/pledged/storage"
)

// Info - a campaign record together with its identifier
type Info struct {
	CampaignId campaignrecord.CampaignIdentifier `json:"campaignId"`
	Campaign   *campaignrecord.Campaign          `json:"campaign"`
}

// Open - apply a campaign creation to the store
//
// the record is repacked to validate all fields and the authority
// signature before any state is staged
func Open(trx storage.Transaction, open *campaignrecord.CampaignOpen, rent uint64) (campaignrecord.CampaignIdentifier, error) {
	var campaignId campaignrecord.CampaignIdentifier

	_, err := open.Pack(open.Authority)
	if nil != err {
		return campaignId, err
	}

	campaignId = open.CampaignId()

	if trx.Has(storage.Pool.Campaigns, campaignId[:]) {
		return campaignId, fault.CampaignAlreadyExists
	}

	if 0 != rent {
		_, err = balance.Debit(trx, open.Authority, rent)
		if nil != err {
			return campaignId, err
		}
	}

	state := &campaignrecord.Campaign{
		Authority:   open.Authority,
		Title:       open.Title,
		MetadataURI: open.MetadataURI,
		Goal:        open.Goal,
		Raised:      0,
	}
	packed, err := state.PackState()
	if nil != err {
		return campaignId, err
	}

	trx.Put(storage.Pool.Campaigns, campaignId[:], packed)
	trx.Put(storage.Pool.AuthorityCampaigns, authorityIndexKey(open.Authority, campaignId), []byte(open.Title))

	return campaignId, nil
}

// Read - fetch campaign state inside a transaction
func Read(trx storage.Transaction, campaignId campaignrecord.CampaignIdentifier) (*campaignrecord.Campaign, error) {
	packed := trx.Get(storage.Pool.Campaigns, campaignId[:])
	if nil == packed {
		return nil, fault.CampaignNotFound
	}
	return campaignrecord.UnpackCampaign(packed, mode.IsTesting())
}

// Update - stage replacement campaign state
//
// only the raised total changes after creation
func Update(trx storage.Transaction, campaignId campaignrecord.CampaignIdentifier, state *campaignrecord.Campaign) error {
	packed, err := state.PackState()
	if nil != err {
		return err
	}
	trx.Put(storage.Pool.Campaigns, campaignId[:], packed)
	return nil
}

// Fetch - read committed campaign state
func Fetch(campaignId campaignrecord.CampaignIdentifier) (*campaignrecord.Campaign, error) {
	packed := storage.Pool.Campaigns.Get(campaignId[:])
	if nil == packed {
		return nil, fault.CampaignNotFound
	}
	return campaignrecord.UnpackCampaign(packed, mode.IsTesting())
}

// List - scan committed campaigns in identifier order
func List(count int) ([]Info, error) {
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	testnet := mode.IsTesting()
	results := make([]Info, 0, count)

	cursor := storage.Pool.Campaigns.NewFetchCursor()
	elements, err := cursor.Fetch(count)
	if nil != err {
		return nil, err
	}

	for _, e := range elements {
		var campaignId campaignrecord.CampaignIdentifier
		err = campaignrecord.CampaignIdentifierFromBytes(&campaignId, e.Key)
		if nil != err {
			return nil, err
		}
		state, err := campaignrecord.UnpackCampaign(e.Value, testnet)
		if nil != err {
			return nil, err
		}
		results = append(results, Info{
			CampaignId: campaignId,
			Campaign:   state,
		})
	}
	return results, nil
}

// terminates an index scan at the end of one authority's key range
var errEndOfRange = errors.New("end of range")

// ListByAuthority - campaigns created by one authority
//
// identifiers come from the index database, state is fetched per
// identifier
func ListByAuthority(authority *account.Account) ([]Info, error) {
	publicKey := authority.PublicKeyBytes()

	results := []Info(nil)

	cursor := storage.Pool.AuthorityCampaigns.NewFetchCursor().Seek(publicKey)
	err := cursor.Map(func(key []byte, value []byte) error {
		if len(key) != len(publicKey)+campaignrecord.CampaignIdentifierLength {
			return fault.NotCampaignIdentifier
		}
		if !bytes.Equal(key[:len(publicKey)], publicKey) {
			return errEndOfRange
		}

		var campaignId campaignrecord.CampaignIdentifier
		err := campaignrecord.CampaignIdentifierFromBytes(&campaignId, key[len(publicKey):])
		if nil != err {
			return err
		}

		state, err := Fetch(campaignId)
		if nil != err {
			return err
		}

		results = append(results, Info{
			CampaignId: campaignId,
			Campaign:   state,
		})
		return nil
	})
	if nil != err && errEndOfRange != err {
		return nil, err
	}
	return results, nil
}

// DonationCount - committed number of donations a campaign received
func DonationCount(campaignId campaignrecord.CampaignIdentifier) uint64 {
	n, _ := storage.Pool.DonationCounts.GetN(campaignId[:])
	return n
}

func authorityIndexKey(authority *account.Account, campaignId campaignrecord.CampaignIdentifier) []byte {
	publicKey := authority.PublicKeyBytes()
	key := make([]byte, 0, len(publicKey)+len(campaignId))
	key = append(key, publicKey...)
	key = append(key, campaignId[:]...)
	return key
}
