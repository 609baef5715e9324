// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache_test

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/cache"
	"github.com/pledgenet/pledged/campaign"
	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/chain"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/mode"
	"github.com/pledgenet/pledged/storage"
)

// test database file
const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/test"
)

// Test main entrypoint
func TestMain(m *testing.M) {
	if err := setup(); nil != err {
		fmt.Fprintf(os.Stderr, "setup error: %s\n", err)
		os.Exit(1)
	}
	result := m.Run()
	teardown()
	os.Exit(result)
}

func removeFiles() {
	os.RemoveAll(testingDirName)
}

func setup() error {
	removeFiles()
	os.Mkdir(testingDirName, 0o700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "trace",
		},
	}

	_ = logger.Initialise(logging)

	_ = mode.Initialise(chain.Testing)

	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		return fmt.Errorf("storage initialise error: %s", err)
	}

	return cache.Initialise()
}

func teardown() {
	_ = cache.Finalise()
	storage.Finalise()
	_ = mode.Finalise()
	logger.Finalise()
	removeFiles()
}

// open a committed campaign owned by a deterministic key
func openCampaign(t *testing.T, fill byte, title string, goal uint64) campaignrecord.CampaignIdentifier {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	private := ed25519.NewKeyFromSeed(seed)
	authority, err := account.PublicKeyAccount(private.Public().(ed25519.PublicKey), true)
	if nil != err {
		t.Fatalf("account error: %s", err)
	}

	open := &campaignrecord.CampaignOpen{
		Authority:   authority,
		Title:       title,
		Goal:        goal,
		MetadataURI: "ipfs://meta-" + title,
	}
	message, err := open.Pack(authority)
	if nil == err {
		t.Fatal("pack without signature did not fail")
	}
	open.Signature = account.Signature(ed25519.Sign(private, message))

	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction begin error: %s", err)
	}
	campaignId, err := campaign.Open(trx, open, 0)
	if nil != err {
		trx.Abort()
		t.Fatalf("campaign open error: %s", err)
	}
	err = trx.Commit()
	if nil != err {
		t.Fatalf("transaction commit error: %s", err)
	}
	return campaignId
}

func TestCampaign(t *testing.T) {
	campaignId := openCampaign(t, 0x61, "cached campaign", 4000)

	state, err := cache.Campaign(campaignId)
	assert.Nil(t, err, "campaign fetch failed")
	assert.Equal(t, "cached campaign", state.Title, "wrong title")

	// second read comes from the cache
	again, err := cache.Campaign(campaignId)
	assert.Nil(t, err, "cached fetch failed")
	assert.Equal(t, state, again, "cache returned different record")
}

func TestCampaignNotFound(t *testing.T) {
	var campaignId campaignrecord.CampaignIdentifier
	for i := range campaignId {
		campaignId[i] = 0x99
	}

	_, err := cache.Campaign(campaignId)
	assert.Equal(t, fault.CampaignNotFound, err, "expected not found")
}

func TestInvalidate(t *testing.T) {
	campaignId := openCampaign(t, 0x62, "invalidated campaign", 4000)

	state, err := cache.Campaign(campaignId)
	assert.Nil(t, err, "campaign fetch failed")
	assert.Equal(t, uint64(0), state.Raised, "new campaign has raised funds")

	// change committed state behind the cache
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err, "transaction begin failed")
	state, err = campaign.Read(trx, campaignId)
	assert.Nil(t, err, "read failed")
	state.Raised = 123
	err = campaign.Update(trx, campaignId, state)
	assert.Nil(t, err, "update failed")
	err = trx.Commit()
	assert.Nil(t, err, "commit failed")

	cache.Invalidate(campaignId)

	state, err = cache.Campaign(campaignId)
	assert.Nil(t, err, "campaign fetch failed")
	assert.Equal(t, uint64(123), state.Raised, "stale record after invalidate")
}

func TestDirectory(t *testing.T) {
	campaignId := openCampaign(t, 0x63, "directory campaign", 4000)
	cache.Invalidate(campaignId)

	infos, err := cache.Directory()
	assert.Nil(t, err, "directory failed")

	found := false
	for _, info := range infos {
		if campaignId == info.CampaignId {
			found = true
			assert.Equal(t, "directory campaign", info.Campaign.Title, "wrong title")
		}
	}
	assert.True(t, found, "campaign missing from directory")

	// the listing itself is now cached
	again, err := cache.Directory()
	assert.Nil(t, err, "cached directory failed")
	assert.Equal(t, len(infos), len(again), "cache returned different directory")
}
