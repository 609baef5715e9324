// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package executor_test

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/chain"
	"github.com/pledgenet/pledged/executor"
	"github.com/pledgenet/pledged/mode"
	"github.com/pledgenet/pledged/storage"
)

// test database file
const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/test"
)

// per-record rent for the executor under test
const (
	rentCampaign = 10
	rentDonation = 5
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

// remove all files created by test
func removeFiles() {
	os.RemoveAll(testingDirName)
}

// configure for testing
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

	// start logging
	_ = logger.Initialise(logging)

	_ = mode.Initialise(chain.Testing)
	mode.Set(mode.Normal)

	// open database
	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		return fmt.Errorf("storage initialise error: %s", err)
	}

	return executor.Initialise(rentCampaign, rentDonation)
}

// post test cleanup
func teardown() {
	_ = executor.Finalise()
	storage.Finalise()
	_ = mode.Finalise()
	logger.Finalise()
	removeFiles()
}

// deterministic keys for repeatable records

type keyPair struct {
	seed [ed25519.SeedSize]byte
}

func newKeyPair(fill byte) keyPair {
	k := keyPair{}
	for i := range k.seed {
		k.seed[i] = fill
	}
	return k
}

func (k keyPair) privateKey() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(k.seed[:])
}

func (k keyPair) account(t *testing.T) *account.Account {
	acc, err := account.PublicKeyAccount(k.privateKey().Public().(ed25519.PublicKey), true)
	if nil != err {
		t.Fatalf("account error: %s", err)
	}
	return acc
}

func (k keyPair) sign(message []byte) account.Signature {
	return account.Signature(ed25519.Sign(k.privateKey(), message))
}

// fully signed and packed campaign creation
func packOpen(t *testing.T, authority keyPair, title string, goal uint64) (campaignrecord.Packed, campaignrecord.CampaignIdentifier) {
	open := &campaignrecord.CampaignOpen{
		Authority:   authority.account(t),
		Title:       title,
		Goal:        goal,
		MetadataURI: "ipfs://meta-" + title,
	}
	message, err := open.Pack(open.Authority)
	if nil == err {
		t.Fatal("pack without signature did not fail")
	}
	open.Signature = authority.sign(message)

	packed, err := open.Pack(open.Authority)
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	return packed, open.CampaignId()
}

// fully countersigned and packed donation
func packDonation(t *testing.T, campaignId campaignrecord.CampaignIdentifier, amount uint64, donor keyPair, badgeKey keyPair) campaignrecord.Packed {
	donation := &campaignrecord.Donation{
		CampaignId: campaignId,
		Amount:     amount,
		Donor:      donor.account(t),
		BadgeKey:   badgeKey.account(t),
	}
	message, err := donation.Pack(donation.Donor)
	if nil == err {
		t.Fatal("pack without signature did not fail")
	}
	donation.Signature = donor.sign(message)

	message, err = donation.Pack(donation.Donor)
	if nil == err {
		t.Fatal("pack without countersignature did not fail")
	}
	donation.Countersignature = badgeKey.sign(message)

	packed, err := donation.Pack(donation.Donor)
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	return packed
}

// fund an account so it can pay rent
func fund(t *testing.T, owner *account.Account, amount uint64) {
	_, err := executor.Credit(owner, amount)
	if nil != err {
		t.Fatalf("credit error: %s", err)
	}
}
