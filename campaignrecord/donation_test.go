// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package campaignrecord_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/util"
)

// donation pack must append donor signature then badge
// countersignature, and unpack must return the original
func TestPackDonation(t *testing.T) {

	donorAccount := donor.account()
	badgeAccount := badge.account()
	campaignId := campaignrecord.NewCampaignIdentifier(authority.account(), "Test Campaign")

	r := campaignrecord.Donation{
		CampaignId: campaignId,
		Amount:     100,
		Donor:      donorAccount,
		BadgeKey:   badgeAccount,
	}

	expected := util.ToVarint64(uint64(campaignrecord.DonationTag))
	expected = append(expected, util.ToVarint64(uint64(len(campaignId)))...)
	expected = append(expected, campaignId[:]...)
	expected = append(expected, util.ToVarint64(r.Amount)...)
	d := donorAccount.Bytes()
	expected = append(expected, util.ToVarint64(uint64(len(d)))...)
	expected = append(expected, d...)
	b := badgeAccount.Bytes()
	expected = append(expected, util.ToVarint64(uint64(len(b)))...)
	expected = append(expected, b...)

	// donor signs the base message
	signature := donor.sign(expected)
	r.Signature = signature
	expected = append(expected, util.ToVarint64(uint64(len(signature)))...)
	expected = append(expected, signature...)

	// badge key countersigns base message ++ donor signature
	countersignature := badge.sign(expected)
	r.Countersignature = countersignature
	expected = append(expected, util.ToVarint64(uint64(len(countersignature)))...)
	expected = append(expected, countersignature...)

	// test the packer
	packed, err := r.Pack(donorAccount)
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	if !bytes.Equal(packed, expected) {
		t.Errorf("pack record: %x  expected: %x", packed, expected)
	}

	if campaignrecord.DonationTag != packed.Type() {
		t.Errorf("record type: %d  expected: %d", packed.Type(), campaignrecord.DonationTag)
	}

	// test the unpacker
	unpacked, n, err := packed.Unpack(true)
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	if len(packed) != n {
		t.Errorf("unpack consumed: %d  expected: %d", n, len(packed))
	}

	donation, ok := unpacked.(*campaignrecord.Donation)
	if !ok {
		t.Fatalf("unpacked to wrong type: %v", unpacked)
	}
	if !reflect.DeepEqual(&r, donation) {
		t.Errorf("unpacked: %v  expected: %v", donation, &r)
	}
}

// the two signing stages must fail with distinct errors
func TestPackDonationSignatureStages(t *testing.T) {

	donorAccount := donor.account()
	badgeAccount := badge.account()

	r := campaignrecord.Donation{
		CampaignId: campaignrecord.NewCampaignIdentifier(authority.account(), "Test Campaign"),
		Amount:     100,
		Donor:      donorAccount,
		BadgeKey:   badgeAccount,
	}

	// stage one: no donor signature yet
	message, err := r.Pack(donorAccount)
	if fault.InvalidSignature != err {
		t.Fatalf("unsigned pack error: %v  expected: %v", err, fault.InvalidSignature)
	}
	r.Signature = donor.sign(message)

	// stage two: no countersignature yet
	message, err = r.Pack(donorAccount)
	if fault.InvalidCountersignature != err {
		t.Fatalf("uncountersigned pack error: %v  expected: %v", err, fault.InvalidCountersignature)
	}

	// countersignature by the wrong key must be rejected
	r.Countersignature = intruder.sign(message)
	_, err = r.Pack(donorAccount)
	if fault.InvalidCountersignature != err {
		t.Errorf("forged countersignature error: %v  expected: %v", err, fault.InvalidCountersignature)
	}

	// and the correct key completes the record
	r.Countersignature = badge.sign(message)
	_, err = r.Pack(donorAccount)
	if nil != err {
		t.Errorf("pack error: %s", err)
	}
}

// a zero amount is a distinct invalid argument
func TestPackDonationZeroAmount(t *testing.T) {

	r := campaignrecord.Donation{
		CampaignId: campaignrecord.NewCampaignIdentifier(authority.account(), "Test Campaign"),
		Amount:     0,
		Donor:      donor.account(),
		BadgeKey:   badge.account(),
	}

	_, err := r.Pack(r.Donor)
	if fault.DonationAmountIsZero != err {
		t.Errorf("zero amount error: %v  expected: %v", err, fault.DonationAmountIsZero)
	}
}
