// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/badge"
	"github.com/pledgenet/pledged/balance"
	"github.com/pledgenet/pledged/cache"
	"github.com/pledgenet/pledged/campaign"
	"github.com/pledgenet/pledged/campaignrecord"
	"github.com/pledgenet/pledged/executor"
	"github.com/pledgenet/pledged/mode"
	"github.com/pledgenet/pledged/util"
)

const (
	liveIdentityFilename = "identity.live"
	testIdentityFilename = "identity.test"
)

// setup command handler
//
// commands that run to create key files these commands cannot access
// any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-identity", "id":
		liveFilename := getFilenameWithDirectory(arguments, liveIdentityFilename)
		testFilename := getFilenameWithDirectory(arguments, testIdentityFilename)

		if util.EnsureFileExists(liveFilename) || util.EnsureFileExists(testFilename) {
			fmt.Printf("generate identity: %q error: file already exists\n", liveFilename)
			exitwithstatus.Exit(1)
		}

		if err := makeIdentity(false, liveFilename); nil != err {
			fmt.Printf("generate identity for livenet: %q error: %s\n", liveFilename, err)
			exitwithstatus.Exit(1)
		}
		if err := makeIdentity(true, testFilename); nil != err {
			_ = os.Remove(liveFilename)
			fmt.Printf("generate identity for testnet: %q error: %s\n", testFilename, err)
			exitwithstatus.Exit(1)
		}

		fmt.Printf("generated identities: %q and %q\n", liveFilename, testFilename)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "open-campaign", "open", "donate", "d", "credit",
		"list-campaigns", "list", "show-campaign", "show",
		"holdings", "balance":
		return false // defer processing until database is loaded

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                                (h)     - display this message\n\n")
		fmt.Printf("  version                             (v)     - display version string\n\n")

		fmt.Printf("  gen-identity [DIR]                  (id)    - create signing identities in: %q\n", "DIR/"+liveIdentityFilename)
		fmt.Printf("                                                and: %q\n", "DIR/"+testIdentityFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                               (run)   - just run the program, same as no arguments\n")
		fmt.Printf("                                                for convenience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                         (cfg)   - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  open-campaign KEY TITLE GOAL URI    (open)  - create a campaign signed by KEY\n")
		fmt.Printf("\n")

		fmt.Printf("  donate KEY CAMPAIGN-ID AMOUNT       (d)     - donate to a campaign, mints a badge\n")
		fmt.Printf("\n")

		fmt.Printf("  credit ACCOUNT AMOUNT                       - settle external funds into a balance\n")
		fmt.Printf("\n")

		fmt.Printf("  list-campaigns                      (list)  - display all campaigns\n")
		fmt.Printf("\n")

		fmt.Printf("  show-campaign CAMPAIGN-ID           (show)  - display one campaign\n")
		fmt.Printf("\n")

		fmt.Printf("  holdings ACCOUNT                            - display badges held by an account\n")
		fmt.Printf("\n")

		fmt.Printf("  balance ACCOUNT                             - display the rent balance of an account\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the internal pools are enabled so these commands can access and/or
// change the databases
func processDataCommand(log *logger.L, arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "open-campaign", "open":
		if len(arguments) < 4 {
			exitwithstatus.Message("usage: open-campaign PRIVATE-KEY TITLE GOAL METADATA-URI")
		}

		privateKey, err := account.PrivateKeyFromBase58(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in private key: %s", err)
		}

		goal, err := strconv.ParseUint(arguments[2], 10, 64)
		if nil != err {
			exitwithstatus.Message("error in goal: %s", err)
		}

		open := &campaignrecord.CampaignOpen{
			Authority:   privateKey.Account(),
			Title:       arguments[1],
			Goal:        goal,
			MetadataURI: arguments[3],
		}
		message, err := open.Pack(open.Authority)
		if nil == err {
			exitwithstatus.Message("error: unsigned record did not need a signature")
		}
		open.Signature = privateKey.Sign(message)

		packed, err := open.Pack(open.Authority)
		if nil != err {
			exitwithstatus.Message("pack error: %s", err)
		}

		result, err := executor.Execute(packed)
		if nil != err {
			exitwithstatus.Message("open-campaign error: %s", err)
		}
		printJSON(result)

	case "donate", "d":
		if len(arguments) < 3 {
			exitwithstatus.Message("usage: donate PRIVATE-KEY CAMPAIGN-ID AMOUNT")
		}

		privateKey, err := account.PrivateKeyFromBase58(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in private key: %s", err)
		}

		var campaignId campaignrecord.CampaignIdentifier
		err = campaignId.UnmarshalText([]byte(arguments[1]))
		if nil != err {
			exitwithstatus.Message("error in campaign id: %s", err)
		}

		amount, err := strconv.ParseUint(arguments[2], 10, 64)
		if nil != err {
			exitwithstatus.Message("error in amount: %s", err)
		}

		// a fresh single use badge identity
		badgeKey, err := account.NewPrivateKey(mode.IsTesting())
		if nil != err {
			exitwithstatus.Message("badge key generation error: %s", err)
		}

		donation := &campaignrecord.Donation{
			CampaignId: campaignId,
			Amount:     amount,
			Donor:      privateKey.Account(),
			BadgeKey:   badgeKey.Account(),
		}
		message, err := donation.Pack(donation.Donor)
		if nil == err {
			exitwithstatus.Message("error: unsigned record did not need a signature")
		}
		donation.Signature = privateKey.Sign(message)

		message, err = donation.Pack(donation.Donor)
		if nil == err {
			exitwithstatus.Message("error: record did not need a countersignature")
		}
		donation.Countersignature = badgeKey.Sign(message)

		packed, err := donation.Pack(donation.Donor)
		if nil != err {
			exitwithstatus.Message("pack error: %s", err)
		}

		result, err := executor.Execute(packed)
		if nil != err {
			exitwithstatus.Message("donate error: %s", err)
		}
		cache.Invalidate(campaignId)
		printJSON(struct {
			*executor.Result
			BadgeKey *account.Account `json:"badgeKey"`
		}{
			Result:   result,
			BadgeKey: donation.BadgeKey,
		})

	case "credit":
		if len(arguments) < 2 {
			exitwithstatus.Message("usage: credit ACCOUNT AMOUNT")
		}

		owner, err := account.AccountFromBase58(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in account: %s", err)
		}

		amount, err := strconv.ParseUint(arguments[1], 10, 64)
		if nil != err {
			exitwithstatus.Message("error in amount: %s", err)
		}

		total, err := executor.Credit(owner, amount)
		if nil != err {
			exitwithstatus.Message("credit error: %s", err)
		}
		printJSON(struct {
			Account *account.Account `json:"account"`
			Balance uint64           `json:"balance,string"`
		}{
			Account: owner,
			Balance: total,
		})

	case "list-campaigns", "list":
		infos, err := cache.Directory()
		if nil != err {
			exitwithstatus.Message("list error: %s", err)
		}
		printJSON(infos)

	case "show-campaign", "show":
		if len(arguments) < 1 {
			exitwithstatus.Message("usage: show-campaign CAMPAIGN-ID")
		}

		var campaignId campaignrecord.CampaignIdentifier
		err := campaignId.UnmarshalText([]byte(arguments[0]))
		if nil != err {
			exitwithstatus.Message("error in campaign id: %s", err)
		}

		state, err := cache.Campaign(campaignId)
		if nil != err {
			exitwithstatus.Message("show error: %s", err)
		}
		printJSON(struct {
			CampaignId campaignrecord.CampaignIdentifier `json:"campaignId"`
			Campaign   *campaignrecord.Campaign          `json:"campaign"`
			Donations  uint64                            `json:"donations,string"`
		}{
			CampaignId: campaignId,
			Campaign:   state,
			Donations:  campaign.DonationCount(campaignId),
		})

	case "holdings":
		if len(arguments) < 1 {
			exitwithstatus.Message("usage: holdings ACCOUNT")
		}

		owner, err := account.AccountFromBase58(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in account: %s", err)
		}

		infos, err := badge.ListByOwner(owner)
		if nil != err {
			exitwithstatus.Message("holdings error: %s", err)
		}
		printJSON(infos)

	case "balance":
		if len(arguments) < 1 {
			exitwithstatus.Message("usage: balance ACCOUNT")
		}

		owner, err := account.AccountFromBase58(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in account: %s", err)
		}

		printJSON(struct {
			Account *account.Account `json:"account"`
			Balance uint64           `json:"balance,string"`
		}{
			Account: owner,
			Balance: balance.CommittedBalance(owner),
		})

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}

// create one identity file holding a private key and its account
func makeIdentity(testnet bool, fileName string) error {
	privateKey, err := account.NewPrivateKey(testnet)
	if nil != err {
		return err
	}

	data := fmt.Sprintf("PRIVATE:%s\nACCOUNT:%s\n", privateKey, privateKey.Account())
	if err = ioutil.WriteFile(fileName, []byte(data), 0600); nil != err {
		return fmt.Errorf("error writing identity file error: %s", err)
	}

	return nil
}

// pretty print a result structure
func printJSON(item interface{}) {
	s, err := json.MarshalIndent(item, "", "  ")
	if nil != err {
		exitwithstatus.Message("json error: %s", err)
	}
	fmt.Printf("%s\n", s)
}
