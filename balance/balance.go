// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package balance - payer balances for storage rent
//
// every record created by an instruction costs rent, debited from the
// balance of the account that signed the instruction; balances are
// credited by an external settlement process and are tracked as plain
// totals, not as individual deposits
package balance

import (
	"github.com/pledgenet/pledged/account"
	"github.com/pledgenet/pledged/fault"
	"github.com/pledgenet/pledged/storage"
)

// key is the bare public key of the owner
func key(owner *account.Account) []byte {
	return owner.PublicKeyBytes()
}

// Credit - add funds to an owner balance inside a transaction
//
// returns the new balance
func Credit(trx storage.Transaction, owner *account.Account, amount uint64) (uint64, error) {
	if 0 == amount {
		return 0, fault.CreditAmountIsZero
	}

	ownerKey := key(owner)
	current, _ := trx.GetN(storage.Pool.Balances, ownerKey)

	total := current + amount
	if total < current {
		return 0, fault.BalanceOverflow
	}

	trx.PutN(storage.Pool.Balances, ownerKey, total)
	return total, nil
}

// Debit - remove funds from an owner balance inside a transaction
//
// returns the new balance
func Debit(trx storage.Transaction, owner *account.Account, amount uint64) (uint64, error) {
	if 0 == amount {
		return Balance(trx, owner), nil
	}

	ownerKey := key(owner)
	current, found := trx.GetN(storage.Pool.Balances, ownerKey)
	if !found || current < amount {
		return 0, fault.InsufficientFunds
	}

	total := current - amount
	trx.PutN(storage.Pool.Balances, ownerKey, total)
	return total, nil
}

// Balance - read an owner balance inside a transaction
func Balance(trx storage.Transaction, owner *account.Account) uint64 {
	n, _ := trx.GetN(storage.Pool.Balances, key(owner))
	return n
}

// CommittedBalance - read an owner balance outside any transaction
func CommittedBalance(owner *account.Account) uint64 {
	n, _ := storage.Pool.Balances.GetN(key(owner))
	return n
}
