// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/pledgenet/pledged/fault"
)

// Transaction - atomic batch spanning both databases
//
// the state database batch is written first, the index batch second;
// all index records are derivable from state so a crash between the
// two writes only leaves the index stale
type Transaction interface {
	Begin() error
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	Has(*PoolHandle, []byte) bool
	Commit() error
	Abort()
	InUse() bool
}

type transactionData struct {
	sync.Mutex
	access []DataAccess
}

func newTransaction(access []DataAccess) Transaction {
	return &transactionData{
		access: access,
	}
}

func (t *transactionData) Begin() error {
	t.Lock()
	defer t.Unlock()

	for _, access := range t.access {
		if access.InUse() {
			return fault.TransactionAlreadyInUse
		}
	}

	for _, access := range t.access {
		err := access.Begin()
		if nil != err {
			return err
		}
	}

	return nil
}

func (t *transactionData) Put(p *PoolHandle, key []byte, value []byte) {
	p.put(key, value)
}

func (t *transactionData) PutN(p *PoolHandle, key []byte, value uint64) {
	p.putN(key, value)
}

func (t *transactionData) Delete(p *PoolHandle, key []byte) {
	p.remove(key)
}

func (t *transactionData) Get(p *PoolHandle, key []byte) []byte {
	return p.Get(key)
}

func (t *transactionData) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	return p.GetN(key)
}

func (t *transactionData) Has(p *PoolHandle, key []byte) bool {
	return p.Has(key)
}

func (t *transactionData) Commit() error {
	t.Lock()
	defer t.Unlock()

	for _, access := range t.access {
		err := access.Commit()
		if nil != err {
			return err
		}
	}

	t.clear()
	return nil
}

func (t *transactionData) Abort() {
	t.Lock()
	defer t.Unlock()
	t.clear()
}

// reset batches and transaction cache, release in-use flags
func (t *transactionData) clear() {
	for _, access := range t.access {
		access.Abort()
	}
}

func (t *transactionData) InUse() bool {
	t.Lock()
	defer t.Unlock()

	for _, access := range t.access {
		if access.InUse() {
			return true
		}
	}
	return false
}
