// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package executor

import (
	"sort"
	"sync"
)

// per-identifier locks with reference counts, entries disappear when
// the last holder releases
type lockEntry struct {
	sync.Mutex
	count int
}

var lockTable struct {
	sync.Mutex
	entries map[string]*lockEntry
}

func init() {
	lockTable.entries = make(map[string]*lockEntry)
}

// lock some identifiers, returns the matching release function
//
// identifiers are locked in sorted order so two instructions naming
// the same pair cannot deadlock
func lock(identifiers ...[]byte) func() {

	keys := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		keys = append(keys, string(id))
	}
	sort.Strings(keys)

	// drop duplicates, locking one entry twice would self deadlock
	unique := make([]string, 0, len(keys))
	previous := ""
	for i, key := range keys {
		if 0 == i || key != previous {
			unique = append(unique, key)
		}
		previous = key
	}
	keys = unique

	entries := make([]*lockEntry, len(keys))

	lockTable.Lock()
	for i, key := range keys {
		entry, ok := lockTable.entries[key]
		if !ok {
			entry = &lockEntry{}
			lockTable.entries[key] = entry
		}
		entry.count += 1
		entries[i] = entry
	}
	lockTable.Unlock()

	for _, entry := range entries {
		entry.Lock()
	}

	return func() {
		// reverse of acquisition
		for i := len(entries) - 1; i >= 0; i -= 1 {
			entries[i].Unlock()
		}

		lockTable.Lock()
		for i, key := range keys {
			entries[i].count -= 1
			if 0 == entries[i].count {
				delete(lockTable.entries, key)
			}
		}
		lockTable.Unlock()
	}
}
