// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains two LevelDB databases, each split into a series of
// tables.  Each table is defined by a prefix byte that is obtained
// from the prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++          = concatenation of byte data
// 3. campaign id = derived identifier as 32 byte SHA3-256(tag ++ fields)
// 4. holding id  = derived identifier as 32 byte SHA3-256(tag ++ fields)
// 5. badge key   = badge mint account (32 byte public key)
// 6. owner       = account (32 byte public key)
// 7. total       = big endian uint64 (8 bytes)
//
// State database (authoritative, committed as one atomic batch):
//
//   C ++ campaign id           - campaign record
//                                data: authority ++ title ++ metadata uri ++ goal ++ raised
//   M ++ badge key             - badge mint record
//                                data: badge key ++ campaign id ++ flags ++ decimals ++ supply
//   H ++ holding id            - donor holding record
//                                data: owner ++ badge key ++ balance
//   B ++ owner                 - payer balance for storage rent
//                                data: total
//
// Index database (read side only, rebuilt from state, never
// authoritative; committed after the state batch so a crash between
// the two leaves a stale index, not corrupt state):
//
//   A ++ owner ++ campaign id  - campaigns created by an authority
//                                data: title
//   O ++ owner ++ holding id   - holdings owned by a donor
//                                data: badge key
//   D ++ campaign id           - count of donations received
//                                data: total
package storage
