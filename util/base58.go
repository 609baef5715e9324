// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 Pledgenet
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/mr-tron/base58"
)

// ToBase58 - encode a byte slice as base58 text
func ToBase58(data []byte) string {
	return base58.Encode(data)
}

// FromBase58 - decode base58 text to a byte slice
//
// returns an empty slice on malformed input
func FromBase58(text string) []byte {
	data, err := base58.Decode(text)
	if nil != err {
		return []byte{}
	}
	return data
}
