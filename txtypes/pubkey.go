// Copyright 2024 The txsched Authors
// This file is part of the txsched library.
//
// The txsched library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The txsched library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the txsched library. If not, see <http://www.gnu.org/licenses/>.

// Package txtypes holds the small, immutable data types shared by every
// component of the ingress pipeline: account identifiers, compiled
// instructions, and the sanitized view of a transaction.
package txtypes

import "encoding/hex"

// PubkeySize is the byte length of a Pubkey.
const PubkeySize = 32

// Pubkey is an opaque 32-byte account or program identifier. It is compared
// by value and is safe to use as a map key.
type Pubkey [PubkeySize]byte

// FirstByte returns the leading byte of the key, used throughout the
// package as a cheap bloom-style index before a full map lookup.
func (p Pubkey) FirstByte() byte {
	return p[0]
}

// IsZero reports whether p is the zero key.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// String renders the key as a 0x-prefixed hex string.
func (p Pubkey) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

// PubkeyFromBytes copies b into a Pubkey. b must be exactly PubkeySize long.
func PubkeyFromBytes(b []byte) (Pubkey, bool) {
	var p Pubkey
	if len(b) != PubkeySize {
		return p, false
	}
	copy(p[:], b)
	return p, true
}
