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

package txstate

import "github.com/corevalidator/txsched/txtypes"

// Status is where a TransactionStateEntry sits in its lifecycle:
// Unprocessed on insert, Pending once the scheduler has taken it.
type Status int

const (
	Unprocessed Status = iota
	Pending
)

// TransactionStateEntry is the unit the container owns: a sanitized
// transaction, its max age, a shared immutable packet reference, its
// priority, its cost, and its lifecycle status.
type TransactionStateEntry struct {
	Transaction txtypes.Transaction
	MaxAge      uint64
	Packet      any // shared, immutable back-reference to the originating ingress packet
	Priority    uint64
	Cost        uint64
	Status      Status
}
