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

// Package txstate implements the dense-id-keyed transaction state container:
// a bounded store of TransactionStateEntry plus a
// PriorityId min-max heap that mirrors the store's key set exactly at
// quiescent moments (an id popped for scheduling is absent from the heap
// until it is removed or reinserted).
package txstate

import "github.com/holiman/uint256"

// PriorityId is the scheduler's compound ordering key: lexicographic
// descending on Priority, ascending on Id as a stable tie-break.
type PriorityId struct {
	Priority uint64
	Id       uint64
}

// Less reports whether p sorts ahead of other under descending-priority,
// ascending-id order, i.e. whether p is "more urgent" than other.
func (p PriorityId) Less(other PriorityId) bool {
	if p.Priority != other.Priority {
		return p.Priority > other.Priority
	}
	return p.Id < other.Id
}

// ComputePriority computes compute_unit_price (u64) x compute_unit_limit
// (u32) with a uint256 intermediate so the product can never wrap before
// it is truncated back for ordering purposes, then saturates to uint64.
func ComputePriority(computeUnitPrice uint64, computeUnitLimit uint32) uint64 {
	price := uint256.NewInt(computeUnitPrice)
	limit := uint256.NewInt(uint64(computeUnitLimit))
	product := new(uint256.Int).Mul(price, limit)
	if product.IsUint64() {
		return product.Uint64()
	}
	return ^uint64(0)
}
