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

// Package cost implements the per-block, per-account running-cost tracker.
// A Tracker is owned exclusively by the
// scheduler's current pass; it is not internally synchronized.
package cost

import "github.com/corevalidator/txsched/txtypes"

// Tracker accumulates per-account and package-wide compute-unit cost for
// the block currently being built.
type Tracker struct {
	chainMaxCost   uint64
	packageMaxCost uint64
	perAccountCost map[txtypes.Pubkey]uint64
	packageCost    uint64
}

// NewTracker returns a Tracker bounded by chainMaxCost (the per-account cap)
// and packageMaxCost (the whole-block cap).
func NewTracker(chainMaxCost, packageMaxCost uint64) *Tracker {
	return &Tracker{
		chainMaxCost:   chainMaxCost,
		packageMaxCost: packageMaxCost,
		perAccountCost: make(map[txtypes.Pubkey]uint64),
	}
}

// WouldExceedLimit reports whether adding a transaction that costs txCost
// and writes the given accounts would violate any of the three limits: the
// package cap, the absolute per-transaction chain cap, or
// any individual writable account's chain cap.
func (t *Tracker) WouldExceedLimit(writableKeys []txtypes.Pubkey, txCost uint64) bool {
	if t.packageCost+txCost > t.packageMaxCost {
		return true
	}
	if txCost > t.chainMaxCost {
		return true
	}
	for _, k := range writableKeys {
		if t.perAccountCost[k]+txCost > t.chainMaxCost {
			return true
		}
	}
	return false
}

// AddTransaction records txCost against every writable key and the package
// total. Callers must have already verified WouldExceedLimit is false; the
// tracker performs no re-check of its own.
func (t *Tracker) AddTransaction(writableKeys []txtypes.Pubkey, txCost uint64) {
	for _, k := range writableKeys {
		t.perAccountCost[k] += txCost
	}
	t.packageCost += txCost
}

// Reset clears all accumulated cost, as happens at block boundaries.
func (t *Tracker) Reset() {
	t.perAccountCost = make(map[txtypes.Pubkey]uint64)
	t.packageCost = 0
}

// PackageCost returns the running total cost charged to the current block.
func (t *Tracker) PackageCost() uint64 {
	return t.packageCost
}

// AccountCosts returns a snapshot copy of the per-account running costs.
func (t *Tracker) AccountCosts() map[txtypes.Pubkey]uint64 {
	out := make(map[txtypes.Pubkey]uint64, len(t.perAccountCost))
	for k, v := range t.perAccountCost {
		out[k] = v
	}
	return out
}

// Remaining reports the headroom left before account would hit the chain
// per-account cap. Read-only; it does not change WouldExceedLimit's
// contract.
func (t *Tracker) Remaining(account txtypes.Pubkey) uint64 {
	used := t.perAccountCost[account]
	if used >= t.chainMaxCost {
		return 0
	}
	return t.chainMaxCost - used
}
