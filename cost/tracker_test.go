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

package cost

import "testing"

import "github.com/corevalidator/txsched/txtypes"

func key(b byte) txtypes.Pubkey {
	var p txtypes.Pubkey
	p[0] = b
	return p
}

func TestWouldExceedLimitPackageCap(t *testing.T) {
	tr := NewTracker(1000, 100)
	tr.AddTransaction([]txtypes.Pubkey{key(1)}, 60)
	if !tr.WouldExceedLimit([]txtypes.Pubkey{key(1)}, 50) {
		t.Errorf("expected package cap to be exceeded (60+50 > 100)")
	}
	if tr.WouldExceedLimit([]txtypes.Pubkey{key(1)}, 40) {
		t.Errorf("did not expect package cap to be exceeded (60+40 == 100)")
	}
}

func TestWouldExceedLimitChainCap(t *testing.T) {
	tr := NewTracker(100, 100000)
	if !tr.WouldExceedLimit([]txtypes.Pubkey{key(1)}, 101) {
		t.Errorf("expected per-tx chain cap to be exceeded")
	}
}

func TestWouldExceedLimitPerAccount(t *testing.T) {
	tr := NewTracker(100, 100000)
	tr.AddTransaction([]txtypes.Pubkey{key(1)}, 80)
	if !tr.WouldExceedLimit([]txtypes.Pubkey{key(1)}, 30) {
		t.Errorf("expected account cap to be exceeded (80+30 > 100)")
	}
	if tr.WouldExceedLimit([]txtypes.Pubkey{key(2)}, 30) {
		t.Errorf("a different account should not be affected")
	}
}

// Only writable keys are credited the full transaction cost: a read-only
// account is never touched here.
func TestAddTransactionCreditsWritableOnly(t *testing.T) {
	tr := NewTracker(1000, 1000)
	tr.AddTransaction([]txtypes.Pubkey{key(1), key(2)}, 10)
	costs := tr.AccountCosts()
	if costs[key(1)] != 10 || costs[key(2)] != 10 {
		t.Fatalf("expected both writable keys credited 10, got %+v", costs)
	}
	if tr.PackageCost() != 10 {
		t.Errorf("package cost = %d, want 10 (credited once, not per-account)", tr.PackageCost())
	}
}

func TestResetClearsState(t *testing.T) {
	tr := NewTracker(1000, 1000)
	tr.AddTransaction([]txtypes.Pubkey{key(1)}, 50)
	tr.Reset()
	if tr.PackageCost() != 0 {
		t.Errorf("package cost after reset = %d, want 0", tr.PackageCost())
	}
	if len(tr.AccountCosts()) != 0 {
		t.Errorf("account costs after reset should be empty")
	}
}

func TestRemaining(t *testing.T) {
	tr := NewTracker(100, 1000)
	tr.AddTransaction([]txtypes.Pubkey{key(1)}, 40)
	if got := tr.Remaining(key(1)); got != 60 {
		t.Errorf("remaining = %d, want 60", got)
	}
	tr.AddTransaction([]txtypes.Pubkey{key(1)}, 60)
	if got := tr.Remaining(key(1)); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
}
