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

package computebudget

import (
	"testing"

	"github.com/corevalidator/txsched/txtypes"
)

func TestRegistryLookupMiss(t *testing.T) {
	r := DefaultRegistry()
	var unknown txtypes.Pubkey
	if _, ok := r.Lookup(unknown, nil); ok {
		t.Errorf("expected lookup miss for unknown program")
	}
}

func TestDefaultRegistryHasTwelveEntries(t *testing.T) {
	r := DefaultRegistry()
	if r.Len() != 12 {
		t.Fatalf("expected 12 builtin entries, got %d", r.Len())
	}
}

func TestRegistryLookupHit(t *testing.T) {
	r := DefaultRegistry()
	cost, ok := r.Lookup(SystemProgramID, nil)
	if !ok {
		t.Fatalf("expected lookup hit for system program")
	}
	if cost != 150 {
		t.Errorf("system program cost = %d, want 150", cost)
	}
}

func TestFirstByteCollisionStillMisses(t *testing.T) {
	r := DefaultRegistry()
	// Same leading byte as the system program, different tail: the cheap
	// filter passes but the full map probe must still miss.
	collider := SystemProgramID
	collider[31] ^= 0xff
	if _, ok := r.Lookup(collider, nil); ok {
		t.Errorf("expected miss for a first-byte collision that is not a builtin")
	}
}
