// Copyright 2025 The txsched Authors
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

package scheduler

import (
	"testing"

	"github.com/corevalidator/txsched/txtypes"
)

func schedTx(id uint64, writes, reads []txtypes.Pubkey) ScheduledTransaction {
	return ScheduledTransaction{
		ID:    id,
		Cost:  10,
		Locks: txtypes.AccountLocks{Writable: writes, ReadOnly: reads},
	}
}

func TestGraphWriteChain(t *testing.T) {
	a := acct(1)
	window := []ScheduledTransaction{
		schedTx(0, []txtypes.Pubkey{a}, nil),
		schedTx(1, []txtypes.Pubkey{a}, nil),
		schedTx(2, []txtypes.Pubkey{a}, nil),
	}
	g := buildConflictGraph(window)
	roots := g.Roots()
	if len(roots) != 1 || roots[0] != 0 {
		t.Fatalf("write chain should have exactly one root (0), got %v", roots)
	}
	ready := g.Release(0)
	if len(ready) != 1 || ready[0] != 1 {
		t.Fatalf("releasing 0 should ready exactly 1, got %v", ready)
	}
	ready = g.Release(1)
	if len(ready) != 1 || ready[0] != 2 {
		t.Fatalf("releasing 1 should ready exactly 2, got %v", ready)
	}
}

func TestGraphReadersDoNotConflict(t *testing.T) {
	a := acct(1)
	// Two readers of the same account with no writer are both roots.
	window := []ScheduledTransaction{
		schedTx(0, nil, []txtypes.Pubkey{a}),
		schedTx(1, nil, []txtypes.Pubkey{a}),
	}
	g := buildConflictGraph(window)
	if roots := g.Roots(); len(roots) != 2 {
		t.Fatalf("independent readers should both be roots, got %v", roots)
	}
}

func TestGraphWriterBlocksReadersAndReadersBlockWriter(t *testing.T) {
	a := acct(1)
	window := []ScheduledTransaction{
		schedTx(0, []txtypes.Pubkey{a}, nil), // writer
		schedTx(1, nil, []txtypes.Pubkey{a}), // reader after writer
		schedTx(2, nil, []txtypes.Pubkey{a}), // reader after writer
		schedTx(3, []txtypes.Pubkey{a}, nil), // writer after both readers
	}
	g := buildConflictGraph(window)
	roots := g.Roots()
	if len(roots) != 1 || roots[0] != 0 {
		t.Fatalf("expected only the first writer as root, got %v", roots)
	}
	ready := g.Release(0)
	// Both readers become ready together.
	if len(ready) != 2 {
		t.Fatalf("expected both readers readied, got %v", ready)
	}
	// The trailing writer waits for both readers.
	if readied := g.Release(ready[0]); len(readied) != 0 {
		t.Fatalf("trailing writer should still be blocked by the second reader, got %v", readied)
	}
	if readied := g.Release(ready[1]); len(readied) != 1 || readied[0] != 3 {
		t.Fatalf("trailing writer should be readied by the last reader, got %v", readied)
	}
}

func TestGraphTracerIsRoot(t *testing.T) {
	contended := acct(1)
	window := []ScheduledTransaction{
		schedTx(0, []txtypes.Pubkey{contended}, nil),
		schedTx(1, []txtypes.Pubkey{contended}, nil),
		schedTx(2, []txtypes.Pubkey{acct(9)}, nil), // tracer
	}
	g := buildConflictGraph(window)
	roots := g.Roots()
	found := false
	for _, r := range roots {
		if r == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("non-contending transaction must be a root, roots = %v", roots)
	}
}
