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

package priobuffer

import (
	"testing"

	"github.com/google/uuid"
)

// Capacity 4, seven batches of three packets each with
// priorities {0,1,2} per batch. After all inserts exactly four packets
// remain and every surviving packet has priority 2.
func TestE8BufferEviction(t *testing.T) {
	buf := NewBuffer[string](4)
	for batchNum := 0; batchNum < 7; batchNum++ {
		values := []string{"p0", "p1", "p2"}
		priorities := []uint64{0, 1, 2}
		buf.InsertBatch(values, priorities)
	}
	if got := buf.Len(); got != 4 {
		t.Fatalf("buffer should hold exactly 4 batches, got %d", got)
	}
	if got := buf.PacketCount(); got != 4 {
		t.Fatalf("expected exactly 4 surviving packets, got %d", got)
	}
	for _, batch := range buf.order {
		if len(batch.packets) != 1 {
			t.Fatalf("surviving batch should hold exactly 1 packet, got %d", len(batch.packets))
		}
	}
	min, ok := buf.MinPriority()
	if !ok || min != 2 {
		t.Fatalf("min surviving priority = %d (ok=%v), want 2", min, ok)
	}
}

// After InsertBatch, every surviving packet has
// priority >= every packet evicted in that call.
func TestEvictionPreservesPriorityInvariant(t *testing.T) {
	buf := NewBuffer[int](2)
	buf.InsertBatch([]int{1, 2}, []uint64{10, 20})
	buf.InsertBatch([]int{3, 4}, []uint64{1, 2})
	buf.InsertBatch([]int{5, 6}, []uint64{100, 200})

	min, ok := buf.MinPriority()
	if !ok {
		t.Fatalf("expected buffer to be non-empty")
	}
	// The low-priority batch (1, 2) should have been fully evicted.
	if min < 10 {
		t.Errorf("surviving min priority %d should be >= 10 (evicted batch topped out at 2)", min)
	}
}

func TestInsertEmptyBatchIsNoop(t *testing.T) {
	buf := NewBuffer[int](4)
	id := buf.InsertBatch(nil, nil)
	if id != uuid.Nil {
		t.Errorf("expected nil uuid for empty batch insert")
	}
	if buf.Len() != 0 {
		t.Errorf("buffer should remain empty")
	}
}

func TestDrainEmptiesBufferLowestPriorityFirst(t *testing.T) {
	buf := NewBuffer[string](4)
	buf.InsertBatch([]string{"a", "b"}, []uint64{30, 10})
	buf.InsertBatch([]string{"c"}, []uint64{20})

	drained := buf.Drain()
	if len(drained) != 3 {
		t.Fatalf("drained %d packets, want 3", len(drained))
	}
	for i := 1; i < len(drained); i++ {
		if drained[i].Priority < drained[i-1].Priority {
			t.Errorf("drain order not ascending at %d: %d < %d", i, drained[i].Priority, drained[i-1].Priority)
		}
	}
	if buf.Len() != 0 || buf.PacketCount() != 0 {
		t.Errorf("buffer should be empty after drain, have %d batches / %d packets", buf.Len(), buf.PacketCount())
	}
}

func TestBufferWithinCapacityDoesNotEvict(t *testing.T) {
	buf := NewBuffer[int](4)
	for i := 0; i < 4; i++ {
		buf.InsertBatch([]int{i}, []uint64{uint64(i)})
	}
	if buf.Len() != 4 {
		t.Fatalf("expected all 4 batches to survive, got %d", buf.Len())
	}
	if buf.PacketCount() != 4 {
		t.Fatalf("expected all 4 packets to survive, got %d", buf.PacketCount())
	}
}

func BenchmarkInsertBatchWithEviction(b *testing.B) {
	buf := NewBuffer[int](64)
	values := make([]int, 8)
	priorities := make([]uint64, 8)
	for i := range values {
		values[i] = i
		priorities[i] = uint64(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.InsertBatch(values, priorities)
	}
}
