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

// Package priobuffer implements the batch-level ingress container with
// packet-level priority: packets arrive bundled into batches, but
// eviction under capacity pressure must preserve the
// "survivors are no worse than evictees" priority invariant.
package priobuffer

import "github.com/google/uuid"

// Packet is one priority-ordered unit inside a Batch.
type Packet[T any] struct {
	Value    T
	Priority uint64
	slot     int
	ref      *packetRef[T]
}

// Batch records which of its packet slots are still present; the packets
// themselves are held by the Buffer. A packet's reference back to its Batch
// (held only inside the priority heap as a batch sequence number) is a
// non-owning lookup, not an ownership edge.
type Batch struct {
	ID       uuid.UUID
	seq      uint64
	packets  map[int]bool // slot -> still present
	nextSlot int
}

func (b *Batch) isEmpty() bool {
	return len(b.packets) == 0
}

// Buffer is the bounded, batch-owning ingress container.
type Buffer[T any] struct {
	capacity       int
	order          []*Batch // insertion-ordered sequence of batches
	packetsByRef   map[*packetRef[T]]*Packet[T]
	batchesBySeq   map[uint64]*Batch
	heap           *packetHeap[T]
	nextSeq        uint64
	removedBatches int // counter from the last eviction pass, for tests/metrics
}

// NewBuffer returns an empty Buffer bounded by capacity batches.
func NewBuffer[T any](capacity int) *Buffer[T] {
	return &Buffer[T]{
		capacity:     capacity,
		packetsByRef: make(map[*packetRef[T]]*Packet[T]),
		batchesBySeq: make(map[uint64]*Batch),
		heap:         newPacketHeap[T](),
	}
}

// InsertBatch inserts the given packets (value, priority pairs) as one
// batch. Empty batches are not inserted. If the sequence now exceeds
// capacity, EvictToCapacity runs automatically.
func (b *Buffer[T]) InsertBatch(values []T, priorities []uint64) uuid.UUID {
	if len(values) == 0 {
		return uuid.Nil
	}
	batch := &Batch{
		ID:      uuid.New(),
		seq:     b.nextSeq,
		packets: make(map[int]bool, len(values)),
	}
	b.nextSeq++
	for i, v := range values {
		slot := batch.nextSlot
		batch.nextSlot++
		batch.packets[slot] = true

		ref := &packetRef[T]{priority: priorities[i], batchID: batch.seq, slot: slot}
		pkt := &Packet[T]{Value: v, Priority: priorities[i], slot: slot, ref: ref}
		b.packetsByRef[ref] = pkt
		b.heap.push(ref)
	}
	b.order = append(b.order, batch)
	b.batchesBySeq[batch.seq] = batch

	if len(b.order) > b.capacity {
		b.EvictToCapacity()
	}
	return batch.ID
}

// EvictToCapacity repeatedly drops the globally lowest-priority packet
// until the batch sequence is back at or under capacity, then sweeps
// emptied batches out of the sequence. It preserves the invariant that
// every surviving packet has priority >= every packet evicted in this call.
func (b *Buffer[T]) EvictToCapacity() {
	excess := len(b.order) - b.capacity
	if excess <= 0 {
		return
	}
	removedBatches := 0
	for removedBatches < excess {
		ref := b.heap.popMin()
		if ref == nil {
			break
		}
		delete(b.packetsByRef, ref)
		batch, ok := b.batchesBySeq[ref.batchID]
		if !ok {
			continue
		}
		delete(batch.packets, ref.slot)
		if batch.isEmpty() {
			removedBatches++
		}
	}
	b.removedBatches = removedBatches

	kept := b.order[:0]
	for _, batch := range b.order {
		if batch.isEmpty() {
			delete(b.batchesBySeq, batch.seq)
			continue
		}
		kept = append(kept, batch)
	}
	b.order = kept
}

// Len returns the number of non-empty batches currently held.
func (b *Buffer[T]) Len() int {
	return len(b.order)
}

// PacketCount returns the number of surviving packets across all batches.
func (b *Buffer[T]) PacketCount() int {
	return len(b.packetsByRef)
}

// Drained is one packet handed out of the buffer by Drain.
type Drained[T any] struct {
	Value    T
	Priority uint64
}

// Drain empties the buffer and returns every surviving packet, lowest
// priority first. Callers re-index by priority downstream, so the order is
// informational only.
func (b *Buffer[T]) Drain() []Drained[T] {
	out := make([]Drained[T], 0, len(b.packetsByRef))
	for {
		ref := b.heap.popMin()
		if ref == nil {
			break
		}
		pkt, ok := b.packetsByRef[ref]
		if !ok {
			continue
		}
		out = append(out, Drained[T]{Value: pkt.Value, Priority: pkt.Priority})
		delete(b.packetsByRef, ref)
	}
	b.order = nil
	b.batchesBySeq = make(map[uint64]*Batch)
	return out
}

// MinPriority returns the lowest priority among surviving packets, and
// false if the buffer is empty.
func (b *Buffer[T]) MinPriority() (uint64, bool) {
	if b.heap.Len() == 0 {
		return 0, false
	}
	min := (*b.heap)[0]
	return min.priority, true
}
