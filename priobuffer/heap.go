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

import "container/heap"

// packetRef is the priority heap's view of one packet: enough to find it
// back inside its owning batch without the heap owning the packet itself.
type packetRef[T any] struct {
	priority  uint64
	batchID   uint64
	slot      int
	heapIndex int
}

// packetHeap is a binary min-heap over packetRef.priority: popping it
// yields the lowest-priority surviving packet first, which is exactly what
// eviction needs.
type packetHeap[T any] []*packetRef[T]

func (h packetHeap[T]) Len() int { return len(h) }
func (h packetHeap[T]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	// Stable tie-break: lower batch id / slot first.
	if h[i].batchID != h[j].batchID {
		return h[i].batchID < h[j].batchID
	}
	return h[i].slot < h[j].slot
}
func (h packetHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}
func (h *packetHeap[T]) Push(x any) {
	ref := x.(*packetRef[T])
	ref.heapIndex = len(*h)
	*h = append(*h, ref)
}
func (h *packetHeap[T]) Pop() any {
	old := *h
	n := len(old)
	ref := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ref
}

func newPacketHeap[T any]() *packetHeap[T] {
	h := make(packetHeap[T], 0)
	heap.Init(&h)
	return &h
}

func (h *packetHeap[T]) push(ref *packetRef[T]) {
	heap.Push(h, ref)
}

func (h *packetHeap[T]) popMin() *packetRef[T] {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*packetRef[T])
}

func (h *packetHeap[T]) remove(ref *packetRef[T]) {
	heap.Remove(h, ref.heapIndex)
}
