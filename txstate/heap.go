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

import "container/heap"

// idRef is one entry inside either of the container's two heaps: enough to
// locate it back by dense id, and to track its own index for O(log n)
// removal via heap.Fix/heap.Remove.
type idRef struct {
	id       uint64
	priority PriorityId
	index    int
}

// maxHeap pops the single highest-priority id first, PopHighestPriority's
// backing structure.
type maxHeap []*idRef

func (h maxHeap) Len() int { return len(h) }
func (h maxHeap) Less(i, j int) bool {
	return h[i].priority.Less(h[j].priority)
}
func (h maxHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *maxHeap) Push(x any) {
	ref := x.(*idRef)
	ref.index = len(*h)
	*h = append(*h, ref)
}
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	ref := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ref
}

// minHeap mirrors the same id set but pops the single lowest-priority id
// first, so the container can find a displacement candidate in O(log n)
// without a linear scan; together the pair behaves like a min-max heap
// over PriorityId.
type minHeap []*idRef

func (h minHeap) Len() int { return len(h) }
func (h minHeap) Less(i, j int) bool {
	return h[j].priority.Less(h[i].priority)
}
func (h minHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *minHeap) Push(x any) {
	ref := x.(*idRef)
	ref.index = len(*h)
	*h = append(*h, ref)
}
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	ref := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ref
}

var (
	_ heap.Interface = (*maxHeap)(nil)
	_ heap.Interface = (*minHeap)(nil)
)
