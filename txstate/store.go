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

import (
	"container/heap"
	"fmt"

	"github.com/corevalidator/txsched/txtypes"
)

// Container is the bounded transaction state store:
// entries keyed by a dense internal id, with a priority index that always
// holds exactly the same id set as the entry store at quiescent moments.
// Between a PopHighestPriority and the matching Remove or Reinsert the
// entry is in the scheduler's hands and absent from the index only.
type Container struct {
	capacity int
	nextId   uint64
	entries  map[uint64]*TransactionStateEntry

	maxH    maxHeap
	minH    minHeap
	maxRefs map[uint64]*idRef
	minRefs map[uint64]*idRef
}

// NewContainer returns an empty Container bounded by capacity entries.
func NewContainer(capacity int) *Container {
	return &Container{
		capacity: capacity,
		entries:  make(map[uint64]*TransactionStateEntry),
		maxRefs:  make(map[uint64]*idRef),
		minRefs:  make(map[uint64]*idRef),
	}
}

// InsertNewTransaction inserts a new Unprocessed entry and returns its dense
// id and whether the insertion caused the lowest-priority indexed entry
// (possibly this very one) to be dropped to stay within capacity. Entries
// currently popped out of the index cannot be displaced.
func (c *Container) InsertNewTransaction(tx txtypes.Transaction, maxAge uint64, packet any, priority uint64, cost uint64) (id uint64, displaced bool) {
	id = c.nextId
	c.nextId++

	c.entries[id] = &TransactionStateEntry{
		Transaction: tx,
		MaxAge:      maxAge,
		Packet:      packet,
		Priority:    priority,
		Cost:        cost,
		Status:      Unprocessed,
	}
	pid := PriorityId{Priority: priority, Id: id}
	c.pushBoth(id, pid)

	if len(c.entries) > c.capacity && c.minH.Len() > 0 {
		victim := c.minH[0].id
		c.Remove(victim)
		displaced = true
	}
	return id, displaced
}

// PopHighestPriority removes the greatest PriorityId from the priority
// index and returns its id. The entry itself stays in the store until the
// caller either Removes it (scheduled or dropped) or Reinserts it
// (deferred back to Unprocessed).
func (c *Container) PopHighestPriority() (id uint64, ok bool) {
	if c.maxH.Len() == 0 {
		return 0, false
	}
	top := c.maxH[0].id
	c.removeFromIndex(top)
	return top, true
}

// Reinsert pushes a previously popped id back into the priority index at
// its original priority and resets its status to Unprocessed.
func (c *Container) Reinsert(id uint64) error {
	e, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("txstate: unknown id %d", id)
	}
	if _, indexed := c.maxRefs[id]; indexed {
		return fmt.Errorf("txstate: id %d is already indexed", id)
	}
	e.Status = Unprocessed
	c.pushBoth(id, PriorityId{Priority: e.Priority, Id: id})
	return nil
}

// Remove destroys the entry for id, dropping it from the priority index if
// it is still there.
func (c *Container) Remove(id uint64) {
	c.removeFromIndex(id)
	delete(c.entries, id)
}

// Retrieve returns a copy of the entry for id.
func (c *Container) Retrieve(id uint64) (TransactionStateEntry, bool) {
	e, ok := c.entries[id]
	if !ok {
		return TransactionStateEntry{}, false
	}
	return *e, true
}

// RetrieveMut returns the live entry pointer for id, for in-place mutation
// (e.g. Transition).
func (c *Container) RetrieveMut(id uint64) (*TransactionStateEntry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// IsEmpty reports whether the container holds no entries.
func (c *Container) IsEmpty() bool {
	return len(c.entries) == 0
}

// Len returns the number of entries currently held.
func (c *Container) Len() int {
	return len(c.entries)
}

// RemainingCapacity returns how many more entries can be inserted before
// the next insert forces a displacement.
func (c *Container) RemainingCapacity() int {
	r := c.capacity - len(c.entries)
	if r < 0 {
		return 0
	}
	return r
}

// Transition moves id from one status to another, failing if its current
// status does not match from.
func (c *Container) Transition(id uint64, from, to Status) error {
	e, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("txstate: unknown id %d", id)
	}
	if e.Status != from {
		return fmt.Errorf("txstate: id %d has status %v, want %v", id, e.Status, from)
	}
	e.Status = to
	return nil
}

func (c *Container) pushBoth(id uint64, pid PriorityId) {
	maxRef := &idRef{id: id, priority: pid}
	minRef := &idRef{id: id, priority: pid}
	c.maxRefs[id] = maxRef
	c.minRefs[id] = minRef
	heap.Push(&c.maxH, maxRef)
	heap.Push(&c.minH, minRef)
}

func (c *Container) removeFromIndex(id uint64) {
	if ref, ok := c.maxRefs[id]; ok {
		heap.Remove(&c.maxH, ref.index)
		delete(c.maxRefs, id)
	}
	if ref, ok := c.minRefs[id]; ok {
		heap.Remove(&c.minH, ref.index)
		delete(c.minRefs, id)
	}
}
