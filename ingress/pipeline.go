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

// Package ingress wires the front half of the pipeline together: incoming
// transaction batches are budget-parsed, buffered with priority-preserving
// eviction, and flushed into the scheduler's state container.
package ingress

import (
	"go.uber.org/zap"

	"github.com/corevalidator/txsched/computebudget"
	"github.com/corevalidator/txsched/priobuffer"
	"github.com/corevalidator/txsched/txstate"
	"github.com/corevalidator/txsched/txtypes"
)

// Packet is one ingress unit: a sanitized transaction plus the immutable
// metadata it entered the validator with.
type Packet struct {
	Tx     txtypes.Transaction
	MaxAge uint64
	Raw    any // shared, immutable reference to the wire packet
}

// buffered carries the budget results computed at admission so the flush
// step doesn't have to re-parse.
type buffered struct {
	packet   Packet
	priority uint64
	cost     uint64
}

// Pipeline owns the ingress buffer and the state container, and the budget
// machinery that prices every transaction on the way in.
type Pipeline struct {
	registry  *computebudget.Registry
	features  txtypes.FeatureSet
	buffer    *priobuffer.Buffer[buffered]
	container *txstate.Container
	log       *zap.Logger
}

// New builds a Pipeline with an ingress buffer bounded by bufferCapacity
// batches and a state container bounded by containerCapacity entries.
// log may be nil.
func New(registry *computebudget.Registry, features txtypes.FeatureSet, bufferCapacity, containerCapacity int, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		registry:  registry,
		features:  features,
		buffer:    priobuffer.NewBuffer[buffered](bufferCapacity),
		container: txstate.NewContainer(containerCapacity),
		log:       log,
	}
}

// SubmitBatch prices each packet's transaction and inserts the batch into
// the ingress buffer. Transactions whose compute-budget instructions fail
// to parse or sanitize are rejected here, at the transaction granularity,
// and counted in rejected. The buffer may evict
// lower-priority packets to stay within capacity.
func (p *Pipeline) SubmitBatch(packets []Packet) (accepted, rejected int) {
	values := make([]buffered, 0, len(packets))
	priorities := make([]uint64, 0, len(packets))
	for _, pkt := range packets {
		limits, err := computebudget.ProcessComputeBudgetInstructions(pkt.Tx.Instructions(), p.registry, p.features)
		if err != nil {
			p.log.Debug("rejecting transaction at ingress", zap.Error(err))
			rejected++
			continue
		}
		priority := txstate.ComputePriority(limits.ComputeUnitPrice, limits.ComputeUnitLimit)
		values = append(values, buffered{
			packet:   pkt,
			priority: priority,
			cost:     uint64(limits.ComputeUnitLimit),
		})
		priorities = append(priorities, priority)
		accepted++
	}
	p.buffer.InsertBatch(values, priorities)
	return accepted, rejected
}

// Flush drains every surviving buffered packet into the state container,
// returning how many were inserted and how many container entries were
// displaced to make room.
func (p *Pipeline) Flush() (inserted, displaced int) {
	for _, d := range p.buffer.Drain() {
		b := d.Value
		_, dropped := p.container.InsertNewTransaction(b.packet.Tx, b.packet.MaxAge, b.packet.Raw, b.priority, b.cost)
		inserted++
		if dropped {
			displaced++
		}
	}
	return inserted, displaced
}

// Container exposes the state container for the scheduler to drain.
func (p *Pipeline) Container() *txstate.Container {
	return p.container
}

// Buffered reports how many packets are waiting in the ingress buffer.
func (p *Pipeline) Buffered() int {
	return p.buffer.PacketCount()
}
