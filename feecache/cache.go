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

// Package feecache implements the prioritization-fee observation cache: a
// read-only sibling subsystem that watches landed transaction priorities
// and exposes per-slot and per-account minimum observed fees, bounded to
// the most recent MaxNumRecentBlocks slots.
package feecache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/corevalidator/txsched/txtypes"
)

type messageKind int

const (
	msgUpdate messageKind = iota
	msgFinalize
)

type message struct {
	kind         messageKind
	slot         uint64
	priority     uint64
	writableKeys []txtypes.Pubkey
}

type slotFeeData struct {
	blockMinFee      uint64
	hasBlockMinFee   bool
	perAccountMinFee map[txtypes.Pubkey]uint64
	finalized        bool
}

// Cache is the single-consumer background task behind the observation API.
// A single producer-side channel feeds it (scheduler)->(this task) updates;
// all mutation happens on one goroutine, reads take a mutex shared with
// that goroutine so callers never observe a torn update.
type Cache struct {
	mu    sync.Mutex
	slots *lru.Cache

	updates chan message
	cancel  context.CancelFunc
	g       *errgroup.Group
	log     *zap.Logger
}

// New starts the cache's background consumer task with the default
// retention window. log may be nil.
func New(log *zap.Logger) *Cache {
	return NewWithSize(MaxNumRecentBlocks, log)
}

// NewWithSize starts the cache with a caller-chosen retention window,
// as sized by the embedding validator's configuration.
func NewWithSize(maxRecentBlocks int, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	slots, err := lru.New(maxRecentBlocks)
	if err != nil {
		// golang-lru only errors on size <= 0, which is a configuration
		// bug, not a runtime condition.
		panic(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	c := &Cache{
		slots:   slots,
		updates: make(chan message, 1024),
		cancel:  cancel,
		g:       g,
		log:     log,
	}
	g.Go(func() error { return c.run(gctx) })
	return c
}

func (c *Cache) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-c.updates:
			if !ok {
				return nil
			}
			c.apply(msg)
		}
	}
}

func (c *Cache) apply(msg message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := c.dataForSlot(msg.slot)
	switch msg.kind {
	case msgUpdate:
		if data.finalized {
			return
		}
		if !data.hasBlockMinFee || msg.priority < data.blockMinFee {
			data.blockMinFee = msg.priority
			data.hasBlockMinFee = true
		}
		for _, k := range msg.writableKeys {
			if cur, ok := data.perAccountMinFee[k]; !ok || msg.priority < cur {
				data.perAccountMinFee[k] = msg.priority
			}
		}
	case msgFinalize:
		data.finalized = true
		for k, fee := range data.perAccountMinFee {
			if fee == data.blockMinFee {
				delete(data.perAccountMinFee, k)
			}
		}
	}
}

func (c *Cache) dataForSlot(slot uint64) *slotFeeData {
	if v, ok := c.slots.Get(slot); ok {
		return v.(*slotFeeData)
	}
	data := &slotFeeData{perAccountMinFee: make(map[txtypes.Pubkey]uint64)}
	c.slots.Add(slot, data)
	return data
}

// Update records one landed transaction's observed priority against slot,
// crediting every writable key in locks.
func (c *Cache) Update(slot uint64, priority uint64, locks txtypes.AccountLocks) {
	c.updates <- message{kind: msgUpdate, slot: slot, priority: priority, writableKeys: locks.Writable}
}

// FinalizePriorityFee marks slot finalized on bank_frozen(slot), pruning
// accounts whose fee equals the slot's block minimum since they carry no
// additional information beyond it.
func (c *Cache) FinalizePriorityFee(slot uint64) {
	c.updates <- message{kind: msgFinalize, slot: slot}
}

// GetPrioritizationFees returns the block-minimum fee of every finalized
// slot currently retained.
func (c *Cache) GetPrioritizationFees() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []uint64
	for _, key := range c.slots.Keys() {
		v, ok := c.slots.Get(key)
		if !ok {
			continue
		}
		data := v.(*slotFeeData)
		if !data.finalized {
			continue
		}
		out = append(out, data.blockMinFee)
	}
	return out
}

// GetAccountPrioritizationFees returns, for every finalized slot, the
// account's observed minimum fee, or the slot's block minimum if the
// account was pruned for carrying no additional information.
func (c *Cache) GetAccountPrioritizationFees(account txtypes.Pubkey) []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []uint64
	for _, key := range c.slots.Keys() {
		v, ok := c.slots.Get(key)
		if !ok {
			continue
		}
		data := v.(*slotFeeData)
		if !data.finalized {
			continue
		}
		if fee, ok := data.perAccountMinFee[account]; ok {
			out = append(out, fee)
		} else {
			out = append(out, data.blockMinFee)
		}
	}
	return out
}

// Close stops the background consumer task and waits for it to exit.
func (c *Cache) Close() error {
	c.cancel()
	close(c.updates)
	return c.g.Wait()
}
