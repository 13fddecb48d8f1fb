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
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/corevalidator/txsched/cost"
	"github.com/corevalidator/txsched/txstate"
)

// maxLocksPerTransaction bounds how many accounts a single transaction may
// lock; mirrors the validator-wide limit the embedding runtime enforces
// upstream of this package.
const maxLocksPerTransaction = 64

// PreGraphFilter is called once in bulk over the whole window before graph
// construction; setting flags[i] = false silently drops window[i].
type PreGraphFilter func(window []ScheduledTransaction, flags []bool)

// PreLockFilter is called just before a transaction's locks would be
// acquired; returning false defers it (it returns to the container as
// Unprocessed, and its successors stay blocked for this pass).
type PreLockFilter func(tx ScheduledTransaction) bool

// Result is what one Schedule pass reports back: the scheduled and
// unschedulable counts, plus drop/defer counters for callers that track
// admission.
type Result struct {
	NumScheduled     int
	NumUnschedulable int
	NumDropped       int
	NumDeferred      int
}

// Scheduler drains a txstate.Container in priority order each pass and
// dispatches non-conflicting batches to a fixed worker pool, respecting the
// cost.Tracker's block-level limits. A Scheduler is single-owner state: it
// must only ever be driven from one goroutine.
type Scheduler struct {
	cfg       Config
	container *txstate.Container
	tracker   *cost.Tracker
	pool      *WorkerPool
	log       *zap.Logger

	// CU dispatched to each worker but not yet acknowledged by a
	// FinishedConsumeWork, and the batches those CUs belong to. The locks
	// of an in-flight batch count as held until its completion arrives.
	inFlightCU []uint64
	inFlight   map[uuid.UUID]*inFlightBatch
}

type inFlightBatch struct {
	workerID int
	cost     uint64
	txs      []dispatchedTx
}

type dispatchedTx struct {
	sched    ScheduledTransaction
	maxAge   uint64
	packet   any
	priority uint64
}

// NewScheduler wires a Scheduler over an existing container, tracker and
// worker pool. log may be nil, in which case a no-op logger is used.
func NewScheduler(cfg Config, container *txstate.Container, tracker *cost.Tracker, pool *WorkerPool, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cfg:        cfg,
		container:  container,
		tracker:    tracker,
		pool:       pool,
		log:        log,
		inFlightCU: make([]uint64, pool.NumWorkers()),
		inFlight:   make(map[uuid.UUID]*inFlightBatch),
	}
}

type openBatch struct {
	id    uuid.UUID
	items []dispatchedTx
	cost  uint64
}

// Schedule runs exactly one scheduling pass. A
// fatal worker-channel-closed condition is propagated via the returned
// error and cancels the pass's context through an errgroup.Group, matching
// the propagation rule: channel disconnects are fatal to the
// pass, never to consensus state.
func (s *Scheduler) Schedule(ctx context.Context, preGraphFilter PreGraphFilter, preLockFilter PreLockFilter) (Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	var result Result
	g.Go(func() error {
		r, err := s.runPass(gctx, preGraphFilter, preLockFilter)
		result = r
		return err
	})
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Scheduler) runPass(ctx context.Context, preGraphFilter PreGraphFilter, preLockFilter PreLockFilter) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduler: %v: %w", r, ErrWorkerChannelClosed)
		}
	}()

	// 1. Window fill. Popped entries leave the priority index but stay in
	// the store as Pending until they are dispatched (Remove), deferred
	// (Reinsert), or dropped (Remove).
	entries := make(map[uint64]*dispatchedTx)
	order := make([]uint64, 0, s.cfg.LookAheadWindowSize)
	for i := 0; i < s.cfg.LookAheadWindowSize; i++ {
		id, ok := s.container.PopHighestPriority()
		if !ok {
			break
		}
		entry, ok := s.container.Retrieve(id)
		if !ok {
			continue
		}
		if terr := s.container.Transition(id, txstate.Unprocessed, txstate.Pending); terr != nil {
			s.log.Warn("popped transaction in unexpected state", zap.Uint64("id", id), zap.Error(terr))
		}
		locks, lockErr := entry.Transaction.AccountLocks(maxLocksPerTransaction)
		if lockErr != nil {
			s.log.Warn("dropping transaction with unresolved account locks", zap.Uint64("id", id), zap.Error(lockErr))
			s.container.Remove(id)
			res.NumDropped++
			continue
		}
		entries[id] = &dispatchedTx{
			sched: ScheduledTransaction{
				ID:          id,
				Transaction: entry.Transaction,
				Cost:        entry.Cost,
				Locks:       locks,
			},
			maxAge:   entry.MaxAge,
			packet:   entry.Packet,
			priority: entry.Priority,
		}
		order = append(order, id)
	}
	if len(order) == 0 {
		s.drainCompletions()
		return res, nil
	}

	// 2. Bulk pre-filter. Dropped entries never return to the container.
	window := make([]ScheduledTransaction, len(order))
	for i, id := range order {
		window[i] = entries[id].sched
	}
	flags := make([]bool, len(window))
	for i := range flags {
		flags[i] = true
	}
	if preGraphFilter != nil {
		preGraphFilter(window, flags)
	}
	kept := order[:0]
	for i, id := range order {
		if flags[i] {
			kept = append(kept, id)
		} else {
			s.container.Remove(id)
			delete(entries, id)
			res.NumDropped++
		}
	}
	order = kept
	if len(order) == 0 {
		s.drainCompletions()
		return res, nil
	}
	keptWindow := make([]ScheduledTransaction, 0, len(order))
	for _, id := range order {
		keptWindow = append(keptWindow, entries[id].sched)
	}

	// 3. Graph construction.
	graph := buildConflictGraph(keptWindow)

	// 4-5. Ready-set dispatch.
	ready := graph.Roots()
	handled := make(map[uint64]bool, len(order))
	batches := make([]*openBatch, s.pool.NumWorkers())

	flush := func(workerID int) {
		b := batches[workerID]
		if b == nil || len(b.items) == 0 {
			return
		}
		txs := make([]ScheduledTransaction, len(b.items))
		ages := make([]uint64, len(b.items))
		for i, item := range b.items {
			txs[i] = item.sched
			ages[i] = item.maxAge
		}
		s.inFlight[b.id] = &inFlightBatch{workerID: workerID, cost: b.cost, txs: b.items}
		s.inFlightCU[workerID] += b.cost
		s.pool.Send(workerID, ConsumeWork{
			BatchID:      b.id,
			WorkerID:     workerID,
			Transactions: txs,
			MaxAges:      ages,
			TotalCost:    b.cost,
		})
		batches[workerID] = nil
	}

	openCost := func() uint64 {
		var sum uint64
		for _, b := range batches {
			if b != nil {
				sum += b.cost
			}
		}
		return sum
	}

	for len(ready) > 0 {
		if ctx.Err() != nil {
			break
		}
		if s.totalInFlight()+openCost() >= s.cfg.MaxScheduledCUs {
			break
		}

		bestIdx, bestID, bestPriority := -1, uint64(0), uint64(0)
		for i, id := range ready {
			p := entries[id].priority
			if bestIdx == -1 || p > bestPriority || (p == bestPriority && id < bestID) {
				bestIdx, bestID, bestPriority = i, id, p
			}
		}
		id := bestID
		ready = append(ready[:bestIdx], ready[bestIdx+1:]...)

		item := entries[id]
		if preLockFilter != nil && !preLockFilter(item.sched) {
			s.reinsert(id)
			res.NumDeferred++
			handled[id] = true
			continue
		}
		if s.tracker.WouldExceedLimit(item.sched.Locks.Writable, item.sched.Cost) {
			res.NumUnschedulable++
			s.reinsert(id)
			handled[id] = true
			continue
		}

		s.tracker.AddTransaction(item.sched.Locks.Writable, item.sched.Cost)
		res.NumScheduled++
		handled[id] = true
		s.container.Remove(id)

		workerID := s.leastLoadedWorker(batches)
		if batches[workerID] == nil {
			batches[workerID] = &openBatch{id: uuid.New()}
		}
		batches[workerID].items = append(batches[workerID].items, *item)
		batches[workerID].cost += item.sched.Cost
		if batches[workerID].cost >= s.cfg.TargetScheduledCUsPerWorker {
			flush(workerID)
		}

		ready = append(ready, graph.Release(id)...)
	}

	for workerID := range batches {
		flush(workerID)
	}

	// Anything popped into this window but never reached (blocked behind a
	// deferred or unschedulable predecessor, or abandoned by a mid-pass
	// stall) goes back to the container for the next pass: nothing is ever
	// lost except what a filter explicitly dropped or what failed account
	// lock resolution during the window fill.
	for _, id := range order {
		if !handled[id] {
			s.reinsert(id)
		}
	}

	// 6. Drain completions non-blockingly.
	s.drainCompletions()

	return res, nil
}

// reinsert returns a popped-but-unscheduled id to the container's priority
// index as Unprocessed.
func (s *Scheduler) reinsert(id uint64) {
	if err := s.container.Reinsert(id); err != nil {
		s.log.Warn("could not return transaction to container", zap.Uint64("id", id), zap.Error(err))
	}
}

// drainCompletions performs the non-blocking completion poll:
// each FinishedConsumeWork releases the batch's locks (its in-flight CU)
// and re-enqueues any worker-reported retryable transactions as fresh
// Unprocessed entries (Dispatched -> Retryable -> Unprocessed).
func (s *Scheduler) drainCompletions() {
	for {
		select {
		case fin, ok := <-s.pool.Completions():
			if !ok {
				return
			}
			b, known := s.inFlight[fin.BatchID]
			if !known {
				s.log.Warn("completion for unknown batch", zap.String("batch", fin.BatchID.String()))
				continue
			}
			if s.inFlightCU[b.workerID] >= b.cost {
				s.inFlightCU[b.workerID] -= b.cost
			} else {
				s.inFlightCU[b.workerID] = 0
			}
			for _, idx := range fin.RetryableIndexes {
				if int(idx) >= len(b.txs) {
					continue
				}
				item := b.txs[idx]
				s.container.InsertNewTransaction(item.sched.Transaction, item.maxAge, item.packet, item.priority, item.sched.Cost)
			}
			delete(s.inFlight, fin.BatchID)
		default:
			return
		}
	}
}

func (s *Scheduler) totalInFlight() uint64 {
	var sum uint64
	for _, c := range s.inFlightCU {
		sum += c
	}
	return sum
}

// leastLoadedWorker picks the worker with the least in-flight CU, counting
// its still-open batch.
func (s *Scheduler) leastLoadedWorker(batches []*openBatch) int {
	best := 0
	bestLoad := s.inFlightCU[0]
	if batches[0] != nil {
		bestLoad += batches[0].cost
	}
	for i := 1; i < len(s.inFlightCU); i++ {
		load := s.inFlightCU[i]
		if batches[i] != nil {
			load += batches[i].cost
		}
		if load < bestLoad {
			best, bestLoad = i, load
		}
	}
	return best
}
