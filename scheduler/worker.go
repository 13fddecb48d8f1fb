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

	"github.com/JekaMas/workerpool"
	"github.com/google/uuid"

	"github.com/corevalidator/txsched/txtypes"
)

// ConsumeWork is the message the scheduler sends to hand a worker a batch
// of transactions whose locks the scheduler considers held on the worker's
// behalf until the matching FinishedConsumeWork arrives.
// MaxAges[i] belongs to Transactions[i].
type ConsumeWork struct {
	BatchID      uuid.UUID
	WorkerID     int
	Transactions []ScheduledTransaction
	MaxAges      []uint64
	TotalCost    uint64
}

// ScheduledTransaction pairs a transaction with the dense id it was drawn
// from in the transaction state container, so completions can be reported
// back against it.
type ScheduledTransaction struct {
	ID          uint64
	Transaction txtypes.Transaction
	Cost        uint64
	Locks       txtypes.AccountLocks
}

// FinishedConsumeWork is the worker's reply once it has worked through a
// batch: it releases the locks the scheduler was holding on the batch's
// behalf, and names the positions within the batch that should be retried
// (returned to the container as Unprocessed rather than destroyed).
type FinishedConsumeWork struct {
	BatchID          uuid.UUID
	WorkerID         int
	RetryableIndexes []uint8
}

// Execute runs one transaction and reports whether it should be retried in
// a later pass (for example, a bank-level lock conflict) rather than
// treated as done. Supplied by the embedding validator runtime; txsched
// only orchestrates dispatch, never execution itself.
type Execute func(ScheduledTransaction) (retryable bool)

// WorkerPool owns a fixed number of persistent worker goroutines, each
// draining its own ConsumeWork channel and replying on the shared
// completions channel, matching the addressable, per-worker channel
// protocol the scheduler depends on (a generic task-queue pool would not give
// the scheduler a stable "least in-flight CU worker" to target).
type WorkerPool struct {
	pool        *workerpool.WorkerPool
	inboxes     []chan ConsumeWork
	completions chan FinishedConsumeWork
	execute     Execute
}

// NewWorkerPool starts numWorkers persistent workers backed by
// github.com/JekaMas/workerpool, each executing batches with execute.
func NewWorkerPool(numWorkers int, execute Execute) *WorkerPool {
	wp := &WorkerPool{
		pool:        workerpool.New(numWorkers),
		inboxes:     make([]chan ConsumeWork, numWorkers),
		completions: make(chan FinishedConsumeWork, numWorkers),
		execute:     execute,
	}
	for i := 0; i < numWorkers; i++ {
		inbox := make(chan ConsumeWork, 1)
		wp.inboxes[i] = inbox
		workerID := i
		wp.pool.Submit(context.Background(), func() error {
			wp.runWorker(workerID, inbox)
			return nil
		}, workerpool.NoTimeout)
	}
	return wp
}

func (wp *WorkerPool) runWorker(workerID int, inbox chan ConsumeWork) {
	for work := range inbox {
		var retryable []uint8
		for i, tx := range work.Transactions {
			if wp.execute(tx) {
				retryable = append(retryable, uint8(i))
			}
		}
		wp.completions <- FinishedConsumeWork{
			BatchID:          work.BatchID,
			WorkerID:         workerID,
			RetryableIndexes: retryable,
		}
	}
}

// Send delivers work to a specific worker's inbox.
func (wp *WorkerPool) Send(workerID int, work ConsumeWork) {
	wp.inboxes[workerID] <- work
}

// Completions exposes the shared completion channel for the dispatch loop
// to drain non-blockingly.
func (wp *WorkerPool) Completions() <-chan FinishedConsumeWork {
	return wp.completions
}

// NumWorkers reports how many workers the pool manages.
func (wp *WorkerPool) NumWorkers() int {
	return len(wp.inboxes)
}

// Close stops accepting new work and waits for in-flight batches to drain.
func (wp *WorkerPool) Close() {
	for _, inbox := range wp.inboxes {
		close(inbox)
	}
	wp.pool.StopWait()
	close(wp.completions)
}
