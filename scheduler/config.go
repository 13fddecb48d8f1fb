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

// Config holds the three tunables that shape a scheduling
// pass.
type Config struct {
	// TargetScheduledCUsPerWorker is the soft cap on compute units a single
	// worker batch may carry before the scheduler closes it and dispatches.
	TargetScheduledCUsPerWorker uint64
	// MaxScheduledCUs is the global in-flight compute-unit cap across all
	// workers; new dispatch stalls while it is exceeded.
	MaxScheduledCUs uint64
	// LookAheadWindowSize is how many top-priority transactions are pulled
	// from the state container into one window before graph construction.
	LookAheadWindowSize int
}

// DefaultConfig returns reasonable defaults for a single-validator test
// harness; production deployments size these from measured worker
// throughput.
func DefaultConfig(numWorkers int) Config {
	return Config{
		TargetScheduledCUsPerWorker: 12_000_000 / uint64(numWorkers),
		MaxScheduledCUs:             48_000_000,
		LookAheadWindowSize:         128,
	}
}
