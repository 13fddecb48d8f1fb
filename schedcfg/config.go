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

// Package schedcfg loads the tunables that size the rest of this module:
// the scheduler's per-pass knobs, the ingress buffer and transaction state
// container capacities, and the fee cache's retention window.
package schedcfg

import "github.com/BurntSushi/toml"

// Config is the top-level TOML document an embedding validator binary
// loads at startup. There is no CLI surface; this is a
// library function, not a `main` package.
type Config struct {
	Scheduler SchedulerConfig `toml:"scheduler"`
	Buffer    BufferConfig    `toml:"buffer"`
	FeeCache  FeeCacheConfig  `toml:"fee_cache"`
}

// SchedulerConfig mirrors scheduler.Config's three tunables and adds the
// worker count.
type SchedulerConfig struct {
	TargetScheduledCUsPerWorker uint64 `toml:"target_scheduled_cus_per_worker"`
	MaxScheduledCUs             uint64 `toml:"max_scheduled_cus"`
	LookAheadWindowSize         int    `toml:"look_ahead_window_size"`
	NumWorkers                  int    `toml:"num_workers"`
}

// BufferConfig sizes the ingress buffer (E) and the transaction state
// container (F).
type BufferConfig struct {
	IngressCapacity   int `toml:"ingress_capacity"`
	ContainerCapacity int `toml:"container_capacity"`
}

// FeeCacheConfig sizes the prioritization-fee observation cache (I).
type FeeCacheConfig struct {
	MaxRecentBlocks int `toml:"max_recent_blocks"`
}

// Default returns the stock limits, sized for an
// 8-worker validator.
func Default() Config {
	return Config{
		Scheduler: SchedulerConfig{
			TargetScheduledCUsPerWorker: 12_000_000 / 8,
			MaxScheduledCUs:             48_000_000,
			LookAheadWindowSize:         128,
			NumWorkers:                  8,
		},
		Buffer: BufferConfig{
			IngressCapacity:   700_000,
			ContainerCapacity: 700_000,
		},
		FeeCache: FeeCacheConfig{
			MaxRecentBlocks: 150,
		},
	}
}

// Load reads and decodes a Config from a TOML file at path.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
