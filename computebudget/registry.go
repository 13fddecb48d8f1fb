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

package computebudget

import "github.com/corevalidator/txsched/txtypes"

// builtinEntry is the static cost record for one builtin program.
type builtinEntry struct {
	nativeCost           uint64
	sbpfMigrationFeature txtypes.Pubkey
	hasMigrationFeature  bool
}

// Registry is the process-wide, read-only builtin-program cost table.
// It must never be mutated after construction;
// the zero value is not usable, callers hold a *Registry obtained from
// NewRegistry or DefaultRegistry.
type Registry struct {
	entries         map[txtypes.Pubkey]builtinEntry
	firstByteFilter [256]bool
}

// NewRegistry builds a registry from an explicit set of entries. Production
// code should use DefaultRegistry; NewRegistry exists so tests can exercise
// the lookup/filter logic against small, synthetic tables.
func NewRegistry(entries map[txtypes.Pubkey]builtinProgram) *Registry {
	r := &Registry{entries: make(map[txtypes.Pubkey]builtinEntry, len(entries))}
	for id, p := range entries {
		e := builtinEntry{nativeCost: p.NativeCost}
		if !p.SBPFMigrationFeature.IsZero() {
			e.sbpfMigrationFeature = p.SBPFMigrationFeature
			e.hasMigrationFeature = true
		}
		r.entries[id] = e
		r.firstByteFilter[id.FirstByte()] = true
	}
	return r
}

// builtinProgram is the input shape for NewRegistry: a native cost and an
// optional sBPF migration feature gate.
type builtinProgram struct {
	NativeCost           uint64
	SBPFMigrationFeature txtypes.Pubkey
}

// Lookup returns the builtin cost for program, or ok=false if program is not
// a builtin at all. When the program's migration feature is active in
// featureSet, the returned cost is 0 (the program now runs as ordinary
// sBPF and no longer carries a native builtin cost).
func (r *Registry) Lookup(program txtypes.Pubkey, featureSet txtypes.FeatureSet) (cost uint64, ok bool) {
	if !r.firstByteFilter[program.FirstByte()] {
		return 0, false
	}
	entry, found := r.entries[program]
	if !found {
		return 0, false
	}
	if entry.hasMigrationFeature && featureSet != nil && featureSet.IsActive(entry.sbpfMigrationFeature) {
		return 0, true
	}
	return entry.nativeCost, true
}

// Len reports the number of builtin programs in the registry.
func (r *Registry) Len() int {
	return len(r.entries)
}
