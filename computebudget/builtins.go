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

// Well-known builtin program identifiers. These are process-wide constants
// and are the identifiers DefaultRegistry's table is keyed by.
var (
	SystemProgramID             = mustID(1)
	StakeProgramID              = mustID(2)
	VoteProgramID               = mustID(3)
	ConfigProgramID             = mustID(4)
	ComputeBudgetProgramID      = mustID(5)
	AddressLookupTableProgramID = mustID(6)
	BPFLoaderV1ProgramID        = mustID(7)
	BPFLoaderV2ProgramID        = mustID(8)
	BPFLoaderUpgradeableID      = mustID(9)
	BPFLoaderV4ProgramID        = mustID(10)
	Secp256k1PrecompileID       = mustID(11)
	Ed25519PrecompileID         = mustID(12)
)

// migration feature gates for the loaders that have an sBPF successor.
var (
	BPFLoaderV2MigrationFeature   = mustID(108)
	BPFLoaderUpgradeableMigration = mustID(109)
)

func mustID(b byte) txtypes.Pubkey {
	var p txtypes.Pubkey
	p[0] = b
	p[31] = b
	return p
}

// DefaultRegistry returns the twelve-entry builtin cost table: system,
// stake, vote, config, compute-budget, address-lookup-table, the four BPF
// loader variants, and two zero-cost precompiles.
func DefaultRegistry() *Registry {
	return NewRegistry(map[txtypes.Pubkey]builtinProgram{
		SystemProgramID:             {NativeCost: 150},
		StakeProgramID:              {NativeCost: 750},
		VoteProgramID:               {NativeCost: 2_100},
		ConfigProgramID:             {NativeCost: 450},
		ComputeBudgetProgramID:      {NativeCost: 150},
		AddressLookupTableProgramID: {NativeCost: 750},
		BPFLoaderV1ProgramID:        {NativeCost: 1_140},
		BPFLoaderV2ProgramID:        {NativeCost: 2_370, SBPFMigrationFeature: BPFLoaderV2MigrationFeature},
		BPFLoaderUpgradeableID:      {NativeCost: 2_370, SBPFMigrationFeature: BPFLoaderUpgradeableMigration},
		BPFLoaderV4ProgramID:        {NativeCost: 2_370},
		Secp256k1PrecompileID:       {NativeCost: 0},
		Ed25519PrecompileID:         {NativeCost: 0},
	})
}
