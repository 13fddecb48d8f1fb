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

package txtypes

// CompiledInstruction is the immutable, already-compiled form of a single
// transaction instruction: the index of its program in the transaction's
// account-key list, the indices of the accounts it touches, and its raw
// instruction data.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndices []uint8
	Data           []byte
}

// InstructionRef pairs a CompiledInstruction with the resolved Pubkey of its
// program, as yielded by a transaction's program-instruction iterator.
type InstructionRef struct {
	ProgramID   Pubkey
	Instruction CompiledInstruction
}

// FeatureSet reports whether a named network feature is active. It is the
// narrow interface the builtin cost registry uses to decide whether a
// program has migrated to sBPF; txsched never constructs one itself, it is
// supplied by the embedding validator runtime.
type FeatureSet interface {
	IsActive(feature Pubkey) bool
}

// AccountLocks is the resolved set of accounts a sanitized transaction will
// lock for execution, split into the writable and read-only subsets. It is
// produced externally (Transaction.account_locks in spec terms) and consumed
// by the scheduler's conflict-graph construction and by the fee cache.
type AccountLocks struct {
	Writable []Pubkey
	ReadOnly []Pubkey
}

// Transaction is the narrow, already-sanitized view of a transaction that
// the scheduler and compute-budget parser operate over. Sanitization,
// signature verification, and account-state resolution all happen upstream;
// this package only ever reads a Transaction, never mutates one.
type Transaction interface {
	// Instructions returns the transaction's instructions in program order,
	// paired with their resolved program id.
	Instructions() []InstructionRef
	// AccountLocks returns the writable/read-only account sets this
	// transaction will lock, capped at maxLocks.
	AccountLocks(maxLocks int) (AccountLocks, error)
}
