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

import "fmt"

// discriminant identifies which compute-budget instruction variant a
// compute-budget-program instruction's data encodes: a little-endian
// discriminant byte, then the payload.
type discriminant byte

const (
	discRequestHeapFrame               discriminant = 1
	discSetComputeUnitLimit            discriminant = 2
	discSetComputeUnitPrice            discriminant = 3
	discSetLoadedAccountsDataSizeLimit discriminant = 4
)

// InstructionErrorKind enumerates the reasons a single instruction can be
// rejected while decoding the compute-budget program's instruction data.
type InstructionErrorKind int

const (
	// InvalidInstructionData covers an unknown discriminant, a payload that
	// doesn't decode, or a RequestHeapFrame value outside the valid range.
	InvalidInstructionData InstructionErrorKind = iota + 1
)

func (k InstructionErrorKind) String() string {
	switch k {
	case InvalidInstructionData:
		return "invalid instruction data"
	default:
		return "unknown instruction error"
	}
}

// InstructionError reports a deterministic, transaction-rejecting failure
// at a specific instruction index.
type InstructionError struct {
	Index int
	Kind  InstructionErrorKind
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d: %s", e.Index, e.Kind)
}

// DuplicateInstructionError reports that a compute-budget instruction
// variant was seen a second time, keyed to the later (duplicate)
// instruction index.
type DuplicateInstructionError struct {
	Index int
}

func (e *DuplicateInstructionError) Error() string {
	return fmt.Sprintf("duplicate compute-budget instruction at index %d", e.Index)
}
