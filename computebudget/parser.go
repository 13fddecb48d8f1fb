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

import (
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/corevalidator/txsched/txtypes"
)

// TryFromInstructions is an alias for ParseInstructions, kept for callers
// that cache the raw details separately from sanitization.
func TryFromInstructions(instructions []txtypes.InstructionRef, registry *Registry, featureSet txtypes.FeatureSet) (InstructionDetails, error) {
	return ParseInstructions(instructions, registry, featureSet)
}

// ParseInstructions performs a single forward pass over a transaction's
// program instructions. It never logs, never allocates beyond its own
// output, and never branches on anything but the
// instruction stream and the builtin registry; replaying the same
// instructions anywhere must yield a byte-identical InstructionDetails or
// the same error.
func ParseInstructions(instructions []txtypes.InstructionRef, registry *Registry, featureSet txtypes.FeatureSet) (InstructionDetails, error) {
	var details InstructionDetails

	for index, ref := range instructions {
		if ref.ProgramID == ComputeBudgetProgramID {
			if err := applyComputeBudgetInstruction(&details, index, ref.Instruction.Data); err != nil {
				return InstructionDetails{}, err
			}
			details.CountComputeBudgetInstructions++
		}

		if cost, ok := registry.Lookup(ref.ProgramID, featureSet); ok {
			details.SumBuiltinComputeUnits = saturatingAddU32(details.SumBuiltinComputeUnits, saturateU64ToU32(cost))
			details.CountBuiltinInstructions++
		} else {
			details.CountNonBuiltinInstructions++
		}
	}

	return details, nil
}

// applyComputeBudgetInstruction decodes and applies a single compute-budget
// program instruction's data to details, enforcing the duplicate-detection
// and heap-range rules.
func applyComputeBudgetInstruction(details *InstructionDetails, index int, data []byte) error {
	if len(data) < 1 {
		return &InstructionError{Index: index, Kind: InvalidInstructionData}
	}
	disc := discriminant(data[0])
	payload := data[1:]

	switch disc {
	case discRequestHeapFrame:
		v, err := readU32(payload)
		if err != nil {
			return &InstructionError{Index: index, Kind: InvalidInstructionData}
		}
		if details.RequestedHeapSize.Set {
			return &DuplicateInstructionError{Index: index}
		}
		if v < MinHeapFrameBytes || v > MaxHeapFrameBytes || v%HeapAlignment != 0 {
			return &InstructionError{Index: index, Kind: InvalidInstructionData}
		}
		details.RequestedHeapSize = setValue(index, v)

	case discSetComputeUnitLimit:
		v, err := readU32(payload)
		if err != nil {
			return &InstructionError{Index: index, Kind: InvalidInstructionData}
		}
		if details.RequestedComputeUnitLimit.Set {
			return &DuplicateInstructionError{Index: index}
		}
		details.RequestedComputeUnitLimit = setValue(index, v)

	case discSetComputeUnitPrice:
		v, err := readU64(payload)
		if err != nil {
			return &InstructionError{Index: index, Kind: InvalidInstructionData}
		}
		if details.RequestedComputeUnitPrice.Set {
			return &DuplicateInstructionError{Index: index}
		}
		details.RequestedComputeUnitPrice = setValue(index, v)

	case discSetLoadedAccountsDataSizeLimit:
		v, err := readU32(payload)
		if err != nil {
			return &InstructionError{Index: index, Kind: InvalidInstructionData}
		}
		if details.RequestedLoadedAccountsDataSizeLimit.Set {
			return &DuplicateInstructionError{Index: index}
		}
		details.RequestedLoadedAccountsDataSizeLimit = setValue(index, v)

	default:
		return &InstructionError{Index: index, Kind: InvalidInstructionData}
	}

	return nil
}

// readU32 and readU64 are length-unchecked: trailing bytes are tolerated
// (and ignored), but the fixed-width payload itself must be present. Wire
// compatibility depends on both halves of that rule.
func readU32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, errShortPayload
	}
	return binary.LittleEndian.Uint32(b[:4]), nil
}

func readU64(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, errShortPayload
	}
	return binary.LittleEndian.Uint64(b[:8]), nil
}

var errShortPayload = errors.New("compute budget instruction payload too short")

// saturatingAddU32 adds a and b without wrapping past math.MaxUint32.
func saturatingAddU32(a, b uint32) uint32 {
	sum, carry := bits.Add32(a, b, 0)
	if carry != 0 {
		return ^uint32(0)
	}
	return sum
}

// saturateU64ToU32 clamps a u64 builtin cost down to u32 range. Builtin
// native costs are small, fixed constants well under 2^32, but the clamp
// keeps the aggregation saturating end-to-end.
func saturateU64ToU32(v uint64) uint32 {
	if v > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}
