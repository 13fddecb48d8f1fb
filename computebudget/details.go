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

// IndexedValue pairs a value with the instruction index that set it. The
// zero value has Set == false and must not be read.
type IndexedValue[T any] struct {
	Index uint8
	Value T
	Set   bool
}

func setValue[T any](index int, v T) IndexedValue[T] {
	return IndexedValue[T]{Index: uint8(index), Value: v, Set: true}
}

// Or returns Value if Set, otherwise fallback.
func (iv IndexedValue[T]) Or(fallback T) T {
	if iv.Set {
		return iv.Value
	}
	return fallback
}

// InstructionDetails is the raw, deterministic, cacheable record produced by
// ParseInstructions. Two InstructionDetails values
// produced from byte-identical instruction sequences are themselves
// byte-identical.
type InstructionDetails struct {
	RequestedComputeUnitLimit            IndexedValue[uint32]
	RequestedComputeUnitPrice            IndexedValue[uint64]
	RequestedHeapSize                    IndexedValue[uint32]
	RequestedLoadedAccountsDataSizeLimit IndexedValue[uint32]

	SumBuiltinComputeUnits       uint32
	CountBuiltinInstructions     uint32
	CountNonBuiltinInstructions  uint32
	CountComputeBudgetInstructions uint32
}
