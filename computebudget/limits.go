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
	"errors"

	"github.com/corevalidator/txsched/txtypes"
)

// ErrInvalidLoadedAccountsDataSizeLimit is returned when a transaction
// explicitly requests a zero loaded-accounts-data-size limit.
var ErrInvalidLoadedAccountsDataSizeLimit = errors.New("invalid loaded accounts data size limit: requested zero")

// ComputeBudgetLimits is the sanitized, validated budget record: the
// values the runtime actually enforces for a transaction.
type ComputeBudgetLimits struct {
	UpdatedHeapBytes    uint32
	ComputeUnitLimit    uint32
	ComputeUnitPrice    uint64
	LoadedAccountsBytes uint32 // always > 0
}

// SanitizeAndConvert applies the caps, defaults, and rejections that turn
// a raw InstructionDetails into the ComputeBudgetLimits a transaction will
// actually be charged and permitted to consume.
func SanitizeAndConvert(details InstructionDetails) (ComputeBudgetLimits, error) {
	heap := details.RequestedHeapSize.Or(MinHeapFrameBytes)
	if heap > MaxHeapFrameBytes {
		heap = MaxHeapFrameBytes
	}

	cuLimit := details.RequestedComputeUnitLimit.Or(defaultComputeUnitLimit(details))
	if cuLimit > MaxCULimit {
		cuLimit = MaxCULimit
	}

	cuPrice := details.RequestedComputeUnitPrice.Or(0)

	var loadedBytes uint32
	if details.RequestedLoadedAccountsDataSizeLimit.Set {
		if details.RequestedLoadedAccountsDataSizeLimit.Value == 0 {
			return ComputeBudgetLimits{}, ErrInvalidLoadedAccountsDataSizeLimit
		}
		loadedBytes = details.RequestedLoadedAccountsDataSizeLimit.Value
	} else {
		loadedBytes = MaxLoadedAccountsDataSizeBytes
	}
	if loadedBytes > MaxLoadedAccountsDataSizeBytes {
		loadedBytes = MaxLoadedAccountsDataSizeBytes
	}

	return ComputeBudgetLimits{
		UpdatedHeapBytes:    heap,
		ComputeUnitLimit:    cuLimit,
		ComputeUnitPrice:    cuPrice,
		LoadedAccountsBytes: loadedBytes,
	}, nil
}

// defaultComputeUnitLimit computes the historical fallback: an unspecified
// compute-unit limit behaves as though every
// non-budget instruction requested the historical per-instruction default.
func defaultComputeUnitLimit(details InstructionDetails) uint32 {
	nonBudget := saturatingAddU32(details.CountBuiltinInstructions, details.CountNonBuiltinInstructions)
	nonBudget = saturatingSubU32(nonBudget, details.CountComputeBudgetInstructions)
	return saturatingMulU32(nonBudget, DefaultInstructionCULimit)
}

func saturatingSubU32(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

func saturatingMulU32(a, b uint32) uint32 {
	if a == 0 || b == 0 {
		return 0
	}
	product := uint64(a) * uint64(b)
	if product > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(product)
}

// SanitizeAndConvertToComputeBudgetLimits is the cacheable, two-step entry
// point: callers that already hold a parsed
// InstructionDetails (e.g. recovered from a cache) go straight to limits
// without re-scanning the instruction list.
func (d InstructionDetails) SanitizeAndConvertToComputeBudgetLimits() (ComputeBudgetLimits, error) {
	return SanitizeAndConvert(d)
}

// ProcessComputeBudgetInstructions is the one-shot entry point: parse then
// sanitize in a single call.
func ProcessComputeBudgetInstructions(instructions []txtypes.InstructionRef, registry *Registry, featureSet txtypes.FeatureSet) (ComputeBudgetLimits, error) {
	details, err := ParseInstructions(instructions, registry, featureSet)
	if err != nil {
		return ComputeBudgetLimits{}, err
	}
	return SanitizeAndConvert(details)
}
