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

import "testing"

// The sanitizer always clamps into range,
// regardless of how adversarial the raw InstructionDetails is.
func TestSanitizerClampingInvariant(t *testing.T) {
	cases := []InstructionDetails{
		{RequestedHeapSize: setValue(0, ^uint32(0)), RequestedComputeUnitLimit: setValue(0, ^uint32(0))},
		{RequestedLoadedAccountsDataSizeLimit: setValue(0, ^uint32(0))},
		{CountNonBuiltinInstructions: ^uint32(0)},
	}
	for i, d := range cases {
		limits, err := d.SanitizeAndConvertToComputeBudgetLimits()
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if limits.ComputeUnitLimit > MaxCULimit {
			t.Errorf("case %d: compute unit limit %d exceeds max %d", i, limits.ComputeUnitLimit, MaxCULimit)
		}
		if limits.UpdatedHeapBytes > MaxHeapFrameBytes {
			t.Errorf("case %d: heap bytes %d exceeds max %d", i, limits.UpdatedHeapBytes, MaxHeapFrameBytes)
		}
		if limits.LoadedAccountsBytes > MaxLoadedAccountsDataSizeBytes {
			t.Errorf("case %d: loaded bytes %d exceeds max %d", i, limits.LoadedAccountsBytes, MaxLoadedAccountsDataSizeBytes)
		}
		if limits.LoadedAccountsBytes == 0 {
			t.Errorf("case %d: loaded accounts bytes must be non-zero", i)
		}
	}
}

func TestSanitizerRejectsZeroLoadedAccountsLimit(t *testing.T) {
	d := InstructionDetails{RequestedLoadedAccountsDataSizeLimit: setValue(0, uint32(0))}
	if _, err := d.SanitizeAndConvertToComputeBudgetLimits(); err != ErrInvalidLoadedAccountsDataSizeLimit {
		t.Fatalf("expected ErrInvalidLoadedAccountsDataSizeLimit, got %v", err)
	}
}
