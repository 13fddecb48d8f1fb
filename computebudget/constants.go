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

// Consensus-critical limits; changing any of these is a network upgrade.
const (
	MinHeapFrameBytes         uint32 = 32 * 1024
	MaxHeapFrameBytes         uint32 = 256 * 1024
	HeapAlignment             uint32 = 1024
	DefaultInstructionCULimit uint32 = 200_000
	MaxCULimit                 uint32 = 1_400_000
	// MaxLoadedAccountsDataSizeBytes is the validator-wide cap on the
	// loaded-accounts-data-size limit; it must never be zero.
	MaxLoadedAccountsDataSizeBytes uint32 = 64 * 1024 * 1024
)
