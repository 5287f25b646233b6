// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package region implements arithmetic over block-addressed disk extents.
package region

import (
	"fmt"
	"slices"
)

// Region is a contiguous extent of blocks on a block device.
//
// Start and Length are expressed in blocks of BlockSize bytes. Regions with
// different block sizes must be converted to bytes before being compared.
type Region struct {
	Start     uint64
	Length    uint64
	BlockSize uint64
}

// New creates a region from a start block, a block count and a block size.
func New(start, length, blockSize uint64) Region {
	return Region{Start: start, Length: length, BlockSize: blockSize}
}

// IsEmpty returns true for a region covering no blocks.
func (r Region) IsEmpty() bool {
	return r.Length == 0
}

// End returns the last block covered by the region.
//
// End is only meaningful for non-empty regions; for an empty region it
// returns Start.
func (r Region) End() uint64 {
	if r.Length == 0 {
		return r.Start
	}

	return r.Start + r.Length - 1
}

// SizeBytes returns the region size in bytes.
func (r Region) SizeBytes() uint64 {
	return r.Length * r.BlockSize
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return fmt.Sprintf("[%d, %d] (%d blocks of %d bytes)", r.Start, r.End(), r.Length, r.BlockSize)
}

// Overlaps returns true if the two regions share at least one block.
//
// Both regions must use the same block size.
func (r Region) Overlaps(other Region) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}

	return r.Start <= other.End() && other.Start <= r.End()
}

// Contains returns true if other lies fully inside the region.
func (r Region) Contains(other Region) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}

	return r.Start <= other.Start && other.End() <= r.End()
}

// Intersect returns the blocks shared between the two regions.
func (r Region) Intersect(other Region) Region {
	if !r.Overlaps(other) {
		return Region{BlockSize: r.BlockSize}
	}

	start := max(r.Start, other.Start)
	end := min(r.End(), other.End())

	return Region{Start: start, Length: end - start + 1, BlockSize: r.BlockSize}
}

// Subtract removes the blocks of other from the region.
//
// The result contains zero, one or two regions: zero when other covers the
// whole region, two when other is strictly interior.
func (r Region) Subtract(other Region) []Region {
	overlap := r.Intersect(other)
	if overlap.IsEmpty() {
		if r.IsEmpty() {
			return nil
		}

		return []Region{r}
	}

	var result []Region

	if overlap.Start > r.Start {
		result = append(result, Region{
			Start:     r.Start,
			Length:    overlap.Start - r.Start,
			BlockSize: r.BlockSize,
		})
	}

	if overlap.End() < r.End() {
		result = append(result, Region{
			Start:     overlap.End() + 1,
			Length:    r.End() - overlap.End(),
			BlockSize: r.BlockSize,
		})
	}

	return result
}

// Unused returns the maximal contiguous sub-regions of whole not covered by
// any of the used regions, sorted by starting block.
func Unused(whole Region, used []Region) []Region {
	free := []Region{whole}

	for _, u := range used {
		var next []Region

		for _, f := range free {
			next = append(next, f.Subtract(u)...)
		}

		free = next
	}

	slices.SortFunc(free, func(a, b Region) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})

	return free
}
