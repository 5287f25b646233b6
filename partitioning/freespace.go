// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package partitioning

import (
	"github.com/siderolabs/gen/xslices"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/region"
)

// FreeSpaces returns the regions of a partitionable device available for new
// partitions, sorted by starting block.
//
// A device without a partition table and without any direct usage is one big
// free region. A device directly formatted or consumed as a whole (PV, RAID
// member, encryption) has no free space. With a table, the table's own
// metadata reservations and every existing partition are subtracted; the
// remaining maximal gaps are returned.
func FreeSpaces(g *devicegraph.Graph, dev *devicegraph.Device) []region.Region {
	if dev == nil || !dev.IsBlockDevice() {
		return nil
	}

	whole := dev.Region()

	table := g.TableOf(dev)
	if table == nil {
		if g.IsDirectlyUsed(dev) {
			return nil
		}

		return []region.Region{whole}
	}

	used := []region.Region{reservedLeading(whole)}

	if table.Table.Type == devicegraph.TableTypeGPT {
		used = append(used, reservedTrailing(whole))
	}

	used = append(used, xslices.Map(g.PartitionsOf(table), (*devicegraph.Device).Region)...)

	return region.Unused(whole, used)
}

// FreeSpacesForTable returns the free regions of the device assuming a
// partition table of the given type is going to be created on it.
//
// With an existing table this is the same as FreeSpaces; without one, the
// metadata reservations of the future table are subtracted up front.
func FreeSpacesForTable(g *devicegraph.Graph, dev *devicegraph.Device, typ devicegraph.TableType) []region.Region {
	if dev == nil || !dev.IsBlockDevice() {
		return nil
	}

	if g.TableOf(dev) != nil {
		return FreeSpaces(g, dev)
	}

	if g.IsDirectlyUsed(dev) {
		return nil
	}

	whole := dev.Region()

	used := []region.Region{reservedLeading(whole)}
	if typ == devicegraph.TableTypeGPT {
		used = append(used, reservedTrailing(whole))
	}

	return region.Unused(whole, used)
}

// LargestFreeSpace returns the biggest free region of the device.
//
// The second return is false when the device has no free space at all.
func LargestFreeSpace(g *devicegraph.Graph, dev *devicegraph.Device) (region.Region, bool) {
	var (
		largest region.Region
		found   bool
	)

	for _, free := range FreeSpaces(g, dev) {
		if !found || free.SizeBytes() > largest.SizeBytes() {
			largest = free
			found = true
		}
	}

	return largest, found
}

// reservedLeading returns the metadata region at the front of the device.
func reservedLeading(whole region.Region) region.Region {
	return region.New(whole.Start, blocksFor(MetadataSize, whole.BlockSize), whole.BlockSize)
}

// reservedTrailing returns the GPT backup region at the end of the device.
func reservedTrailing(whole region.Region) region.Region {
	blocks := blocksFor(GPTTrailingSize, whole.BlockSize)

	return region.New(whole.End()-blocks+1, blocks, whole.BlockSize)
}

// blocksFor converts a byte size to blocks, rounding up.
func blocksFor(bytes, blockSize uint64) uint64 {
	return (bytes + blockSize - 1) / blockSize
}
