// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package partitioning

import (
	"github.com/pief/yast-storage-ng/devicegraph"
)

// MBRGap returns the size in bytes of the gap between an MS-DOS partition
// table's metadata and its first partition.
//
// The second return is false when the gap is not applicable: no partition
// table at all, or a GPT table. For an MS-DOS table with no partitions the
// gap is the whole metadata-sized region, since nothing besides the table
// sits before open space.
func MBRGap(g *devicegraph.Graph, dev *devicegraph.Device) (uint64, bool) {
	if dev == nil {
		return 0, false
	}

	table := g.TableOf(dev)
	if table == nil || table.Table.Type != devicegraph.TableTypeMSDOS {
		return 0, false
	}

	parts := g.PartitionsOf(table)
	if len(parts) == 0 {
		return MetadataSize, true
	}

	whole := dev.Region()
	metadataEnd := whole.Start + blocksFor(MetadataSize, whole.BlockSize)

	first := parts[0].Region().Start
	for _, p := range parts[1:] {
		if start := p.Region().Start; start < first {
			first = start
		}
	}

	if first <= metadataEnd {
		return 0, true
	}

	return (first - metadataEnd) * whole.BlockSize, true
}

// CanEmbedBootloader reports whether the MBR gap is big enough to embed a
// bootloader stage.
//
// Always false for GPT tables and devices without a table.
func CanEmbedBootloader(g *devicegraph.Graph, dev *devicegraph.Device) bool {
	gap, ok := MBRGap(g, dev)

	return ok && gap >= BootloaderGapMin
}
