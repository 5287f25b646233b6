// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package partitioning implements free-space discovery and related
// arithmetic over the device graph.
package partitioning

import "strconv"

// Reserved metadata sizes, in bytes.
const (
	// MetadataSize is the space reserved at the front of a partitioned
	// device for the partition table itself, both GPT and MS-DOS.
	MetadataSize = 1024 * 1024

	// GPTTrailingSize is the space reserved at the end of a GPT device for
	// the backup header and partition entries (header + 32 sectors).
	GPTTrailingSize = 33 * 512

	// BootloaderGapMin is the smallest MBR gap usable for embedding a
	// bootloader stage.
	BootloaderGapMin = 256 * 1024
)

// DevName returns the device name for the partition with the given number.
//
// Devices whose name ends in a digit get a "p" separator, so
// "/dev/nvme0n1" + 2 is "/dev/nvme0n1p2" while "/dev/sda" + 2 is "/dev/sda2".
func DevName(device string, part uint) string {
	result := device

	if len(result) > 0 && result[len(result)-1] >= '0' && result[len(result)-1] <= '9' {
		result += "p"
	}

	return result + strconv.FormatUint(uint64(part), 10)
}
