// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package arch provides the firmware/architecture context that influences
// storage decisions.
package arch

import (
	"github.com/pief/yast-storage-ng/devicegraph"
)

// System describes the firmware environment of the running machine.
type System struct {
	// EFI is true when the system booted through UEFI firmware.
	EFI bool
}

// Detect inspects the running system.
func Detect() System {
	return System{EFI: efiBooted()}
}

// msdosSizeLimit is the largest device addressable by an MS-DOS partition
// table: 2^32 sectors of 512 bytes.
const msdosSizeLimit = uint64(1 << 32 * 512)

// PreferredTableType returns the partition table type recommended for a disk
// in this firmware context.
//
// UEFI systems get GPT, and so does any disk beyond the MS-DOS addressing
// limit; legacy BIOS systems otherwise stay with MS-DOS.
func (s System) PreferredTableType(disk *devicegraph.Device) devicegraph.TableType {
	if s.EFI {
		return devicegraph.TableTypeGPT
	}

	if disk != nil && disk.Region().SizeBytes() > msdosSizeLimit {
		return devicegraph.TableTypeGPT
	}

	return devicegraph.TableTypeMSDOS
}
