// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package planner turns declarative drive sections into planned device
// descriptors.
//
// Planned devices are not graph nodes: they describe devices a later commit
// step is supposed to create. Planners read the device graph for context but
// never mutate it; problems with the input are recorded on a caller-owned
// issues list instead of failing.
package planner

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/profile"
	"github.com/pief/yast-storage-ng/region"
)

// Partition is a planned partition or logical container entry.
type Partition struct { //nolint:govet
	// Name is the target device name; empty when the number is left to the
	// commit step.
	Name string

	// Number is the requested partition number, 0 when unset.
	Number int

	// Size is the requested size policy.
	Size profile.Size

	// Region is the placement chosen by the planner, nil when placement is
	// deferred to the commit step.
	Region *region.Region

	ID             devicegraph.PartitionID
	FilesystemType devicegraph.FilesystemType
	Label          *string
	MountPoint     *string
}

// Disk is a planned layout for an existing disk.
type Disk struct { //nolint:govet
	// Name is the disk device name.
	Name string

	// NoTable is true when the profile asked for no partition table; the
	// filesystem settings then apply to the whole device.
	NoTable bool

	// TableType is the requested partition table type, nil when the
	// profile left the choice to the commit step.
	TableType *devicegraph.TableType

	// Direct filesystem settings, only used with NoTable.
	FilesystemType devicegraph.FilesystemType
	MountPoint     *string

	Partitions []*Partition
}

// MD is a planned MD RAID device.
type MD struct { //nolint:govet
	// Name is the target device name, e.g. /dev/md0.
	Name string

	Level     devicegraph.RaidLevel
	ChunkSize uint64

	// Members are the member device names, in order.
	Members []string

	// NoTable and TableType follow the same semantics as on Disk.
	NoTable   bool
	TableType *devicegraph.TableType

	// Direct filesystem settings, only used with NoTable.
	FilesystemType devicegraph.FilesystemType
	MountPoint     *string

	Partitions []*Partition
}

// LV is a planned logical volume.
type LV struct { //nolint:govet
	Name string
	Size profile.Size

	FilesystemType devicegraph.FilesystemType
	MountPoint     *string
}

// VG is a planned LVM volume group.
type VG struct { //nolint:govet
	Name string

	// PhysicalVolumes are the names of the devices backing the group.
	PhysicalVolumes []string

	LVs []*LV
}

// maxGPTLabelSize is the partition name field size of a GPT entry.
const maxGPTLabelSize = 72

// gptLabelFits reports whether the label fits the UTF-16 encoded GPT
// partition name field.
func gptLabelFits(label string) bool {
	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

	encoded, err := utf16.NewEncoder().Bytes([]byte(label))
	if err != nil {
		return false
	}

	return len(encoded) <= maxGPTLabelSize
}
