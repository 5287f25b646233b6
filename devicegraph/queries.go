// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package devicegraph

import (
	"slices"

	glob "github.com/ryanuber/go-glob"
	"github.com/siderolabs/gen/xslices"

	"github.com/pief/yast-storage-ng/internal/natsort"
)

// FindByName returns the device with the exact name, nil when absent.
func (g *Graph) FindByName(name string) *Device {
	for _, sid := range g.order {
		if d := g.devices[sid]; d.name == name {
			return d
		}
	}

	return nil
}

// FindDiskByNameOrPartition resolves a name to the owning disk.
//
// The name may be the disk itself or any of its partitions (primary,
// extended or logical); either way the disk is returned, never a partition.
// Returns nil for unknown names and for names of non-disk devices.
func (g *Graph) FindDiskByNameOrPartition(name string) *Device {
	if d := g.FindByName(name); d != nil {
		if d.Disk != nil {
			return d
		}

		if d.Partition != nil {
			return g.DiskOfPartition(d)
		}

		return nil
	}

	return nil
}

// DiskOfPartition walks up from a partition to the disk hosting it.
func (g *Graph) DiskOfPartition(part *Device) *Device {
	table := g.HostOf(part)
	if table == nil {
		return nil
	}

	disk := g.HostOf(table)
	if disk == nil || disk.Disk == nil {
		return nil
	}

	return disk
}

// Disks returns all physical disks in the graph, in creation order.
func (g *Graph) Disks() []*Device {
	return xslices.Filter(g.AllDevices(), func(d *Device) bool {
		return d.Disk != nil
	})
}

// InstallationDisks returns the disks usable as independent installation
// targets, excluding multipath wires, BIOS RAID members and boot areas.
func (g *Graph) InstallationDisks() []*Device {
	return xslices.Filter(g.Disks(), (*Device).IsDiskDevice)
}

// SortedByName returns the devices ordered by basename, comparing numeric
// runs by value ("nvme0n1" < "nvme0n2" < "nvme1n1", "sda" < "sdb" < "sdaa").
//
// The ordering is stable and independent of graph iteration order.
func SortedByName(devices []*Device) []*Device {
	sorted := slices.Clone(devices)

	slices.SortStableFunc(sorted, func(a, b *Device) int {
		return natsort.Compare(a.Basename(), b.Basename())
	})

	return sorted
}

// Matcher is a predicate for custom device matching logic.
type Matcher func(*Device) bool

// Match checks whether a device satisfies all matchers.
func Match(dev *Device, matchers ...Matcher) bool {
	for _, m := range matchers {
		if !m(dev) {
			return false
		}
	}

	return true
}

// Find returns the first device satisfying all matchers, nil when none does.
func (g *Graph) Find(matchers ...Matcher) *Device {
	for _, sid := range g.order {
		if Match(g.devices[sid], matchers...) {
			return g.devices[sid]
		}
	}

	return nil
}

// WithName selects devices by name, wildcards allowed.
func WithName(name string) Matcher {
	return func(d *Device) bool {
		return glob.Glob(name, d.name)
	}
}

// WithDiskModel selects disks by model, wildcards allowed.
func WithDiskModel(model string) Matcher {
	return func(d *Device) bool {
		return d.Disk != nil && glob.Glob(model, d.Disk.Model)
	}
}

// WithDiskSerial selects disks by serial, wildcards allowed.
func WithDiskSerial(serial string) Matcher {
	return func(d *Device) bool {
		return d.Disk != nil && glob.Glob(serial, d.Disk.Serial)
	}
}

// WithDiskWWID selects disks by WWID, wildcards allowed.
func WithDiskWWID(wwid string) Matcher {
	return func(d *Device) bool {
		return d.Disk != nil && glob.Glob(wwid, d.Disk.WWID)
	}
}

// TableOf returns the partition table hosted on a partitionable, nil when
// the device has none.
func (g *Graph) TableOf(dev *Device) *Device {
	for _, child := range g.HostedOn(dev) {
		if child.Table != nil {
			return child
		}
	}

	return nil
}

// TableTypeOf returns the partition table type of a partitionable.
//
// The second return is false when the device has no table.
func (g *Graph) TableTypeOf(dev *Device) (TableType, bool) {
	table := g.TableOf(dev)
	if table == nil {
		return 0, false
	}

	return table.Table.Type, true
}

// IsGPT returns true when the device carries a GPT partition table.
//
// False whenever there is no table at all.
func (g *Graph) IsGPT(dev *Device) bool {
	typ, ok := g.TableTypeOf(dev)

	return ok && typ == TableTypeGPT
}

// IsMSDOS returns true when the device carries an MS-DOS partition table.
func (g *Graph) IsMSDOS(dev *Device) bool {
	typ, ok := g.TableTypeOf(dev)

	return ok && typ == TableTypeMSDOS
}

// PartitionsOf returns the partitions of a table, ordered by number.
func (g *Graph) PartitionsOf(table *Device) []*Device {
	if table == nil || table.Table == nil {
		return nil
	}

	parts := xslices.Filter(g.HostedOn(table), func(d *Device) bool {
		return d.Partition != nil
	})

	slices.SortFunc(parts, func(a, b *Device) int {
		return a.Partition.Number - b.Partition.Number
	})

	return parts
}

// PartitionsOn returns the partitions of a partitionable device, ordered by
// number; empty when there is no table.
func (g *Graph) PartitionsOn(dev *Device) []*Device {
	return g.PartitionsOf(g.TableOf(dev))
}

// FilesystemOf returns the filesystem directly hosted on a block device,
// nil when the device is not formatted.
func (g *Graph) FilesystemOf(dev *Device) *Device {
	if dev == nil {
		return nil
	}

	for _, child := range g.HostedOn(dev) {
		if child.Filesystem != nil {
			return child
		}
	}

	return nil
}

// IsDirectlyUsed returns true when a block device is consumed as a whole:
// formatted with a filesystem, used as an LVM physical volume, member of an
// MD RAID or hosting an encryption layer.
func (g *Graph) IsDirectlyUsed(dev *Device) bool {
	for _, child := range g.HostedOn(dev) {
		if child.Filesystem != nil || child.PV != nil || child.Encryption != nil {
			return true
		}
	}

	return len(g.CompositesOf(dev)) > 0
}

// EFIPartitions returns the EFI System Partitions of the graph: partitions
// with the ESP role id formatted with the FAT family filesystem.
//
// The role id alone is not sufficient, a mislabeled unformatted partition is
// not a usable ESP.
func (g *Graph) EFIPartitions() []*Device {
	return xslices.Filter(g.partitions(), func(d *Device) bool {
		if d.Partition.ID != IDESP {
			return false
		}

		fs := g.FilesystemOf(d)

		return fs != nil && fs.Filesystem.Type == FSVFAT
	})
}

// SwapPartitions returns the partitions formatted as swap space.
func (g *Graph) SwapPartitions() []*Device {
	return xslices.Filter(g.partitions(), func(d *Device) bool {
		fs := g.FilesystemOf(d)

		return fs != nil && fs.Filesystem.Type == FSSwap
	})
}

func (g *Graph) partitions() []*Device {
	return xslices.Filter(g.AllDevices(), func(d *Device) bool {
		return d.Partition != nil
	})
}
