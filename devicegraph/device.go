// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package devicegraph models storage devices and their relationships as an
// in-memory graph: disks host partition tables, tables host partitions,
// block devices host filesystems or encryption layers, and composite devices
// (MD RAID, LVM volume groups) reference their members.
package devicegraph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pief/yast-storage-ng/region"
)

// Sid is the stable identifier of a device within a graph.
//
// Sids are assigned on creation and never reused.
type Sid uint64

// Device is a single node of the device graph.
//
// A device satisfies one or more capabilities, expressed as optional payloads:
// a physical disk carries Disk, a partition carries Partition, and so on. A
// node may carry several payloads at once when the capabilities overlap.
// Devices reference each other through graph edges only, never by embedding.
type Device struct { //nolint:govet
	sid    Sid
	name   string
	region region.Region

	Disk       *DiskSpec
	Partition  *PartitionSpec
	Table      *TableSpec
	Filesystem *FilesystemSpec
	Raid       *RaidSpec
	PV         *PVSpec
	VG         *VGSpec
	LV         *LVSpec
	Encryption *EncryptionSpec
}

// Sid returns the stable identifier of the device.
func (d *Device) Sid() Sid {
	return d.sid
}

// Name returns the device name (e.g. /dev/sda).
func (d *Device) Name() string {
	return d.name
}

// Basename returns the device name without the directory prefix.
func (d *Device) Basename() string {
	if idx := strings.LastIndexByte(d.name, '/'); idx >= 0 {
		return d.name[idx+1:]
	}

	return d.name
}

// Region returns the block extent of the device.
//
// Only meaningful for block devices; zero for tables, filesystems and other
// non-block nodes.
func (d *Device) Region() region.Region {
	return d.region
}

// IsBlockDevice returns true for devices addressable as a range of blocks.
func (d *Device) IsBlockDevice() bool {
	return !d.region.IsEmpty()
}

// IsPartitionable returns true for devices that can host a partition table.
func (d *Device) IsPartitionable() bool {
	return d.Disk != nil || d.Raid != nil
}

// IsDiskDevice returns true for a physical disk usable as an independent
// installation target.
//
// Disks that are really components of a higher-level device are excluded:
// multipath wires, BIOS RAID members and eMMC boot/RPMB areas.
func (d *Device) IsDiskDevice() bool {
	if d.Disk == nil {
		return false
	}

	return !d.Disk.MultipathWire && !d.Disk.BIOSRaidMember && !d.Disk.BootArea
}

func (d *Device) String() string {
	return fmt.Sprintf("%s (sid %d)", d.name, d.sid)
}

// DiskType is the physical disk type: HDD, SSD, SD card, NVMe drive.
type DiskType int

const (
	// DiskTypeUnknown is set when the disk type could not be detected.
	DiskTypeUnknown DiskType = iota
	// DiskTypeSSD SATA SSD disk.
	DiskTypeSSD
	// DiskTypeHDD HDD disk.
	DiskTypeHDD
	// DiskTypeNVMe NVMe disk.
	DiskTypeNVMe
	// DiskTypeSD SD card or eMMC.
	DiskTypeSD
)

func (t DiskType) String() string {
	//nolint:exhaustive
	switch t {
	case DiskTypeSSD:
		return "ssd"
	case DiskTypeHDD:
		return "hdd"
	case DiskTypeNVMe:
		return "nvme"
	case DiskTypeSD:
		return "sd"
	default:
		return "unknown"
	}
}

// DiskSpec is the payload of a physical disk device.
type DiskSpec struct { //nolint:govet
	Model  string
	Serial string
	WWID   string
	Type   DiskType

	// MultipathWire marks a disk that is one path of a multipath device.
	MultipathWire bool
	// BIOSRaidMember marks a disk claimed by a BIOS/firmware RAID.
	BIOSRaidMember bool
	// BootArea marks eMMC boot/RPMB areas exposed as separate disks.
	BootArea bool
}

// TableType is the partition table variant.
type TableType int

const (
	// TableTypeGPT is a GUID partition table.
	TableTypeGPT TableType = iota
	// TableTypeMSDOS is a classic MBR partition table.
	TableTypeMSDOS
)

func (t TableType) String() string {
	if t == TableTypeMSDOS {
		return "msdos"
	}

	return "gpt"
}

// ParseTableType converts a table type name to the type id.
func ParseTableType(id string) (TableType, error) {
	switch strings.ToLower(id) {
	case "gpt":
		return TableTypeGPT, nil
	case "msdos", "dos", "mbr":
		return TableTypeMSDOS, nil
	}

	return 0, fmt.Errorf("unknown partition table type %q", id)
}

// TableSpec is the payload of a partition table node.
type TableSpec struct {
	Type TableType
}

// PartitionType distinguishes primary, extended and logical partitions.
type PartitionType int

const (
	// PartitionTypePrimary is a primary partition.
	PartitionTypePrimary PartitionType = iota
	// PartitionTypeExtended is the extended partition (MS-DOS only).
	PartitionTypeExtended
	// PartitionTypeLogical is a logical partition inside the extended one.
	PartitionTypeLogical
)

// PartitionID is the role tag of a partition.
type PartitionID int

const (
	// IDLinux is a generic Linux data partition.
	IDLinux PartitionID = iota
	// IDSwap is a swap partition.
	IDSwap
	// IDESP is an EFI System Partition.
	IDESP
	// IDLVM is an LVM physical volume partition.
	IDLVM
	// IDRAID is a Linux RAID member partition.
	IDRAID
	// IDBIOSBoot is a BIOS boot partition (GPT only).
	IDBIOSBoot
)

func (id PartitionID) String() string {
	switch id {
	case IDSwap:
		return "swap"
	case IDESP:
		return "esp"
	case IDLVM:
		return "lvm"
	case IDRAID:
		return "raid"
	case IDBIOSBoot:
		return "bios_boot"
	default:
		return "linux"
	}
}

// GPT partition type GUIDs, as defined by the UEFI specification and the
// Discoverable Partitions Specification.
var (
	linuxDataGUID = uuid.MustParse("0FC63DAF-8483-4772-8E79-3D69D8477DE4")
	swapGUID      = uuid.MustParse("0657FD6D-A4AB-43C4-84E5-0933C84B4F4F")
	espGUID       = uuid.MustParse("C12A7328-F81F-11D2-BA4B-00A0C93EC93B")
	lvmGUID       = uuid.MustParse("E6D6D379-F507-44C2-A23C-238F2A3DF928")
	raidGUID      = uuid.MustParse("A19D880F-05FC-4D3B-A006-743F0F84911E")
	biosBootGUID  = uuid.MustParse("21686148-6449-6E6F-744E-656564454649")
)

// TypeGUID returns the GPT partition type GUID for the role.
func (id PartitionID) TypeGUID() uuid.UUID {
	switch id {
	case IDSwap:
		return swapGUID
	case IDESP:
		return espGUID
	case IDLVM:
		return lvmGUID
	case IDRAID:
		return raidGUID
	case IDBIOSBoot:
		return biosBootGUID
	default:
		return linuxDataGUID
	}
}

// PartitionSpec is the payload of a partition device.
type PartitionSpec struct { //nolint:govet
	Number int
	Type   PartitionType
	ID     PartitionID

	// GUID is the unique partition GUID, assigned on creation.
	GUID uuid.UUID
}

// FilesystemType is the filesystem variant.
type FilesystemType int

const (
	// FSUnknown is an unrecognized filesystem.
	FSUnknown FilesystemType = iota
	// FSExt2 ext2.
	FSExt2
	// FSExt3 ext3.
	FSExt3
	// FSExt4 ext4.
	FSExt4
	// FSXFS xfs.
	FSXFS
	// FSBtrfs btrfs.
	FSBtrfs
	// FSVFAT vfat (FAT12/16/32).
	FSVFAT
	// FSSwap Linux swap space.
	FSSwap
)

func (t FilesystemType) String() string {
	switch t {
	case FSExt2:
		return "ext2"
	case FSExt3:
		return "ext3"
	case FSExt4:
		return "ext4"
	case FSXFS:
		return "xfs"
	case FSBtrfs:
		return "btrfs"
	case FSVFAT:
		return "vfat"
	case FSSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// ParseFilesystemType converts a filesystem name to the type id.
func ParseFilesystemType(id string) (FilesystemType, error) {
	switch strings.ToLower(id) {
	case "ext2":
		return FSExt2, nil
	case "ext3":
		return FSExt3, nil
	case "ext4":
		return FSExt4, nil
	case "xfs":
		return FSXFS, nil
	case "btrfs":
		return FSBtrfs, nil
	case "vfat", "fat":
		return FSVFAT, nil
	case "swap":
		return FSSwap, nil
	}

	return FSUnknown, fmt.Errorf("unknown filesystem type %q", id)
}

// FilesystemSpec is the payload of a filesystem node.
type FilesystemSpec struct { //nolint:govet
	Type  FilesystemType
	Label *string

	// MountPoint is the target path, nil when the filesystem is not mounted
	// anywhere.
	MountPoint *string
}

// RaidLevel is the MD RAID level.
type RaidLevel int

const (
	// RAID0 striping.
	RAID0 RaidLevel = iota
	// RAID1 mirroring.
	RAID1
	// RAID4 striping with a dedicated parity disk.
	RAID4
	// RAID5 striping with distributed parity.
	RAID5
	// RAID6 striping with double distributed parity.
	RAID6
	// RAID10 mirrored striping.
	RAID10
)

func (l RaidLevel) String() string {
	switch l {
	case RAID0:
		return "raid0"
	case RAID4:
		return "raid4"
	case RAID5:
		return "raid5"
	case RAID6:
		return "raid6"
	case RAID10:
		return "raid10"
	default:
		return "raid1"
	}
}

// ParseRaidLevel converts a RAID level name to the level id.
func ParseRaidLevel(id string) (RaidLevel, error) {
	switch strings.ToLower(id) {
	case "raid0", "0":
		return RAID0, nil
	case "raid1", "1", "mirror":
		return RAID1, nil
	case "raid4", "4":
		return RAID4, nil
	case "raid5", "5":
		return RAID5, nil
	case "raid6", "6":
		return RAID6, nil
	case "raid10", "10":
		return RAID10, nil
	}

	return 0, fmt.Errorf("unknown RAID level %q", id)
}

// RaidSpec is the payload of an MD RAID device.
type RaidSpec struct {
	Level     RaidLevel
	ChunkSize uint64
}

// PVSpec is the payload of an LVM physical volume.
type PVSpec struct{}

// VGSpec is the payload of an LVM volume group.
type VGSpec struct {
	ExtentSize uint64
}

// LVSpec is the payload of an LVM logical volume.
type LVSpec struct{}
