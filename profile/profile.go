// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package profile defines the declarative drive sections consumed by the
// planners and their decoding from YAML documents or generic maps.
package profile

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Profile is a full storage profile: one section per drive.
type Profile struct {
	Drives []DriveSection `yaml:"drives" mapstructure:"drives"`
}

// DriveSection describes what to do with one drive (a disk, an MD RAID or an
// LVM volume group to be created).
type DriveSection struct { //nolint:govet
	// Device is the target device name, e.g. /dev/sda or /dev/md0. The
	// legacy MD addressing scheme uses the bare base name /dev/md with a
	// partition_nr on every spec.
	Device string `yaml:"device" mapstructure:"device"`

	// Type of the section: "disk" (default), "md" or "lvm".
	Type string `yaml:"type,omitempty" mapstructure:"type"`

	// Disklabel requests a partition table type by name, "none" for no
	// table at all; nil when the profile doesn't care.
	Disklabel *string `yaml:"disklabel,omitempty" mapstructure:"disklabel"`

	// RaidOptions apply to the whole drive for MD sections.
	RaidOptions *RaidOptions `yaml:"raid_options,omitempty" mapstructure:"raid_options"`

	// PhysicalVolumes names the devices backing an LVM section.
	PhysicalVolumes []string `yaml:"pvs,omitempty" mapstructure:"pvs"`

	// Partitions are the partition or volume specs, in declaration order.
	Partitions []PartitionSection `yaml:"partitions" mapstructure:"partitions"`
}

// RaidOptions carries MD RAID settings.
type RaidOptions struct {
	// Level is the RAID level name, e.g. "raid1"; empty means unset.
	Level string `yaml:"raid_type,omitempty" mapstructure:"raid_type"`

	// Chunk size, e.g. "64K"; empty means default.
	ChunkSize string `yaml:"chunk_size,omitempty" mapstructure:"chunk_size"`

	// Devices are the member device names.
	Devices []string `yaml:"device_order,omitempty" mapstructure:"device_order"`
}

// PartitionSection describes one partition or logical volume.
type PartitionSection struct { //nolint:govet
	Mount      string `yaml:"mount,omitempty" mapstructure:"mount"`
	Filesystem string `yaml:"filesystem,omitempty" mapstructure:"filesystem"`

	// Size is "max", empty, or a literal like "10GB".
	Size string `yaml:"size,omitempty" mapstructure:"size"`

	// PartitionNr is the partition number, 0 when unset. Under the legacy
	// MD scheme it selects the planned device (/dev/md + nr).
	PartitionNr int `yaml:"partition_nr,omitempty" mapstructure:"partition_nr"`

	Label  string `yaml:"label,omitempty" mapstructure:"label"`
	LVName string `yaml:"lv_name,omitempty" mapstructure:"lv_name"`

	// RaidOptions override the drive-level ones for this spec.
	RaidOptions *RaidOptions `yaml:"raid_options,omitempty" mapstructure:"raid_options"`
}

// NoTable reports whether the section explicitly requests no partition
// table ("none" or an equivalent falsy value).
func (s DriveSection) NoTable() bool {
	if s.Disklabel == nil {
		return false
	}

	switch strings.ToLower(*s.Disklabel) {
	case "none", "false", "no":
		return true
	}

	return false
}

// Parse reads a profile from a YAML document.
func Parse(data []byte) (*Profile, error) {
	var p Profile

	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return &p, nil
}

// Decode builds a drive section from an already-parsed generic map, the form
// external configuration management hands the sections over in.
func Decode(section map[string]any) (DriveSection, error) {
	var drive DriveSection

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &drive,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return drive, err
	}

	if err := dec.Decode(section); err != nil {
		return drive, fmt.Errorf("failed to decode drive section: %w", err)
	}

	return drive, nil
}

// Size is a planned device size policy.
type Size struct {
	// Max requests all remaining capacity.
	Max bool
	// Bytes is the exact requested size when Max is false.
	Bytes uint64
}

// ParseSize interprets a profile size value.
//
// "max" (and an absent value) request all remaining capacity; anything else
// is parsed as a literal size, with IEC and SI suffixes accepted.
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if s == "" || s == "max" || s == "auto" {
		return Size{Max: true}, nil
	}

	bytes, err := humanize.ParseBytes(s)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}

	return Size{Bytes: bytes}, nil
}
