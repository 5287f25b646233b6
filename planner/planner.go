// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package planner

import (
	"strings"

	"github.com/siderolabs/go-pointer"
	"go.uber.org/zap"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/issues"
	"github.com/pief/yast-storage-ng/profile"
)

// Option configures a planner.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger for planning decisions.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts ...Option) options {
	o := options{
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// resolveRaidLevel picks the RAID level from an ordered chain of option
// records; the first one carrying a value wins.
//
// An absent value is not a problem, RAID1 is the expected default. An
// explicit but unrecognized value falls back to RAID1 with an invalid-value
// issue recorded.
func resolveRaidLevel(device string, list *issues.List, chain ...*profile.RaidOptions) devicegraph.RaidLevel {
	for _, opts := range chain {
		if opts == nil || opts.Level == "" {
			continue
		}

		level, err := devicegraph.ParseRaidLevel(opts.Level)
		if err != nil {
			list.AppendInvalidValue(device, "raid_type", opts.Level)

			return devicegraph.RAID1
		}

		return level
	}

	return devicegraph.RAID1
}

// resolveFilesystem parses the filesystem type of a spec, recording an issue
// for unrecognized values. Absent values stay unknown without an issue.
func resolveFilesystem(device string, spec profile.PartitionSection, list *issues.List) devicegraph.FilesystemType {
	if spec.Filesystem == "" {
		if spec.Mount == "swap" {
			return devicegraph.FSSwap
		}

		return devicegraph.FSUnknown
	}

	typ, err := devicegraph.ParseFilesystemType(spec.Filesystem)
	if err != nil {
		list.AppendInvalidValue(device, "filesystem", spec.Filesystem)

		return devicegraph.FSUnknown
	}

	return typ
}

// resolveSize parses the size of a spec, falling back to "all remaining
// space" with an issue for unparseable values.
func resolveSize(device string, spec profile.PartitionSection, list *issues.List) profile.Size {
	size, err := profile.ParseSize(spec.Size)
	if err != nil {
		list.AppendInvalidValue(device, "size", spec.Size)

		return profile.Size{Max: true}
	}

	return size
}

// resolveTableType interprets the disklabel directive.
//
// Returns noTable=true for "none", a concrete type for a recognized name and
// nil for an absent directive. Unrecognized names record an issue and leave
// the type unset.
func resolveTableType(drive profile.DriveSection, list *issues.List) (*devicegraph.TableType, bool) {
	if drive.Disklabel == nil {
		return nil, false
	}

	if drive.NoTable() {
		return nil, true
	}

	typ, err := devicegraph.ParseTableType(*drive.Disklabel)
	if err != nil {
		list.AppendInvalidValue(drive.Device, "disklabel", *drive.Disklabel)

		return nil, false
	}

	return pointer.To(typ), false
}

// warnIgnoredSpecs records a warning for every partition spec beyond the
// first on a section planned without a partition table; only the first spec
// can apply to the whole device.
func warnIgnoredSpecs(device string, specs []profile.PartitionSection, list *issues.List) {
	if len(specs) < 2 {
		return
	}

	for _, spec := range specs[1:] {
		list.Append(issues.Issue{
			Kind:     issues.KindInvalidValue,
			Severity: issues.SeverityWarn,
			Device:   device,
			Field:    "partitions",
			Value:    spec.Mount,
		})
	}
}

// mountPoint returns the mount point of a spec as an optional value.
func mountPoint(spec profile.PartitionSection) *string {
	if spec.Mount == "" || spec.Mount == "swap" {
		return nil
	}

	return pointer.To(spec.Mount)
}

// partitionID derives the partition role from the spec.
func partitionID(spec profile.PartitionSection, fsType devicegraph.FilesystemType) devicegraph.PartitionID {
	switch {
	case fsType == devicegraph.FSSwap || spec.Mount == "swap":
		return devicegraph.IDSwap
	case spec.Mount == "/boot/efi":
		return devicegraph.IDESP
	default:
		return devicegraph.IDLinux
	}
}

// lvName derives a logical volume name from the spec.
func lvName(spec profile.PartitionSection) string {
	if spec.LVName != "" {
		return spec.LVName
	}

	switch spec.Mount {
	case "", "/":
		return "root"
	case "swap":
		return "swap"
	default:
		return strings.ReplaceAll(strings.TrimPrefix(spec.Mount, "/"), "/", "_")
	}
}
