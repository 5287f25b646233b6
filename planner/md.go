// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package planner

import (
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/issues"
	"github.com/pief/yast-storage-ng/partitioning"
	"github.com/pief/yast-storage-ng/profile"
)

// MDPlanner plans MD RAID devices from drive sections.
type MDPlanner struct {
	graph  *devicegraph.Graph
	logger *zap.Logger
}

// NewMDPlanner creates an MD planner over a read-only device graph view.
func NewMDPlanner(graph *devicegraph.Graph, opts ...Option) *MDPlanner {
	o := buildOptions(opts...)

	return &MDPlanner{
		graph:  graph,
		logger: o.logger,
	}
}

// Plan produces the planned MD devices for one drive section, in the order
// their specs were declared.
//
// Two addressing schemes are supported: a numbered device name (/dev/md0)
// plans a single MD for the whole section, while the legacy bare base name
// (/dev/md) plans one MD per spec, named base + partition_nr, each with its
// own independently resolved RAID level.
func (p *MDPlanner) Plan(drive profile.DriveSection, list *issues.List) []*MD {
	if isLegacyMDName(drive.Device) {
		return p.planLegacy(drive, list)
	}

	var firstSpecOpts *profile.RaidOptions
	if len(drive.Partitions) > 0 {
		firstSpecOpts = drive.Partitions[0].RaidOptions
	}

	md := p.planOne(drive, drive.Device,
		resolveRaidLevel(drive.Device, list, drive.RaidOptions, firstSpecOpts),
		drive.Partitions, list)

	return []*MD{md}
}

// isLegacyMDName recognizes the legacy addressing scheme: a bare base name
// without a device number.
func isLegacyMDName(device string) bool {
	return len(device) > 0 && !(device[len(device)-1] >= '0' && device[len(device)-1] <= '9')
}

func (p *MDPlanner) planLegacy(drive profile.DriveSection, list *issues.List) []*MD {
	mds := make([]*MD, 0, len(drive.Partitions))

	for _, spec := range drive.Partitions {
		// the base-name scheme addresses devices via partition_nr only
		if spec.PartitionNr == 0 {
			list.Append(issues.Issue{
				Kind:     issues.KindMissingValue,
				Severity: issues.SeverityWarn,
				Device:   drive.Device,
				Field:    "partition_nr",
			})
		}

		name := partitioning.DevName(drive.Device, uint(spec.PartitionNr)) //nolint:gosec

		md := p.planOne(drive, name,
			resolveRaidLevel(name, list, spec.RaidOptions, drive.RaidOptions),
			[]profile.PartitionSection{spec}, list)

		mds = append(mds, md)
	}

	return mds
}

func (p *MDPlanner) planOne(
	drive profile.DriveSection,
	name string,
	level devicegraph.RaidLevel,
	specs []profile.PartitionSection,
	list *issues.List,
) *MD {
	tableType, noTable := resolveTableType(drive, list)

	md := &MD{
		Name:      name,
		Level:     level,
		NoTable:   noTable,
		TableType: tableType,
	}

	if drive.RaidOptions != nil {
		md.ChunkSize = p.resolveChunkSize(name, drive.RaidOptions.ChunkSize, list)
		md.Members = p.resolveMembers(name, drive.RaidOptions.Devices, list)
	}

	if noTable {
		// no partition table: the first spec's settings apply to the
		// whole device
		if len(specs) > 0 {
			md.FilesystemType = resolveFilesystem(name, specs[0], list)
			md.MountPoint = mountPoint(specs[0])
		}

		warnIgnoredSpecs(name, specs, list)
	} else {
		for idx, spec := range specs {
			md.Partitions = append(md.Partitions, p.planChild(md, idx, spec, list))
		}
	}

	p.logger.Debug("planned MD device",
		zap.String("name", md.Name),
		zap.Stringer("level", md.Level),
		zap.Int("partitions", len(md.Partitions)),
	)

	return md
}

func (p *MDPlanner) planChild(md *MD, idx int, spec profile.PartitionSection, list *issues.List) *Partition {
	number := spec.PartitionNr
	if number == 0 {
		number = idx + 1
	}

	fsType := resolveFilesystem(md.Name, spec, list)

	part := &Partition{
		Name:           partitioning.DevName(md.Name, uint(number)), //nolint:gosec
		Number:         number,
		Size:           resolveSize(md.Name, spec, list),
		ID:             partitionID(spec, fsType),
		FilesystemType: fsType,
		MountPoint:     mountPoint(spec),
	}

	if spec.Label != "" {
		if md.TableType != nil && *md.TableType == devicegraph.TableTypeGPT && !gptLabelFits(spec.Label) {
			list.AppendInvalidValue(md.Name, "label", spec.Label)
		} else {
			part.Label = &spec.Label
		}
	}

	return part
}

func (p *MDPlanner) resolveChunkSize(device, value string, list *issues.List) uint64 {
	if value == "" {
		return 0
	}

	bytes, err := humanize.ParseBytes(value)
	if err != nil {
		list.AppendInvalidValue(device, "chunk_size", value)

		return 0
	}

	return bytes
}

// resolveMembers checks the named member devices against the graph.
//
// Unknown members are kept in the plan (they may appear before commit) but
// recorded as issues.
func (p *MDPlanner) resolveMembers(device string, names []string, list *issues.List) []string {
	for _, name := range names {
		if p.graph.FindByName(name) == nil {
			list.Append(issues.Issue{
				Kind:     issues.KindNoSuchDevice,
				Severity: issues.SeverityWarn,
				Device:   device,
				Field:    "device_order",
				Value:    name,
			})
		}
	}

	return names
}
