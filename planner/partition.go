// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package planner

import (
	"slices"

	"go.uber.org/zap"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/issues"
	"github.com/pief/yast-storage-ng/partitioning"
	"github.com/pief/yast-storage-ng/profile"
	"github.com/pief/yast-storage-ng/region"
)

// PartitionPlanner plans partitions on existing disks.
type PartitionPlanner struct {
	graph  *devicegraph.Graph
	logger *zap.Logger
}

// NewPartitionPlanner creates a partition planner over a read-only device
// graph view.
func NewPartitionPlanner(graph *devicegraph.Graph, opts ...Option) *PartitionPlanner {
	o := buildOptions(opts...)

	return &PartitionPlanner{
		graph:  graph,
		logger: o.logger,
	}
}

// Plan produces the planned layout for one disk drive section.
//
// The section device may name the disk or one of its partitions; either way
// the owning disk is planned. Returns nil with a recorded issue when the
// disk is not in the graph.
func (p *PartitionPlanner) Plan(drive profile.DriveSection, list *issues.List) *Disk {
	disk := p.graph.FindDiskByNameOrPartition(drive.Device)
	if disk == nil {
		list.Append(issues.Issue{
			Kind:     issues.KindNoSuchDevice,
			Severity: issues.SeverityError,
			Device:   drive.Device,
			Field:    "device",
			Value:    drive.Device,
		})

		return nil
	}

	tableType, noTable := resolveTableType(drive, list)

	planned := &Disk{
		Name:      disk.Name(),
		NoTable:   noTable,
		TableType: tableType,
	}

	if noTable {
		if len(drive.Partitions) > 0 {
			planned.FilesystemType = resolveFilesystem(planned.Name, drive.Partitions[0], list)
			planned.MountPoint = mountPoint(drive.Partitions[0])
		}

		warnIgnoredSpecs(planned.Name, drive.Partitions, list)

		return planned
	}

	free := partitioning.FreeSpacesForTable(p.graph, disk, p.effectiveTableType(disk, planned))
	nextNumber := p.nextPartitionNumber(disk)

	for _, spec := range drive.Partitions {
		part := p.planPartition(planned, disk, spec, &free, &nextNumber, list)
		if part != nil {
			planned.Partitions = append(planned.Partitions, part)
		}
	}

	p.logger.Debug("planned disk layout",
		zap.String("disk", planned.Name),
		zap.Int("partitions", len(planned.Partitions)),
	)

	return planned
}

func (p *PartitionPlanner) planPartition(
	planned *Disk,
	disk *devicegraph.Device,
	spec profile.PartitionSection,
	free *[]region.Region,
	nextNumber *int,
	list *issues.List,
) *Partition {
	size := resolveSize(planned.Name, spec, list)

	placement, ok := place(size, free, disk.Region().BlockSize)
	if !ok {
		list.Append(issues.Issue{
			Kind:     issues.KindNoDiskSpace,
			Severity: issues.SeverityError,
			Device:   planned.Name,
			Field:    "size",
			Value:    spec.Size,
		})

		return nil
	}

	number := spec.PartitionNr
	if number == 0 {
		number = *nextNumber
		*nextNumber++
	}

	fsType := resolveFilesystem(planned.Name, spec, list)

	part := &Partition{
		Name:           partitioning.DevName(planned.Name, uint(number)), //nolint:gosec
		Number:         number,
		Size:           size,
		Region:         &placement,
		ID:             partitionID(spec, fsType),
		FilesystemType: fsType,
		MountPoint:     mountPoint(spec),
	}

	if spec.Label != "" {
		gpt := p.graph.IsGPT(disk) ||
			(planned.TableType != nil && *planned.TableType == devicegraph.TableTypeGPT)

		if gpt && !gptLabelFits(spec.Label) {
			list.AppendInvalidValue(planned.Name, "label", spec.Label)
		} else {
			part.Label = &spec.Label
		}
	}

	return part
}

// place carves a region for the requested size out of the free list.
//
// Exact sizes go to the smallest free region that fits, the way the GPT
// allocator picks ranges; "max" consumes the largest remaining region
// entirely. The free list is updated in place.
func place(size profile.Size, free *[]region.Region, blockSize uint64) (region.Region, bool) {
	if len(*free) == 0 {
		return region.Region{}, false
	}

	if size.Max {
		best := 0

		for idx, r := range *free {
			if r.SizeBytes() > (*free)[best].SizeBytes() {
				best = idx
			}
		}

		result := (*free)[best]
		*free = slices.Delete(*free, best, best+1)

		return result, true
	}

	blocks := (size.Bytes + blockSize - 1) / blockSize

	smallest := -1

	for idx, r := range *free {
		if r.Length < blocks {
			continue
		}

		if smallest < 0 || r.Length < (*free)[smallest].Length {
			smallest = idx
		}
	}

	if smallest < 0 {
		return region.Region{}, false
	}

	chosen := (*free)[smallest]
	result := region.New(chosen.Start, blocks, blockSize)

	if remainder := chosen.Subtract(result); len(remainder) > 0 {
		(*free)[smallest] = remainder[0]
	} else {
		*free = slices.Delete(*free, smallest, smallest+1)
	}

	return result, true
}

// effectiveTableType picks the table type partition placement is computed
// against: the requested type, then the existing one, GPT as the last word.
func (p *PartitionPlanner) effectiveTableType(disk *devicegraph.Device, planned *Disk) devicegraph.TableType {
	if planned.TableType != nil {
		return *planned.TableType
	}

	if typ, ok := p.graph.TableTypeOf(disk); ok {
		return typ
	}

	return devicegraph.TableTypeGPT
}

// nextPartitionNumber returns the first partition number not used on the
// disk.
func (p *PartitionPlanner) nextPartitionNumber(disk *devicegraph.Device) int {
	next := 1

	for _, part := range p.graph.PartitionsOn(disk) {
		if part.Partition.Number >= next {
			next = part.Partition.Number + 1
		}
	}

	return next
}
