// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package planner

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/issues"
	"github.com/pief/yast-storage-ng/profile"
)

// LVMPlanner plans LVM volume groups and their logical volumes.
type LVMPlanner struct {
	graph  *devicegraph.Graph
	logger *zap.Logger
}

// NewLVMPlanner creates an LVM planner over a read-only device graph view.
func NewLVMPlanner(graph *devicegraph.Graph, opts ...Option) *LVMPlanner {
	o := buildOptions(opts...)

	return &LVMPlanner{
		graph:  graph,
		logger: o.logger,
	}
}

// Plan produces the planned volume group for one LVM drive section.
//
// The volume group name is taken from the device path (/dev/system plans a
// VG named "system"). Logical volumes come from the specs in declaration
// order; "max"-sized volumes split the capacity left after all exact-size
// volumes evenly.
func (p *LVMPlanner) Plan(drive profile.DriveSection, list *issues.List) *VG {
	name := strings.TrimPrefix(drive.Device, "/dev/")
	if name == "" || strings.ContainsRune(name, '/') {
		list.AppendInvalidValue(drive.Device, "device", drive.Device)

		return nil
	}

	vg := &VG{
		Name:            name,
		PhysicalVolumes: p.resolvePVs(drive, list),
	}

	for _, spec := range drive.Partitions {
		vg.LVs = append(vg.LVs, &LV{
			Name:           lvName(spec),
			Size:           resolveSize(drive.Device, spec, list),
			FilesystemType: resolveFilesystem(drive.Device, spec, list),
			MountPoint:     mountPoint(spec),
		})
	}

	p.distributeRemainder(vg)

	p.logger.Debug("planned volume group",
		zap.String("name", vg.Name),
		zap.Int("lvs", len(vg.LVs)),
		zap.Strings("pvs", vg.PhysicalVolumes),
	)

	return vg
}

func (p *LVMPlanner) resolvePVs(drive profile.DriveSection, list *issues.List) []string {
	for _, name := range drive.PhysicalVolumes {
		if p.graph.FindByName(name) == nil {
			list.Append(issues.Issue{
				Kind:     issues.KindNoSuchDevice,
				Severity: issues.SeverityWarn,
				Device:   drive.Device,
				Field:    "pvs",
				Value:    name,
			})
		}
	}

	return drive.PhysicalVolumes
}

// capacity sums the sizes of the resolvable physical volumes.
func (p *LVMPlanner) capacity(vg *VG) uint64 {
	var total uint64

	for _, name := range vg.PhysicalVolumes {
		if dev := p.graph.FindByName(name); dev != nil {
			total += dev.Region().SizeBytes()
		}
	}

	return total
}

// distributeRemainder turns "max" volume sizes into exact ones when the
// group capacity is known.
//
// The capacity left after all exact-size volumes is split evenly between the
// "max" volumes. With no resolvable capacity the policy is kept as-is for
// the commit step to settle.
func (p *LVMPlanner) distributeRemainder(vg *VG) {
	total := p.capacity(vg)
	if total == 0 {
		return
	}

	var (
		exact    uint64
		maxCount uint64
	)

	for _, lv := range vg.LVs {
		if lv.Size.Max {
			maxCount++
		} else {
			exact += lv.Size.Bytes
		}
	}

	if maxCount == 0 || exact >= total {
		return
	}

	share := (total - exact) / maxCount

	for _, lv := range vg.LVs {
		if lv.Size.Max {
			lv.Size = profile.Size{Bytes: share}
		}
	}
}
