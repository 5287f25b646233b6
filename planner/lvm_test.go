// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/issues"
	"github.com/pief/yast-storage-ng/planner"
	"github.com/pief/yast-storage-ng/profile"
)

func TestLVMPlan(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()
	g.AddDisk("/dev/sda", 100*gib/blockSize, blockSize)

	drive := profile.DriveSection{
		Device:          "/dev/system",
		Type:            "lvm",
		PhysicalVolumes: []string{"/dev/sda"},
		Partitions: []profile.PartitionSection{
			{Mount: "/", Filesystem: "ext4", Size: "20GiB"},
			{Mount: "swap", Filesystem: "swap", Size: "2GiB"},
			{Mount: "/home", Filesystem: "xfs", Size: "max"},
			{Mount: "/srv", Filesystem: "xfs", Size: "max"},
		},
	}

	var list issues.List

	vg := planner.NewLVMPlanner(g).Plan(drive, &list)

	require.NotNil(t, vg)
	assert.True(t, list.Empty())
	assert.Equal(t, "system", vg.Name)
	assert.Equal(t, []string{"/dev/sda"}, vg.PhysicalVolumes)

	require.Len(t, vg.LVs, 4)
	assert.Equal(t, "root", vg.LVs[0].Name)
	assert.Equal(t, "swap", vg.LVs[1].Name)
	assert.Equal(t, "home", vg.LVs[2].Name)
	assert.Equal(t, "srv", vg.LVs[3].Name)

	assert.Equal(t, uint64(20*gib), vg.LVs[0].Size.Bytes)

	// the two max volumes split the remaining 78 GiB evenly
	remainder := uint64(100*gib - 22*gib)
	assert.False(t, vg.LVs[2].Size.Max)
	assert.Equal(t, remainder/2, vg.LVs[2].Size.Bytes)
	assert.Equal(t, remainder/2, vg.LVs[3].Size.Bytes)
}

func TestLVMPlanUnknownCapacity(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	drive := profile.DriveSection{
		Device:          "/dev/data",
		Type:            "lvm",
		PhysicalVolumes: []string{"/dev/sdz1"},
		Partitions: []profile.PartitionSection{
			{Mount: "/data", Filesystem: "xfs", Size: "max", LVName: "bulk"},
		},
	}

	var list issues.List

	vg := planner.NewLVMPlanner(g).Plan(drive, &list)

	require.NotNil(t, vg)
	assert.Equal(t, "data", vg.Name)

	// capacity unknown: the size policy stays "max" for the commit step
	require.Len(t, vg.LVs, 1)
	assert.Equal(t, "bulk", vg.LVs[0].Name)
	assert.True(t, vg.LVs[0].Size.Max)

	missing := list.ByKind(issues.KindNoSuchDevice)
	require.Len(t, missing, 1)
	assert.Equal(t, "/dev/sdz1", missing[0].Value)
}

func TestLVMPlanBadDeviceName(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	var list issues.List

	vg := planner.NewLVMPlanner(g).Plan(profile.DriveSection{Device: "/dev/"}, &list)

	assert.Nil(t, vg)
	assert.Len(t, list.ByKind(issues.KindInvalidValue), 1)
}
