// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package devicegraph_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/region"
)

const (
	gib       = 1024 * 1024 * 1024
	blockSize = 512
)

// buildGraph creates a graph with two disks:
//
//	/dev/sda: GPT, sda1 (ESP, vfat), sda2 (swap), sda3 (linux, ext4)
//	/dev/sdb: no table, no usage
func buildGraph(t *testing.T) *devicegraph.Graph {
	t.Helper()

	g := devicegraph.NewGraph()

	sda := g.AddDisk("/dev/sda", 100*gib/blockSize, blockSize, devicegraph.WithModel("WDC WD10EZEX"))
	table, err := g.CreateTable(sda, devicegraph.TableTypeGPT)
	require.NoError(t, err)

	esp, err := g.CreatePartition(table, "/dev/sda1", 1, region.New(2048, gib/blockSize, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDESP)
	require.NoError(t, err)

	_, err = g.CreateFilesystem(esp, devicegraph.FSVFAT)
	require.NoError(t, err)

	swap, err := g.CreatePartition(table, "/dev/sda2", 2, region.New(2048+gib/blockSize, 2*gib/blockSize, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDSwap)
	require.NoError(t, err)

	_, err = g.CreateFilesystem(swap, devicegraph.FSSwap)
	require.NoError(t, err)

	root, err := g.CreatePartition(table, "/dev/sda3", 3, region.New(2048+3*gib/blockSize, 20*gib/blockSize, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDLinux)
	require.NoError(t, err)

	_, err = g.CreateFilesystem(root, devicegraph.FSExt4)
	require.NoError(t, err)

	g.AddDisk("/dev/sdb", 50*gib/blockSize, blockSize)

	return g
}

func TestFindByName(t *testing.T) {
	t.Parallel()

	g := buildGraph(t)

	assert.NotNil(t, g.FindByName("/dev/sda"))
	assert.NotNil(t, g.FindByName("/dev/sda2"))
	assert.Nil(t, g.FindByName("/dev/sdz"))
}

func TestFindDiskByNameOrPartition(t *testing.T) {
	t.Parallel()

	g := buildGraph(t)

	disk := g.FindDiskByNameOrPartition("/dev/sda1")
	require.NotNil(t, disk)
	assert.Equal(t, "/dev/sda", disk.Name())
	assert.NotNil(t, disk.Disk)

	disk = g.FindDiskByNameOrPartition("/dev/sdb")
	require.NotNil(t, disk)
	assert.Equal(t, "/dev/sdb", disk.Name())

	assert.Nil(t, g.FindDiskByNameOrPartition("/dev/sdb1"))
	assert.Nil(t, g.FindDiskByNameOrPartition("/dev/md0"))
}

func TestSortedByName(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	for _, name := range []string{"/dev/sdc", "/dev/nvme1n1", "/dev/sdaa", "/dev/sda", "/dev/nvme0n2", "/dev/sdb", "/dev/nvme0n1"} {
		g.AddDisk(name, gib/blockSize, blockSize)
	}

	var names []string
	for _, d := range devicegraph.SortedByName(g.Disks()) {
		names = append(names, d.Name())
	}

	assert.Equal(t,
		[]string{"/dev/nvme0n1", "/dev/nvme0n2", "/dev/nvme1n1", "/dev/sda", "/dev/sdb", "/dev/sdc", "/dev/sdaa"},
		names)
}

func TestIsDiskDevice(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	plain := g.AddDisk("/dev/sda", gib/blockSize, blockSize)
	wire := g.AddDisk("/dev/sdb", gib/blockSize, blockSize, devicegraph.AsMultipathWire())
	biosRaid := g.AddDisk("/dev/sdc", gib/blockSize, blockSize, devicegraph.AsBIOSRaidMember())
	bootArea := g.AddDisk("/dev/mmcblk0boot0", gib/blockSize, blockSize, devicegraph.AsBootArea())

	assert.True(t, plain.IsDiskDevice())
	assert.False(t, wire.IsDiskDevice())
	assert.False(t, biosRaid.IsDiskDevice())
	assert.False(t, bootArea.IsDiskDevice())

	assert.Len(t, g.Disks(), 4)
	assert.Equal(t, []*devicegraph.Device{plain}, g.InstallationDisks())
}

func TestTablePredicates(t *testing.T) {
	t.Parallel()

	g := buildGraph(t)

	sda := g.FindByName("/dev/sda")
	sdb := g.FindByName("/dev/sdb")

	assert.True(t, g.IsGPT(sda))
	assert.False(t, g.IsMSDOS(sda))

	// no table at all
	assert.False(t, g.IsGPT(sdb))
	assert.False(t, g.IsMSDOS(sdb))

	_, ok := g.TableTypeOf(sdb)
	assert.False(t, ok)
}

func TestEFIAndSwapPartitions(t *testing.T) {
	t.Parallel()

	g := buildGraph(t)

	efi := g.EFIPartitions()
	require.Len(t, efi, 1)
	assert.Equal(t, "/dev/sda1", efi[0].Name())

	swaps := g.SwapPartitions()
	require.Len(t, swaps, 1)
	assert.Equal(t, "/dev/sda2", swaps[0].Name())
}

func TestEFIPartitionNeedsVFAT(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	disk := g.AddDisk("/dev/sda", gib/blockSize, blockSize)
	table, err := g.CreateTable(disk, devicegraph.TableTypeGPT)
	require.NoError(t, err)

	// ESP role but formatted ext4: role alone is not sufficient
	part, err := g.CreatePartition(table, "/dev/sda1", 1, region.New(2048, 1024, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDESP)
	require.NoError(t, err)

	_, err = g.CreateFilesystem(part, devicegraph.FSExt4)
	require.NoError(t, err)

	assert.Empty(t, g.EFIPartitions())
}

func TestMatchers(t *testing.T) {
	t.Parallel()

	g := buildGraph(t)

	d := g.Find(devicegraph.WithDiskModel("WDC*"))
	require.NotNil(t, d)
	assert.Equal(t, "/dev/sda", d.Name())

	assert.Nil(t, g.Find(devicegraph.WithDiskModel("Samsung*")))
	assert.NotNil(t, g.Find(devicegraph.WithName("/dev/sd*"), devicegraph.WithDiskModel("*")))
}

func TestPartitionInvariants(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	disk := g.AddDisk("/dev/sda", gib/blockSize, blockSize)
	table, err := g.CreateTable(disk, devicegraph.TableTypeMSDOS)
	require.NoError(t, err)

	// second table on the same disk
	_, err = g.CreateTable(disk, devicegraph.TableTypeGPT)
	assert.Error(t, err)

	_, err = g.CreatePartition(table, "/dev/sda1", 1, region.New(2048, 4096, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDLinux)
	require.NoError(t, err)

	// duplicate number
	_, err = g.CreatePartition(table, "/dev/sda1", 1, region.New(10240, 4096, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDLinux)
	assert.Error(t, err)

	// overlapping region
	_, err = g.CreatePartition(table, "/dev/sda2", 2, region.New(4000, 4096, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDLinux)
	assert.Error(t, err)

	// formatting a disk that has a table
	_, err = g.CreateFilesystem(disk, devicegraph.FSExt4)
	assert.Error(t, err)
}

func TestRaidAndLVM(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	sda := g.AddDisk("/dev/sda", 10*gib/blockSize, blockSize)
	sdb := g.AddDisk("/dev/sdb", 10*gib/blockSize, blockSize)

	md, err := g.CreateRaid("/dev/md0", devicegraph.RAID1, sda, sdb)
	require.NoError(t, err)

	assert.Equal(t, uint64(10*gib), md.Region().SizeBytes())
	assert.Len(t, g.MembersOf(md), 2)
	assert.True(t, g.IsDirectlyUsed(sda))

	pv, err := g.CreatePV(md)
	require.NoError(t, err)

	vg, err := g.CreateVG("/dev/system", 4*1024*1024, pv)
	require.NoError(t, err)

	lv, err := g.CreateLV(vg, "/dev/system/root", 5*gib/blockSize, blockSize)
	require.NoError(t, err)

	_, err = g.CreateFilesystem(lv, devicegraph.FSXFS)
	require.NoError(t, err)

	assert.Equal(t, []*devicegraph.Device{pv, lv}, g.MembersOf(vg))
}

func TestRaidSizes(t *testing.T) {
	t.Parallel()

	for _, test := range []struct { //nolint:govet
		level devicegraph.RaidLevel

		expectedBytes uint64
	}{
		{devicegraph.RAID0, 30 * gib},
		{devicegraph.RAID1, 10 * gib},
		{devicegraph.RAID5, 20 * gib},
		{devicegraph.RAID6, 10 * gib},
	} {
		test := test

		t.Run(test.level.String(), func(t *testing.T) {
			t.Parallel()

			g := devicegraph.NewGraph()

			members := []*devicegraph.Device{
				g.AddDisk("/dev/sda", 10*gib/blockSize, blockSize),
				g.AddDisk("/dev/sdb", 10*gib/blockSize, blockSize),
				g.AddDisk("/dev/sdc", 10*gib/blockSize, blockSize),
			}

			md, err := g.CreateRaid("/dev/md0", test.level, members...)
			require.NoError(t, err)

			assert.Equal(t, test.expectedBytes, md.Region().SizeBytes())
		})
	}
}

func TestPartitionGUIDs(t *testing.T) {
	t.Parallel()

	g := buildGraph(t)

	guids := map[uuid.UUID]struct{}{}

	for _, part := range g.PartitionsOf(g.TableOf(g.FindByName("/dev/sda"))) {
		assert.NotEqual(t, uuid.Nil, part.Partition.GUID)

		guids[part.Partition.GUID] = struct{}{}
	}

	assert.Len(t, guids, 3)

	assert.Equal(t, uuid.MustParse("C12A7328-F81F-11D2-BA4B-00A0C93EC93B"), devicegraph.IDESP.TypeGUID())
	assert.Equal(t, uuid.MustParse("0657FD6D-A4AB-43C4-84E5-0933C84B4F4F"), devicegraph.IDSwap.TypeGUID())
	assert.Equal(t, uuid.MustParse("0FC63DAF-8483-4772-8E79-3D69D8477DE4"), devicegraph.IDLinux.TypeGUID())
}
