// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package devicegraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/region"
)

func TestSetDMNameDisablesAuto(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	disk := g.AddDisk("/dev/sda", gib/blockSize, blockSize)
	enc, err := g.CreateEncryption(disk, "secret")
	require.NoError(t, err)

	g.SweepDMNames()
	assert.True(t, enc.Encryption.AutoDMName())
	assert.Equal(t, "cr_sda", enc.Encryption.DMName())

	enc.Encryption.SetDMName("cr_data")
	assert.False(t, enc.Encryption.AutoDMName())

	// a later sweep must not overwrite the user choice
	g.SweepDMNames()
	assert.Equal(t, "cr_data", enc.Encryption.DMName())
	assert.False(t, enc.Encryption.AutoDMName())
}

func TestSweepDMNames(t *testing.T) {
	t.Parallel()

	g := devicegraph.NewGraph()

	sda := g.AddDisk("/dev/sda", 10*gib/blockSize, blockSize)
	table, err := g.CreateTable(sda, devicegraph.TableTypeGPT)
	require.NoError(t, err)

	part1, err := g.CreatePartition(table, "/dev/sda1", 1, region.New(2048, gib/blockSize, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDLinux)
	require.NoError(t, err)

	part2, err := g.CreatePartition(table, "/dev/sda2", 2, region.New(2048+gib/blockSize, gib/blockSize, blockSize),
		devicegraph.PartitionTypePrimary, devicegraph.IDLinux)
	require.NoError(t, err)

	enc1, err := g.CreateEncryption(part1, "secret")
	require.NoError(t, err)

	enc2, err := g.CreateEncryption(part2, "secret")
	require.NoError(t, err)

	enc2.Encryption.SetDMName("cr_sda1") // user name colliding with enc1's natural auto name

	g.SweepDMNames()

	assert.Equal(t, "cr_sda1_2", enc1.Encryption.DMName())
	assert.True(t, enc1.Encryption.AutoDMName())
	assert.Equal(t, "cr_sda1", enc2.Encryption.DMName())
	assert.False(t, enc2.Encryption.AutoDMName())

	// sweeping again is stable
	g.SweepDMNames()
	assert.Equal(t, "cr_sda1_2", enc1.Encryption.DMName())
}
