// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pief/yast-storage-ng/profile"
)

const sampleProfile = `
drives:
  - device: /dev/sda
    disklabel: gpt
    partitions:
      - mount: /boot/efi
        filesystem: vfat
        size: 512MiB
      - mount: /
        filesystem: ext4
        size: max
  - device: /dev/md0
    type: md
    disklabel: none
    raid_options:
      raid_type: raid5
    partitions:
      - mount: /data
        filesystem: xfs
        size: max
`

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := profile.Parse([]byte(sampleProfile))
	require.NoError(t, err)
	require.Len(t, p.Drives, 2)

	sda := p.Drives[0]
	assert.Equal(t, "/dev/sda", sda.Device)
	require.NotNil(t, sda.Disklabel)
	assert.Equal(t, "gpt", *sda.Disklabel)
	assert.False(t, sda.NoTable())
	require.Len(t, sda.Partitions, 2)
	assert.Equal(t, "/boot/efi", sda.Partitions[0].Mount)
	assert.Equal(t, "512MiB", sda.Partitions[0].Size)

	md := p.Drives[1]
	assert.Equal(t, "md", md.Type)
	assert.True(t, md.NoTable())
	require.NotNil(t, md.RaidOptions)
	assert.Equal(t, "raid5", md.RaidOptions.Level)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	drive, err := profile.Decode(map[string]any{
		"device":    "/dev/md",
		"type":      "md",
		"disklabel": "none",
		"partitions": []any{
			map[string]any{
				"mount":        "/home",
				"filesystem":   "xfs",
				"size":         "max",
				"partition_nr": 1,
				"raid_options": map[string]any{"raid_type": "raid1"},
			},
			map[string]any{
				"mount":        "/srv",
				"filesystem":   "ext4",
				"size":         "20GB",
				"partition_nr": "2", // weakly typed input
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/dev/md", drive.Device)
	assert.True(t, drive.NoTable())
	require.Len(t, drive.Partitions, 2)
	assert.Equal(t, 1, drive.Partitions[0].PartitionNr)
	assert.Equal(t, 2, drive.Partitions[1].PartitionNr)
	require.NotNil(t, drive.Partitions[0].RaidOptions)
	assert.Equal(t, "raid1", drive.Partitions[0].RaidOptions.Level)
	assert.Nil(t, drive.Partitions[1].RaidOptions)
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	for _, test := range []struct { //nolint:govet
		in string

		expected    profile.Size
		expectError bool
	}{
		{in: "max", expected: profile.Size{Max: true}},
		{in: "", expected: profile.Size{Max: true}},
		{in: "Max", expected: profile.Size{Max: true}},
		{in: "10GB", expected: profile.Size{Bytes: 10_000_000_000}},
		{in: "512MiB", expected: profile.Size{Bytes: 512 * 1024 * 1024}},
		{in: "1024", expected: profile.Size{Bytes: 1024}},
		{in: "a lot", expectError: true},
	} {
		test := test

		t.Run(test.in, func(t *testing.T) {
			t.Parallel()

			size, err := profile.ParseSize(test.in)

			if test.expectError {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expected, size)
		})
	}
}
