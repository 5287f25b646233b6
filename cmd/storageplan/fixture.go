// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/pief/yast-storage-ng/devicegraph"
	"github.com/pief/yast-storage-ng/partitioning"
	"github.com/pief/yast-storage-ng/region"
)

// graphFixture is a declarative description of the probed system, standing
// in for the native probing engine.
type graphFixture struct {
	Disks []diskFixture `yaml:"disks"`
}

type diskFixture struct { //nolint:govet
	Name      string `yaml:"name"`
	Size      string `yaml:"size"`
	BlockSize uint64 `yaml:"block_size"`
	Model     string `yaml:"model"`

	Table      string             `yaml:"table"`
	Partitions []partitionFixture `yaml:"partitions"`
}

type partitionFixture struct { //nolint:govet
	Number     int    `yaml:"number"`
	Size       string `yaml:"size"`
	ID         string `yaml:"id"`
	Filesystem string `yaml:"filesystem"`
}

// loadGraph builds a device graph from a YAML fixture file.
func loadGraph(path string) (*devicegraph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph fixture: %w", err)
	}

	var fixture graphFixture

	if err = yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse graph fixture: %w", err)
	}

	g := devicegraph.NewGraph()

	for _, df := range fixture.Disks {
		if err = addDisk(g, df); err != nil {
			return nil, fmt.Errorf("disk %s: %w", df.Name, err)
		}
	}

	return g, nil
}

func addDisk(g *devicegraph.Graph, df diskFixture) error {
	blockSize := df.BlockSize
	if blockSize == 0 {
		blockSize = 512
	}

	sizeBytes, err := humanize.ParseBytes(df.Size)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", df.Size, err)
	}

	var opts []devicegraph.DiskOption
	if df.Model != "" {
		opts = append(opts, devicegraph.WithModel(df.Model))
	}

	disk := g.AddDisk(df.Name, sizeBytes/blockSize, blockSize, opts...)

	if df.Table == "" {
		return nil
	}

	tableType, err := devicegraph.ParseTableType(df.Table)
	if err != nil {
		return err
	}

	table, err := g.CreateTable(disk, tableType)
	if err != nil {
		return err
	}

	// lay partitions out back to back after the table metadata
	cursor := uint64(partitioning.MetadataSize) / blockSize

	for idx, pf := range df.Partitions {
		number := pf.Number
		if number == 0 {
			number = idx + 1
		}

		partBytes, err := humanize.ParseBytes(pf.Size)
		if err != nil {
			return fmt.Errorf("partition %d: invalid size %q: %w", number, pf.Size, err)
		}

		part, err := g.CreatePartition(table,
			partitioning.DevName(df.Name, uint(number)), //nolint:gosec
			number,
			region.New(cursor, partBytes/blockSize, blockSize),
			devicegraph.PartitionTypePrimary,
			parsePartitionID(pf.ID),
		)
		if err != nil {
			return err
		}

		cursor += partBytes / blockSize

		if pf.Filesystem != "" {
			fsType, err := devicegraph.ParseFilesystemType(pf.Filesystem)
			if err != nil {
				return err
			}

			if _, err = g.CreateFilesystem(part, fsType); err != nil {
				return err
			}
		}
	}

	return nil
}

func parsePartitionID(id string) devicegraph.PartitionID {
	switch id {
	case "esp":
		return devicegraph.IDESP
	case "swap":
		return devicegraph.IDSwap
	case "lvm":
		return devicegraph.IDLVM
	case "raid":
		return devicegraph.IDRAID
	case "bios_boot":
		return devicegraph.IDBIOSBoot
	default:
		return devicegraph.IDLinux
	}
}
