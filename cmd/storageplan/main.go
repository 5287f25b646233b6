// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// storageplan derives a storage plan from a declarative profile and a
// device-graph fixture, printing the planned devices and any issues.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pief/yast-storage-ng/issues"
	"github.com/pief/yast-storage-ng/planner"
	"github.com/pief/yast-storage-ng/profile"
)

var planCmdFlags struct {
	graphPath   string
	profilePath string
	verbose     bool
}

var rootCmd = &cobra.Command{
	Use:           "storageplan",
	Short:         "storage planning from declarative profiles",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "plan storage changes for a profile against a device graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan()
	},
}

func init() {
	planCmd.Flags().StringVar(&planCmdFlags.graphPath, "graph", "graph.yaml", "device graph fixture file")
	planCmd.Flags().StringVar(&planCmdFlags.profilePath, "profile", "profile.yaml", "storage profile file")
	planCmd.Flags().BoolVarP(&planCmdFlags.verbose, "verbose", "v", false, "log planning decisions")

	rootCmd.AddCommand(planCmd)
}

func runPlan() error {
	logger := zap.NewNop()

	if planCmdFlags.verbose {
		var err error

		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}

	g, err := loadGraph(planCmdFlags.graphPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(planCmdFlags.profilePath)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	p, err := profile.Parse(data)
	if err != nil {
		return err
	}

	var list issues.List

	for _, drive := range p.Drives {
		switch drive.Type {
		case "md":
			for _, md := range planner.NewMDPlanner(g, planner.WithLogger(logger)).Plan(drive, &list) {
				printMD(md)
			}
		case "lvm":
			if vg := planner.NewLVMPlanner(g, planner.WithLogger(logger)).Plan(drive, &list); vg != nil {
				printVG(vg)
			}
		default:
			if disk := planner.NewPartitionPlanner(g, planner.WithLogger(logger)).Plan(drive, &list); disk != nil {
				printDisk(disk)
			}
		}
	}

	for _, issue := range list.All() {
		fmt.Fprintf(os.Stderr, "issue: %s\n", issue)
	}

	if len(list.ByKind(issues.KindNoDiskSpace)) > 0 {
		return fmt.Errorf("planning failed: not all requests fit")
	}

	return nil
}

func printDisk(disk *planner.Disk) {
	fmt.Printf("disk %s", disk.Name)

	if disk.NoTable {
		fmt.Printf(" (no table, %s%s)\n", disk.FilesystemType, mountSuffix(disk.MountPoint))

		return
	}

	if disk.TableType != nil {
		fmt.Printf(" (%s)", disk.TableType)
	}

	fmt.Println()

	for _, part := range disk.Partitions {
		fmt.Printf("  %s %s %s%s\n", part.Name, sizeString(part.Size), part.FilesystemType, mountSuffix(part.MountPoint))
	}
}

func printMD(md *planner.MD) {
	fmt.Printf("md %s (%s)", md.Name, md.Level)

	if md.NoTable {
		fmt.Printf(" %s%s\n", md.FilesystemType, mountSuffix(md.MountPoint))

		return
	}

	fmt.Println()

	for _, part := range md.Partitions {
		fmt.Printf("  %s %s %s%s\n", part.Name, sizeString(part.Size), part.FilesystemType, mountSuffix(part.MountPoint))
	}
}

func printVG(vg *planner.VG) {
	fmt.Printf("vg %s (pvs: %v)\n", vg.Name, vg.PhysicalVolumes)

	for _, lv := range vg.LVs {
		fmt.Printf("  %s %s %s%s\n", lv.Name, sizeString(lv.Size), lv.FilesystemType, mountSuffix(lv.MountPoint))
	}
}

func sizeString(size profile.Size) string {
	if size.Max {
		return "max"
	}

	return humanize.IBytes(size.Bytes)
}

func mountSuffix(mount *string) string {
	if mount == nil {
		return ""
	}

	return " on " + *mount
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
