// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package etcfiles reads mount-related configuration files from a mounted
// system root.
//
// Readers here are collaborators for the planning core: an absent or
// unreadable file is not an error, just no data.
package etcfiles

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FstabEntry is one record of an /etc/fstab file.
type FstabEntry struct { //nolint:govet
	Device     string
	MountPoint string
	FsType     string
	Options    []string
	Dump       int
	Pass       int
}

// ReadFstab reads fstab records from the file at root/path.
//
// Returns nil when the file is absent or unreadable; malformed lines are
// skipped.
func ReadFstab(root, path string) []FstabEntry {
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		return nil
	}

	var entries []FstabEntry

	for _, line := range strings.Split(string(data), "\n") {
		fields := splitLine(line)
		if len(fields) < 3 {
			continue
		}

		entry := FstabEntry{
			Device:     fields[0],
			MountPoint: fields[1],
			FsType:     fields[2],
		}

		if len(fields) > 3 {
			entry.Options = strings.Split(fields[3], ",")
		}

		if len(fields) > 4 {
			entry.Dump, _ = strconv.Atoi(fields[4]) //nolint:errcheck
		}

		if len(fields) > 5 {
			entry.Pass, _ = strconv.Atoi(fields[5]) //nolint:errcheck
		}

		entries = append(entries, entry)
	}

	return entries
}

// splitLine tokenizes one configuration line, dropping comments.
func splitLine(line string) []string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}

	return strings.Fields(line)
}
