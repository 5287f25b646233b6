// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package etcfiles

import (
	"os"
	"path/filepath"
	"strings"
)

// CrypttabEntry is one record of an /etc/crypttab file.
type CrypttabEntry struct { //nolint:govet
	// Name is the DeviceMapper name of the decrypted device.
	Name string
	// Device is the underlying encrypted block device.
	Device string
	// KeyFile is the key source, "none" or empty for passphrase prompt.
	KeyFile string
	Options []string
}

// ReadCrypttab reads crypttab records from the file at root/path.
//
// Returns nil when the file is absent or unreadable; malformed lines are
// skipped.
func ReadCrypttab(root, path string) []CrypttabEntry {
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		return nil
	}

	var entries []CrypttabEntry

	for _, line := range strings.Split(string(data), "\n") {
		fields := splitLine(line)
		if len(fields) < 2 {
			continue
		}

		entry := CrypttabEntry{
			Name:   fields[0],
			Device: fields[1],
		}

		if len(fields) > 2 {
			entry.KeyFile = fields[2]
		}

		if len(fields) > 3 {
			entry.Options = strings.Split(fields[3], ",")
		}

		entries = append(entries, entry)
	}

	return entries
}
