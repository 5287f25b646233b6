// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package devicegraph

import (
	"fmt"

	"github.com/pief/yast-storage-ng/region"
)

// EncryptionSpec is the payload of an encryption layer transparently hosted
// on one block device.
type EncryptionSpec struct { //nolint:govet
	Password string

	// CrypttabName is the name recorded in /etc/crypttab, nil when the
	// device is not listed there.
	CrypttabName *string

	dmName     string
	dmNameAuto bool
}

// DMName returns the DeviceMapper table name.
func (e *EncryptionSpec) DMName() string {
	return e.dmName
}

// AutoDMName reports whether the current name was auto-generated and may be
// replaced by a later renaming sweep.
func (e *EncryptionSpec) AutoDMName() bool {
	return e.dmNameAuto
}

// SetDMName assigns a user-chosen DeviceMapper name.
//
// Setting a name through here always disables auto-generated tracking, so a
// later bulk-rename pass never overwrites the user's choice.
func (e *EncryptionSpec) SetDMName(name string) {
	e.dmName = name
	e.dmNameAuto = false
}

func (e *EncryptionSpec) setAutoDMName(name string) {
	e.dmName = name
	e.dmNameAuto = true
}

// CreateEncryption puts an encryption layer over a block device.
//
// The layer exposes the same extent as the underlying device and hosts
// whatever gets created on top of it (typically a filesystem).
func (g *Graph) CreateEncryption(dev *Device, password string) (*Device, error) {
	if !g.owns(dev) || !dev.IsBlockDevice() {
		return nil, fmt.Errorf("device %s cannot be encrypted", dev)
	}

	if g.TableOf(dev) != nil || g.FilesystemOf(dev) != nil {
		return nil, fmt.Errorf("device %s is already in use", dev)
	}

	enc := g.newDevice("", region.New(0, dev.region.Length, dev.region.BlockSize))
	enc.Encryption = &EncryptionSpec{Password: password}

	g.addHosted(dev, enc)

	return enc, nil
}

// Encryptions returns all encryption layers, in creation order.
func (g *Graph) Encryptions() []*Device {
	var result []*Device

	for _, sid := range g.order {
		if d := g.devices[sid]; d.Encryption != nil {
			result = append(result, d)
		}
	}

	return result
}

// SweepDMNames reassigns auto-generated DeviceMapper names.
//
// The sweep works on a snapshot of the encryption layers ordered by sid and
// runs in two passes, clear then reassign, so a newly assigned name can never
// collide with an old auto-generated name that is yet to be cleared.
// User-assigned names are left untouched.
func (g *Graph) SweepDMNames() {
	snapshot := g.snapshotSids()

	var encs []*Device

	for _, sid := range snapshot {
		d := g.devices[sid]
		if d != nil && d.Encryption != nil {
			encs = append(encs, d)
		}
	}

	taken := map[string]struct{}{}

	for _, d := range encs {
		if d.Encryption.dmNameAuto {
			d.Encryption.dmName = ""
		} else if d.Encryption.dmName != "" {
			taken[d.Encryption.dmName] = struct{}{}
		}
	}

	for _, d := range encs {
		if !d.Encryption.dmNameAuto && d.Encryption.dmName != "" {
			continue
		}

		base := "cr_ext"
		if host := g.HostOf(d); host != nil && host.name != "" {
			base = "cr_" + host.Basename()
		}

		name := base
		for suffix := 2; ; suffix++ {
			if _, used := taken[name]; !used {
				break
			}

			name = fmt.Sprintf("%s_%d", base, suffix)
		}

		taken[name] = struct{}{}
		d.Encryption.setAutoDMName(name)
	}
}
