// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package devicegraph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pief/yast-storage-ng/region"
)

// Graph owns all device nodes and the edges between them.
//
// Two edge kinds are tracked separately: hosting (a disk hosts its partition
// table, a table hosts its partitions, a block device hosts its filesystem or
// encryption layer) and membership (a block device is a member of an MD RAID,
// a PV belongs to a VG, an LV belongs to its VG).
//
// A graph is not safe for concurrent mutation; callers must not mutate it
// while queries run against it.
type Graph struct {
	nextSid Sid

	devices map[Sid]*Device
	order   []Sid

	// hosting edges
	hosted map[Sid][]Sid
	hostOf map[Sid]Sid

	// membership edges
	members  map[Sid][]Sid
	memberOf map[Sid][]Sid
}

// NewGraph creates an empty device graph.
func NewGraph() *Graph {
	return &Graph{
		nextSid:  42, // first sid, leaving room for reserved ids
		devices:  map[Sid]*Device{},
		hosted:   map[Sid][]Sid{},
		hostOf:   map[Sid]Sid{},
		members:  map[Sid][]Sid{},
		memberOf: map[Sid][]Sid{},
	}
}

func (g *Graph) newDevice(name string, r region.Region) *Device {
	d := &Device{
		sid:    g.nextSid,
		name:   name,
		region: r,
	}

	g.nextSid++
	g.devices[d.sid] = d
	g.order = append(g.order, d.sid)

	return d
}

func (g *Graph) addHosted(parent, child *Device) {
	g.hosted[parent.sid] = append(g.hosted[parent.sid], child.sid)
	g.hostOf[child.sid] = parent.sid
}

func (g *Graph) addMember(composite, member *Device) {
	g.members[composite.sid] = append(g.members[composite.sid], member.sid)
	g.memberOf[member.sid] = append(g.memberOf[member.sid], composite.sid)
}

// DiskOption configures a disk created with AddDisk.
type DiskOption func(*DiskSpec)

// WithModel sets the disk model string.
func WithModel(model string) DiskOption {
	return func(s *DiskSpec) {
		s.Model = model
	}
}

// WithSerial sets the disk serial number.
func WithSerial(serial string) DiskOption {
	return func(s *DiskSpec) {
		s.Serial = serial
	}
}

// WithWWID sets the disk WWID.
func WithWWID(wwid string) DiskOption {
	return func(s *DiskSpec) {
		s.WWID = wwid
	}
}

// WithDiskType sets the physical disk type.
func WithDiskType(t DiskType) DiskOption {
	return func(s *DiskSpec) {
		s.Type = t
	}
}

// AsMultipathWire marks the disk as one path of a multipath device.
func AsMultipathWire() DiskOption {
	return func(s *DiskSpec) {
		s.MultipathWire = true
	}
}

// AsBIOSRaidMember marks the disk as claimed by a BIOS/firmware RAID.
func AsBIOSRaidMember() DiskOption {
	return func(s *DiskSpec) {
		s.BIOSRaidMember = true
	}
}

// AsBootArea marks the disk as an eMMC boot or RPMB area.
func AsBootArea() DiskOption {
	return func(s *DiskSpec) {
		s.BootArea = true
	}
}

// AddDisk creates a physical disk spanning the given number of blocks.
func (g *Graph) AddDisk(name string, blocks, blockSize uint64, opts ...DiskOption) *Device {
	spec := &DiskSpec{}

	for _, opt := range opts {
		opt(spec)
	}

	d := g.newDevice(name, region.New(0, blocks, blockSize))
	d.Disk = spec

	return d
}

// CreateTable creates a partition table on a partitionable device.
//
// A partitionable holds at most one table; creating a second one or putting
// a table on a directly formatted device is an error.
func (g *Graph) CreateTable(dev *Device, typ TableType) (*Device, error) {
	if !g.owns(dev) {
		return nil, fmt.Errorf("device %s does not belong to this graph", dev)
	}

	if !dev.IsPartitionable() {
		return nil, fmt.Errorf("device %s is not partitionable", dev)
	}

	if g.TableOf(dev) != nil {
		return nil, fmt.Errorf("device %s already has a partition table", dev)
	}

	if g.FilesystemOf(dev) != nil {
		return nil, fmt.Errorf("device %s is directly formatted", dev)
	}

	t := g.newDevice("", region.Region{})
	t.Table = &TableSpec{Type: typ}

	g.addHosted(dev, t)

	return t, nil
}

// CreatePartition creates a partition under a partition table.
//
// The caller supplies the device name (see partitioning.DevName) and the
// region the partition occupies on the parent device.
func (g *Graph) CreatePartition(table *Device, name string, number int, r region.Region, typ PartitionType, id PartitionID) (*Device, error) {
	if table == nil || table.Table == nil {
		return nil, fmt.Errorf("device %s is not a partition table", table)
	}

	for _, existing := range g.PartitionsOf(table) {
		if existing.Partition.Number == number {
			return nil, fmt.Errorf("partition number %d already in use", number)
		}

		if existing.region.Overlaps(r) {
			return nil, fmt.Errorf("partition region %s overlaps %s", r, existing)
		}
	}

	p := g.newDevice(name, r)
	p.Partition = &PartitionSpec{Number: number, Type: typ, ID: id, GUID: uuid.New()}

	g.addHosted(table, p)

	return p, nil
}

// CreateFilesystem formats a block device with a filesystem.
func (g *Graph) CreateFilesystem(dev *Device, typ FilesystemType) (*Device, error) {
	if !g.owns(dev) {
		return nil, fmt.Errorf("device %s does not belong to this graph", dev)
	}

	if !dev.IsBlockDevice() && dev.Raid == nil && dev.LV == nil {
		return nil, fmt.Errorf("device %s cannot host a filesystem", dev)
	}

	if g.TableOf(dev) != nil {
		return nil, fmt.Errorf("device %s has a partition table", dev)
	}

	if g.FilesystemOf(dev) != nil {
		return nil, fmt.Errorf("device %s is already formatted", dev)
	}

	f := g.newDevice("", region.Region{})
	f.Filesystem = &FilesystemSpec{Type: typ}

	g.addHosted(dev, f)

	return f, nil
}

// CreateRaid creates an MD RAID assembled from the given member devices.
func (g *Graph) CreateRaid(name string, level RaidLevel, members ...*Device) (*Device, error) {
	var blocks, blockSize uint64

	for _, m := range members {
		if !m.IsBlockDevice() {
			return nil, fmt.Errorf("RAID member %s is not a block device", m)
		}

		if blockSize == 0 || m.region.BlockSize < blockSize {
			blockSize = m.region.BlockSize
		}
	}

	if blockSize != 0 {
		blocks = raidBlocks(level, members, blockSize)
	}

	md := g.newDevice(name, region.New(0, blocks, blockSize))
	md.Raid = &RaidSpec{Level: level}

	for _, m := range members {
		g.addMember(md, m)
	}

	return md, nil
}

// raidBlocks estimates the usable size of an MD device from its members.
func raidBlocks(level RaidLevel, members []*Device, blockSize uint64) uint64 {
	if len(members) == 0 {
		return 0
	}

	smallest := members[0].region.SizeBytes()
	for _, m := range members[1:] {
		if s := m.region.SizeBytes(); s < smallest {
			smallest = s
		}
	}

	n := uint64(len(members))

	var usable uint64

	switch level {
	case RAID0:
		usable = smallest * n
	case RAID1:
		usable = smallest
	case RAID4, RAID5:
		usable = smallest * (n - 1)
	case RAID6:
		if n > 2 {
			usable = smallest * (n - 2)
		}
	case RAID10:
		usable = smallest * n / 2
	}

	return usable / blockSize
}

// CreatePV turns a block device into an LVM physical volume.
func (g *Graph) CreatePV(dev *Device) (*Device, error) {
	if !g.owns(dev) || !dev.IsBlockDevice() {
		return nil, fmt.Errorf("device %s cannot be used as a PV", dev)
	}

	if g.TableOf(dev) != nil || g.FilesystemOf(dev) != nil {
		return nil, fmt.Errorf("device %s is already in use", dev)
	}

	pv := g.newDevice("", region.Region{})
	pv.PV = &PVSpec{}

	g.addHosted(dev, pv)

	return pv, nil
}

// CreateVG creates an LVM volume group over the given physical volumes.
func (g *Graph) CreateVG(name string, extentSize uint64, pvs ...*Device) (*Device, error) {
	for _, pv := range pvs {
		if pv.PV == nil {
			return nil, fmt.Errorf("device %s is not a PV", pv)
		}
	}

	vg := g.newDevice(name, region.Region{})
	vg.VG = &VGSpec{ExtentSize: extentSize}

	for _, pv := range pvs {
		g.addMember(vg, pv)
	}

	return vg, nil
}

// CreateLV creates a logical volume inside a volume group.
func (g *Graph) CreateLV(vg *Device, name string, blocks, blockSize uint64) (*Device, error) {
	if vg == nil || vg.VG == nil {
		return nil, fmt.Errorf("device %s is not a VG", vg)
	}

	lv := g.newDevice(name, region.New(0, blocks, blockSize))
	lv.LV = &LVSpec{}

	g.addMember(vg, lv)

	return lv, nil
}

// Get returns the device with the given sid.
func (g *Graph) Get(sid Sid) *Device {
	return g.devices[sid]
}

// AllDevices returns every device in the graph, in creation order.
func (g *Graph) AllDevices() []*Device {
	result := make([]*Device, 0, len(g.order))

	for _, sid := range g.order {
		result = append(result, g.devices[sid])
	}

	return result
}

// HostedOn returns the devices directly hosted on dev, in creation order.
func (g *Graph) HostedOn(dev *Device) []*Device {
	sids := g.hosted[dev.sid]

	result := make([]*Device, 0, len(sids))
	for _, sid := range sids {
		result = append(result, g.devices[sid])
	}

	return result
}

// HostOf returns the device hosting dev, nil for root devices.
func (g *Graph) HostOf(dev *Device) *Device {
	sid, ok := g.hostOf[dev.sid]
	if !ok {
		return nil
	}

	return g.devices[sid]
}

// MembersOf returns the member devices of a composite device.
func (g *Graph) MembersOf(composite *Device) []*Device {
	sids := g.members[composite.sid]

	result := make([]*Device, 0, len(sids))
	for _, sid := range sids {
		result = append(result, g.devices[sid])
	}

	return result
}

// CompositesOf returns the composite devices dev is a member of.
func (g *Graph) CompositesOf(dev *Device) []*Device {
	sids := g.memberOf[dev.sid]

	result := make([]*Device, 0, len(sids))
	for _, sid := range sids {
		result = append(result, g.devices[sid])
	}

	return result
}

func (g *Graph) owns(dev *Device) bool {
	return dev != nil && g.devices[dev.sid] == dev
}

func (g *Graph) snapshotSids() []Sid {
	return slices.Clone(g.order)
}
