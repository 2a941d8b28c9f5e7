// Package shm contains platform helpers for the device's backing memory:
// mapping the combined register+shared region and atomic access into it.
package shm

import "errors"

// BackingType selects how the combined region is backed.
type BackingType uint8

const (
	// BackingMemFd backs the region with an anonymous memfd mapping (Linux).
	BackingMemFd BackingType = iota
	// BackingDevShm backs the region with a file under /dev/shm (Linux).
	BackingDevShm
	// BackingHeap backs the region with ordinary heap memory. This is the
	// only mode available off Linux.
	BackingHeap
)

// MapOptions defines options for mapping the backing region.
type MapOptions struct {
	Name string
	Size int
	Type BackingType
}

// MappedRegion is the combined register+shared region, mapped with
// MAP_SHARED where the platform supports it so that raw views handed out to
// callers alias the same bytes the device mutates.
type MappedRegion struct {
	mem    []byte
	fd     int
	path   string
	typ    BackingType
	closed bool
}

// ErrRegionExists is returned when a /dev/shm-backed region with the
// requested name already exists.
var ErrRegionExists = errors.New("shared memory region already exists")

// ErrNoSpaceOnDevShm is returned when /dev/shm has not enough free space
// for the requested region.
var ErrNoSpaceOnDevShm = errors.New("not enough free space on /dev/shm")

// Bytes returns the mapped bytes. The slice aliases the live region.
func (r *MappedRegion) Bytes() []byte { return r.mem }

// Size returns the mapped size in bytes.
func (r *MappedRegion) Size() int { return len(r.mem) }

func newHeapRegion(size int) *MappedRegion {
	return &MappedRegion{mem: make([]byte, size), fd: -1, typ: BackingHeap}
}
