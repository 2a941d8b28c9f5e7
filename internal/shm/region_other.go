//go:build !linux

package shm

import "fmt"

// MapRegion creates the backing region described by opts. Off Linux every
// backing type degrades to heap memory; the region is still contiguous and
// zero-filled, only no longer an OS shared mapping.
func MapRegion(opts MapOptions) (*MappedRegion, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", opts.Size)
	}
	return newHeapRegion(opts.Size), nil
}

// Close releases the region. Safe to call more than once.
func (r *MappedRegion) Close() error {
	r.closed = true
	r.mem = nil
	return nil
}
