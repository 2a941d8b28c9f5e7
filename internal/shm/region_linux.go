//go:build linux

package shm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"
)

// MapRegion creates the backing region described by opts. The returned
// region is zero-filled.
func MapRegion(opts MapOptions) (*MappedRegion, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", opts.Size)
	}
	switch opts.Type {
	case BackingMemFd:
		return mapMemFd(opts)
	case BackingDevShm:
		return mapDevShm(opts)
	case BackingHeap:
		return newHeapRegion(opts.Size), nil
	default:
		return nil, fmt.Errorf("unknown backing type %d", opts.Type)
	}
}

func mapMemFd(opts MapOptions) (*MappedRegion, error) {
	fd, err := unix.MemfdCreate(opts.Name, 0)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(opts.Size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("ftruncate: %w", err)
	}
	mem, err := unix.Mmap(fd, 0, opts.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &MappedRegion{mem: mem, fd: fd, typ: BackingMemFd}, nil
}

func mapDevShm(opts MapOptions) (*MappedRegion, error) {
	path := filepath.Join("/dev/shm", opts.Name)
	if pathExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrRegionExists, path)
	}
	if !canCreateOnDevShm(uint64(opts.Size), path) {
		return nil, fmt.Errorf("%w: path %s, size %d", ErrNoSpaceOnDevShm, path, opts.Size)
	}
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(opts.Size)); err != nil {
		_ = unix.Close(fd)
		_ = os.Remove(path)
		return nil, fmt.Errorf("ftruncate: %w", err)
	}
	mem, err := unix.Mmap(fd, 0, opts.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		_ = os.Remove(path)
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &MappedRegion{mem: mem, fd: fd, path: path, typ: BackingDevShm}, nil
}

// Close unmaps the region and releases its backing object. Safe to call
// more than once.
func (r *MappedRegion) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.typ == BackingHeap {
		r.mem = nil
		return nil
	}
	if err := unix.Munmap(r.mem); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	r.mem = nil
	if err := unix.Close(r.fd); err != nil {
		return fmt.Errorf("close fd %d: %w", r.fd, err)
	}
	if r.typ == BackingDevShm {
		if err := os.Remove(r.path); err != nil {
			return fmt.Errorf("remove %s: %w", r.path, err)
		}
	}
	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// canCreateOnDevShm reports whether /dev/shm has room for size bytes.
// Paths outside /dev/shm are not checked.
func canCreateOnDevShm(size uint64, path string) bool {
	if !strings.HasPrefix(path, "/dev/shm") {
		return true
	}
	stat, err := disk.Usage("/dev/shm")
	if err != nil {
		return true
	}
	return stat.Free >= size
}
