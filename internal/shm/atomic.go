package shm

import (
	"sync/atomic"
	"unsafe"
)

// Atomic access into a mapped region. Offsets must be 4-byte aligned; the
// mapping itself is page aligned, so any aligned register offset is safe to
// address this way. Values are native byte order, which is little-endian on
// every target the register layout contract covers.

// LoadUint32 atomically loads the 32-bit word at off.
func LoadUint32(mem []byte, off uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&mem[off])))
}

// StoreUint32 atomically stores val into the 32-bit word at off.
func StoreUint32(mem []byte, off uint32, val uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&mem[off])), val)
}

// CompareAndSwapUint32 atomically swaps the word at off from old to new.
func CompareAndSwapUint32(mem []byte, off uint32, old, new uint32) bool {
	return atomic.CompareAndSwapUint32((*uint32)(unsafe.Pointer(&mem[off])), old, new)
}

// OrUint32 atomically sets the bits of mask in the word at off and returns
// the new value.
func OrUint32(mem []byte, off uint32, mask uint32) uint32 {
	for {
		old := LoadUint32(mem, off)
		if CompareAndSwapUint32(mem, off, old, old|mask) {
			return old | mask
		}
	}
}

// AndNotUint32 atomically clears the bits of mask in the word at off and
// returns the new value.
func AndNotUint32(mem []byte, off uint32, mask uint32) uint32 {
	for {
		old := LoadUint32(mem, off)
		if CompareAndSwapUint32(mem, off, old, old&^mask) {
			return old &^ mask
		}
	}
}
