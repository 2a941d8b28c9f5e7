package shm

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRegionHeap(t *testing.T) {
	r, err := MapRegion(MapOptions{Name: "test-heap", Size: 4096, Type: BackingHeap})
	require.NoError(t, err)
	assert.Equal(t, 4096, r.Size())
	for _, b := range r.Bytes() {
		if b != 0 {
			t.Fatal("region not zero-filled")
		}
	}
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
	assert.Nil(t, r.Bytes())
}

func TestMapRegionInvalidSize(t *testing.T) {
	_, err := MapRegion(MapOptions{Name: "bad", Size: 0, Type: BackingHeap})
	assert.Error(t, err)
	_, err = MapRegion(MapOptions{Name: "bad", Size: -1, Type: BackingHeap})
	assert.Error(t, err)
}

func TestMapRegionMemFd(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("memfd is Linux only")
	}
	r, err := MapRegion(MapOptions{Name: "test-memfd", Size: 8192, Type: BackingMemFd})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	mem := r.Bytes()
	require.Len(t, mem, 8192)
	mem[0] = 0xAB
	assert.Equal(t, byte(0xAB), r.Bytes()[0])
	require.NoError(t, r.Close())
}
