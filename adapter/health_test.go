package adapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/hetero-soc/soc"
)

func TestHealthHandlerLiveAndReady(t *testing.T) {
	d, err := soc.NewDevice(nil)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	h := NewHealthHandler(d)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rw := httptest.NewRecorder()
	h.LiveEndpoint(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	rw = httptest.NewRecorder()
	h.ReadyEndpoint(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)

	// Readiness pinged both cores, so the status bitmask is full.
	assert.Equal(t, uint32(0x3), d.GetStatus())
}

func TestHealthHandlerClosedDevice(t *testing.T) {
	d, err := soc.NewDevice(nil)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	h := NewHealthHandler(d)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rw := httptest.NewRecorder()
	h.LiveEndpoint(rw, req)
	assert.Equal(t, http.StatusServiceUnavailable, rw.Code)

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	rw = httptest.NewRecorder()
	h.ReadyEndpoint(rw, req)
	assert.Equal(t, http.StatusServiceUnavailable, rw.Code)
}
