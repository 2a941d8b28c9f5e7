/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package soc

import (
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// channelStats is per-core runtime bookkeeping. The online flag and
// processed count are written by the channel's responder worker and read by
// diagnostics and the status query.
type channelStats struct {
	online    atomic.Bool
	processed atomic.Uint64
	lastResp  atomic.Uint32
}

func (s *channelStats) reset() {
	s.online.Store(false)
	s.processed.Store(0)
	s.lastResp.Store(0)
}

func newStatsMap() cmap.ConcurrentMap[string, *channelStats] {
	m := cmap.New[*channelStats]()
	for ch := Channel(0); ch < channelCount; ch++ {
		m.Set(ch.String(), &channelStats{})
	}
	return m
}

// statsFor returns the stats entry for ch. Entries for both channels exist
// for the lifetime of the device.
func (d *Device) statsFor(ch Channel) *channelStats {
	s, _ := d.stats.Get(ch.String())
	return s
}

// GetStatus returns the online bitmask of the remote cores: bit 0 for the
// I/O core, bit 1 for the real-time core. A core is online once its
// responder has processed a command since the last reset.
func (d *Device) GetStatus() uint32 {
	var mask uint32
	for ch := Channel(0); ch < channelCount; ch++ {
		if d.statsFor(ch).online.Load() {
			mask |= ch.bit()
		}
	}
	return mask
}

// IPICount reports IPIs raised since creation or the last reset.
func (d *Device) IPICount() uint64 { return d.ipiCount.Load() }

// MessageCount reports messages posted since creation or the last reset.
func (d *Device) MessageCount() uint64 { return d.msgCount.Load() }

// LastCommand reports the most recent command posted through SendMessage or
// Ping; zero after a reset.
func (d *Device) LastCommand() uint32 { return d.lastCmd.Load() }
