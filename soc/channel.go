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

import "strconv"

// Channel identifies one simulated remote core. A channel is not a
// materialized object, it only selects the register offsets belonging to
// that core; it exists for the lifetime of the device.
type Channel int

const (
	// ChannelIO is the I/O-oriented core.
	ChannelIO Channel = 0
	// ChannelRT is the real-time core. Its responder runs with lower
	// latency than the I/O core's, reflecting the hardware asymmetry.
	ChannelRT Channel = 1

	channelCount = 2
)

func (c Channel) valid() bool { return c >= 0 && c < channelCount }

// bit returns the channel's position in the IPI bitmask registers.
func (c Channel) bit() uint32 { return 1 << uint32(c) }

func (c Channel) String() string {
	switch c {
	case ChannelIO:
		return "io-core"
	case ChannelRT:
		return "rt-core"
	default:
		return "channel-" + strconv.Itoa(int(c))
	}
}
