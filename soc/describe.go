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
	"fmt"

	"github.com/valyala/bytebufferpool"
)

// Describe renders a human-readable device snapshot for diagnostics. The
// format is free-form and not part of the protocol contract.
func (d *Device) Describe() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	onOff := func(ch Channel) string {
		if d.statsFor(ch).online.Load() {
			return "Online"
		}
		return "Offline"
	}

	fmt.Fprintf(buf, "=== 6-Core Heterogeneous System (simulated) ===\n")
	fmt.Fprintf(buf, "Architecture:\n")
	fmt.Fprintf(buf, "  - 4x main cluster cores\n")
	fmt.Fprintf(buf, "  - 1x IO processing core (status: %s)\n", onOff(ChannelIO))
	fmt.Fprintf(buf, "  - 1x real-time core (status: %s)\n", onOff(ChannelRT))
	fmt.Fprintf(buf, "Communication:\n")
	fmt.Fprintf(buf, "  - 2 channel hardware mailbox\n")
	fmt.Fprintf(buf, "  - 32KB shared memory @ offset 0x%04x\n", SharedRegionOffset)
	fmt.Fprintf(buf, "Statistics:\n")
	fmt.Fprintf(buf, "  - IPIs raised: %d\n", d.ipiCount.Load())
	fmt.Fprintf(buf, "  - Messages sent: %d\n", d.msgCount.Load())
	fmt.Fprintf(buf, "  - Last command: 0x%04x\n", d.lastCmd.Load())
	for ch := Channel(0); ch < channelCount; ch++ {
		st := d.statsFor(ch)
		fmt.Fprintf(buf, "  - %s: processed=%d last_resp=0x%04x\n",
			ch, st.processed.Load(), st.lastResp.Load())
	}
	if dropped := d.journal.dropped.Load(); dropped > 0 {
		fmt.Fprintf(buf, "  - journal events dropped: %d\n", dropped)
	}
	return buf.String()
}
