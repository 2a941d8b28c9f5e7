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

import shm "github.com/srediag/hetero-soc/internal/shm"

// Region sizes of the combined mapping handed out by Map. The shared memory
// region immediately follows the register region.
const (
	RegisterRegionSize = 4096
	SharedRegionSize   = 32 * 1024
	TotalRegionSize    = RegisterRegionSize + SharedRegionSize
	SharedRegionOffset = RegisterRegionSize
)

// Register byte offsets within the mapped region. These offsets are an
// external compatibility contract: user programs map the device region and
// access the fields directly, so they must never move between releases.
// All fields are little-endian 32-bit words.
const (
	RegIPIStatus  uint32 = 0x00
	RegIPITrigger uint32 = 0x04
	RegIPIClear   uint32 = 0x08
	RegIPIEnable  uint32 = 0x0C

	// Mailbox quartet for channel 0; channel 1 follows at +0x10.
	RegMboxCmdBase    uint32 = 0x10
	RegMboxDataBase   uint32 = 0x14
	RegMboxStatusBase uint32 = 0x18
	RegMboxRespBase   uint32 = 0x1C

	RegMutexRequest uint32 = 0x30
	RegMutexStatus  uint32 = 0x34
	RegMutexRelease uint32 = 0x38
)

const mboxChannelStride uint32 = 0x10

// Reset defaults: both channels IPI-enabled, all 16 tracked mutex bits free.
const (
	defaultIPIEnable   uint32 = 0x3
	defaultMutexStatus uint32 = 0xFFFF
)

// MboxCmdOffset returns the command register offset for ch.
func MboxCmdOffset(ch Channel) uint32 { return RegMboxCmdBase + uint32(ch)*mboxChannelStride }

// MboxDataOffset returns the data register offset for ch.
func MboxDataOffset(ch Channel) uint32 { return RegMboxDataBase + uint32(ch)*mboxChannelStride }

// MboxStatusOffset returns the response-status register offset for ch.
func MboxStatusOffset(ch Channel) uint32 { return RegMboxStatusBase + uint32(ch)*mboxChannelStride }

// MboxRespOffset returns the response register offset for ch.
func MboxRespOffset(ch Channel) uint32 { return RegMboxRespBase + uint32(ch)*mboxChannelStride }

// registerBank is a view over the first 4 KiB of the mapped region. It is
// pure storage: it imposes no access control and keeps no shadow copy, the
// mapped bytes are the single source of truth. All word access goes through
// the shared-memory atomics so that responder workers and caller contexts
// see each other's writes.
type registerBank struct {
	mem []byte
}

func newRegisterBank(mem []byte) registerBank {
	return registerBank{mem: mem[:RegisterRegionSize]}
}

func (b registerBank) load(off uint32) uint32 { return shm.LoadUint32(b.mem, off) }

func (b registerBank) store(off, val uint32) { shm.StoreUint32(b.mem, off, val) }

func (b registerBank) cas(off, old, new uint32) bool {
	return shm.CompareAndSwapUint32(b.mem, off, old, new)
}

func (b registerBank) setBits(off, mask uint32) { shm.OrUint32(b.mem, off, mask) }

func (b registerBank) clearBits(off, mask uint32) { shm.AndNotUint32(b.mem, off, mask) }

// reset zeroes the whole register region and restores the hardware defaults.
func (b registerBank) reset() {
	for i := range b.mem {
		b.mem[i] = 0
	}
	b.store(RegIPIEnable, defaultIPIEnable)
	b.store(RegMutexStatus, defaultMutexStatus)
}
