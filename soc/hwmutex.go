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

// Hardware mutex arbiter: up to 32 independently lockable resources in the
// hw_mutex_status bitmask, 1 = free, 0 = held (the reset default 0xFFFF is
// all tracked locks free). The whole read/modify/write runs as a CAS loop
// over the single status word, so disjoint requests proceed independently
// and overlapping requests serialize with exactly one winner per bit.
//
// There is no ownership tracking. Release frees the requested bits no
// matter who holds them; that is the modeled hardware's simplification, not
// a defect to fix here.

// MutexRequest tries to acquire every lock bit in mask. It returns the bits
// actually acquired; bits missing from the result were already held by
// someone else. Partial acquisition is normal, the caller decides whether
// to back off or proceed with what it got.
func (d *Device) MutexRequest(mask uint32) uint32 {
	d.regs.store(RegMutexRequest, mask)
	for {
		cur := d.regs.load(RegMutexStatus)
		free := cur & mask
		if d.regs.cas(RegMutexStatus, cur, cur&^free) {
			if free != mask {
				internalLogger.debugf("mutex contention: requested 0x%08x acquired 0x%08x", mask, free)
			}
			return free
		}
	}
}

// MutexRelease frees every lock bit in mask, regardless of holder.
func (d *Device) MutexRelease(mask uint32) {
	d.regs.store(RegMutexRelease, mask)
	d.regs.setBits(RegMutexStatus, mask)
}

// MutexStatus returns the current lock bitmask, 1 = free.
func (d *Device) MutexStatus() uint32 {
	return d.regs.load(RegMutexStatus)
}
