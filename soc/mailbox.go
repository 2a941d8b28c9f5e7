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

import "time"

// Mailbox command and response codes. A command value of zero means "no
// pending command" and is never processed.
const (
	// CmdPing requests a liveness reply from a remote core.
	CmdPing uint32 = 0x0001
	// CmdStatus requests a status word from a remote core.
	CmdStatus uint32 = 0x0010

	// RespPong answers CmdPing.
	RespPong uint32 = 0x8001
	// RespStatusBase answers CmdStatus, OR'd with the low byte of the
	// device tick counter.
	RespStatusBase uint32 = 0x8010
	// RespUnknown answers any other non-zero command.
	RespUnknown uint32 = 0xFFFF

	// StatusResponseReady is stored into the channel's status register when
	// a response is available.
	StatusResponseReady uint32 = 1
)

// postCommand drives IDLE -> CMD_PENDING for ch: the data word is written
// first so the non-zero command acts as the pending flag.
//
// The mailbox has no queue. Posting while a command is still pending
// silently overwrites it; at most one outstanding command per channel is
// supported and callers must not overlap requests.
func (d *Device) postCommand(ch Channel, cmd, data uint32) {
	d.regs.store(MboxDataOffset(ch), data)
	d.regs.store(MboxCmdOffset(ch), cmd)
	mailboxLogger.debugf("[%s] posted cmd=0x%04x data=0x%08x", ch, cmd, data)
}

// completeCommand drives CMD_PENDING -> RESPONSE_READY for ch. It runs only
// on the channel's responder worker, which is the sole writer of the
// response and status registers. Returns false when no command was pending.
//
// Write order matters: response first, then the command clear (the commit
// point marking the command consumed), then the status flag the caller
// polls for.
func (d *Device) completeCommand(ch Channel) (uint32, bool) {
	cmd := d.regs.load(MboxCmdOffset(ch))
	if cmd == 0 {
		return 0, false
	}
	data := d.regs.load(MboxDataOffset(ch))
	resp := d.respond(cmd)
	d.regs.store(MboxRespOffset(ch), resp)
	d.regs.store(MboxCmdOffset(ch), 0)
	d.regs.store(MboxStatusOffset(ch), StatusResponseReady)
	mailboxLogger.debugf("[%s] processed cmd=0x%04x data=0x%08x resp=0x%04x", ch, cmd, data, resp)
	return resp, true
}

func (d *Device) respond(cmd uint32) uint32 {
	switch cmd {
	case CmdPing:
		return RespPong
	case CmdStatus:
		return RespStatusBase | (d.tick() & 0xFF)
	default:
		return RespUnknown
	}
}

// tick is the device's jiffies analogue: milliseconds since creation,
// monotonically increasing.
func (d *Device) tick() uint32 {
	return uint32(time.Since(d.start) / time.Millisecond)
}

// ResponseStatus returns the channel's response-status word. Non-zero means
// a response is ready to be read.
func (d *Device) ResponseStatus(ch Channel) (uint32, error) {
	if !ch.valid() {
		return 0, ErrInvalidChannel
	}
	return d.regs.load(MboxStatusOffset(ch)), nil
}

// Response returns the channel's response word. Only meaningful while
// ResponseStatus reports non-zero.
func (d *Device) Response(ch Channel) (uint32, error) {
	if !ch.valid() {
		return 0, ErrInvalidChannel
	}
	return d.regs.load(MboxRespOffset(ch)), nil
}

// ClearStatus drives RESPONSE_READY -> IDLE: the caller acknowledges the
// response by zeroing the status word. The response register is left
// untouched.
func (d *Device) ClearStatus(ch Channel) error {
	if !ch.valid() {
		return ErrInvalidChannel
	}
	d.regs.store(MboxStatusOffset(ch), 0)
	return nil
}
