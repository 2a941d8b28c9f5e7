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
	"context"
	"fmt"
)

// Op is a control operation code, the ioctl analogue of the modeled
// driver's surface.
type Op uint32

const (
	// OpGetInfo returns the device Info.
	OpGetInfo Op = iota + 1
	// OpGetStatus returns the remote-core online bitmask.
	OpGetStatus
	// OpSendIPI raises an IPI; arg is the Channel.
	OpSendIPI
	// OpReset resets registers, counters and stats.
	OpReset
	// OpPing round-trips a ping; arg is the Channel, result the response.
	OpPing
	// OpSendMessage posts a command; arg is a Message.
	OpSendMessage
)

// Message is the request payload for OpSendMessage.
type Message struct {
	Channel Channel
	Cmd     uint32
	Data    uint32
}

// Control dispatches a coded operation with an operation-specific argument
// and result, mirroring the single synchronous control entry point of the
// modeled driver. Unknown codes and malformed arguments fail with
// ErrNoSuchOperation.
func (d *Device) Control(ctx context.Context, op Op, arg interface{}) (interface{}, error) {
	switch op {
	case OpGetInfo:
		return d.GetInfo(), nil
	case OpGetStatus:
		return d.GetStatus(), nil
	case OpSendIPI:
		ch, ok := arg.(Channel)
		if !ok {
			return nil, fmt.Errorf("%w: op %d wants a Channel argument", ErrNoSuchOperation, op)
		}
		return nil, d.SendIPI(ctx, ch)
	case OpReset:
		d.Reset()
		return nil, nil
	case OpPing:
		ch, ok := arg.(Channel)
		if !ok {
			return nil, fmt.Errorf("%w: op %d wants a Channel argument", ErrNoSuchOperation, op)
		}
		return d.Ping(ctx, ch)
	case OpSendMessage:
		m, ok := arg.(Message)
		if !ok {
			return nil, fmt.Errorf("%w: op %d wants a Message argument", ErrNoSuchOperation, op)
		}
		return nil, d.SendMessage(ctx, m.Channel, m.Cmd, m.Data)
	default:
		return nil, fmt.Errorf("%w: op %d", ErrNoSuchOperation, op)
	}
}
