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
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default poll budget: 64 probes 2ms apart covers the documented ~100ms
// window a responder is expected to answer within.
const (
	defaultPollInterval = 2 * time.Millisecond
	defaultPollRetries  = 64
)

var errResponseNotReady = errors.New("response not ready")

// WaitResponse polls the channel's status register with the default budget
// until a response appears, then returns the response word. It is a
// caller-side convenience over the polling contract: the core never blocks
// and never enforces timeouts itself. The status register is left set; the
// caller acknowledges with ClearStatus.
func (d *Device) WaitResponse(ctx context.Context, ch Channel) (uint32, error) {
	return d.WaitResponseWithBudget(ctx, ch, defaultPollInterval, defaultPollRetries)
}

// WaitResponseWithBudget is WaitResponse with a caller-chosen poll interval
// and retry bound. Exhausting the budget yields ErrPollTimeout; a canceled
// context yields the context's error.
func (d *Device) WaitResponseWithBudget(ctx context.Context, ch Channel, interval time.Duration, retries uint64) (uint32, error) {
	if !ch.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	var resp uint32
	probe := func() error {
		if d.closed.Load() {
			return backoff.Permanent(ErrDeviceClosed)
		}
		if d.regs.load(MboxStatusOffset(ch)) == 0 {
			return errResponseNotReady
		}
		resp = d.regs.load(MboxRespOffset(ch))
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), retries), ctx)
	if err := backoff.Retry(probe, b); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		if errors.Is(err, ErrDeviceClosed) {
			return 0, ErrDeviceClosed
		}
		return 0, fmt.Errorf("%w: %s", ErrPollTimeout, ch)
	}
	return resp, nil
}
