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
	"sync"
	"time"

	queuepkg "github.com/Workiva/go-datastructures/queue"
)

// coreResponder models one remote core's reaction to an IPI. Each channel
// owns exactly one work queue and one worker draining it, so responder runs
// for a channel are serialized; runs for different channels are independent.
//
// The responder is the only writer of its channel's response and status
// registers. Communication with the caller happens purely through the
// register bank: there is no call-return path and no notification, the
// caller polls.
type coreResponder struct {
	d     *Device
	ch    Channel
	delay time.Duration
	work  *queuepkg.Queue
}

func newCoreResponder(d *Device, ch Channel, delay time.Duration) *coreResponder {
	return &coreResponder{
		d:     d,
		ch:    ch,
		delay: delay,
		work:  queuepkg.New(8),
	}
}

// dispatch enqueues one responder run. It never blocks the caller; the
// worker picks the token up on its own schedule.
func (r *coreResponder) dispatch() error {
	if err := r.work.Put(struct{}{}); err != nil {
		// Queue disposed during teardown.
		return ErrDeviceClosed
	}
	return nil
}

// loop is the channel's deferred-work context. It exits when the work queue
// is disposed.
func (r *coreResponder) loop(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		if _, err := r.work.Get(1); err != nil {
			return
		}
		r.run()
	}
}

// run performs one IPI reaction: a simulated processing delay, the mailbox
// transition if a command is pending, then the IPI status clear. Seeing no
// pending command is not an error, the responder just clears the bit.
func (r *coreResponder) run() {
	time.Sleep(r.delay)
	if resp, ok := r.d.completeCommand(r.ch); ok {
		st := r.d.statsFor(r.ch)
		st.online.Store(true)
		st.processed.Add(1)
		st.lastResp.Store(resp)
		r.d.journal.record(Event{Kind: EventCmdProcessed, Channel: r.ch, Resp: resp})
	}
	r.d.regs.clearBits(RegIPIStatus, r.ch.bit())
	r.d.journal.record(Event{Kind: EventIPICleared, Channel: r.ch})
}

func (r *coreResponder) stop() {
	r.work.Dispose()
}
