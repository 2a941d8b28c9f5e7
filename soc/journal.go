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
	"time"

	queuepkg "github.com/Workiva/go-datastructures/queue"
)

// EventKind classifies dispatcher journal entries.
type EventKind uint8

const (
	// EventIPIRaised records a SendIPI call.
	EventIPIRaised EventKind = iota + 1
	// EventCmdPosted records a command written into a channel mailbox.
	EventCmdPosted
	// EventCmdProcessed records a responder completing a command.
	EventCmdProcessed
	// EventIPICleared records a responder clearing its IPI status bit.
	EventIPICleared
)

func (k EventKind) String() string {
	switch k {
	case EventIPIRaised:
		return "ipi-raised"
	case EventCmdPosted:
		return "cmd-posted"
	case EventCmdProcessed:
		return "cmd-processed"
	case EventIPICleared:
		return "ipi-cleared"
	default:
		return "unknown"
	}
}

// Event is one dispatcher journal entry.
type Event struct {
	Seq     uint64
	Kind    EventKind
	Channel Channel
	Cmd     uint32
	Resp    uint32
	At      time.Time
}

// eventJournal is a bounded, lossy trace of dispatcher activity. It is
// diagnostics only: recording never blocks an operation, and entries that
// do not fit are counted and dropped.
type eventJournal struct {
	rb      *queuepkg.RingBuffer
	seq     atomic.Uint64
	dropped atomic.Uint64
}

func newEventJournal(depth int) *eventJournal {
	return &eventJournal{rb: queuepkg.NewRingBuffer(uint64(depth))}
}

func (j *eventJournal) record(ev Event) {
	ev.Seq = j.seq.Add(1)
	ev.At = time.Now()
	ok, err := j.rb.Offer(ev)
	if err != nil || !ok {
		j.dropped.Add(1)
	}
}

// drain removes and returns up to max journal entries, oldest first.
func (j *eventJournal) drain(max int) []Event {
	var out []Event
	for len(out) < max && j.rb.Len() > 0 {
		v, err := j.rb.Poll(10 * time.Microsecond)
		if err != nil {
			break
		}
		ev, ok := v.(Event)
		if !ok {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (j *eventJournal) reset() {
	for j.rb.Len() > 0 {
		if _, err := j.rb.Poll(10 * time.Microsecond); err != nil {
			break
		}
	}
	j.dropped.Store(0)
}

// Events drains up to max entries from the dispatcher journal, oldest
// first. Draining is destructive; the journal is diagnostics, not a
// protocol surface.
func (d *Device) Events(max int) []Event {
	return d.journal.drain(max)
}

// DroppedEvents reports journal entries discarded because the journal was
// full.
func (d *Device) DroppedEvents() uint64 {
	return d.journal.dropped.Load()
}
