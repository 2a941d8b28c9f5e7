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

// Package soc simulates the communication substrate of a heterogeneous
// six-core SoC: a register bank with a fixed external layout, a 32 KiB
// shared memory region, a two-channel hardware mailbox, an IPI mechanism
// whose remote-core reactions run asynchronously to the caller, and a
// bitmask hardware mutex arbiter.
//
// Callers write a command/data pair into a channel's mailbox registers,
// raise an IPI, then poll the channel's status register for the response.
// There is no blocking wait and no notification callback; polling is the
// contract.
package soc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	shm "github.com/srediag/hetero-soc/internal/shm"
)

// coreCount is the modeled topology: four main cluster cores plus the two
// remote cores the channels address.
const coreCount = 6

// Info describes the device's memory layout to external callers, matching
// the info control operation of the modeled hardware.
type Info struct {
	CoreCount          int
	RegisterRegionSize int
	SharedRegionSize   int
	RegisterOffset     int
	SharedOffset       int
}

// Device is the core instance: it owns the combined register+shared region
// and the per-channel responder workers. One instance per system; all
// sub-components hold only references into the region.
type Device struct {
	conf   *Config
	region *shm.MappedRegion
	regs   registerBank
	start  time.Time

	ipiCount atomic.Uint64
	msgCount atomic.Uint64
	lastCmd  atomic.Uint32

	stats      cmap.ConcurrentMap[string, *channelStats]
	journal    *eventJournal
	responders [channelCount]*coreResponder
	workers    *ants.Pool
	workersWG  sync.WaitGroup

	meterIPI metric.Int64Counter
	meterMsg metric.Int64Counter
	tracer   trace.Tracer

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewDevice allocates the backing region and starts the responder workers.
// A backing allocation failure is fatal: the error wraps
// ErrAllocationFailure and no device instance exists afterwards.
func NewDevice(conf *Config) (*Device, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	if err := VerifyConfig(conf); err != nil {
		return nil, err
	}

	region, err := shm.MapRegion(shm.MapOptions{
		Name: conf.Name,
		Size: TotalRegionSize,
		Type: conf.MemMapType.backing(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocationFailure, err)
	}

	d := &Device{
		conf:    conf,
		region:  region,
		regs:    newRegisterBank(region.Bytes()),
		start:   time.Now(),
		stats:   newStatsMap(),
		journal: newEventJournal(conf.JournalDepth),
	}
	d.regs.reset()

	d.responders[ChannelIO] = newCoreResponder(d, ChannelIO, conf.IOCoreLatency)
	d.responders[ChannelRT] = newCoreResponder(d, ChannelRT, conf.RTCoreLatency)

	workers, err := ants.NewPool(channelCount)
	if err != nil {
		_ = region.Close()
		return nil, fmt.Errorf("%w: responder pool: %v", ErrAllocationFailure, err)
	}
	d.workers = workers
	for _, r := range d.responders {
		r := r
		d.workersWG.Add(1)
		if err := workers.Submit(func() { r.loop(&d.workersWG) }); err != nil {
			d.workersWG.Done()
			d.teardown()
			return nil, fmt.Errorf("%w: responder worker: %v", ErrAllocationFailure, err)
		}
	}

	if err := d.initInstrumentation(); err != nil {
		d.teardown()
		return nil, err
	}

	internalLogger.infof("device up: regs 0x000-0xFFF, shared 0x1000-0x8FFF, backing %d", conf.MemMapType)
	return d, nil
}

func (d *Device) initInstrumentation() error {
	meter := d.conf.Meter
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter("hetero-soc")
	}
	var err error
	if d.meterIPI, err = meter.Int64Counter("soc.ipi.raised"); err != nil {
		return fmt.Errorf("ipi counter instrument: %w", err)
	}
	if d.meterMsg, err = meter.Int64Counter("soc.messages.posted"); err != nil {
		return fmt.Errorf("message counter instrument: %w", err)
	}
	d.tracer = d.conf.Tracer
	if d.tracer == nil {
		d.tracer = tracenoop.NewTracerProvider().Tracer("hetero-soc")
	}
	if d.conf.Registry != nil {
		if err := d.registerMetrics(d.conf.Registry); err != nil {
			return err
		}
	}
	return nil
}

// GetInfo returns the layout handshake: core topology, region sizes, and
// the offsets of the register and shared regions within a mapping.
func (d *Device) GetInfo() Info {
	return Info{
		CoreCount:          coreCount,
		RegisterRegionSize: RegisterRegionSize,
		SharedRegionSize:   SharedRegionSize,
		RegisterOffset:     0,
		SharedOffset:       SharedRegionOffset,
	}
}

// Map exposes the combined region for direct shared access. The returned
// slice aliases the live region bytes (MAP_SHARED on Linux, so writes are
// observed by the responders without caching), starting at the register
// region. Sizes beyond the combined region fail with ErrInvalidMapSize.
func (d *Device) Map(size int) ([]byte, error) {
	if d.closed.Load() {
		return nil, ErrDeviceClosed
	}
	if size <= 0 || size > TotalRegionSize {
		return nil, ErrInvalidMapSize
	}
	return d.region.Bytes()[:size:size], nil
}

// Shared returns the 32 KiB shared memory region, or nil once the device is
// closed. The core imposes no structure on it; it is zero at creation and
// after every reset. Only valid while the device is open.
func (d *Device) Shared() []byte {
	if d.closed.Load() {
		return nil
	}
	return d.region.Bytes()[SharedRegionOffset:]
}

// ReadRegister reads the 32-bit register at a layout offset. The register
// bank has no access control of its own: any aligned offset inside the
// register region may be read, including reserved padding.
func (d *Device) ReadRegister(off uint32) uint32 {
	return d.regs.load(off)
}

// WriteRegister writes the 32-bit register at a layout offset. Writing
// response or status fields from outside the owning responder is outside
// the protocol contract; nothing stops it, matching the hardware.
func (d *Device) WriteRegister(off, val uint32) {
	d.regs.store(off, val)
}

// SendIPI signals the target core: it latches the trigger bit, ORs the
// channel bit into ipi_status, counts the interrupt and schedules the
// channel's responder on its own execution context. The call returns before
// the responder runs, so a caller can observe the pending command state.
func (d *Device) SendIPI(ctx context.Context, ch Channel) error {
	if !ch.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if d.closed.Load() {
		return ErrDeviceClosed
	}
	ctx, span := d.tracer.Start(ctx, "soc.SendIPI")
	defer span.End()

	d.regs.store(RegIPITrigger, ch.bit())
	d.regs.setBits(RegIPIStatus, ch.bit())
	d.ipiCount.Add(1)
	d.meterIPI.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", ch.String())))
	d.journal.record(Event{Kind: EventIPIRaised, Channel: ch})
	internalLogger.debugf("IPI raised for %s", ch)
	return d.responders[ch].dispatch()
}

// SendMessage writes a command/data pair into the channel's mailbox. It
// does not raise the IPI; pair it with SendIPI, or use Ping for a full
// round trip. Posting over a still-pending command overwrites it (§ mailbox
// contract: one outstanding command per channel).
func (d *Device) SendMessage(ctx context.Context, ch Channel, cmd, data uint32) error {
	if !ch.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if d.closed.Load() {
		return ErrDeviceClosed
	}
	ctx, span := d.tracer.Start(ctx, "soc.SendMessage")
	defer span.End()

	d.postCommand(ch, cmd, data)
	d.lastCmd.Store(cmd)
	d.msgCount.Add(1)
	d.meterMsg.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", ch.String())))
	d.journal.record(Event{Kind: EventCmdPosted, Channel: ch, Cmd: cmd})
	return nil
}

// Ping performs a full round trip on ch: post CmdPing, raise the IPI, poll
// for the response within the default budget, acknowledge, and return the
// response word (RespPong from a live core).
func (d *Device) Ping(ctx context.Context, ch Channel) (uint32, error) {
	ctx, span := d.tracer.Start(ctx, "soc.Ping")
	defer span.End()

	if err := d.SendMessage(ctx, ch, CmdPing, 0); err != nil {
		return 0, err
	}
	if err := d.SendIPI(ctx, ch); err != nil {
		return 0, err
	}
	resp, err := d.WaitResponse(ctx, ch)
	if err != nil {
		return 0, err
	}
	if err := d.ClearStatus(ch); err != nil {
		return 0, err
	}
	return resp, nil
}

// Reset zeroes the whole register region, restores the defaults
// (ipi_enable 0x3, hw_mutex_status 0xFFFF), zeroes the shared region, both
// counters, the per-core stats and the journal. Idempotent. Responder runs
// already in flight race with the wipe exactly as on the modeled hardware.
func (d *Device) Reset() {
	d.regs.reset()
	shared := d.region.Bytes()[SharedRegionOffset:]
	for i := range shared {
		shared[i] = 0
	}
	d.ipiCount.Store(0)
	d.msgCount.Store(0)
	d.lastCmd.Store(0)
	for ch := Channel(0); ch < channelCount; ch++ {
		d.statsFor(ch).reset()
	}
	d.journal.reset()
	internalLogger.infof("device reset")
}

// Close stops the responder workers, logs final statistics and releases the
// backing region. Safe to call more than once; operations after Close fail
// with ErrDeviceClosed. Raw views from Map and Shared must not be touched
// once Close begins, and in-flight WaitResponse calls must be drained first:
// the backing mapping goes away with the device, and a poll probe racing the
// unmap may fault instead of observing ErrDeviceClosed.
func (d *Device) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		internalLogger.infof("device down: ipi_count=%d msg_count=%d", d.ipiCount.Load(), d.msgCount.Load())
		err = d.teardown()
	})
	return err
}

func (d *Device) teardown() error {
	d.closed.Store(true)
	for _, r := range d.responders {
		if r != nil {
			r.stop()
		}
	}
	d.workersWG.Wait()
	if d.workers != nil {
		d.workers.Release()
	}
	return d.region.Close()
}
