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
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	shm "github.com/srediag/hetero-soc/internal/shm"
)

// MemMapType selects how the device's backing region is created.
type MemMapType uint8

const (
	// MemMapTypeMemFd backs the region with an anonymous memfd (Linux).
	MemMapTypeMemFd MemMapType = iota
	// MemMapTypeDevShmFile backs the region with a /dev/shm file (Linux).
	MemMapTypeDevShmFile
	// MemMapTypeHeap backs the region with plain heap memory.
	MemMapTypeHeap
)

// Config holds device creation parameters.
type Config struct {
	// Name identifies the backing shared memory object.
	Name string
	// MemMapType selects the backing for the combined region. Off Linux
	// every type degrades to heap memory.
	MemMapType MemMapType
	// IOCoreLatency is the simulated processing delay of the I/O core's
	// responder. Must be positive: the asynchrony between raising an IPI
	// and observing the response is part of the modeled behavior.
	IOCoreLatency time.Duration
	// RTCoreLatency is the simulated processing delay of the real-time
	// core's responder. Must be positive and at most IOCoreLatency.
	RTCoreLatency time.Duration
	// JournalDepth bounds the dispatcher event journal. Older events are
	// dropped once the journal is full.
	JournalDepth int

	// Meter and Tracer instrument the control operations. Nil values fall
	// back to no-op implementations.
	Meter  metric.Meter
	Tracer trace.Tracer
	// Registry, when set, receives the device's counter and per-core
	// online metrics.
	Registry *prometheus.Registry
}

// DefaultConfig returns the default device configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:          "hetero-soc",
		MemMapType:    MemMapTypeMemFd,
		IOCoreLatency: 2 * time.Millisecond,
		RTCoreLatency: 200 * time.Microsecond,
		JournalDepth:  256,
	}
}

// VerifyConfig checks conf for values the device cannot operate with.
func VerifyConfig(conf *Config) error {
	if conf.Name == "" {
		return errors.New("config: empty region name")
	}
	if conf.MemMapType > MemMapTypeHeap {
		return errors.New("config: unknown memory map type")
	}
	if conf.IOCoreLatency <= 0 || conf.RTCoreLatency <= 0 {
		return errors.New("config: responder latencies must be positive")
	}
	if conf.RTCoreLatency > conf.IOCoreLatency {
		return errors.New("config: real-time core must not be slower than the I/O core")
	}
	if conf.JournalDepth <= 0 {
		return errors.New("config: journal depth must be positive")
	}
	return nil
}

func (t MemMapType) backing() shm.BackingType {
	switch t {
	case MemMapTypeDevShmFile:
		return shm.BackingDevShm
	case MemMapTypeHeap:
		return shm.BackingHeap
	default:
		return shm.BackingMemFd
	}
}
