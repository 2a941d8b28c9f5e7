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

import "errors"

var (
	// ErrInvalidChannel is returned when a channel id is outside {0, 1}.
	ErrInvalidChannel = errors.New("channel id out of range")

	// ErrInvalidMapSize is returned when a requested mapping exceeds the
	// combined register+shared region.
	ErrInvalidMapSize = errors.New("requested map size exceeds device region")

	// ErrAllocationFailure wraps a backing-memory failure at device
	// creation. It is fatal: no partial device instance is created.
	ErrAllocationFailure = errors.New("backing memory allocation failed")

	// ErrNoSuchOperation is returned by Control for unrecognized or
	// malformed control requests.
	ErrNoSuchOperation = errors.New("unrecognized control operation")

	// ErrDeviceClosed is returned by operations issued after Close.
	ErrDeviceClosed = errors.New("device closed")

	// ErrPollTimeout is returned by the caller-side polling helpers when a
	// channel produced no response within the poll budget. The core itself
	// never reports timeouts; detecting an unresponsive channel is a
	// caller concern.
	ErrPollTimeout = errors.New("no response within poll budget")
)
