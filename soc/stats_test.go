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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusTracksOnlineCores(t *testing.T) {
	d := testDevice(t)
	ctx := context.Background()

	assert.Equal(t, uint32(0), d.GetStatus())

	_, err := d.Ping(ctx, ChannelIO)
	require.NoError(t, err)
	assert.Equal(t, ChannelIO.bit(), d.GetStatus())

	_, err = d.Ping(ctx, ChannelRT)
	require.NoError(t, err)
	assert.Equal(t, ChannelIO.bit()|ChannelRT.bit(), d.GetStatus())

	d.Reset()
	assert.Equal(t, uint32(0), d.GetStatus())
}

func TestMessageAccounting(t *testing.T) {
	d := testDevice(t)
	ctx := context.Background()

	require.NoError(t, d.SendMessage(ctx, ChannelIO, 0x0042, 1))
	require.NoError(t, d.SendMessage(ctx, ChannelRT, 0x0043, 2))
	assert.Equal(t, uint64(2), d.MessageCount())
	assert.Equal(t, uint32(0x0043), d.LastCommand())
}

func TestDescribeSnapshot(t *testing.T) {
	d := testDevice(t)
	ctx := context.Background()

	out := d.Describe()
	assert.Contains(t, out, "io-core")
	assert.True(t, strings.Contains(out, "Offline"))

	_, err := d.Ping(ctx, ChannelIO)
	require.NoError(t, err)

	out = d.Describe()
	assert.Contains(t, out, "IO processing core (status: Online)")
	assert.Contains(t, out, "Messages sent: 1")
	assert.Contains(t, out, "Last command: 0x0001")
}

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "io-core", ChannelIO.String())
	assert.Equal(t, "rt-core", ChannelRT.String())
	assert.Equal(t, "channel-5", Channel(5).String())
}
