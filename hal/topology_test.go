// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopologyEnabledCores(t *testing.T) {
	top := NewTopology([]CoreInfo{
		{Core: 0, Socket: 0, Enabled: true},
		{Core: 1, Socket: 0, Enabled: true},
		{Core: 2, Socket: 1, Enabled: false},
		{Core: 3, Socket: 1, Enabled: true},
	})

	require.True(t, top.IsEnabled(0))
	require.False(t, top.IsEnabled(2))
	require.Equal(t, []uint32{0, 1, 3}, top.EnabledCores())

	s0, ok := top.SocketOf(0)
	require.True(t, ok)
	require.Equal(t, Socket(0), s0)

	s3, ok := top.SocketOf(3)
	require.True(t, ok)
	require.Equal(t, Socket(1), s3)

	_, ok = top.SocketOf(99)
	require.False(t, ok)

	require.ElementsMatch(t, []Socket{0, 1}, top.Sockets())
	require.Equal(t, 3, top.MaxCore())
}

func TestDefaultTopologySingleSocket(t *testing.T) {
	top := NewTopology([]CoreInfo{
		{Core: 0, Socket: 0, Enabled: true},
		{Core: 1, Socket: 0, Enabled: true},
	})
	SetDefault(top)
	t.Cleanup(func() { SetDefault(singleSocketTopology()) })

	require.Same(t, top, Default())
	require.Equal(t, []Socket{0}, Default().Sockets())
}

func TestAffinityBackend(t *testing.T) {
	// PinCurrentThread must never fail outright even on platforms where
	// it cannot actually pin: isolation is assumed, not enforced, by the
	// core.
	require.NoError(t, PinCurrentThread(0))
	require.NotEmpty(t, BackendName())
}
