// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/reactor"
	"github.com/luxfi/reactor/hal"
)

func withTwoCoreTopology(t *testing.T) {
	t.Helper()
	prev := hal.Default()
	hal.SetDefault(hal.NewTopology([]hal.CoreInfo{
		{Core: 0, Socket: 0, Enabled: true},
		{Core: 1, Socket: 0, Enabled: true},
	}))
	t.Cleanup(func() { hal.SetDefault(prev) })
}

func TestReactorSetStartsInvalid(t *testing.T) {
	rs := reactor.NewReactorSet()
	require.Equal(t, reactor.Invalid, rs.State())
}

func TestInitRejectsMaskWithoutMasterBit(t *testing.T) {
	withTwoCoreTopology(t)
	rs := reactor.NewReactorSet(reactor.WithMasterCore(0))
	err := rs.Init("0x2")
	require.ErrorIs(t, err, reactor.ErrMasterNotSelected)
	require.Equal(t, reactor.Invalid, rs.State())
}

func TestInitRejectsMalformedMask(t *testing.T) {
	withTwoCoreTopology(t)
	rs := reactor.NewReactorSet()
	err := rs.Init("not-hex")
	require.ErrorIs(t, err, reactor.ErrMaskInvalid)
}

func TestInitAcceptsOptional0xPrefix(t *testing.T) {
	withTwoCoreTopology(t)
	rs := reactor.NewReactorSet()
	require.NoError(t, rs.Init("3"))
	require.Equal(t, uint64(0x3), rs.Mask())
	require.Equal(t, 2, rs.CoreCount())
}

func TestInitClearsDisabledCoreBits(t *testing.T) {
	prev := hal.Default()
	t.Cleanup(func() { hal.SetDefault(prev) })
	hal.SetDefault(hal.NewTopology([]hal.CoreInfo{
		{Core: 0, Socket: 0, Enabled: true},
		{Core: 1, Socket: 0, Enabled: false},
	}))
	rs := reactor.NewReactorSet()
	require.NoError(t, rs.Init("0x3"))
	require.Equal(t, uint64(0x1), rs.Mask())
	require.Equal(t, 1, rs.CoreCount())
}

func TestInitTwiceReturnsWrongState(t *testing.T) {
	withTwoCoreTopology(t)
	rs := reactor.NewReactorSet()
	require.NoError(t, rs.Init("0x1"))
	err := rs.Init("0x1")
	require.ErrorIs(t, err, reactor.ErrWrongState)
}

func TestStartBeforeInitReturnsWrongState(t *testing.T) {
	rs := reactor.NewReactorSet()
	err := rs.Start()
	require.ErrorIs(t, err, reactor.ErrWrongState)
}

func TestLifecycleStateMonotonicThroughShutdown(t *testing.T) {
	withTwoCoreTopology(t)
	rs := reactor.NewReactorSet()
	require.NoError(t, rs.Init("0x1"))
	require.Equal(t, reactor.Initialized, rs.State())

	done := make(chan error, 1)
	go func() { done <- rs.Start() }()

	require.Eventually(t, func() bool {
		return rs.State() == reactor.Running
	}, 2*time.Second, time.Millisecond)

	rs.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reactor set never shut down")
	}
	require.Equal(t, reactor.Shutdown, rs.State())
}
