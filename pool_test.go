// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/reactor/hal"
)

func TestPoolSetAllocateLocalSocketFirst(t *testing.T) {
	ps := newPoolSet([]hal.Socket{0, 1}, 16)

	ev, ok := ps.allocateFor(1)
	require.True(t, ok)
	require.Equal(t, hal.Socket(1), ev.pool.socket)
}

func TestPoolSetAllocateFallsBackToAnySocket(t *testing.T) {
	ps := newPoolSet([]hal.Socket{0, 1}, 16)

	// drain socket 1's pool entirely so the next allocation must fall back.
	local := ps.bySocket[1]
	for {
		if _, ok := local.get(); !ok {
			break
		}
	}

	ev, ok := ps.allocateFor(1)
	require.True(t, ok)
	require.Equal(t, hal.Socket(0), ev.pool.socket)
}

func TestPoolReleaseReturnsEventToOwningSocket(t *testing.T) {
	ps := newPoolSet([]hal.Socket{0}, 8)
	ev, ok := ps.allocateFor(0)
	require.True(t, ok)

	before := ps.bySocket[0].free.Len()
	ps.release(0, ev)
	require.Equal(t, before+1, ps.bySocket[0].free.Len())
}

func TestPoolOverflowPanics(t *testing.T) {
	ps := newPoolSet([]hal.Socket{0}, 4)
	p := ps.bySocket[0]
	ev := &Event{pool: p}
	require.Panics(t, func() { p.put(ev) })
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 16: 16, 17: 32}
	for in, want := range cases {
		require.Equal(t, want, nextPowerOfTwo(in))
	}
}
