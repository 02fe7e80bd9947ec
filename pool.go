// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import "github.com/luxfi/reactor/hal"

// defaultTotalEvents is the process-wide event budget divided evenly
// across populated sockets.
const defaultTotalEvents = 262144

// eventPool is a per-socket bounded free-list of *Event. Allocation and
// release are both local to the caller's socket, so under steady state an
// event traverses at most two sockets.
type eventPool struct {
	socket hal.Socket
	free   *eventRing
}

func newEventPool(socket hal.Socket, capacity int) *eventPool {
	p := &eventPool{socket: socket, free: newEventRing(capacity)}
	for i := 0; i < capacity; i++ {
		p.free.Push(&Event{pool: p})
	}
	return p
}

// get pops a free Event from this pool, or reports false if exhausted.
func (p *eventPool) get() (*Event, bool) {
	return p.free.Pop()
}

// put returns ev to this pool after fn has run and the event has been
// released. ev must have been drawn from this pool.
func (p *eventPool) put(ev *Event) {
	ev.reset()
	ev.pool = p
	if !p.free.Push(ev) {
		// A pool can never receive back more events than it handed out,
		// so this can only indicate a double-release bug upstream.
		panic("reactor: event pool overflow on release")
	}
}

// poolSet holds one eventPool per populated socket and routes allocation
// to the caller's local socket.
type poolSet struct {
	bySocket map[hal.Socket]*eventPool
}

// newPoolSet builds one pool per socket in sockets, each sized
// totalEvents/len(sockets) rounded up to the next power of two (the
// free-list ring's capacity must be one), so the sum can exceed
// totalEvents when the per-socket share is not already a power of two.
func newPoolSet(sockets []hal.Socket, totalEvents int) *poolSet {
	if len(sockets) == 0 {
		return &poolSet{bySocket: map[hal.Socket]*eventPool{}}
	}
	per := nextPowerOfTwo(totalEvents / len(sockets))
	ps := &poolSet{bySocket: make(map[hal.Socket]*eventPool, len(sockets))}
	for _, s := range sockets {
		ps.bySocket[s] = newEventPool(s, per)
	}
	return ps
}

// allocateFor draws an event from sock's pool, falling back to any other
// populated pool exactly once before reporting exhaustion.
func (ps *poolSet) allocateFor(sock hal.Socket) (*Event, bool) {
	if p, ok := ps.bySocket[sock]; ok {
		if ev, ok := p.get(); ok {
			return ev, true
		}
	}
	for _, p := range ps.bySocket {
		if ev, ok := p.get(); ok {
			return ev, true
		}
	}
	return nil, false
}

// release returns ev to the pool of the socket that owns runningSocket —
// the socket the reactor that ran ev is pinned to, not necessarily the
// socket ev was originally allocated from.
func (ps *poolSet) release(runningSocket hal.Socket, ev *Event) {
	p, ok := ps.bySocket[runningSocket]
	if !ok {
		p = ev.pool
	}
	p.put(ev)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
