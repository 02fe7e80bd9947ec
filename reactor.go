// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"go.uber.org/zap"

	"github.com/luxfi/reactor/hal"
)

// tickHz is the core's tick frequency: one tick per microsecond, so a
// caller-supplied period in microseconds needs no scaling at all.
const tickHz = 1_000_000

// Reactor owns one CPU's event queue and the two poller schedules bound
// to it. Only the owning goroutine ever dequeues events, mutates the
// schedules, or invokes a poller/event callback.
type Reactor struct {
	lcore  uint32
	socket hal.Socket
	events *eventRing

	active activeSchedule
	timer  timerSchedule

	set *ReactorSet
}

func newReactor(set *ReactorSet, lcore uint32, socket hal.Socket, queueCapacity int) *Reactor {
	return &Reactor{
		lcore:  lcore,
		socket: socket,
		events: newEventRing(queueCapacity),
		set:    set,
	}
}

// LCore returns the CPU this reactor owns.
func (r *Reactor) LCore() uint32 { return r.lcore }

// now returns the current tick, derived from the reactor set's clock.
func (r *Reactor) now() uint64 {
	return uint64(r.set.clock.Now().UnixNano() / 1000)
}

// drain snapshots the current queue depth and invokes exactly that many
// events, so callbacks enqueued during the drain run on the next loop
// iteration.
func (r *Reactor) drain() {
	n := r.events.Len()
	for i := 0; i < n; i++ {
		ev, ok := r.events.Pop()
		if !ok {
			return
		}
		r.set.metrics.Counter(MetricEventsDispatched).Inc()
		ev.fn(ev)
		r.set.pools.release(r.socket, ev)
	}
}

// runOnce executes a single loop iteration, returning whether the
// reactor should keep looping.
func (r *Reactor) runOnce() bool {
	r.drain()
	// Advancing any low-resolution timer facility the host uses for its
	// own bookkeeping is the clock abstraction itself; clockz.Clock.Now
	// is monotonic and needs no explicit tick.
	if r.active.rotateOne() {
		r.set.metrics.Counter(MetricPollersFired).Inc()
	}
	if r.timer.fireIfDue(r.now()) {
		r.set.metrics.Counter(MetricPollersFired).Inc()
	}
	r.set.metrics.Gauge(MetricQueueDepth).Set(float64(r.events.Len()))
	return r.set.State() == Running
}

// run executes the reactor's main loop until the reactor set leaves the
// Running state. It pins the calling OS thread to lcore first: one OS
// thread per selected CPU, pinned to that CPU.
func (r *Reactor) run() {
	if err := hal.PinCurrentThread(r.lcore); err != nil {
		r.set.logger.Warn("failed to pin reactor thread to core",
			zap.Uint32("lcore", r.lcore), zap.Error(err))
	}
	for r.runOnce() {
	}
}
