// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

// EventFunc is a one-shot callback dispatched on an event's destination
// CPU. It must not block and must not suspend — the reactor loop has no
// suspension primitive.
type EventFunc func(ev *Event)

// Event is an immutable, one-shot work item: a destination CPU, a
// callback, two opaque argument slots, and an optional chained
// continuation. Once enqueued, only the destination reactor observes it;
// fn runs exactly once, after which the event is released to the socket
// pool of the CPU that ran it.
//
// Event is never constructed directly by callers — use
// (*ReactorSet).AllocateEvent, which draws from the caller's local socket
// pool.
type Event struct {
	lcore uint32
	fn    EventFunc
	arg1  any
	arg2  any
	next  *Event

	// pool identifies the pool this Event was drawn from. poolSet.release
	// returns the event here only when the running CPU's socket has no
	// pool of its own; otherwise it goes to the running socket's pool.
	pool *eventPool
}

// LCore returns the destination CPU this event was allocated for.
func (e *Event) LCore() uint32 { return e.lcore }

// Args returns the two opaque argument slots carried by the event.
func (e *Event) Args() (arg1, arg2 any) { return e.arg1, e.arg2 }

// Next returns the chained continuation event, if any. fn is responsible
// for dispatching it — typically at the end of its own body.
func (e *Event) Next() *Event { return e.next }

// reset clears an event's fields before it is returned to its pool, so a
// stale fn/args/next cannot leak into the next allocation.
func (e *Event) reset() {
	e.lcore = 0
	e.fn = nil
	e.arg1 = nil
	e.arg2 = nil
	e.next = nil
}
