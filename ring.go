// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import "sync/atomic"

// eventRing is a bounded, multi-producer/single-consumer ring buffer of
// *Event. It is the per-reactor event queue: any CPU may Push, only the
// owning reactor ever Pop's.
//
// The algorithm is the node-based bounded queue described by
// 1024cores.net's "bounded MPMC queue", specialized to a single consumer:
// each slot carries a step stamp alongside its value so a producer can
// tell, without a lock, whether the slot it wants to claim has been
// drained by the consumer. Cache-line padding keeps head and tail from
// false-sharing under concurrent producers.
type eventRing struct {
	head      uint64
	_padHead  [56]byte
	tail      uint64
	_padTail  [56]byte
	mask      uint64
	_padMask  [56]byte
	slots     []ringSlot
}

type ringSlot struct {
	step  uint64
	value *Event
}

// newEventRing allocates a ring of the given capacity, which must be a
// power of two.
func newEventRing(capacity int) *eventRing {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("reactor: ring capacity must be a power of two")
	}
	slots := make([]ringSlot, capacity)
	for i := range slots {
		slots[i].step = uint64(i)
	}
	return &eventRing{
		mask:  uint64(capacity - 1),
		slots: slots,
	}
}

// Push enqueues ev. It returns false if the ring is full — callers treat
// that as a fatal enqueue-failure condition.
func (r *eventRing) Push(ev *Event) bool {
	for {
		oldTail := atomic.LoadUint64(&r.tail)
		slot := &r.slots[oldTail&r.mask]
		if step := atomic.LoadUint64(&slot.step); step != oldTail {
			if step < oldTail {
				// Slot not yet drained by the consumer: ring is full.
				return false
			}
			// Another producer already filled this slot; tail has moved on.
			continue
		}
		if !atomic.CompareAndSwapUint64(&r.tail, oldTail, oldTail+1) {
			// Lost the race to another producer for this slot; re-read
			// tail and try again.
			continue
		}
		slot.value = ev
		atomic.StoreUint64(&slot.step, oldTail+1)
		return true
	}
}

// Pop dequeues the oldest event, or returns (nil, false) if the ring is
// empty. Only the single consumer (the owning reactor) may call Pop.
func (r *eventRing) Pop() (*Event, bool) {
	head := r.head
	slot := &r.slots[head&r.mask]
	if atomic.LoadUint64(&slot.step) != head+1 {
		return nil, false
	}
	ev := slot.value
	slot.value = nil
	atomic.StoreUint64(&slot.step, head+r.mask+1)
	r.head = head + 1
	return ev, true
}

// Len returns a snapshot of the number of events currently enqueued. Used
// by drain to bound a single pass to exactly the events present at its
// start.
func (r *eventRing) Len() int {
	tail := atomic.LoadUint64(&r.tail)
	head := atomic.LoadUint64(&r.head)
	return int(tail - head)
}
