// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

// PollerFunc is a poller's callback. It receives the opaque arg it was
// registered with and must not block.
type PollerFunc func(arg any)

// locationKind tags which schedule, if any, a Poller currently belongs
// to. Mutated only by the poller's owning reactor: mutations to a
// poller's schedule membership occur only on its owning reactor.
type locationKind int

const (
	locUnregistered locationKind = iota
	locActive
	locTimer
)

// pollerLocation is a tagged union:
// PollerLocation ∈ {Unregistered, Active(cpu), Timer(cpu, tick)}.
type pollerLocation struct {
	kind locationKind
	cpu  uint32
	tick uint64
}

// Poller is a persistently registered callback: always-run (PeriodTicks
// == 0) or periodic. It is owned by its registrant — the core never frees
// it — but is borrowed for scheduling by exactly one reactor between
// register and unregister.
type Poller struct {
	Fn          PollerFunc
	Arg         any
	PeriodTicks uint64

	loc pollerLocation

	// intrusive schedule links, valid only while loc.kind != locUnregistered
	prev, next *Poller
}

// LCore returns the CPU currently owning this poller, and whether it is
// registered at all.
func (p *Poller) LCore() (uint32, bool) {
	if p.loc.kind == locUnregistered {
		return 0, false
	}
	return p.loc.cpu, true
}

// NextRunTick returns the absolute tick this poller is next due to run,
// valid only for a periodic poller currently in the timer schedule.
func (p *Poller) NextRunTick() (uint64, bool) {
	if p.loc.kind != locTimer {
		return 0, false
	}
	return p.loc.tick, true
}

func (p *Poller) isPeriodic() bool { return p.PeriodTicks > 0 }

// activeSchedule is the per-reactor FIFO of always-run pollers: the head
// fires once per loop iteration, then moves to the tail.
type activeSchedule struct {
	head, tail *Poller
	len        int
}

func (s *activeSchedule) pushBack(p *Poller) {
	p.prev, p.next = nil, nil
	if s.tail == nil {
		s.head, s.tail = p, p
	} else {
		s.tail.next = p
		p.prev = s.tail
		s.tail = p
	}
	s.len++
}

func (s *activeSchedule) remove(p *Poller) {
	if p.prev != nil {
		p.prev.next = p.next
	} else if s.head == p {
		s.head = p.next
	}
	if p.next != nil {
		p.next.prev = p.prev
	} else if s.tail == p {
		s.tail = p.prev
	}
	p.prev, p.next = nil, nil
	s.len--
}

// rotateOne detaches the head, invokes it, then reinserts it at the tail
// — exactly one invocation per loop iteration regardless of how many
// pollers are registered.
func (s *activeSchedule) rotateOne() bool {
	p := s.head
	if p == nil {
		return false
	}
	s.remove(p)
	p.Fn(p.Arg)
	s.pushBack(p)
	return true
}

// timerSchedule is the per-reactor ordered sequence of periodic pollers
// keyed by next_run_tick ascending, earliest first. It is kept as a
// doubly linked list ordered front-to-back; insertion scans from the
// tail backward, which keeps insertion cheap for the common case of
// similar periods clustering near the tail.
type timerSchedule struct {
	head, tail *Poller
	len        int
}

// insert places p so the list stays ascending by p.loc.tick, with ties
// broken by insertion order (new entries go after existing entries with
// an equal key, i.e. toward the tail of the equal run).
func (s *timerSchedule) insert(p *Poller) {
	p.prev, p.next = nil, nil
	if s.tail == nil {
		s.head, s.tail = p, p
		s.len++
		return
	}
	cur := s.tail
	for cur != nil && cur.loc.tick > p.loc.tick {
		cur = cur.prev
	}
	if cur == nil {
		// p is earliest: insert at head.
		p.next = s.head
		s.head.prev = p
		s.head = p
	} else {
		p.next = cur.next
		p.prev = cur
		if cur.next != nil {
			cur.next.prev = p
		} else {
			s.tail = p
		}
		cur.next = p
	}
	s.len++
}

func (s *timerSchedule) remove(p *Poller) {
	if p.prev != nil {
		p.prev.next = p.next
	} else if s.head == p {
		s.head = p.next
	}
	if p.next != nil {
		p.next.prev = p.prev
	} else if s.tail == p {
		s.tail = p.prev
	}
	p.prev, p.next = nil, nil
	s.len--
}

// fireIfDue detaches the head and invokes it if its next_run_tick has
// elapsed, recomputes its next_run_tick, and reinserts it — at most one
// timer poller fires per loop iteration.
func (s *timerSchedule) fireIfDue(now uint64) bool {
	p := s.head
	if p == nil || now < p.loc.tick {
		return false
	}
	s.remove(p)
	p.Fn(p.Arg)
	p.loc.tick = now + p.PeriodTicks
	s.insert(p)
	return true
}
