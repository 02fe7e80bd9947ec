// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActiveScheduleRotatesFairly(t *testing.T) {
	var s activeSchedule
	var order []int
	mk := func(id int) *Poller {
		return &Poller{Fn: func(arg any) { order = append(order, id) }}
	}
	a, b, c := mk(1), mk(2), mk(3)
	s.pushBack(a)
	s.pushBack(b)
	s.pushBack(c)

	for i := 0; i < 6; i++ {
		require.True(t, s.rotateOne())
	}
	require.Equal(t, []int{1, 2, 3, 1, 2, 3}, order)
	require.Equal(t, 3, s.len)
}

func TestActiveScheduleEmptyRotateReturnsFalse(t *testing.T) {
	var s activeSchedule
	require.False(t, s.rotateOne())
}

func TestActiveScheduleRemoveMid(t *testing.T) {
	var s activeSchedule
	a := &Poller{Fn: func(any) {}}
	b := &Poller{Fn: func(any) {}}
	c := &Poller{Fn: func(any) {}}
	s.pushBack(a)
	s.pushBack(b)
	s.pushBack(c)

	s.remove(b)
	require.Equal(t, 2, s.len)
	require.Same(t, a, s.head)
	require.Same(t, c, s.tail)
	require.Same(t, c, a.next)
	require.Same(t, a, c.prev)
}

func TestTimerScheduleOrdersAscendingByTick(t *testing.T) {
	var s timerSchedule
	mk := func(tick uint64) *Poller {
		p := &Poller{Fn: func(any) {}, PeriodTicks: 10}
		p.loc = pollerLocation{kind: locTimer, tick: tick}
		return p
	}
	p30 := mk(30)
	p10 := mk(10)
	p20 := mk(20)

	s.insert(p30)
	s.insert(p10)
	s.insert(p20)

	var ticks []uint64
	for cur := s.head; cur != nil; cur = cur.next {
		ticks = append(ticks, cur.loc.tick)
	}
	require.Equal(t, []uint64{10, 20, 30}, ticks)
}

func TestTimerScheduleTiesBreakByInsertionOrder(t *testing.T) {
	var s timerSchedule
	mk := func(tick uint64) *Poller {
		p := &Poller{Fn: func(any) {}, PeriodTicks: 10}
		p.loc = pollerLocation{kind: locTimer, tick: tick}
		return p
	}
	first := mk(10)
	second := mk(10)
	third := mk(10)
	s.insert(first)
	s.insert(second)
	s.insert(third)

	require.Same(t, first, s.head)
	require.Same(t, second, first.next)
	require.Same(t, third, second.next)
}

func TestTimerScheduleFireIfDueRespectsOrderAndReschedules(t *testing.T) {
	var s timerSchedule
	var fired []uint64

	mk := func(tick, period uint64) *Poller {
		p := &Poller{PeriodTicks: period}
		p.Fn = func(any) { fired = append(fired, p.loc.tick) }
		p.loc = pollerLocation{kind: locTimer, tick: tick}
		return p
	}
	p := mk(10, 10)
	s.insert(p)

	require.False(t, s.fireIfDue(5))
	require.True(t, s.fireIfDue(10))
	require.Equal(t, uint64(20), p.loc.tick)
	require.False(t, s.fireIfDue(15))
	require.True(t, s.fireIfDue(20))
	require.Equal(t, uint64(30), p.loc.tick)
}

func TestPollerLCoreAndNextRunTick(t *testing.T) {
	p := &Poller{}
	_, ok := p.LCore()
	require.False(t, ok)
	_, ok = p.NextRunTick()
	require.False(t, ok)

	p.loc = pollerLocation{kind: locActive, cpu: 3}
	cpu, ok := p.LCore()
	require.True(t, ok)
	require.Equal(t, uint32(3), cpu)
	_, ok = p.NextRunTick()
	require.False(t, ok)

	p.loc = pollerLocation{kind: locTimer, cpu: 3, tick: 42}
	tick, ok := p.NextRunTick()
	require.True(t, ok)
	require.Equal(t, uint64(42), tick)
}
