// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/luxfi/reactor/hal"
)

// AllocateEvent draws a fresh event from the caller's local socket's
// pool, sets its destination CPU/callback/arguments/continuation, and
// returns it. Pool exhaustion is a fatal invariant breach: it aborts the
// process via the configured logger after a single any-socket retry,
// performed inside poolSet.allocateFor.
func (rs *ReactorSet) AllocateEvent(dest uint32, fn EventFunc, arg1, arg2 any, next *Event) (*Event, error) {
	if rs.State() < Initialized {
		return nil, fmt.Errorf("%w: AllocateEvent before Init", ErrWrongState)
	}
	callerSocket := rs.callerSocket(dest)
	ev, ok := rs.pools.allocateFor(callerSocket)
	if !ok {
		rs.logger.Fatal("event pool exhausted", zap.Uint32("dest", dest))
		return nil, fmt.Errorf("reactor: event pool exhausted") // unreachable once Fatal exits
	}
	ev.lcore = dest
	ev.fn = fn
	ev.arg1 = arg1
	ev.arg2 = arg2
	ev.next = next
	return ev, nil
}

// callerSocket resolves the socket an allocation should be drawn from:
// the caller's own socket when called from inside a reactor's loop
// goroutine, else the destination's socket as the best available
// approximation for allocations made from ordinary, unpinned goroutines.
func (rs *ReactorSet) callerSocket(dest uint32) hal.Socket {
	if core, ok := rs.CurrentCore(); ok {
		if s, ok := rs.sockets[core]; ok {
			return s
		}
	}
	return rs.sockets[dest]
}

// Send enqueues ev onto its destination reactor's queue. Enqueue failure
// is a fatal invariant breach.
func (rs *ReactorSet) Send(ev *Event) error {
	r, ok := rs.reactors[ev.lcore]
	if !ok {
		return fmt.Errorf("%w: %d", ErrCoreNotSelected, ev.lcore)
	}
	if !r.events.Push(ev) {
		rs.logger.Fatal("event queue full", zap.Uint32("lcore", ev.lcore))
		return fmt.Errorf("reactor: event queue full") // unreachable once Fatal exits
	}
	return nil
}

// SendTo is a send_to(cpu, fn, args) primitive: allocate + enqueue in one
// call, with no completion and no continuation. The nvmf package's
// dispatcher is layered directly on this.
func (rs *ReactorSet) SendTo(cpu uint32, fn EventFunc, arg1, arg2 any) error {
	ev, err := rs.AllocateEvent(cpu, fn, arg1, arg2, nil)
	if err != nil {
		return err
	}
	return rs.Send(ev)
}

// ticksForPeriod converts a duration to ticks at tickHz.
func ticksForPeriod(periodUS uint64) uint64 {
	return periodUS // tickHz == 1 tick/microsecond, see reactor.go.
}

// RegisterPoller installs poller onto cpu's schedule: the timer schedule
// if periodUS > 0, else the always-run schedule. completion, if
// non-nil, is dispatched once the poller is installed.
func (rs *ReactorSet) RegisterPoller(p *Poller, cpu uint32, periodUS uint64, completion *Event) error {
	if p == nil {
		return ErrNilPoller
	}
	if _, ok := p.LCore(); ok {
		return ErrPollerScheduled
	}
	ev, err := rs.allocateRegisterEvent(p, cpu, periodUS, completion)
	if err != nil {
		return err
	}
	return rs.Send(ev)
}

// UnregisterPoller removes poller from whichever schedule it currently
// belongs to. completion, if non-nil, is dispatched once removed.
func (rs *ReactorSet) UnregisterPoller(p *Poller, completion *Event) error {
	if p == nil {
		return ErrNilPoller
	}
	return rs.unregisterWithCompletion(p, completion)
}

// MigratePoller moves poller from its current CPU to newCPU. It is an
// unregister whose completion is a register-on-newCPU carrying the
// caller's completion — the unregister runs first on the old CPU, then
// the chained register runs on the new CPU. Between those two moments
// the poller is in no schedule; callers must tolerate this.
func (rs *ReactorSet) MigratePoller(p *Poller, newCPU uint32, completion *Event) error {
	if p == nil {
		return ErrNilPoller
	}
	if _, ok := rs.reactors[newCPU]; !ok {
		return fmt.Errorf("%w: %d", ErrCoreNotSelected, newCPU)
	}
	periodUS := p.PeriodTicks // already in ticks == microseconds

	migrateCompletion, err := rs.AllocateEvent(newCPU, func(ev *Event) {
		rs.monitor.emit(noCtx, LifecycleEvent{Kind: PollerMigrated, LCore: newCPU, Poller: p})
		if completion != nil {
			_ = rs.Send(completion) //nolint:errcheck
		}
	}, nil, nil, nil)
	if err != nil {
		return err
	}

	registerEvent, err := rs.allocateRegisterEvent(p, newCPU, periodUS, migrateCompletion)
	if err != nil {
		return err
	}

	return rs.unregisterWithCompletion(p, registerEvent)
}

// allocateRegisterEvent builds the "register poller on newCPU" event.
// RegisterPoller sends it directly; MigratePoller uses it as the
// unregister's completion, passing the periodUS it captured before the
// unregister runs.
func (rs *ReactorSet) allocateRegisterEvent(p *Poller, newCPU uint32, periodUS uint64, completion *Event) (*Event, error) {
	return rs.AllocateEvent(newCPU, func(ev *Event) {
		r := rs.reactors[newCPU]
		if p.loc.kind != locUnregistered {
			rs.logger.Warn("register on already-scheduled poller", zap.Error(ErrPollerScheduled), zap.Uint32("cpu", newCPU))
			return
		}
		p.PeriodTicks = ticksForPeriod(periodUS)
		if p.isPeriodic() {
			p.loc = pollerLocation{kind: locTimer, cpu: newCPU, tick: r.now() + p.PeriodTicks}
			r.timer.insert(p)
		} else {
			p.loc = pollerLocation{kind: locActive, cpu: newCPU}
			r.active.pushBack(p)
		}
		rs.monitor.emit(noCtx, LifecycleEvent{Kind: PollerRegistered, LCore: newCPU, Poller: p})
		if completion != nil {
			_ = rs.Send(completion) //nolint:errcheck
		}
	}, nil, nil, nil)
}

// unregisterWithCompletion is UnregisterPoller/MigratePoller's shared
// "remove poller, then dispatch completion" body, factored out so
// MigratePoller can chain its own completion event rather than a
// caller-supplied one.
func (rs *ReactorSet) unregisterWithCompletion(p *Poller, completion *Event) error {
	cpu, ok := p.LCore()
	if !ok {
		return ErrPollerNotScheduled
	}
	ev, err := rs.AllocateEvent(cpu, func(ev *Event) {
		r := rs.reactors[cpu]
		switch p.loc.kind {
		case locActive:
			r.active.remove(p)
		case locTimer:
			r.timer.remove(p)
		}
		p.loc = pollerLocation{}
		rs.monitor.emit(noCtx, LifecycleEvent{Kind: PollerUnregistered, LCore: cpu, Poller: p})
		if completion != nil {
			_ = rs.Send(completion) //nolint:errcheck
		}
	}, nil, nil, nil)
	if err != nil {
		return err
	}
	return rs.Send(ev)
}
