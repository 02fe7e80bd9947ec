// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"context"

	"github.com/zoobzio/hookz"
)

// LifecycleEventKind identifies the kind of LifecycleEvent delivered by a
// ReactorSet's hooks, generalizing a socket-monitoring SocketEvent
// (connected/disconnected/accepted/...) to reactor-set lifecycle moments.
type LifecycleEventKind int

const (
	// ReactorStarted fires once a reactor's main loop begins running.
	ReactorStarted LifecycleEventKind = iota
	// ReactorStopped fires once a reactor's main loop returns.
	ReactorStopped
	// PollerRegistered fires after a poller is installed into a schedule.
	PollerRegistered
	// PollerUnregistered fires after a poller is removed from a schedule.
	PollerUnregistered
	// PollerMigrated fires after a poller's re-registration on its new
	// CPU completes, strictly after the migrate itself finishes.
	PollerMigrated
)

func (k LifecycleEventKind) String() string {
	switch k {
	case ReactorStarted:
		return "reactor_started"
	case ReactorStopped:
		return "reactor_stopped"
	case PollerRegistered:
		return "poller_registered"
	case PollerUnregistered:
		return "poller_unregistered"
	case PollerMigrated:
		return "poller_migrated"
	default:
		return "unknown"
	}
}

// hookz keys, one per LifecycleEventKind, registered up front.
var (
	hookReactorStarted     = hookz.Key("reactor.started")
	hookReactorStopped     = hookz.Key("reactor.stopped")
	hookPollerRegistered   = hookz.Key("poller.registered")
	hookPollerUnregistered = hookz.Key("poller.unregistered")
	hookPollerMigrated     = hookz.Key("poller.migrated")
)

func hookKeyFor(kind LifecycleEventKind) hookz.Key {
	switch kind {
	case ReactorStarted:
		return hookReactorStarted
	case ReactorStopped:
		return hookReactorStopped
	case PollerRegistered:
		return hookPollerRegistered
	case PollerUnregistered:
		return hookPollerUnregistered
	case PollerMigrated:
		return hookPollerMigrated
	default:
		return hookz.Key("unknown")
	}
}

// LifecycleEvent is delivered to handlers registered via
// (*ReactorSet).OnLifecycleEvent.
type LifecycleEvent struct {
	Kind   LifecycleEventKind
	LCore  uint32
	Poller *Poller // nil for ReactorStarted/ReactorStopped
}

// monitor wraps a typed hookz.Hooks registry: instead of one ad hoc
// channel per socket, every lifecycle moment in the reactor set is a
// typed event any number of handlers can subscribe to.
type monitor struct {
	hooks *hookz.Hooks[LifecycleEvent]
}

func newMonitor() *monitor {
	return &monitor{hooks: hookz.New[LifecycleEvent]()}
}

// on registers handler for kind. It mirrors a Monitor(endpoint, events)
// call, minus the endpoint (the reactor set has no network endpoints to
// monitor).
func (m *monitor) on(kind LifecycleEventKind, handler func(context.Context, LifecycleEvent) error) error {
	_, err := m.hooks.Hook(hookKeyFor(kind), handler)
	return err
}

// emit fires ev to every handler registered for ev.Kind. Handler errors
// are swallowed — lifecycle notification is best-effort observability,
// never a gate on the reactor's own progress.
func (m *monitor) emit(ctx context.Context, ev LifecycleEvent) {
	_ = m.hooks.Emit(ctx, hookKeyFor(ev.Kind), ev) //nolint:errcheck
}

func (m *monitor) close() {
	m.hooks.Close()
}

// OnLifecycleEvent registers handler to be called whenever kind occurs on
// this reactor set. Handlers run synchronously on the reactor that
// produced the event, so — like pollers and event callbacks — they must
// not block.
func (rs *ReactorSet) OnLifecycleEvent(kind LifecycleEventKind, handler func(context.Context, LifecycleEvent) error) error {
	return rs.monitor.on(kind, handler)
}
