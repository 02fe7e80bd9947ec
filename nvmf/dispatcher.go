// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nvmf is an illustrative higher-layer example: an
// NVMe-over-Fabrics request dispatcher that routes requests to their
// owning queue-pair's thread, or to a designated master thread for
// Admin/Fabric commands, by posting messages through the reactor core.
// The NVMe-oF command semantics, transports, controllers, and I/O
// channels themselves are out of scope — this package only implements
// the routing contract of "send this callback to run on thread T",
// instantiated twice: once fixed to the master thread, once resolved
// from a queue-pair binding table.
//
// Shaped after a Config/DefaultConfig, atomic-counters, Start/Stop
// transport and its bidirectional-forwarding proxy, reimagined over
// reactor.Send instead of channels and sockets.
package nvmf

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/reactor"
)

// Command is a unit of NVMe-oF work to route: either an Admin/Fabric
// command bound for the master CPU, or a completion bound for the
// queue-pair's owning CPU.
type Command struct {
	QueuePairID uint32
	Fn          func()
}

// Config configures a Dispatcher.
type Config struct {
	// MasterCore is the CPU Admin/Fabric commands are serialized on.
	MasterCore uint32
}

// DefaultConfig returns a Config targeting reactor core 0 as master,
// matching ReactorSet's own default master CPU.
func DefaultConfig() Config {
	return Config{MasterCore: 0}
}

// Dispatcher routes NVMe-oF requests onto the reactor core. It keeps no
// state of its own beyond the queue-pair -> owning-CPU table and a set of
// Prometheus counters; all actual scheduling is the reactor's.
type Dispatcher struct {
	set    *reactor.ReactorSet
	cfg    Config
	mu     sync.RWMutex
	owners map[uint32]uint32 // queue-pair id -> owning cpu

	routed  prometheus.Counter
	dropped prometheus.Counter

	closed atomic.Bool
}

// New creates a Dispatcher layered over set. Prometheus metrics are
// registered against reg (pass prometheus.DefaultRegisterer in
// production, a fresh prometheus.NewRegistry() in tests).
func New(set *reactor.ReactorSet, reg prometheus.Registerer, opts ...Option) (*Dispatcher, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Dispatcher{
		set:    set,
		cfg:    cfg,
		owners: make(map[uint32]uint32),
		routed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nvmf_requests_routed_total",
			Help: "NVMe-oF requests successfully routed to their owning thread.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nvmf_requests_dropped_total",
			Help: "NVMe-oF requests dropped because their queue pair has no owner or the send to the owner failed.",
		}),
	}
	if reg != nil {
		if err := reg.Register(d.routed); err != nil {
			return nil, fmt.Errorf("nvmf: register routed counter: %w", err)
		}
		if err := reg.Register(d.dropped); err != nil {
			return nil, fmt.Errorf("nvmf: register dropped counter: %w", err)
		}
	}
	return d, nil
}

// Option tunes a Dispatcher's Config.
type Option func(*Config)

// WithMasterCore overrides the Admin/Fabric serialization CPU.
func WithMasterCore(core uint32) Option {
	return func(c *Config) { c.MasterCore = core }
}

// BindQueuePair records which CPU owns qp. Admin/Fabric command handling
// elsewhere on the master CPU calls this once a queue pair is
// established.
func (d *Dispatcher) BindQueuePair(qp uint32, owner uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.owners[qp] = owner
}

// UnbindQueuePair forgets qp's owner, e.g. on queue-pair teardown.
func (d *Dispatcher) UnbindQueuePair(qp uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.owners, qp)
}

// ExecOnMaster routes an Admin/Fabric command to the designated master
// thread for serialization. It is "send this function to run on thread
// T" with T fixed to the master core.
func (d *Dispatcher) ExecOnMaster(fn func()) error {
	return d.set.SendTo(d.cfg.MasterCore, func(ev *reactor.Event) { fn() }, nil, nil)
}

// CompleteOnQPair routes a completion back to qp's owning thread — the
// second instance of "send this function to run on thread T", with T
// resolved from the queue-pair binding table.
func (d *Dispatcher) CompleteOnQPair(qp uint32, fn func()) error {
	d.mu.RLock()
	owner, ok := d.owners[qp]
	d.mu.RUnlock()
	if !ok {
		d.dropped.Inc()
		return fmt.Errorf("nvmf: queue pair %d has no owning thread", qp)
	}
	if err := d.set.SendTo(owner, func(ev *reactor.Event) { fn() }, nil, nil); err != nil {
		d.dropped.Inc()
		return err
	}
	d.routed.Inc()
	return nil
}

// Dispatch routes cmd to its queue pair's owner, or to the master core if
// QueuePairID is unset (QueuePairID == 0 is reserved for Admin/Fabric
// commands that have no queue pair yet).
func (d *Dispatcher) Dispatch(cmd Command) error {
	if cmd.QueuePairID == 0 {
		return d.ExecOnMaster(cmd.Fn)
	}
	return d.CompleteOnQPair(cmd.QueuePairID, cmd.Fn)
}
