// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/metricz"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/reactor/hal"
)

// noCtx is used for hook emissions that have no natural request-scoped
// context of their own (reactor lifecycle transitions rather than
// in-flight work).
var noCtx = context.Background()

// State is the process-wide reactor-set lifecycle state. It only ever
// advances: Invalid -> Initialized -> Running -> (Exiting ->) Shutdown.
type State int32

const (
	Invalid State = iota
	Initialized
	Running
	Exiting
	Shutdown
)

func (s State) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case Initialized:
		return "Initialized"
	case Running:
		return "Running"
	case Exiting:
		return "Exiting"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// ReactorSet is the process-wide registry of reactors, the global
// lifecycle state machine, and the choreography for start/stop. It
// exclusively owns every Reactor for the process lifetime.
//
// The zero value is not usable; construct with NewReactorSet.
type ReactorSet struct {
	cfg     Config
	logger  *zap.Logger
	clock   clockz.Clock
	metrics *metricz.Registry

	state atomic.Int32

	mu       sync.Mutex // guards construction only; read-only once Running
	mask     uint64
	master   uint32
	reactors map[uint32]*Reactor
	sockets  map[uint32]hal.Socket
	pools    *poolSet

	monitor *monitor

	threadCore sync.Map // int (OS thread id) -> uint32 (lcore)
}

// NewReactorSet constructs an empty, Invalid reactor set. Call Init to
// populate it from a CPU mask.
func NewReactorSet(opts ...Option) *ReactorSet {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	rs := &ReactorSet{
		cfg:      cfg,
		logger:   cfg.Logger,
		clock:    cfg.Clock,
		metrics:  newMetrics(),
		reactors: make(map[uint32]*Reactor),
		sockets:  make(map[uint32]hal.Socket),
		monitor:  newMonitor(),
	}
	rs.state.Store(int32(Invalid))
	return rs
}

// State returns the current lifecycle state. Reads are relaxed and
// advisory outside of single-threaded lifecycle phases.
func (rs *ReactorSet) State() State {
	return State(rs.state.Load())
}

// CoreCount returns the number of reactors constructed by Init.
func (rs *ReactorSet) CoreCount() int {
	return len(rs.reactors)
}

// Mask returns the mask of selected CPUs established by Init.
func (rs *ReactorSet) Mask() uint64 {
	return rs.mask
}

// MasterCore returns the distinguished master CPU.
func (rs *ReactorSet) MasterCore() uint32 {
	return rs.master
}

// CurrentCore reports the logical core of the reactor currently executing
// on the calling OS thread, if the HAL can identify OS threads. It only
// returns true from inside a reactor's own loop goroutine (i.e. from
// within an event or poller callback).
func (rs *ReactorSet) CurrentCore() (uint32, bool) {
	tid, ok := hal.CurrentThreadID()
	if !ok {
		return 0, false
	}
	v, ok := rs.threadCore.Load(tid)
	if !ok {
		return 0, false
	}
	return v.(uint32), true
}

// Init parses mask, validates it, constructs one reactor per selected CPU
// and one event pool per populated socket, and advances the state to
// Initialized. It requires state == Invalid and that the master CPU's
// bit is set in the resulting mask.
func (rs *ReactorSet) Init(maskStr string, opts ...Option) error {
	if rs.State() != Invalid {
		return fmt.Errorf("%w: Init requires state Invalid, got %s", ErrWrongState, rs.State())
	}
	for _, opt := range opts {
		opt(&rs.cfg)
	}
	rs.logger = rs.cfg.Logger
	rs.clock = rs.cfg.Clock
	rs.master = rs.cfg.MasterCore

	top := hal.Default()
	mask, err := parseMask(maskStr, top)
	if err != nil {
		return err
	}
	if mask&(1<<uint(rs.master)) == 0 {
		return fmt.Errorf("%w: mask %#x", ErrMasterNotSelected, mask)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	cores := selectedCores(mask)
	socketSet := map[hal.Socket]bool{}
	for _, core := range cores {
		sock, ok := top.SocketOf(core)
		if !ok {
			sock = 0
		}
		rs.sockets[core] = sock
		socketSet[sock] = true
	}
	sockets := make([]hal.Socket, 0, len(socketSet))
	for s := range socketSet {
		sockets = append(sockets, s)
	}

	rs.pools = newPoolSet(sockets, rs.cfg.TotalEvents)

	for _, core := range cores {
		rs.reactors[core] = newReactor(rs, core, rs.sockets[core], rs.cfg.QueueCapacity)
	}

	rs.mask = mask
	rs.state.Store(int32(Initialized))
	rs.logger.Info("reactor set initialized",
		zap.String("mask", fmt.Sprintf("%#x", mask)),
		zap.Uint32("master", rs.master),
		zap.Int("sockets", len(sockets)))
	return nil
}

// Start must be called on the master CPU. It launches a goroutine per
// non-master selected CPU, then runs the master's own reactor loop
// inline. It returns once every reactor has exited and the state has
// advanced to Shutdown.
func (rs *ReactorSet) Start() error {
	if !rs.state.CompareAndSwap(int32(Initialized), int32(Running)) {
		return fmt.Errorf("%w: Start requires state Initialized, got %s", ErrWrongState, rs.State())
	}

	masterReactor, ok := rs.reactors[rs.master]
	if !ok {
		return fmt.Errorf("%w: master core %d has no reactor", ErrCoreNotSelected, rs.master)
	}

	var g errgroup.Group
	for core, r := range rs.reactors {
		if core == rs.master {
			continue
		}
		r := r
		g.Go(func() error {
			rs.runReactor(r)
			return nil
		})
	}

	rs.runReactor(masterReactor)

	_ = g.Wait() //nolint:errcheck // worker goroutines never return an error

	rs.state.Store(int32(Shutdown))
	rs.logger.Info("reactor set shutdown complete")
	return nil
}

// runReactor wraps Reactor.run with thread-id bookkeeping (for
// CurrentCore) and lifecycle hook emission.
func (rs *ReactorSet) runReactor(r *Reactor) {
	if tid, ok := hal.CurrentThreadID(); ok {
		rs.threadCore.Store(tid, r.lcore)
		defer rs.threadCore.Delete(tid)
	}
	rs.monitor.emit(noCtx, LifecycleEvent{Kind: ReactorStarted, LCore: r.lcore})
	r.run()
	rs.monitor.emit(noCtx, LifecycleEvent{Kind: ReactorStopped, LCore: r.lcore})
}

// Stop atomically advances the state to Exiting. Every reactor observes
// the non-Running state at its next loop-iteration boundary, after its
// current drain and poller step, and exits. Pending events on a
// reactor's queue at that point are dropped rather than drained.
func (rs *ReactorSet) Stop() {
	rs.state.CompareAndSwap(int32(Running), int32(Exiting))
}
