// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hal describes the logical-core / socket topology the reactor
// core assumes is provided by a lower hardware-abstraction layer (spec
// §1 non-goals: "CPU enumeration and isolation ... assumed provided by a
// lower HAL layer exposing logical cores with fixed socket affinity").
//
// It does not perform isolation or scheduling itself — it is a thin,
// overridable description of which logical cores exist, which are
// enabled, and which NUMA socket each belongs to, plus (where the host OS
// supports it) pinning the calling OS thread to one of them.
package hal

import (
	"fmt"
	"runtime"
	"sync"
)

// Socket identifies a NUMA node.
type Socket uint32

// CoreInfo describes one logical core as reported by the HAL.
type CoreInfo struct {
	Core    uint32
	Socket  Socket
	Enabled bool
}

// Topology is a process-wide description of available logical cores. The
// zero value is not usable; construct with NewTopology or use Default.
type Topology struct {
	cores map[uint32]CoreInfo
}

// NewTopology builds a Topology from an explicit core list. Tests use
// this to simulate multi-socket layouts without real hardware.
func NewTopology(cores []CoreInfo) *Topology {
	t := &Topology{cores: make(map[uint32]CoreInfo, len(cores))}
	for _, c := range cores {
		t.cores[c.Core] = c
	}
	return t
}

// singleSocketTopology reports runtime.NumCPU() cores, all enabled, all on
// socket 0 — a reasonable default for development hosts and for the
// common single-socket case.
func singleSocketTopology() *Topology {
	n := runtime.NumCPU()
	cores := make([]CoreInfo, n)
	for i := 0; i < n; i++ {
		cores[i] = CoreInfo{Core: uint32(i), Socket: 0, Enabled: true}
	}
	return NewTopology(cores)
}

var (
	topoMu   sync.RWMutex
	topoInst *Topology
	topoOnce sync.Once
)

// Default returns the process-wide Topology singleton, lazily
// initialized to a single-socket view of runtime.NumCPU() cores on first
// use. This mirrors the lazily-initialized, sync.Once-guarded singleton
// pattern used elsewhere in this codebase's ancestry for process-wide
// shared state.
func Default() *Topology {
	topoOnce.Do(func() {
		topoMu.Lock()
		if topoInst == nil {
			topoInst = singleSocketTopology()
		}
		topoMu.Unlock()
	})
	topoMu.RLock()
	defer topoMu.RUnlock()
	return topoInst
}

// SetDefault overrides the process-wide Topology singleton. It must be
// called before reactor.Init; it exists primarily so tests can simulate
// CPU layouts the test host doesn't have.
func SetDefault(t *Topology) {
	topoOnce.Do(func() {})
	topoMu.Lock()
	topoInst = t
	topoMu.Unlock()
}

// IsEnabled reports whether core is known to the HAL and enabled.
func (t *Topology) IsEnabled(core uint32) bool {
	c, ok := t.cores[core]
	return ok && c.Enabled
}

// SocketOf returns the socket core belongs to.
func (t *Topology) SocketOf(core uint32) (Socket, bool) {
	c, ok := t.cores[core]
	if !ok {
		return 0, false
	}
	return c.Socket, true
}

// EnabledCores returns every enabled core, ascending.
func (t *Topology) EnabledCores() []uint32 {
	out := make([]uint32, 0, len(t.cores))
	for core, c := range t.cores {
		if c.Enabled {
			out = append(out, core)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Sockets returns the distinct sockets populated by enabled cores.
func (t *Topology) Sockets() []Socket {
	seen := map[Socket]bool{}
	var out []Socket
	for _, core := range t.EnabledCores() {
		s, _ := t.SocketOf(core)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// MaxCore returns the highest core number known to the topology, or -1 if
// empty.
func (t *Topology) MaxCore() int {
	max := -1
	for core := range t.cores {
		if int(core) > max {
			max = int(core)
		}
	}
	return max
}

// String renders the topology for diagnostics.
func (t *Topology) String() string {
	return fmt.Sprintf("hal.Topology{cores=%d, sockets=%d}", len(t.cores), len(t.Sockets()))
}
