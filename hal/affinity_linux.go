//go:build linux
// +build linux

// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hal

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// BackendName reports the affinity backend compiled into this binary.
func BackendName() string { return "linux-sched_setaffinity" }

// SupportsAffinity reports whether PinCurrentThread can actually pin.
func SupportsAffinity() bool { return true }

// PinCurrentThread locks the calling goroutine to its current OS thread
// and pins that thread to core via sched_setaffinity(2). Callers run this
// once, at the top of a reactor's loop goroutine, before touching any
// per-CPU state — one OS thread per selected CPU.
func PinCurrentThread(core uint32) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(int(core))
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("hal: sched_setaffinity core %d: %w", core, err)
	}
	return nil
}

// CurrentThreadID returns the kernel thread id of the calling OS thread,
// usable as a key for mapping "which reactor goroutine am I" back to a
// logical core once PinCurrentThread has locked it in place.
func CurrentThreadID() (int, bool) {
	return unix.Gettid(), true
}
