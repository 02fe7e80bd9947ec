//go:build !linux
// +build !linux

// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hal

import "runtime"

// BackendName reports the affinity backend compiled into this binary.
func BackendName() string { return "generic-no-pin" }

// SupportsAffinity reports whether PinCurrentThread can actually pin.
func SupportsAffinity() bool { return false }

// PinCurrentThread locks the calling goroutine to its OS thread but
// cannot pin that thread to a specific core on this platform. Reactors
// still get exclusive, non-reentrant use of the thread; they simply lose
// the CPU-affinity guarantee the HAL otherwise provides.
func PinCurrentThread(core uint32) error {
	runtime.LockOSThread()
	return nil
}

// CurrentThreadID reports that this platform cannot identify the calling
// OS thread — current-core introspection degrades to "unknown" rather
// than guessing.
func CurrentThreadID() (int, bool) {
	return 0, false
}
