// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import "errors"

// Sentinel errors returned by validation-class failures. Fatal invariant
// breaches never return through these paths — they abort the process via
// the configured logger's Fatal level instead.
var (
	// ErrMaskInvalid is returned when a mask string fails to parse.
	ErrMaskInvalid = errors.New("reactor: invalid cpu mask")
	// ErrMasterNotSelected is returned when a mask does not select the
	// master core.
	ErrMasterNotSelected = errors.New("reactor: master core not selected by mask")
	// ErrWrongState is returned when a lifecycle call is made while the
	// reactor set is in a state that does not permit it.
	ErrWrongState = errors.New("reactor: wrong lifecycle state for operation")
	// ErrCoreNotSelected is returned when an operation names a CPU that
	// was not part of the mask passed to Init.
	ErrCoreNotSelected = errors.New("reactor: cpu not selected")
	// ErrNilPoller is returned by poller operations given a nil poller.
	ErrNilPoller = errors.New("reactor: nil poller")
	// ErrPollerScheduled is returned when registering a poller that is
	// already a member of a schedule.
	ErrPollerScheduled = errors.New("reactor: poller already registered")
	// ErrPollerNotScheduled is returned when unregistering or migrating a
	// poller that is not currently scheduled.
	ErrPollerNotScheduled = errors.New("reactor: poller not registered")
)
