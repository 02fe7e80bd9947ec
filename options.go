// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import (
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Config holds ReactorSet construction parameters. There is no
// file/environment configuration parsing: Config is built
// programmatically and tuned with Option values, the same Config/Option
// split networking.Transport and its sibling Option type use.
type Config struct {
	// QueueCapacity is the per-reactor event queue capacity. Must be a
	// power of two. Default 65536.
	QueueCapacity int
	// TotalEvents is the process-wide event budget divided evenly across
	// populated sockets. Default 262144.
	TotalEvents int
	// Logger receives structured diagnostics, including fatal invariant
	// breaches that abort the process. Default is a no-op logger.
	Logger *zap.Logger
	// Clock is the tick/time source behind the timer schedule. Default
	// clockz.RealClock.
	Clock clockz.Clock
	// MasterCore is the distinguished CPU that runs lifecycle and
	// serializes higher-layer operations such as NVMe-oF Admin/Fabric
	// commands. Default 0.
	MasterCore uint32
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 65536,
		TotalEvents:   defaultTotalEvents,
		Logger:        zap.NewNop(),
		Clock:         clockz.RealClock,
	}
}

// Option tunes a Config passed to NewReactorSet.
type Option func(*Config)

// WithQueueCapacity overrides the per-reactor event queue capacity.
func WithQueueCapacity(n int) Option {
	return func(c *Config) { c.QueueCapacity = n }
}

// WithTotalEvents overrides the process-wide event pool budget.
func WithTotalEvents(n int) Option {
	return func(c *Config) { c.TotalEvents = n }
}

// WithLogger sets the structured logger used for diagnostics and fatal
// invariant breaches.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithClock overrides the tick/time source — tests use this to inject a
// fake clockz.Clock and drive the timer schedule deterministically.
func WithClock(clock clockz.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithMasterCore overrides which CPU is the distinguished master.
func WithMasterCore(core uint32) Option {
	return func(c *Config) { c.MasterCore = core }
}
