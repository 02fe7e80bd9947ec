// Copyright 2025 The luxfi/reactor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactor

import "github.com/zoobzio/metricz"

// Metric keys exported by a ReactorSet's in-process registry. These are
// process-local counters/gauges (metricz), distinct from the nvmf
// package's Prometheus-exported request metrics — the core has no
// process-wide metrics endpoint of its own; exporting is left to the
// storage/protocol layer built on top of it.
const (
	MetricEventsDispatched = metricz.Key("reactor.events.dispatched.total")
	MetricPollersFired     = metricz.Key("reactor.pollers.fired.total")
	MetricQueueDepth       = metricz.Key("reactor.queue.depth")
)

// newMetrics builds a registry with every counter/gauge pre-declared, the
// same way the wider corpus's observability connectors register their
// metrics up front at construction time.
func newMetrics() *metricz.Registry {
	m := metricz.New()
	m.Counter(MetricEventsDispatched)
	m.Counter(MetricPollersFired)
	m.Gauge(MetricQueueDepth)
	return m
}
