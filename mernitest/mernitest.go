// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

// Package mernitest is the Test Harness component from spec.md's component
// table (#8): an in-memory sink that records every emitted Metric plus
// every flushed Aggregations snapshot, and a deterministic scope helper
// that installs it as a goroutine-local override for the lifetime of a
// single test.
package mernitest

import (
	"sync"
	"testing"

	"github.com/jan-auer/merni"
)

// Collector is a PerMetricSink and AggregationSink that records everything
// it receives, for use in assertions. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	metrics []merni.Metric
	flushes []*merni.Aggregations
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Emit implements merni.PerMetricSink.
func (c *Collector) Emit(m merni.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = append(c.metrics, m)
}

// record stores a flushed snapshot; exported via the AggregationSink
// wrapper below since Collector's own Emit method is already claimed by
// PerMetricSink's signature.
func (c *Collector) record(agg *merni.Aggregations) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes = append(c.flushes, agg)
}

// Metrics returns a snapshot of every Metric recorded so far, in emission
// order.
func (c *Collector) Metrics() []merni.Metric {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]merni.Metric, len(c.metrics))
	copy(out, c.metrics)
	return out
}

// Flushes returns every Aggregations snapshot recorded so far, in flush
// order.
func (c *Collector) Flushes() []*merni.Aggregations {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*merni.Aggregations, len(c.flushes))
	copy(out, c.flushes)
	return out
}

// Reset clears all recorded state.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = nil
	c.flushes = nil
}

// AggregationSink adapts a Collector to merni.AggregationSink. A Collector
// doubles as a PerMetricSink directly; use AggregationSink{Collector: c} wherever an
// merni.AggregationSink is expected (e.g. merni.NewAggregator).
type AggregationSink struct {
	*Collector
}

// Emit implements merni.AggregationSink.
func (a AggregationSink) Emit(agg *merni.Aggregations) any {
	a.record(agg)
	return nil
}

// Scope installs sink as the calling goroutine's dispatcher override for
// the duration of t, releasing it automatically via t.Cleanup — the Go
// idiom standing in for the Rust original's guaranteed-on-scope-exit
// destructor (SPEC_FULL.md §9, "Scoped acquisition").
func Scope(t *testing.T, sink merni.PerMetricSink) {
	t.Helper()
	ov := merni.AcquireLocal(sink)
	t.Cleanup(func() {
		_ = ov.Close()
	})
}

// ScopeCollector is a convenience wrapper combining NewCollector and Scope:
// it returns a fresh Collector already installed as the calling goroutine's
// override for the duration of t.
func ScopeCollector(t *testing.T) *Collector {
	t.Helper()
	c := NewCollector()
	Scope(t, c)
	return c
}
