// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

// PerMetricSink receives one Metric synchronously on the emitting
// goroutine, for every Emit/EmitTagged call resolved to it by the
// dispatcher lookup (SPEC_FULL.md §4.7). The shard-backed aggregator
// returned by NewAggregator implements this.
//
// Implementations must be safe for concurrent use: Emit may be called by
// many goroutines at once.
type PerMetricSink interface {
	Emit(Metric)
}

// AggregationSink receives one canonical Aggregations snapshot per flush
// pass, called exclusively from the flush scheduler's goroutine
// (SPEC_FULL.md §4.7). It returns an Output value whose shape is entirely
// sink-defined (a StatsD sink returns its transport errors, if any; a Datadog HTTP
// sink returns in-flight push handles to await; a test collector returns
// nothing) — the core never interprets it, only relays it back to an
// explicit Flush caller.
//
// Implementations need not be safe for concurrent use: the flush scheduler
// guarantees Emit is never called twice concurrently.
type AggregationSink interface {
	Emit(*Aggregations) any
}
