// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

// Package merni is a low-overhead, process-local metrics emission and
// aggregation core. Call sites declare a static Descriptor once and emit
// counters, gauges, and distributions/timers against it; the dispatcher
// pre-aggregates on goroutine-affine shards to keep the hot path free of
// cross-goroutine lock contention, and a background scheduler periodically
// merges every shard into one canonical Aggregations snapshot that is handed
// to a pluggable Sink (StatsD, Datadog HTTP, Prometheus exposition, or an
// in-memory test collector).
//
// Metrics are best-effort: an emission before any dispatcher is installed,
// or once no dispatcher is reachable, is dropped silently. The package never
// panics on caller input; the one exception is a tag-value count mismatch
// against a Descriptor's declared tag keys, which is a programming error the
// Rust original would have caught at compile time via const-generic arity.
package merni
