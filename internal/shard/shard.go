// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

// Package shard implements the per-goroutine pre-aggregation map described
// in SPEC_FULL.md §4.4: a lock-protected accumulator keyed by
// pointer-identity of a metric descriptor plus its captured tag values.
//
// Go gives ordinary goroutines no thread-local storage, so "per-thread" is
// approximated with goroutine affinity: a Shard is drawn from a sync.Pool,
// which already implements (via the Go runtime's per-P local caches) the
// same "you usually get back the one you last used" property real
// thread-locals provide — without a stack walk per emission. Every Shard
// ever created is additionally kept in a Registry so the periodic merger
// can walk all of them, including ones a goroutine is not currently holding.
package shard

import (
	"math"
	"strings"
)

// Key is the hot-path local key from SPEC_FULL.md §3: a descriptor's
// pointer-identity paired with its captured tag values. Descriptor is an
// opaque comparable handle (callers pass *merni.Descriptor, but this
// package stays generic over "any comparable pointer-like value" so it
// doesn't import the root package and create a cycle).
type Key struct {
	Descriptor any
	Tags       string // tag values joined with a unit separator
}

const tagSep = "\x1f"

// JoinTags builds the Tags component of a Key from an ordered tag value
// sequence. A unit-separator join is cheaper than a slice-keyed map (Go map
// keys must be comparable; string concatenation is) and matches how the
// pack's own aggregation code (e.g. Prometheus's label hashing) collapses
// an ordered label list into one hashable scalar.
func JoinTags(tagValues []string) string {
	if len(tagValues) == 0 {
		return ""
	}
	if len(tagValues) == 1 {
		return tagValues[0]
	}
	n := len(tagSep) * (len(tagValues) - 1)
	for _, v := range tagValues {
		n += len(v)
	}
	buf := make([]byte, 0, n)
	for i, v := range tagValues {
		if i > 0 {
			buf = append(buf, tagSep...)
		}
		buf = append(buf, v...)
	}
	return string(buf)
}

// SplitTags is JoinTags's inverse, used by the merger to recover the
// original tag value sequence from a Key's joined Tags field when it needs
// to expose them again (e.g. through AggregatedMetric's tag iterator). count
// must be the descriptor's declared tag key count: a bare separator-split
// can't tell "zero tags" apart from "one tag whose captured value happens
// to be empty", so the caller (which already knows the descriptor) settles
// the ambiguity.
func SplitTags(joined string, count int) []string {
	if count == 0 {
		return nil
	}
	if count == 1 {
		return []string{joined}
	}
	return strings.SplitN(joined, tagSep, count)
}

// Gauge is the partial gauge aggregate described in SPEC_FULL.md §3.
type Gauge struct {
	Min   float64
	Max   float64
	Sum   float64
	Count uint64
	Last  float64
}

// NewGauge returns a zero-value gauge with the min/max seeded to +/-Inf per
// SPEC_FULL.md §3.
func NewGauge() Gauge {
	return Gauge{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Observe folds one sample into the gauge, in place.
func (g *Gauge) Observe(v float64) {
	if v < g.Min {
		g.Min = v
	}
	if v > g.Max {
		g.Max = v
	}
	g.Sum += v
	g.Count++
	g.Last = v
}

// Merge folds a partial gauge observed on another shard into g, in place,
// per the draining rules in SPEC_FULL.md §4.5. Last is overwritten
// unconditionally from other, which is the documented, merge-order-dependent
// imprecision in SPEC_FULL.md §9 ("Gauge last semantics").
func (g *Gauge) Merge(other Gauge) {
	if other.Min < g.Min {
		g.Min = other.Min
	}
	if other.Max > g.Max {
		g.Max = other.Max
	}
	g.Sum += other.Sum
	g.Count += other.Count
	g.Last = other.Last
}
