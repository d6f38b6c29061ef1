// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

// Package aggregate holds the canonical, merged aggregation described in
// SPEC_FULL.md §4.5: a structure keyed by a metric descriptor's field
// values (not its address), built fresh on every flush pass by draining
// every goroutine shard's pre-aggregation and folding it in.
//
// This package knows nothing about *merni.Descriptor — it is handed plain
// field values through MetricInfo so that merni (the root package, which
// does know the concrete Descriptor type) stays the only place resolving
// the shard package's opaque pointer-identity keys back into canonical
// ones, keeping this package import-cycle-free and independently testable.
package aggregate

import "github.com/jan-auer/merni/internal/shard"

// Key is the canonical metric key from SPEC_FULL.md §3: a descriptor's
// field values plus its tag values, all folded into comparable scalars so
// the key can back a Go map directly.
type Key struct {
	Ty            uint8
	Unit          uint8
	Name          string
	TagKeysJoined string
	TagsJoined    string
}

// MetricInfo carries one metric's descriptor field values and captured tag
// values from the root package into this one.
type MetricInfo struct {
	Ty        uint8
	Unit      uint8
	Name      string
	TagKeys   []string
	TagValues []string
}

func (info MetricInfo) key() Key {
	return Key{
		Ty:            info.Ty,
		Unit:          info.Unit,
		Name:          info.Name,
		TagKeysJoined: shard.JoinTags(info.TagKeys),
		TagsJoined:    shard.JoinTags(info.TagValues),
	}
}

// Metric is the canonical, read-only view of one aggregated metric's
// identity — the Go counterpart of SPEC_FULL.md §6's AggregatedMetric.
type Metric struct {
	Ty        uint8
	Unit      uint8
	Name      string
	TagKeys   []string
	TagValues []string
}

// CounterEntry pairs a Metric with its summed value.
type CounterEntry struct {
	Metric Metric
	Value  float64
}

// GaugeEntry pairs a Metric with its merged gauge.
type GaugeEntry struct {
	Metric Metric
	Value  shard.Gauge
}

// DistributionEntry pairs a Metric with its concatenated value list.
type DistributionEntry struct {
	Metric Metric
	Values []float64
}

// Aggregations is one flush pass's canonical snapshot, fresh on every pass
// (SPEC_FULL.md §4.5: "creates a fresh global Aggregations structure").
type Aggregations struct {
	counters      map[Key]*CounterEntry
	gauges        map[Key]*GaugeEntry
	distributions map[Key]*DistributionEntry
}

// New returns an empty Aggregations ready to be folded into by MergeX calls.
func New() *Aggregations {
	return &Aggregations{
		counters:      make(map[Key]*CounterEntry),
		gauges:        make(map[Key]*GaugeEntry),
		distributions: make(map[Key]*DistributionEntry),
	}
}

// MergeCounter sums value into info's canonical counter entry.
func (a *Aggregations) MergeCounter(info MetricInfo, value float64) {
	k := info.key()
	e, ok := a.counters[k]
	if !ok {
		e = &CounterEntry{Metric: metricOf(info)}
		a.counters[k] = e
	}
	e.Value += value
}

// MergeGauge folds a partial gauge into info's canonical gauge entry.
func (a *Aggregations) MergeGauge(info MetricInfo, value shard.Gauge) {
	k := info.key()
	e, ok := a.gauges[k]
	if !ok {
		g := shard.NewGauge()
		e = &GaugeEntry{Metric: metricOf(info), Value: g}
		a.gauges[k] = e
	}
	e.Value.Merge(value)
}

// MergeDistribution extends info's canonical distribution entry with values.
func (a *Aggregations) MergeDistribution(info MetricInfo, values []float64) {
	if len(values) == 0 {
		return
	}
	k := info.key()
	e, ok := a.distributions[k]
	if !ok {
		e = &DistributionEntry{Metric: metricOf(info)}
		a.distributions[k] = e
	}
	e.Values = append(e.Values, values...)
}

func metricOf(info MetricInfo) Metric {
	return Metric{
		Ty:        info.Ty,
		Unit:      info.Unit,
		Name:      info.Name,
		TagKeys:   info.TagKeys,
		TagValues: info.TagValues,
	}
}

// Counters returns every canonical counter entry. Order is unspecified.
func (a *Aggregations) Counters() []CounterEntry {
	out := make([]CounterEntry, 0, len(a.counters))
	for _, e := range a.counters {
		out = append(out, *e)
	}
	return out
}

// Gauges returns every canonical gauge entry. Order is unspecified.
func (a *Aggregations) Gauges() []GaugeEntry {
	out := make([]GaugeEntry, 0, len(a.gauges))
	for _, e := range a.gauges {
		out = append(out, *e)
	}
	return out
}

// Distributions returns every canonical distribution entry. Order is
// unspecified, and so is the order of values within one entry
// (SPEC_FULL.md §3: "absolute ordering across threads is not guaranteed").
func (a *Aggregations) Distributions() []DistributionEntry {
	out := make([]DistributionEntry, 0, len(a.distributions))
	for _, e := range a.distributions {
		out = append(out, *e)
	}
	return out
}

// Empty reports whether the snapshot has no entries in any sub-map.
func (a *Aggregations) Empty() bool {
	return len(a.counters) == 0 && len(a.gauges) == 0 && len(a.distributions) == 0
}
