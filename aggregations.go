// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import "github.com/jan-auer/merni/internal/aggregate"

// TagPair is one (tag key, tag value) pair exposed by AggregatedMetric's tag
// iterator (SPEC_FULL.md §6).
type TagPair struct {
	Key   string
	Value string
}

// AggregatedMetric is the canonical, read-only identity of one aggregated
// metric: its type, unit, name, and ordered tag pairs.
type AggregatedMetric struct {
	inner aggregate.Metric
}

// Ty returns the metric's type.
func (m AggregatedMetric) Ty() Type { return Type(m.inner.Ty) }

// Unit returns the metric's unit.
func (m AggregatedMetric) Unit() Unit { return Unit(m.inner.Unit) }

// Name returns the metric's name.
func (m AggregatedMetric) Name() string { return m.inner.Name }

// Tags returns the metric's tag keys paired positionally with its captured
// tag values.
func (m AggregatedMetric) Tags() []TagPair {
	pairs := make([]TagPair, len(m.inner.TagKeys))
	for i, k := range m.inner.TagKeys {
		pairs[i] = TagPair{Key: k, Value: m.inner.TagValues[i]}
	}
	return pairs
}

// AggregatedGauge is the merged gauge described in SPEC_FULL.md §3.
type AggregatedGauge struct {
	Min   float64
	Max   float64
	Sum   float64
	Count uint64
	Last  float64
}

// CounterEntry pairs an AggregatedMetric with its summed value.
type CounterEntry struct {
	Metric AggregatedMetric
	Value  float64
}

// GaugeEntry pairs an AggregatedMetric with its merged gauge.
type GaugeEntry struct {
	Metric AggregatedMetric
	Value  AggregatedGauge
}

// DistributionEntry pairs an AggregatedMetric with its concatenated value
// list. The order of Values across goroutines is unspecified.
type DistributionEntry struct {
	Metric AggregatedMetric
	Values []float64
}

// Aggregations is one flush pass's canonical snapshot, handed to an
// AggregationSink's Emit method (SPEC_FULL.md §6).
type Aggregations struct {
	inner *aggregate.Aggregations
}

// Counters returns every canonical counter entry.
func (a *Aggregations) Counters() []CounterEntry {
	entries := a.inner.Counters()
	out := make([]CounterEntry, len(entries))
	for i, e := range entries {
		out[i] = CounterEntry{Metric: AggregatedMetric{inner: e.Metric}, Value: e.Value}
	}
	return out
}

// Gauges returns every canonical gauge entry.
func (a *Aggregations) Gauges() []GaugeEntry {
	entries := a.inner.Gauges()
	out := make([]GaugeEntry, len(entries))
	for i, e := range entries {
		out[i] = GaugeEntry{
			Metric: AggregatedMetric{inner: e.Metric},
			Value: AggregatedGauge{
				Min: e.Value.Min, Max: e.Value.Max,
				Sum: e.Value.Sum, Count: e.Value.Count, Last: e.Value.Last,
			},
		}
	}
	return out
}

// Distributions returns every canonical distribution entry.
func (a *Aggregations) Distributions() []DistributionEntry {
	entries := a.inner.Distributions()
	out := make([]DistributionEntry, len(entries))
	for i, e := range entries {
		out[i] = DistributionEntry{Metric: AggregatedMetric{inner: e.Metric}, Values: e.Values}
	}
	return out
}

// Empty reports whether the snapshot has no entries in any sub-map.
func (a *Aggregations) Empty() bool { return a.inner.Empty() }
