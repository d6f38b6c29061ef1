// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import "github.com/jan-auer/merni/internal/shard"

// ShardedAggregator is the Pre-Aggregation Map component from
// SPEC_FULL.md §4.4: a PerMetricSink that inserts every Metric it receives
// into a goroutine-affine shard instead of forwarding it anywhere, to be
// periodically drained by a merger. NewAggregator builds one of these
// internally; most callers never construct one directly.
type ShardedAggregator struct {
	registry *shard.Registry
}

// NewShardedAggregator returns an empty ShardedAggregator.
func NewShardedAggregator() *ShardedAggregator {
	return &ShardedAggregator{registry: shard.NewRegistry()}
}

// Emit implements PerMetricSink by inserting m into the calling goroutine's
// shard, per the insertion rules in SPEC_FULL.md §4.4: counters sum,
// gauges fold into min/max/sum/count/last, everything else (distributions,
// timers, histograms) appends to a value list.
func (a *ShardedAggregator) Emit(m Metric) {
	key := shard.Key{
		Descriptor: m.Descriptor,
		Tags:       shard.JoinTags(m.TagValues),
	}

	sm := a.registry.Acquire()
	defer a.registry.Release(sm)

	switch m.Ty() {
	case CounterType:
		sm.AddCounter(key, float64(m.Value))
	case GaugeType:
		sm.AddGauge(key, float64(m.Value))
	default: // DistributionType, TimerType, HistogramType
		sm.AddDistribution(key, float64(m.Value))
	}
}
