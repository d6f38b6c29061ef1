// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jan-auer/merni/internal/aggregate"
	"github.com/jan-auer/merni/internal/shard"
)

// merge is the Aggregation Merger component from SPEC_FULL.md §4.5: it
// creates a fresh canonical Aggregations, walks every shard the
// ShardedAggregator has ever handed out, briefly takes each one's lock to
// drain it (internal/shard.Map.Drain), and folds the drained partials in by
// descriptor *value* rather than by the pointer identity the shards used.
//
// Draining runs one goroutine per shard via errgroup, since a busy process
// can accumulate one shard per goroutine it has ever emitted from and the
// drains are independent; only the fold into the shared canonical agg needs
// serializing, via foldMu.
//
// After merge returns, every shard's sub-maps are empty — Drain already
// swapped in fresh ones — matching "after a pass, all per-thread maps are
// empty" in SPEC_FULL.md §4.5.
func (a *ShardedAggregator) merge() *Aggregations {
	agg := aggregate.New()
	var foldMu sync.Mutex

	var g errgroup.Group
	for _, sm := range a.registry.All() {
		sm := sm
		g.Go(func() error {
			counters, gauges, distributions := sm.Drain()

			foldMu.Lock()
			defer foldMu.Unlock()
			for key, value := range counters {
				agg.MergeCounter(infoFor(key), value)
			}
			for key, value := range gauges {
				agg.MergeGauge(infoFor(key), value)
			}
			for key, values := range distributions {
				agg.MergeDistribution(infoFor(key), values)
			}
			return nil
		})
	}
	_ = g.Wait() // no Go above ever returns a non-nil error

	return &Aggregations{inner: agg}
}

// infoFor resolves a shard's pointer-identity local key back into the
// canonical field-value form the aggregate package keys on. This is the
// only place the opaque shard.Key.Descriptor is asserted back to
// *Descriptor, which is why internal/shard and internal/aggregate can stay
// free of any dependency on this package.
func infoFor(key shard.Key) aggregate.MetricInfo {
	desc := key.Descriptor.(*Descriptor)
	return aggregate.MetricInfo{
		Ty:        uint8(desc.ty),
		Unit:      uint8(desc.unit),
		Name:      desc.name,
		TagKeys:   desc.tagKeys,
		TagValues: shard.SplitTags(key.Tags, len(desc.tagKeys)),
	}
}
