// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package shard

import "sync"

// Map is one goroutine's pre-aggregation state: three sub-maps keyed by the
// hot-path local Key, matching SPEC_FULL.md §3's "Pre-Aggregation Map"
// exactly. Every method takes Map's own mutex, which in the steady state
// (no merge in flight) is only ever contended by the single goroutine that
// owns this Map at a time.
type Map struct {
	mu            sync.Mutex
	counters      map[Key]float64
	gauges        map[Key]Gauge
	distributions map[Key][]float64
}

// newMap allocates a Map with empty sub-maps.
func newMap() *Map {
	return &Map{
		counters:      make(map[Key]float64),
		gauges:        make(map[Key]Gauge),
		distributions: make(map[Key][]float64),
	}
}

// AddCounter folds value into the counter entry for key (SPEC_FULL.md §4.4).
func (m *Map) AddCounter(key Key, value float64) {
	m.mu.Lock()
	m.counters[key] += value
	m.mu.Unlock()
}

// AddGauge folds value into the gauge entry for key.
func (m *Map) AddGauge(key Key, value float64) {
	m.mu.Lock()
	g, ok := m.gauges[key]
	if !ok {
		g = NewGauge()
	}
	g.Observe(value)
	m.gauges[key] = g
	m.mu.Unlock()
}

// AddDistribution appends value to the distribution entry for key.
func (m *Map) AddDistribution(key Key, value float64) {
	m.mu.Lock()
	m.distributions[key] = append(m.distributions[key], value)
	m.mu.Unlock()
}

// Drain atomically swaps in fresh, empty sub-maps and returns the old ones.
// This is how the merger takes the per-shard lock "briefly" (SPEC_FULL.md
// §4.5): the lock is held only long enough to swap three pointers, and the
// (possibly large) merge work happens on the drained copies outside the
// lock, after it is released.
func (m *Map) Drain() (counters map[Key]float64, gauges map[Key]Gauge, distributions map[Key][]float64) {
	m.mu.Lock()
	counters, m.counters = m.counters, make(map[Key]float64)
	gauges, m.gauges = m.gauges, make(map[Key]Gauge)
	distributions, m.distributions = m.distributions, make(map[Key][]float64)
	m.mu.Unlock()
	return counters, gauges, distributions
}

// Registry holds every Map ever created, for the lifetime of the process
// (or, in tests, the lifetime of the Aggregator). A goroutine that exits
// before a merge runs does not lose its pre-aggregated data: the Map stays
// in the registry until the next merge drains it, matching the "no data
// lost to thread exit" lifecycle guarantee in SPEC_FULL.md §5.
type Registry struct {
	mu   sync.RWMutex
	maps []*Map

	pool sync.Pool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.pool.New = func() any { return r.newTrackedMap() }
	return r
}

// newTrackedMap allocates a Map, registers it, and returns it. Called only
// from the pool's New, i.e. at most once per Map for the registry's whole
// lifetime — repeated Acquire/Release cycles reuse the same Maps via the
// pool instead of allocating new ones.
func (r *Registry) newTrackedMap() *Map {
	m := newMap()
	r.mu.Lock()
	r.maps = append(r.maps, m)
	r.mu.Unlock()
	return m
}

// Acquire returns a Map for the calling goroutine to use, preferring one it
// (or, failing that, some other goroutine on the same P) last released —
// the sync.Pool affinity this package's doc comment describes. The returned
// Map must be passed back to Release once the caller is done with it for
// this emission; Maps are never removed from the Registry, only recycled
// through the pool.
func (r *Registry) Acquire() *Map {
	return r.pool.Get().(*Map)
}

// Release returns a Map to the pool for the next Acquire to reuse.
func (r *Registry) Release(m *Map) {
	r.pool.Put(m)
}

// All returns a snapshot of every Map the registry has ever handed out. It
// is used only by the merger; the returned slice must not be mutated.
func (r *Registry) All() []*Map {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Map, len(r.maps))
	copy(out, r.maps)
	return out
}
