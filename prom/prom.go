// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

// Package prom implements the Prometheus Exposition Sink from
// SPEC_FULL.md §4.11: each flush pass replaces a prometheus.Registry's
// current snapshot, grounded on the teacher's pkg/telemetry package, which
// wraps github.com/prometheus/client_golang behind a small builder API.
package prom

import (
	"regexp"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/jan-auer/merni"
)

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_:]`)

// sanitize rewrites name into a legal Prometheus metric identifier.
func sanitize(name string) string {
	return invalidNameChars.ReplaceAllString(name, "_")
}

// Config configures a Sink.
type Config struct {
	// Namespace, if set, is prepended to every metric name as
	// "namespace_name", the convention client_golang's prometheus.BuildFQName
	// follows.
	Namespace string
	Logger    *zap.Logger
}

// Sink is an AggregationSink that exposes a flush pass's canonical
// Aggregations as a Prometheus registry. Gather (and therefore Gatherer)
// always reflects the most recently completed flush pass.
type Sink struct {
	cfg Config

	mu      sync.RWMutex
	current *prometheus.Registry

	flushes atomic.Int64
	logger  *zap.Logger
}

// New returns an empty Sink.
func New(cfg Config) *Sink {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{cfg: cfg, current: prometheus.NewRegistry(), logger: logger}
}

// Gatherer returns a prometheus.Gatherer that always delegates to the most
// recently installed registry, suitable for promhttp.HandlerFor. Sink
// itself satisfies prometheus.Gatherer, so this is mostly a readability
// alias for callers that want to be explicit about the interface.
func (s *Sink) Gatherer() prometheus.Gatherer {
	return s
}

// Gather implements prometheus.Gatherer.
func (s *Sink) Gather() ([]*dto.MetricFamily, error) {
	s.mu.RLock()
	reg := s.current
	s.mu.RUnlock()
	return reg.Gather()
}

// Emit implements merni.AggregationSink. It builds a fresh registry from
// agg and atomically swaps it in, so concurrent Gather calls never observe
// a half-built snapshot. It never returns a usable Output value; Prometheus
// is pull-based.
func (s *Sink) Emit(agg *merni.Aggregations) any {
	reg := prometheus.NewRegistry()

	for _, c := range agg.Counters() {
		s.registerCounter(reg, c)
	}
	for _, g := range agg.Gauges() {
		s.registerGauge(reg, g)
	}
	for _, d := range agg.Distributions() {
		s.registerSummary(reg, d)
	}

	s.mu.Lock()
	s.current = reg
	s.mu.Unlock()
	s.flushes.Inc()

	return nil
}

func (s *Sink) fqName(name string) string {
	return prometheus.BuildFQName(s.cfg.Namespace, "", sanitize(name))
}

func (s *Sink) registerCounter(reg *prometheus.Registry, c merni.CounterEntry) {
	keys, values := labelPairs(c.Metric.Tags())
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: s.fqName(c.Metric.Name()),
		Help: "counter: " + c.Metric.Name(),
	}, keys)
	if err := reg.Register(g); err != nil {
		s.logRegisterConflict(c.Metric.Name(), err)
		return
	}
	g.WithLabelValues(values...).Set(c.Value)
}

func (s *Sink) registerGauge(reg *prometheus.Registry, entry merni.GaugeEntry) {
	keys, values := labelPairs(entry.Metric.Tags())
	keys = append(append([]string{}, keys...), "stat")

	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: s.fqName(entry.Metric.Name()),
		Help: "gauge: " + entry.Metric.Name(),
	}, keys)
	if err := reg.Register(g); err != nil {
		s.logRegisterConflict(entry.Metric.Name(), err)
		return
	}

	fields := map[string]float64{
		"min":   entry.Value.Min,
		"max":   entry.Value.Max,
		"sum":   entry.Value.Sum,
		"count": float64(entry.Value.Count),
		"last":  entry.Value.Last,
	}
	for stat, v := range fields {
		g.WithLabelValues(append(append([]string{}, values...), stat)...).Set(v)
	}
}

func (s *Sink) registerSummary(reg *prometheus.Registry, d merni.DistributionEntry) {
	keys, values := labelPairs(d.Metric.Tags())
	sv := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       s.fqName(d.Metric.Name()),
		Help:       d.Metric.Ty().String() + ": " + d.Metric.Name(),
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, keys)
	if err := reg.Register(sv); err != nil {
		s.logRegisterConflict(d.Metric.Name(), err)
		return
	}

	obs := sv.WithLabelValues(values...)
	for _, v := range d.Values {
		obs.Observe(v)
	}
}

func (s *Sink) logRegisterConflict(name string, err error) {
	s.logger.Warn("prom: skipping metric after registration conflict",
		zap.String("metric", name), zap.Error(err))
}

// labelPairs returns sorted label names and their positionally matching
// values, since prometheus.*Vec requires a stable label-name ordering.
func labelPairs(tags []merni.TagPair) ([]string, []string) {
	sorted := append([]merni.TagPair{}, tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	keys := make([]string, len(sorted))
	values := make([]string, len(sorted))
	for i, p := range sorted {
		keys[i] = p.Key
		values[i] = p.Value
	}
	return keys, values
}
