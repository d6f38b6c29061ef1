// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

// Metric is the per-metric event a PerMetricSink receives synchronously on
// the emitting goroutine, exactly once per Emit/EmitTagged call
// (SPEC_FULL.md §6's per-metric sink contract).
type Metric struct {
	// Descriptor is the stable pointer the call site emitted against.
	Descriptor *Descriptor
	// Value is the already-converted f64 value.
	Value MetricValue
	// TagValues is positionally paired with Descriptor.TagKeys(); it is the
	// empty sentinel for a zero-tag descriptor.
	TagValues []string
}

// Ty returns the metric's type, delegating to its Descriptor.
func (m Metric) Ty() Type { return m.Descriptor.Ty() }

// Unit returns the metric's unit, delegating to its Descriptor.
func (m Metric) Unit() Unit { return m.Descriptor.Unit() }

// Name returns the metric's name, delegating to its Descriptor.
func (m Metric) Name() string { return m.Descriptor.Name() }

// TagKeys returns the metric's declared tag keys, delegating to its
// Descriptor.
func (m Metric) TagKeys() []string { return m.Descriptor.TagKeys() }
