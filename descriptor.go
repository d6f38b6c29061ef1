// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

// Descriptor is immutable, process-lifetime metadata identifying one named
// metric: its Type, Unit, name, and the ordered tag keys it declares.
//
// Descriptors are meant to be constructed once, at package-var or init time,
// and referenced by every call site through the same *Descriptor value for
// the life of the program — that stable address is what the pre-aggregation
// shard (internal/shard) hashes on for its hot-path local key. Two
// Descriptors with identical field values but different addresses (as
// happens when the same metric is declared at two call sites, or loaded from
// two plugins) are expected and are collapsed onto one canonical entry by
// the aggregation merger, which compares Descriptors by value instead of by
// address.
type Descriptor struct {
	ty      Type
	unit    Unit
	name    string
	tagKeys []string
}

// Ty returns the metric's type.
func (d *Descriptor) Ty() Type { return d.ty }

// Unit returns the metric's unit annotation.
func (d *Descriptor) Unit() Unit { return d.unit }

// Name returns the metric's dotted name, e.g. "http.requests".
func (d *Descriptor) Name() string { return d.name }

// TagKeys returns the ordered, immutable sequence of tag keys this
// descriptor declares. The returned slice must not be mutated by callers.
func (d *Descriptor) TagKeys() []string { return d.tagKeys }

// Equal reports whether two descriptors are structurally identical —
// the comparison the aggregation merger's canonical key uses, as opposed to
// the pointer-identity comparison the hot-path local key uses.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == other {
		return true
	}
	if d.ty != other.ty || d.unit != other.unit || d.name != other.name {
		return false
	}
	if len(d.tagKeys) != len(other.tagKeys) {
		return false
	}
	for i, k := range d.tagKeys {
		if other.tagKeys[i] != k {
			return false
		}
	}
	return true
}

// DescriptorOption configures a Descriptor at construction time.
type DescriptorOption func(*Descriptor)

// WithUnit annotates the descriptor with a Unit. Defaults to UnknownUnit.
func WithUnit(u Unit) DescriptorOption {
	return func(d *Descriptor) { d.unit = u }
}

// WithTagKeys fixes the descriptor's declared, ordered tag keys. This stands
// in for the Rust original's compile-time tag arity N: every EmitTagged call
// against this descriptor must supply exactly len(keys) values, in this
// order. Omitting WithTagKeys (or passing none) declares a zero-tag
// descriptor usable only with Emit/EmitTagged called with no tag values.
func WithTagKeys(keys ...string) DescriptorOption {
	copied := append([]string(nil), keys...)
	return func(d *Descriptor) { d.tagKeys = copied }
}

func newDescriptor(ty Type, name string, opts []DescriptorOption) *Descriptor {
	d := &Descriptor{ty: ty, name: name}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewCounter declares a counter-typed descriptor. Counters sum every value
// emitted against them.
func NewCounter(name string, opts ...DescriptorOption) *Descriptor {
	return newDescriptor(CounterType, name, opts)
}

// NewGauge declares a gauge-typed descriptor. Gauges track min/max/sum/count
// and the last observed value.
func NewGauge(name string, opts ...DescriptorOption) *Descriptor {
	return newDescriptor(GaugeType, name, opts)
}

// NewDistribution declares a distribution-typed descriptor. Distributions
// retain every emitted value, unbinned.
func NewDistribution(name string, opts ...DescriptorOption) *Descriptor {
	return newDescriptor(DistributionType, name, opts)
}

// NewTimer declares a timer-typed descriptor: a distribution whose values
// represent durations. See Valuer for the unit-dependent conversion of
// time.Duration values.
func NewTimer(name string, opts ...DescriptorOption) *Descriptor {
	return newDescriptor(TimerType, name, opts)
}

// NewHistogram declares a histogram-typed descriptor: aggregated identically
// to a distribution, rendered with StatsD's `h` type code instead of `d`.
func NewHistogram(name string, opts ...DescriptorOption) *Descriptor {
	return newDescriptor(HistogramType, name, opts)
}
