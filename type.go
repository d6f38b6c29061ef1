// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

// Type identifies the shape of a metric: how its values are aggregated and
// how the bundled sinks render it on the wire.
type Type uint8

const (
	// CounterType sums all emitted values.
	CounterType Type = iota
	// GaugeType tracks min/max/sum/count/last of all emitted values.
	GaugeType
	// DistributionType retains every emitted value, unbinned.
	DistributionType
	// TimerType is a DistributionType whose values represent durations.
	TimerType
	// HistogramType is a DistributionType rendered with the StatsD `h` type
	// code instead of `d`; aggregation semantics are identical to
	// DistributionType.
	HistogramType
)

// String returns the Go identifier-ish name of the type, mostly useful in
// logs and test failure messages.
func (t Type) String() string {
	switch t {
	case CounterType:
		return "counter"
	case GaugeType:
		return "gauge"
	case DistributionType:
		return "distribution"
	case TimerType:
		return "timer"
	case HistogramType:
		return "histogram"
	default:
		return "unknown"
	}
}

// StatsDCode returns the StatsD protocol type code for t (§6 of SPEC_FULL.md).
func (t Type) StatsDCode() string {
	switch t {
	case CounterType:
		return "c"
	case GaugeType:
		return "g"
	case DistributionType:
		return "d"
	case TimerType:
		return "ms"
	case HistogramType:
		return "h"
	default:
		return "g"
	}
}

// Unit annotates the dimension of a metric's values. It never changes how
// values are aggregated; it only affects value conversion (see Valuer) and
// is surfaced to sinks for informational purposes.
type Unit uint8

const (
	// UnknownUnit is the default when a descriptor declares no @unit.
	UnknownUnit Unit = iota
	// SecondsUnit marks duration values measured in seconds.
	SecondsUnit
	// BytesUnit marks values measured in bytes.
	BytesUnit
)

// String returns the annotation a descriptor would print for this unit.
func (u Unit) String() string {
	switch u {
	case SecondsUnit:
		return "seconds"
	case BytesUnit:
		return "bytes"
	default:
		return ""
	}
}
