// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import "time"

// MetricValue wraps the single float64 every aggregated metric ultimately
// reduces to. Conversion into a MetricValue from a caller-supplied value is
// infallible and driven entirely by the target Descriptor's metadata.
type MetricValue float64

// Valuer is the "convertible to metric value, given descriptor" capability
// from SPEC_FULL.md §4.8. It mirrors the zap.Field constructor idiom
// (zap.Int, zap.Duration, ...) rather than an `any` + reflection switch:
// each constructor below returns a concrete, allocation-free Valuer.
type Valuer interface {
	metricValue(d *Descriptor) MetricValue
}

type intValue int64

func (v intValue) metricValue(*Descriptor) MetricValue { return MetricValue(v) }

// Int wraps an integer value for emission.
func Int(v int) Valuer { return intValue(v) }

// Int64 wraps a 64-bit integer value for emission.
func Int64(v int64) Valuer { return intValue(v) }

type floatValue float64

func (v floatValue) metricValue(*Descriptor) MetricValue { return MetricValue(v) }

// Float wraps a floating-point value for emission.
func Float(v float64) Valuer { return floatValue(v) }

type boolValue bool

func (v boolValue) metricValue(*Descriptor) MetricValue {
	if v {
		return 1
	}
	return 0
}

// Bool wraps a boolean value for emission; true becomes 1, false becomes 0.
func Bool(v bool) Valuer { return boolValue(v) }

type durationValue time.Duration

// metricValue converts a duration to seconds, except when the descriptor is
// a TimerType with UnknownUnit, in which case it converts to milliseconds.
// This is the one nontrivial conversion rule in SPEC_FULL.md §4.2 and is
// covered explicitly by TestDurationValueMillisecondBranch.
func (v durationValue) metricValue(d *Descriptor) MetricValue {
	dur := time.Duration(v)
	if d != nil && d.ty == TimerType && d.unit == UnknownUnit {
		return MetricValue(float64(dur) / float64(time.Millisecond))
	}
	return MetricValue(dur.Seconds())
}

// Duration wraps a time.Duration value for emission. See metricValue for the
// unit-dependent seconds-vs-milliseconds conversion rule.
func Duration(v time.Duration) Valuer { return durationValue(v) }
