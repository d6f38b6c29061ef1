// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntFloatBoolValues(t *testing.T) {
	var d *Descriptor
	assert.Equal(t, MetricValue(7), Int(7).metricValue(d))
	assert.Equal(t, MetricValue(7), Int64(7).metricValue(d))
	assert.Equal(t, MetricValue(1.5), Float(1.5).metricValue(d))
	assert.Equal(t, MetricValue(1), Bool(true).metricValue(d))
	assert.Equal(t, MetricValue(0), Bool(false).metricValue(d))
}

func TestDurationValueMillisecondBranch(t *testing.T) {
	timerUnknown := NewTimer("t")
	timerSeconds := NewTimer("t", WithUnit(SecondsUnit))
	distribution := NewDistribution("d")

	v := Duration(1500 * time.Millisecond)

	assert.Equal(t, MetricValue(1500), v.metricValue(timerUnknown), "Timer+UnknownUnit converts to milliseconds")
	assert.Equal(t, MetricValue(1.5), v.metricValue(timerSeconds), "Timer+SecondsUnit converts to seconds")
	assert.Equal(t, MetricValue(1.5), v.metricValue(distribution), "non-Timer descriptors always convert to seconds")
	assert.Equal(t, MetricValue(1.5), v.metricValue(nil), "a nil descriptor falls back to the seconds conversion")
}

func TestStringValueIsZeroAsMetricValue(t *testing.T) {
	assert.Equal(t, MetricValue(0), String("tag-only").metricValue(nil))
}
