// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package shard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinSplitTagsRoundTrip(t *testing.T) {
	values := []string{"a", "b", "c"}
	joined := JoinTags(values)
	assert.Equal(t, values, SplitTags(joined, len(values)))
}

func TestJoinSplitTagsSingleEmptyValueIsNotAmbiguousWithZeroTags(t *testing.T) {
	joined := JoinTags([]string{""})
	assert.Equal(t, []string{""}, SplitTags(joined, 1))
	assert.Nil(t, SplitTags("", 0), "zero declared tag keys is still the empty sentinel")
}

func TestSplitTagsZeroCountIsNilSentinel(t *testing.T) {
	assert.Nil(t, SplitTags(JoinTags(nil), 0))
}

func TestGaugeObserveAndMerge(t *testing.T) {
	g := NewGauge()
	assert.Equal(t, math.Inf(1), g.Min)
	assert.Equal(t, math.Inf(-1), g.Max)

	g.Observe(1)
	g.Observe(4)
	assert.Equal(t, Gauge{Min: 1, Max: 4, Sum: 5, Count: 2, Last: 4}, g)

	other := NewGauge()
	other.Observe(2)
	other.Observe(3)

	g.Merge(other)
	assert.Equal(t, 1.0, g.Min)
	assert.Equal(t, 4.0, g.Max)
	assert.Equal(t, 10.0, g.Sum)
	assert.Equal(t, uint64(4), g.Count)
	assert.Equal(t, 3.0, g.Last, "Last is overwritten unconditionally from the merged-in partial")
}
