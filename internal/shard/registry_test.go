// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package shard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryTracksEveryAcquiredMap(t *testing.T) {
	r := NewRegistry()

	m1 := r.Acquire()
	m1.AddCounter(Key{Descriptor: "d", Tags: ""}, 1)
	r.Release(m1)

	m2 := r.Acquire()
	r.Release(m2)

	assert.NotEmpty(t, r.All())
}

func TestRegistryDrainClearsButKeepsMapTracked(t *testing.T) {
	r := NewRegistry()
	m := r.Acquire()

	key := Key{Descriptor: "d", Tags: ""}
	m.AddCounter(key, 5)

	counters, _, _ := m.Drain()
	require.Equal(t, 5.0, counters[key])

	counters2, _, _ := m.Drain()
	assert.Empty(t, counters2, "after a drain, the map's sub-maps are empty until written to again")

	r.Release(m)
	assert.Contains(t, r.All(), m)
}
