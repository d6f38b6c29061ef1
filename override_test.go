// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalOverrideScopesEmissionToThisGoroutine(t *testing.T) {
	defer resetGlobalForTesting()
	global := &recordingSink{}
	_, err := InstallGlobal(global)
	require.NoError(t, err)

	override := &recordingSink{}
	ov := AcquireLocal(override)

	desc := NewCounter("x")
	Emit(desc, Int(7))

	require.Len(t, override.metrics, 1, "the override sink receives exactly one metric")
	assert.Empty(t, global.metrics)

	require.NoError(t, ov.Close())
	assert.Equal(t, int64(0), localOverrideCount.Load())

	Emit(desc, Int(1))
	assert.Len(t, global.metrics, 1, "after scope exit, emission goes to the global dispatcher")
	assert.Len(t, override.metrics, 1, "the override sink sees nothing further")
}

func TestNestedOverridesUnwindLIFOAndRestoreCount(t *testing.T) {
	defer resetGlobalForTesting()
	resetGlobalForTesting()

	outer := &recordingSink{}
	inner := &recordingSink{}

	ovOuter := AcquireLocal(outer)
	assert.Equal(t, int64(1), localOverrideCount.Load())

	ovInner := AcquireLocal(inner)
	assert.Equal(t, int64(1), localOverrideCount.Load(), "nesting on the same goroutine doesn't double the count")

	desc := NewCounter("x")
	Emit(desc, Int(1))
	require.Len(t, inner.metrics, 1)
	assert.Empty(t, outer.metrics)

	require.NoError(t, ovInner.Close())
	Emit(desc, Int(1))
	require.Len(t, outer.metrics, 1, "closing the inner override restores the outer one")

	require.NoError(t, ovOuter.Close())
	assert.Equal(t, int64(0), localOverrideCount.Load())
}

func TestLocalOverrideCloseIsIdempotent(t *testing.T) {
	ov := AcquireLocal(&recordingSink{})
	assert.Equal(t, int64(1), localOverrideCount.Load())

	require.NoError(t, ov.Close())
	require.NoError(t, ov.Close())
	assert.Equal(t, int64(0), localOverrideCount.Load())
}
