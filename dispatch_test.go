// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	metrics []Metric
}

func (s *recordingSink) Emit(m Metric) {
	s.metrics = append(s.metrics, m)
}

func TestInstallGlobalRejectsSecondCall(t *testing.T) {
	defer resetGlobalForTesting()

	s1 := &recordingSink{}
	s2 := &recordingSink{}

	d1, err := InstallGlobal(s1)
	require.NoError(t, err)
	assert.Same(t, s1, d1.sink)

	d2, err := InstallGlobal(s2)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Same(t, s2, d2.sink, "the rejected sink is returned unchanged, not discarded")

	assert.Same(t, d1, Global())
}

func TestEmitDropsSilentlyWithNoDispatcher(t *testing.T) {
	defer resetGlobalForTesting()
	resetGlobalForTesting()

	desc := NewCounter("no.dispatcher")
	assert.NotPanics(t, func() { Emit(desc, Int(1)) })
}

func TestEmitTaggedArityMismatchPanics(t *testing.T) {
	defer resetGlobalForTesting()
	sink := &recordingSink{}
	_, err := InstallGlobal(sink)
	require.NoError(t, err)

	desc := NewCounter("tagged", WithTagKeys("a", "b"))
	assert.Panics(t, func() {
		EmitTagged(desc, Int(1), String("only-one"))
	})
}

func TestEmitTaggedRoutesToGlobal(t *testing.T) {
	defer resetGlobalForTesting()
	sink := &recordingSink{}
	_, err := InstallGlobal(sink)
	require.NoError(t, err)

	desc := NewCounter("tagged", WithTagKeys("a"))
	EmitTagged(desc, Int(7), String("v"))

	require.Len(t, sink.metrics, 1)
	assert.Equal(t, MetricValue(7), sink.metrics[0].Value)
	assert.Equal(t, []string{"v"}, sink.metrics[0].TagValues)
}
