// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package statsd_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jan-auer/merni"
	"github.com/jan-auer/merni/statsd"
)

// bufCloser adapts a *bytes.Buffer to io.WriteCloser, mirroring the
// teacher's own statsdWriter test harness.
type bufCloser struct {
	*bytes.Buffer
}

func (bufCloser) Close() error { return nil }

func TestCounterFormatting(t *testing.T) {
	w := bufCloser{&bytes.Buffer{}}
	sink, err := statsd.NewWithWriter(w, statsd.Config{})
	require.NoError(t, err)

	agg := merni.NewAggregator(sink, merni.WithFlushInterval(time.Hour))
	t.Cleanup(agg.Shutdown)

	d := merni.NewDispatcher(agg.Sink())
	counter := merni.NewCounter("requests")
	d.Emit(counter, merni.Int(1))
	d.Emit(counter, merni.Int(2))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = agg.Flush(ctx)
	require.NoError(t, err)

	assert.Equal(t, "requests:3|c\n", w.String())
}

func TestCounterFormattingWithPrefixAndGlobalTags(t *testing.T) {
	w := bufCloser{&bytes.Buffer{}}
	sink, err := statsd.NewWithWriter(w, statsd.Config{
		Prefix:     "app.",
		GlobalTags: []string{"env:prod"},
	})
	require.NoError(t, err)

	agg := merni.NewAggregator(sink, merni.WithFlushInterval(time.Hour))
	t.Cleanup(agg.Shutdown)

	d := merni.NewDispatcher(agg.Sink())
	counter := merni.NewCounter("requests", merni.WithTagKeys("route"))
	d.EmitTagged(counter, merni.Int(1), merni.String("/health"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = agg.Flush(ctx)
	require.NoError(t, err)

	line := w.String()
	assert.Contains(t, line, "app.requests:1|c|#")
	assert.Contains(t, line, "env:prod")
	assert.Contains(t, line, "route:/health")
}

func TestGaugeFormatting(t *testing.T) {
	w := bufCloser{&bytes.Buffer{}}
	sink, err := statsd.NewWithWriter(w, statsd.Config{})
	require.NoError(t, err)

	agg := merni.NewAggregator(sink, merni.WithFlushInterval(time.Hour))
	t.Cleanup(agg.Shutdown)

	d := merni.NewDispatcher(agg.Sink())
	gauge := merni.NewGauge("queue.depth")
	d.Emit(gauge, merni.Int(1))
	d.Emit(gauge, merni.Int(4))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = agg.Flush(ctx)
	require.NoError(t, err)

	// The five suffixed fields are emitted from a map, so their relative
	// order in the packet is unspecified; assert each line independently.
	lines := w.String()
	assert.Contains(t, lines, "queue.depth.min:1|g\n")
	assert.Contains(t, lines, "queue.depth.max:4|g\n")
	assert.Contains(t, lines, "queue.depth.sum:5|g\n")
	assert.Contains(t, lines, "queue.depth.count:2|g\n")
	assert.Contains(t, lines, "queue.depth.last:4|g\n")
}

func TestGaugeFormattingWithPrefixAndGlobalTags(t *testing.T) {
	w := bufCloser{&bytes.Buffer{}}
	sink, err := statsd.NewWithWriter(w, statsd.Config{
		Prefix:     "app.",
		GlobalTags: []string{"env:prod"},
	})
	require.NoError(t, err)

	agg := merni.NewAggregator(sink, merni.WithFlushInterval(time.Hour))
	t.Cleanup(agg.Shutdown)

	d := merni.NewDispatcher(agg.Sink())
	gauge := merni.NewGauge("queue.depth", merni.WithTagKeys("queue"))
	d.EmitTagged(gauge, merni.Int(7), merni.String("jobs"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = agg.Flush(ctx)
	require.NoError(t, err)

	lines := w.String()
	for _, suffix := range []string{"min", "max", "sum", "last"} {
		assert.Contains(t, lines, "app.queue.depth."+suffix+":7|g|#")
	}
	assert.Contains(t, lines, "app.queue.depth.count:1|g|#")
	assert.Contains(t, lines, "env:prod")
	assert.Contains(t, lines, "queue:jobs")
}

func TestDistributionFormatting(t *testing.T) {
	w := bufCloser{&bytes.Buffer{}}
	sink, err := statsd.NewWithWriter(w, statsd.Config{})
	require.NoError(t, err)

	agg := merni.NewAggregator(sink, merni.WithFlushInterval(time.Hour))
	t.Cleanup(agg.Shutdown)

	d := merni.NewDispatcher(agg.Sink())
	dist := merni.NewDistribution("latency")
	d.Emit(dist, merni.Float(12.5))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = agg.Flush(ctx)
	require.NoError(t, err)

	assert.Equal(t, "latency:12.5|d\n", w.String())
}
