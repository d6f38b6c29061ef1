// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package ddsink_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jan-auer/merni"
	"github.com/jan-auer/merni/ddsink"
)

func TestRetriesTransientFailuresThenSucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "zstd", r.Header.Get("Content-Encoding"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	sink := ddsink.New(ddsink.Config{
		APIKey:         "test-key",
		Endpoint:       srv.URL,
		MaxElapsedTime: 5 * time.Second,
	})

	agg := merni.NewAggregator(sink, merni.WithFlushInterval(time.Hour))
	t.Cleanup(agg.Shutdown)

	d := merni.NewDispatcher(agg.Sink())
	counter := merni.NewCounter("pushes")
	d.Emit(counter, merni.Int(1))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := agg.Flush(ctx)
	require.NoError(t, err)

	pushes, ok := out.([]*ddsink.InFlightPush)
	require.True(t, ok)
	require.Len(t, pushes, 1)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, pushes[0].Wait(waitCtx))

	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts), "retried exactly twice before succeeding")
}

func TestPermanentFailureDoesNotRetry(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	sink := ddsink.New(ddsink.Config{APIKey: "k", Endpoint: srv.URL, MaxElapsedTime: 2 * time.Second})

	agg := merni.NewAggregator(sink, merni.WithFlushInterval(time.Hour))
	t.Cleanup(agg.Shutdown)

	d := merni.NewDispatcher(agg.Sink())
	d.Emit(merni.NewCounter("x"), merni.Int(1))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := agg.Flush(ctx)
	require.NoError(t, err)

	pushes := out.([]*ddsink.InFlightPush)
	require.Len(t, pushes, 1)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	assert.Error(t, pushes[0].Wait(waitCtx))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "a permanent 4xx is never retried")
}
