// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package goid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentIsStableWithinOneGoroutine(t *testing.T) {
	first := Current()
	second := Current()
	assert.Equal(t, first, second)
}

func TestCurrentDiffersAcrossConcurrentGoroutines(t *testing.T) {
	const n = 8
	ids := make([]int64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ids[i] = Current()
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "goroutine ids observed concurrently must be distinct")
		seen[id] = true
	}
}

func TestParseGoroutineID(t *testing.T) {
	assert.Equal(t, int64(123), parseGoroutineID([]byte("goroutine 123 [running]:\nmain.main()")))
	assert.Equal(t, int64(-1), parseGoroutineID([]byte("not a stack trace")))
	assert.Equal(t, int64(-1), parseGoroutineID([]byte("goroutine")))
}
