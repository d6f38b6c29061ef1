// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

// Package goid extracts the running goroutine's numeric id. Go deliberately
// has no public API for this — goroutines are not meant to be identified —
// but the technique below (parsing the "goroutine N [...]" header that
// runtime.Stack always prints first) is a well-precedented, if informal,
// stand-in for OS-thread-local storage in the rare cases a library needs one.
//
// It exists here solely to back the dispatcher's thread-local override
// (merni's LocalOverride): installing/releasing an override happens at most
// a handful of times per goroutine's lifetime (test setup, a scoped block),
// never on the metric emission hot path, so the cost of a stack walk per
// call is immaterial. The hot-path pre-aggregation shard, by contrast, uses
// sync.Pool affinity instead of this package — see internal/shard.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// Current returns the id of the calling goroutine. Ids are unique among
// currently-live goroutines but are reused after a goroutine exits, so
// callers must treat Current as a best-effort affinity token, not a durable
// identity.
func Current() int64 {
	buf := stackBufPool.Get().(*[]byte)
	defer stackBufPool.Put(buf)

	n := runtime.Stack(*buf, false)
	return parseGoroutineID((*buf)[:n])
}

// stackBufPool hands out scratch buffers for runtime.Stack. Only the first
// line is ever read, but the buffer must be large enough for runtime.Stack
// to have written that whole line before truncating.
var stackBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 64)
		return &buf
	},
}

// parseGoroutineID reads the leading "goroutine 123 [running]:" line that
// runtime.Stack always emits first.
func parseGoroutineID(stack []byte) int64 {
	const prefix = "goroutine "
	if !bytes.HasPrefix(stack, []byte(prefix)) {
		return -1
	}
	rest := stack[len(prefix):]
	end := bytes.IndexByte(rest, ' ')
	if end < 0 {
		return -1
	}
	id, err := strconv.ParseInt(string(rest[:end]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
