// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"sync"
	"sync/atomic"

	"github.com/jan-auer/merni/internal/goid"
)

// localOverrideCount tracks how many goroutines currently have an override
// installed. It is read with a relaxed-equivalent atomic load on every
// emission (SPEC_FULL.md §4.2's fast path) and only written from
// AcquireLocal/Close, which are expected to be rare compared to emission.
var localOverrideCount atomic.Int64

var overrideMu sync.Mutex
var overrideStore = make(map[int64]*Dispatcher)

// LocalOverride is the scoped acquisition handle returned by AcquireLocal.
// Closing it restores whatever override (possibly none) was active on this
// goroutine before it was acquired, supporting LIFO-nested overrides.
// Releasing is the caller's responsibility, typically via `defer ov.Close()`
// — Go has no ambient destructor to do it automatically, which is the one
// place the Go port can't reproduce the Rust original's guaranteed-on-every-
// exit-path release (SPEC_FULL.md §9, "Scoped acquisition").
type LocalOverride struct {
	gid         int64
	previous    *Dispatcher
	hadPrevious bool
	closed      bool
}

// AcquireLocal installs sink as the override dispatcher for the calling
// goroutine and returns a handle to release it. Nested calls on the same
// goroutine are supported; overrides unwind in LIFO order as each handle's
// Close is called.
func AcquireLocal(sink PerMetricSink) *LocalOverride {
	gid := goid.Current()
	d := NewDispatcher(sink)

	overrideMu.Lock()
	previous, hadPrevious := overrideStore[gid]
	overrideStore[gid] = d
	overrideMu.Unlock()

	if !hadPrevious {
		localOverrideCount.Add(1)
	}

	return &LocalOverride{gid: gid, previous: previous, hadPrevious: hadPrevious}
}

// Close releases the override, restoring the previous state. It is safe to
// call more than once; only the first call has an effect.
func (o *LocalOverride) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	overrideMu.Lock()
	if o.hadPrevious {
		overrideStore[o.gid] = o.previous
	} else {
		delete(overrideStore, o.gid)
	}
	overrideMu.Unlock()

	if !o.hadPrevious {
		localOverrideCount.Add(-1)
	}
	return nil
}

// lookupLocalOverride returns the calling goroutine's override dispatcher,
// if any.
func lookupLocalOverride() (*Dispatcher, bool) {
	gid := goid.Current()
	overrideMu.Lock()
	d, ok := overrideStore[gid]
	overrideMu.Unlock()
	return d, ok
}
