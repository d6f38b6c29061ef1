// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"fmt"
	"sync/atomic"
)

// Dispatcher binds exactly one PerMetricSink (SPEC_FULL.md §4.2).
type Dispatcher struct {
	sink PerMetricSink
}

// NewDispatcher wraps sink in a Dispatcher.
func NewDispatcher(sink PerMetricSink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// Emit materializes a zero-tag Metric and hands it to the dispatcher's sink.
func (d *Dispatcher) Emit(desc *Descriptor, value Valuer) {
	d.emit(desc, value, nil)
}

// EmitTagged materializes a Metric with the given tag values, which must
// match desc.TagKeys() in length, and hands it to the dispatcher's sink.
//
// A length mismatch panics: the Rust original rejects this at compile time
// via a const-generic arity parameter, which Go has no equivalent for, so
// this is the one place the port trades a compile-time guarantee for a
// documented runtime one (see SPEC_FULL.md §4).
func (d *Dispatcher) EmitTagged(desc *Descriptor, value Valuer, tagValues ...Valuer) {
	checkArity(desc, tagValues)
	d.emit(desc, value, tagValues)
}

func (d *Dispatcher) emit(desc *Descriptor, value Valuer, tagValues []Valuer) {
	mv := value.metricValue(desc)
	d.sink.Emit(Metric{
		Descriptor: desc,
		Value:      mv,
		TagValues:  captureTags(tagValues),
	})
}

func checkArity(desc *Descriptor, tagValues []Valuer) {
	if len(tagValues) != len(desc.tagKeys) {
		panic(fmt.Sprintf(
			"merni: descriptor %q declares %d tag keys but got %d tag values",
			desc.name, len(desc.tagKeys), len(tagValues),
		))
	}
}

// globalDispatcher is the process-global, set-once dispatcher slot.
var globalDispatcher atomic.Pointer[Dispatcher]

// InstallGlobal installs sink as the process-global dispatcher. Calling it
// a second time does not replace the existing dispatcher: it returns a
// Dispatcher wrapping the rejected sink (unchanged, so the caller can reuse
// it elsewhere, e.g. as a local override) together with ErrAlreadyInitialized.
func InstallGlobal(sink PerMetricSink) (*Dispatcher, error) {
	d := NewDispatcher(sink)
	if !globalDispatcher.CompareAndSwap(nil, d) {
		return d, ErrAlreadyInitialized
	}
	return d, nil
}

// Global returns the process-global dispatcher, or nil if none has been
// installed yet.
func Global() *Dispatcher {
	return globalDispatcher.Load()
}

// resetGlobalForTesting clears the global dispatcher slot. It exists so
// this package's own tests can exercise InstallGlobal's set-once behavior
// repeatedly.
func resetGlobalForTesting() {
	globalDispatcher.Store(nil)
}

// ResetGlobalForTesting clears the global dispatcher slot. It is exported
// solely for test suites in other packages (e.g. mernitest-based ones) that
// need a clean dispatcher between test cases; production code should never
// call it.
func ResetGlobalForTesting() {
	resetGlobalForTesting()
}

// currentDispatcher implements the dispatcher lookup algorithm from
// SPEC_FULL.md §4.2: check for a goroutine-local override only when the
// process-wide counter says one might exist, then fall back to the global
// dispatcher, then nil (drop).
func currentDispatcher() *Dispatcher {
	if localOverrideCount.Load() > 0 {
		if d, ok := lookupLocalOverride(); ok {
			return d
		}
	}
	return globalDispatcher.Load()
}

// Emit resolves the active dispatcher (goroutine-local override, else
// global, else none) and, if one is reachable, materializes a zero-tag
// Metric and hands it off. It is the package-level entry point that a
// counter!/gauge!/distribution! call site would expand to.
func Emit(desc *Descriptor, value Valuer) {
	d := currentDispatcher()
	if d == nil {
		return
	}
	d.emit(desc, value, nil)
}

// EmitTagged resolves the active dispatcher and, if one is reachable,
// materializes a tagged Metric and hands it off. The dispatcher is resolved
// before any tag value is captured, matching SPEC_FULL.md §6's macro
// expansion order.
func EmitTagged(desc *Descriptor, value Valuer, tagValues ...Valuer) {
	d := currentDispatcher()
	if d == nil {
		return
	}
	checkArity(desc, tagValues)
	d.emit(desc, value, tagValues)
}
