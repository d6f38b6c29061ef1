// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"
)

// tagBufferPool mirrors the buffer-pooling idiom the vendored
// DataDog/datadog-go statsd client uses for its own wire buffers: a
// goroutine formatting a tag value borrows a scratch *bytes.Buffer instead
// of letting fmt allocate one per call, and returns it once the formatted
// bytes have been copied out into the final string.
var tagBufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// emptyTagValues is the zero-tag sentinel SPEC_FULL.md §4.3 requires: a
// nil slice, so descriptors with no declared tag keys allocate nothing on
// the hot path.
var emptyTagValues []string

// captureTags formats values, in order, into short strings paired
// positionally with a descriptor's TagKeys. It is the Go translation of the
// "Tag Capture" contract in SPEC_FULL.md §4.3; Go has no inline-capacity
// string type to target the ~23 byte threshold the Rust original aims for,
// so this only controls allocation count (one string per value, zero
// buffers retained), not where the bytes ultimately live.
func captureTags(values []Valuer) []string {
	if len(values) == 0 {
		return emptyTagValues
	}

	buf, _ := tagBufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		tagBufferPool.Put(buf)
	}()

	out := make([]string, len(values))
	for i, v := range values {
		buf.Reset()
		writeTagValue(buf, v)
		out[i] = buf.String()
	}
	return out
}

// writeTagValue appends the display form of v to buf. Common scalar Valuer
// kinds are formatted directly with strconv to avoid fmt's reflection
// overhead; anything else falls back to fmt.Fprint.
func writeTagValue(buf *bytes.Buffer, v Valuer) {
	switch t := v.(type) {
	case intValue:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case floatValue:
		buf.WriteString(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case boolValue:
		buf.WriteString(strconv.FormatBool(bool(t)))
	case durationValue:
		fmt.Fprint(buf, t)
	case stringValue:
		buf.WriteString(string(t))
	default:
		fmt.Fprint(buf, v)
	}
}

type stringValue string

func (v stringValue) metricValue(*Descriptor) MetricValue {
	// Strings never reach the aggregation path as values — only as tag
	// values — but satisfying Valuer lets String() be used interchangeably
	// wherever a tag value is expected.
	return 0
}

// String wraps a string tag value. It is only meaningful as a tag value
// argument to EmitTagged; emitting it as a metric's primary value always
// yields 0.
func String(v string) Valuer { return stringValue(v) }
