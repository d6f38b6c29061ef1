// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"time"

	"go.uber.org/zap"
)

// DefaultFlushInterval is used when no WithFlushInterval option is given.
const DefaultFlushInterval = 10 * time.Second

type config struct {
	flushInterval time.Duration
	logger        *zap.Logger
}

func defaultConfig() config {
	return config{
		flushInterval: DefaultFlushInterval,
		logger:        zap.NewNop(),
	}
}

// Option configures an Aggregator at construction time, the same functional
// options idiom the vendored datadog-go/v5 statsd client itself uses
// (statsd.WithNamespace, statsd.WithTags, ...).
type Option func(*config)

// WithFlushInterval overrides DefaultFlushInterval.
func WithFlushInterval(d time.Duration) Option {
	return func(c *config) { c.flushInterval = d }
}

// WithLogger sets the *zap.Logger the Aggregator uses for its own
// diagnostics (a debug line per flush pass with its entry counts; the
// downstream sink's Output is not inspected or logged). Defaults to
// zap.NewNop(), matching the "metrics are best-effort,
// silent by default" policy in SPEC_FULL.md §9.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = logger }
}
