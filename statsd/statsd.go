// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

// Package statsd implements the StatsD Sink from SPEC_FULL.md §4.9: it
// formats one flush pass's canonical Aggregations into StatsD protocol lines
// and ships them over github.com/DataDog/datadog-go/v5/statsd, the same
// transport the teacher's dogstatsd component wraps.
package statsd

import (
	"errors"
	"fmt"
	"io"

	ddgostatsd "github.com/DataDog/datadog-go/v5/statsd"
	"go.uber.org/zap"

	"github.com/jan-auer/merni"
)

// Config configures a Sink.
type Config struct {
	// Addr is the StatsD/dogstatsd endpoint: "host:port" for UDP, or
	// "unix://path" for a Unix domain socket.
	Addr string
	// Prefix is prepended to every metric name, matching the teacher
	// client's Namespace field.
	Prefix string
	// GlobalTags are appended to every line in addition to a metric's own
	// captured tag values.
	GlobalTags []string
	// MaxPacketSize caps the size in bytes of each payload the underlying
	// client sends. Zero uses the client's own default
	// (ddgostatsd.OptimalUDPPayloadSize).
	MaxPacketSize int
	// Logger receives transport errors; defaults to zap.NewNop() so the
	// sink is silent unless configured (SPEC_FULL.md §7.4's "silent drop").
	Logger *zap.Logger
}

// Sink is an AggregationSink that renders a flush pass as StatsD lines.
type Sink struct {
	client *ddgostatsd.Client
	logger *zap.Logger
}

// New dials Addr and returns a Sink backed by it.
func New(cfg Config) (*Sink, error) {
	opts := clientOptions(cfg)
	client, err := ddgostatsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("statsd: dial %s: %w", cfg.Addr, err)
	}
	return &Sink{client: client, logger: logger(cfg)}, nil
}

// NewWithWriter builds a Sink that writes formatted packets to w instead of
// dialing a socket, mirroring the teacher's statsdWriter test harness — any
// io.WriteCloser (e.g. a *bytes.Buffer wrapped to add a no-op Close) works.
func NewWithWriter(w io.WriteCloser, cfg Config) (*Sink, error) {
	opts := clientOptions(cfg)
	client, err := ddgostatsd.NewWithWriter(w, opts...)
	if err != nil {
		return nil, fmt.Errorf("statsd: new with writer: %w", err)
	}
	return &Sink{client: client, logger: logger(cfg)}, nil
}

func clientOptions(cfg Config) []ddgostatsd.Option {
	opts := []ddgostatsd.Option{ddgostatsd.WithoutOriginDetection()}
	if cfg.Prefix != "" {
		opts = append(opts, ddgostatsd.WithNamespace(cfg.Prefix))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, ddgostatsd.WithTags(cfg.GlobalTags))
	}
	if cfg.MaxPacketSize > 0 {
		opts = append(opts, ddgostatsd.WithMaxBytesPerPayload(cfg.MaxPacketSize))
	}
	return opts
}

func logger(cfg Config) *zap.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return zap.NewNop()
}

// Emit implements merni.AggregationSink. StatsD delivery is
// fire-and-forget; the Output is nil, or every transport error encountered
// during the pass joined with errors.Join (also logged), for an explicit
// Flush caller to inspect.
func (s *Sink) Emit(agg *merni.Aggregations) any {
	var errs []error

	for _, c := range agg.Counters() {
		tags := tagStrings(c.Metric.Tags())
		if err := s.client.Count(c.Metric.Name(), int64(c.Value), tags, 1); err != nil {
			errs = append(errs, err)
		}
	}

	for _, g := range agg.Gauges() {
		tags := tagStrings(g.Metric.Tags())
		name := g.Metric.Name()
		fields := map[string]float64{
			"min":   g.Value.Min,
			"max":   g.Value.Max,
			"sum":   g.Value.Sum,
			"count": float64(g.Value.Count),
			"last":  g.Value.Last,
		}
		for suffix, v := range fields {
			if err := s.client.Gauge(name+"."+suffix, v, tags, 1); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, d := range agg.Distributions() {
		tags := tagStrings(d.Metric.Tags())
		name := d.Metric.Name()
		for _, v := range d.Values {
			var err error
			switch d.Metric.Ty().StatsDCode() {
			case "ms":
				err = s.client.TimeInMilliseconds(name, v, tags, 1)
			case "h":
				err = s.client.Histogram(name, v, tags, 1)
			default:
				err = s.client.Distribution(name, v, tags, 1)
			}
			if err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := s.client.Flush(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	joined := errors.Join(errs...)
	s.logger.Warn("statsd: dropped metrics during flush", zap.Error(joined))
	return joined
}

// Close flushes and releases the underlying client's resources.
func (s *Sink) Close() error {
	return s.client.Close()
}

func tagStrings(pairs []merni.TagPair) []string {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Key + ":" + p.Value
	}
	return out
}
