// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

// Package ddsink implements the Datadog HTTP Sink from SPEC_FULL.md §4.10:
// it serializes one flush pass's canonical Aggregations into the Datadog
// series v2 JSON payload, zstd-compresses it with github.com/DataDog/zstd
// (the teacher's own metrics-intake compressor) and POSTs it with retry via
// github.com/cenkalti/backoff/v4 (the teacher's own retry dependency).
package ddsink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/DataDog/zstd"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/jan-auer/merni"
)

// seriesType mirrors the Datadog v2 series API's numeric metric type
// enumeration.
type seriesType int

const (
	typeUnspecified seriesType = 0
	typeCount       seriesType = 1
	typeRate        seriesType = 2
	typeGauge       seriesType = 3
)

type point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

type series struct {
	Metric string     `json:"metric"`
	Type   seriesType `json:"type"`
	Points []point    `json:"points"`
	Tags   []string   `json:"tags,omitempty"`
}

type seriesPayload struct {
	Series []series `json:"series"`
}

// Config configures a Sink.
type Config struct {
	// APIKey is sent as the DD-API-KEY header.
	APIKey string
	// Site is the Datadog site to post to (e.g. "datadoghq.com",
	// "datadoghq.eu"). Ignored if Endpoint is set.
	Site string
	// Endpoint overrides the full request URL, mainly for tests.
	Endpoint string
	// HTTPClient is the transport to use; defaults to http.DefaultClient.
	HTTPClient *http.Client
	// MaxElapsedTime bounds how long backoff retries a single chunk before
	// giving up; zero uses backoff.DefaultMaxElapsedTime.
	MaxElapsedTime time.Duration
	// BatchSize caps how many series are sent in one request; a flush pass
	// with more series than this is split into multiple in-flight pushes.
	// Zero means unbounded (one request per flush).
	BatchSize int
	Logger    *zap.Logger
}

// Sink is an AggregationSink that ships a flush pass to the Datadog metrics
// intake over HTTP.
type Sink struct {
	cfg    Config
	client *http.Client
	url    string
	logger *zap.Logger
}

// New returns a Sink configured per cfg.
func New(cfg Config) *Sink {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	url := cfg.Endpoint
	if url == "" {
		url = fmt.Sprintf("https://api.%s/api/v2/series", cfg.Site)
	}
	return &Sink{cfg: cfg, client: client, url: url, logger: logger}
}

// InFlightPush is the task handle for one in-flight chunk of a flush pass,
// the Go stand-in for the "list of in-flight task handles" an async runtime
// would hand back (SPEC_FULL.md §4.10/§6).
type InFlightPush struct {
	done chan struct{}
	err  error
}

func newInFlightPush() *InFlightPush {
	return &InFlightPush{done: make(chan struct{})}
}

func (p *InFlightPush) resolve(err error) {
	p.err = err
	close(p.done)
}

// Wait blocks until the push completes or ctx is done, whichever comes
// first.
func (p *InFlightPush) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Emit implements merni.AggregationSink. It builds the series payload,
// splits it into at most cfg.BatchSize-sized chunks, dispatches each chunk
// concurrently with retry, and returns their handles as []*InFlightPush
// without waiting for any of them — the caller (or an explicit Flush's
// reply) decides whether and how long to wait.
func (s *Sink) Emit(agg *merni.Aggregations) any {
	all := seriesFor(agg)
	chunks := chunk(all, s.cfg.BatchSize)

	pushes := make([]*InFlightPush, len(chunks))
	for i, c := range chunks {
		p := newInFlightPush()
		pushes[i] = p
		// Detached: callers observe completion via Wait, not by this Emit
		// call blocking (SPEC_FULL.md §4.7's Output contract is "handles to
		// await", not "already awaited").
		go func(c []series, p *InFlightPush) {
			p.resolve(s.postWithRetry(c))
		}(c, p)
	}

	return pushes
}

func (s *Sink) postWithRetry(batch []series) error {
	body, err := json.Marshal(seriesPayload{Series: batch})
	if err != nil {
		return fmt.Errorf("ddsink: marshal series: %w", err)
	}

	compressed, err := zstd.Compress(nil, body)
	if err != nil {
		return fmt.Errorf("ddsink: zstd compress: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	if s.cfg.MaxElapsedTime > 0 {
		bo.MaxElapsedTime = s.cfg.MaxElapsedTime
	}

	op := func() error {
		err := s.postOnce(compressed)
		if err == nil {
			return nil
		}
		if perr, ok := err.(*retryableError); ok {
			if perr.retryAfter > 0 {
				// Honor the server's requested delay before the next
				// exponential-backoff attempt (SPEC_FULL.md §6).
				time.Sleep(perr.retryAfter)
			}
			return perr
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(op, bo); err != nil {
		s.logger.Warn("ddsink: giving up after retries", zap.Error(err))
		return err
	}
	return nil
}

// retryableError marks a failed attempt as worth retrying (transient
// connection error or 5xx/429 response), as opposed to a permanent one
// (4xx other than 429).
type retryableError struct {
	status     int
	retryAfter time.Duration
	cause      error
}

func (e *retryableError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("ddsink: transient error: %v", e.cause)
	}
	return fmt.Sprintf("ddsink: transient status %d", e.status)
}

func (s *Sink) postOnce(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ddsink: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "zstd")
	req.Header.Set("DD-API-KEY", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return &retryableError{cause: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &retryableError{status: resp.StatusCode, retryAfter: retryAfter(resp)}
	}

	return fmt.Errorf("ddsink: permanent status %d", resp.StatusCode)
}

func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func seriesFor(agg *merni.Aggregations) []series {
	now := time.Now().Unix()
	var out []series

	for _, c := range agg.Counters() {
		out = append(out, series{
			Metric: c.Metric.Name(),
			Type:   typeCount,
			Points: []point{{Timestamp: now, Value: c.Value}},
			Tags:   tagStrings(c.Metric.Tags()),
		})
	}

	for _, g := range agg.Gauges() {
		name := g.Metric.Name()
		tags := tagStrings(g.Metric.Tags())
		fields := map[string]float64{
			"min": g.Value.Min, "max": g.Value.Max, "sum": g.Value.Sum,
			"count": float64(g.Value.Count), "last": g.Value.Last,
		}
		for suffix, v := range fields {
			out = append(out, series{
				Metric: name + "." + suffix,
				Type:   typeGauge,
				Points: []point{{Timestamp: now, Value: v}},
				Tags:   tags,
			})
		}
	}

	for _, d := range agg.Distributions() {
		name := d.Metric.Name()
		tags := tagStrings(d.Metric.Tags())
		points := make([]point, len(d.Values))
		for i, v := range d.Values {
			points[i] = point{Timestamp: now, Value: v}
		}
		out = append(out, series{Metric: name, Type: typeUnspecified, Points: points, Tags: tags})
	}

	return out
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

func chunk(all []series, size int) [][]series {
	if size <= 0 || len(all) <= size {
		if len(all) == 0 {
			return nil
		}
		return [][]series{all}
	}
	var chunks [][]series
	for i := 0; i < len(all); i += size {
		end := i + size
		if end > len(all) {
			end = len(all)
		}
		chunks = append(chunks, all[i:end])
	}
	return chunks
}
