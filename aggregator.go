// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Aggregator is the Flush Scheduler component from SPEC_FULL.md §4.6: a
// single dedicated background goroutine started at construction time that
// periodically merges every pre-aggregation shard and hands the canonical
// Aggregations to a downstream AggregationSink. Aggregator itself
// implements PerMetricSink indirectly — Sink() returns the ShardedAggregator
// callers install as a Dispatcher's sink (global, via InstallGlobal, or
// local, via AcquireLocal).
type Aggregator struct {
	shards *ShardedAggregator
	sink   AggregationSink
	logger *zap.Logger

	flushInterval time.Duration
	control       chan schedulerMsg
	stopCh        chan struct{}
	done          chan struct{}
	shutdownOnce  sync.Once
	wg            sync.WaitGroup
}

type schedulerMsgKind int

const (
	msgFlush schedulerMsgKind = iota
	msgShutdown
)

type schedulerMsg struct {
	kind  schedulerMsgKind
	reply chan any
}

// NewAggregator constructs an Aggregator wired to sink and immediately
// starts its flush scheduler goroutine.
func NewAggregator(sink AggregationSink, opts ...Option) *Aggregator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Aggregator{
		shards:        NewShardedAggregator(),
		sink:          sink,
		logger:        cfg.logger,
		flushInterval: cfg.flushInterval,
		// Buffered by one: the scheduler's control channel is meant to be
		// "synchronous" (SPEC_FULL.md §9) in the sense of being a rendezvous
		// for a request/reply pair, not in the sense of being unbuffered —
		// Shutdown must be postable best-effort even if the worker is
		// mid-flush and not yet receiving.
		control: make(chan schedulerMsg, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}

	a.wg.Add(1)
	go a.run()
	return a
}

// Sink returns the PerMetricSink to install as a Dispatcher's sink (global
// or local) so that emissions reach this Aggregator's pre-aggregation
// shards.
func (a *Aggregator) Sink() PerMetricSink {
	return a.shards
}

// run is the scheduler's main loop (SPEC_FULL.md §4.6).
func (a *Aggregator) run() {
	defer close(a.done)
	defer a.wg.Done()

	ticker := time.NewTicker(a.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.flushOnce(nil)

		case msg := <-a.control:
			a.flushOnce(msg.reply)
			if msg.kind == msgShutdown {
				return
			}

		case <-a.stopCh:
			// stopCh is the close-safe shutdown signal: SPEC_FULL.md §4.6
			// treats a closed control channel the same as an explicit
			// Shutdown message, but Go channels may only be closed once and
			// by one goroutine, so a dedicated close-once channel stands in
			// for "the sender was closed" without risking a send-after-close
			// panic from a concurrent Flush call.
			a.flushOnce(nil)
			return
		}
	}
}

// flushOnce performs one merge+emit pass and, if reply is non-nil, posts
// the downstream sink's Output to it without blocking (SPEC_FULL.md §4.6
// step 2-3).
func (a *Aggregator) flushOnce(reply chan any) {
	aggregations := a.shards.merge()

	a.logger.Debug("merni: flush pass",
		zap.Int("counters", len(aggregations.Counters())),
		zap.Int("gauges", len(aggregations.Gauges())),
		zap.Int("distributions", len(aggregations.Distributions())),
	)

	out := a.sink.Emit(aggregations)

	if reply != nil {
		select {
		case reply <- out:
		default:
			// The caller gave up waiting; SPEC_FULL.md §4.6 is explicit
			// that a timed-out flush result is lost, never retried.
		}
	}
}

// Flush requests an out-of-band merge+emit pass and waits for its result.
// If ctx is done before the scheduler replies, Flush returns
// ErrFlushTimeout and the result, once it eventually arrives, is discarded
// by flushOnce — it is not retried (SPEC_FULL.md §4.6).
func (a *Aggregator) Flush(ctx context.Context) (any, error) {
	if ctx.Err() != nil {
		return nil, ErrFlushTimeout
	}

	reply := make(chan any, 1)
	msg := schedulerMsg{kind: msgFlush, reply: reply}

	select {
	case a.control <- msg:
	case <-a.done:
		return nil, ErrDispatcherClosed
	case <-ctx.Done():
		return nil, ErrFlushTimeout
	}

	select {
	case out := <-reply:
		return out, nil
	case <-a.done:
		return nil, ErrDispatcherClosed
	case <-ctx.Done():
		return nil, ErrFlushTimeout
	}
}

// Shutdown posts a shutdown request (best-effort) and closes the scheduler's
// stop signal so the goroutine is guaranteed to observe shutdown even if the
// buffered post was dropped, then waits for it to perform its final
// merge+emit pass and exit. Calling Shutdown more than once is safe; only
// the first call has an effect.
func (a *Aggregator) Shutdown() {
	a.shutdownOnce.Do(func() {
		select {
		case a.control <- schedulerMsg{kind: msgShutdown}:
		default:
		}
		close(a.stopCh)
		a.wg.Wait()
	})
}
