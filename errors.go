// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026-present the merni authors.

package merni

import "errors"

// ErrAlreadyInitialized is returned by InstallGlobal when a global
// dispatcher has already been installed. The caller gets their own rejected
// Sink back unchanged so it can be reused elsewhere (SPEC_FULL.md §7.1).
var ErrAlreadyInitialized = errors.New("merni: global dispatcher already initialized")

// ErrFlushTimeout is returned by Aggregator.Flush when the caller's deadline
// elapses before the scheduler replies. The flush result is not retried and
// is considered lost.
var ErrFlushTimeout = errors.New("merni: flush timed out waiting for scheduler")

// ErrDispatcherClosed is returned by Aggregator.Flush when the flush
// scheduler has already shut down and cannot service the request.
var ErrDispatcherClosed = errors.New("merni: flush scheduler is no longer running")
