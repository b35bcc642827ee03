// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import "github.com/cockroachdb/errors"

// ErrEquivalence means a compacted group no longer resolves to its original
// state. This is a fatal invariant violation: it indicates a bug in the
// compressor or the loader, and no plan is emitted.
var ErrEquivalence = errors.New("compressor: resolved state mismatch after compaction")

// ErrInsufficientSavings means the compression would save fewer rows than
// Options.MinSavedRows. Recoverable: the caller skips the chunk and moves
// on without writing.
var ErrInsufficientSavings = errors.New("compressor: compression saves too few rows")

// ErrCancelled means the run observed a cancelled context between groups.
// Recoverable; no plan is emitted.
var ErrCancelled = errors.New("compressor: cancelled")
