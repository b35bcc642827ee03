// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/matrix-org/state-compressor/groupstore"
)

// Result is the output of a successful run: what changed, by how much, and
// the compacted store itself (kept for callers that chain further work off
// the resolved states).
type Result struct {
	Stats    Stats
	Plan     Plan
	NewStore *groupstore.Store
}

// Run compresses the loaded store and returns the plan for an external
// writer to apply:
//
//   - compresses the in-range groups into a new layered tree,
//   - refuses the result if it saves fewer than Options.MinSavedRows rows
//     (ErrInsufficientSavings, recoverable),
//   - verifies that every group still resolves to exactly the same state
//     (ErrEquivalence, fatal),
//   - diffs the two stores into a row-level Plan.
//
// The store must contain every in-range group of the chunk plus any
// context groups referenced as predecessors. Run performs no I/O.
func Run(ctx context.Context, store *groupstore.Store, opts Options) (*Result, error) {
	opts.EnsureDefaults()
	if err := opts.LevelSizes.Validate(); err != nil {
		return nil, err
	}

	opts.Logger.Infof("%s: compressing %d state groups (levels %s)",
		opts.RoomID, store.Len(), opts.LevelSizes)

	newStore, stats, err := Compress(ctx, store, opts.LevelSizes)
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("%s: %s", opts.RoomID, stats)

	if stats.RowsSaved() < opts.MinSavedRows {
		if opts.Metrics != nil {
			opts.Metrics.RunsSkipped.Inc()
		}
		return nil, errors.Wrapf(ErrInsufficientSavings,
			"%d rows saved, %d required", stats.RowsSaved(), opts.MinSavedRows)
	}

	if err := checkEquivalence(ctx, store, newStore, opts.Parallelism); err != nil {
		return nil, err
	}
	stats.EquivalenceOK = true

	plan := buildPlan(opts.RoomID, store, newStore)
	if opts.Metrics != nil {
		opts.Metrics.observe(stats)
	}
	return &Result{Stats: stats, Plan: plan, NewStore: newStore}, nil
}
