// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/matrix-org/state-compressor/groupstore"
	"github.com/matrix-org/state-compressor/statemap"
	"golang.org/x/sync/errgroup"
)

// checkEquivalence verifies that every loaded group resolves to the same
// state through the old and new stores. The check is mandatory: a mismatch
// is a fatal invariant violation and no plan may be emitted. Resolving the
// new store also asserts its acyclicity.
//
// Groups are checked in parallel in contiguous id shards; each shard uses
// its own resolvers so the caches stay goroutine local.
func checkEquivalence(
	ctx context.Context, old, new *groupstore.Store, parallelism int,
) error {
	ids := old.IDs()
	if len(ids) == 0 {
		return nil
	}
	shards := parallelism
	if shards > len(ids) {
		shards = len(ids)
	}
	if shards < 1 {
		shards = 1
	}
	per := (len(ids) + shards - 1) / shards

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < shards; i++ {
		lo := i * per
		hi := min(lo+per, len(ids))
		if lo >= hi {
			break
		}
		shard := ids[lo:hi]
		g.Go(func() error {
			oldR := groupstore.NewResolver(old)
			newR := groupstore.NewResolver(new)
			for _, id := range shard {
				if err := ctx.Err(); err != nil {
					return errors.Mark(err, ErrCancelled)
				}
				want, err := oldR.Resolve(id)
				if err != nil {
					return err
				}
				got, err := newR.Resolve(id)
				if err != nil {
					return err
				}
				if !want.Equal(got) {
					k, detail := firstDifference(want, got)
					return errors.Wrapf(ErrEquivalence,
						"state group %d differs at %s: %s", id, k, detail)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// firstDifference returns the lexicographically first key on which the two
// resolved states disagree, with a description of the disagreement.
func firstDifference(want, got *statemap.Map) (statemap.Key, string) {
	keys := want.SortedKeys()
	keys = append(keys, got.SortedKeys()...)
	slices.SortFunc(keys, statemap.Key.Compare)
	keys = slices.Compact(keys)
	for _, k := range keys {
		wv, wok := want.Get(k)
		gv, gok := got.Get(k)
		switch {
		case wok && !gok:
			return k, "missing after compaction (want " + wv + ")"
		case !wok && gok:
			return k, "unexpected after compaction (got " + gv + ")"
		case wv != gv:
			return k, "want " + wv + ", got " + gv
		}
	}
	return statemap.Key{}, "states compare equal"
}
