// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/matrix-org/state-compressor/groupstore"
	"github.com/matrix-org/state-compressor/internal/invariants"
	"github.com/matrix-org/state-compressor/statemap"
)

// compaction builds the new group store for one run. The old store is read
// only; resolved states are computed against it through a shared cached
// resolver and are valid for the new store too, because every processed
// group resolves identically in both.
type compaction struct {
	old      *groupstore.Store
	resolver *groupstore.Resolver
	levels   levelStack
	out      *groupstore.Store
	stats    Stats
}

// Compress computes a new predecessor-and-delta assignment for every
// in-range group in old, preserving each group's resolved state while
// minimizing delta rows subject to the layered tree shaped by sizes.
// Context groups are carried through unchanged. The context is checked
// between groups; cancellation returns an error marked ErrCancelled.
func Compress(
	ctx context.Context, old *groupstore.Store, sizes LevelSizes,
) (*groupstore.Store, Stats, error) {
	if err := sizes.Validate(); err != nil {
		return nil, Stats{}, err
	}
	c := &compaction{
		old:      old,
		resolver: groupstore.NewResolver(old),
		levels:   makeLevelStack(sizes),
		out:      groupstore.New(),
	}
	if err := c.run(ctx); err != nil {
		return nil, Stats{}, err
	}
	c.stats.OldRows = old.RowCount()
	c.stats.NewRows = c.out.RowCount()
	return c.out, c.stats, nil
}

func (c *compaction) run(ctx context.Context) error {
	for _, id := range c.old.IDs() {
		if err := ctx.Err(); err != nil {
			return errors.Mark(err, ErrCancelled)
		}
		g, _ := c.old.Get(id)

		// Context groups are only present as predecessors of in-range
		// groups; they are never rewritten.
		if !g.InRange {
			if err := c.out.Insert(&groupstore.Group{
				ID:      g.ID,
				Prev:    g.Prev,
				Delta:   g.Delta,
				InRange: false,
			}); err != nil {
				return err
			}
			continue
		}

		chosen := c.levels.place(id)
		invariants.CheckTrue(chosen < id,
			"level stack placed %d under future group %d", id, chosen)

		prev := chosen
		delta := g.Delta
		if chosen != g.Prev {
			// The tree assigns a different predecessor than the loaded
			// store, so the delta has to be recomputed. The recomputation can
			// still land on the loaded predecessor and delta, which is not a
			// change.
			var err error
			delta, prev, err = c.delta(chosen, id)
			if err != nil {
				return err
			}
			if prev != g.Prev || !delta.Equal(g.Delta) {
				c.stats.GroupsChanged++
			}
		}

		if err := c.out.Insert(&groupstore.Group{
			ID:      id,
			Prev:    prev,
			Delta:   delta,
			InRange: true,
		}); err != nil {
			return err
		}
	}
	return nil
}

// delta computes the delta of group id over the candidate predecessor
// prev. A candidate is only feasible if its resolved state assigns no key
// the group's resolved state lacks, since deltas can override values but
// never remove keys. On infeasibility the walk moves up the new tree
// looking for a feasible ancestor; if none exists the group becomes a
// forced root carrying its full state.
func (c *compaction) delta(
	prev, id groupstore.GroupID,
) (*statemap.Map, groupstore.GroupID, error) {
	state, err := c.resolver.Resolve(id)
	if err != nil {
		return nil, groupstore.NoGroup, err
	}
	if prev == groupstore.NoGroup {
		return state, groupstore.NoGroup, nil
	}

	for {
		prevState, err := c.resolver.Resolve(prev)
		if err != nil {
			return nil, groupstore.NoGroup, err
		}
		if state.CoversKeysOf(prevState) {
			return state.DiffOver(prevState), prev, nil
		}
		pg, ok := c.out.Get(prev)
		if !ok || pg.Prev == groupstore.NoGroup {
			break
		}
		prev = pg.Prev
	}

	c.stats.ForcedResets++
	c.stats.ForcedResetRows += uint64(state.Len())
	return state, groupstore.NoGroup, nil
}
