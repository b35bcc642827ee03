// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package groupstore

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/matrix-org/state-compressor/statemap"
	"github.com/stretchr/testify/require"
)

func delta(pairs ...string) *statemap.Map {
	m := statemap.New()
	for i := 0; i+3 <= len(pairs); i += 3 {
		m.Set(statemap.Key{Type: pairs[i], StateKey: pairs[i+1]}, pairs[i+2])
	}
	return m
}

func mustInsert(t *testing.T, s *Store, id, prev GroupID, d *statemap.Map) {
	t.Helper()
	require.NoError(t, s.Insert(&Group{ID: id, Prev: prev, Delta: d, InRange: true}))
}

func TestStoreInsertDuplicate(t *testing.T) {
	s := New()
	mustInsert(t, s, 1, NoGroup, delta())
	err := s.Insert(&Group{ID: 1, Prev: NoGroup, Delta: delta()})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateID))
}

func TestStoreIDsSorted(t *testing.T) {
	s := New()
	for _, id := range []GroupID{5, 1, 9, 3} {
		mustInsert(t, s, id, NoGroup, delta())
	}
	require.Equal(t, []GroupID{1, 3, 5, 9}, s.IDs())
	require.Equal(t, 4, s.Len())
}

func TestStoreResolve(t *testing.T) {
	s := New()
	mustInsert(t, s, 1, NoGroup, delta("t", "a", "1", "t", "b", "2"))
	mustInsert(t, s, 2, 1, delta("t", "b", "3"))
	mustInsert(t, s, 3, 2, delta("t", "c", "4"))

	state, err := s.Resolve(3)
	require.NoError(t, err)
	require.True(t, state.Equal(delta("t", "a", "1", "t", "b", "3", "t", "c", "4")))

	// Nearer deltas override farther ones.
	state, err = s.Resolve(2)
	require.NoError(t, err)
	v, _ := state.Get(statemap.Key{Type: "t", StateKey: "b"})
	require.Equal(t, "3", v)

	// A root resolves to its own delta.
	state, err = s.Resolve(1)
	require.NoError(t, err)
	require.Equal(t, 2, state.Len())
}

func TestStoreResolveMissingPredecessor(t *testing.T) {
	s := New()
	mustInsert(t, s, 2, 1, delta())
	_, err := s.Resolve(2)
	require.True(t, errors.Is(err, ErrMissingPredecessor))
}

func TestStoreResolveCycle(t *testing.T) {
	s := New()
	mustInsert(t, s, 1, 2, delta())
	mustInsert(t, s, 2, 1, delta())
	_, err := s.Resolve(1)
	require.True(t, errors.Is(err, ErrCycle))
}

func TestStoreInRangeIDs(t *testing.T) {
	s := New()
	require.NoError(t, s.Insert(&Group{ID: 3, Prev: NoGroup, Delta: delta(), InRange: true}))
	require.NoError(t, s.Insert(&Group{ID: 1, Prev: NoGroup, Delta: delta(), InRange: false}))
	require.NoError(t, s.Insert(&Group{ID: 2, Prev: 1, Delta: delta(), InRange: true}))
	require.Equal(t, []GroupID{2, 3}, s.InRangeIDs())
}

func TestStoreRowCount(t *testing.T) {
	s := New()
	mustInsert(t, s, 1, NoGroup, delta("t", "a", "1", "t", "b", "2"))
	mustInsert(t, s, 2, 1, delta("t", "c", "3"))
	require.Equal(t, uint64(3), s.RowCount())
}

func TestResolverMatchesStore(t *testing.T) {
	s := New()
	prev := NoGroup
	for id := GroupID(0); id < 20; id++ {
		d := delta("node", "is", string(rune('a'+int(id))))
		d.Set(statemap.Key{Type: "group", StateKey: string(rune('a' + int(id)))}, "seen")
		mustInsert(t, s, id, prev, d)
		prev = id
	}

	r := NewResolver(s)
	// Resolve out of order so the cache is exercised both warm and cold.
	for _, id := range []GroupID{19, 3, 11, 0, 19, 7} {
		want, err := s.Resolve(id)
		require.NoError(t, err)
		got, err := r.Resolve(id)
		require.NoError(t, err)
		require.True(t, want.Equal(got), "state group %d", id)
	}
}

func TestResolverErrors(t *testing.T) {
	s := New()
	mustInsert(t, s, 2, 1, delta())
	r := NewResolver(s)
	_, err := r.Resolve(2)
	require.True(t, errors.Is(err, ErrMissingPredecessor))
}
