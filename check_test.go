// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"context"
	"strconv"
	"testing"

	"github.com/cockroachdb/crlib/testutils/leaktest"
	"github.com/cockroachdb/errors"
	"github.com/matrix-org/state-compressor/groupstore"
	"github.com/matrix-org/state-compressor/statemap"
	"github.com/stretchr/testify/require"
)

func TestCheckEquivalencePasses(t *testing.T) {
	defer leaktest.AfterTest(t)()

	old := groupstore.New()
	prev := groupstore.NoGroup
	for id := groupstore.GroupID(0); id < 64; id++ {
		insert(t, old, id, prev, true, sm("node", "is", strconv.Itoa(int(id))))
		prev = id
	}
	newStore, _, err := Compress(context.Background(), old, LevelSizes{4, 4})
	require.NoError(t, err)

	for _, parallelism := range []int{1, 3, 8, 100} {
		require.NoError(t, checkEquivalence(context.Background(), old, newStore, parallelism))
	}
}

func TestCheckEquivalenceFails(t *testing.T) {
	defer leaktest.AfterTest(t)()

	old := groupstore.New()
	insert(t, old, 1, groupstore.NoGroup, true, sm("e", "A", "1"))

	bad := groupstore.New()
	insert(t, bad, 1, groupstore.NoGroup, true, sm("e", "A", "2"))

	err := checkEquivalence(context.Background(), old, bad, 4)
	require.True(t, errors.Is(err, ErrEquivalence))
	require.Contains(t, err.Error(), "state group 1")
	require.Contains(t, err.Error(), "(e, A)")
}

func TestCheckEquivalenceDetectsCycle(t *testing.T) {
	defer leaktest.AfterTest(t)()

	old := groupstore.New()
	insert(t, old, 1, groupstore.NoGroup, true, sm())
	insert(t, old, 2, 1, true, sm())

	bad := groupstore.New()
	insert(t, bad, 1, 2, true, sm())
	insert(t, bad, 2, 1, true, sm())

	err := checkEquivalence(context.Background(), old, bad, 2)
	require.True(t, errors.Is(err, groupstore.ErrCycle))
}

func TestFirstDifference(t *testing.T) {
	want := sm("a", "1", "x", "b", "2", "y")
	got := sm("a", "1", "x", "b", "2", "z")
	k, detail := firstDifference(want, got)
	require.Equal(t, statemap.Key{Type: "b", StateKey: "2"}, k)
	require.Equal(t, "want y, got z", detail)

	k, detail = firstDifference(sm("a", "1", "x"), sm())
	require.Equal(t, statemap.Key{Type: "a", StateKey: "1"}, k)
	require.Equal(t, "missing after compaction (want x)", detail)

	k, detail = firstDifference(sm(), sm("a", "1", "x"))
	require.Equal(t, statemap.Key{Type: "a", StateKey: "1"}, k)
	require.Equal(t, "unexpected after compaction (got x)", detail)
}
