// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"testing"

	"github.com/matrix-org/state-compressor/groupstore"
	"github.com/stretchr/testify/require"
)

func TestLevelStartsEmpty(t *testing.T) {
	l := makeLevel(15)
	require.Equal(t, 15, l.maxLength)
	require.Equal(t, 0, l.chainLength)
	require.Equal(t, groupstore.NoGroup, l.head)
	require.True(t, l.hasSpace())
}

func TestLevelUpdateExtends(t *testing.T) {
	l := makeLevel(10)
	l.update(7, true)
	require.Equal(t, 1, l.chainLength)
	require.Equal(t, groupstore.GroupID(7), l.head)
}

func TestLevelUpdatePanicsWhenFull(t *testing.T) {
	l := makeLevel(5)
	for id := groupstore.GroupID(1); id <= 5; id++ {
		l.update(id, true)
	}
	require.False(t, l.hasSpace())
	require.Panics(t, func() { l.update(6, true) })
}

func TestLevelUpdateRestartsChain(t *testing.T) {
	l := makeLevel(5)
	for id := groupstore.GroupID(1); id <= 5; id++ {
		l.update(id, true)
	}
	l.update(6, false)
	require.Equal(t, 1, l.chainLength)
	require.Equal(t, groupstore.GroupID(6), l.head)
	require.True(t, l.hasSpace())
}

func TestLevelHasSpacePartFull(t *testing.T) {
	l := makeLevel(15)
	for id := groupstore.GroupID(1); id <= 5; id++ {
		l.update(id, true)
	}
	require.True(t, l.hasSpace())
}

// TestLevelStackPlace walks a straight chain of fourteen groups through a
// [3, 3] stack and checks every assigned predecessor:
//
//	0  3\      12
//	1  4 6\    13
//	2  5 7 9
//	     8 10
//	       11
func TestLevelStackPlace(t *testing.T) {
	ls := makeLevelStack(LevelSizes{3, 3})
	expected := map[groupstore.GroupID]groupstore.GroupID{
		0: groupstore.NoGroup,
		1: 0, 2: 1,
		3: groupstore.NoGroup,
		4: 3, 5: 4,
		6: 3, 7: 6, 8: 7,
		9: 6, 10: 9, 11: 10,
		12: groupstore.NoGroup,
		13: 12,
	}
	for id := groupstore.GroupID(0); id <= 13; id++ {
		prev := ls.place(id)
		require.Equal(t, expected[id], prev, "state group %d", id)
		require.Less(t, prev, id)
	}
}
