// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"github.com/matrix-org/state-compressor/groupstore"
)

// level tracks one band of the layered delta tree: its maximum chain
// length, the approximate length of the chain currently being built, and
// the group at the head of that chain.
type level struct {
	maxLength   int
	chainLength int
	head        groupstore.GroupID
}

func makeLevel(maxLength int) level {
	return level{maxLength: maxLength, head: groupstore.NoGroup}
}

// hasSpace reports whether the current chain at this level can be extended.
// If not, a new chain must be started.
func (l *level) hasSpace() bool {
	return l.chainLength < l.maxLength
}

// update makes id the head of this level. If extend is true the group
// chains onto the previous head; otherwise the level starts a new chain
// containing only id.
func (l *level) update(id groupstore.GroupID, extend bool) {
	l.head = id
	if extend {
		if l.chainLength >= l.maxLength {
			panic("compressor: tried to extend a full level")
		}
		l.chainLength++
	} else {
		l.chainLength = 1
	}
}

// levelStack is the bounded layered structure that assigns each placed
// group its new predecessor.
type levelStack []level

func makeLevelStack(sizes LevelSizes) levelStack {
	ls := make(levelStack, len(sizes))
	for i, size := range sizes {
		ls[i] = makeLevel(size)
	}
	return ls
}

// place assigns id to the lowest level with space in its current chain and
// returns the new predecessor: that level's previous head, or NoGroup when
// the group starts a chain with no head to link to. Every full level below
// the placement restarts its chain at id. If every level is full the group
// becomes a root and all levels restart at it.
func (ls levelStack) place(id groupstore.GroupID) groupstore.GroupID {
	for i := range ls {
		l := &ls[i]
		if l.hasSpace() {
			prev := l.head
			l.update(id, true)
			return prev
		}
		l.update(id, false)
	}
	return groupstore.NoGroup
}
