// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package compressor rewrites the predecessor topology of a room's state
// groups so that the resolved state of every group is preserved while the
// number of stored delta rows shrinks.
//
// The algorithm builds a tree of deltas out of the flat predecessor chains
// the host database accumulates. It keeps a stack of "levels", each with a
// maximum chain length. State groups are visited in ascending id order and
// each is chained onto the smallest level that is not yet full; filling a
// level promotes the next group to the level above and restarts the chains
// below it. For two levels the result looks roughly like:
//
//	L2 <-------------------- L2 <---------- ...
//	 ^--- L1 <--- L1 <--- L1  ^--- L1 <--- L1 <--- L1
//
// The sum of the level sizes bounds the number of delta merges needed to
// resolve any group's state.
//
// The package operates purely in memory on a loaded groupstore.Store. Run
// compresses, verifies that every group still resolves to exactly the same
// state, and returns a row-level Plan for an external writer to apply.
package compressor
