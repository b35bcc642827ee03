// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// Stats describes what one compression run did.
type Stats struct {
	// OldRows is the number of delta rows in the loaded store.
	OldRows uint64

	// NewRows is the number of delta rows in the compacted store.
	NewRows uint64

	// ForcedResets counts the groups for which no feasible predecessor
	// could be found, forcing a full-state root.
	ForcedResets uint64

	// ForcedResetRows is the total number of rows in the full-state deltas
	// emitted by forced resets.
	ForcedResetRows uint64

	// GroupsChanged counts the groups whose predecessor or delta differs
	// from the loaded store.
	GroupsChanged uint64

	// EquivalenceOK records that the post-compaction equivalence check
	// passed. Always true in a returned Result; a failed check aborts the
	// run with ErrEquivalence instead.
	EquivalenceOK bool
}

// RowsSaved returns the net reduction in delta rows. Negative when the
// compression would grow the table.
func (s Stats) RowsSaved() int64 {
	return int64(s.OldRows) - int64(s.NewRows)
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s Stats) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s rows -> %s rows (%d saved), %s forced resets (%s rows), %s groups changed",
		crhumanize.Count(s.OldRows, crhumanize.Compact),
		crhumanize.Count(s.NewRows, crhumanize.Compact),
		s.RowsSaved(),
		crhumanize.Count(s.ForcedResets, crhumanize.Compact),
		crhumanize.Count(s.ForcedResetRows, crhumanize.Compact),
		crhumanize.Count(s.GroupsChanged, crhumanize.Compact),
	)
}
