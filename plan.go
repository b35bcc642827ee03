// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/matrix-org/state-compressor/groupstore"
	"github.com/matrix-org/state-compressor/statemap"
)

// Row is one state_groups_state row: a state key assignment to an event
// id.
type Row struct {
	Type     string
	StateKey string
	Value    string
}

func (r Row) compare(o Row) int {
	if c := strings.Compare(r.Type, o.Type); c != 0 {
		return c
	}
	if c := strings.Compare(r.StateKey, o.StateKey); c != 0 {
		return c
	}
	return strings.Compare(r.Value, o.Value)
}

// GroupChange describes the database changes for one state group: the
// predecessor edge rewrite and the row-level delta difference.
type GroupChange struct {
	ID groupstore.GroupID

	// OldPrev and NewPrev are the predecessor before and after compaction;
	// NoGroup when absent. Equal when only the delta rows changed.
	OldPrev groupstore.GroupID
	NewPrev groupstore.GroupID

	// DeletedRows are present in the old delta and absent or different in
	// the new one; AddedRows the reverse. Both are sorted by
	// (type, state_key, value).
	DeletedRows []Row
	AddedRows   []Row
}

// EdgeChanged reports whether the predecessor edge needs rewriting.
func (c *GroupChange) EdgeChanged() bool {
	return c.OldPrev != c.NewPrev
}

// Plan is the full set of changes needed to move a room chunk from the old
// store to the new one, packaged for an external database writer. Changes
// are ordered by ascending group id.
type Plan struct {
	RoomID  string
	Changes []GroupChange
}

// Empty reports whether the compaction changed nothing.
func (p *Plan) Empty() bool {
	return len(p.Changes) == 0
}

// buildPlan diffs the two stores. Only in-range groups can appear; context
// groups are carried through compaction bit-identical.
func buildPlan(roomID string, old, new *groupstore.Store) Plan {
	p := Plan{RoomID: roomID}
	for _, id := range old.InRangeIDs() {
		og, _ := old.Get(id)
		ng, _ := new.Get(id)
		if og.Prev == ng.Prev && og.Delta.Equal(ng.Delta) {
			continue
		}
		p.Changes = append(p.Changes, GroupChange{
			ID:          id,
			OldPrev:     og.Prev,
			NewPrev:     ng.Prev,
			DeletedRows: sortedRows(og.Delta.DiffOver(ng.Delta)),
			AddedRows:   sortedRows(ng.Delta.DiffOver(og.Delta)),
		})
	}
	return p
}

func sortedRows(m *statemap.Map) []Row {
	rows := make([]Row, 0, m.Len())
	m.All(func(k statemap.Key, v string) bool {
		rows = append(rows, Row{Type: k.Type, StateKey: k.StateKey, Value: v})
		return true
	})
	slices.SortFunc(rows, Row.compare)
	return rows
}

// sqlWriter latches the first write error so the rendering code can stay
// free of per-statement error checks.
type sqlWriter struct {
	w   io.Writer
	err error
}

func (sw *sqlWriter) printf(format string, args ...interface{}) {
	if sw.err == nil {
		_, sw.err = fmt.Fprintf(sw.w, format, args...)
	}
}

// WriteSQL renders the plan as PostgreSQL statements against the
// state_group_edges and state_groups_state tables. With transactions set,
// the statements for each group are wrapped in their own transaction so
// that a crash mid-apply leaves every group in either its old or new
// consistent form.
func (p *Plan) WriteSQL(w io.Writer, transactions bool) error {
	sw := &sqlWriter{w: w}
	for i := range p.Changes {
		c := &p.Changes[i]
		if transactions {
			sw.printf("BEGIN;\n")
		}
		if c.EdgeChanged() {
			sw.printf("DELETE FROM state_group_edges WHERE state_group = %d;\n", c.ID)
			if c.NewPrev != groupstore.NoGroup {
				sw.printf("INSERT INTO state_group_edges (state_group, prev_state_group) VALUES (%d, %d);\n",
					c.ID, c.NewPrev)
			}
		}
		for _, r := range c.DeletedRows {
			sw.printf("DELETE FROM state_groups_state WHERE state_group = %d AND type = %s AND state_key = %s;\n",
				c.ID, pgQuote(r.Type), pgQuote(r.StateKey))
		}
		if len(c.AddedRows) > 0 {
			sw.printf("INSERT INTO state_groups_state (state_group, room_id, type, state_key, event_id) VALUES\n")
			for j, r := range c.AddedRows {
				sep := "    ,"
				if j == 0 {
					sep = "     "
				}
				sw.printf("%s(%d, %s, %s, %s, %s)\n",
					sep, c.ID, pgQuote(p.RoomID), pgQuote(r.Type), pgQuote(r.StateKey), pgQuote(r.Value))
			}
			sw.printf(";\n")
		}
		if transactions {
			sw.printf("COMMIT;\n")
		}
		sw.printf("\n")
	}
	return sw.err
}

// pgQuote renders s as a PostgreSQL dollar-quoted literal, growing the tag
// until it neither occurs in the contents nor overlaps a contents suffix.
// Deterministic so repeated renders of the same plan are byte-identical.
func pgQuote(s string) string {
	tag := ""
	for strings.Contains(s, "$"+tag+"$") || strings.HasSuffix(s, "$"+tag) {
		tag += "q"
	}
	return "$" + tag + "$" + s + "$" + tag + "$"
}
