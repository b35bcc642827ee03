// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package groupstore owns the state groups loaded for one compression run
// and resolves the full state of any group by walking its predecessor
// chain.
package groupstore

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/matrix-org/state-compressor/statemap"
)

// GroupID identifies a state group. Ids are assigned by the host database
// and are never negative.
type GroupID int64

// NoGroup is the absent-predecessor sentinel. A group whose Prev is NoGroup
// is a snapshot root; its delta is its full resolved state.
const NoGroup GroupID = -1

// Group is one state group: an optional predecessor and the delta of state
// changes over it. InRange marks groups inside the chunk under compression;
// groups loaded only because an in-range group references them are context
// and are never rewritten.
type Group struct {
	ID      GroupID
	Prev    GroupID
	Delta   *statemap.Map
	InRange bool
}

// Store holds the groups of one room chunk, indexed by id.
type Store struct {
	groups map[GroupID]*Group
	ids    []GroupID
	sorted bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{groups: make(map[GroupID]*Group)}
}

// Insert adds g to the store. It fails with ErrDuplicateID if a group with
// the same id is already present.
func (s *Store) Insert(g *Group) error {
	if _, ok := s.groups[g.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "state group %d", g.ID)
	}
	s.groups[g.ID] = g
	s.ids = append(s.ids, g.ID)
	s.sorted = false
	return nil
}

// Get returns the group with the given id, if present.
func (s *Store) Get(id GroupID) (*Group, bool) {
	g, ok := s.groups[id]
	return g, ok
}

// Len returns the number of groups in the store.
func (s *Store) Len() int {
	return len(s.groups)
}

// IDs returns every group id in ascending order.
func (s *Store) IDs() []GroupID {
	if !s.sorted {
		slices.Sort(s.ids)
		s.sorted = true
	}
	return s.ids
}

// InRangeIDs returns the ids of the in-range groups in ascending order.
func (s *Store) InRangeIDs() []GroupID {
	var ids []GroupID
	for _, id := range s.IDs() {
		if s.groups[id].InRange {
			ids = append(ids, id)
		}
	}
	return ids
}

// RowCount returns the total number of delta rows stored across all groups.
func (s *Store) RowCount() uint64 {
	var n uint64
	for _, g := range s.groups {
		n += uint64(g.Delta.Len())
	}
	return n
}

// chain returns the ids from id back to its root, nearest first. It fails
// with ErrMissingPredecessor if the walk leaves the loaded set and ErrCycle
// if it revisits a group.
func (s *Store) chain(id GroupID) ([]GroupID, error) {
	var ids []GroupID
	visited := make(map[GroupID]struct{})
	for cur := id; cur != NoGroup; {
		if _, ok := visited[cur]; ok {
			return nil, errors.Wrapf(ErrCycle, "resolving state group %d revisits %d", id, cur)
		}
		visited[cur] = struct{}{}
		g, ok := s.groups[cur]
		if !ok {
			return nil, errors.Wrapf(ErrMissingPredecessor, "state group %d references %d", id, cur)
		}
		ids = append(ids, cur)
		cur = g.Prev
	}
	return ids, nil
}

// Resolve materializes the full state of the group: the union of the deltas
// along the predecessor chain, with nearer deltas overriding farther ones.
func (s *Store) Resolve(id GroupID) (*statemap.Map, error) {
	ids, err := s.chain(id)
	if err != nil {
		return nil, err
	}
	state := statemap.New()
	for i := len(ids) - 1; i >= 0; i-- {
		state.MergeFrom(s.groups[ids[i]].Delta)
	}
	return state, nil
}

// Resolver resolves group state with a per-group cache. Resolving a group
// caches the resolved state of every group on its chain, so repeated
// resolves of nearby groups share the common prefix work. Resolver is not
// safe for concurrent use; the parallel equivalence check gives each
// goroutine its own.
type Resolver struct {
	store *Store
	cache map[GroupID]*statemap.Map
}

// NewResolver returns a Resolver over store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{
		store: store,
		cache: make(map[GroupID]*statemap.Map),
	}
}

// Resolve is Store.Resolve through the cache. The returned map is shared
// with the cache and must not be modified.
func (r *Resolver) Resolve(id GroupID) (*statemap.Map, error) {
	if state, ok := r.cache[id]; ok {
		return state, nil
	}
	ids, err := r.store.chain(id)
	if err != nil {
		return nil, err
	}
	// Find the nearest cached ancestor, then materialize and cache every
	// group between it and id.
	var state *statemap.Map
	start := len(ids)
	for i := 1; i < len(ids); i++ {
		if cached, ok := r.cache[ids[i]]; ok {
			state = cached
			start = i
			break
		}
	}
	if state == nil {
		state = statemap.New()
	}
	for i := start - 1; i >= 0; i-- {
		g := r.store.groups[ids[i]]
		next := state.Clone()
		next.MergeFrom(g.Delta)
		r.cache[ids[i]] = next
		state = next
	}
	return state, nil
}
