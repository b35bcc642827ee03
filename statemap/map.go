// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package statemap implements the key to event-id mapping that makes up the
// resolved state of a state group, along with the merge and diff operations
// the compressor is built on.
package statemap

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/swiss"
)

// Key identifies one piece of room state: an event type paired with a state
// key. Equality is exact byte equality on both fields.
type Key struct {
	Type     string
	StateKey string
}

// Compare orders keys lexicographically by (Type, StateKey).
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Type, o.Type); c != 0 {
		return c
	}
	return strings.Compare(k.StateKey, o.StateKey)
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("(%s, %s)", k.Type, k.StateKey)
}

const hashMix = 11400714819323198485

func keyHash(k *Key, seed uintptr) uintptr {
	h := uint64(seed) * hashMix
	h ^= xxhash.Sum64String(k.Type)
	h = h*hashMix ^ xxhash.Sum64String(k.StateKey)
	return uintptr(h)
}

var mapOptions = []swiss.Option[Key, string]{
	swiss.WithHash[Key, string](keyHash),
}

// Map is a mapping from Key to the event id holding that key's state
// assignment. Iteration order is unspecified; two maps are equal iff they
// hold the same keys with equal values. The zero value is not usable; use
// New or NewWithCapacity.
type Map struct {
	m swiss.Map[Key, string]
}

// New returns an empty Map.
func New() *Map {
	return NewWithCapacity(0)
}

// NewWithCapacity returns an empty Map sized for n entries.
func NewWithCapacity(n int) *Map {
	m := &Map{}
	m.m.Init(n, mapOptions...)
	return m
}

// Get returns the value assigned to k, if any.
func (m *Map) Get(k Key) (string, bool) {
	return m.m.Get(k)
}

// Set assigns v to k, overwriting any existing assignment.
func (m *Map) Set(k Key, v string) {
	m.m.Put(k, v)
}

// Len returns the number of assignments.
func (m *Map) Len() int {
	return m.m.Len()
}

// All calls fn for every assignment until fn returns false. The iteration
// order is unspecified; callers that need determinism use SortedKeys.
func (m *Map) All(fn func(k Key, v string) bool) {
	m.m.All(fn)
}

// SortedKeys returns the keys in (Type, StateKey) lexicographic order.
func (m *Map) SortedKeys() []Key {
	keys := make([]Key, 0, m.Len())
	m.m.All(func(k Key, _ string) bool {
		keys = append(keys, k)
		return true
	})
	slices.SortFunc(keys, Key.Compare)
	return keys
}

// Clone returns an independent copy of the map.
func (m *Map) Clone() *Map {
	c := NewWithCapacity(m.Len())
	m.m.All(func(k Key, v string) bool {
		c.m.Put(k, v)
		return true
	})
	return c
}

// MergeFrom overwrites assignments in m with every assignment in other.
func (m *Map) MergeFrom(other *Map) {
	other.m.All(func(k Key, v string) bool {
		m.m.Put(k, v)
		return true
	})
}

// DiffOver returns the assignments in m that base does not already hold:
// every (k, v) such that base has no assignment for k or assigns a
// different value. Applying the result on top of base reproduces every
// assignment of m.
func (m *Map) DiffOver(base *Map) *Map {
	d := New()
	m.m.All(func(k Key, v string) bool {
		if bv, ok := base.Get(k); !ok || bv != v {
			d.m.Put(k, v)
		}
		return true
	})
	return d
}

// CoversKeysOf reports whether every key assigned in other is also assigned
// (to any value) in m. A candidate predecessor is only usable as a delta
// base when the group's resolved state covers the predecessor's keys, since
// deltas can override values but never remove keys.
func (m *Map) CoversKeysOf(other *Map) bool {
	covered := true
	other.m.All(func(k Key, _ string) bool {
		if _, ok := m.m.Get(k); !ok {
			covered = false
			return false
		}
		return true
	})
	return covered
}

// Equal reports whether m and other hold exactly the same assignments.
func (m *Map) Equal(other *Map) bool {
	if m == other {
		return true
	}
	if m.Len() != other.Len() {
		return false
	}
	eq := true
	m.m.All(func(k Key, v string) bool {
		if ov, ok := other.m.Get(k); !ok || ov != v {
			eq = false
			return false
		}
		return true
	})
	return eq
}

// String renders the map in sorted order, for diagnostics and tests.
func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.SortedKeys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := m.Get(k)
		fmt.Fprintf(&sb, "%s: %s", k, v)
	}
	sb.WriteByte('}')
	return sb.String()
}
