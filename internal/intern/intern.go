// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package intern interns strings. Event types, state keys and event ids
// recur across nearly every state group in a room, so a loader that interns
// while reading rows holds one copy of each distinct string instead of one
// per delta row.
package intern

import "sync"

var pool = sync.Pool{
	New: func() interface{} {
		return make(map[string]string)
	},
}

// Bytes returns b converted to a string, interned.
func Bytes(b []byte) string {
	m := pool.Get().(map[string]string)
	s, ok := m[string(b)]
	if !ok {
		s = string(b)
		m[s] = s
	}
	pool.Put(m)
	return s
}

// String returns s interned.
func String(s string) string {
	m := pool.Get().(map[string]string)
	c, ok := m[s]
	if !ok {
		c = s
		m[s] = s
	}
	pool.Put(m)
	return c
}
