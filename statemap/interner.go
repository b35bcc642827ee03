// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package statemap

import "github.com/matrix-org/state-compressor/internal/intern"

// Interner deduplicates the strings that make up keys and values. Loaders
// feed every row through one Interner so that the thousands of repetitions
// of each event type, state key and event id share storage.
type Interner struct{}

// Key returns the interned key for an event type and state key.
func (Interner) Key(eventType, stateKey string) Key {
	return Key{
		Type:     intern.String(eventType),
		StateKey: intern.String(stateKey),
	}
}

// KeyBytes is Key for loaders that read raw bytes.
func (Interner) KeyBytes(eventType, stateKey []byte) Key {
	return Key{
		Type:     intern.Bytes(eventType),
		StateKey: intern.Bytes(stateKey),
	}
}

// Value returns the interned event id.
func (Interner) Value(eventID string) string {
	return intern.String(eventID)
}

// ValueBytes is Value for loaders that read raw bytes.
func (Interner) ValueBytes(eventID []byte) string {
	return intern.Bytes(eventID)
}
