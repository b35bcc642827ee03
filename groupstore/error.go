// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package groupstore

import "github.com/cockroachdb/errors"

// ErrDuplicateID means the same state group id was inserted twice.
var ErrDuplicateID = errors.New("groupstore: duplicate state group id")

// ErrMissingPredecessor means a predecessor chain references a state group
// that is not in the loaded set.
var ErrMissingPredecessor = errors.New("groupstore: missing predecessor")

// ErrCycle means a predecessor chain revisits a state group.
var ErrCycle = errors.New("groupstore: predecessor cycle")
