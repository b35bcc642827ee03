// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package invariants provides assertions that are compiled away unless the
// "invariants" or "race" build tags are set.
package invariants

import "fmt"

// CheckTrue panics with the formatted message when cond is false, in
// invariant builds only.
func CheckTrue(cond bool, format string, args ...interface{}) {
	if Enabled && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
