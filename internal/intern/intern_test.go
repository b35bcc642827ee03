// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package intern

import (
	"bytes"
	"testing"
)

func TestBytes(t *testing.T) {
	const typ = "m.room.member"
	b := bytes.Repeat([]byte(typ), 3)
	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, Bytes(b[i*len(typ):(i+1)*len(typ)]))
	}
	for _, s := range got {
		if s != typ {
			t.Fatalf("got %q, want %q", s, typ)
		}
	}
}

func TestString(t *testing.T) {
	a := String("$event:one")
	b := String("$event:" + "one")
	if a != b {
		t.Fatalf("got %q and %q", a, b)
	}
}
