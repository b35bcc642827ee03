// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import (
	"fmt"
	"log"
	"runtime"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Logger defines an interface for writing log messages.
type Logger interface {
	Infof(format string, args ...interface{})
}

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger struct{}

// Infof implements the Logger.Infof interface.
func (DefaultLogger) Infof(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
}

// LevelSizes configures the layered delta tree: the maximum chain length of
// each level, innermost first. The sum of the sizes is the upper bound on
// the number of delta merges needed to resolve any compressed group.
type LevelSizes []int

// DefaultLevelSizes is the level configuration used when none is supplied.
var DefaultLevelSizes = LevelSizes{100, 50, 25}

// ParseLevelSizes parses a comma separated list of level sizes, e.g.
// "100,50,25".
func ParseLevelSizes(s string) (LevelSizes, error) {
	parts := strings.Split(s, ",")
	sizes := make(LevelSizes, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Newf("level sizes %q: not a comma separated list of numbers", s)
		}
		sizes = append(sizes, n)
	}
	if err := sizes.Validate(); err != nil {
		return nil, err
	}
	return sizes, nil
}

// Validate checks that the configuration is usable.
func (ls LevelSizes) Validate() error {
	if len(ls) == 0 {
		return errors.New("level sizes must not be empty")
	}
	for _, n := range ls {
		if n <= 0 {
			return errors.Newf("level sizes must be positive, got %d", n)
		}
	}
	return nil
}

// MaxDepth returns the bound on predecessor hops needed to resolve any
// group placed by this configuration.
func (ls LevelSizes) MaxDepth() int {
	var sum int
	for _, n := range ls {
		sum += n
	}
	return sum
}

// String implements fmt.Stringer, inverting ParseLevelSizes.
func (ls LevelSizes) String() string {
	var sb strings.Builder
	for i, n := range ls {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

// Options holds the configuration for one compression run.
type Options struct {
	// RoomID is the room whose state groups are being compressed. It is
	// used for diagnostics and for the room_id column of emitted rows.
	RoomID string

	// LevelSizes configures the layered delta tree. Defaults to
	// DefaultLevelSizes.
	LevelSizes LevelSizes

	// MinSavedRows aborts the run with ErrInsufficientSavings when the
	// compression would save fewer rows than this. The default of zero
	// still refuses plans that would grow the table.
	MinSavedRows int64

	// Transactions records whether the caller renders SQL with a
	// transaction per state group. Run does not read it; Plan.WriteSQL
	// takes its own transactions argument, which is what wraps each
	// group's statements.
	Transactions bool

	// Parallelism bounds the goroutines used by the equivalence check.
	// Defaults to GOMAXPROCS.
	Parallelism int

	// Logger for phase progress. Defaults to DefaultLogger.
	Logger Logger

	// Metrics, if set, accumulates run counters for export.
	Metrics *Metrics
}

// EnsureDefaults fills unset fields with default values, returning the
// receiver for convenience.
func (o *Options) EnsureDefaults() *Options {
	if o.LevelSizes == nil {
		o.LevelSizes = DefaultLevelSizes
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	return o
}
