// Copyright 2026 The State Compressor Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compressor

import "github.com/prometheus/client_golang/prometheus"

// Metrics accumulates counters across compression runs. The caller
// registers it with its prometheus registry; the core only increments.
type Metrics struct {
	// Runs counts completed runs that produced a plan.
	Runs prometheus.Counter
	// RunsSkipped counts runs abandoned for insufficient savings.
	RunsSkipped prometheus.Counter
	// ForcedResets counts forced full-state roots across runs.
	ForcedResets prometheus.Counter
	// GroupsChanged counts rewritten state groups across runs.
	GroupsChanged prometheus.Counter
	// RowsSaved counts net delta rows removed across runs.
	RowsSaved prometheus.Counter
}

// NewMetrics returns a Metrics with all counters initialized.
func NewMetrics() *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "state_compressor",
			Name:      name,
			Help:      help,
		})
	}
	return &Metrics{
		Runs:          counter("runs_total", "Completed compression runs."),
		RunsSkipped:   counter("runs_skipped_total", "Runs abandoned for insufficient savings."),
		ForcedResets:  counter("forced_resets_total", "Forced full-state roots."),
		GroupsChanged: counter("groups_changed_total", "State groups rewritten."),
		RowsSaved:     counter("rows_saved_total", "Net delta rows removed."),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.Runs.Describe(ch)
	m.RunsSkipped.Describe(ch)
	m.ForcedResets.Describe(ch)
	m.GroupsChanged.Describe(ch)
	m.RowsSaved.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.Runs.Collect(ch)
	m.RunsSkipped.Collect(ch)
	m.ForcedResets.Collect(ch)
	m.GroupsChanged.Collect(ch)
	m.RowsSaved.Collect(ch)
}

func (m *Metrics) observe(stats Stats) {
	m.Runs.Inc()
	m.ForcedResets.Add(float64(stats.ForcedResets))
	m.GroupsChanged.Add(float64(stats.GroupsChanged))
	if saved := stats.RowsSaved(); saved > 0 {
		m.RowsSaved.Add(float64(saved))
	}
}
