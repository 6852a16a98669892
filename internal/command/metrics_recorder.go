// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import "time"

// MetricsRecorder tracks metrics for a single command execution.
type MetricsRecorder struct {
	startTime time.Time
	kind      Kind
	status    string
}

// NewMetricsRecorder starts timing an execution of kind.
func NewMetricsRecorder(kind Kind) *MetricsRecorder {
	return &MetricsRecorder{startTime: time.Now(), kind: kind, status: StatusSuccess}
}

// SetResult derives the status from the executor's error.
func (m *MetricsRecorder) SetResult(err error) {
	m.status = StatusFor(err)
}

// Record writes the collected metrics.
func (m *MetricsRecorder) Record() {
	if m.kind == "" {
		return
	}
	RecordCommandExecution(m.kind, m.status)
	RecordCommandDuration(m.kind, time.Since(m.startTime))
}
