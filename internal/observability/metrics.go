// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// commandOutputFailures is package-level so executors can count failed
// writes without holding a Metrics.
var commandOutputFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tilemud_command_output_failures_total",
		Help: "Total number of command output write failures by command",
	},
	[]string{"command"},
)

// RecordCommandOutputFailure counts a failed executor output write.
func RecordCommandOutputFailure(command string) {
	commandOutputFailures.WithLabelValues(command).Inc()
}

// Metrics are the process-level counters shared by the engine and the
// telnet adapter.
type Metrics struct {
	// ConnectionsTotal counts accepted connections by transport.
	ConnectionsTotal *prometheus.CounterVec
	// LoginsTotal counts login attempts by status (success, failure).
	LoginsTotal *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them, together with the
// output failure counter, on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConnectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tilemud_connections_total",
			Help: "Total number of accepted connections by transport",
		}, []string{"type"}),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tilemud_logins_total",
			Help: "Total number of character logins by result",
		}, []string{"status"}),
	}
	reg.MustRegister(m.ConnectionsTotal, m.LoginsTotal, commandOutputFailures)
	return m
}

// EngineStats is the read-only view of the tick loop exported as metrics.
type EngineStats interface {
	Ticks() uint64
	Online() int
}

// RegisterEngine exports the tick counter and the online count of stats.
// Values are read at scrape time.
func RegisterEngine(reg prometheus.Registerer, stats EngineStats) {
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "tilemud_engine_ticks_total",
			Help: "Total number of completed engine ticks",
		}, func() float64 { return float64(stats.Ticks()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "tilemud_characters_online",
			Help: "Number of logged-in characters",
		}, func() float64 { return float64(stats.Online()) }),
	)
}
