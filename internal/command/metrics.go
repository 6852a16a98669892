// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for command execution metrics.
const (
	StatusSuccess          = "success"
	StatusWorldError       = "world_error"
	StatusPrecondition     = "precondition_failed"
	StatusPermissionDenied = "permission_denied"
	StatusNoCharacter      = "no_character"
	StatusError            = "error"
)

// CommandExecutions is the counter for command executions.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandExecutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tilemud_command_executions_total",
		Help: "Total number of command executions",
	},
	[]string{"command", "status"},
)

// CommandDuration is the histogram for command execution duration.
var CommandDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tilemud_command_duration_seconds",
		Help:    "Command execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"command"},
)

// BusDropped counts commands rejected by a full bus.
var BusDropped = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "tilemud_command_bus_dropped_total",
		Help: "Total number of commands dropped because the bus was full",
	},
)

// BusDepth is the number of commands waiting for the next drain.
var BusDepth = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "tilemud_command_bus_depth",
		Help: "Commands queued on the bus awaiting the next tick",
	},
)

// RateLimited counts lines rejected by the rate limiter.
var RateLimited = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "tilemud_commands_rate_limited_total",
		Help: "Total number of input lines rejected by the rate limiter",
	},
)

// RegisterMetrics registers command package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(CommandExecutions)
	reg.MustRegister(CommandDuration)
	reg.MustRegister(BusDropped)
	reg.MustRegister(BusDepth)
	reg.MustRegister(RateLimited)
}

// RecordCommandExecution increments the execution counter.
func RecordCommandExecution(kind Kind, status string) {
	CommandExecutions.WithLabelValues(string(kind), status).Inc()
}

// RecordCommandDuration observes how long an executor ran.
func RecordCommandDuration(kind Kind, duration time.Duration) {
	CommandDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

// RecordBusDropped increments the dropped counter.
func RecordBusDropped() {
	BusDropped.Inc()
}

// RecordRateLimited increments the rate limited counter.
func RecordRateLimited() {
	RateLimited.Inc()
}

// StatusFor maps an executor result to a metrics status.
func StatusFor(err error) string {
	if err == nil {
		return StatusSuccess
	}
	switch ErrorCode(err) {
	case CodeWorldError:
		return StatusWorldError
	case CodePrecondition:
		return StatusPrecondition
	case CodePermissionDenied:
		return StatusPermissionDenied
	case CodeNoCharacter:
		return StatusNoCharacter
	default:
		return StatusError
	}
}
