// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import (
	"math"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tilemud/tilemud/internal/access"
)

// Line limit defaults.
const (
	DefaultBurstCapacity = 10
	DefaultSustainedRate = 2.0

	// DefaultIdleAfter is how long a client's bucket survives without input.
	DefaultIdleAfter = time.Hour

	minSustainedRate = 0.1
	sweepInterval    = time.Minute
)

// LineLimits configures a LineLimiter. Zero values take the defaults.
type LineLimits struct {
	// Burst is how many lines a client may send back to back.
	Burst int
	// Rate is the refill rate in lines per second.
	Rate float64
	// IdleAfter drops buckets of clients that sent nothing for this long.
	IdleAfter time.Duration
}

func (l LineLimits) withDefaults() LineLimits {
	if l.Burst <= 0 {
		l.Burst = DefaultBurstCapacity
	}
	if l.Rate <= 0 {
		l.Rate = DefaultSustainedRate
	}
	l.Rate = math.Max(l.Rate, minSustainedRate)
	if l.IdleAfter <= 0 {
		l.IdleAfter = DefaultIdleAfter
	}
	return l
}

type lineBucket struct {
	tokens float64
	seen   time.Time
}

// LineLimiter meters input lines per client with a token bucket. Time is
// taken from the lines themselves, so a tick admits its lines in the order
// they arrived.
//
// A LineLimiter belongs to the engine goroutine and is not safe for
// concurrent use. Idle buckets are swept from Admit, there is no background
// goroutine.
type LineLimiter struct {
	limits    LineLimits
	buckets   map[ulid.ULID]*lineBucket
	lastSweep time.Time
	clients   prometheus.Gauge // nil without a registry
}

// NewLineLimiter creates a limiter. reg may be nil; otherwise a gauge of
// tracked clients is registered on it.
func NewLineLimiter(limits LineLimits, reg prometheus.Registerer) *LineLimiter {
	l := &LineLimiter{
		limits:  limits.withDefaults(),
		buckets: make(map[ulid.ULID]*lineBucket),
	}
	if reg != nil {
		l.clients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tilemud_ratelimiter_clients",
			Help: "Current number of clients tracked by the line limiter",
		})
		reg.MustRegister(l.clients)
	}
	return l
}

// Limits returns the effective limits.
func (l *LineLimiter) Limits() LineLimits {
	return l.limits
}

// Admit spends one token of clientID's bucket for a line received at at.
// Roles holding access.PermRateLimitBypass are admitted without touching the
// bucket. A rejection is counted in RateLimited and returned as a
// RATE_LIMITED error carrying the cooldown.
func (l *LineLimiter) Admit(clientID ulid.ULID, role access.Permission, at time.Time) error {
	if access.Can(role, access.PermRateLimitBypass) {
		return nil
	}
	l.sweep(at)

	b, ok := l.buckets[clientID]
	if !ok {
		b = &lineBucket{tokens: float64(l.limits.Burst), seen: at}
		l.buckets[clientID] = b
		l.report()
	}
	// Lines of one tick can carry slightly out-of-order stamps.
	if at.After(b.seen) {
		b.tokens = math.Min(float64(l.limits.Burst), b.tokens+at.Sub(b.seen).Seconds()*l.limits.Rate)
		b.seen = at
	}

	if b.tokens >= 1 {
		b.tokens--
		return nil
	}

	RecordRateLimited()
	cooldown := time.Duration((1 - b.tokens) / l.limits.Rate * float64(time.Second))
	return ErrRateLimited(cooldown.Milliseconds())
}

// Forget drops the bucket of a client that logged out.
func (l *LineLimiter) Forget(clientID ulid.ULID) {
	delete(l.buckets, clientID)
	l.report()
}

// Len returns the number of tracked clients.
func (l *LineLimiter) Len() int {
	return len(l.buckets)
}

// sweep drops idle buckets at most once per sweepInterval.
func (l *LineLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for id, b := range l.buckets {
		if now.Sub(b.seen) > l.limits.IdleAfter {
			delete(l.buckets, id)
		}
	}
	l.report()
}

func (l *LineLimiter) report() {
	if l.clients != nil {
		l.clients.Set(float64(len(l.buckets)))
	}
}
