// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemud/tilemud/internal/access"
	"github.com/tilemud/tilemud/pkg/errutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestLineLimits_Defaults(t *testing.T) {
	tests := []struct {
		name   string
		limits LineLimits
		want   LineLimits
	}{
		{"zero", LineLimits{}, LineLimits{Burst: 10, Rate: 2, IdleAfter: time.Hour}},
		{"negative", LineLimits{Burst: -1, Rate: -1}, LineLimits{Burst: 10, Rate: 2, IdleAfter: time.Hour}},
		{"custom", LineLimits{Burst: 3, Rate: 5, IdleAfter: time.Minute}, LineLimits{Burst: 3, Rate: 5, IdleAfter: time.Minute}},
		{"rate floor", LineLimits{Rate: 0.01}, LineLimits{Burst: 10, Rate: 0.1, IdleAfter: time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewLineLimiter(tt.limits, nil).Limits())
		})
	}
}

func TestLineLimiter_BurstThenCooldown(t *testing.T) {
	l := NewLineLimiter(LineLimits{Burst: 3, Rate: 2}, nil)
	client := ulid.Make()

	for i := range 3 {
		require.NoError(t, l.Admit(client, access.PermNone, epoch), "line %d", i)
	}

	before := testutil.ToFloat64(RateLimited)
	err := l.Admit(client, access.PermNone, epoch)
	errutil.AssertErrorCode(t, err, CodeRateLimited)
	errutil.AssertErrorContext(t, err, "cooldown_ms", int64(500))
	assert.Equal(t, "Too many commands. Please slow down.", PlayerMessage(err))
	assert.InDelta(t, before+1, testutil.ToFloat64(RateLimited), 0.001)
}

func TestLineLimiter_RefillsFromLineTimestamps(t *testing.T) {
	l := NewLineLimiter(LineLimits{Burst: 1, Rate: 2}, nil)
	client := ulid.Make()

	require.NoError(t, l.Admit(client, access.PermNone, epoch))
	require.Error(t, l.Admit(client, access.PermNone, epoch.Add(100*time.Millisecond)))
	assert.NoError(t, l.Admit(client, access.PermNone, epoch.Add(600*time.Millisecond)))
}

func TestLineLimiter_OutOfOrderStampsDoNotRefill(t *testing.T) {
	l := NewLineLimiter(LineLimits{Burst: 1, Rate: 1}, nil)
	client := ulid.Make()

	require.NoError(t, l.Admit(client, access.PermNone, epoch.Add(time.Second)))
	assert.Error(t, l.Admit(client, access.PermNone, epoch))
}

func TestLineLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLineLimiter(LineLimits{Burst: 1, Rate: 1}, nil)
	a, b := ulid.Make(), ulid.Make()

	require.NoError(t, l.Admit(a, access.PermNone, epoch))
	require.Error(t, l.Admit(a, access.PermNone, epoch))
	assert.NoError(t, l.Admit(b, access.PermNone, epoch))
}

func TestLineLimiter_BypassRole(t *testing.T) {
	l := NewLineLimiter(LineLimits{Burst: 1, Rate: 0.1}, nil)
	client := ulid.Make()

	for range 5 {
		require.NoError(t, l.Admit(client, access.PermRateLimitBypass|access.PermTeleport, epoch))
	}
	assert.Zero(t, l.Len(), "bypass never creates a bucket")
}

func TestLineLimiter_ForgetAndSweep(t *testing.T) {
	reg := prometheus.NewRegistry()
	l := NewLineLimiter(LineLimits{IdleAfter: 10 * time.Minute}, reg)
	a, b := ulid.Make(), ulid.Make()

	require.NoError(t, l.Admit(a, access.PermNone, epoch))
	require.NoError(t, l.Admit(b, access.PermNone, epoch))
	assert.Equal(t, 2, l.Len())
	assert.InDelta(t, 2.0, testutil.ToFloat64(l.clients), 0.001)

	l.Forget(a)
	assert.Equal(t, 1, l.Len())
	assert.InDelta(t, 1.0, testutil.ToFloat64(l.clients), 0.001)

	// b idles past IdleAfter; a's new line triggers the sweep.
	require.NoError(t, l.Admit(a, access.PermNone, epoch.Add(11*time.Minute)))
	assert.Equal(t, 1, l.Len())
	_, tracked := l.buckets[b]
	assert.False(t, tracked)
}
