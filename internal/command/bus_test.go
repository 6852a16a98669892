// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import (
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultBusCapacity, NewBus(0).Capacity())
	assert.Equal(t, DefaultBusCapacity, NewBus(-1).Capacity())
	assert.Equal(t, 8, NewBus(8).Capacity())
}

func TestBus_FIFO(t *testing.T) {
	bus := NewBus(0)
	a, b := ulid.Make(), ulid.Make()
	require.NoError(t, bus.Publish(Queued{ClientID: a, Command: Look{}}))
	require.NoError(t, bus.Publish(Queued{ClientID: b, Command: Who{}}))
	require.NoError(t, bus.Publish(Queued{ClientID: a, Command: Map{}}))

	got := bus.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, Look{}, got[0].Command)
	assert.Equal(t, Who{}, got[1].Command)
	assert.Equal(t, Map{}, got[2].Command)

	assert.Empty(t, bus.Drain())
	assert.Equal(t, 0, bus.Len())
}

func TestBus_FullRejects(t *testing.T) {
	bus := NewBus(2)
	before := testutil.ToFloat64(BusDropped)

	require.NoError(t, bus.Publish(Queued{Command: Look{}}))
	require.NoError(t, bus.Publish(Queued{Command: Look{}}))
	err := bus.Publish(Queued{Command: Who{}})

	assert.ErrorIs(t, err, ErrBusFull)
	assert.Equal(t, CodeBusFull, ErrorCode(err))
	assert.Equal(t, 2, bus.Len())
	assert.Equal(t, before+1, testutil.ToFloat64(BusDropped))

	bus.Drain()
	assert.NoError(t, bus.Publish(Queued{Command: Who{}}), "drain frees capacity")
}

func TestBus_DepthGauge(t *testing.T) {
	bus := NewBus(0)
	require.NoError(t, bus.Publish(Queued{Command: Look{}}))
	require.NoError(t, bus.Publish(Queued{Command: Look{}}))
	assert.Equal(t, 2.0, testutil.ToFloat64(BusDepth))
	bus.Drain()
	assert.Equal(t, 0.0, testutil.ToFloat64(BusDepth))
}

func TestBus_ConcurrentPublishAndDrain(t *testing.T) {
	bus := NewBus(0)
	const publishers, each = 8, 100

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for range publishers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				assert.NoError(t, bus.Publish(Queued{Command: Look{}}))
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 20 {
			n := len(bus.Drain())
			mu.Lock()
			total += n
			mu.Unlock()
		}
	}()
	wg.Wait()
	<-done
	total += len(bus.Drain())
	assert.Equal(t, publishers*each, total)
}
