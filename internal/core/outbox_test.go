// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxSendAndReceive(t *testing.T) {
	ob := NewOutbox(0)
	id := NewULID()
	ch := ob.Subscribe(id)

	ob.Send(id, "hello")
	select {
	case got := <-ch:
		assert.Equal(t, "hello", got)
	default:
		t.Fatal("expected a queued message")
	}
}

func TestOutboxSubscribeTwiceReturnsSameQueue(t *testing.T) {
	ob := NewOutbox(0)
	id := NewULID()
	assert.Equal(t, ob.Subscribe(id), ob.Subscribe(id))
	assert.Equal(t, 1, ob.Len())
}

func TestOutboxDropsWhenFull(t *testing.T) {
	ob := NewOutbox(2)
	id := NewULID()
	ch := ob.Subscribe(id)

	ob.Send(id, "one")
	ob.Send(id, "two")
	ob.Send(id, "three")

	require.Len(t, ch, 2)
	assert.Equal(t, "one", <-ch)
	assert.Equal(t, "two", <-ch)
}

func TestOutboxUnsubscribeClosesQueue(t *testing.T) {
	ob := NewOutbox(0)
	id := NewULID()
	ch := ob.Subscribe(id)

	ob.Unsubscribe(id)
	ob.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, ob.Len())
	assert.NotPanics(t, func() { ob.Send(id, "late") })
}
