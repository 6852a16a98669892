// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package core

import (
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
)

// DefaultOutboxCapacity is the per-client message buffer.
const DefaultOutboxCapacity = 64

// Outbox holds one buffered message queue per connected client. It
// implements command.Sink.
type Outbox struct {
	mu       sync.RWMutex
	subs     map[ulid.ULID]chan string
	capacity int
}

// NewOutbox creates an outbox. A non-positive capacity uses
// DefaultOutboxCapacity.
func NewOutbox(capacity int) *Outbox {
	if capacity <= 0 {
		capacity = DefaultOutboxCapacity
	}
	return &Outbox{
		subs:     make(map[ulid.ULID]chan string),
		capacity: capacity,
	}
}

// Subscribe creates the queue for a client. Subscribing twice returns the
// existing queue.
func (o *Outbox) Subscribe(clientID ulid.ULID) <-chan string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ch, ok := o.subs[clientID]; ok {
		return ch
	}
	ch := make(chan string, o.capacity)
	o.subs[clientID] = ch
	return ch
}

// Unsubscribe removes and closes a client's queue. Unknown clients are
// ignored.
func (o *Outbox) Unsubscribe(clientID ulid.ULID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ch, ok := o.subs[clientID]; ok {
		delete(o.subs, clientID)
		close(ch)
	}
}

// Send queues text for a client without blocking. Messages for unknown
// clients and messages that do not fit are dropped.
func (o *Outbox) Send(clientID ulid.ULID, text string) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ch, ok := o.subs[clientID]
	if !ok {
		slog.Debug("message dropped: client not subscribed",
			"client_id", clientID.String(),
		)
		return
	}
	select {
	case ch <- text:
	default:
		slog.Warn("message dropped: client buffer full",
			"client_id", clientID.String(),
			"capacity", o.capacity,
		)
	}
}

// Len returns the number of subscribed clients.
func (o *Outbox) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}
