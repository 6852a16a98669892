// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import "sync"

// DefaultBusCapacity is the number of commands a bus holds between drains.
const DefaultBusCapacity = 4096

// Bus is a bounded FIFO of recognised commands. Publishers may run
// concurrently; Drain hands over everything queued so far in one step.
type Bus struct {
	mu       sync.Mutex
	queue    []Queued
	capacity int
}

// NewBus creates a bus holding at most capacity commands. A non-positive
// capacity uses DefaultBusCapacity.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultBusCapacity
	}
	return &Bus{capacity: capacity}
}

// Publish appends q. Returns ErrBusFull without queueing when the bus is at
// capacity.
func (b *Bus) Publish(q Queued) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) >= b.capacity {
		RecordBusDropped()
		return ErrBusFull
	}
	b.queue = append(b.queue, q)
	BusDepth.Set(float64(len(b.queue)))
	return nil
}

// Drain returns every queued command in publish order and empties the bus.
func (b *Bus) Drain() []Queued {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.queue
	b.queue = nil
	BusDepth.Set(0)
	return out
}

// Len returns the number of queued commands.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Capacity returns the bus bound.
func (b *Bus) Capacity() int {
	return b.capacity
}
