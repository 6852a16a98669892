// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package world contains the world model: an arena of entities joined by
// containment edges, and the spatial graph of tiles keyed by zone and
// coordinates.
//
// Containment is the single source of truth for where an entity is. Every
// entity also carries a Position, a denormalized cache that always equals the
// key of the nearest Tile ancestor. The cache is refreshed by every operation
// that changes an owner edge, so callers may read it freely but must never
// assign it directly.
//
// A World is not safe for concurrent use. The engine owns it from a single
// goroutine.
package world

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// World is the entity arena plus the tile index.
type World struct {
	entities map[ulid.ULID]*Entity
	tiles    map[TileKey]ulid.ULID
	zones    []Zone
	zoneSet  map[Zone]struct{}
	fallback Zone
	newID    func() ulid.ULID
}

// Option configures a World during construction.
type Option func(*World)

// WithFallbackZone sets the zone that ResolveZone returns for unknown names.
// Defaults to ZoneVoid.
func WithFallbackZone(z Zone) Option {
	return func(w *World) {
		w.fallback = z
	}
}

// WithIDGenerator overrides entity ID generation. Tests use it to get
// predictable IDs.
func WithIDGenerator(fn func() ulid.ULID) Option {
	return func(w *World) {
		w.newID = fn
	}
}

// New creates an empty world with the built-in zones registered.
func New(opts ...Option) *World {
	w := &World{
		entities: make(map[ulid.ULID]*Entity),
		tiles:    make(map[TileKey]ulid.ULID),
		zoneSet:  make(map[Zone]struct{}),
		fallback: ZoneVoid,
		newID:    ulid.Make,
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, z := range builtinZones {
		w.RegisterZone(z)
	}
	w.RegisterZone(w.fallback)
	return w
}

// Get returns the entity with the given ID.
func (w *World) Get(id ulid.ULID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Len returns the number of entities in the world.
func (w *World) Len() int {
	return len(w.entities)
}

func (w *World) mustGet(id ulid.ULID) (*Entity, error) {
	e, ok := w.entities[id]
	if !ok {
		return nil, oops.With("entity_id", id.String()).Wrap(ErrNotFound)
	}
	return e, nil
}

func (w *World) insert(e *Entity) *Entity {
	if e.ID.IsZero() {
		e.ID = w.newID()
	}
	w.entities[e.ID] = e
	return e
}
