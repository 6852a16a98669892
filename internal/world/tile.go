// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Coords is an integer position inside a zone.
// +X is east, +Y is south, +Z is up.
type Coords struct {
	X, Y, Z int
}

// Add returns c translated by o.
func (c Coords) Add(o Coords) Coords {
	return Coords{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// String returns "(x, y, z)".
func (c Coords) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Position is the cached location of an entity.
type Position struct {
	Zone   Zone
	Coords Coords
}

// Key returns the tile key for this position.
func (p Position) Key() TileKey {
	return TileKey(p)
}

// String returns "zone (x, y, z)".
func (p Position) String() string {
	return fmt.Sprintf("%s %s", p.Zone, p.Coords)
}

// TileKey identifies a tile. Coordinates are only comparable within a zone.
type TileKey struct {
	Zone   Zone
	Coords Coords
}

// Tile is the location component of a tile entity.
type Tile struct {
	Name        string
	Description string
	Sprite      string // glyph drawn on the map; only the first rune is used
	Impassable  bool
}

// AddTile creates a tile entity at the given key and registers its zone.
// Returns ErrDuplicateTile if the key is taken.
func (w *World) AddTile(zone Zone, coords Coords, tile Tile) (*Entity, error) {
	key := TileKey{Zone: zone, Coords: coords}
	if existing, ok := w.tiles[key]; ok {
		return nil, oops.
			With("zone", zone.String()).
			With("coords", coords.String()).
			With("existing_id", existing.String()).
			Wrap(ErrDuplicateTile)
	}
	if err := ValidateZone(zone); err != nil {
		return nil, err
	}
	if err := ValidateName(tile.Name); err != nil {
		return nil, err
	}
	if err := ValidateDescription(tile.Description); err != nil {
		return nil, err
	}

	t := tile
	e := w.insert(&Entity{
		Caps:     CapTile,
		Position: Position{Zone: zone, Coords: coords},
		Tile:     &t,
	})
	w.tiles[key] = e.ID
	w.RegisterZone(zone)
	return e, nil
}

// TileAt looks up the tile at (zone, coords).
func (w *World) TileAt(zone Zone, coords Coords) (*Entity, bool) {
	id, ok := w.tiles[TileKey{Zone: zone, Coords: coords}]
	if !ok {
		return nil, false
	}
	return w.entities[id], true
}

// TileCount returns the number of tiles in the spatial graph.
func (w *World) TileCount() int {
	return len(w.tiles)
}

// ParentTile returns the tile that directly owns id.
func (w *World) ParentTile(id ulid.ULID) (*Entity, bool) {
	parent, ok := w.Parent(id)
	if !ok || !parent.Has(CapTile) {
		return nil, false
	}
	return parent, true
}
