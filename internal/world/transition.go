// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Transition is a tagged one-way edge from its owning tile to a destination
// key. No reverse edge is implied.
type Transition struct {
	Tags   []string
	Zone   Zone
	Coords Coords
}

// HasTag reports whether tag, trimmed, equals one of the transition's tags
// ignoring case.
func (t *Transition) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, have := range t.Tags {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

// Destination returns the key of the tile this transition leads to.
func (t *Transition) Destination() TileKey {
	return TileKey{Zone: t.Zone, Coords: t.Coords}
}

// AddTransition attaches a transition to the origin tile. The destination is
// not required to exist yet.
func (w *World) AddTransition(tileID ulid.ULID, tr Transition) (*Entity, error) {
	if err := ValidateTags(tr.Tags); err != nil {
		return nil, err
	}
	if err := ValidateZone(tr.Zone); err != nil {
		return nil, err
	}
	t := tr
	t.Tags = append([]string(nil), tr.Tags...)
	return w.addChild(tileID, &Entity{Caps: CapTransition, Transition: &t})
}

// Transitions returns the transitions owned by a tile in insertion order.
func (w *World) Transitions(tileID ulid.ULID) []*Entity {
	return w.ChildrenWith(tileID, CapTransition)
}
