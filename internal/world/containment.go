// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"slices"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Parent returns the direct owner of id.
func (w *World) Parent(id ulid.ULID) (*Entity, bool) {
	e, ok := w.entities[id]
	if !ok || e.owner.IsZero() {
		return nil, false
	}
	parent, ok := w.entities[e.owner]
	return parent, ok
}

// Children returns the entities directly owned by id in insertion order.
// The slice is a copy.
func (w *World) Children(id ulid.ULID) []*Entity {
	e, ok := w.entities[id]
	if !ok {
		return nil
	}
	out := make([]*Entity, 0, len(e.children))
	for _, cid := range e.children {
		if child, ok := w.entities[cid]; ok {
			out = append(out, child)
		}
	}
	return out
}

// ChildrenWith returns the children of id that carry every capability in caps,
// in insertion order.
func (w *World) ChildrenWith(id ulid.ULID, caps Capability) []*Entity {
	e, ok := w.entities[id]
	if !ok {
		return nil
	}
	var out []*Entity
	for _, cid := range e.children {
		if child, ok := w.entities[cid]; ok && child.Has(caps) {
			out = append(out, child)
		}
	}
	return out
}

// FirstChildWith returns the first child of id carrying caps.
func (w *World) FirstChildWith(id ulid.ULID, caps Capability) (*Entity, bool) {
	e, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	for _, cid := range e.children {
		if child, ok := w.entities[cid]; ok && child.Has(caps) {
			return child, true
		}
	}
	return nil, false
}

// Reparent moves id under newOwner. The child is detached from its old owner
// and appended to the end of the new owner's children in one step, and the
// Position of the child and its whole subtree is refreshed.
func (w *World) Reparent(id, newOwner ulid.ULID) error {
	child, err := w.mustGet(id)
	if err != nil {
		return err
	}
	owner, err := w.mustGet(newOwner)
	if err != nil {
		return err
	}
	if err := checkOwnership(owner, child); err != nil {
		return err
	}
	for cur := owner; cur != nil; {
		if cur.ID == child.ID {
			return oops.
				With("entity_id", id.String()).
				With("owner_id", newOwner.String()).
				Wrap(ErrContainmentCycle)
		}
		next, ok := w.Parent(cur.ID)
		if !ok {
			break
		}
		cur = next
	}

	w.unlink(child)
	child.owner = owner.ID
	owner.children = append(owner.children, child.ID)
	w.refreshPosition(child, owner.Position)
	return nil
}

// Detach makes id a root of the forest. Its Position keeps its last value.
func (w *World) Detach(id ulid.ULID) error {
	e, err := w.mustGet(id)
	if err != nil {
		return err
	}
	w.unlink(e)
	return nil
}

// Place puts id at (zone, coords). If a tile exists there the entity is
// reparented into it. Otherwise the entity is detached and its Position set
// directly, which leaves it floating outside the spatial graph.
func (w *World) Place(id ulid.ULID, zone Zone, coords Coords) error {
	if tile, ok := w.TileAt(zone, coords); ok {
		return w.Reparent(id, tile.ID)
	}
	e, err := w.mustGet(id)
	if err != nil {
		return err
	}
	if e.Has(CapTile) {
		return oops.With("entity_id", id.String()).Wrap(ErrInvalidOwner)
	}
	w.unlink(e)
	w.refreshPosition(e, Position{Zone: zone, Coords: coords})
	return nil
}

// Remove deletes id and everything it owns.
func (w *World) Remove(id ulid.ULID) error {
	e, err := w.mustGet(id)
	if err != nil {
		return err
	}
	w.unlink(e)
	w.removeTree(e)
	return nil
}

func (w *World) removeTree(e *Entity) {
	for _, cid := range e.children {
		if child, ok := w.entities[cid]; ok {
			w.removeTree(child)
		}
	}
	if e.Has(CapTile) {
		delete(w.tiles, e.Position.Key())
	}
	delete(w.entities, e.ID)
}

func (w *World) unlink(e *Entity) {
	if e.owner.IsZero() {
		return
	}
	if old, ok := w.entities[e.owner]; ok {
		if i := slices.Index(old.children, e.ID); i >= 0 {
			old.children = slices.Delete(old.children, i, i+1)
		}
	}
	e.owner = ulid.ULID{}
}

func (w *World) refreshPosition(e *Entity, pos Position) {
	e.Position = pos
	for _, cid := range e.children {
		if child, ok := w.entities[cid]; ok {
			w.refreshPosition(child, pos)
		}
	}
}

// checkOwnership enforces which capabilities may own which.
func checkOwnership(owner, child *Entity) error {
	allowed := false
	switch {
	case child.Has(CapTile):
		allowed = false
	case child.Has(CapTransition):
		allowed = owner.Has(CapTile)
	case child.Has(CapInventory):
		allowed = owner.Has(CapCharacter)
	case child.Has(CapCharacter):
		allowed = owner.Has(CapTile)
	case child.Has(CapItem):
		allowed = owner.Has(CapTile) || owner.Has(CapInventory)
	}
	if !allowed {
		return oops.
			With("entity_id", child.ID.String()).
			With("entity_caps", child.Caps.String()).
			With("owner_id", owner.ID.String()).
			With("owner_caps", owner.Caps.String()).
			Wrap(ErrInvalidOwner)
	}
	return nil
}
