// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"github.com/samber/oops"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/world"
)

// locate returns the requester's character and the tile that owns it.
// A character floating outside the spatial graph is a precondition failure.
func locate(exec *command.Execution) (character, tile *world.Entity, err error) {
	character, err = exec.Character()
	if err != nil {
		return nil, nil, err
	}
	tile, ok := exec.Services.World.ParentTile(character.ID)
	if !ok {
		return nil, nil, command.ErrPrecondition("requester is not on a tile",
			oops.With("character_id", character.ID.String()).
				With("position", character.Position.String()).
				Errorf("no parent tile"))
	}
	return character, tile, nil
}

// commandAs asserts the queued command has the type the executor expects.
func commandAs[T command.Command](exec *command.Execution) (T, error) {
	cmd, ok := exec.Command.(T)
	if !ok {
		var zero T
		return zero, command.ErrPrecondition("unexpected command type",
			oops.With("want", string(zero.Kind())).Errorf("got %T", exec.Command))
	}
	return cmd, nil
}
