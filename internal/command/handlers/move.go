// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"

	"github.com/samber/oops"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/world"
)

// MovementHandler steps the requester one tile in a direction within the
// current zone and shows the destination.
func MovementHandler(ctx context.Context, exec *command.Execution) error {
	cmd, err := commandAs[command.Movement](exec)
	if err != nil {
		return err
	}
	character, tile, err := locate(exec)
	if err != nil {
		return err
	}

	offset, ok := world.OffsetFor(cmd.Direction)
	if !ok {
		return command.ErrPrecondition("unknown direction",
			oops.With("direction", cmd.Direction).Errorf("no offset"))
	}

	w := exec.Services.World
	here := tile.Position
	destination, ok := w.TileAt(here.Zone, here.Coords.Add(offset))
	if !ok {
		return command.WorldError("You can't go that way.", nil)
	}
	if destination.Tile.Impassable {
		return command.WorldError("Something blocks your path.", nil)
	}

	if err := w.Reparent(character.ID, destination.ID); err != nil {
		return oops.With("destination", destination.Position.String()).Wrap(err)
	}

	writeOutput(ctx, exec, command.KindMovement,
		exec.Services.Renderer.RenderTile(destination, character.Character.Config.Brief))
	return nil
}
