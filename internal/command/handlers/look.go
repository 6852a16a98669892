// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"

	"github.com/tilemud/tilemud/internal/command"
)

// LookHandler shows the full view of the requester's tile.
func LookHandler(ctx context.Context, exec *command.Execution) error {
	_, tile, err := locate(exec)
	if err != nil {
		return err
	}
	writeOutput(ctx, exec, command.KindLook, exec.Services.Renderer.RenderTile(tile, false))
	return nil
}
