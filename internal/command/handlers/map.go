// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/world"
)

// Map dimensions. The requester is drawn at (MapWidth/2, MapHeight/2).
const (
	MapWidth  = 64
	MapHeight = 16
)

// MapHandler draws the tiles around the requester's Position on its z level.
// It reads the Position cache, so a character floating off-graph still gets
// a map.
func MapHandler(ctx context.Context, exec *command.Execution) error {
	character, err := exec.Character()
	if err != nil {
		return err
	}
	writeOutput(ctx, exec, command.KindMap, renderMap(exec.Services.World, character.Position))
	return nil
}

func renderMap(w *world.World, pos world.Position) string {
	originX := pos.Coords.X - MapWidth/2
	originY := pos.Coords.Y - MapHeight/2

	var b strings.Builder
	b.WriteString(pos.Zone.String())
	for row := range MapHeight {
		b.WriteByte('\n')
		for col := range MapWidth {
			if col == MapWidth/2 && row == MapHeight/2 {
				b.WriteRune('@')
				continue
			}
			at := world.Coords{X: originX + col, Y: originY + row, Z: pos.Coords.Z}
			b.WriteRune(spriteAt(w, pos.Zone, at))
		}
	}
	return b.String()
}

func spriteAt(w *world.World, zone world.Zone, at world.Coords) rune {
	tile, ok := w.TileAt(zone, at)
	if !ok || tile.Tile.Sprite == "" {
		return ' '
	}
	r, _ := utf8.DecodeRuneInString(tile.Tile.Sprite)
	return r
}
