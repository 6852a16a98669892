// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

// Renderer turns a tile into the text shown to a player.
type Renderer interface {
	RenderTile(tile *Entity, brief bool) string
}

// TextRenderer is the default Renderer: the tile name, followed by the
// description unless brief is set.
type TextRenderer struct{}

// RenderTile implements Renderer.
func (TextRenderer) RenderTile(tile *Entity, brief bool) string {
	if tile == nil || tile.Tile == nil {
		return ""
	}
	if brief || tile.Tile.Description == "" {
		return tile.Tile.Name
	}
	return tile.Tile.Name + "\n" + tile.Tile.Description
}
