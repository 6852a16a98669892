// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

// directionOffsets maps every direction token, long and short, to its offset.
var directionOffsets = map[string]Coords{
	"north":     {X: 0, Y: -1, Z: 0},
	"n":         {X: 0, Y: -1, Z: 0},
	"northeast": {X: 1, Y: -1, Z: 0},
	"ne":        {X: 1, Y: -1, Z: 0},
	"east":      {X: 1, Y: 0, Z: 0},
	"e":         {X: 1, Y: 0, Z: 0},
	"southeast": {X: 1, Y: 1, Z: 0},
	"se":        {X: 1, Y: 1, Z: 0},
	"south":     {X: 0, Y: 1, Z: 0},
	"s":         {X: 0, Y: 1, Z: 0},
	"southwest": {X: -1, Y: 1, Z: 0},
	"sw":        {X: -1, Y: 1, Z: 0},
	"west":      {X: -1, Y: 0, Z: 0},
	"w":         {X: -1, Y: 0, Z: 0},
	"northwest": {X: -1, Y: -1, Z: 0},
	"nw":        {X: -1, Y: -1, Z: 0},
	"up":        {X: 0, Y: 0, Z: 1},
	"u":         {X: 0, Y: 0, Z: 1},
	"down":      {X: 0, Y: 0, Z: -1},
	"d":         {X: 0, Y: 0, Z: -1},
}

// OffsetFor returns the coordinate offset for a direction token.
// Unknown tokens return false; callers treat that as "not a movement".
func OffsetFor(direction string) (Coords, bool) {
	offset, ok := directionOffsets[direction]
	return offset, ok
}
