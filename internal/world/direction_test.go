// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetFor(t *testing.T) {
	tests := []struct {
		long, short string
		want        Coords
	}{
		{"north", "n", Coords{0, -1, 0}},
		{"northeast", "ne", Coords{1, -1, 0}},
		{"east", "e", Coords{1, 0, 0}},
		{"southeast", "se", Coords{1, 1, 0}},
		{"south", "s", Coords{0, 1, 0}},
		{"southwest", "sw", Coords{-1, 1, 0}},
		{"west", "w", Coords{-1, 0, 0}},
		{"northwest", "nw", Coords{-1, -1, 0}},
		{"up", "u", Coords{0, 0, 1}},
		{"down", "d", Coords{0, 0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.long, func(t *testing.T) {
			got, ok := OffsetFor(tt.long)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)

			got, ok = OffsetFor(tt.short)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOffsetForUnknown(t *testing.T) {
	got, ok := OffsetFor("sideways")
	assert.False(t, ok)
	assert.Equal(t, Coords{}, got)

	_, ok = OffsetFor("North")
	assert.False(t, ok, "tokens are lowercase")
}

func TestCoordsAdd(t *testing.T) {
	assert.Equal(t, Coords{X: 3, Y: 1, Z: -1}, Coords{X: 2, Y: 2}.Add(Coords{X: 1, Y: -1, Z: -1}))
	assert.Equal(t, "(1, 2, 3)", Coords{1, 2, 3}.String())
}
