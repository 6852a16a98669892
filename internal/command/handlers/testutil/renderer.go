// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/tilemud/tilemud/internal/world"
)

// MockRenderer is a testify mock of world.Renderer.
type MockRenderer struct {
	mock.Mock
}

// RenderTile implements world.Renderer.
func (m *MockRenderer) RenderTile(tile *world.Entity, brief bool) string {
	args := m.Called(tile, brief)
	return args.String(0)
}
