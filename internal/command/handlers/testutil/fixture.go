// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package testutil builds small worlds for executor tests.
package testutil

import (
	"bytes"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/tilemud/tilemud/internal/command"
	"github.com/tilemud/tilemud/internal/world"
)

// Directory is an in-memory command.Directory.
type Directory struct {
	characters map[ulid.ULID]ulid.ULID
	names      []string
}

// CharacterFor implements command.Directory.
func (d *Directory) CharacterFor(clientID ulid.ULID) (ulid.ULID, bool) {
	id, ok := d.characters[clientID]
	return id, ok
}

// OnlineNames implements command.Directory.
func (d *Directory) OnlineNames() []string {
	return append([]string(nil), d.names...)
}

// Attach records clientID as controlling the named character.
func (d *Directory) Attach(clientID, characterID ulid.ULID, name string) {
	d.characters[clientID] = characterID
	d.names = append(d.names, name)
}

// Fixture is a world plus the services executors need.
type Fixture struct {
	t         *testing.T
	World     *world.World
	Directory *Directory
	Renderer  world.Renderer
}

// NewFixture creates an empty world with the default text renderer.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{
		t:         t,
		World:     world.New(),
		Directory: &Directory{characters: make(map[ulid.ULID]ulid.ULID)},
		Renderer:  world.TextRenderer{},
	}
}

// WithRenderer replaces the renderer handed to executors.
func (f *Fixture) WithRenderer(r world.Renderer) *Fixture {
	f.Renderer = r
	return f
}

// Services builds command services over the fixture.
func (f *Fixture) Services() *command.Services {
	f.t.Helper()
	svc, err := command.NewServices(command.ServicesConfig{
		World:     f.World,
		Renderer:  f.Renderer,
		Directory: f.Directory,
	})
	require.NoError(f.t, err)
	return svc
}

// Exec builds an execution of cmd for player, returning the output buffer.
func (f *Fixture) Exec(player Player, cmd command.Command) (*command.Execution, *bytes.Buffer) {
	var out bytes.Buffer
	return &command.Execution{
		ClientID:    player.ClientID,
		CharacterID: player.Character.ID,
		Command:     cmd,
		Output:      &out,
		Services:    f.Services(),
	}, &out
}
