// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package command turns text lines into structured commands and runs them.
//
// Resolution happens in two phases. Matchers recognise a line and publish a
// Queued command onto the Bus. Once per tick the Dispatcher drains the bus and
// hands each command to the executor registered for its Kind.
package command

import (
	"context"
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tilemud/tilemud/internal/access"
	"github.com/tilemud/tilemud/internal/world"
)

// Kind names a command family. Each Kind has one matcher and one executor.
type Kind string

// Command kinds in registration order.
const (
	KindTake     Kind = "take"
	KindMovement Kind = "movement"
	KindEnter    Kind = "enter"
	KindTeleport Kind = "teleport"
	KindLook     Kind = "look"
	KindMap      Kind = "map"
	KindWho      Kind = "who"
)

// Command is a recognised, structured command.
type Command interface {
	Kind() Kind
}

// Take picks items up from the current tile.
type Take struct {
	All    bool
	Target string // trimmed and lowercased
}

// Movement steps one tile in a direction.
type Movement struct {
	Direction string
}

// Enter traverses a transition on the current tile.
type Enter struct {
	Target   string // trimmed
	Targeted bool   // false means the first transition
}

// Teleport places the requester at an arbitrary position.
type Teleport struct {
	Here   bool
	Zone   string // raw zone name, unset when Here
	Coords world.Coords
}

// Look shows the current tile.
type Look struct{}

// Map draws the surrounding tiles.
type Map struct{}

// Who lists online characters.
type Who struct{}

func (Take) Kind() Kind     { return KindTake }
func (Movement) Kind() Kind { return KindMovement }
func (Enter) Kind() Kind    { return KindEnter }
func (Teleport) Kind() Kind { return KindTeleport }
func (Look) Kind() Kind     { return KindLook }
func (Map) Kind() Kind      { return KindMap }
func (Who) Kind() Kind      { return KindWho }

// Queued is a command waiting on the bus.
type Queued struct {
	ClientID   ulid.ULID
	Command    Command
	ReceivedAt time.Time
}

// Handler executes one command.
type Handler func(ctx context.Context, exec *Execution) error

// Entry is a registered executor.
type Entry struct {
	Kind     Kind
	Handler  Handler
	Requires access.Permission // every bit must be held by the requester's role
}

// Execution is the context handed to a Handler.
type Execution struct {
	ClientID    ulid.ULID
	CharacterID ulid.ULID
	Command     Command
	Output      io.Writer
	Services    *Services
}

// Directory resolves clients to characters. Implemented by the session
// manager.
type Directory interface {
	CharacterFor(clientID ulid.ULID) (ulid.ULID, bool)
	OnlineNames() []string
}

// Services are the collaborators executors may use. Handlers MUST NOT keep
// references beyond the execution.
type Services struct {
	World     *world.World
	Renderer  world.Renderer
	Directory Directory
}

// ServicesConfig holds the inputs for NewServices.
type ServicesConfig struct {
	World     *world.World
	Renderer  world.Renderer
	Directory Directory
}

// NewServices validates cfg. Renderer defaults to world.TextRenderer.
func NewServices(cfg ServicesConfig) (*Services, error) {
	if cfg.World == nil {
		return nil, ErrNilWorld
	}
	if cfg.Directory == nil {
		return nil, ErrNilDirectory
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = world.TextRenderer{}
	}
	return &Services{World: cfg.World, Renderer: renderer, Directory: cfg.Directory}, nil
}

// Character returns the requester's character entity.
func (e *Execution) Character() (*world.Entity, error) {
	ent, ok := e.Services.World.Get(e.CharacterID)
	if !ok || ent.Character == nil {
		return nil, ErrPrecondition("requester has no character", nil)
	}
	return ent, nil
}
