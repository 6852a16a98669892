// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package worldfile reads the YAML world description loaded before the
// first tick.
package worldfile

import (
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/tilemud/tilemud/internal/world"
)

// SupportedVersions is the semver constraint a world file version must meet.
const SupportedVersions = "^1"

// Error codes.
const (
	CodeInvalid     = "WORLDFILE_INVALID"
	CodeUnsupported = "WORLDFILE_UNSUPPORTED_VERSION"
)

// Coords is an [x, y, z] triple.
type Coords [3]int

// World converts c to world coordinates.
func (c Coords) World() world.Coords {
	return world.Coords{X: c[0], Y: c[1], Z: c[2]}
}

// File is a world file document.
type File struct {
	Version      string `yaml:"version" jsonschema:"description=Format version (semver)"`
	FallbackZone string `yaml:"fallback_zone,omitempty" jsonschema:"description=Zone used when teleporting to an unknown zone"`
	Spawn        Spawn  `yaml:"spawn"`
	Zones        []Zone `yaml:"zones" jsonschema:"minItems=1"`
}

// Spawn is where new characters appear.
type Spawn struct {
	Zone   string `yaml:"zone"`
	Coords Coords `yaml:"coords"`
}

// Zone groups the tiles of one coordinate space.
type Zone struct {
	Name  string `yaml:"name" jsonschema:"pattern=^[A-Za-z][A-Za-z0-9_-]*$,maxLength=64"`
	Tiles []Tile `yaml:"tiles,omitempty"`
}

// Tile is one cell of a zone.
type Tile struct {
	Coords      Coords       `yaml:"coords"`
	Name        string       `yaml:"name" jsonschema:"minLength=1,maxLength=100"`
	Description string       `yaml:"description,omitempty" jsonschema:"maxLength=4000"`
	Sprite      string       `yaml:"sprite,omitempty" jsonschema:"maxLength=4"`
	Impassable  bool         `yaml:"impassable,omitempty"`
	Items       []Item       `yaml:"items,omitempty"`
	Transitions []Transition `yaml:"transitions,omitempty"`
}

// Item lies on a tile when the world loads.
type Item struct {
	Name      string   `yaml:"name" jsonschema:"minLength=1,maxLength=100"`
	ShortName string   `yaml:"short_name,omitempty"`
	Tags      []string `yaml:"tags,omitempty" jsonschema:"maxItems=10"`
	Takable   bool     `yaml:"takable,omitempty"`
}

// Transition is a one-way edge from its tile to a destination.
type Transition struct {
	Tags   []string `yaml:"tags,omitempty" jsonschema:"maxItems=10"`
	Zone   string   `yaml:"zone"`
	Coords Coords   `yaml:"coords"`
}

// SpawnPosition returns the spawn as a world position.
func (f *File) SpawnPosition() world.Position {
	return world.Position{Zone: world.Zone(f.Spawn.Zone), Coords: f.Spawn.Coords.World()}
}

// Fallback returns the fallback zone, world.ZoneVoid when unset.
func (f *File) Fallback() world.Zone {
	if f.FallbackZone == "" {
		return world.ZoneVoid
	}
	return world.Zone(f.FallbackZone)
}

// Parse decodes and validates a world file.
func Parse(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, oops.In("worldfile").Code(CodeInvalid).Errorf("world file is empty")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, oops.In("worldfile").Code(CodeInvalid).Wrapf(err, "invalid YAML")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadFile reads path, checks it against the JSON Schema and parses it.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, oops.In("worldfile").With("path", path).Wrapf(err, "read world file")
	}
	if err := ValidateSchema(data); err != nil {
		return nil, oops.In("worldfile").Code(CodeInvalid).With("path", path).Wrap(err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return f, nil
}

// Validate checks what the schema cannot: the version constraint, zone
// names, duplicate declarations and that the spawn tile exists.
func (f *File) Validate() error {
	errb := oops.In("worldfile").Code(CodeInvalid)

	v, err := semver.NewVersion(f.Version)
	if err != nil {
		return errb.With("version", f.Version).Wrapf(err, "version must be semver")
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return oops.In("worldfile").Wrap(err)
	}
	if !constraint.Check(v) {
		return oops.In("worldfile").Code(CodeUnsupported).
			With("version", f.Version).
			With("supported", SupportedVersions).
			Errorf("unsupported world file version %s", f.Version)
	}

	if f.FallbackZone != "" {
		if err := world.ValidateZone(world.Zone(f.FallbackZone)); err != nil {
			return errb.Wrap(err)
		}
	}

	zones := make(map[string]struct{}, len(f.Zones))
	tiles := make(map[world.TileKey]struct{})
	for _, z := range f.Zones {
		if err := world.ValidateZone(world.Zone(z.Name)); err != nil {
			return errb.With("zone", z.Name).Wrap(err)
		}
		if _, dup := zones[z.Name]; dup {
			return errb.With("zone", z.Name).Errorf("zone %q declared twice", z.Name)
		}
		zones[z.Name] = struct{}{}

		for _, t := range z.Tiles {
			key := world.TileKey{Zone: world.Zone(z.Name), Coords: t.Coords.World()}
			if _, dup := tiles[key]; dup {
				return errb.With("zone", z.Name).
					With("coords", key.Coords.String()).
					Errorf("tile declared twice")
			}
			tiles[key] = struct{}{}
		}
	}

	spawn := f.SpawnPosition()
	if _, ok := tiles[spawn.Key()]; !ok {
		return errb.With("spawn", spawn.String()).Errorf("spawn has no tile")
	}
	return nil
}
