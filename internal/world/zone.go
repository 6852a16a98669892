// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package world

import "slices"

// Zone names a partition of the coordinate space.
type Zone string

// Built-in zones.
const (
	ZoneVoid     Zone = "void"
	ZoneMovement Zone = "movement"
)

var builtinZones = []Zone{ZoneVoid, ZoneMovement}

// String returns the zone name.
func (z Zone) String() string {
	return string(z)
}

// RegisterZone makes z a known zone. Registering twice is a no-op.
func (w *World) RegisterZone(z Zone) {
	if _, ok := w.zoneSet[z]; ok {
		return
	}
	w.zoneSet[z] = struct{}{}
	w.zones = append(w.zones, z)
}

// Zones returns the known zones in registration order.
func (w *World) Zones() []Zone {
	return slices.Clone(w.zones)
}

// LookupZone returns the known zone with the given name.
func (w *World) LookupZone(name string) (Zone, bool) {
	z := Zone(name)
	_, ok := w.zoneSet[z]
	return z, ok
}

// ResolveZone maps name to a known zone, falling back to the fallback zone
// when the name is unknown.
func (w *World) ResolveZone(name string) Zone {
	if z, ok := w.LookupZone(name); ok {
		return z
	}
	return w.fallback
}

// FallbackZone returns the zone used for unknown names.
func (w *World) FallbackZone() Zone {
	return w.fallback
}
