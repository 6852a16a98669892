// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

// Package access provides the permission bitmask carried by characters and the
// operator grants that assign permissions at login.
//
// A role is a Permission mask. A role can do p when it carries every bit of p:
//
//	access.Can(role, access.PermTeleport)
package access

import (
	"slices"
	"strings"

	"github.com/samber/oops"
)

// Permission is a bit set of privileges.
type Permission uint16

// Permission bits.
const (
	PermTeleport Permission = 1 << iota
	PermRateLimitBypass

	// PermNone grants nothing.
	PermNone Permission = 0
)

// CodeUnknownPermission is the oops code for unknown permission names.
const CodeUnknownPermission = "UNKNOWN_PERMISSION"

var permissionNames = map[string]Permission{
	"teleport":         PermTeleport,
	"ratelimit_bypass": PermRateLimitBypass,
}

// Can reports whether role carries every bit of p.
func Can(role, p Permission) bool {
	return role&p == p
}

// ParsePermission maps a permission name to its bit. Names are case-insensitive.
func ParsePermission(name string) (Permission, error) {
	p, ok := permissionNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PermNone, oops.Code(CodeUnknownPermission).
			With("permission", name).
			Errorf("unknown permission %q", name)
	}
	return p, nil
}

// ParsePermissions ORs together the named permissions.
func ParsePermissions(names []string) (Permission, error) {
	var out Permission
	for _, name := range names {
		p, err := ParsePermission(name)
		if err != nil {
			return PermNone, err
		}
		out |= p
	}
	return out, nil
}

// String returns the permission names joined with "|", sorted.
func (p Permission) String() string {
	if p == PermNone {
		return "none"
	}
	var names []string
	for name, bit := range permissionNames {
		if p&bit != 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return strings.Join(names, "|")
}
