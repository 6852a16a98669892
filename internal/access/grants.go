// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package access

import (
	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Grant assigns permissions to every character whose name matches Pattern.
type Grant struct {
	Pattern     string   `koanf:"pattern"`
	Permissions []string `koanf:"permissions"`
}

type compiledGrant struct {
	pattern string
	glob    glob.Glob
	perms   Permission
}

// Grants resolves a character name to its role. Immutable after construction.
type Grants struct {
	compiled []compiledGrant
}

// NewGrants compiles the grant patterns. Matching is case-sensitive glob
// matching over the character name.
//
// Returns an error if a pattern is not a valid glob or names an unknown
// permission.
func NewGrants(grants []Grant) (*Grants, error) {
	compiled := make([]compiledGrant, 0, len(grants))
	for _, g := range grants {
		pattern, err := glob.Compile(g.Pattern)
		if err != nil {
			return nil, oops.In("access").
				Code("INVALID_GRANT_PATTERN").
				With("pattern", g.Pattern).
				Wrap(err)
		}
		perms, err := ParsePermissions(g.Permissions)
		if err != nil {
			return nil, oops.In("access").With("pattern", g.Pattern).Wrap(err)
		}
		compiled = append(compiled, compiledGrant{pattern: g.Pattern, glob: pattern, perms: perms})
	}
	return &Grants{compiled: compiled}, nil
}

// RoleFor returns the union of all grants matching name. A nil Grants grants
// nothing.
func (g *Grants) RoleFor(name string) Permission {
	if g == nil {
		return PermNone
	}
	var role Permission
	for _, cg := range g.compiled {
		if cg.glob.Match(name) {
			role |= cg.perms
		}
	}
	return role
}

// Len returns the number of compiled grants.
func (g *Grants) Len() int {
	if g == nil {
		return 0
	}
	return len(g.compiled)
}
