// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package command

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tilemud/tilemud/internal/world"
)

// Publisher accepts recognised commands. Implemented by Bus.
type Publisher interface {
	Publish(q Queued) error
}

// Matcher recognises one command kind. The pattern is compiled on first use
// and never changes afterwards, so a Matcher is safe for concurrent use.
type Matcher struct {
	kind    Kind
	pattern string
	build   func(re *regexp.Regexp, m []string) Command

	once sync.Once
	re   *regexp.Regexp
}

// NewMatcher creates a matcher for kind. build receives the compiled pattern
// and the submatches of an accepted line.
func NewMatcher(kind Kind, pattern string, build func(re *regexp.Regexp, m []string) Command) *Matcher {
	return &Matcher{kind: kind, pattern: pattern, build: build}
}

// Kind returns the command kind this matcher produces.
func (m *Matcher) Kind() Kind {
	return m.kind
}

// Pattern returns the source of the matcher's regular expression.
func (m *Matcher) Pattern() string {
	return m.pattern
}

func (m *Matcher) compiled() *regexp.Regexp {
	m.once.Do(func() {
		m.re = regexp.MustCompile(m.pattern)
	})
	return m.re
}

// Match returns the command for line, or false when the line is not this
// matcher's grammar.
func (m *Matcher) Match(line string) (Command, bool) {
	re := m.compiled()
	sub := re.FindStringSubmatch(line)
	if sub == nil {
		return nil, false
	}
	cmd := m.build(re, sub)
	if cmd == nil {
		return nil, false
	}
	return cmd, true
}

// Matchers is an ordered, immutable list of matchers.
type Matchers struct {
	list []*Matcher
	now  func() time.Time
}

// NewMatchers builds a registry from the given matchers, tried in order.
func NewMatchers(ms ...*Matcher) *Matchers {
	return &Matchers{list: ms, now: time.Now}
}

// DefaultMatchers returns the process-wide matcher registry. It is built on
// the first call; every pattern is compiled at that point.
var DefaultMatchers = sync.OnceValue(func() *Matchers {
	ms := NewMatchers(
		takeMatcher(),
		movementMatcher(),
		enterMatcher(),
		teleportMatcher(),
		lookMatcher(),
		mapMatcher(),
		whoMatcher(),
	)
	for _, m := range ms.list {
		m.compiled()
	}
	return ms
})

// Kinds returns the matcher kinds in the order they are tried.
func (ms *Matchers) Kinds() []Kind {
	kinds := make([]Kind, len(ms.list))
	for i, m := range ms.list {
		kinds[i] = m.kind
	}
	return kinds
}

// Match runs the matchers in order and returns the first accepted command.
func (ms *Matchers) Match(line string) (Command, bool) {
	for _, m := range ms.list {
		if cmd, ok := m.Match(line); ok {
			return cmd, true
		}
	}
	return nil, false
}

// Parse matches line and publishes at most one command for clientID. It
// reports whether a matcher accepted the line. A publish failure drops the
// command and is logged; the line still counts as matched.
func (ms *Matchers) Parse(clientID ulid.ULID, line string, pub Publisher) bool {
	cmd, ok := ms.Match(line)
	if !ok {
		return false
	}
	err := pub.Publish(Queued{ClientID: clientID, Command: cmd, ReceivedAt: ms.now()})
	if err != nil {
		slog.Warn("dropping command",
			"client_id", clientID.String(),
			"command", string(cmd.Kind()),
			"error", err,
		)
	}
	return true
}

func group(re *regexp.Regexp, m []string, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || i >= len(m) {
		return ""
	}
	return m[i]
}

func takeMatcher() *Matcher {
	return NewMatcher(KindTake, `^(take|get) ((?P<all>all) )?(?P<target>.+)$`,
		func(re *regexp.Regexp, m []string) Command {
			return Take{
				All:    group(re, m, "all") != "",
				Target: strings.ToLower(strings.TrimSpace(group(re, m, "target"))),
			}
		})
}

func movementMatcher() *Matcher {
	return NewMatcher(KindMovement,
		`^(north|n|northeast|ne|east|e|southeast|se|south|s|southwest|sw|west|w|northwest|nw|up|u|down|d)$`,
		func(_ *regexp.Regexp, m []string) Command {
			return Movement{Direction: m[1]}
		})
}

func enterMatcher() *Matcher {
	return NewMatcher(KindEnter, `^(enter)(?P<transition> .+)?$`,
		func(re *regexp.Regexp, m []string) Command {
			raw := group(re, m, "transition")
			if raw == "" {
				return Enter{}
			}
			return Enter{Target: strings.TrimSpace(raw), Targeted: true}
		})
}

// Coordinates are a single digit per axis inside literal parentheses.
func teleportMatcher() *Matcher {
	return NewMatcher(KindTeleport, `^(teleport|tp) (?P<zone>here|.+) \((?P<x>\d) (?P<y>\d) (?P<z>\d)\)$`,
		func(re *regexp.Regexp, m []string) Command {
			var coords world.Coords
			for _, axis := range []struct {
				name string
				dst  *int
			}{{"x", &coords.X}, {"y", &coords.Y}, {"z", &coords.Z}} {
				v, err := strconv.Atoi(group(re, m, axis.name))
				if err != nil {
					return nil
				}
				*axis.dst = v
			}
			zone := group(re, m, "zone")
			if zone == "here" {
				return Teleport{Here: true, Coords: coords}
			}
			return Teleport{Zone: zone, Coords: coords}
		})
}

func lookMatcher() *Matcher {
	return NewMatcher(KindLook, `^(look|l)$`, func(_ *regexp.Regexp, _ []string) Command { return Look{} })
}

func mapMatcher() *Matcher {
	return NewMatcher(KindMap, `^(map|m)$`, func(_ *regexp.Regexp, _ []string) Command { return Map{} })
}

func whoMatcher() *Matcher {
	return NewMatcher(KindWho, `^who$`, func(_ *regexp.Regexp, _ []string) Command { return Who{} })
}
