// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package core

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session error codes.
const (
	CodeSessionExists   = "SESSION_EXISTS"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeNameInUse       = "NAME_IN_USE"
)

// Client is a connected user.
type Client struct {
	ID    ulid.ULID
	Width uint16 // terminal width, 0 when unknown
}

// Session attaches a client to the character entity it controls.
type Session struct {
	Client       Client
	CharacterID  ulid.ULID
	Name         string
	ConnectedAt  time.Time
	LastActivity time.Time
}

// SessionManager tracks logged-in clients in login order. It implements
// command.Directory.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[ulid.ULID]*Session // keyed by client ID
	order    []ulid.ULID
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[ulid.ULID]*Session),
	}
}

// Attach records a new session. Fails if the client is already attached or
// another client controls a character with the same name (case-insensitive).
// Returns a copy of the stored session.
func (sm *SessionManager) Attach(client Client, characterID ulid.ULID, name string) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[client.ID]; exists {
		return nil, oops.Code(CodeSessionExists).
			With("client_id", client.ID.String()).
			Errorf("client already has a session")
	}
	for _, s := range sm.sessions {
		if strings.EqualFold(s.Name, name) {
			return nil, oops.Code(CodeNameInUse).
				With("name", name).
				Errorf("%s is already online", name)
		}
	}

	now := time.Now()
	s := &Session{
		Client:       client,
		CharacterID:  characterID,
		Name:         name,
		ConnectedAt:  now,
		LastActivity: now,
	}
	sm.sessions[client.ID] = s
	sm.order = append(sm.order, client.ID)
	copied := *s
	return &copied, nil
}

// Detach removes a client's session and returns it.
func (sm *SessionManager) Detach(clientID ulid.ULID) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, exists := sm.sessions[clientID]
	if !exists {
		return nil, oops.Code(CodeSessionNotFound).
			With("client_id", clientID.String()).
			Errorf("session not found for client %s", clientID.String())
	}
	delete(sm.sessions, clientID)
	sm.order = slices.DeleteFunc(sm.order, func(id ulid.ULID) bool { return id == clientID })
	return s, nil
}

// Get returns a copy of a client's session, or nil if none exists.
func (sm *SessionManager) Get(clientID ulid.ULID) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, exists := sm.sessions[clientID]
	if !exists {
		return nil
	}
	copied := *s
	return &copied
}

// CharacterFor implements command.Directory.
func (sm *SessionManager) CharacterFor(clientID ulid.ULID) (ulid.ULID, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, exists := sm.sessions[clientID]
	if !exists {
		return ulid.ULID{}, false
	}
	return s.CharacterID, true
}

// OnlineNames implements command.Directory. Names are in login order.
func (sm *SessionManager) OnlineNames() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	names := make([]string, 0, len(sm.order))
	for _, id := range sm.order {
		names = append(names, sm.sessions[id].Name)
	}
	return names
}

// ClientIDs returns the attached clients in login order.
func (sm *SessionManager) ClientIDs() []ulid.ULID {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.order)
}

// Touch refreshes the last activity time of a session.
func (sm *SessionManager) Touch(clientID ulid.ULID) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, exists := sm.sessions[clientID]
	if !exists {
		slog.Debug("Touch called for non-existent session",
			"client_id", clientID.String(),
		)
		return
	}
	s.LastActivity = time.Now()
}

// Count returns the number of sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
