// Package session holds the modctl login state: a bearer token plus a cached
// snapshot of the account it belongs to. The snapshot is advisory; the server
// re-checks restriction on every guarded request.
package session

import (
	"sync"

	"github.com/lenslink/moderation-service/internal/domain"
)

// User is the cached account snapshot.
type User struct {
	ID                string      `json:"id"`
	FullName          string      `json:"full_name"`
	Email             string      `json:"email"`
	Role              domain.Role `json:"role"`
	Restricted        bool        `json:"restricted"`
	RestrictionReason *string     `json:"restriction_reason,omitempty"`
}

// Session pairs a token with its cached user. User is nil when the cached
// snapshot could not be read.
type Session struct {
	Token string
	User  *User
}

// Store persists a session between invocations.
type Store interface {
	// Load returns nil without error when nothing is stored.
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// Manager is the single access point for session state.
type Manager struct {
	mu      sync.RWMutex
	store   Store
	current *Session
}

// NewManager returns a manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Init loads the persisted session. A missing or unreadable session leaves
// the manager logged out.
func (m *Manager) Init() error {
	loaded, err := m.store.Load()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.current = nil
		return err
	}
	m.current = loaded
	return nil
}

// Set replaces the session and persists it.
func (m *Manager) Set(token string, user *User) error {
	next := &Session{Token: token, User: cloneUser(user)}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(next); err != nil {
		return err
	}
	m.current = next
	return nil
}

// Clear drops the session in memory and in the store.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return m.store.Clear()
}

// Current returns a copy of the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	return &Session{Token: m.current.Token, User: cloneUser(m.current.User)}
}

func cloneUser(user *User) *User {
	if user == nil {
		return nil
	}
	out := *user
	if user.RestrictionReason != nil {
		reason := *user.RestrictionReason
		out.RestrictionReason = &reason
	}
	return &out
}
