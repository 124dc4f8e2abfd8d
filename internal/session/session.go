// Package session holds the authenticated identity for the duration of a
// sign-in and persists it across process runs through a small key-value
// store. It carries no business logic: other components read the identity
// from it and sign-out clears it.
package session

import "github.com/huskymart/huskymart/internal/identity"

// Session is the immutable-for-the-session authenticated state.
type Session struct {
	DisplayName   string `yaml:"display_name"`
	Email         string `yaml:"email"`
	Authenticated bool   `yaml:"authenticated"`
}

// FromIdentity builds an authenticated session for id.
func FromIdentity(id identity.Identity) Session {
	return Session{
		DisplayName:   id.DisplayName,
		Email:         id.Email,
		Authenticated: true,
	}
}

// Identity returns the identity pair held by the session.
func (s Session) Identity() identity.Identity {
	return identity.Identity{DisplayName: s.DisplayName, Email: s.Email}
}

// Store persists a session between runs. Clear must erase the persisted
// copy entirely, not just flip the authenticated flag.
type Store interface {
	Get() (Session, error)
	Save(Session) error
	Clear() error
}

// MemoryStore is an in-process Store for tests and embedded use.
type MemoryStore struct {
	s Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements Store.
func (m *MemoryStore) Get() (Session, error) {
	return m.s, nil
}

// Save implements Store.
func (m *MemoryStore) Save(s Session) error {
	m.s = s
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.s = Session{}
	return nil
}
