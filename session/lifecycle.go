package session

import (
	"context"

	"github.com/google/uuid"
)

// Lifecycle is the capability the handshake flows hold over the real
// session mechanism. One Lifecycle serves one request.
type Lifecycle interface {
	// Active reports whether a session is already established.
	Active() bool

	// Start establishes a session. With an empty id a fresh session is
	// created; with a non-empty id that session is resumed.
	Start(ctx context.Context, id string) error

	// ID returns the current session id, or "" before Start.
	ID() string
}

// Memory is a Lifecycle with no transport: state lives in the value
// itself. It backs tests and non-HTTP embeddings.
type Memory struct {
	id     string
	active bool
}

// NewMemory returns an inactive in-memory lifecycle.
func NewMemory() *Memory {
	return &Memory{}
}

// Resume returns an in-memory lifecycle already holding id, as if a
// previous request had established it.
func Resume(id string) *Memory {
	return &Memory{id: id, active: true}
}

// Active implements Lifecycle.
func (m *Memory) Active() bool {
	return m.active
}

// Start implements Lifecycle. A fresh session gets a random UUID id.
func (m *Memory) Start(_ context.Context, id string) error {
	if id == "" {
		id = uuid.NewString()
	}
	m.id = id
	m.active = true
	return nil
}

// ID implements Lifecycle.
func (m *Memory) ID() string {
	return m.id
}
