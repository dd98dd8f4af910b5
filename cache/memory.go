package cache

import (
	"context"
	"sync"
)

// Memory is a process-local Cache backed by a mutex-guarded map. It is the
// default for tests and single-process deployments.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key, or ErrMiss when absent.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrMiss
	}
	return value, nil
}

// Set stores value under key. In-memory writes always succeed.
func (m *Memory) Set(_ context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return true, nil
}
