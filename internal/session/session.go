// Package session persists the dashboard's login state between runs.
package session

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// Keys used by the dashboard.
const (
	TokenKey = "token"
	AdminKey = "isAdmin"
)

// Store is a small string key/value store. Get returns "" for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// Token returns the stored bearer token, or "".
func Token(ctx context.Context, s Store) (string, error) {
	return s.Get(ctx, TokenKey)
}

// IsAdmin reports whether an admin session is active.
func IsAdmin(ctx context.Context, s Store) (bool, error) {
	v, err := s.Get(ctx, AdminKey)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SaveLogin stores the token and raises the admin flag.
func SaveLogin(ctx context.Context, s Store, token string) error {
	if err := s.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	if err := s.Set(ctx, AdminKey, "true"); err != nil {
		return fmt.Errorf("saving admin flag: %w", err)
	}
	return nil
}

// Memory is an in-process Store. The zero value is ready to use.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.values)
	return nil
}

// Snapshot returns a copy of the stored values.
func (m *Memory) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values)
}
