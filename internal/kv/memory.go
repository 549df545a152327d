package kv

import (
	"context"
	"sort"
	"sync"
)

// Memory is the in-process Store. It forgets everything on restart, which
// matches the lifetime of a browser tab's session storage.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, scope, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[scope][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[scope]
	if !ok {
		s = make(map[string]string)
		m.data[scope] = s
	}
	s[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, scope string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[scope]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(s, k)
	}
	if len(s) == 0 {
		delete(m.data, scope)
	}
	return nil
}

func (m *Memory) Keys(_ context.Context, scope string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data[scope]))
	for k := range m.data[scope] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
