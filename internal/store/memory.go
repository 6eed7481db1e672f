package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/lox/monopolyforbots/internal/game"
)

// Memory keeps encoded snapshots in a map, so callers never share state with
// the store.
type Memory struct {
	mu    sync.RWMutex
	games map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{games: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, id string) (*game.Snapshot, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return decode(data)
}

func (m *Memory) Save(_ context.Context, id string, snap *game.Snapshot) error {
	if err := validID(id); err != nil {
		return err
	}
	data, err := encode(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.games[id] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.games, id)
	return nil
}

func (m *Memory) List(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *Memory) Close() error { return nil }
