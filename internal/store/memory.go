package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jesmun04/logbait/internal/game"
)

// Memory keeps encoded records in a map. Records are stored as bytes so
// callers never share state with the store.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, tableID string) (*game.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.records[tableID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(data)
}

func (m *Memory) Save(ctx context.Context, t *game.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(t)
	if err != nil {
		return fmt.Errorf("encode table %s: %w", t.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var current int64
	if prev, ok := m.records[t.ID]; ok {
		current = peekVersion(prev)
	}
	if current != t.Version-1 {
		return fmt.Errorf("%w: table %s at version %d, write expects %d", ErrConflict, t.ID, current, t.Version-1)
	}
	m.records[t.ID] = data
	return nil
}

func (m *Memory) Delete(ctx context.Context, tableID string) error {
	m.mu.Lock()
	delete(m.records, tableID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}
