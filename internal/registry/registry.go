// Package registry tracks which tables exist and who sits at them.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/jesmun04/logbait/internal/game"
)

var (
	// ErrTableFull is returned when a join would exceed the table capacity.
	ErrTableFull = errors.New("registry: table is full")

	// ErrTableExists is returned when creating a table id twice.
	ErrTableExists = errors.New("registry: table already exists")
)

// TableInfo describes a table and its current members in seat order.
type TableInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	CreatorID  string   `json:"creator_id"`
	Capacity   int      `json:"capacity"`
	SmallBlind float64  `json:"small_blind"`
	BigBlind   float64  `json:"big_blind"`
	MinimumBet float64  `json:"minimum_bet"`
	SeatOrder  []string `json:"seat_order"`
}

func (t TableInfo) clone() TableInfo {
	t.SeatOrder = slices.Clone(t.SeatOrder)
	return t
}

// Registry is an in-memory table directory.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*TableInfo
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{tables: make(map[string]*TableInfo)}
}

// Create registers a table. The creator is seated first.
func (r *Registry) Create(info TableInfo) error {
	if info.ID == "" {
		return fmt.Errorf("registry: table id is required")
	}
	if info.Capacity < 2 {
		return fmt.Errorf("registry: table %s capacity %d is below two", info.ID, info.Capacity)
	}
	if info.MinimumBet <= 0 {
		return fmt.Errorf("registry: table %s minimum bet must be positive", info.ID)
	}
	if info.BigBlind == 0 {
		info.BigBlind = info.MinimumBet
	}
	if info.SmallBlind == 0 {
		info.SmallBlind = info.BigBlind / 2
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[info.ID]; ok {
		return fmt.Errorf("%w: %s", ErrTableExists, info.ID)
	}
	info = info.clone()
	if info.CreatorID != "" && !slices.Contains(info.SeatOrder, info.CreatorID) {
		info.SeatOrder = append([]string{info.CreatorID}, info.SeatOrder...)
	}
	r.tables[info.ID] = &info
	return nil
}

// Lookup returns a copy of the table's description.
func (r *Registry) Lookup(ctx context.Context, tableID string) (TableInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.tables[tableID]
	if !ok {
		return TableInfo{}, fmt.Errorf("%w: %s", game.ErrTableNotFound, tableID)
	}
	return info.clone(), nil
}

// IsMember reports whether accountID is seated at tableID.
func (r *Registry) IsMember(ctx context.Context, accountID, tableID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.tables[tableID]
	return ok && slices.Contains(info.SeatOrder, accountID)
}

// Join seats accountID at the end of the seat order. Joining twice is a no-op.
func (r *Registry) Join(ctx context.Context, tableID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.tables[tableID]
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrTableNotFound, tableID)
	}
	if slices.Contains(info.SeatOrder, accountID) {
		return nil
	}
	if len(info.SeatOrder) >= info.Capacity {
		return fmt.Errorf("%w: %s seats %d", ErrTableFull, tableID, info.Capacity)
	}
	info.SeatOrder = append(info.SeatOrder, accountID)
	return nil
}

// Leave removes accountID from the seat order.
func (r *Registry) Leave(ctx context.Context, tableID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.tables[tableID]
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrTableNotFound, tableID)
	}
	info.SeatOrder = slices.DeleteFunc(info.SeatOrder, func(id string) bool { return id == accountID })
	return nil
}

// List returns every table sorted by id.
func (r *Registry) List(ctx context.Context) []TableInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TableInfo, 0, len(r.tables))
	for _, info := range r.tables {
		out = append(out, info.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
