// Package store persists table records with optimistic versioning.
package store

import (
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/jesmun04/logbait/internal/game"
)

var (
	// ErrNotFound is returned by Load when no record exists.
	ErrNotFound = errors.New("store: table not found")

	// ErrConflict is returned by Save when the stored version moved on.
	ErrConflict = errors.New("store: version conflict")
)

// Store loads and saves table records. Save is a compare-and-swap: it
// succeeds only when the stored version is t.Version-1 (or absent when
// t.Version is 1).
type Store interface {
	Load(ctx context.Context, tableID string) (*game.Table, error)
	Save(ctx context.Context, t *game.Table) error
	Delete(ctx context.Context, tableID string) error
	Close() error
}

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

func encode(t *game.Table) ([]byte, error) {
	return codec.Marshal(t)
}

func decode(data []byte) (*game.Table, error) {
	t := &game.Table{}
	if err := codec.Unmarshal(data, t); err != nil {
		return nil, err
	}
	if t.Stacks == nil {
		t.Stacks = make(map[string]float64)
	}
	if t.Names == nil {
		t.Names = make(map[string]string)
	}
	return t, nil
}

// peekVersion reads only the version field of an encoded record.
func peekVersion(data []byte) int64 {
	return codec.Get(data, "version").ToInt64()
}
