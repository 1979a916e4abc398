package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/jesmun04/logbait/internal/game"
)

// Redis stores each table under prefix+tableID and guards writes with
// WATCH/MULTI so concurrent servers cannot overwrite each other.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to addr.
func NewRedis(addr, password string, db int, prefix string) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), prefix)
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) key(tableID string) string {
	return r.prefix + "table:" + tableID
}

func (r *Redis) Load(ctx context.Context, tableID string) (*game.Table, error) {
	data, err := r.client.Get(ctx, r.key(tableID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", tableID, err)
	}
	return decode(data)
}

func (r *Redis) Save(ctx context.Context, t *game.Table) error {
	data, err := encode(t)
	if err != nil {
		return fmt.Errorf("encode table %s: %w", t.ID, err)
	}
	key := r.key(t.ID)

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		var current int64
		prev, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			current = peekVersion(prev)
		}
		if current != t.Version-1 {
			return fmt.Errorf("%w: table %s at version %d, write expects %d", ErrConflict, t.ID, current, t.Version-1)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: table %s changed during write", ErrConflict, t.ID)
	}
	return err
}

func (r *Redis) Delete(ctx context.Context, tableID string) error {
	return r.client.Del(ctx, r.key(tableID)).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
