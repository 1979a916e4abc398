package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/randutil"
)

func backends(t *testing.T) map[string]Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"redis":  NewRedisWithClient(client, "test:"),
	}
}

func liveTable(t *testing.T) *game.Table {
	t.Helper()
	tbl := game.NewTable("t1")
	tbl = game.Join(tbl, "alice", "Alice")
	tbl = game.Join(tbl, "bob", "Bob")
	tbl.Stacks["alice"] = 100
	tbl.Stacks["bob"] = 100

	next, err := game.NewEngine().StartHand(tbl, game.StartParams{
		HandID:       "h1",
		SeatOrder:    []string{"alice", "bob"},
		SmallBlind:   1,
		BigBlind:     2,
		MinimumRaise: 2,
	}, randutil.New(5))
	require.NoError(t, err)
	next.Version = 1
	return next
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.Load(ctx, "t1")
			require.ErrorIs(t, err, ErrNotFound)

			tbl := liveTable(t)
			require.NoError(t, s.Save(ctx, tbl))

			got, err := s.Load(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, int64(1), got.Version)
			assert.Equal(t, tbl.Hand.Seats, got.Hand.Seats)
			assert.Equal(t, tbl.Hand.CommunityCards, got.Hand.CommunityCards)
			assert.Equal(t, tbl.Stacks, got.Stacks)
			assert.IsType(t, deck.Card{}, got.Hand.CommunityCards[0])

			require.NoError(t, s.Delete(ctx, "t1"))
			_, err = s.Load(ctx, "t1")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreRejectsStaleVersion(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tbl := liveTable(t)
			require.NoError(t, s.Save(ctx, tbl))

			// a second writer that also read version 0
			require.ErrorIs(t, s.Save(ctx, tbl), ErrConflict)

			next := tbl.Clone()
			next.Version = 2
			require.NoError(t, s.Save(ctx, next))

			skipped := tbl.Clone()
			skipped.Version = 4
			require.ErrorIs(t, s.Save(ctx, skipped), ErrConflict)
		})
	}
}

func TestStoreConcurrentWritersOneWins(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := liveTable(t)
			require.NoError(t, s.Save(ctx, base))

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
			)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					next := base.Clone()
					next.Version = 2
					err := s.Save(ctx, next)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case errors.Is(err, ErrConflict):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, successes)
			assert.Equal(t, 7, conflicts)
		})
	}
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemory()
	assert.ErrorIs(t, s.Save(ctx, liveTable(t)), context.Canceled)
	_, err := s.Load(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}
