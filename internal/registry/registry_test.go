package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesmun04/logbait/internal/game"
)

func TestCreateDefaultsAndSeatsCreator(t *testing.T) {
	ctx := context.Background()
	r := New()
	require.NoError(t, r.Create(TableInfo{ID: "main", CreatorID: "alice", Capacity: 3, MinimumBet: 10}))

	info, err := r.Lookup(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 10.0, info.BigBlind)
	assert.Equal(t, 5.0, info.SmallBlind)
	assert.Equal(t, []string{"alice"}, info.SeatOrder)
	assert.True(t, r.IsMember(ctx, "alice", "main"))

	assert.ErrorIs(t, r.Create(TableInfo{ID: "main", Capacity: 2, MinimumBet: 1}), ErrTableExists)
	assert.Error(t, r.Create(TableInfo{ID: "tiny", Capacity: 1, MinimumBet: 1}))
}

func TestJoinLeave(t *testing.T) {
	ctx := context.Background()
	r := New()
	require.NoError(t, r.Create(TableInfo{ID: "main", CreatorID: "alice", Capacity: 3, MinimumBet: 2}))

	require.NoError(t, r.Join(ctx, "main", "bob"))
	require.NoError(t, r.Join(ctx, "main", "bob"))
	require.NoError(t, r.Join(ctx, "main", "carol"))
	assert.ErrorIs(t, r.Join(ctx, "main", "dave"), ErrTableFull)

	info, err := r.Lookup(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, info.SeatOrder)

	require.NoError(t, r.Leave(ctx, "main", "bob"))
	assert.False(t, r.IsMember(ctx, "bob", "main"))
	info, _ = r.Lookup(ctx, "main")
	assert.Equal(t, []string{"alice", "carol"}, info.SeatOrder)
}

func TestLookupReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := New()
	require.NoError(t, r.Create(TableInfo{ID: "main", CreatorID: "alice", Capacity: 4, MinimumBet: 2}))

	info, _ := r.Lookup(ctx, "main")
	info.SeatOrder[0] = "mallory"
	again, _ := r.Lookup(ctx, "main")
	assert.Equal(t, "alice", again.SeatOrder[0])
}

func TestUnknownTable(t *testing.T) {
	ctx := context.Background()
	r := New()
	_, err := r.Lookup(ctx, "nope")
	assert.ErrorIs(t, err, game.ErrTableNotFound)
	assert.ErrorIs(t, r.Join(ctx, "nope", "alice"), game.ErrTableNotFound)
	assert.False(t, r.IsMember(ctx, "alice", "nope"))
}
