package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesmun04/logbait/internal/config"
	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/ledger"
	"github.com/jesmun04/logbait/internal/registry"
	"github.com/jesmun04/logbait/internal/store"
)

func TestMemberOrder(t *testing.T) {
	tbl := game.NewTable("main")
	for _, id := range []string{"dave", "carol", "bob", "alice"} {
		tbl = game.Join(tbl, id, id)
	}
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, memberOrder(tbl))

	tbl.Hand = &game.HandState{SeatOrder: []string{"carol", "gone", "alice"}}
	assert.Equal(t, []string{"carol", "alice", "bob", "dave"}, memberOrder(tbl))
}

func TestCreateTableReseatsPersistedMembers(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	led, err := ledger.Open(":memory:", 1000)
	require.NoError(t, err)
	defer led.Close()

	rec := game.Join(game.Join(game.NewTable("main"), "alice", "alice"), "bob", "bob")
	rec.Version = 1
	require.NoError(t, st.Save(ctx, rec))

	reg := registry.New()
	cfg := config.Default()
	tc := cfg.Tables[0]
	tc.ID = "main"
	tc.Creator = "alice"
	require.NoError(t, createTable(ctx, reg, st, led, tc))

	info, err := reg.Lookup(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, info.SeatOrder)

	balance, err := led.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, balance)
}

type scriptedPinger struct {
	results chan error
}

func (p *scriptedPinger) Ping(context.Context) error {
	return <-p.results
}

func TestPollRedisLogsTransitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	mClock := quartz.NewMock(t)
	ticker := mClock.NewTicker(redisCheckInterval)
	defer ticker.Stop()

	p := &scriptedPinger{results: make(chan error)}
	done := make(chan error, 1)
	go func() {
		done <- pollRedis(ctx, ticker.C, p, logger)
	}()

	down := errors.New("connection refused")
	for _, result := range []error{down, down, nil, nil} {
		mClock.Advance(redisCheckInterval).MustWait(ctx)
		p.results <- result
	}
	cancel()
	require.NoError(t, <-done)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "Redis store unreachable"))
	assert.Equal(t, 1, strings.Count(out, "Redis store reachable again"))
	assert.Less(t, strings.Index(out, "unreachable"), strings.Index(out, "reachable again"))
}
