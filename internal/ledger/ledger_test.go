package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesmun04/logbait/internal/game"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(":memory:", 1000)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestEnsureAccountStartingBalance(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	require.NoError(t, l.EnsureAccount(ctx, "alice", "Alice"))
	require.NoError(t, l.EnsureAccount(ctx, "alice", "Alice"))

	balance, err := l.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, balance, "second call must not credit again")

	txs, err := l.Transactions(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, TxOpening, txs[0].Type)
}

func TestDebitAndCredit(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	require.NoError(t, l.EnsureAccount(ctx, "alice", "Alice"))

	require.NoError(t, l.Debit(ctx, "alice", 250))
	require.NoError(t, l.Credit(ctx, "alice", 100))
	require.NoError(t, l.Deposit(ctx, "alice", 50))

	balance, err := l.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 900.0, balance)

	txs, err := l.Transactions(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, TxDeposit, txs[0].Type)
	assert.Equal(t, TxCashOut, txs[1].Type)
}

func TestDebitInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	require.NoError(t, l.EnsureAccount(ctx, "bob", "Bob"))

	err := l.Debit(ctx, "bob", 1000.5)
	var ferr *game.InsufficientFundsError
	require.True(t, errors.As(err, &ferr), "got %v", err)
	assert.Equal(t, 1000.0, ferr.Available)

	balance, err := l.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, balance, "failed debit leaves balance untouched")
}

func TestUnknownAccount(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	_, err := l.Balance(ctx, "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.ErrorIs(t, l.Credit(ctx, "ghost", 5), ErrAccountNotFound)
}

func TestRecordHandResult(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	require.NoError(t, l.EnsureAccount(ctx, "alice", "Alice"))

	s, err := l.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, s.HandsPlayed)

	require.NoError(t, l.RecordHandResult(ctx, "alice", 10, 0))
	require.NoError(t, l.RecordHandResult(ctx, "alice", 20, 45))

	s, err = l.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, Stats{AccountID: "alice", HandsPlayed: 2, HandsWon: 1, TotalWagered: 30, TotalWon: 45}, s)
	assert.Equal(t, 15.0, s.Net())
}
