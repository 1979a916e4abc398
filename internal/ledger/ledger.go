// Package ledger keeps account balances and per-account hand statistics in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jesmun04/logbait/internal/game"
)

// ErrAccountNotFound is returned for operations on unknown accounts.
var ErrAccountNotFound = errors.New("ledger: account not found")

// Transaction types recorded alongside balance changes.
const (
	TxOpening = "opening"
	TxBuyIn   = "buy_in"
	TxCashOut = "cash_out"
	TxDeposit = "deposit"
)

// Ledger is an account store backed by database/sql.
type Ledger struct {
	db              *sql.DB
	startingBalance float64
}

// Open opens (or creates) the SQLite database at path. New accounts start
// with startingBalance.
func Open(path string, startingBalance float64) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if path == ":memory:" {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger tables: %w", err)
	}
	return &Ledger{db: db, startingBalance: startingBalance}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			balance REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account_id TEXT NOT NULL,
			amount REAL NOT NULL,
			type TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (account_id) REFERENCES accounts(id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS hand_stats (
			account_id TEXT PRIMARY KEY,
			hands_played INTEGER NOT NULL DEFAULT 0,
			hands_won INTEGER NOT NULL DEFAULT 0,
			total_wagered REAL NOT NULL DEFAULT 0,
			total_won REAL NOT NULL DEFAULT 0,
			FOREIGN KEY (account_id) REFERENCES accounts(id)
		)
	`)
	return err
}

// EnsureAccount creates the account with the starting balance if it does
// not exist yet.
func (l *Ledger) EnsureAccount(ctx context.Context, accountID, name string) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (id, name, balance) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		accountID, name, l.startingBalance)
	if err != nil {
		return fmt.Errorf("create account %s: %w", accountID, err)
	}
	if n, _ := res.RowsAffected(); n == 1 && l.startingBalance > 0 {
		if err := recordTx(ctx, tx, accountID, l.startingBalance, TxOpening); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Balance returns the account balance.
func (l *Ledger) Balance(ctx context.Context, accountID string) (float64, error) {
	var balance float64
	err := l.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE id = ?`, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get balance for %s: %w", accountID, err)
	}
	return balance, nil
}

// Debit moves amount out of the account for a buy-in. It fails with
// *game.InsufficientFundsError when the balance does not cover it.
func (l *Ledger) Debit(ctx context.Context, accountID string, amount float64) error {
	return l.apply(ctx, accountID, -amount, TxBuyIn)
}

// Credit returns amount to the account on cash-out.
func (l *Ledger) Credit(ctx context.Context, accountID string, amount float64) error {
	return l.apply(ctx, accountID, amount, TxCashOut)
}

// Deposit adds outside funds to the account.
func (l *Ledger) Deposit(ctx context.Context, accountID string, amount float64) error {
	return l.apply(ctx, accountID, amount, TxDeposit)
}

func (l *Ledger) apply(ctx context.Context, accountID string, delta float64, kind string) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return fmt.Errorf("ledger: invalid amount %v", delta)
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var balance float64
	err = tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE id = ?`, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("get balance for %s: %w", accountID, err)
	}
	if balance+delta < -1e-9 {
		return &game.InsufficientFundsError{AccountID: accountID, Requested: -delta, Available: balance}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = balance + ? WHERE id = ?`, delta, accountID); err != nil {
		return fmt.Errorf("update balance for %s: %w", accountID, err)
	}
	if err := recordTx(ctx, tx, accountID, delta, kind); err != nil {
		return err
	}
	return tx.Commit()
}

func recordTx(ctx context.Context, tx *sql.Tx, accountID string, amount float64, kind string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (account_id, amount, type) VALUES (?, ?, ?)`,
		accountID, amount, kind)
	if err != nil {
		return fmt.Errorf("record %s for %s: %w", kind, accountID, err)
	}
	return nil
}

// Transaction is one recorded balance change.
type Transaction struct {
	ID        int64
	AccountID string
	Amount    float64
	Type      string
	CreatedAt time.Time
}

// Transactions returns the most recent balance changes for an account, newest first.
func (l *Ledger) Transactions(ctx context.Context, accountID string, limit int) ([]Transaction, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, account_id, amount, type, created_at
		FROM transactions WHERE account_id = ?
		ORDER BY id DESC LIMIT ?
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Type, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (l *Ledger) Close() error {
	return l.db.Close()
}
