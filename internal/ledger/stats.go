package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Stats are lifetime poker results for one account.
type Stats struct {
	AccountID    string  `json:"account_id"`
	HandsPlayed  int     `json:"hands_played"`
	HandsWon     int     `json:"hands_won"`
	TotalWagered float64 `json:"total_wagered"`
	TotalWon     float64 `json:"total_won"`
}

// Net is total winnings minus total wagered.
func (s Stats) Net() float64 {
	return s.TotalWon - s.TotalWagered
}

// RecordHandResult adds one finished hand to the account's stats.
func (l *Ledger) RecordHandResult(ctx context.Context, accountID string, wagered, won float64) error {
	wins := 0
	if won > 0 {
		wins = 1
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO hand_stats (account_id, hands_played, hands_won, total_wagered, total_won)
		VALUES (?, 1, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			hands_played = hands_played + 1,
			hands_won = hands_won + excluded.hands_won,
			total_wagered = total_wagered + excluded.total_wagered,
			total_won = total_won + excluded.total_won
	`, accountID, wins, wagered, won)
	if err != nil {
		return fmt.Errorf("record hand for %s: %w", accountID, err)
	}
	return nil
}

// Stats returns the account's stats. Accounts with no hands get zero values.
func (l *Ledger) Stats(ctx context.Context, accountID string) (Stats, error) {
	s := Stats{AccountID: accountID}
	err := l.db.QueryRowContext(ctx, `
		SELECT hands_played, hands_won, total_wagered, total_won
		FROM hand_stats WHERE account_id = ?
	`, accountID).Scan(&s.HandsPlayed, &s.HandsWon, &s.TotalWagered, &s.TotalWon)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("get stats for %s: %w", accountID, err)
	}
	return s, nil
}
