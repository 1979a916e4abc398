package game

import (
	"errors"
	"fmt"
)

// ErrTableNotFound is returned when no record or registry entry exists for a table.
var ErrTableNotFound = errors.New("table not found")

// ValidationError reports a malformed action, a wrong phase or a bad amount.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotYourTurnError is returned when a seat acts while another seat holds the turn.
type NotYourTurnError struct {
	AccountID     string
	TurnAccountID string
}

func (e *NotYourTurnError) Error() string {
	if e.TurnAccountID == "" {
		return fmt.Sprintf("not %s's turn: no seat is due to act", e.AccountID)
	}
	return fmt.Sprintf("not %s's turn: waiting on %s", e.AccountID, e.TurnAccountID)
}

// NotInTableError is returned when the requester is not seated at the table.
type NotInTableError struct {
	AccountID string
	TableID   string
}

func (e *NotInTableError) Error() string {
	return fmt.Sprintf("account %s is not at table %s", e.AccountID, e.TableID)
}

// InsufficientFundsError is returned when a buy-in exceeds the account balance.
type InsufficientFundsError struct {
	AccountID string
	Requested float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: requested %.2f, available %.2f", e.AccountID, e.Requested, e.Available)
}

// ForbiddenError is returned when the requester lacks the right to issue a command.
type ForbiddenError struct {
	AccountID string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden for %s: %s", e.AccountID, e.Reason)
}
