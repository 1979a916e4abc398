package server

import (
	"context"
	"errors"

	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/registry"
)

// Error codes sent to clients.
const (
	CodeValidation        = "validation"
	CodeNotYourTurn       = "not_your_turn"
	CodeNotInTable        = "not_in_table"
	CodeInsufficientFunds = "insufficient_funds"
	CodeInsufficientCards = "insufficient_cards"
	CodeForbidden         = "forbidden"
	CodeTableNotFound     = "table_not_found"
	CodeInternal          = "internal"

	CodeInvalidMessage   = "invalid_message"
	CodeUnknownMessage   = "unknown_message_type"
	CodeNotAuthenticated = "not_authenticated"
	CodeInvalidAuth      = "invalid_auth"
	CodeAuthUnavailable  = "auth_unavailable"
)

// errorCode maps a command error to its client-facing code.
func errorCode(err error) string {
	var (
		validation  *game.ValidationError
		notYourTurn *game.NotYourTurnError
		notInTable  *game.NotInTableError
		funds       *game.InsufficientFundsError
		forbidden   *game.ForbiddenError
		cards       *deck.InsufficientCardsError
	)
	switch {
	case errors.As(err, &validation),
		errors.Is(err, registry.ErrTableFull),
		errors.Is(err, registry.ErrTableExists):
		return CodeValidation
	case errors.As(err, &notYourTurn):
		return CodeNotYourTurn
	case errors.As(err, &notInTable):
		return CodeNotInTable
	case errors.As(err, &funds):
		return CodeInsufficientFunds
	case errors.As(err, &cards):
		return CodeInsufficientCards
	case errors.As(err, &forbidden):
		return CodeForbidden
	case errors.Is(err, game.ErrTableNotFound):
		return CodeTableNotFound
	}
	return CodeInternal
}

// errorMessage hides internal failures from clients.
func errorMessage(code string, err error) string {
	if code == CodeInternal && !errors.Is(err, context.DeadlineExceeded) {
		return "internal error"
	}
	return err.Error()
}
