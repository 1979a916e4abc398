package table

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/randutil"
	"github.com/jesmun04/logbait/internal/registry"
)

// Join seats accountID at the table with an empty stack, opening a ledger
// account for it if needed.
func (s *Service) Join(ctx context.Context, tableID, accountID, displayName string) (*game.Table, error) {
	if accountID == "" {
		return nil, &game.ValidationError{Reason: "account id is required"}
	}
	if displayName == "" {
		displayName = accountID
	}
	if _, err := s.registry.Lookup(ctx, tableID); err != nil {
		return nil, err
	}
	if err := s.ledger.EnsureAccount(ctx, accountID, displayName); err != nil {
		return nil, fmt.Errorf("open account %s: %w", accountID, err)
	}

	wasMember := s.registry.IsMember(ctx, accountID, tableID)
	if err := s.registry.Join(ctx, tableID, accountID); err != nil {
		return nil, err
	}
	next, err := s.commit(ctx, tableID, accountID, func(cur *game.Table, _ registry.TableInfo) (transition, error) {
		return transition{next: game.Join(cur, accountID, displayName), event: game.EventTableJoined}, nil
	})
	if err != nil && !wasMember {
		if lerr := s.registry.Leave(context.WithoutCancel(ctx), tableID, accountID); lerr != nil {
			s.logger.Error("failed to undo join", "table", tableID, "account", accountID, "error", lerr)
		}
	}
	return next, err
}

// Leave cashes the account's table stack out to its balance and removes it
// from the table.
func (s *Service) Leave(ctx context.Context, tableID, accountID string) (*game.Table, error) {
	if err := s.requireMember(ctx, tableID, accountID); err != nil {
		return nil, err
	}
	next, err := s.commit(ctx, tableID, accountID, func(cur *game.Table, _ registry.TableInfo) (transition, error) {
		if !cur.IsMember(accountID) {
			return transition{next: cur.Clone(), event: game.EventTableLeft}, nil
		}
		next, cashOut, err := game.Leave(cur, accountID)
		if err != nil {
			return transition{}, err
		}
		return transition{next: next, event: game.EventTableLeft, ledgerDelta: -cashOut}, nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.registry.Leave(ctx, tableID, accountID); err != nil {
		return nil, err
	}
	return next, nil
}

// AdjustTableStack sets the account's table stack, buying in from or
// cashing out to the account balance by the difference.
func (s *Service) AdjustTableStack(ctx context.Context, tableID, accountID string, stack float64) (*game.Table, error) {
	if err := s.requireMember(ctx, tableID, accountID); err != nil {
		return nil, err
	}
	if err := s.ledger.EnsureAccount(ctx, accountID, accountID); err != nil {
		return nil, fmt.Errorf("open account %s: %w", accountID, err)
	}
	return s.commit(ctx, tableID, accountID, func(cur *game.Table, _ registry.TableInfo) (transition, error) {
		if !cur.IsMember(accountID) {
			cur = game.Join(cur, accountID, accountID)
		}
		next, delta, err := game.SetStack(cur, accountID, stack)
		if err != nil {
			return transition{}, err
		}
		return transition{next: next, event: game.EventStackAdjusted, ledgerDelta: delta}, nil
	})
}

// StartHand deals a new hand. Only the table creator may start hands.
func (s *Service) StartHand(ctx context.Context, tableID, requesterID string) (*game.Table, error) {
	if err := s.requireMember(ctx, tableID, requesterID); err != nil {
		return nil, err
	}
	return s.commit(ctx, tableID, requesterID, func(cur *game.Table, info registry.TableInfo) (transition, error) {
		if info.CreatorID != "" && info.CreatorID != requesterID {
			return transition{}, &game.ForbiddenError{AccountID: requesterID, Reason: "only the table creator can start a hand"}
		}
		params := game.StartParams{
			HandID:       uuid.NewString(),
			SeatOrder:    info.SeatOrder,
			SmallBlind:   info.SmallBlind,
			BigBlind:     info.BigBlind,
			MinimumRaise: info.MinimumBet,
		}
		rng := randutil.ForHand(s.seed, tableID, cur.HandCount+1)
		next, err := s.engine.StartHand(cur, params, rng)
		if err != nil {
			return transition{}, err
		}
		event := game.EventHandStarted
		if !next.Hand.Live() {
			event = game.EventHandEnded
		}
		return transition{next: next, event: event}, nil
	})
}

// Act applies a betting action for accountID.
func (s *Service) Act(ctx context.Context, tableID, accountID string, action game.Action) (*game.Table, error) {
	if err := s.requireMember(ctx, tableID, accountID); err != nil {
		return nil, err
	}
	return s.commit(ctx, tableID, accountID, func(cur *game.Table, _ registry.TableInfo) (transition, error) {
		next, err := s.engine.Act(cur, accountID, action)
		if err != nil {
			return transition{}, err
		}
		event := game.EventPlayerActed
		switch {
		case !next.Hand.Live():
			event = game.EventHandEnded
		case next.Hand.Phase != cur.Hand.Phase:
			event = game.EventStreetAdvanced
		}
		return transition{next: next, event: event}, nil
	})
}

// GetState returns the table as seen by accountID. It takes no lock; the
// store always returns a complete snapshot.
func (s *Service) GetState(ctx context.Context, tableID, accountID string) (game.View, error) {
	if err := s.requireMember(ctx, tableID, accountID); err != nil {
		return game.View{}, err
	}
	return s.view(ctx, tableID, accountID)
}

// Spectate returns the table with every private card hidden.
func (s *Service) Spectate(ctx context.Context, tableID string) (game.View, error) {
	return s.view(ctx, tableID, "")
}

func (s *Service) view(ctx context.Context, tableID, accountID string) (game.View, error) {
	info, err := s.registry.Lookup(ctx, tableID)
	if err != nil {
		return game.View{}, err
	}
	t, err := s.load(ctx, tableID)
	if err != nil {
		return game.View{}, err
	}
	return game.NewView(t, accountID, info.SeatOrder), nil
}
