package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/evaluator"
)

// EvaluateFunc scores the best five-card hand among hole and board cards.
type EvaluateFunc func(cards []deck.Card) (evaluator.Hand, error)

// Engine applies poker rules to table records.
type Engine struct {
	evaluate EvaluateFunc
	shuffle  func(rng *rand.Rand) *deck.Deck
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator replaces the showdown evaluator.
func WithEvaluator(fn EvaluateFunc) Option {
	return func(e *Engine) {
		e.evaluate = fn
	}
}

// WithDeck makes every hand deal from a fixed card order. Used for
// scripted hands and tests.
func WithDeck(cards []deck.Card) Option {
	return func(e *Engine) {
		e.shuffle = func(*rand.Rand) *deck.Deck {
			return deck.FromCards(cards)
		}
	}
}

// NewEngine returns an engine using the subset-enumerating evaluator.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		evaluate: evaluator.EvaluateBest,
		shuffle:  deck.NewShuffled,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartParams are the per-hand inputs taken from the table registry.
type StartParams struct {
	HandID       string
	SeatOrder    []string
	SmallBlind   float64
	BigBlind     float64
	MinimumRaise float64
}

// StartHand deals a new hand to every member in SeatOrder holding chips.
func (e *Engine) StartHand(t *Table, p StartParams, rng *rand.Rand) (*Table, error) {
	if t.Hand.Live() {
		return nil, validationf("hand %d is still in progress", t.Hand.Number)
	}
	if p.SmallBlind <= 0 || p.BigBlind < p.SmallBlind {
		return nil, validationf("invalid blinds %.2f/%.2f", p.SmallBlind, p.BigBlind)
	}
	if p.MinimumRaise <= 0 {
		return nil, validationf("invalid minimum raise %.2f", p.MinimumRaise)
	}

	var order []string
	for _, id := range p.SeatOrder {
		if t.Stacks[id] > epsilon {
			order = append(order, id)
		}
	}
	if len(order) < 2 {
		return nil, validationf("need at least two seated players with chips, have %d", len(order))
	}
	if rng == nil {
		panic("game: StartHand requires a random source")
	}

	dealt, err := e.shuffle(rng).Deal(len(order))
	if err != nil {
		return nil, err
	}

	next := t.Clone()
	n := len(order)
	pos := AssignRoles(n, t.DealerIndex)
	h := &HandState{
		ID:              p.HandID,
		Number:          t.HandCount + 1,
		Phase:           Preflop,
		CommunityCards:  append([]deck.Card(nil), dealt.Community[:]...),
		MinimumRaise:    p.MinimumRaise,
		SmallBlind:      p.SmallBlind,
		BigBlind:        p.BigBlind,
		SeatOrder:       order,
		Seats:           make([]Seat, n),
		DealerIndex:     pos.Dealer,
		SmallBlindIndex: pos.SmallBlind,
		BigBlindIndex:   pos.BigBlind,
		TurnIndex:       -1,
	}
	for i, id := range order {
		h.Seats[i] = Seat{
			AccountID:   id,
			DisplayName: next.Names[id],
			TableStack:  next.Stacks[id],
			Lifecycle:   Active,
			HoleCards:   []deck.Card{dealt.HoleCards[i][0], dealt.HoleCards[i][1]},
		}
	}
	h.Seats[pos.SmallBlind].Role = RoleSmallBlind
	h.Seats[pos.BigBlind].Role = RoleBigBlind
	h.Seats[pos.Dealer].Role = RoleDealer

	h.postBlind(pos.SmallBlind, p.SmallBlind)
	h.postBlind(pos.BigBlind, p.BigBlind)
	h.CurrentBet = p.BigBlind

	next.Hand = h
	next.DealerIndex = pos.Dealer
	next.HandCount = h.Number

	h.TurnIndex = h.firstActorFrom(pos.preflopStart(n))
	if err := e.settleRounds(next); err != nil {
		return nil, err
	}
	return next, nil
}

// Act applies one betting action for accountID.
func (e *Engine) Act(t *Table, accountID string, a Action) (*Table, error) {
	if !t.Hand.Live() {
		return nil, validationf("no hand in progress")
	}
	i := t.Hand.SeatIndex(accountID)
	if i < 0 {
		return nil, &NotInTableError{AccountID: accountID, TableID: t.ID}
	}
	if t.Hand.TurnIndex != i {
		return nil, &NotYourTurnError{AccountID: accountID, TurnAccountID: t.Hand.TurnAccountID()}
	}

	next := t.Clone()
	h := next.Hand
	if err := h.apply(i, a); err != nil {
		return nil, err
	}

	if h.activeCount() == 1 {
		h.awardUncontested()
		next.writeBack()
		return next, nil
	}
	h.advanceTurn()
	if err := e.settleRounds(next); err != nil {
		return nil, err
	}
	return next, nil
}

// settleRounds closes betting rounds while nobody is due to act, running
// the board out to showdown when every remaining seat is all-in.
func (e *Engine) settleRounds(t *Table) error {
	h := t.Hand
	for h.TurnIndex == -1 && h.Phase != Terminated {
		h.closeRound()
		if h.Phase == Terminated {
			if err := e.showdown(h); err != nil {
				return fmt.Errorf("showdown: %w", err)
			}
			t.writeBack()
			return nil
		}
		h.TurnIndex = h.firstActorFrom(h.DealerIndex + 1)
	}
	return nil
}

// closeRound resets round wagers and moves to the next street.
func (h *HandState) closeRound() {
	for i := range h.Seats {
		h.Seats[i].CurrentRoundWager = 0
		h.Seats[i].HasActed = false
	}
	h.CurrentBet = 0
	h.Phase = h.Phase.next()
}
