package game

import (
	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/evaluator"
)

// epsilon absorbs float drift when comparing chip amounts.
const epsilon = 1e-9

// Phase is the betting street of a hand.
type Phase string

const (
	Preflop    Phase = "preflop"
	Flop       Phase = "flop"
	Turn       Phase = "turn"
	River      Phase = "river"
	Terminated Phase = "terminated"
)

// Revealed returns how many community cards are visible in the phase.
func (p Phase) Revealed() int {
	switch p {
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Terminated:
		return 5
	}
	return 0
}

func (p Phase) next() Phase {
	switch p {
	case Preflop:
		return Flop
	case Flop:
		return Turn
	case Turn:
		return River
	}
	return Terminated
}

// Lifecycle is whether a seat is still contesting the pot.
type Lifecycle string

const (
	Active Lifecycle = "active"
	Folded Lifecycle = "folded"
)

// Role marks the dealer and blind positions for a hand.
type Role string

const (
	RoleNone       Role = ""
	RoleDealer     Role = "dealer"
	RoleSmallBlind Role = "small_blind"
	RoleBigBlind   Role = "big_blind"
)

// Seat is one player's position in a hand.
type Seat struct {
	AccountID             string      `json:"account_id"`
	DisplayName           string      `json:"display_name"`
	TableStack            float64     `json:"table_stack"`
	CurrentRoundWager     float64     `json:"current_round_wager"`
	TotalHandContribution float64     `json:"total_hand_contribution"`
	Lifecycle             Lifecycle   `json:"lifecycle"`
	HasActed              bool        `json:"has_acted"`
	HoleCards             []deck.Card `json:"hole_cards,omitempty"`
	Role                  Role        `json:"role,omitempty"`
	LastAction            string      `json:"last_action,omitempty"`
}

// AllIn reports whether the seat is still in the hand with no chips behind.
func (s *Seat) AllIn() bool {
	return s.Lifecycle == Active && s.TableStack <= epsilon
}

// Winner is a seat that took some or all of the pot.
type Winner struct {
	AccountID   string  `json:"account_id"`
	DisplayName string  `json:"display_name"`
	AmountWon   float64 `json:"amount_won"`

	// Set only when the pot went to showdown.
	Hand         *evaluator.Hand `json:"best_hand,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Tiebreakers  []int           `json:"tiebreakers,omitempty"`
}

// Result is one seat's outcome for a finished hand.
type Result struct {
	AccountID string  `json:"account_id"`
	Wagered   float64 `json:"wagered"`
	Won       float64 `json:"won"`
	Net       float64 `json:"net"`
}

// HandState is the state of the current or most recent hand at a table.
type HandState struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Phase  Phase  `json:"phase"`

	// CommunityCards holds all five board cards from the start of the hand.
	CommunityCards []deck.Card `json:"community_cards"`

	Pot          float64 `json:"pot"`
	CurrentBet   float64 `json:"current_bet"`
	MinimumRaise float64 `json:"minimum_raise"`
	SmallBlind   float64 `json:"small_blind"`
	BigBlind     float64 `json:"big_blind"`

	SeatOrder []string `json:"seat_order"`
	Seats     []Seat   `json:"seats"`

	DealerIndex     int `json:"dealer_index"`
	SmallBlindIndex int `json:"small_blind_index"`
	BigBlindIndex   int `json:"big_blind_index"`
	// TurnIndex is -1 when no seat is due to act.
	TurnIndex int `json:"turn_index"`

	Showdown bool     `json:"showdown"`
	Winners  []Winner `json:"winners,omitempty"`
	Results  []Result `json:"results,omitempty"`
}

// Live reports whether the hand is still being played.
func (h *HandState) Live() bool {
	return h != nil && h.Phase != Terminated
}

// RevealedCommunity returns the visible prefix of the board.
func (h *HandState) RevealedCommunity() []deck.Card {
	n := h.Phase.Revealed()
	if n > len(h.CommunityCards) {
		n = len(h.CommunityCards)
	}
	return append([]deck.Card(nil), h.CommunityCards[:n]...)
}

// SeatIndex returns the seat of accountID, or -1.
func (h *HandState) SeatIndex(accountID string) int {
	for i, id := range h.SeatOrder {
		if id == accountID {
			return i
		}
	}
	return -1
}

// TurnAccountID returns the account due to act, or "".
func (h *HandState) TurnAccountID() string {
	if h.TurnIndex < 0 || h.TurnIndex >= len(h.Seats) {
		return ""
	}
	return h.Seats[h.TurnIndex].AccountID
}

// ToCall is what the seat must add to match the current bet.
func (h *HandState) ToCall(i int) float64 {
	owed := h.CurrentBet - h.Seats[i].CurrentRoundWager
	if owed <= epsilon {
		return 0
	}
	return owed
}

func (h *HandState) activeCount() int {
	n := 0
	for i := range h.Seats {
		if h.Seats[i].Lifecycle == Active {
			n++
		}
	}
	return n
}

// withChips counts active seats that can still put chips in.
func (h *HandState) withChips() int {
	n := 0
	for i := range h.Seats {
		if h.Seats[i].Lifecycle == Active && !h.Seats[i].AllIn() {
			n++
		}
	}
	return n
}

// commit moves chips from a seat's stack into the pot.
func (h *HandState) commit(i int, amount float64) {
	s := &h.Seats[i]
	if amount > s.TableStack {
		amount = s.TableStack
	}
	s.TableStack -= amount
	if s.TableStack < epsilon {
		s.TableStack = 0
	}
	s.CurrentRoundWager += amount
	s.TotalHandContribution += amount
	h.Pot += amount
}

func (h *HandState) clone() *HandState {
	if h == nil {
		return nil
	}
	c := *h
	c.CommunityCards = append([]deck.Card(nil), h.CommunityCards...)
	c.SeatOrder = append([]string(nil), h.SeatOrder...)
	c.Seats = make([]Seat, len(h.Seats))
	for i, s := range h.Seats {
		s.HoleCards = append([]deck.Card(nil), s.HoleCards...)
		c.Seats[i] = s
	}
	if h.Winners != nil {
		c.Winners = make([]Winner, len(h.Winners))
		for i, w := range h.Winners {
			if w.Hand != nil {
				hand := *w.Hand
				hand.Tiebreakers = append([]int(nil), w.Hand.Tiebreakers...)
				w.Hand = &hand
			}
			c.Winners[i] = w
		}
	}
	c.Results = append([]Result(nil), h.Results...)
	return &c
}
