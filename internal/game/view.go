package game

import (
	"time"

	"github.com/jesmun04/logbait/internal/deck"
)

// SeatView is a seat as seen by one viewer.
type SeatView struct {
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
	IsTurn                bool        `json:"is_turn"`
}

// HandView is a hand as seen by one viewer. Unrevealed community cards are
// never included.
type HandView struct {
	ID             string       `json:"id"`
	Number         int          `json:"number"`
	Phase          Phase        `json:"phase"`
	CommunityCards []deck.Card  `json:"community_cards"`
	Pot            float64      `json:"pot"`
	CurrentBet     float64      `json:"current_bet"`
	MinimumRaise   float64      `json:"minimum_raise"`
	SmallBlind     float64      `json:"small_blind"`
	BigBlind       float64      `json:"big_blind"`
	DealerIndex    int          `json:"dealer_index"`
	TurnIndex      int          `json:"turn_index"`
	TurnAccountID  string       `json:"turn_account_id,omitempty"`
	Seats          []SeatView   `json:"seats"`
	Showdown       bool         `json:"showdown"`
	Winners        []Winner     `json:"winners,omitempty"`
	Results        []Result     `json:"results,omitempty"`
	ToCall         float64      `json:"to_call"`
	LegalActions   []ActionKind `json:"legal_actions,omitempty"`
}

// PlayerView is a table member and their stack.
type PlayerView struct {
	AccountID   string  `json:"account_id"`
	DisplayName string  `json:"display_name"`
	Stack       float64 `json:"stack"`
}

// View is a sanitized snapshot of a table for one viewer. An empty viewer
// is a spectator and sees no hole cards until showdown.
type View struct {
	TableID   string       `json:"table_id"`
	Version   int64        `json:"version"`
	Viewer    string       `json:"viewer,omitempty"`
	Players   []PlayerView `json:"players"`
	Hand      *HandView    `json:"hand,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewView builds the view of t for viewer. Players are listed in the order
// given; members missing from order are appended.
func NewView(t *Table, viewer string, order []string) View {
	v := View{
		TableID:   t.ID,
		Version:   t.Version,
		Viewer:    viewer,
		UpdatedAt: t.UpdatedAt,
	}

	listed := make(map[string]bool, len(t.Stacks))
	addPlayer := func(id string) {
		if listed[id] || !t.IsMember(id) {
			return
		}
		listed[id] = true
		v.Players = append(v.Players, PlayerView{AccountID: id, DisplayName: t.Names[id], Stack: t.StackOf(id)})
	}
	for _, id := range order {
		addPlayer(id)
	}
	for _, id := range sortedKeys(t.Stacks) {
		addPlayer(id)
	}

	if h := t.Hand; h != nil {
		v.Hand = newHandView(h, viewer)
	}
	return v
}

func newHandView(h *HandState, viewer string) *HandView {
	hv := &HandView{
		ID:             h.ID,
		Number:         h.Number,
		Phase:          h.Phase,
		CommunityCards: h.RevealedCommunity(),
		Pot:            h.Pot,
		CurrentBet:     h.CurrentBet,
		MinimumRaise:   h.MinimumRaise,
		SmallBlind:     h.SmallBlind,
		BigBlind:       h.BigBlind,
		DealerIndex:    h.DealerIndex,
		TurnIndex:      h.TurnIndex,
		TurnAccountID:  h.TurnAccountID(),
		Seats:          make([]SeatView, len(h.Seats)),
		Showdown:       h.Showdown,
		Results:        append([]Result(nil), h.Results...),
	}
	revealAll := h.Phase == Terminated && h.Showdown
	for i, s := range h.Seats {
		sv := SeatView{
			AccountID:             s.AccountID,
			DisplayName:           s.DisplayName,
			TableStack:            s.TableStack,
			CurrentRoundWager:     s.CurrentRoundWager,
			TotalHandContribution: s.TotalHandContribution,
			Lifecycle:             s.Lifecycle,
			HasActed:              s.HasActed,
			Role:                  s.Role,
			LastAction:            s.LastAction,
			IsTurn:                i == h.TurnIndex,
		}
		if s.AccountID == viewer || (revealAll && s.Lifecycle == Active) {
			sv.HoleCards = append([]deck.Card(nil), s.HoleCards...)
		}
		hv.Seats[i] = sv
	}
	if len(h.Winners) > 0 {
		hv.Winners = h.clone().Winners
	}
	if i := h.SeatIndex(viewer); i >= 0 && h.Live() {
		hv.ToCall = h.ToCall(i)
		if i == h.TurnIndex {
			hv.LegalActions = h.LegalActions(i)
		}
	}
	return hv
}
