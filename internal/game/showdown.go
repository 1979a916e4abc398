package game

import (
	"fmt"

	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/evaluator"
)

// awardUncontested gives the pot to the last active seat without
// evaluating or revealing any cards.
func (h *HandState) awardUncontested() {
	for i := range h.Seats {
		s := &h.Seats[i]
		if s.Lifecycle != Active {
			continue
		}
		s.TableStack += h.Pot
		h.Winners = []Winner{{AccountID: s.AccountID, DisplayName: s.DisplayName, AmountWon: h.Pot}}
		break
	}
	h.Phase = Terminated
	h.settle()
}

// showdown evaluates every active seat and splits the pot evenly between
// the seats holding the best hand.
func (e *Engine) showdown(h *HandState) error {
	type contender struct {
		seat int
		hand evaluator.Hand
	}
	var (
		best    []contender
		bestKey evaluator.Hand
	)
	for i := range h.Seats {
		s := &h.Seats[i]
		if s.Lifecycle != Active {
			continue
		}
		cards := make([]deck.Card, 0, len(s.HoleCards)+len(h.CommunityCards))
		cards = append(cards, s.HoleCards...)
		cards = append(cards, h.CommunityCards...)
		hand, err := e.evaluate(cards)
		if err != nil {
			return fmt.Errorf("evaluate seat %s: %w", s.AccountID, err)
		}

		switch {
		case len(best) == 0 || hand.Beats(bestKey):
			best = []contender{{seat: i, hand: hand}}
			bestKey = hand
		case hand.Compare(bestKey) == 0:
			best = append(best, contender{seat: i, hand: hand})
		}
	}
	if len(best) == 0 {
		return fmt.Errorf("no active seats at showdown")
	}

	share := h.Pot / float64(len(best))
	h.Winners = make([]Winner, 0, len(best))
	for _, c := range best {
		s := &h.Seats[c.seat]
		s.TableStack += share
		hand := c.hand
		h.Winners = append(h.Winners, Winner{
			AccountID:    s.AccountID,
			DisplayName:  s.DisplayName,
			AmountWon:    share,
			Hand:         &hand,
			CategoryName: hand.Category.String(),
			Tiebreakers:  hand.Tiebreakers,
		})
	}
	h.Showdown = true
	h.settle()
	return nil
}

// settle records per-seat results and clears every wager and the pot.
func (h *HandState) settle() {
	won := make(map[string]float64, len(h.Winners))
	for _, w := range h.Winners {
		won[w.AccountID] += w.AmountWon
	}
	h.Results = make([]Result, len(h.Seats))
	for i := range h.Seats {
		s := &h.Seats[i]
		h.Results[i] = Result{
			AccountID: s.AccountID,
			Wagered:   s.TotalHandContribution,
			Won:       won[s.AccountID],
			Net:       won[s.AccountID] - s.TotalHandContribution,
		}
		s.CurrentRoundWager = 0
		s.TotalHandContribution = 0
		s.HasActed = false
	}
	h.Pot = 0
	h.CurrentBet = 0
	h.TurnIndex = -1
	h.Phase = Terminated
}
