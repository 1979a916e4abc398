package game

import (
	"fmt"
	"math"
)

// ActionKind is a betting decision.
type ActionKind string

const (
	Fold  ActionKind = "fold"
	Check ActionKind = "check"
	Call  ActionKind = "call"
	Raise ActionKind = "raise"
)

// ParseActionKind accepts the wire names of the betting actions.
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(s); k {
	case Fold, Check, Call, Raise:
		return k, nil
	}
	return "", validationf("unknown action %q", s)
}

// Action is a betting decision. Amount is only used by raises and is the
// increment above the amount needed to call.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Amount float64    `json:"amount,omitempty"`
}

func (a Action) String() string {
	if a.Kind == Raise {
		return fmt.Sprintf("raise %.2f", a.Amount)
	}
	return string(a.Kind)
}

// apply validates and performs the action for seat i. On error the hand
// must be discarded.
func (h *HandState) apply(i int, a Action) error {
	s := &h.Seats[i]
	toCall := h.ToCall(i)

	switch a.Kind {
	case Fold:
		s.Lifecycle = Folded
		s.LastAction = "fold"

	case Check:
		if toCall > 0 {
			return validationf("cannot check facing a bet of %.2f", toCall)
		}
		s.LastAction = "check"

	case Call:
		if toCall == 0 {
			s.LastAction = "check"
			break
		}
		h.commit(i, toCall)
		s.LastAction = "call"
		if s.AllIn() {
			s.LastAction = "all-in"
		}

	case Raise:
		if math.IsNaN(a.Amount) || math.IsInf(a.Amount, 0) || a.Amount <= 0 {
			return validationf("invalid raise amount %v", a.Amount)
		}
		if a.Amount < h.MinimumRaise-epsilon {
			return validationf("raise of %.2f is below the table minimum of %.2f", a.Amount, h.MinimumRaise)
		}
		if toCall+a.Amount > s.TableStack+epsilon {
			return validationf("raise needs %.2f but stack is %.2f", toCall+a.Amount, s.TableStack)
		}
		h.commit(i, toCall+a.Amount)
		h.CurrentBet += a.Amount
		for j := range h.Seats {
			if j != i && h.Seats[j].Lifecycle == Active {
				h.Seats[j].HasActed = false
			}
		}
		s.LastAction = fmt.Sprintf("raise %.2f", a.Amount)

	default:
		return validationf("unknown action %q", a.Kind)
	}

	s.HasActed = true
	return nil
}

// LegalActions lists what seat i may do if it held the turn.
func (h *HandState) LegalActions(i int) []ActionKind {
	if !h.Live() || i < 0 || i >= len(h.Seats) || h.Seats[i].Lifecycle != Active {
		return nil
	}
	toCall := h.ToCall(i)
	actions := []ActionKind{Fold}
	if toCall == 0 {
		actions = append(actions, Check)
	} else {
		actions = append(actions, Call)
	}
	if h.Seats[i].TableStack+epsilon >= toCall+h.MinimumRaise {
		actions = append(actions, Raise)
	}
	return actions
}
