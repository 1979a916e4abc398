package game

import (
	"maps"
	"time"
)

// Table is the persisted record for one table: chips held by each member
// between hands plus the current or last hand.
type Table struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`

	// Stacks holds the table stack of every member. For seats in a live
	// hand the seat's TableStack is authoritative until the hand ends.
	Stacks map[string]float64 `json:"stacks"`
	Names  map[string]string  `json:"names"`

	// DealerIndex is the dealer seat of the previous hand, -1 before the first.
	DealerIndex int        `json:"dealer_index"`
	HandCount   int        `json:"hand_count"`
	Hand        *HandState `json:"hand,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTable returns an empty record for id.
func NewTable(id string) *Table {
	return &Table{
		ID:          id,
		Stacks:      make(map[string]float64),
		Names:       make(map[string]string),
		DealerIndex: -1,
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := *t
	c.Stacks = maps.Clone(t.Stacks)
	c.Names = maps.Clone(t.Names)
	if c.Stacks == nil {
		c.Stacks = make(map[string]float64)
	}
	if c.Names == nil {
		c.Names = make(map[string]string)
	}
	c.Hand = t.Hand.clone()
	return &c
}

// IsMember reports whether accountID has joined the table.
func (t *Table) IsMember(accountID string) bool {
	_, ok := t.Stacks[accountID]
	return ok
}

// StackOf returns the current table stack of accountID.
func (t *Table) StackOf(accountID string) float64 {
	if t.Hand.Live() {
		if i := t.Hand.SeatIndex(accountID); i >= 0 {
			return t.Hand.Seats[i].TableStack
		}
	}
	return t.Stacks[accountID]
}

func (t *Table) setStack(accountID string, v float64) {
	if t.Hand.Live() {
		if i := t.Hand.SeatIndex(accountID); i >= 0 {
			t.Hand.Seats[i].TableStack = v
		}
	}
	t.Stacks[accountID] = v
}

// writeBack copies final seat stacks of a finished hand onto members.
func (t *Table) writeBack() {
	for _, s := range t.Hand.Seats {
		if t.IsMember(s.AccountID) {
			t.Stacks[s.AccountID] = s.TableStack
		}
	}
}

// TotalChips is the sum of chips on the table, in stacks and in the pot.
func (t *Table) TotalChips() float64 {
	var total float64
	for id, v := range t.Stacks {
		if t.Hand.Live() && t.Hand.SeatIndex(id) >= 0 {
			continue
		}
		total += v
	}
	if t.Hand.Live() {
		for _, s := range t.Hand.Seats {
			total += s.TableStack
		}
		total += t.Hand.Pot
	}
	return total
}
