package game

import (
	"fmt"
	"testing"

	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/randutil"
	"github.com/stretchr/testify/require"
)

// newTestTable seats players p0..pn-1 with the given stacks.
func newTestTable(stacks ...float64) *Table {
	t := NewTable("t1")
	for i, s := range stacks {
		id := fmt.Sprintf("p%d", i)
		t.Stacks[id] = s
		t.Names[id] = fmt.Sprintf("Player %d", i)
	}
	return t
}

func testParams(t *Table) StartParams {
	return StartParams{
		HandID:       fmt.Sprintf("hand-%d", t.HandCount+1),
		SeatOrder:    sortedKeys(t.Stacks),
		SmallBlind:   1,
		BigBlind:     2,
		MinimumRaise: 2,
	}
}

func startHand(t *testing.T, e *Engine, tbl *Table) *Table {
	t.Helper()
	next, err := e.StartHand(tbl, testParams(tbl), randutil.New(int64(tbl.HandCount+1)))
	require.NoError(t, err)
	checkInvariants(t, next)
	return next
}

func act(t *testing.T, e *Engine, tbl *Table, id string, a Action) *Table {
	t.Helper()
	next, err := e.Act(tbl, id, a)
	require.NoError(t, err, "%s %s", id, a)
	checkInvariants(t, next)
	return next
}

func turnOf(tbl *Table) string {
	return tbl.Hand.TurnAccountID()
}

// scriptedDeck builds a deck whose first cards are the given hole cards in
// seat order followed by the board.
func scriptedDeck(cards string) []deck.Card {
	return deck.MustParseCards(cards)
}

func checkInvariants(t *testing.T, tbl *Table) {
	t.Helper()
	h := tbl.Hand
	if h == nil {
		return
	}
	var contributions float64
	for _, s := range h.Seats {
		contributions += s.TotalHandContribution
		require.GreaterOrEqual(t, s.TableStack, 0.0)
		require.GreaterOrEqual(t, s.CurrentRoundWager, 0.0)
	}
	require.InDelta(t, contributions, h.Pot, 1e-6, "pot must equal contributions")
	require.Len(t, h.RevealedCommunity(), h.Phase.Revealed())
	require.Len(t, h.CommunityCards, 5)

	if h.TurnIndex >= 0 {
		require.True(t, h.Live(), "terminated hand holds a turn")
		require.Equal(t, Active, h.Seats[h.TurnIndex].Lifecycle, "folded seat holds the turn")
	}
	if h.Phase == Terminated {
		require.Equal(t, -1, h.TurnIndex)
		require.Zero(t, h.Pot)
	}
}
