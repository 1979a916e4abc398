package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewHidesOtherHoleCards(t *testing.T) {
	e := NewEngine()
	tbl := startHand(t, e, newTestTable(100, 100, 100))

	v := NewView(tbl, "p1", nil)
	require.NotNil(t, v.Hand)
	assert.Len(t, v.Hand.Seats[1].HoleCards, 2)
	assert.Empty(t, v.Hand.Seats[0].HoleCards)
	assert.Empty(t, v.Hand.Seats[2].HoleCards)
	assert.Empty(t, v.Hand.CommunityCards, "preflop reveals no board cards")
	assert.Equal(t, 1.0, v.Hand.ToCall)
	assert.Empty(t, v.Hand.LegalActions, "not p1's turn")

	spectator := NewView(tbl, "", nil)
	for _, s := range spectator.Hand.Seats {
		assert.Empty(t, s.HoleCards)
	}

	turn := NewView(tbl, "p0", nil)
	assert.True(t, turn.Hand.Seats[0].IsTurn)
	assert.Equal(t, []ActionKind{Fold, Call, Raise}, turn.Hand.LegalActions)
}

func TestViewRevealsBoardByPhase(t *testing.T) {
	e := NewEngine()
	tbl := startHand(t, e, newTestTable(100, 100))
	tbl = act(t, e, tbl, "p0", Action{Kind: Call})
	tbl = act(t, e, tbl, "p1", Action{Kind: Check})

	v := NewView(tbl, "p0", nil)
	assert.Equal(t, tbl.Hand.CommunityCards[:3], v.Hand.CommunityCards)
}

func TestViewAtShowdownRevealsContenders(t *testing.T) {
	e := NewEngine()
	tbl := startHand(t, e, newTestTable(100, 100, 100))
	tbl = act(t, e, tbl, "p0", Action{Kind: Fold})
	tbl = act(t, e, tbl, "p1", Action{Kind: Call})
	for tbl.Hand.Live() {
		tbl = act(t, e, tbl, turnOf(tbl), Action{Kind: Check})
	}

	v := NewView(tbl, "", nil)
	assert.Empty(t, v.Hand.Seats[0].HoleCards, "folded hand stays hidden")
	assert.Len(t, v.Hand.Seats[1].HoleCards, 2)
	assert.Len(t, v.Hand.Seats[2].HoleCards, 2)
	assert.Len(t, v.Hand.CommunityCards, 5)
}

func TestViewUncontestedRevealsNothing(t *testing.T) {
	e := NewEngine()
	tbl := startHand(t, e, newTestTable(100, 100))
	tbl = act(t, e, tbl, "p0", Action{Kind: Fold})

	v := NewView(tbl, "p0", nil)
	assert.Len(t, v.Hand.Seats[0].HoleCards, 2, "own cards stay visible")
	assert.Empty(t, v.Hand.Seats[1].HoleCards)
}

func TestViewIsStableBetweenActions(t *testing.T) {
	tbl := startHand(t, NewEngine(), newTestTable(100, 100, 100))
	assert.Equal(t, NewView(tbl, "p2", nil), NewView(tbl, "p2", nil))
}

func TestViewPlayerOrder(t *testing.T) {
	tbl := newTestTable(10, 20, 30)
	v := NewView(tbl, "", []string{"p2", "p0"})
	require.Len(t, v.Players, 3)
	assert.Equal(t, "p2", v.Players[0].AccountID)
	assert.Equal(t, "p0", v.Players[1].AccountID)
	assert.Equal(t, "p1", v.Players[2].AccountID)
	assert.Equal(t, 20.0, v.Players[2].Stack)
}
