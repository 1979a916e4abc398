package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/evaluator"
	"github.com/jesmun04/logbait/internal/game"
)

func plain() *Renderer {
	return New(&bytes.Buffer{}, false)
}

func TestCards(t *testing.T) {
	r := plain()
	assert.Equal(t, "A♠ 10♥", r.Cards(deck.MustParseCards("AsTh")))
	assert.Equal(t, "--", r.Cards(nil))
}

func TestViewWithoutHand(t *testing.T) {
	out := plain().View(game.View{
		TableID: "main",
		Version: 3,
		Players: []game.PlayerView{{AccountID: "alice", DisplayName: "Alice", Stack: 100}},
	})

	assert.Contains(t, out, "Table main  v3")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "No hand dealt yet")
}

func TestViewWithHand(t *testing.T) {
	v := game.View{
		TableID: "main",
		Version: 9,
		Viewer:  "alice",
		Hand: &game.HandView{
			Number:         2,
			Phase:          game.Flop,
			CommunityCards: deck.MustParseCards("2c3d4h"),
			Pot:            8,
			CurrentBet:     0,
			SmallBlind:     1,
			BigBlind:       2,
			MinimumRaise:   2,
			TurnIndex:      0,
			Seats: []game.SeatView{
				{AccountID: "alice", DisplayName: "Alice", TableStack: 96, TotalHandContribution: 4, HoleCards: deck.MustParseCards("AsKs"), Role: game.RoleDealer, IsTurn: true},
				{AccountID: "bob", DisplayName: "Bob", TableStack: 96, TotalHandContribution: 4, Lifecycle: game.Active, LastAction: "call"},
			},
			LegalActions: []game.ActionKind{game.Check, game.Raise, game.Fold},
		},
	}

	out := plain().View(v)
	assert.Contains(t, out, "(alice)")
	assert.Contains(t, out, "Hand #2  flop  pot 8.00")
	assert.Contains(t, out, "Board: 2♣ 3♦ 4♥")
	assert.Contains(t, out, "> Alice (dealer)")
	assert.Contains(t, out, "A♠ K♠")
	assert.Contains(t, out, "call")
	assert.Contains(t, out, "Your turn: check, raise, fold")
}

func TestViewWinners(t *testing.T) {
	hand, err := evaluator.EvaluateBest(deck.MustParseCards("AsKsQsJsTs2h3d"))
	assert.NoError(t, err)

	out := plain().View(game.View{
		TableID: "main",
		Hand: &game.HandView{
			Phase:   game.Terminated,
			Winners: []game.Winner{{AccountID: "alice", DisplayName: "Alice", AmountWon: 12, Hand: &hand}},
		},
	})
	assert.Contains(t, out, "Alice wins 12.00 with Straight Flush")
}

func TestError(t *testing.T) {
	assert.Equal(t, "error [forbidden]: nope", plain().Error("forbidden", "nope"))
}
