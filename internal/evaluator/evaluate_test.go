package evaluator

import (
	"testing"

	"github.com/chehsunliu/poker"
	"github.com/jesmun04/logbait/internal/deck"
	"github.com/jesmun04/logbait/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBestCategories(t *testing.T) {
	tests := []struct {
		name        string
		cards       string
		category    Category
		tiebreakers []int
	}{
		{"royal straight flush", "AsKsQsJsTs2h3d", StraightFlush, []int{14}},
		{"steel wheel", "As2s3s4s5sKdKh", StraightFlush, []int{5}},
		{"quads with kicker", "9s9h9d9cKs2h3d", FourOfAKind, []int{9, 13}},
		{"full house trips low", "2s2h2d5c5d9sKh", FullHouse, []int{2, 5}},
		{"two trips makes full house", "7s7h7d4c4d4s2h", FullHouse, []int{7, 4}},
		{"flush keeps top five", "Ah9h7h5h3h2hKd", Flush, []int{14, 9, 7, 5, 3}},
		{"broadway straight", "AsKdQhJcTs2h3d", Straight, []int{14}},
		{"wheel straight", "As2d3h4c5s9hJd", Straight, []int{5}},
		{"six high beats wheel", "As2d3h4c5s6hJd", Straight, []int{6}},
		{"trips", "QsQhQd9c4s2h7d", ThreeOfAKind, []int{12, 9, 7}},
		{"two pair best kicker", "KsKhTdTc4s4h9d", TwoPair, []int{13, 10, 9}},
		{"one pair", "8s8hAdJc4s2h6d", OnePair, []int{8, 14, 11, 6}},
		{"high card", "AsJh9d7c4s3h2d", HighCard, []int{14, 11, 9, 7, 4}},
		{"five cards only", "KsQs9h4d2c", HighCard, []int{13, 12, 9, 4, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := EvaluateBest(deck.MustParseCards(tt.cards))
			require.NoError(t, err)
			assert.Equal(t, tt.category, h.Category)
			assert.Equal(t, tt.tiebreakers, h.Tiebreakers)
		})
	}
}

func TestEvaluateBestReturnsWinningCards(t *testing.T) {
	h, err := EvaluateBest(deck.MustParseCards("AsKsQsJsTs2h3d"))
	require.NoError(t, err)
	assert.Equal(t, deck.MustParseCards("AsKsQsJsTs"), h.Cards[:])

	wheel, err := EvaluateBest(deck.MustParseCards("As2d3h4c5s9hJd"))
	require.NoError(t, err)
	assert.Equal(t, deck.Five, wheel.Cards[0].Rank)
	assert.Equal(t, deck.Ace, wheel.Cards[4].Rank)
}

func TestEvaluateBestRejectsBadInput(t *testing.T) {
	_, err := EvaluateBest(deck.MustParseCards("AsKs"))
	assert.Error(t, err)

	_, err = EvaluateBest(deck.MustParseCards("AsAsKsQsJs"))
	assert.Error(t, err)

	_, err = EvaluateBest(deck.MustParseCards("AsKsQsJsTs9s8s7s"))
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	eval := func(s string) Hand {
		h, err := EvaluateBest(deck.MustParseCards(s))
		require.NoError(t, err)
		return h
	}

	assert.Equal(t, 1, eval("AsAhKd9c4s2h7d").Compare(eval("KsKhAd9c4s2h7d")))
	assert.Equal(t, -1, eval("AsAh2d9c4s3h7d").Compare(eval("AdAcKd9h4h2c7c")))
	// same board plays for both players
	assert.Equal(t, 0, eval("2c3dAsKsQsJsTs").Compare(eval("4h5hAsKsQsJsTs")))
	assert.Equal(t, 0, eval("AhKd8s8c5d5h2s").Compare(eval("AcKh8d8h5s5c2d")))
}

// TestAgreesWithReferenceEvaluator checks category and ordering against an
// independent lookup-table evaluator over seeded random deals.
func TestAgreesWithReferenceEvaluator(t *testing.T) {
	rng := randutil.New(2024)
	for i := 0; i < 2000; i++ {
		d := deck.NewShuffled(rng)
		deal, err := d.Deal(2)
		require.NoError(t, err)

		a := append(deal.HoleCards[0][:], deal.Community[:]...)
		b := append(deal.HoleCards[1][:], deal.Community[:]...)

		ha, err := EvaluateBest(a)
		require.NoError(t, err)
		hb, err := EvaluateBest(b)
		require.NoError(t, err)

		ra := poker.Evaluate(toReference(a))
		rb := poker.Evaluate(toReference(b))

		require.Equal(t, Category(9-poker.RankClass(ra)), ha.Category, "cards %v", a)
		require.Equal(t, Category(9-poker.RankClass(rb)), hb.Category, "cards %v", b)

		want := 0
		switch {
		case ra < rb:
			want = 1
		case ra > rb:
			want = -1
		}
		require.Equal(t, want, ha.Compare(hb), "%v vs %v", a, b)
	}
}

func toReference(cards []deck.Card) []poker.Card {
	suits := map[deck.Suit]string{deck.Spades: "s", deck.Hearts: "h", deck.Diamonds: "d", deck.Clubs: "c"}
	out := make([]poker.Card, len(cards))
	for i, c := range cards {
		out[i] = poker.NewCard(c.Rank.String() + suits[c.Suit])
	}
	return out
}
