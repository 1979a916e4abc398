package evaluator

import (
	"fmt"
	"sort"

	"github.com/jesmun04/logbait/internal/deck"
)

// EvaluateBest returns the strongest five-card hand that can be formed from
// cards. Between five and seven cards are accepted; every subset of five is
// scored and the maximum kept, so a seven-card input checks 21 subsets.
func EvaluateBest(cards []deck.Card) (Hand, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Hand{}, fmt.Errorf("evaluate: need 5 to 7 cards, got %d", len(cards))
	}
	seen := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return Hand{}, fmt.Errorf("evaluate: invalid card %v", c)
		}
		if seen[c] {
			return Hand{}, fmt.Errorf("evaluate: duplicate card %v", c)
		}
		seen[c] = true
	}

	var (
		best  Hand
		found bool
		combo [5]deck.Card
	)
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						combo = [5]deck.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						h := Score(combo)
						if !found || h.Beats(best) {
							best, found = h, true
						}
					}
				}
			}
		}
	}
	return best, nil
}

// Score ranks exactly five cards.
func Score(cards [5]deck.Card) Hand {
	sorted := cards
	sort.Slice(sorted[:], func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank > sorted[j].Rank
		}
		return sorted[i].Suit < sorted[j].Suit
	})

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}
	straightHigh := straightHigh(sorted)

	switch {
	case flush && straightHigh > 0:
		return Hand{Category: StraightFlush, Tiebreakers: []int{straightHigh}, Cards: orderStraight(sorted, straightHigh)}
	case straightHigh > 0:
		return Hand{Category: Straight, Tiebreakers: []int{straightHigh}, Cards: orderStraight(sorted, straightHigh)}
	}

	groups := groupByRank(sorted)
	shape := make([]int, len(groups))
	tiebreakers := make([]int, len(groups))
	ordered := make([]deck.Card, 0, 5)
	for i, g := range groups {
		shape[i] = len(g.cards)
		tiebreakers[i] = int(g.rank)
		ordered = append(ordered, g.cards...)
	}
	var out [5]deck.Card
	copy(out[:], ordered)

	var category Category
	switch {
	case shape[0] == 4:
		category = FourOfAKind
	case shape[0] == 3 && shape[1] == 2:
		category = FullHouse
	case flush:
		category = Flush
	case shape[0] == 3:
		category = ThreeOfAKind
	case shape[0] == 2 && shape[1] == 2:
		category = TwoPair
	case shape[0] == 2:
		category = OnePair
	default:
		category = HighCard
	}
	return Hand{Category: category, Tiebreakers: tiebreakers, Cards: out}
}

// straightHigh returns the top rank of a straight, 5 for the wheel, or 0.
// cards must be sorted by rank descending.
func straightHigh(cards [5]deck.Card) int {
	for i := 1; i < 5; i++ {
		if cards[i].Rank == cards[i-1].Rank {
			return 0
		}
	}
	if int(cards[0].Rank)-int(cards[4].Rank) == 4 {
		return int(cards[0].Rank)
	}
	if cards[0].Rank == deck.Ace && cards[1].Rank == deck.Five && cards[4].Rank == deck.Two {
		return int(deck.Five)
	}
	return 0
}

func orderStraight(sorted [5]deck.Card, high int) [5]deck.Card {
	if high != int(deck.Five) || sorted[0].Rank != deck.Ace {
		return sorted
	}
	return [5]deck.Card{sorted[1], sorted[2], sorted[3], sorted[4], sorted[0]}
}

type rankGroup struct {
	rank  deck.Rank
	cards []deck.Card
}

// groupByRank buckets sorted cards by rank, largest bucket first and higher
// rank first within equal sizes.
func groupByRank(sorted [5]deck.Card) []rankGroup {
	var groups []rankGroup
	for _, c := range sorted {
		if n := len(groups); n > 0 && groups[n-1].rank == c.Rank {
			groups[n-1].cards = append(groups[n-1].cards, c)
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, cards: []deck.Card{c}})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].cards) > len(groups[j].cards)
	})
	return groups
}
