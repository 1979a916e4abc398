// Package evaluator ranks poker hands by enumerating five-card subsets.
package evaluator

import (
	"fmt"
	"strings"

	"github.com/jesmun04/logbait/internal/deck"
)

// Category is the class of a five-card hand, ordered weakest first.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"High Card",
	"One Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

func (c Category) String() string {
	if c < HighCard || c > StraightFlush {
		return "Unknown"
	}
	return categoryNames[c]
}

// Hand is a scored five-card hand.
type Hand struct {
	Category    Category     `json:"category"`
	Tiebreakers []int        `json:"tiebreakers"`
	Cards       [5]deck.Card `json:"cards"`
}

func (h Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s [%s]", h.Category, strings.Join(parts, " "))
}

// Compare returns -1, 0 or 1 as h is weaker than, equal to or stronger than other.
func (h Hand) Compare(other Hand) int {
	if h.Category != other.Category {
		if h.Category < other.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(h.Tiebreakers) && i < len(other.Tiebreakers); i++ {
		if h.Tiebreakers[i] < other.Tiebreakers[i] {
			return -1
		}
		if h.Tiebreakers[i] > other.Tiebreakers[i] {
			return 1
		}
	}
	return 0
}

// Beats reports whether h is strictly stronger than other.
func (h Hand) Beats(other Hand) bool {
	return h.Compare(other) > 0
}
