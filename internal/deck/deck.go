package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// CommunityCards is the number of board cards dealt at hand start.
const CommunityCards = 5

// InsufficientCardsError is returned when a deal needs more cards than remain.
type InsufficientCardsError struct {
	Seats     int
	Needed    int
	Available int
}

func (e *InsufficientCardsError) Error() string {
	return fmt.Sprintf("insufficient cards: %d seats need %d cards, %d available", e.Seats, e.Needed, e.Available)
}

// Deck is an ordered sequence of cards consumed from the front.
type Deck struct {
	cards []Card
}

// New returns an unshuffled 52 card deck.
func New() *Deck {
	cards := make([]Card, 0, DeckSize)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return &Deck{cards: cards}
}

// NewShuffled returns a full deck under a Fisher-Yates permutation drawn from rng.
func NewShuffled(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("deck: NewShuffled requires a random source")
	}
	d := New()
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	return d
}

// FromCards builds a deck with a fixed order. Used for scripted hands.
func FromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Pop removes and returns the top card.
func (d *Deck) Pop() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// Deal is the result of dealing a hand.
type Deal struct {
	HoleCards [][2]Card
	Community [CommunityCards]Card
}

// Deal pops two hole cards per seat in seat order, then the five community cards.
// Nothing is consumed when the deck cannot cover the whole deal.
func (d *Deck) Deal(seatCount int) (Deal, error) {
	need := 2*seatCount + CommunityCards
	if seatCount < 0 || need > len(d.cards) {
		return Deal{}, &InsufficientCardsError{Seats: seatCount, Needed: need, Available: len(d.cards)}
	}

	out := Deal{HoleCards: make([][2]Card, seatCount)}
	for i := range seatCount {
		out.HoleCards[i][0], _ = d.Pop()
		out.HoleCards[i][1], _ = d.Pop()
	}
	for i := range CommunityCards {
		out.Community[i], _ = d.Pop()
	}
	return out, nil
}
