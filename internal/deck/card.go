package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitSymbols = [...]string{"♠", "♥", "♦", "♣"}

// String returns the suit symbol
func (s Suit) String() string {
	if s < Spades || s > Clubs {
		return "?"
	}
	return suitSymbols[s]
}

func parseSuit(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "s", "♠":
		return Spades, nil
	case "h", "♥":
		return Hearts, nil
	case "d", "♦":
		return Diamonds, nil
	case "c", "♣":
		return Clubs, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}

// Rank represents a card rank. Aces are high.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the compact rank notation, using "T" for ten.
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	}
	return "?"
}

// Label is the rank as shown to players ("10" rather than "T").
func (r Rank) Label() string {
	if r == Ten {
		return "10"
	}
	return r.String()
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

// Card is an immutable playing card value.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.Label() + c.Suit.String()
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Spades && c.Suit <= Clubs
}

type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Rank: c.Rank.Label(), Suit: c.Suit.String()})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rank, err := parseRank(raw.Rank)
	if err != nil {
		return err
	}
	suit, err := parseSuit(raw.Suit)
	if err != nil {
		return err
	}
	*c = Card{Rank: rank, Suit: suit}
	return nil
}

// ParseCard parses a single card such as "As", "Td", "10h" or "K♣".
func ParseCard(s string) (Card, error) {
	r := []rune(strings.TrimSpace(s))
	if len(r) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := parseRank(string(r[:len(r)-1]))
	if err != nil {
		return Card{}, err
	}
	suit, err := parseSuit(string(r[len(r)-1]))
	if err != nil {
		return Card{}, err
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a run of two-character cards ("AsKsQs") or a
// whitespace separated list ("A♠ 10♥ 3d").
func ParseCards(s string) ([]Card, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, " ,") {
		fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
		cards := make([]Card, 0, len(fields))
		for _, f := range fields {
			if c, err := ParseCard(f); err == nil {
				cards = append(cards, c)
				continue
			}
			run, err := parseRun(f)
			if err != nil {
				return nil, err
			}
			cards = append(cards, run...)
		}
		return cards, nil
	}
	return parseRun(s)
}

func parseRun(s string) ([]Card, error) {
	r := []rune(s)
	if len(r)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d", len(r))
	}
	cards := make([]Card, 0, len(r)/2)
	for i := 0; i < len(r); i += 2 {
		c, err := ParseCard(string(r[i : i+2]))
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
