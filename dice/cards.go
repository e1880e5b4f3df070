package dice

import (
	"fmt"
	"strings"
)

// DeckSize is 52 standard cards plus two jokers.
const DeckSize = 54

// Suit of a playing card. Jokers have no suit.
type Suit string

const (
	NoSuit   Suit = ""
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

var suitOrder = [4]Suit{Spades, Hearts, Diamonds, Clubs}

// Colour is "red" or "black"; NoSuit has no colour.
func (s Suit) Colour() string {
	switch s {
	case Hearts, Diamonds:
		return "red"
	case Spades, Clubs:
		return "black"
	default:
		return ""
	}
}

// Symbol renders the suit the way players pick it.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return ""
	}
}

// ParseSuit accepts a suit name ("hearts", "Hearts") or symbol ("♥").
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spades", "spade", "♠":
		return Spades, nil
	case "hearts", "heart", "♥":
		return Hearts, nil
	case "diamonds", "diamond", "♦":
		return Diamonds, nil
	case "clubs", "club", "♣":
		return Clubs, nil
	}
	return NoSuit, fmt.Errorf("unknown suit %q", s)
}

// Card is one draw from the deck. Rank is 1 (ace) through 13 (king).
type Card struct {
	Rank  int  `json:"rank,omitempty"`
	Suit  Suit `json:"suit,omitempty"`
	Joker bool `json:"joker,omitempty"`
}

// Value is the payout value of the card: ace 1, pips at face value, court
// cards 10, joker 0.
func (c Card) Value() int {
	switch {
	case c.Joker:
		return 0
	case c.Rank > 10:
		return 10
	default:
		return c.Rank
	}
}

func (c Card) String() string {
	if c.Joker {
		return "Joker"
	}
	var rank string
	switch c.Rank {
	case 1:
		rank = "A"
	case 11:
		rank = "J"
	case 12:
		rank = "Q"
	case 13:
		rank = "K"
	default:
		rank = fmt.Sprint(c.Rank)
	}
	return rank + c.Suit.Symbol()
}

// cardAt maps a deck index in [0, DeckSize) to a card; 52 and 53 are jokers.
func cardAt(idx int) Card {
	if idx >= 52 {
		return Card{Joker: true}
	}
	return Card{Rank: idx%13 + 1, Suit: suitOrder[idx/13]}
}

// DrawCards draws n cards with replacement; every draw is independent and
// uniform over the 54-card deck.
func (r *Roller) DrawCards(n int) []Card {
	if n <= 0 {
		return []Card{}
	}
	cards := make([]Card, n)
	for i := range cards {
		if r.jokers {
			cards[i] = Card{Joker: true}
			continue
		}
		cards[i] = cardAt(r.src.Intn(DeckSize))
	}
	return cards
}
