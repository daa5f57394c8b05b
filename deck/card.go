package deck

import (
	"errors"
	"fmt"
	"strings"
)

// Rank represents a rank in a deck of cards
type Rank int

var rankNames = []string{"Ace", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King"}

var rankSymbols = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

const (
	Ace Rank = iota
	Two
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
)

// Value is the point value of a rank: Ace is 1, Two to Ten their face value,
// Jack 11, Queen 12 and King 13.
func (r Rank) Value() int {
	return int(r) + 1
}

// Symbol is the short form of a rank, as printed in the corner of a card
func (r Rank) Symbol() string {
	return rankSymbols[r]
}

func (r Rank) String() string {
	return rankNames[r]
}

// Valid reports whether the rank is one of the thirteen ranks
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// Suit represents a suit in a deck of cards
type Suit int

var suitNames = []string{"Clubs", "Diamonds", "Hearts", "Spades"}

var suitSymbols = []string{"♣", "♦", "♥", "♠"}

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

func (s Suit) String() string {
	return suitNames[s]
}

// Symbol returns the suit's pip
func (s Suit) Symbol() string {
	return suitSymbols[s]
}

// Valid reports whether the suit is one of the four suits
func (s Suit) Valid() bool {
	return s >= Clubs && s <= Spades
}

// Card represents a playing card.
// Cards are values: they move between deck, hand and pile but never change.
type Card struct {
	ID    string `json:"id"`
	Rank  Rank   `json:"rank"`
	Suit  Suit   `json:"suit"`
	Value int    `json:"value"`
}

// NewCard constructs a card. It panics if rank or suit is out of range.
func NewCard(rank Rank, suit Suit) Card {
	if !rank.Valid() || !suit.Valid() {
		panic(fmt.Sprintf("card out of range: rank %d, suit %d", rank, suit))
	}

	return Card{
		ID:    CardID(rank, suit),
		Rank:  rank,
		Suit:  suit,
		Value: rank.Value(),
	}
}

// CardID returns the id a card of this rank and suit is given, e.g. "7-hearts"
func CardID(rank Rank, suit Suit) string {
	return strings.ToLower(rank.Symbol() + "-" + suit.String())
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Short returns the compact form of a card, e.g. "7♥"
func (c Card) Short() string {
	return c.Rank.Symbol() + c.Suit.Symbol()
}

// ErrInvalidCardID is returned for an id that does not name a card
var ErrInvalidCardID = errors.New("invalid card id")

// ParseCardID returns the card an id such as "7-hearts" refers to
func ParseCardID(id string) (Card, error) {
	parts := strings.SplitN(strings.ToLower(id), "-", 2)
	if len(parts) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardID, id)
	}

	rank, suit := -1, -1
	for i, sym := range rankSymbols {
		if strings.ToLower(sym) == parts[0] {
			rank = i
		}
	}
	for i, name := range suitNames {
		if strings.ToLower(name) == parts[1] {
			suit = i
		}
	}
	if rank < 0 || suit < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCardID, id)
	}

	return NewCard(Rank(rank), Suit(suit)), nil
}
