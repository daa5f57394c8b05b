package deck

import (
	"math/rand"
	"time"
)

// DefaultHandSize is the number of cards each player is dealt
const DefaultHandSize = 7

// Deck represents a deck of cards
type Deck []Card

// New creates a shuffled deck of 52 cards
func New() Deck {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a deck of 52 cards shuffled with r
func NewWithRand(r *rand.Rand) Deck {
	d := Ordered()
	d.Shuffle(r)
	return d
}

// Ordered creates an unshuffled deck, suit by suit, Ace to King
func Ordered() Deck {
	cards := make(Deck, 0, len(suitNames)*len(rankNames))
	for suit := range suitNames {
		for rank := range rankNames {
			cards = append(cards, NewCard(Rank(rank), Suit(suit)))
		}
	}
	return cards
}

// Shuffle shuffles the deck in place (Fisher-Yates)
func (d Deck) Shuffle(r *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Deal deals cardsPerPlayer cards to each of numPlayers players, one card
// to each player per round. It stops early if the deck runs out.
// d is not modified; the undealt cards are returned as a new Deck.
func Deal(d Deck, numPlayers, cardsPerPlayer int) ([][]Card, Deck) {
	if numPlayers <= 0 {
		return [][]Card{}, append(Deck{}, d...)
	}

	hands := make([][]Card, numPlayers)
	for i := range hands {
		hands[i] = []Card{}
	}

	next := 0
	for round := 0; round < cardsPerPlayer; round++ {
		for p := 0; p < numPlayers; p++ {
			if next >= len(d) {
				return hands, Deck{}
			}
			hands[p] = append(hands[p], d[next])
			next++
		}
	}

	return hands, append(Deck{}, d[next:]...)
}

// Contains reports whether a card with the given id is in cards
func Contains(cards []Card, id string) bool {
	_, ok := Find(cards, id)
	return ok
}

// Find returns the index of the card with the given id
func Find(cards []Card, id string) (int, bool) {
	for i, c := range cards {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}
