package game

import (
	"github.com/minaorangina/rundown/deck"
)

// IsSuccessor reports whether next follows prev in the cycle A, 2 ... Q, K, A
func IsSuccessor(next, prev deck.Rank) bool {
	if prev == deck.King {
		return next == deck.Ace
	}
	return next == prev+1
}

// CanPlayCard reports whether card may go on top. It may if it has the same
// rank, or the rank immediately after.
func CanPlayCard(card, top deck.Card) bool {
	return card.Rank == top.Rank || IsSuccessor(card.Rank, top.Rank)
}

// CanPlayCards reports whether cards may be played together on top.
// A set of several cards is legal if every card is legal on its own, if they
// all share a rank that is legal, or if their values add up to top's value.
func CanPlayCards(cards []deck.Card, top deck.Card) bool {
	switch len(cards) {
	case 0:
		return false
	case 1:
		return CanPlayCard(cards[0], top)
	}

	allLegal := true
	for _, c := range cards {
		if !CanPlayCard(c, top) {
			allLegal = false
			break
		}
	}
	if allLegal {
		return true
	}

	if sameRank(cards) && CanPlayCard(cards[0], top) {
		return true
	}

	return sumValues(cards) == top.Value
}

// ValidCards returns the cards in hand that can be played on top by themselves
func ValidCards(hand []deck.Card, top deck.Card) []deck.Card {
	valid := []deck.Card{}
	for _, c := range hand {
		if CanPlayCard(c, top) {
			valid = append(valid, c)
		}
	}
	return valid
}

func sameRank(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}

func sumValues(cards []deck.Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value
	}
	return total
}
