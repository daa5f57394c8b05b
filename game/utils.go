package game

import "github.com/minaorangina/rundown/deck"

func copyCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}
	return append([]deck.Card{}, cards...)
}

// removeCards returns hand without the cards in toRemove, matched by id
func removeCards(hand, toRemove []deck.Card) []deck.Card {
	drop := map[string]struct{}{}
	for _, c := range toRemove {
		drop[c.ID] = struct{}{}
	}

	kept := []deck.Card{}
	for _, c := range hand {
		if _, ok := drop[c.ID]; !ok {
			kept = append(kept, c)
		}
	}
	return kept
}

// cardsInHand reports whether cards are distinct and all held in hand
func cardsInHand(cards, hand []deck.Card) bool {
	seen := map[string]struct{}{}
	for _, c := range cards {
		if _, dup := seen[c.ID]; dup {
			return false
		}
		seen[c.ID] = struct{}{}

		idx, ok := deck.Find(hand, c.ID)
		if !ok || hand[idx] != c {
			return false
		}
	}
	return true
}
