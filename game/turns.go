package game

import "github.com/minaorangina/rundown/deck"

// NextPlayer finds whose turn is next: the first player after current, going
// round the table, with at least one legal card. ok is false if nobody can play.
func NextPlayer(players []Player, current int, top deck.Card) (int, bool) {
	n := len(players)
	if n == 0 {
		return 0, false
	}

	for step := 1; step <= n; step++ {
		idx := (current + step) % n
		if len(ValidCards(players[idx].Hand, top)) > 0 {
			return idx, true
		}
	}

	return 0, false
}

// HasAnyValidMove reports whether any player can play on top
func HasAnyValidMove(players []Player, top deck.Card) bool {
	for _, p := range players {
		if len(ValidCards(p.Hand, top)) > 0 {
			return true
		}
	}
	return false
}

// AutoResolve returns the event to fire for a turn that needs no decision.
// A player with one legal card plays it; a player with none is skipped.
func AutoResolve(s Snapshot) (Event, bool) {
	if s.State != PlayerTurn {
		return nil, false
	}
	top, ok := s.Context.TopCard()
	if !ok {
		return nil, false
	}
	current, ok := s.Context.CurrentPlayer()
	if !ok {
		return nil, false
	}

	valid := ValidCards(current.Hand, top)
	switch len(valid) {
	case 0:
		return AutoSkip{}, true
	case 1:
		return AutoPlay{Card: valid[0], PlayerID: current.ID}, true
	}

	return nil, false
}
