package game

import (
	"time"

	"github.com/minaorangina/rundown/deck"
)

// Player is a participant in a round
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Hand      []deck.Card `json:"hand"`
	IsCurrent bool        `json:"isCurrent"`
}

// NotificationKind says which automatic action a Notification records
type NotificationKind string

const (
	AutoPlayed  NotificationKind = "auto_play"
	AutoSkipped NotificationKind = "auto_skip"
)

// Notification records a turn the game resolved without the player.
// Card is nil for a skip.
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	PlayerID   string           `json:"playerID"`
	PlayerName string           `json:"playerName"`
	Card       *deck.Card       `json:"card"`
	At         time.Time        `json:"at"`
}

// Context is the full state of a game.
// The Machine that holds it is its only writer.
type Context struct {
	GameID             string         `json:"gameID"`
	Players            []Player       `json:"players"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Deck               deck.Deck      `json:"deck"`
	DiscardPile        []deck.Card    `json:"discardPile"`
	TimeRemaining      int            `json:"timeRemaining"`
	SelectedCards      []deck.Card    `json:"selectedCards"`
	RoundStartedAt     time.Time      `json:"roundStartedAt"`
	FinalScores        []Score        `json:"finalScores"`
	Winner             *Score         `json:"winner"`
	Notifications      []Notification `json:"notifications"`
	EndReason          EndReason      `json:"endReason"`
}

// TopCard returns the card on top of the discard pile
func (c Context) TopCard() (deck.Card, bool) {
	if len(c.DiscardPile) == 0 {
		return deck.Card{}, false
	}
	return c.DiscardPile[len(c.DiscardPile)-1], true
}

// CurrentPlayer returns the player whose turn it is, if any
func (c Context) CurrentPlayer() (Player, bool) {
	if c.CurrentPlayerIndex < 0 || c.CurrentPlayerIndex >= len(c.Players) {
		return Player{}, false
	}
	p := c.Players[c.CurrentPlayerIndex]
	if !p.IsCurrent {
		return Player{}, false
	}
	return p, true
}

// FindPlayer returns the player with the given id
func (c Context) FindPlayer(id string) (Player, bool) {
	for _, p := range c.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (c Context) clone() Context {
	out := c
	out.Players = make([]Player, len(c.Players))
	for i, p := range c.Players {
		p.Hand = copyCards(p.Hand)
		out.Players[i] = p
	}
	out.Deck = deck.Deck(copyCards(c.Deck))
	out.DiscardPile = copyCards(c.DiscardPile)
	out.SelectedCards = copyCards(c.SelectedCards)
	if c.FinalScores != nil {
		out.FinalScores = append([]Score{}, c.FinalScores...)
	}
	if c.Winner != nil {
		w := *c.Winner
		out.Winner = &w
	}
	out.Notifications = make([]Notification, len(c.Notifications))
	for i, n := range c.Notifications {
		if n.Card != nil {
			card := *n.Card
			n.Card = &card
		}
		out.Notifications[i] = n
	}
	return out
}

// Snapshot is a read-only copy of a Machine's state
type Snapshot struct {
	State   State   `json:"state"`
	Context Context `json:"context"`
}

// Is reports whether the snapshot was taken in state s
func (s Snapshot) Is(state State) bool {
	return s.State == state
}

// MarshalText encodes a State by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a State from its name
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return ErrUnknownState
}
