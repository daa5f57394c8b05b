package engine

import (
	uuid "github.com/satori/go.uuid"

	"github.com/minaorangina/rundown/protocol"
)

// NewID constructs a player ID
func NewID() string {
	return uuid.NewV4().String()
}

// Player is a connection to someone in the game
type Player interface {
	ID() string
	Name() string
	Send(msg protocol.OutboundMessage) error
}

// Players represents all connected players
type Players []Player

// NewPlayers returns a set of Players
func NewPlayers(p ...Player) Players {
	return Players(p)
}

// Find finds a player by id
func (ps Players) Find(id string) (Player, bool) {
	for _, p := range ps {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Replace adds p, or swaps it in for the player with the same id
func (ps Players) Replace(p Player) Players {
	for i, existing := range ps {
		if existing.ID() == p.ID() {
			out := append(Players{}, ps...)
			out[i] = p
			return out
		}
	}
	return append(append(Players{}, ps...), p)
}

// Remove returns the players without the one with id
func (ps Players) Remove(id string) (Players, bool) {
	out := Players{}
	found := false
	for _, p := range ps {
		if p.ID() == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	return out, found
}
