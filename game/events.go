package game

import "github.com/minaorangina/rundown/deck"

// Event is a command sent to the Machine.
// The set of events is closed: only types in this package implement it.
type Event interface {
	event()
}

// Join registers a player while in the lobby
type Join struct {
	PlayerID   string
	PlayerName string
}

// Start asks for the round to begin
type Start struct{}

// SelectCard tentatively selects a card from the current player's hand
type SelectCard struct {
	CardID   string
	PlayerID string
}

// DeselectCard removes a card from the selection
type DeselectCard struct {
	CardID   string
	PlayerID string
}

// PlayCards commits a play. Cards go onto the pile in the order given.
type PlayCards struct {
	Cards    []deck.Card
	PlayerID string
}

// AutoPlay plays a player's only legal card on their behalf
type AutoPlay struct {
	Card     deck.Card
	PlayerID string
}

// AutoSkip passes the turn of a player with no legal card
type AutoSkip struct{}

// Tick reports the seconds left on the round countdown
type Tick struct {
	Remaining int
}

// EndRound asks for the round to end now
type EndRound struct{}

// Restart discards the finished round and returns to the lobby
type Restart struct{}

// Leave removes a player from the roster
type Leave struct {
	PlayerID string
}

// Timeout fires a delayed transition. Only the Machine creates these,
// via Pending, and each is only valid for the state entry it was made for.
type Timeout struct {
	epoch uint64
}

func (Join) event()         {}
func (Start) event()        {}
func (SelectCard) event()   {}
func (DeselectCard) event() {}
func (PlayCards) event()    {}
func (AutoPlay) event()     {}
func (AutoSkip) event()     {}
func (Tick) event()         {}
func (EndRound) event()     {}
func (Restart) event()      {}
func (Leave) event()        {}
func (Timeout) event()      {}

// EventName returns a short name for logging
func EventName(e Event) string {
	switch e.(type) {
	case Join:
		return "join"
	case Start:
		return "start"
	case SelectCard:
		return "select_card"
	case DeselectCard:
		return "deselect_card"
	case PlayCards:
		return "play_cards"
	case AutoPlay:
		return "auto_play"
	case AutoSkip:
		return "auto_skip"
	case Tick:
		return "tick"
	case EndRound:
		return "end_round"
	case Restart:
		return "restart"
	case Leave:
		return "leave"
	case Timeout:
		return "timeout"
	}
	return "unknown"
}
