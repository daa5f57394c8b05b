package protocol

import (
	"errors"
	"fmt"

	"github.com/minaorangina/rundown/deck"
	"github.com/minaorangina/rundown/game"
)

var ErrUnknownCommand = errors.New("unknown command")

// Cmd represents a command
type Cmd int

const (
	Null Cmd = iota

	// from players
	Join
	Start
	SelectCard
	DeselectCard
	PlayCards
	EndRound
	Restart
	Leave

	// to players
	State
	Rejected
	Error
)

var CmdNames = map[Cmd]string{
	Null:         "Null",
	Join:         "Join",
	Start:        "Start",
	SelectCard:   "SelectCard",
	DeselectCard: "DeselectCard",
	PlayCards:    "PlayCards",
	EndRound:     "EndRound",
	Restart:      "Restart",
	Leave:        "Leave",
	State:        "State",
	Rejected:     "Rejected",
	Error:        "Error",
}

var NameToCmd = map[string]Cmd{}

func init() {
	for cmd, name := range CmdNames {
		NameToCmd[name] = cmd
	}
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// ParseCmd looks a command up by name
func ParseCmd(name string) (Cmd, error) {
	cmd, ok := NameToCmd[name]
	if !ok {
		return Null, fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	return cmd, nil
}

// MarshalText encodes a Cmd by name
func (c Cmd) MarshalText() ([]byte, error) {
	name, ok := CmdNames[c]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownCommand, int(c))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a Cmd from its name
func (c *Cmd) UnmarshalText(text []byte) error {
	cmd, err := ParseCmd(string(text))
	if err != nil {
		return err
	}
	*c = cmd
	return nil
}

// InboundMessage is a message from Player to GameEngine
type InboundMessage struct {
	PlayerID string   `json:"playerID"`
	Name     string   `json:"name,omitempty"`
	Command  Cmd      `json:"command"`
	CardID   string   `json:"cardID,omitempty"`
	CardIDs  []string `json:"cardIDs,omitempty"`
}

// OutboundMessage is a message from GameEngine to Player
type OutboundMessage struct {
	PlayerID string         `json:"playerID"`
	Command  Cmd            `json:"command"`
	Message  string         `json:"message,omitempty"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ToEvent converts an inbound message to the game event it asks for.
// Only commands a player may issue are converted.
func ToEvent(msg InboundMessage) (game.Event, error) {
	switch msg.Command {
	case Join:
		return game.Join{PlayerID: msg.PlayerID, PlayerName: msg.Name}, nil
	case Start:
		return game.Start{}, nil
	case SelectCard:
		return game.SelectCard{PlayerID: msg.PlayerID, CardID: msg.CardID}, nil
	case DeselectCard:
		return game.DeselectCard{PlayerID: msg.PlayerID, CardID: msg.CardID}, nil
	case PlayCards:
		cards := make([]deck.Card, 0, len(msg.CardIDs))
		for _, id := range msg.CardIDs {
			c, err := deck.ParseCardID(id)
			if err != nil {
				return nil, fmt.Errorf("play cards: %w", err)
			}
			cards = append(cards, c)
		}
		return game.PlayCards{PlayerID: msg.PlayerID, Cards: cards}, nil
	case EndRound:
		return game.EndRound{}, nil
	case Restart:
		return game.Restart{}, nil
	case Leave:
		return game.Leave{PlayerID: msg.PlayerID}, nil
	}
	return nil, fmt.Errorf("%w %s from player %s", ErrUnknownCommand, msg.Command, msg.PlayerID)
}
