package engine

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/minaorangina/rundown/display"
	"github.com/minaorangina/rundown/game"
	"github.com/minaorangina/rundown/protocol"
)

var ErrMissingArgument = errors.New("missing argument")

// CLIPlayer renders the game to a terminal. It watches rather than sits at
// the table: everyone shares the keyboard and acts on their own turn.
type CLIPlayer struct {
	id   string
	name string

	mu   sync.Mutex
	out  io.Writer
	last *game.Snapshot
}

func NewCLIPlayer(id, name string, out io.Writer) *CLIPlayer {
	return &CLIPlayer{id: id, name: name, out: out}
}

func (p *CLIPlayer) ID() string {
	return p.id
}

func (p *CLIPlayer) Name() string {
	return p.name
}

// Send writes msg out. A snapshot that only moves the clock is shown as a
// single line every ten seconds and through the last ten.
func (p *CLIPlayer) Send(msg protocol.OutboundMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch msg.Command {
	case protocol.State:
		if msg.Snapshot == nil {
			return nil
		}
		s := *msg.Snapshot
		if p.last != nil && onlyClockMoved(*p.last, s) {
			if left := s.Context.TimeRemaining; left%10 == 0 || left <= 10 {
				SendText(p.out, "Time left: %s\n", display.Clock(left))
			}
		} else {
			display.Snapshot(p.out, s, "")
			SendText(p.out, "\n")
		}
		p.last = &s

	case protocol.Rejected, protocol.Error:
		SendText(p.out, "%s\n", strings.TrimSpace(msg.Message+" "+msg.Error))
	}

	return nil
}

func onlyClockMoved(before, after game.Snapshot) bool {
	before.Context.TimeRemaining = 0
	after.Context.TimeRemaining = 0
	return reflect.DeepEqual(before, after)
}

// SendText writes formatted text to out
func SendText(out io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(out, text, a...)
}

// PlayerIDFor is the id a hot-seat player with this name plays under
func PlayerIDFor(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseCommand turns a line typed at the terminal into a message. Card
// commands act for whoever's turn it is in s.
//
//	join <name> | leave <name> | start | select <card> | deselect <card>
//	play [cards...] | end | restart
//
// play on its own plays the current selection.
func ParseCommand(line string, s game.Snapshot) (protocol.InboundMessage, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return protocol.InboundMessage{}, fmt.Errorf("%w %q", protocol.ErrUnknownCommand, line)
	}
	word, args := strings.ToLower(fields[0]), fields[1:]

	current := ""
	if p, ok := s.Context.CurrentPlayer(); ok {
		current = p.ID
	}

	switch word {
	case "join", "leave":
		if len(args) == 0 {
			return protocol.InboundMessage{}, fmt.Errorf("%s: %w: name", word, ErrMissingArgument)
		}
		name := strings.Join(args, " ")
		cmd := protocol.Join
		if word == "leave" {
			cmd = protocol.Leave
		}
		return protocol.InboundMessage{PlayerID: PlayerIDFor(name), Name: name, Command: cmd}, nil

	case "start":
		return protocol.InboundMessage{Command: protocol.Start}, nil
	case "end":
		return protocol.InboundMessage{Command: protocol.EndRound}, nil
	case "restart":
		return protocol.InboundMessage{Command: protocol.Restart}, nil

	case "select", "deselect":
		if len(args) != 1 {
			return protocol.InboundMessage{}, fmt.Errorf("%s: %w: card", word, ErrMissingArgument)
		}
		cmd := protocol.SelectCard
		if word == "deselect" {
			cmd = protocol.DeselectCard
		}
		return protocol.InboundMessage{PlayerID: current, Command: cmd, CardID: args[0]}, nil

	case "play":
		if len(args) == 0 {
			for _, c := range s.Context.SelectedCards {
				args = append(args, c.ID)
			}
		}
		return protocol.InboundMessage{PlayerID: current, Command: protocol.PlayCards, CardIDs: args}, nil
	}

	return protocol.InboundMessage{}, fmt.Errorf("%w %q", protocol.ErrUnknownCommand, word)
}
