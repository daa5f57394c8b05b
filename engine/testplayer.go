package engine

import (
	"sync"

	"github.com/minaorangina/rundown/protocol"
)

// TestPlayer is a Player that records what it is sent
type TestPlayer struct {
	id   string
	name string

	mu       sync.Mutex
	received []protocol.OutboundMessage
}

func NewTestPlayer(id, name string) *TestPlayer {
	return &TestPlayer{id: id, name: name}
}

// APlayer returns a TestPlayer as a Player
func APlayer(id, name string) Player {
	return NewTestPlayer(id, name)
}

func (tp *TestPlayer) ID() string {
	return tp.id
}

func (tp *TestPlayer) Name() string {
	return tp.name
}

func (tp *TestPlayer) Send(msg protocol.OutboundMessage) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.received = append(tp.received, msg)
	return nil
}

// Received returns everything sent so far
func (tp *TestPlayer) Received() []protocol.OutboundMessage {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return append([]protocol.OutboundMessage{}, tp.received...)
}

// Last returns the most recent message
func (tp *TestPlayer) Last() (protocol.OutboundMessage, bool) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if len(tp.received) == 0 {
		return protocol.OutboundMessage{}, false
	}
	return tp.received[len(tp.received)-1], true
}
