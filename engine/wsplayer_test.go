package engine

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/minaorangina/rundown/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyInbox struct {
	mu       sync.Mutex
	received []protocol.InboundMessage
	removed  []string
}

func (s *spyInbox) Receive(msg protocol.InboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, msg)
	return nil
}

func (s *spyInbox) RemovePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, playerID)
	return nil
}

func TestWSPlayerSend(t *testing.T) {
	t.Run("queues encoded messages", func(t *testing.T) {
		p := NewWSPlayer("i-am-a-spy", "Spy", nil, &spyInbox{}, nil)

		err := p.Send(protocol.OutboundMessage{PlayerID: p.ID(), Command: protocol.Rejected, Message: "no"})
		require.NoError(t, err)

		var got protocol.OutboundMessage
		require.NoError(t, json.Unmarshal(<-p.sendCh, &got))
		assert.Equal(t, protocol.Rejected, got.Command)
		assert.Equal(t, "no", got.Message)
	})

	t.Run("never blocks the engine", func(t *testing.T) {
		p := NewWSPlayer("slow", "Slow", nil, &spyInbox{}, nil)
		for i := 0; i < sendBufferSize; i++ {
			require.NoError(t, p.Send(protocol.OutboundMessage{Command: protocol.State}))
		}
		assert.ErrorIs(t, p.Send(protocol.OutboundMessage{Command: protocol.State}), ErrSendBufferFull)
	})

	t.Run("refuses messages once closed", func(t *testing.T) {
		p := NewWSPlayer("gone", "Gone", nil, &spyInbox{}, nil)
		p.Close()
		p.Close()
		assert.ErrorIs(t, p.Send(protocol.OutboundMessage{Command: protocol.State}), ErrPlayerDisconnected)
	})
}

func TestWSPlayerHandle(t *testing.T) {
	inbox := &spyInbox{}
	p := NewWSPlayer("p1", "Ada", nil, inbox, nil)

	t.Run("stamps messages with the connection's identity", func(t *testing.T) {
		err := p.handle([]byte(`{"playerID":"someone-else","command":"SelectCard","cardID":"k-hearts"}`))
		require.NoError(t, err)

		require.Len(t, inbox.received, 1)
		assert.Equal(t, "p1", inbox.received[0].PlayerID)
		assert.Equal(t, "k-hearts", inbox.received[0].CardID)
	})

	t.Run("joins under the connection's name", func(t *testing.T) {
		require.NoError(t, p.handle([]byte(`{"command":"Join"}`)))
		assert.Equal(t, "Ada", inbox.received[1].Name)
	})

	t.Run("reports unparsable messages", func(t *testing.T) {
		assert.Error(t, p.handle([]byte(`{"command":`)))
		assert.Error(t, p.handle([]byte(`{"command":"Teleport"}`)))
		assert.Len(t, inbox.received, 2)
	})
}
