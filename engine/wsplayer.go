package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/rundown/protocol"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBufferSize = 16
)

var (
	ErrPlayerDisconnected = errors.New("player has disconnected")
	ErrSendBufferFull     = errors.New("player send buffer is full")
)

// Inbox is where a WSPlayer delivers what its peer sends
type Inbox interface {
	Receive(msg protocol.InboundMessage) error
	RemovePlayer(playerID string) error
}

// WSPlayer is a Player connected over a websocket
type WSPlayer struct {
	id     string
	name   string
	conn   *websocket.Conn
	inbox  Inbox
	log    *zap.Logger
	sendCh chan []byte

	quit      chan struct{}
	closeOnce sync.Once
}

// NewWSPlayer constructs a WSPlayer. Start begins pumping messages.
func NewWSPlayer(id, name string, ws *websocket.Conn, inbox Inbox, log *zap.Logger) *WSPlayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSPlayer{
		id:     id,
		name:   name,
		conn:   ws,
		inbox:  inbox,
		log:    log.With(zap.String("player_id", id)),
		sendCh: make(chan []byte, sendBufferSize),
		quit:   make(chan struct{}),
	}
}

func (p *WSPlayer) ID() string {
	return p.id
}

func (p *WSPlayer) Name() string {
	return p.name
}

// Send queues msg for the peer without blocking
func (p *WSPlayer) Send(msg protocol.OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding %s message: %w", msg.Command, err)
	}

	select {
	case <-p.quit:
		return ErrPlayerDisconnected
	default:
	}

	select {
	case p.sendCh <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Start runs the read and write pumps
func (p *WSPlayer) Start() {
	go p.writePump()
	go p.readPump()
}

// Close stops the pumps and closes the connection
func (p *WSPlayer) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
	})
}

func (p *WSPlayer) readPump() {
	defer func() {
		p.Close()
		if err := p.inbox.RemovePlayer(p.id); err != nil && !errors.Is(err, ErrEngineStopped) {
			p.log.Warn("could not remove player", zap.Error(err))
		}
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.log.Warn("unexpected close", zap.Error(err))
			}
			return
		}

		if err := p.handle(data); err != nil {
			p.log.Debug("bad message", zap.Error(err))
			if sendErr := p.Send(protocol.NewErrorMessage(p.id, err)); sendErr != nil {
				p.log.Warn("could not report error", zap.Error(sendErr))
			}
		}
	}
}

// handle passes a message from the peer on, with the peer's identity
func (p *WSPlayer) handle(data []byte) error {
	var msg protocol.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("could not parse message: %w", err)
	}
	msg.PlayerID = p.id
	if msg.Command == protocol.Join && msg.Name == "" {
		msg.Name = p.name
	}
	return p.inbox.Receive(msg)
}

func (p *WSPlayer) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg := <-p.sendCh:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				p.log.Warn("write failed", zap.Error(err))
				p.Close()
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.Close()
				return
			}

		case <-p.quit:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
