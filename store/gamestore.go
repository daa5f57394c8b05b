package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/awesome-cap/hashmap"
	"github.com/minaorangina/rundown/engine"
	"github.com/minaorangina/rundown/game"
	"github.com/minaorangina/rundown/protocol"
	"go.uber.org/zap"
)

var (
	ErrUnknownGameID      = errors.New("unknown game ID")
	ErrGameExists         = errors.New("game already exists")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameFull           = errors.New("game is full")
)

// maxPendingPlayers matches the most players a game seats
const maxPendingPlayers = 4

// GameEngine is what the store keeps for each game
type GameEngine interface {
	ID() string
	CreatorID() string
	Snapshot() game.Snapshot
	AddPlayer(p engine.Player) error
	RemovePlayer(playerID string) error
	Receive(msg protocol.InboundMessage) error
	Done() <-chan struct{}
}

// PlayerInfo is someone who has asked to join but has not connected yet
type PlayerInfo struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// InMemoryGameStore maps game id to game engine.
// A game is dropped from the store once its engine stops.
type InMemoryGameStore struct {
	games   *hashmap.HashMap
	pending *hashmap.HashMap
	log     *zap.Logger

	// serialises check-then-set writes
	mu sync.Mutex
}

// NewInMemoryGameStore constructs an InMemoryGameStore
func NewInMemoryGameStore(log *zap.Logger) *InMemoryGameStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryGameStore{
		games:   hashmap.New(),
		pending: hashmap.New(),
		log:     log,
	}
}

// FindGame returns the game with gameID, or nil
func (s *InMemoryGameStore) FindGame(gameID string) GameEngine {
	v, ok := s.games.Get(gameID)
	if !ok {
		return nil
	}
	return v.(GameEngine)
}

// Games returns every game in the store
func (s *InMemoryGameStore) Games() []GameEngine {
	games := []GameEngine{}
	s.games.Foreach(func(e *hashmap.Entry) {
		games = append(games, e.Value().(GameEngine))
	})
	return games
}

// AddGame registers a game under its id
func (s *InMemoryGameStore) AddGame(g GameEngine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games.Get(g.ID()); exists {
		return fmt.Errorf("%w: %s", ErrGameExists, g.ID())
	}
	s.games.Set(g.ID(), g)
	s.pending.Set(g.ID(), []PlayerInfo{})
	s.log.Info("game added", zap.String("game_id", g.ID()))

	go func() {
		<-g.Done()
		s.RemoveGame(g.ID())
	}()

	return nil
}

// RemoveGame drops a game and anyone waiting to join it
func (s *InMemoryGameStore) RemoveGame(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games.Get(gameID); !exists {
		return false
	}
	s.games.Del(gameID)
	s.pending.Del(gameID)
	s.log.Info("game removed", zap.String("game_id", gameID))
	return true
}

// AddPendingPlayer records someone who will connect to a game in the lobby
func (s *InMemoryGameStore) AddPendingPlayer(gameID, playerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.FindGame(gameID)
	if g == nil {
		return fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}
	if !g.Snapshot().Is(game.Lobby) {
		return ErrGameAlreadyStarted
	}

	infos := s.PendingPlayers(gameID)
	if seatsTaken(g.Snapshot(), infos) >= maxPendingPlayers {
		return ErrGameFull
	}
	s.pending.Set(gameID, append(infos, PlayerInfo{PlayerID: playerID, Name: name}))

	return nil
}

// seatsTaken counts everyone seated or on their way to a seat, once each
func seatsTaken(snap game.Snapshot, infos []PlayerInfo) int {
	ids := map[string]struct{}{}
	for _, p := range snap.Context.Players {
		ids[p.ID] = struct{}{}
	}
	for _, info := range infos {
		ids[info.PlayerID] = struct{}{}
	}
	return len(ids)
}

// Tracker returns a hook for a game's engine that keeps the pending players
// in step with the roster. A player who leaves gives up their place, and a
// restart clears the list.
func (s *InMemoryGameStore) Tracker(gameID string) func(game.Event) {
	return func(e game.Event) {
		switch e := e.(type) {
		case game.Leave:
			s.removePendingPlayer(gameID, e.PlayerID)
		case game.Restart:
			s.clearPendingPlayers(gameID)
		}
	}
}

func (s *InMemoryGameStore) removePendingPlayer(gameID, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.pending.Get(gameID)
	if !ok {
		return
	}
	kept := []PlayerInfo{}
	for _, info := range v.([]PlayerInfo) {
		if info.PlayerID != playerID {
			kept = append(kept, info)
		}
	}
	s.pending.Set(gameID, kept)
}

func (s *InMemoryGameStore) clearPendingPlayers(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending.Get(gameID); ok {
		s.pending.Set(gameID, []PlayerInfo{})
	}
}

// PendingPlayers lists who has asked to join a game, in order
func (s *InMemoryGameStore) PendingPlayers(gameID string) []PlayerInfo {
	v, ok := s.pending.Get(gameID)
	if !ok {
		return nil
	}
	return append([]PlayerInfo{}, v.([]PlayerInfo)...)
}

// FindPendingPlayer returns the join record for playerID, or nil
func (s *InMemoryGameStore) FindPendingPlayer(gameID, playerID string) *PlayerInfo {
	for _, info := range s.PendingPlayers(gameID) {
		if info.PlayerID == playerID {
			info := info
			return &info
		}
	}
	return nil
}
