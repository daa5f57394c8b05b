package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/rundown/engine"
	"github.com/minaorangina/rundown/game"
	"github.com/minaorangina/rundown/store"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// newGameAttempts bounds retries when a generated game ID is taken
const newGameAttempts = 5

type NewGameReq struct {
	Name string `json:"name"`
}

type PendingGameRes struct {
	GameID   string   `json:"game_id"`
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Admin    bool     `json:"is_admin"`
	Players  []string `json:"players"`
}

type JoinGameReq struct {
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

type GetGameRes struct {
	Status   string        `json:"status"`
	GameID   string        `json:"game_id"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// GameStore is the registry the server creates games in
type GameStore interface {
	AddGame(g store.GameEngine) error
	FindGame(gameID string) store.GameEngine
	AddPendingPlayer(gameID, playerID, name string) error
	FindPendingPlayer(gameID, playerID string) *store.PlayerInfo
	PendingPlayers(gameID string) []store.PlayerInfo
	Tracker(gameID string) func(game.Event)
}

// Opts configures a GameServer
type Opts struct {
	// Game configures every game the server creates
	Game game.Opts
	// Context bounds the lifetime of the server's games
	Context context.Context
	Logger  *zap.Logger
}

// GameServer is a game server
type GameServer struct {
	store GameStore
	opts  Opts
	log   *zap.Logger
	http.Server
}

func NewID() string {
	return uuid.NewV4().String()
}

var (
	idRand   = rand.New(rand.NewSource(time.Now().UnixNano()))
	idRandMu sync.Mutex
)

// NewGameID returns a short code that is easy to share
func NewGameID() string {
	letters := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	code := make([]byte, 6)

	idRandMu.Lock()
	defer idRandMu.Unlock()
	for i := range code {
		code[i] = letters[idRand.Intn(len(letters))]
	}

	return string(code)
}

func unknownGameIDMsg(unknownID string) string {
	return fmt.Sprintf("unknown game ID '%s'", unknownID)
}

// NewServer creates a new GameServer
func NewServer(s GameStore, opts Opts) *GameServer {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	g := &GameServer{
		store: s,
		opts:  opts,
		log:   opts.Logger,
	}

	router := http.NewServeMux()
	router.HandleFunc("/new", g.HandleNewGame)
	router.HandleFunc("/join", g.HandleJoinGame)
	router.HandleFunc("/game/", g.HandleFindGame)
	router.HandleFunc("/ws", g.HandleWS)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	accessLog := zap.NewStdLog(opts.Logger.Named("http")).Writer()

	g.Handler = handlers.CombinedLoggingHandler(accessLog, cors(router))

	return g
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

// HandleNewGame handles a request to create a new game
func (g *GameServer) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data NewGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w)
		return
	}
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	playerID := NewID()
	ge, err := g.newGame(playerID)
	if err != nil {
		g.log.Error("could not create game", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := g.store.AddPendingPlayer(ge.ID(), playerID, data.Name); err != nil {
		g.log.Error("could not add creator", zap.String("game_id", ge.ID()), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, PendingGameRes{
		GameID:   ge.ID(),
		PlayerID: playerID,
		Name:     data.Name,
		Admin:    true,
		Players:  []string{data.Name},
	})
}

// newGame starts an engine under a fresh game ID and registers it
func (g *GameServer) newGame(creatorID string) (*engine.GameEngine, error) {
	for i := 0; i < newGameAttempts; i++ {
		gameID := NewGameID()
		ge, err := engine.NewGameEngine(engine.GameEngineOpts{
			GameID:    gameID,
			CreatorID: creatorID,
			Game:      g.opts.Game,
			Logger:    g.log,
			OnEvent:   g.store.Tracker(gameID),
		})
		if err != nil {
			return nil, err
		}

		err = g.store.AddGame(ge)
		if errors.Is(err, store.ErrGameExists) {
			continue
		}
		if err != nil {
			return nil, err
		}

		// get hub running
		go ge.Listen(g.opts.Context)
		return ge, nil
	}

	return nil, fmt.Errorf("no free game ID after %d attempts", newGameAttempts)
}

func (g *GameServer) HandleFindGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	gameID := strings.TrimPrefix(r.URL.Path, "/game/")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}

	ge := g.store.FindGame(gameID)
	if ge == nil {
		writeText(w, http.StatusNotFound, unknownGameIDMsg(gameID))
		return
	}

	s := ge.Snapshot()
	writeJSON(w, http.StatusOK, GetGameRes{
		Status:   s.State.String(),
		GameID:   ge.ID(),
		Snapshot: s,
	})
}

func (g *GameServer) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data JoinGameReq
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		g.writeParseError(err, w)
		return
	}

	if data.GameID == "" {
		writeText(w, http.StatusBadRequest, "Missing game ID")
		return
	}
	if data.Name == "" {
		writeText(w, http.StatusBadRequest, "Missing player name")
		return
	}

	playerID := NewID()
	err = g.store.AddPendingPlayer(data.GameID, playerID, data.Name)
	switch {
	case errors.Is(err, store.ErrUnknownGameID):
		writeText(w, http.StatusNotFound, unknownGameIDMsg(data.GameID))
		return
	case errors.Is(err, store.ErrGameAlreadyStarted), errors.Is(err, store.ErrGameFull):
		writeText(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		g.log.Error("could not add pending player", zap.String("game_id", data.GameID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	playerNames := []string{}
	for _, info := range g.store.PendingPlayers(data.GameID) {
		playerNames = append(playerNames, info.Name)
	}

	writeJSON(w, http.StatusOK, PendingGameRes{
		PlayerID: playerID,
		GameID:   data.GameID,
		Name:     data.Name,
		Players:  playerNames,
	})
}

func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	gameID := query.Get("game_id")
	if gameID == "" {
		writeText(w, http.StatusBadRequest, "missing game ID")
		return
	}

	playerID := query.Get("player_id")
	if playerID == "" {
		writeText(w, http.StatusBadRequest, "missing player ID")
		return
	}

	ge := g.store.FindGame(gameID)
	if ge == nil {
		writeText(w, http.StatusNotFound, unknownGameIDMsg(gameID))
		return
	}

	pendingPlayer := g.store.FindPendingPlayer(gameID, playerID)
	if pendingPlayer == nil {
		writeText(w, http.StatusBadRequest, "unknown player ID")
		return
	}

	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		g.log.Warn("could not upgrade to websocket", zap.Error(err))
		return
	}

	player := engine.NewWSPlayer(playerID, pendingPlayer.Name, rawConn, ge, g.log.With(zap.String("game_id", gameID)))
	player.Start()

	if err := ge.AddPlayer(player); err != nil {
		g.log.Warn("could not add player to game", zap.String("game_id", gameID), zap.Error(err))
		player.Close()
	}
}

func (g *GameServer) writeParseError(err error, w http.ResponseWriter) {
	if err == io.EOF {
		writeText(w, http.StatusBadRequest, "Missing body")
		return
	}
	g.log.Debug("could not parse request", zap.Error(err))
	writeText(w, http.StatusBadRequest, "Malformed body")
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}
