package game

import "time"

// State is a state of the game's lifecycle
type State int

const (
	Lobby State = iota
	GameStarting
	PlayerTurn
	WaitingForTurn
	GameEnding
	GameOver
)

var stateNames = map[State]string{
	Lobby:          "lobby",
	GameStarting:   "gameStarting",
	PlayerTurn:     "playerTurn",
	WaitingForTurn: "waitingForTurn",
	GameEnding:     "gameEnding",
	GameOver:       "gameOver",
}

func (s State) String() string {
	return stateNames[s]
}

// Active reports whether the round countdown runs in this state
func (s State) Active() bool {
	return s == PlayerTurn || s == WaitingForTurn
}

// EndReason is why a round ended
type EndReason string

const (
	NotEnded     EndReason = ""
	EmptyHand    EndReason = "empty_hand"
	ManualEnd    EndReason = "manual_end"
	NoValidMoves EndReason = "no_valid_moves"
	TimerExpired EndReason = "timer_expired"
)

const (
	minPlayers       = 2
	maxPlayers       = 4
	maxNotifications = 10

	// DefaultRoundSeconds is the length of the round countdown
	DefaultRoundSeconds = 180

	DefaultStartDelay = time.Second
	DefaultTurnDelay  = 500 * time.Millisecond
	DefaultEndDelay   = time.Second
)
