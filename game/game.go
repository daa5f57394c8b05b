package game

import (
	"errors"
	"time"

	"github.com/minaorangina/rundown/deck"
	uuid "github.com/satori/go.uuid"
)

var ErrUnknownState = errors.New("unknown game state")

// Opts configures a Machine. Zero values take the defaults.
type Opts struct {
	RoundSeconds int
	StartDelay   time.Duration
	TurnDelay    time.Duration
	EndDelay     time.Duration

	Now     func() time.Time
	NewID   func() string
	NewDeck func() deck.Deck
}

// Delayed is a transition the Machine wants fired after a delay,
// provided it is still in the state that asked for it.
type Delayed struct {
	After time.Duration
	Event Event
}

// Machine is the game state machine. It owns its Context and is its only writer.
// A Machine is not safe for concurrent use; callers serialise Send.
type Machine struct {
	state State
	ctx   Context
	opts  Opts

	// epoch counts state entries, so stale timeouts can be told apart
	epoch        uint64
	deadlocked   bool
	endRequested bool
}

// New constructs a Machine in the lobby with no players
func New(opts Opts) *Machine {
	if opts.RoundSeconds <= 0 {
		opts.RoundSeconds = DefaultRoundSeconds
	}
	if opts.StartDelay <= 0 {
		opts.StartDelay = DefaultStartDelay
	}
	if opts.TurnDelay <= 0 {
		opts.TurnDelay = DefaultTurnDelay
	}
	if opts.EndDelay <= 0 {
		opts.EndDelay = DefaultEndDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewV4().String() }
	}
	if opts.NewDeck == nil {
		opts.NewDeck = deck.New
	}

	m := &Machine{opts: opts}
	m.ctx = m.newContext()
	return m
}

func (m *Machine) newContext() Context {
	return Context{
		GameID:        m.opts.NewID(),
		Players:       []Player{},
		DiscardPile:   []deck.Card{},
		TimeRemaining: m.opts.RoundSeconds,
		SelectedCards: []deck.Card{},
		Notifications: []Notification{},
	}
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Is reports whether the machine is in state s
func (m *Machine) Is(s State) bool {
	return m.state == s
}

// Epoch changes every time a state is entered
func (m *Machine) Epoch() uint64 {
	return m.epoch
}

// Snapshot returns a copy of the state and context
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{State: m.state, Context: m.ctx.clone()}
}

// Pending returns the delayed transition for the current state, if it has one
func (m *Machine) Pending() (Delayed, bool) {
	var after time.Duration
	switch m.state {
	case GameStarting:
		after = m.opts.StartDelay
	case WaitingForTurn:
		after = m.opts.TurnDelay
	case GameEnding:
		after = m.opts.EndDelay
	default:
		return Delayed{}, false
	}
	return Delayed{After: after, Event: Timeout{epoch: m.epoch}}, true
}

// Send applies an event. It returns false, leaving everything unchanged,
// if the event is not valid in the current state.
func (m *Machine) Send(e Event) bool {
	if t, ok := e.(Timeout); ok && t.epoch != m.epoch {
		return false
	}

	switch m.state {
	case Lobby:
		return m.lobby(e)
	case GameStarting:
		return m.gameStarting(e)
	case PlayerTurn:
		return m.playerTurn(e)
	case WaitingForTurn:
		return m.waitingForTurn(e)
	case GameEnding:
		return m.gameEnding(e)
	case GameOver:
		return m.gameOver(e)
	}
	return false
}

func (m *Machine) lobby(e Event) bool {
	switch e := e.(type) {
	case Join:
		if e.PlayerID == "" || len(m.ctx.Players) >= maxPlayers {
			return false
		}
		if _, exists := m.ctx.FindPlayer(e.PlayerID); exists {
			return false
		}
		m.ctx.Players = append(m.ctx.Players, Player{
			ID:   e.PlayerID,
			Name: e.PlayerName,
			Hand: []deck.Card{},
		})
		return true

	case Leave:
		return m.removePlayer(e.PlayerID)

	case Start:
		if len(m.ctx.Players) < minPlayers {
			return false
		}
		m.enter(GameStarting)
		return true
	}
	return false
}

func (m *Machine) gameStarting(e Event) bool {
	switch e.(type) {
	case Timeout:
		m.deal()
		m.enter(PlayerTurn)
		return true
	}
	return false
}

func (m *Machine) playerTurn(e Event) bool {
	switch e := e.(type) {
	case SelectCard:
		current, ok := m.actingPlayer(e.PlayerID)
		if !ok {
			return false
		}
		idx, inHand := deck.Find(current.Hand, e.CardID)
		if !inHand || deck.Contains(m.ctx.SelectedCards, e.CardID) {
			return false
		}
		m.ctx.SelectedCards = append(m.ctx.SelectedCards, current.Hand[idx])
		return true

	case DeselectCard:
		if _, ok := m.actingPlayer(e.PlayerID); !ok {
			return false
		}
		idx, selected := deck.Find(m.ctx.SelectedCards, e.CardID)
		if !selected {
			return false
		}
		m.ctx.SelectedCards = append(m.ctx.SelectedCards[:idx], m.ctx.SelectedCards[idx+1:]...)
		return true

	case PlayCards:
		current, ok := m.actingPlayer(e.PlayerID)
		if !ok {
			return false
		}
		top, ok := m.ctx.TopCard()
		if !ok || !cardsInHand(e.Cards, current.Hand) || !CanPlayCards(e.Cards, top) {
			return false
		}
		m.play(e.Cards)
		return true

	case AutoPlay:
		current, ok := m.actingPlayer(e.PlayerID)
		if !ok {
			return false
		}
		top, ok := m.ctx.TopCard()
		cards := []deck.Card{e.Card}
		if !ok || !cardsInHand(cards, current.Hand) || !CanPlayCard(e.Card, top) {
			return false
		}
		card := e.Card
		m.notify(AutoPlayed, current, &card)
		m.play(cards)
		return true

	case AutoSkip:
		current, ok := m.ctx.CurrentPlayer()
		if !ok {
			return false
		}
		if top, ok := m.ctx.TopCard(); ok && len(ValidCards(current.Hand, top)) > 0 {
			return false
		}
		m.notify(AutoSkipped, current, nil)
		m.ctx.SelectedCards = []deck.Card{}
		m.ctx.Players[m.ctx.CurrentPlayerIndex].IsCurrent = false
		m.endTurn()
		return true

	case Tick:
		m.tick(e.Remaining, m.endCondition)
		return true

	case EndRound:
		m.endRequested = true
		m.end(m.endCondition())
		return true
	}
	return false
}

func (m *Machine) waitingForTurn(e Event) bool {
	switch e := e.(type) {
	case Timeout:
		if m.deadlocked {
			m.end(m.endCondition())
			return true
		}
		m.enter(PlayerTurn)
		return true

	case Tick:
		m.tick(e.Remaining, m.timeUp)
		return true

	case EndRound:
		m.endRequested = true
		m.end(m.endCondition())
		return true
	}
	return false
}

func (m *Machine) gameEnding(e Event) bool {
	switch e.(type) {
	case Timeout:
		m.enter(GameOver)
		return true
	}
	return false
}

func (m *Machine) gameOver(e Event) bool {
	switch e := e.(type) {
	case Restart:
		m.ctx = m.newContext()
		m.deadlocked = false
		m.endRequested = false
		m.enter(Lobby)
		return true

	case Leave:
		return m.removePlayer(e.PlayerID)
	}
	return false
}

// enter moves to state s and runs its entry actions
func (m *Machine) enter(s State) {
	m.state = s
	m.epoch++

	switch s {
	case GameStarting:
		m.resetRound()
		m.ctx.Deck = m.opts.NewDeck()
		m.ctx.RoundStartedAt = m.opts.Now()

	case WaitingForTurn:
		m.advance()

	case GameEnding:
		for i := range m.ctx.Players {
			m.ctx.Players[i].IsCurrent = false
		}
		m.ctx.SelectedCards = []deck.Card{}
		m.ctx.FinalScores = FinalScores(m.ctx.Players)
		m.ctx.Winner = Winner(m.ctx.FinalScores)
	}
}

func (m *Machine) resetRound() {
	for i := range m.ctx.Players {
		m.ctx.Players[i].Hand = []deck.Card{}
		m.ctx.Players[i].IsCurrent = false
	}
	m.ctx.CurrentPlayerIndex = 0
	m.ctx.Deck = deck.Deck{}
	m.ctx.DiscardPile = []deck.Card{}
	m.ctx.TimeRemaining = m.opts.RoundSeconds
	m.ctx.SelectedCards = []deck.Card{}
	m.ctx.FinalScores = nil
	m.ctx.Winner = nil
	m.ctx.Notifications = []Notification{}
	m.ctx.EndReason = NotEnded
	m.deadlocked = false
	m.endRequested = false
}

func (m *Machine) deal() {
	hands, rest := deck.Deal(m.ctx.Deck, len(m.ctx.Players), deck.DefaultHandSize)
	for i := range m.ctx.Players {
		m.ctx.Players[i].Hand = hands[i]
	}

	if len(rest) > 0 {
		m.ctx.DiscardPile = []deck.Card{rest[0]}
		rest = rest[1:]
	}
	m.ctx.Deck = rest

	m.ctx.CurrentPlayerIndex = 0
	m.ctx.Players[0].IsCurrent = true
}

// advance marks the next player who can play as current
func (m *Machine) advance() {
	top, ok := m.ctx.TopCard()
	if !ok {
		m.deadlocked = true
		return
	}

	idx, found := NextPlayer(m.ctx.Players, m.ctx.CurrentPlayerIndex, top)
	m.deadlocked = !found
	if !found {
		return
	}

	for i := range m.ctx.Players {
		m.ctx.Players[i].IsCurrent = i == idx
	}
	m.ctx.CurrentPlayerIndex = idx
}

// actingPlayer returns the current player if id is theirs
func (m *Machine) actingPlayer(id string) (Player, bool) {
	current, ok := m.ctx.CurrentPlayer()
	if !ok || current.ID != id {
		return Player{}, false
	}
	return current, true
}

func (m *Machine) play(cards []deck.Card) {
	idx := m.ctx.CurrentPlayerIndex
	m.ctx.Players[idx].Hand = removeCards(m.ctx.Players[idx].Hand, cards)
	m.ctx.DiscardPile = append(m.ctx.DiscardPile, cards...)
	m.ctx.SelectedCards = []deck.Card{}
	m.ctx.Players[idx].IsCurrent = false
	m.endTurn()
}

func (m *Machine) endTurn() {
	if reason := m.endCondition(); reason != NotEnded {
		m.end(reason)
		return
	}
	m.enter(WaitingForTurn)
}

// tick updates the clock, and ends the round with reason() when it runs out
func (m *Machine) tick(remaining int, reason func() EndReason) {
	if remaining < 0 {
		remaining = 0
	}
	m.ctx.TimeRemaining = remaining
	if remaining == 0 {
		m.end(reason())
	}
}

// timeUp is why the round ends when the clock runs out between turns.
// A deadlock found by advance is only confirmed when the turn delay fires,
// so the timer wins over it here.
func (m *Machine) timeUp() EndReason {
	if reason := m.endCondition(); reason == EmptyHand || reason == ManualEnd {
		return reason
	}
	return TimerExpired
}

// endCondition picks the reason the round should end, if it should.
// Precedence: empty hand, manual end, deadlock, timer.
func (m *Machine) endCondition() EndReason {
	for _, p := range m.ctx.Players {
		if len(p.Hand) == 0 {
			return EmptyHand
		}
	}
	if m.endRequested {
		return ManualEnd
	}
	if m.deadlocked {
		return NoValidMoves
	}
	if m.ctx.TimeRemaining <= 0 {
		return TimerExpired
	}
	return NotEnded
}

func (m *Machine) end(reason EndReason) {
	if reason == NotEnded {
		return
	}
	m.ctx.EndReason = reason
	m.enter(GameEnding)
}

func (m *Machine) notify(kind NotificationKind, p Player, card *deck.Card) {
	m.ctx.Notifications = append(m.ctx.Notifications, Notification{
		Kind:       kind,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Card:       card,
		At:         m.opts.Now(),
	})
	if over := len(m.ctx.Notifications) - maxNotifications; over > 0 {
		m.ctx.Notifications = append([]Notification{}, m.ctx.Notifications[over:]...)
	}
}

func (m *Machine) removePlayer(id string) bool {
	for i, p := range m.ctx.Players {
		if p.ID == id {
			m.ctx.Players = append(m.ctx.Players[:i], m.ctx.Players[i+1:]...)
			return true
		}
	}
	return false
}
