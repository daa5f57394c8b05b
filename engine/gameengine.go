package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/minaorangina/rundown/game"
	"github.com/minaorangina/rundown/protocol"
	"go.uber.org/zap"
)

var ErrEngineStopped = errors.New("game engine has stopped")

// tickInterval is how often the round countdown ticks
const tickInterval = time.Second

// GameEngineOpts configures a GameEngine
type GameEngineOpts struct {
	GameID    string
	CreatorID string
	Game      game.Opts
	Scheduler Scheduler
	Logger    *zap.Logger

	// OnEvent is called on the engine's goroutine with every event the game
	// accepts. It must not call back into the engine.
	OnEvent func(e game.Event)
}

// request is one unit of work for the loop.
// Exactly one of event, joiner, leaver or tick is set.
type request struct {
	event   game.Event
	from    string
	cmd     protocol.Cmd
	joiner  Player
	watch   bool
	leaver  string
	tick    bool
	tickGen uint64
	reply   chan bool
}

// GameEngine runs a game.Machine on a single goroutine. Players, timers and
// the countdown all talk to it through one channel, so every event is
// applied to completion before the next one is looked at.
type GameEngine struct {
	id        string
	creatorID string
	scheduler Scheduler
	log       *zap.Logger
	onEvent   func(game.Event)

	// owned by the loop
	machine   *game.Machine
	timer     Timer
	countdown Timer
	tickGen   uint64

	requestCh chan request
	done      chan struct{}
	stopOnce  sync.Once

	mu       sync.RWMutex
	players  Players
	snapshot game.Snapshot
}

// NewGameEngine constructs a GameEngine. Call Listen to run it.
func NewGameEngine(opts GameEngineOpts) (*GameEngine, error) {
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.OnEvent == nil {
		opts.OnEvent = func(game.Event) {}
	}

	machine := game.New(opts.Game)
	id := opts.GameID
	if id == "" {
		id = machine.Snapshot().Context.GameID
	}

	ge := &GameEngine{
		id:        id,
		creatorID: opts.CreatorID,
		scheduler: opts.Scheduler,
		onEvent:   opts.OnEvent,
		log:       opts.Logger.With(zap.String("game_id", id)),
		machine:   machine,
		requestCh: make(chan request),
		done:      make(chan struct{}),
		players:   Players{},
		snapshot:  machine.Snapshot(),
	}

	return ge, nil
}

// ID is the id the engine is registered under. It does not change when the
// game restarts, unlike the game id in the snapshot.
func (ge *GameEngine) ID() string {
	return ge.id
}

func (ge *GameEngine) CreatorID() string {
	return ge.creatorID
}

// Snapshot returns the state as of the last handled event
func (ge *GameEngine) Snapshot() game.Snapshot {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return ge.snapshot
}

// Players returns the connected players
func (ge *GameEngine) Players() Players {
	ge.mu.RLock()
	defer ge.mu.RUnlock()
	return append(Players{}, ge.players...)
}

// Done is closed once the engine has stopped
func (ge *GameEngine) Done() <-chan struct{} {
	return ge.done
}

// AddPlayer connects a player and asks the game to seat them.
// A player who reconnects replaces their old connection.
func (ge *GameEngine) AddPlayer(p Player) error {
	_, err := ge.do(request{joiner: p})
	return err
}

// Watch connects p to receive state without taking a seat
func (ge *GameEngine) Watch(p Player) error {
	_, err := ge.do(request{joiner: p, watch: true})
	return err
}

// RemovePlayer disconnects a player and asks the game to let them leave
func (ge *GameEngine) RemovePlayer(playerID string) error {
	_, err := ge.do(request{leaver: playerID})
	return err
}

// Send applies an event and reports whether the game accepted it
func (ge *GameEngine) Send(e game.Event) (bool, error) {
	return ge.do(request{event: e})
}

// Receive handles a message from a player. A command the game rejects is
// answered with a Rejected message to that player.
func (ge *GameEngine) Receive(msg protocol.InboundMessage) error {
	e, err := protocol.ToEvent(msg)
	if err != nil {
		return err
	}
	_, err = ge.do(request{event: e, from: msg.PlayerID, cmd: msg.Command})
	return err
}

func (ge *GameEngine) do(r request) (bool, error) {
	r.reply = make(chan bool, 1)

	select {
	case ge.requestCh <- r:
	case <-ge.done:
		return false, ErrEngineStopped
	}

	select {
	case accepted := <-r.reply:
		return accepted, nil
	case <-ge.done:
		return false, ErrEngineStopped
	}
}

// Listen runs the engine until ctx is cancelled
func (ge *GameEngine) Listen(ctx context.Context) {
	defer ge.stop()

	ge.log.Info("game engine listening")

	for {
		select {
		case <-ctx.Done():
			ge.log.Info("game engine stopping", zap.Error(ctx.Err()))
			return

		case r := <-ge.requestCh:
			r.reply <- ge.serve(r)
		}
	}
}

func (ge *GameEngine) serve(r request) bool {
	switch {
	case r.joiner != nil:
		ge.register(r.joiner)
		if !r.watch {
			ge.handle(game.Join{PlayerID: r.joiner.ID(), PlayerName: r.joiner.Name()})
		}
		// the newcomer gets the state even when they could not be seated
		ge.broadcast()
		return true

	case r.leaver != "":
		found := ge.unregister(r.leaver)
		if ge.handle(game.Leave{PlayerID: r.leaver}) {
			ge.broadcast()
		}
		return found

	case r.tick:
		if r.tickGen != ge.tickGen || ge.countdown == nil {
			return false
		}
		ge.countdown = nil
		remaining := ge.machine.Snapshot().Context.TimeRemaining - 1
		accepted := ge.handle(game.Tick{Remaining: remaining})
		ge.syncCountdown()
		if accepted {
			ge.broadcast()
		}
		return accepted

	case r.event != nil:
		e := r.event
		if r.from != "" {
			e = ge.fillSelection(e)
		}
		accepted := ge.handle(e)
		if accepted {
			ge.broadcast()
		} else if r.from != "" {
			ge.reject(r)
		}
		return accepted
	}

	return false
}

// fillSelection lets a player's play with no cards mean "play what I have selected".
// Typed events from Send are applied as they are.
func (ge *GameEngine) fillSelection(e game.Event) game.Event {
	play, ok := e.(game.PlayCards)
	if !ok || len(play.Cards) > 0 {
		return e
	}
	play.Cards = ge.machine.Snapshot().Context.SelectedCards
	return play
}

// handle applies e and then any automatic turns that follow from it
func (ge *GameEngine) handle(e game.Event) bool {
	if !ge.step(e) {
		return false
	}

	for {
		auto, ok := game.AutoResolve(ge.machine.Snapshot())
		if !ok || !ge.step(auto) {
			break
		}
	}

	ge.publish()
	return true
}

func (ge *GameEngine) step(e game.Event) bool {
	from, epoch := ge.machine.State(), ge.machine.Epoch()

	if !ge.machine.Send(e) {
		ge.log.Debug("event rejected",
			zap.String("event", game.EventName(e)),
			zap.Stringer("state", from),
		)
		return false
	}
	ge.onEvent(e)

	if ge.machine.Epoch() != epoch {
		fields := []zap.Field{
			zap.String("event", game.EventName(e)),
			zap.Stringer("from", from),
			zap.Stringer("to", ge.machine.State()),
		}
		if reason := ge.machine.Snapshot().Context.EndReason; reason != game.NotEnded {
			fields = append(fields, zap.String("reason", string(reason)))
		}
		ge.log.Info("transition", fields...)
		ge.schedule()
	}
	ge.syncCountdown()

	return true
}

// schedule replaces the delayed transition timer with the one the new state wants
func (ge *GameEngine) schedule() {
	if ge.timer != nil {
		ge.timer.Stop()
		ge.timer = nil
	}

	d, ok := ge.machine.Pending()
	if !ok {
		return
	}
	e := d.Event
	ge.timer = ge.scheduler.AfterFunc(d.After, func() {
		if _, err := ge.Send(e); err != nil {
			ge.log.Debug("delayed transition dropped", zap.Error(err))
		}
	})
}

// syncCountdown runs the countdown while the round is active, and only then
func (ge *GameEngine) syncCountdown() {
	active := ge.machine.State().Active()

	switch {
	case active && ge.countdown == nil:
		ge.tickGen++
		gen := ge.tickGen
		ge.countdown = ge.scheduler.AfterFunc(tickInterval, func() {
			ge.do(request{tick: true, tickGen: gen})
		})

	case !active && ge.countdown != nil:
		ge.countdown.Stop()
		ge.countdown = nil
	}
}

func (ge *GameEngine) publish() {
	s := ge.machine.Snapshot()
	ge.mu.Lock()
	ge.snapshot = s
	ge.mu.Unlock()
}

func (ge *GameEngine) broadcast() {
	s := ge.Snapshot()
	for _, p := range ge.Players() {
		if err := p.Send(protocol.NewStateMessage(p.ID(), s)); err != nil {
			ge.log.Warn("could not send state", zap.String("player_id", p.ID()), zap.Error(err))
		}
	}
}

func (ge *GameEngine) reject(r request) {
	p, ok := ge.Players().Find(r.from)
	if !ok {
		return
	}
	msg := protocol.NewRejectedMessage(r.from, r.cmd, ge.machine.State())
	if err := p.Send(msg); err != nil {
		ge.log.Warn("could not send rejection", zap.String("player_id", r.from), zap.Error(err))
	}
}

func (ge *GameEngine) register(p Player) {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	ge.players = ge.players.Replace(p)
	ge.log.Info("player connected", zap.String("player_id", p.ID()), zap.String("name", p.Name()))
}

func (ge *GameEngine) unregister(playerID string) bool {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	ps, found := ge.players.Remove(playerID)
	ge.players = ps
	if found {
		ge.log.Info("player disconnected", zap.String("player_id", playerID))
	}
	return found
}

func (ge *GameEngine) stop() {
	ge.stopOnce.Do(func() {
		if ge.timer != nil {
			ge.timer.Stop()
		}
		if ge.countdown != nil {
			ge.countdown.Stop()
		}
		close(ge.done)
	})
}
