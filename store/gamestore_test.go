package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minaorangina/rundown/engine"
	"github.com/minaorangina/rundown/game"
	utils "github.com/minaorangina/rundown/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, gameID string) *engine.GameEngine {
	t.Helper()
	ge, err := engine.NewGameEngine(engine.GameEngineOpts{GameID: gameID, CreatorID: "creator-id"})
	require.NoError(t, err)
	return ge
}

// newTrackedGame starts an engine that reports to str, with short delays
func newTrackedGame(t *testing.T, str *InMemoryGameStore, gameID string) *engine.GameEngine {
	t.Helper()
	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:    gameID,
		CreatorID: "creator-id",
		Game: game.Opts{
			StartDelay: time.Millisecond,
			TurnDelay:  time.Millisecond,
			EndDelay:   time.Millisecond,
		},
		OnEvent: str.Tracker(gameID),
	})
	require.NoError(t, err)
	require.NoError(t, str.AddGame(ge))

	ctx, cancel := context.WithCancel(context.Background())
	go ge.Listen(ctx)
	t.Cleanup(func() {
		cancel()
		<-ge.Done()
	})
	return ge
}

func TestInMemoryGameStore(t *testing.T) {
	t.Run("finds games it holds", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		ge := newTestGame(t, "thisISAnID")

		utils.AssertNoError(t, str.AddGame(ge))

		found := str.FindGame("thisISAnID")
		utils.AssertNotNil(t, found)
		utils.AssertEqual(t, found.CreatorID(), "creator-id")
		utils.AssertEqual(t, len(str.Games()), 1)
	})

	t.Run("Handles a non-existent game", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		utils.AssertTrue(t, str.FindGame("fake-id") == nil)
	})

	t.Run("prevents duplicate game IDs", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		ge := newTestGame(t, "thisISAnID")

		utils.AssertNoError(t, str.AddGame(ge))
		assert.ErrorIs(t, str.AddGame(ge), ErrGameExists)
	})

	t.Run("removes games", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		utils.AssertNoError(t, str.AddGame(newTestGame(t, "a")))

		utils.AssertTrue(t, str.RemoveGame("a"))
		utils.AssertEqual(t, str.RemoveGame("a"), false)
		utils.AssertTrue(t, str.FindGame("a") == nil)
		assert.Nil(t, str.PendingPlayers("a"))
	})

	t.Run("forgets a game once its engine stops", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		ge := newTestGame(t, "short-lived")
		utils.AssertNoError(t, str.AddGame(ge))

		ctx, cancel := context.WithCancel(context.Background())
		go ge.Listen(ctx)
		cancel()

		utils.Eventually(t, time.Second, func() bool {
			return str.FindGame("short-lived") == nil
		})
	})
}

func TestPendingPlayers(t *testing.T) {
	gameID := "some-game-id"

	t.Run("Can add pending players", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		utils.AssertNoError(t, str.AddGame(newTestGame(t, gameID)))

		utils.AssertNoError(t, str.AddPendingPlayer(gameID, "player-1", "Hermione"))
		utils.AssertNoError(t, str.AddPendingPlayer(gameID, "player-2", "Horatio"))

		info := str.FindPendingPlayer(gameID, "player-2")
		require.NotNil(t, info)
		utils.AssertEqual(t, info.Name, "Horatio")
		utils.AssertDeepEqual(t, str.PendingPlayers(gameID), []PlayerInfo{
			{PlayerID: "player-1", Name: "Hermione"},
			{PlayerID: "player-2", Name: "Horatio"},
		})
		utils.AssertTrue(t, str.FindPendingPlayer(gameID, "player-3") == nil)
	})

	t.Run("needs the game to exist", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		err := str.AddPendingPlayer("nope", "player-1", "Hermione")
		assert.ErrorIs(t, err, ErrUnknownGameID)
	})

	t.Run("stops at a full table", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		utils.AssertNoError(t, str.AddGame(newTestGame(t, gameID)))

		for i := 0; i < maxPendingPlayers; i++ {
			utils.AssertNoError(t, str.AddPendingPlayer(gameID, fmt.Sprintf("player-%d", i), "Someone"))
		}
		assert.ErrorIs(t, str.AddPendingPlayer(gameID, "one-too-many", "Late"), ErrGameFull)
	})

	t.Run("only while the game is in the lobby", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		ge := newTestGame(t, gameID)
		utils.AssertNoError(t, str.AddGame(ge))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go ge.Listen(ctx)

		for _, id := range []string{"a", "b"} {
			ok, err := ge.Send(game.Join{PlayerID: id, PlayerName: id})
			require.NoError(t, err)
			require.True(t, ok)
		}
		ok, err := ge.Send(game.Start{})
		require.NoError(t, err)
		require.True(t, ok)

		assert.ErrorIs(t, str.AddPendingPlayer(gameID, "late", "Late"), ErrGameAlreadyStarted)
	})

	t.Run("players who leave give up their place", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		ge := newTrackedGame(t, str, gameID)

		ids := []string{"p1", "p2", "p3", "p4"}
		for _, id := range ids {
			require.NoError(t, str.AddPendingPlayer(gameID, id, id))
			require.NoError(t, ge.AddPlayer(engine.APlayer(id, id)))
		}
		assert.ErrorIs(t, str.AddPendingPlayer(gameID, "p5", "p5"), ErrGameFull)

		for _, id := range ids {
			require.NoError(t, ge.RemovePlayer(id))
		}
		require.Len(t, ge.Snapshot().Context.Players, 0)
		assert.Empty(t, str.PendingPlayers(gameID))

		utils.AssertNoError(t, str.AddPendingPlayer(gameID, "p5", "p5"))
	})

	t.Run("a restart clears the list", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		ge := newTrackedGame(t, str, gameID)

		for _, id := range []string{"a", "b"} {
			require.NoError(t, str.AddPendingPlayer(gameID, id, id))
			require.NoError(t, ge.AddPlayer(engine.APlayer(id, id)))
		}
		ok, err := ge.Send(game.Start{})
		require.NoError(t, err)
		require.True(t, ok)

		utils.Eventually(t, time.Second, func() bool {
			s := ge.Snapshot()
			return s.State.Active() || s.Is(game.GameEnding) || s.Is(game.GameOver)
		})
		_, err = ge.Send(game.EndRound{})
		require.NoError(t, err)
		utils.Eventually(t, time.Second, func() bool {
			return ge.Snapshot().Is(game.GameOver)
		})

		ok, err = ge.Send(game.Restart{})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, str.PendingPlayers(gameID))
		utils.AssertNoError(t, str.AddPendingPlayer(gameID, "c", "c"))
	})

	t.Run("counts seated players who never asked over http", func(t *testing.T) {
		str := NewInMemoryGameStore(nil)
		ge := newTrackedGame(t, str, gameID)

		require.NoError(t, str.AddPendingPlayer(gameID, "a", "a"))
		for _, id := range []string{"a", "b", "c", "d"} {
			ok, err := ge.Send(game.Join{PlayerID: id, PlayerName: id})
			require.NoError(t, err)
			require.True(t, ok)
		}

		assert.ErrorIs(t, str.AddPendingPlayer(gameID, "e", "e"), ErrGameFull)
	})
}
