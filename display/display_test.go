package display

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/minaorangina/rundown/deck"
	"github.com/minaorangina/rundown/game"
	utils "github.com/minaorangina/rundown/internal"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestCard(t *testing.T) {
	utils.AssertEqual(t, Card(deck.NewCard(deck.Seven, deck.Hearts)), "7♥")
	utils.AssertEqual(t, Cards([]deck.Card{
		deck.NewCard(deck.Ace, deck.Spades),
		deck.NewCard(deck.Ten, deck.Diamonds),
	}), "A♠ 10♦")
	utils.AssertEqual(t, Cards(nil), "")
}

func TestCardColours(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = true }()

	red := Card(deck.NewCard(deck.Queen, deck.Diamonds))
	black := Card(deck.NewCard(deck.Queen, deck.Clubs))

	assert.Contains(t, red, "Q♦")
	assert.Contains(t, red, "\x1b[91m")
	assert.Contains(t, black, "\x1b[97m")
}

func TestClock(t *testing.T) {
	utils.AssertEqual(t, Clock(180), "3:00")
	utils.AssertEqual(t, Clock(65), "1:05")
	utils.AssertEqual(t, Clock(-3), "0:00")
}

func TestSnapshot(t *testing.T) {
	eight := deck.NewCard(deck.Eight, deck.Clubs)
	s := game.Snapshot{
		State: game.PlayerTurn,
		Context: game.Context{
			GameID: "abc",
			Players: []game.Player{
				{ID: "p1", Name: "Ada", Hand: []deck.Card{deck.NewCard(deck.Two, deck.Hearts)}},
				{ID: "p2", Name: "Grace", Hand: []deck.Card{deck.NewCard(deck.King, deck.Spades), eight}, IsCurrent: true},
			},
			CurrentPlayerIndex: 1,
			DiscardPile:        []deck.Card{deck.NewCard(deck.Seven, deck.Hearts)},
			TimeRemaining:      75,
			Notifications: []game.Notification{
				{Kind: game.AutoPlayed, PlayerName: "Ada", Card: &eight, At: time.Now()},
				{Kind: game.AutoSkipped, PlayerName: "Grace"},
			},
		},
	}

	t.Run("shows the current player's hand by default", func(t *testing.T) {
		var buf bytes.Buffer
		Snapshot(&buf, s, "")
		out := buf.String()

		assert.Contains(t, out, "Game abc (playerTurn)")
		assert.Contains(t, out, "Time left: 1:15")
		assert.Contains(t, out, "Pile: 7♥ (1 cards)")
		assert.Contains(t, out, " > Grace (2 cards)")
		assert.Contains(t, out, "   Ada (1 cards)")
		assert.Contains(t, out, "Grace's hand:")
		assert.Contains(t, out, "K♠ k-spades")
		assert.Contains(t, out, "Ada played 8♣ automatically")
		assert.Contains(t, out, "Grace had no move and was skipped")
		assert.NotContains(t, out, "Round over")
	})

	t.Run("shows the viewer's hand", func(t *testing.T) {
		var buf bytes.Buffer
		Snapshot(&buf, s, "p1")
		assert.Contains(t, buf.String(), "Ada's hand:")
		assert.NotContains(t, buf.String(), "k-spades")
	})

	t.Run("shows results once the round is over", func(t *testing.T) {
		over := s
		over.State = game.GameOver
		over.Context.EndReason = game.TimerExpired
		over.Context.FinalScores = []game.Score{
			{PlayerID: "p1", PlayerName: "Ada", Score: 2},
			{PlayerID: "p2", PlayerName: "Grace", Score: 21},
		}
		over.Context.Winner = &over.Context.FinalScores[0]

		var buf bytes.Buffer
		Snapshot(&buf, over, "p2")
		out := buf.String()

		assert.NotContains(t, out, "Time left")
		assert.Contains(t, out, "Round over: time ran out")
		assert.Contains(t, out, "  Grace: 21")
		assert.Contains(t, out, "Ada wins with 2 points")
	})
}
