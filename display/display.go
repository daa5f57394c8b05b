package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/minaorangina/rundown/deck"
	"github.com/minaorangina/rundown/game"
)

var (
	red   = color.New(color.FgHiRed).SprintfFunc()
	white = color.New(color.FgHiWhite).SprintfFunc()
	bold  = color.New(color.Bold).SprintfFunc()
	faint = color.New(color.Faint).SprintfFunc()
)

// Stdout is a terminal writer that copes with colour on every platform
var Stdout io.Writer = color.Output

var endReasonText = map[game.EndReason]string{
	game.EmptyHand:    "a player ran out of cards",
	game.ManualEnd:    "the round was ended early",
	game.NoValidMoves: "nobody could play",
	game.TimerExpired: "time ran out",
}

// Card renders a card in its suit colour
func Card(c deck.Card) string {
	if c.Suit == deck.Hearts || c.Suit == deck.Diamonds {
		return red(c.Short())
	}
	return white(c.Short())
}

// Cards renders cards separated by spaces
func Cards(cards []deck.Card) string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, Card(c))
	}
	return strings.Join(out, " ")
}

// Clock renders seconds as m:ss
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Snapshot writes a view of the game for playerID. With no playerID, the
// current player's hand is shown.
func Snapshot(w io.Writer, s game.Snapshot, playerID string) {
	ctx := s.Context

	fmt.Fprintf(w, "%s %s\n", bold("Game %s", ctx.GameID), faint("(%s)", s.State))
	if s.State.Active() {
		fmt.Fprintf(w, "Time left: %s\n", Clock(ctx.TimeRemaining))
	}
	if top, ok := ctx.TopCard(); ok {
		fmt.Fprintf(w, "Pile: %s %s\n", Card(top), faint("(%d cards)", len(ctx.DiscardPile)))
	}

	fmt.Fprintln(w, "Players:")
	for _, p := range ctx.Players {
		marker := " "
		if p.IsCurrent {
			marker = ">"
		}
		fmt.Fprintf(w, " %s %s (%d cards)\n", marker, p.Name, len(p.Hand))
	}

	viewer, ok := ctx.FindPlayer(playerID)
	if !ok {
		viewer, ok = ctx.CurrentPlayer()
	}
	if ok && len(viewer.Hand) > 0 {
		fmt.Fprintf(w, "%s's hand:\n", viewer.Name)
		for _, c := range viewer.Hand {
			fmt.Fprintf(w, "  %s %s\n", Card(c), faint("%s", c.ID))
		}
	}
	if len(ctx.SelectedCards) > 0 {
		fmt.Fprintf(w, "Selected: %s\n", Cards(ctx.SelectedCards))
	}

	if len(ctx.Notifications) > 0 {
		fmt.Fprintln(w, "Recent:")
		for _, n := range ctx.Notifications {
			fmt.Fprintf(w, "  - %s\n", Notification(n))
		}
	}

	if ctx.EndReason != game.NotEnded {
		Results(w, ctx)
	}
}

// Notification describes an automatic turn
func Notification(n game.Notification) string {
	switch n.Kind {
	case game.AutoPlayed:
		if n.Card != nil {
			return fmt.Sprintf("%s played %s automatically", n.PlayerName, Card(*n.Card))
		}
	case game.AutoSkipped:
		return fmt.Sprintf("%s had no move and was skipped", n.PlayerName)
	}
	return string(n.Kind)
}

// Results writes why the round ended, the scores and the winner
func Results(w io.Writer, ctx game.Context) {
	fmt.Fprintf(w, "Round over: %s\n", endReasonText[ctx.EndReason])
	for _, sc := range ctx.FinalScores {
		fmt.Fprintf(w, "  %s: %d\n", sc.PlayerName, sc.Score)
	}
	if ctx.Winner != nil {
		fmt.Fprintf(w, "%s\n", bold("%s wins with %d points", ctx.Winner.PlayerName, ctx.Winner.Score))
	}
}
