package game

import "github.com/minaorangina/rundown/deck"

// Score is a player's final hand score
type Score struct {
	PlayerID   string `json:"playerID"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

// HandScore is the total point value of a hand
func HandScore(hand []deck.Card) int {
	return sumValues(hand)
}

// FinalScores scores every player's hand, in roster order
func FinalScores(players []Player) []Score {
	scores := make([]Score, 0, len(players))
	for _, p := range players {
		scores = append(scores, Score{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Score:      HandScore(p.Hand),
		})
	}
	return scores
}

// Winner returns the lowest score. On a tie the earliest player in roster order wins.
func Winner(scores []Score) *Score {
	var winner *Score
	for i := range scores {
		if winner == nil || scores[i].Score < winner.Score {
			s := scores[i]
			winner = &s
		}
	}
	return winner
}
