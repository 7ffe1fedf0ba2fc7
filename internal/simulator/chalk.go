package simulator

import (
	"github.com/google/uuid"

	"github.com/cmorrow/bracketcast/internal/ratings"
)

// ChalkPick is one decided matchup on the most-likely path.
type ChalkPick struct {
	Round       int     `json:"round"`
	Winner      string  `json:"winner"`
	Loser       string  `json:"loser"`
	Probability float64 `json:"probability"`
	Upset       bool    `json:"upset"`
}

// ChalkResult is the most-likely bracket: every matchup decided by whichever
// side the comparator favors, with each surviving team's cumulative
// probability of getting that far.
type ChalkResult struct {
	RunID      string             `json:"run_id"`
	Comparator string             `json:"comparator"`
	Picks      []ChalkPick        `json:"picks"`
	Champion   string             `json:"champion"`
	PathOdds   map[string]float64 `json:"path_odds"`
}

// PickChalk plays the bracket round by round, always advancing the favored
// team (probability >= 0.5 for the left side wins ties). A pick is an upset
// when the advancing team carries the numerically higher seed.
func (b *Bracket) PickChalk(cmp ratings.Comparator) *ChalkResult {
	type survivor struct {
		Slot
		pathProb float64
	}

	field := make([]survivor, len(b.slots))
	for i, s := range b.slots {
		field[i] = survivor{Slot: s, pathProb: 1}
	}

	result := &ChalkResult{
		RunID:      uuid.NewString(),
		Comparator: cmp.Name(),
		PathOdds:   make(map[string]float64),
	}

	round := 1
	for len(field) > 1 {
		next := make([]survivor, 0, len(field)/2)
		for i := 0; i < len(field); i += 2 {
			left, right := field[i], field[i+1]

			pLeft := cmp.Predict(left.Team, right.Team)
			winner, loser, p := left, right, pLeft
			if pLeft < 0.5 {
				winner, loser, p = right, left, 1-pLeft
			}

			winner.pathProb *= p
			next = append(next, winner)
			result.PathOdds[winner.Team] = winner.pathProb
			result.Picks = append(result.Picks, ChalkPick{
				Round:       round,
				Winner:      winner.Team,
				Loser:       loser.Team,
				Probability: p,
				Upset:       winner.Seed > loser.Seed,
			})
		}
		field = next
		round++
	}

	result.Champion = field[0].Team
	return result
}
