package simulator

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cmorrow/bracketcast/internal/ratings"
)

// MatchupOdds is one resolved matchup's advancement distribution.
type MatchupOdds struct {
	Round int                `json:"round"`
	Dist  map[string]float64 `json:"dist"`
}

// OddsResult is a fully resolved bracket: for every matchup the probability
// of each team winning it, and at the root each team's title odds.
type OddsResult struct {
	RunID      string             `json:"run_id"`
	Comparator string             `json:"comparator"`
	Rounds     [][]MatchupOdds    `json:"rounds"`
	Champion   map[string]float64 `json:"champion"`
}

// SimulateOdds resolves the bracket bottom-up with the given comparator.
// A matchup stays unresolved until both children are; it then combines the
// children's advancement distributions with the pairwise probabilities (law
// of total probability), so every entry already accounts for all the ways
// each opponent could have arrived.
func (b *Bracket) SimulateOdds(cmp ratings.Comparator) *OddsResult {
	root := b.buildTree()
	resolve(root, cmp)

	result := &OddsResult{
		RunID:      uuid.NewString(),
		Comparator: cmp.Name(),
		Rounds:     make([][]MatchupOdds, b.rounds),
		Champion:   root.Dist,
	}
	collect(root, result)

	logrus.WithFields(logrus.Fields{
		"run_id":     result.RunID,
		"comparator": cmp.Name(),
		"teams":      len(b.slots),
	}).Info("Bracket odds resolved")
	return result
}

func resolve(m *Matchup, cmp ratings.Comparator) {
	if m.Slot != nil {
		m.Dist = map[string]float64{m.Slot.Team: 1}
		m.State = Resolved
		return
	}
	resolve(m.Left, cmp)
	resolve(m.Right, cmp)

	dist := make(map[string]float64, len(m.Left.Dist)+len(m.Right.Dist))
	for a, pa := range m.Left.Dist {
		var winChance float64
		for b, pb := range m.Right.Dist {
			winChance += pb * cmp.Predict(a, b)
		}
		dist[a] = pa * winChance
	}
	for b, pb := range m.Right.Dist {
		var winChance float64
		for a, pa := range m.Left.Dist {
			winChance += pa * cmp.Predict(b, a)
		}
		dist[b] = pb * winChance
	}
	m.Dist = dist
	m.State = Resolved
}

func collect(m *Matchup, result *OddsResult) {
	if m.Slot != nil {
		return
	}
	collect(m.Left, result)
	collect(m.Right, result)
	result.Rounds[m.Round-1] = append(result.Rounds[m.Round-1], MatchupOdds{Round: m.Round, Dist: m.Dist})
}
