package ratings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmorrow/bracketcast/internal/models"
	"github.com/cmorrow/bracketcast/internal/schedule"
)

// testSchedule builds a schedule from (winner, loser, winnerScore, loserScore)
// rows in play order.
func testSchedule(t *testing.T, rows ...[4]interface{}) *schedule.Schedule {
	t.Helper()
	games := make([]models.Game, len(rows))
	for i, r := range rows {
		games[i] = models.Game{
			Winner:      r[0].(string),
			Loser:       r[1].(string),
			WinnerScore: r[2].(int),
			LoserScore:  r[3].(int),
		}
	}
	s, err := schedule.New(games)
	require.NoError(t, err)
	return s
}

// seasonFixture is a small season with two connected components:
// {duke, unc, wake-forest, kansas} and {gonzaga, butler}. gonzaga is
// undefeated, so it is a dangling node in the vote graph.
func seasonFixture(t *testing.T) *schedule.Schedule {
	t.Helper()
	return testSchedule(t,
		[4]interface{}{"duke", "unc", 80, 70},
		[4]interface{}{"unc", "wake-forest", 75, 70},
		[4]interface{}{"duke", "wake-forest", 90, 60},
		[4]interface{}{"kansas", "duke", 72, 70},
		[4]interface{}{"unc", "kansas", 68, 65},
		[4]interface{}{"gonzaga", "butler", 85, 60},
	)
}

func TestPredict_ComplementarityAcrossAllComparators(t *testing.T) {
	s := seasonFixture(t)
	seeds := map[string]int{
		"duke": 1, "unc": 4, "wake-forest": 9, "kansas": 3, "gonzaga": 2, "butler": 12,
	}

	comparators := []Comparator{
		NewSeedComparator(seeds, 0),
		NewBradleyTerry(s, FitOptions{}),
		NewElo(s, EloOptions{}),
		NewPageRank(s, PageRankOptions{}),
		NewPathWeight(s),
		NewResistance(s),
	}
	comparators = append(comparators, NewHybrid(comparators...))

	teams := s.Teams()
	for _, cmp := range comparators {
		for _, a := range teams {
			for _, b := range teams {
				if a == b {
					continue
				}
				sum := cmp.Predict(a, b) + cmp.Predict(b, a)
				require.InDelta(t, 1.0, sum, 1e-9,
					"%s: P(%s>%s) + P(%s>%s) must be 1", cmp.Name(), a, b, b, a)
			}
		}
	}
}

func TestPredict_BoundedByConfidenceCap(t *testing.T) {
	// One lopsided game; every evidence-based comparator must stay inside
	// [1-MaxConfidence, MaxConfidence].
	s := testSchedule(t, [4]interface{}{"duke", "butler", 120, 40})

	comparators := []Comparator{
		NewBradleyTerry(s, FitOptions{}),
		NewPageRank(s, PageRankOptions{}),
		NewPathWeight(s),
		NewResistance(s),
	}

	for _, cmp := range comparators {
		p := cmp.Predict("duke", "butler")
		require.GreaterOrEqual(t, p, 0.5, cmp.Name())
		require.LessOrEqual(t, p, MaxConfidence, cmp.Name())
	}
}

func TestPredict_EmptySchedule(t *testing.T) {
	s := testSchedule(t)

	comparators := []Comparator{
		NewBradleyTerry(s, FitOptions{}),
		NewElo(s, EloOptions{}),
		NewPageRank(s, PageRankOptions{}),
		NewPathWeight(s),
		NewResistance(s),
	}

	for _, cmp := range comparators {
		require.Equal(t, NeutralProbability, cmp.Predict("duke", "unc"), cmp.Name())
	}
}
