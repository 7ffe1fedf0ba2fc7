package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strengthComparator predicts sa/(sa+sb) from fixed strengths; teams it
// does not know get strength 1.
type strengthComparator struct {
	strengths map[string]float64
}

func (c strengthComparator) Name() string { return "fixed-strength" }

func (c strengthComparator) Predict(a, b string) float64 {
	sa, sb := c.strength(a), c.strength(b)
	return sa / (sa + sb)
}

func (c strengthComparator) strength(team string) float64 {
	if s, ok := c.strengths[team]; ok {
		return s
	}
	return 1
}

// sureThing always gives the alphabetically first team probability 1.
type sureThing struct{}

func (sureThing) Name() string { return "sure-thing" }

func (sureThing) Predict(a, b string) float64 {
	if a < b {
		return 1
	}
	return 0
}

func TestSimulateOdds_TwoTeams(t *testing.T) {
	b, err := NewBracket([]Slot{
		{Team: "a", Seed: 1, Region: "east"},
		{Team: "b", Seed: 2, Region: "east"},
	})
	require.NoError(t, err)

	cmp := strengthComparator{strengths: map[string]float64{"a": 3, "b": 1}}
	result := b.SimulateOdds(cmp)

	assert.Equal(t, "fixed-strength", result.Comparator)
	assert.NotEmpty(t, result.RunID)
	assert.InDelta(t, 0.75, result.Champion["a"], 1e-12)
	assert.InDelta(t, 0.25, result.Champion["b"], 1e-12)
}

func TestSimulateOdds_CertainComparatorPicksChampion(t *testing.T) {
	b, err := NewBracket(fourTeamSlots())
	require.NoError(t, err)

	result := b.SimulateOdds(sureThing{})

	assert.InDelta(t, 1.0, result.Champion["t1"], 1e-12)
	for _, team := range []string{"t2", "t3", "t4"} {
		assert.InDelta(t, 0.0, result.Champion[team], 1e-12)
	}

	// Every intermediate matchup is equally certain.
	for _, round := range result.Rounds {
		for _, m := range round {
			for team, p := range m.Dist {
				if p != 0 && p != 1 {
					t.Fatalf("round %d: %s advances with %v, want 0 or 1", m.Round, team, p)
				}
			}
		}
	}
}

func TestSimulateOdds_DistributionsSumToOne(t *testing.T) {
	b, err := NewBracket(fourTeamSlots())
	require.NoError(t, err)

	cmp := strengthComparator{strengths: map[string]float64{"t1": 8, "t2": 4, "t3": 2, "t4": 1}}
	result := b.SimulateOdds(cmp)

	require.Len(t, result.Rounds, 2)
	require.Len(t, result.Rounds[0], 2)
	require.Len(t, result.Rounds[1], 1)

	for _, round := range result.Rounds {
		for _, m := range round {
			var sum float64
			for _, p := range m.Dist {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		}
	}
}

func TestSimulateOdds_MarginalizesOverOpponents(t *testing.T) {
	b, err := NewBracket(fourTeamSlots())
	require.NoError(t, err)

	cmp := strengthComparator{strengths: map[string]float64{"t1": 2, "t2": 2, "t3": 1, "t4": 1}}
	result := b.SimulateOdds(cmp)

	// t1 beats t4 with 2/3, then faces t2 (2/3 likely, even matchup) or
	// t3 (1/3 likely, t1 wins 2/3): 2/3 * (2/3*1/2 + 1/3*2/3).
	want := 2.0 / 3.0 * (2.0/3.0*0.5 + 1.0/3.0*2.0/3.0)
	assert.InDelta(t, want, result.Champion["t1"], 1e-9)
}

func TestSimulateOdds_BracketReusable(t *testing.T) {
	b, err := NewBracket(fourTeamSlots())
	require.NoError(t, err)

	cmp := strengthComparator{strengths: map[string]float64{"t1": 5}}
	first := b.SimulateOdds(cmp)
	second := b.SimulateOdds(cmp)

	assert.InDelta(t, first.Champion["t1"], second.Champion["t1"], 1e-12)
	assert.NotEqual(t, first.RunID, second.RunID)
}
