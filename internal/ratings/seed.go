package ratings

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSeedStdev is the standard deviation of the seeds 1..16, the spread
// a 16-seed region implies when nothing else is known.
var DefaultSeedStdev = math.Sqrt(68.0 / 3.0)

// SeedComparator predicts from bracket seeds alone: each team's game ability
// is modeled as normal with mean equal to its seed, so P(a beats b) is the
// probability that a draw from N(seedA-seedB, stdev) lands below zero.
// The lower seed is always favored. No training phase.
type SeedComparator struct {
	seeds map[string]int
	stdev float64
}

// NewSeedComparator builds the comparator from a seed lookup. A zero or
// negative stdev selects DefaultSeedStdev.
func NewSeedComparator(seeds map[string]int, stdev float64) *SeedComparator {
	if stdev <= 0 {
		stdev = DefaultSeedStdev
	}
	owned := make(map[string]int, len(seeds))
	for team, seed := range seeds {
		owned[team] = seed
	}
	return &SeedComparator{seeds: owned, stdev: stdev}
}

func (c *SeedComparator) Name() string { return "seed" }

func (c *SeedComparator) Predict(a, b string) float64 {
	seedA, okA := c.seeds[a]
	seedB, okB := c.seeds[b]
	if !okA || !okB {
		return NeutralProbability
	}
	dist := distuv.Normal{Mu: float64(seedA - seedB), Sigma: c.stdev}
	return dist.CDF(0)
}
