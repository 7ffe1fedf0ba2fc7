package ratings

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cmorrow/bracketcast/internal/schedule"
)

// BradleyTerryComparator fits one strength parameter per team by maximum
// likelihood under P(a beats b) = s_a/(s_a+s_b), using the classic Zermelo
// proportional-fitting update:
//
//	s_i <- wins_i / sum_j (games_ij / (s_i + s_j))
//
// The loop is bounded by both a tolerance and an iteration cap so it
// terminates on disconnected or degenerate schedules; teams with no games
// keep their uniform prior strength instead of dividing by zero.
type BradleyTerryComparator struct {
	strength map[string]float64
	fallback float64
	diag     Diagnostics
}

func NewBradleyTerry(s *schedule.Schedule, opts FitOptions) *BradleyTerryComparator {
	opts = opts.withDefaults()
	g := NewWinGraph(s)
	n := g.Len()

	c := &BradleyTerryComparator{strength: make(map[string]float64, n)}
	if n == 0 {
		c.fallback = 1
		c.diag.Converged = true
		return c
	}

	strengths := make([]float64, n)
	for i := range strengths {
		strengths[i] = 1.0 / float64(n)
	}
	floor := 1.0 / float64(n*n)

	next := make([]float64, n)
	var iter int
	residual := math.Inf(1)
	for iter = 0; iter < opts.MaxIterations && residual > opts.Tolerance; iter++ {
		copy(next, strengths)
		for i := 0; i < n; i++ {
			var wins, denom float64
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				games := g.Wins(i, j) + g.Wins(j, i)
				if games == 0 {
					continue
				}
				wins += g.Wins(i, j)
				denom += games / (strengths[i] + strengths[j])
			}
			if denom == 0 {
				// No recorded games; leave the prior in place.
				continue
			}
			next[i] = wins / denom
			if next[i] < floor {
				next[i] = floor
			}
		}
		normalize(next)

		residual = 0
		for i := range next {
			residual += math.Abs(next[i] - strengths[i])
		}
		copy(strengths, next)
	}

	c.diag = Diagnostics{Converged: residual <= opts.Tolerance, Iterations: iter, Residual: residual}
	if !c.diag.Converged {
		logrus.Warnf("Bradley-Terry fit hit iteration cap %d with residual %.3g", opts.MaxIterations, residual)
	}

	for i, team := range g.Teams() {
		c.strength[team] = strengths[i]
	}
	c.fallback = 1.0 / float64(n)
	return c
}

func (c *BradleyTerryComparator) Name() string { return "bradley-terry" }

// Diagnostics reports how the fit ended.
func (c *BradleyTerryComparator) Diagnostics() Diagnostics { return c.diag }

// Strength exposes a team's fitted strength, mainly for rankings output.
func (c *BradleyTerryComparator) Strength(team string) float64 {
	if s, ok := c.strength[team]; ok {
		return s
	}
	return c.fallback
}

func (c *BradleyTerryComparator) Predict(a, b string) float64 {
	sa, sb := c.Strength(a), c.Strength(b)
	if sa+sb == 0 {
		return NeutralProbability
	}
	return sa / (sa + sb)
}

func normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum == 0 {
		return
	}
	for i := range v {
		v[i] /= sum
	}
}
