package ratings

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cmorrow/bracketcast/internal/schedule"
)

// DefaultPageRankAlpha is the usual damping factor.
const DefaultPageRankAlpha = 0.85

// PageRankOptions tunes the power iteration.
type PageRankOptions struct {
	Alpha float64
	Fit   FitOptions
}

// PageRankComparator ranks teams by the stationary distribution of a random
// surfer on the win graph: every loss casts a vote for the team that won,
// weighted by the game's endorsement weight. Undefeated teams cast no votes
// at all, so their (dangling) share of the surf is redistributed uniformly
// each step rather than lost; the rank vector always sums to one.
type PageRankComparator struct {
	rank map[string]float64
	diag Diagnostics
}

func NewPageRank(s *schedule.Schedule, opts PageRankOptions) *PageRankComparator {
	alpha := opts.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultPageRankAlpha
	}
	fit := opts.Fit.withDefaults()

	g := NewWinGraph(s)
	n := g.Len()
	c := &PageRankComparator{rank: make(map[string]float64, n)}
	if n == 0 {
		c.diag.Converged = true
		return c
	}

	// Column sums of the vote matrix; zero marks a dangling node.
	cast := make([]float64, n)
	for j := 0; j < n; j++ {
		cast[j] = g.VotesCast(j)
	}

	vec := make([]float64, n)
	for i := range vec {
		vec[i] = 1.0 / float64(n)
	}

	next := make([]float64, n)
	uniform := 1.0 / float64(n)
	var iter int
	residual := math.Inf(1)
	for iter = 0; iter < fit.MaxIterations && residual > fit.Tolerance; iter++ {
		var dangling float64
		for j := 0; j < n; j++ {
			if cast[j] == 0 {
				dangling += vec[j]
			}
		}

		base := alpha*dangling*uniform + (1-alpha)*uniform
		for i := 0; i < n; i++ {
			next[i] = base
		}
		for j := 0; j < n; j++ {
			if cast[j] == 0 {
				continue
			}
			share := alpha * vec[j] / cast[j]
			for i := 0; i < n; i++ {
				if v := g.Votes(i, j); v > 0 {
					next[i] += share * v
				}
			}
		}

		residual = 0
		for i := range next {
			residual += math.Abs(next[i] - vec[i])
		}
		copy(vec, next)
	}

	c.diag = Diagnostics{Converged: residual <= fit.Tolerance, Iterations: iter, Residual: residual}
	if !c.diag.Converged {
		logrus.Warnf("PageRank hit iteration cap %d with residual %.3g", fit.MaxIterations, residual)
	}

	for i, team := range g.Teams() {
		c.rank[team] = vec[i]
	}
	return c
}

func (c *PageRankComparator) Name() string { return "pagerank" }

func (c *PageRankComparator) Diagnostics() Diagnostics { return c.diag }

// Rank exposes a team's stationary share; unknown teams rank at zero.
func (c *PageRankComparator) Rank(team string) float64 {
	return c.rank[team]
}

func (c *PageRankComparator) Predict(a, b string) float64 {
	ra, rb := c.rank[a], c.rank[b]
	if ra+rb == 0 {
		return NeutralProbability
	}
	return clampProbability(ra / (ra + rb))
}
