package ratings

import (
	"math"

	"github.com/cmorrow/bracketcast/internal/schedule"
)

// DefaultEloBase is the rating every team starts the season at.
const DefaultEloBase = 1750.0

// EloOptions tunes the sequential rating pass.
type EloOptions struct {
	BaseRating float64
}

// EloComparator runs one chronological pass over the schedule, nudging both
// teams' ratings after every game by a K-factor times the observed-minus-
// expected outcome. The pass is order-dependent on purpose: that is how Elo
// behaves in the wild. An empty schedule leaves everyone at the baseline, so
// every prediction is 0.5.
type EloComparator struct {
	rating map[string]float64
	base   float64
}

func NewElo(s *schedule.Schedule, opts EloOptions) *EloComparator {
	base := opts.BaseRating
	if base <= 0 {
		base = DefaultEloBase
	}
	c := &EloComparator{
		rating: make(map[string]float64),
		base:   base,
	}
	for _, team := range s.Teams() {
		c.rating[team] = base
	}

	for _, g := range s.Games() {
		rw, rl := c.rating[g.Winner], c.rating[g.Loser]

		qw := math.Pow(10, rw/400)
		ql := math.Pow(10, rl/400)
		ew := qw / (qw + ql)
		el := ql / (qw + ql)

		k := kFactor(math.Min(rw, rl))
		c.rating[g.Winner] = rw + k*(1-ew)
		c.rating[g.Loser] = rl + k*(0-el)
	}
	return c
}

// kFactor steps down as ratings climb, so established ratings move less.
func kFactor(minRating float64) float64 {
	switch {
	case minRating < 1500:
		return 32
	case minRating <= 2000:
		return 24
	default:
		return 16
	}
}

func (c *EloComparator) Name() string { return "elo" }

// Rating exposes a team's final rating; unknown teams sit at the baseline.
func (c *EloComparator) Rating(team string) float64 {
	if r, ok := c.rating[team]; ok {
		return r
	}
	return c.base
}

func (c *EloComparator) Predict(a, b string) float64 {
	qa := math.Pow(10, c.Rating(a)/400)
	qb := math.Pow(10, c.Rating(b)/400)
	return qa / (qa + qb)
}
