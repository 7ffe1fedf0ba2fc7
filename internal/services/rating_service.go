package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cmorrow/bracketcast/internal/ratings"
	"github.com/cmorrow/bracketcast/internal/schedule"
	"github.com/cmorrow/bracketcast/pkg/config"
)

// Algorithm names accepted by the API.
const (
	AlgorithmSeed         = "seed"
	AlgorithmBradleyTerry = "bradley-terry"
	AlgorithmElo          = "elo"
	AlgorithmPageRank     = "pagerank"
	AlgorithmPathWeight   = "path-weight"
	AlgorithmResistance   = "resistance"
	AlgorithmHybrid       = "hybrid"
)

// ErrUnknownAlgorithm is returned for algorithm names outside Algorithms().
type ErrUnknownAlgorithm struct {
	Algorithm string
}

func (e *ErrUnknownAlgorithm) Error() string {
	return fmt.Sprintf("unknown algorithm %q", e.Algorithm)
}

// RankEntry is one row of a leaderboard: a team's position plus its mean
// win probability against the rest of the field.
type RankEntry struct {
	Rank  int     `json:"rank"`
	Team  string  `json:"team"`
	Score float64 `json:"score"`
}

// RatingService builds comparators on demand from a fixed season schedule
// and memoizes them for the life of the process. Ratings are recomputed on
// restart, never persisted.
type RatingService struct {
	sched *schedule.Schedule
	seeds map[string]int
	cfg   *config.Config

	mu          sync.Mutex
	comparators map[string]ratings.Comparator
	rankings    map[string][]RankEntry
}

// NewRatingService wires a season's games and tournament seeds to the
// rating engine. seeds may be empty; the seed and hybrid algorithms then
// answer 0.5 for every pair.
func NewRatingService(sched *schedule.Schedule, seeds map[string]int, cfg *config.Config) *RatingService {
	return &RatingService{
		sched:       sched,
		seeds:       seeds,
		cfg:         cfg,
		comparators: make(map[string]ratings.Comparator),
		rankings:    make(map[string][]RankEntry),
	}
}

// Algorithms lists every comparator name this service can build.
func Algorithms() []string {
	return []string{
		AlgorithmSeed,
		AlgorithmBradleyTerry,
		AlgorithmElo,
		AlgorithmPageRank,
		AlgorithmPathWeight,
		AlgorithmResistance,
		AlgorithmHybrid,
	}
}

// Comparator returns the memoized comparator for an algorithm name,
// building (and fitting) it on first use.
func (s *RatingService) Comparator(algorithm string) (ratings.Comparator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comparatorLocked(algorithm)
}

func (s *RatingService) comparatorLocked(algorithm string) (ratings.Comparator, error) {
	if cmp, ok := s.comparators[algorithm]; ok {
		return cmp, nil
	}

	fit := ratings.FitOptions{
		MaxIterations: s.cfg.MaxIterations,
		Tolerance:     s.cfg.ConvergenceTolerance,
	}

	var cmp ratings.Comparator
	switch algorithm {
	case AlgorithmSeed:
		cmp = ratings.NewSeedComparator(s.seeds, ratings.DefaultSeedStdev)
	case AlgorithmBradleyTerry:
		cmp = ratings.NewBradleyTerry(s.sched, fit)
	case AlgorithmElo:
		cmp = ratings.NewElo(s.sched, ratings.EloOptions{BaseRating: s.cfg.EloBaseRating})
	case AlgorithmPageRank:
		cmp = ratings.NewPageRank(s.sched, ratings.PageRankOptions{Alpha: s.cfg.PageRankAlpha, Fit: fit})
	case AlgorithmPathWeight:
		cmp = ratings.NewPathWeight(s.sched)
	case AlgorithmResistance:
		cmp = ratings.NewResistance(s.sched)
	case AlgorithmHybrid:
		members := make([]ratings.Comparator, 0, len(Algorithms())-1)
		for _, name := range Algorithms() {
			if name == AlgorithmHybrid {
				continue
			}
			member, err := s.comparatorLocked(name)
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		}
		cmp = ratings.NewHybrid(members...)
	default:
		return nil, &ErrUnknownAlgorithm{Algorithm: algorithm}
	}

	logrus.WithFields(logrus.Fields{
		"algorithm": algorithm,
		"teams":     len(s.sched.Teams()),
		"games":     s.sched.Len(),
	}).Info("Comparator fitted")

	s.comparators[algorithm] = cmp
	return cmp, nil
}

// Predict answers P(a beats b) under the named algorithm.
func (s *RatingService) Predict(algorithm, a, b string) (float64, error) {
	cmp, err := s.Comparator(algorithm)
	if err != nil {
		return 0, err
	}
	return cmp.Predict(a, b), nil
}

// Rankings orders every team in the schedule by its mean win probability
// against all other teams under the named algorithm. The round-robin mean
// is the one score that is meaningful for every comparator, including the
// purely pairwise ones.
func (s *RatingService) Rankings(algorithm string) ([]RankEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.rankings[algorithm]; ok {
		return cached, nil
	}

	cmp, err := s.comparatorLocked(algorithm)
	if err != nil {
		return nil, err
	}

	teams := s.sched.Teams()
	entries := make([]RankEntry, len(teams))
	for i, team := range teams {
		var total float64
		for _, opp := range teams {
			if opp == team {
				continue
			}
			total += cmp.Predict(team, opp)
		}
		score := 0.0
		if len(teams) > 1 {
			score = total / float64(len(teams)-1)
		}
		entries[i] = RankEntry{Team: team, Score: score}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Team < entries[j].Team
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.rankings[algorithm] = entries
	return entries, nil
}
