// Package schedule holds the in-memory game record store: every completed
// game of a season, in chronological order, plus the set of teams that
// appear in them. All rating algorithms read from a Schedule and never
// mutate it.
package schedule

import (
	"fmt"
	"sort"

	"github.com/cmorrow/bracketcast/internal/models"
)

// DataFormatError reports a malformed schedule row. It is fatal to the load
// that produced it; the store never keeps partially-parsed games.
type DataFormatError struct {
	Source string
	Line   int
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("bad game record: %s", e.Reason)
	}
	return fmt.Sprintf("bad game record in %s line %d: %s", e.Source, e.Line, e.Reason)
}

// Schedule is an immutable, chronologically ordered collection of games.
type Schedule struct {
	games []models.Game
	teams map[string]struct{}
}

// New validates and wraps a set of games. Games must already be in play
// order; their Seq fields are normalized to the slice order. Duplicate
// matchups are legitimate (rematches, conference tournaments) and kept.
func New(games []models.Game) (*Schedule, error) {
	s := &Schedule{
		games: make([]models.Game, len(games)),
		teams: make(map[string]struct{}),
	}
	for i, g := range games {
		if g.Winner == "" || g.Loser == "" {
			return nil, &DataFormatError{Reason: fmt.Sprintf("game %d is missing a team reference", i)}
		}
		if g.Winner == g.Loser {
			return nil, &DataFormatError{Reason: fmt.Sprintf("game %d has %q playing itself", i, g.Winner)}
		}
		if g.WinnerScore < 0 || g.LoserScore < 0 {
			return nil, &DataFormatError{Reason: fmt.Sprintf("game %d has a negative score", i)}
		}
		if g.WinnerScore < g.LoserScore {
			return nil, &DataFormatError{Reason: fmt.Sprintf("game %d has the loser outscoring the winner", i)}
		}
		g.Seq = i
		s.games[i] = g
		s.teams[g.Winner] = struct{}{}
		s.teams[g.Loser] = struct{}{}
	}
	return s, nil
}

// Games returns the games in chronological order. Callers must treat the
// slice as read-only.
func (s *Schedule) Games() []models.Game {
	return s.games
}

func (s *Schedule) Len() int {
	return len(s.games)
}

// Teams returns every team appearing in at least one game, sorted for
// reproducibility.
func (s *Schedule) Teams() []string {
	out := make([]string, 0, len(s.teams))
	for t := range s.teams {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s *Schedule) HasTeam(team string) bool {
	_, ok := s.teams[team]
	return ok
}

// HeadToHead counts direct meetings between two teams.
func (s *Schedule) HeadToHead(a, b string) (winsA, winsB int) {
	for _, g := range s.games {
		switch {
		case g.Winner == a && g.Loser == b:
			winsA++
		case g.Winner == b && g.Loser == a:
			winsB++
		}
	}
	return winsA, winsB
}
