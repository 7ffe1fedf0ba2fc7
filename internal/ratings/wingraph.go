package ratings

import (
	"github.com/cmorrow/bracketcast/internal/schedule"
)

// Default endorsement weights: the win itself plus the four factors
// (effective field goal pct, turnover pct, offensive rebound pct, free
// throw rate). Winning a game is worth far more than winning a stat
// category, but a loser that out-shot and out-rebounded the winner still
// earns some credit.
const (
	WeightWin = 50.0
	WeightEFG = 13.3333
	WeightTOV = 6.6666
	WeightORB = 8.3333
	WeightFTR = 5.0
)

// WinGraph is a directed evidence graph over one schedule. Edges point
// loser to winner: a loss is a "vote" for the team that inflicted it.
// Each algorithm builds its own WinGraph so no rating state is ever shared
// between comparators.
type WinGraph struct {
	teams []string
	index map[string]int

	// wins[i][j] counts games where team i beat team j.
	wins [][]float64
	// votes[i][j] is the endorsement weight flowing from j to i.
	votes [][]float64
	// conduct[i][j] is the symmetric margin-weighted conductance between
	// i and j, used by the resistance model.
	conduct [][]float64
}

// NewWinGraph builds the graph from every game in the schedule.
func NewWinGraph(s *schedule.Schedule) *WinGraph {
	teams := s.Teams()
	g := &WinGraph{
		teams: teams,
		index: make(map[string]int, len(teams)),
	}
	for i, t := range teams {
		g.index[t] = i
	}
	n := len(teams)
	g.wins = newMatrix(n)
	g.votes = newMatrix(n)
	g.conduct = newMatrix(n)

	for _, game := range s.Games() {
		w, okW := g.index[game.Winner]
		l, okL := g.index[game.Loser]
		if !okW || !okL {
			continue
		}

		g.wins[w][l]++

		winnerVote, loserVote := WeightWin, 0.0
		if game.HasFactors {
			winnerVote, loserVote = factorVotes(game.WinnerEFG, game.LoserEFG, game.WinnerTOV, game.LoserTOV,
				game.WinnerORB, game.LoserORB, game.WinnerFTR, game.LoserFTR)
		}
		g.votes[w][l] += winnerVote
		g.votes[l][w] += loserVote

		margin := float64(game.Margin())
		if margin < 1 {
			margin = 1
		}
		g.conduct[w][l] += margin
		g.conduct[l][w] += margin
	}
	return g
}

func factorVotes(wEFG, lEFG, wTOV, lTOV, wORB, lORB, wFTR, lFTR float64) (winner, loser float64) {
	winner = WeightWin
	if wEFG > lEFG {
		winner += WeightEFG
	} else if lEFG > wEFG {
		loser += WeightEFG
	}
	// Lower turnover percentage is the good side.
	if wTOV < lTOV {
		winner += WeightTOV
	} else if lTOV < wTOV {
		loser += WeightTOV
	}
	if wORB > lORB {
		winner += WeightORB
	} else if lORB > wORB {
		loser += WeightORB
	}
	if wFTR > lFTR {
		winner += WeightFTR
	} else if lFTR > wFTR {
		loser += WeightFTR
	}
	return winner, loser
}

func newMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func (g *WinGraph) Len() int {
	return len(g.teams)
}

// Teams returns the graph's node order; indexes into the matrices follow it.
func (g *WinGraph) Teams() []string {
	return g.teams
}

func (g *WinGraph) Index(team string) (int, bool) {
	i, ok := g.index[team]
	return i, ok
}

func (g *WinGraph) Wins(i, j int) float64 {
	return g.wins[i][j]
}

func (g *WinGraph) Votes(i, j int) float64 {
	return g.votes[i][j]
}

func (g *WinGraph) Conductance(i, j int) float64 {
	return g.conduct[i][j]
}

// VotesCast is the total endorsement weight a team gives away; a team with
// zero is a dangling node for PageRank (typically an undefeated team).
func (g *WinGraph) VotesCast(j int) float64 {
	var sum float64
	for i := range g.teams {
		sum += g.votes[i][j]
	}
	return sum
}

// Components labels nodes of the undirected conductance graph, returning a
// component id per node. Two teams share evidence, however indirect, only
// when their ids match.
func (g *WinGraph) Components() []int {
	n := len(g.teams)
	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}
	next := 0
	for start := 0; start < n; start++ {
		if comp[start] != -1 {
			continue
		}
		queue := []int{start}
		comp[start] = next
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for v := 0; v < n; v++ {
				if comp[v] == -1 && g.conduct[u][v] > 0 {
					comp[v] = next
					queue = append(queue, v)
				}
			}
		}
		next++
	}
	return comp
}
