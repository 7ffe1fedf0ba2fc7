package ratings

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cmorrow/bracketcast/internal/schedule"
)

// ResistanceComparator treats the season as a resistor network: every game
// between two teams adds conductance proportional to its score margin, and
// the effective resistance between two teams — via the component Laplacian's
// pseudo-inverse — says how much connecting evidence exists. Direction comes
// from each team's net margin rate: the prediction is the normal CDF of the
// rate gap scaled by the pair's resistance, so a gap across a tightly
// connected pair counts for more than the same gap across a tenuous one.
//
// Teams in different components have infinite resistance and no shared
// evidence; those pairs return the neutral probability.
type ResistanceComparator struct {
	index map[string]int
	comp  []int
	// pinv[c] is the Laplacian pseudo-inverse of component c, indexed by
	// local[node].
	pinv  map[int]*mat.Dense
	local []int
	// netRate[i] is (margin won - margin lost) / games played.
	netRate []float64
	// sigma[c] is the spread of netRate within component c.
	sigma map[int]float64
}

func NewResistance(s *schedule.Schedule) *ResistanceComparator {
	g := NewWinGraph(s)
	n := g.Len()

	c := &ResistanceComparator{
		index:   make(map[string]int, n),
		comp:    g.Components(),
		pinv:    make(map[int]*mat.Dense),
		local:   make([]int, n),
		netRate: make([]float64, n),
		sigma:   make(map[int]float64),
	}
	for i, team := range g.Teams() {
		c.index[team] = i
	}

	played := make([]float64, n)
	for _, game := range s.Games() {
		w, okW := g.Index(game.Winner)
		l, okL := g.Index(game.Loser)
		if !okW || !okL {
			continue
		}
		margin := math.Max(1, float64(game.Margin()))
		c.netRate[w] += margin
		c.netRate[l] -= margin
		played[w]++
		played[l]++
	}
	for i := range c.netRate {
		if played[i] > 0 {
			c.netRate[i] /= played[i]
		}
	}

	// Group nodes by component and factorize each Laplacian once.
	members := make(map[int][]int)
	for i, id := range c.comp {
		members[id] = append(members[id], i)
	}
	for id, nodes := range members {
		for local, node := range nodes {
			c.local[node] = local
		}
		if len(nodes) < 2 {
			continue
		}

		m := len(nodes)
		lap := mat.NewDense(m, m, nil)
		for a := 0; a < m; a++ {
			var degree float64
			for b := 0; b < m; b++ {
				if a == b {
					continue
				}
				w := g.Conductance(nodes[a], nodes[b])
				degree += w
				lap.Set(a, b, -w)
			}
			lap.Set(a, a, degree)
		}
		c.pinv[id] = pseudoInverse(lap)

		rates := make([]float64, m)
		for a, node := range nodes {
			rates[a] = c.netRate[node]
		}
		c.sigma[id] = stat.StdDev(rates, nil)
	}
	return c
}

func (c *ResistanceComparator) Name() string { return "resistance" }

func (c *ResistanceComparator) Predict(a, b string) float64 {
	ia, okA := c.index[a]
	ib, okB := c.index[b]
	if !okA || !okB || ia == ib {
		return NeutralProbability
	}
	if c.comp[ia] != c.comp[ib] {
		return NeutralProbability
	}

	id := c.comp[ia]
	pinv, ok := c.pinv[id]
	if !ok || pinv == nil {
		return NeutralProbability
	}
	la, lb := c.local[ia], c.local[ib]
	resistance := pinv.At(la, la) + pinv.At(lb, lb) - 2*pinv.At(la, lb)
	if resistance <= 0 || math.IsNaN(resistance) {
		return NeutralProbability
	}

	sigma := c.sigma[id]
	if sigma <= 0 || math.IsNaN(sigma) {
		return NeutralProbability
	}

	z := (c.netRate[ia] - c.netRate[ib]) / (sigma * math.Sqrt(resistance))
	return clampProbability(distuv.UnitNormal.CDF(z))
}

// pseudoInverse computes the Moore-Penrose inverse by SVD, dropping the
// Laplacian's null space.
func pseudoInverse(a *mat.Dense) *mat.Dense {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	tol := 1e-12 * float64(len(values))
	var max float64
	for _, s := range values {
		if s > max {
			max = s
		}
	}
	tol *= math.Max(max, 1)

	r, _ := a.Dims()
	d := mat.NewDense(r, r, nil)
	for i, s := range values {
		if s > tol {
			d.Set(i, i, 1/s)
		}
	}

	var tmp, out mat.Dense
	tmp.Mul(d, u.T())
	out.Mul(&v, &tmp)
	return &out
}
