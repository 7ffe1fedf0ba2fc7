package ratings

import (
	"container/heap"
	"math"

	"github.com/cmorrow/bracketcast/internal/schedule"
)

// PathWeightComparator measures transitive strength: an edge runs a -> b
// with weight 1/n^2 when a beat b in n meetings, and the cheapest directed
// path from a to b is read as evidence that a is the stronger team (a beat x
// who beat y who beat b). The squared win count makes repeated wins much
// stronger evidence than single ones.
//
//	P(a beats b) = dist(b->a) / (dist(a->b) + dist(b->a))
//
// Cycles are fine; Dijkstra never revisits a settled node. Pairs with a path
// in only one direction are clamped to MaxConfidence, and pairs with no
// connecting path at all fall back to the neutral probability. All pairwise
// distances are computed once at construction.
type PathWeightComparator struct {
	index map[string]int
	dist  [][]float64
}

func NewPathWeight(s *schedule.Schedule) *PathWeightComparator {
	g := NewWinGraph(s)
	n := g.Len()

	c := &PathWeightComparator{
		index: make(map[string]int, n),
		dist:  make([][]float64, n),
	}
	for i, team := range g.Teams() {
		c.index[team] = i
	}

	// Sparse adjacency with inverted-square weights.
	type edge struct {
		to     int
		weight float64
	}
	adj := make([][]edge, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if w := g.Wins(i, j); w > 0 {
				adj[i] = append(adj[i], edge{to: j, weight: 1 / (w * w)})
			}
		}
	}

	for start := 0; start < n; start++ {
		dist := make([]float64, n)
		for i := range dist {
			dist[i] = math.Inf(1)
		}
		dist[start] = 0

		pq := &distHeap{{node: start, dist: 0}}
		for pq.Len() > 0 {
			cur := heap.Pop(pq).(distEntry)
			if cur.dist > dist[cur.node] {
				continue
			}
			for _, e := range adj[cur.node] {
				if d := cur.dist + e.weight; d < dist[e.to] {
					dist[e.to] = d
					heap.Push(pq, distEntry{node: e.to, dist: d})
				}
			}
		}
		c.dist[start] = dist
	}
	return c
}

func (c *PathWeightComparator) Name() string { return "path-weight" }

func (c *PathWeightComparator) Predict(a, b string) float64 {
	ia, okA := c.index[a]
	ib, okB := c.index[b]
	if !okA || !okB || ia == ib {
		return NeutralProbability
	}

	dAB := c.dist[ia][ib]
	dBA := c.dist[ib][ia]
	switch {
	case math.IsInf(dAB, 1) && math.IsInf(dBA, 1):
		// No transitive evidence in either direction. A direct meeting
		// would have created a path, so there is nothing to fall back on.
		return NeutralProbability
	case math.IsInf(dBA, 1):
		return MaxConfidence
	case math.IsInf(dAB, 1):
		return 1 - MaxConfidence
	}
	if dAB+dBA == 0 {
		return NeutralProbability
	}
	return clampProbability(dBA / (dAB + dBA))
}

type distEntry struct {
	node int
	dist float64
}

type distHeap []distEntry

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x interface{}) { *h = append(*h, x.(distEntry)) }
func (h *distHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
