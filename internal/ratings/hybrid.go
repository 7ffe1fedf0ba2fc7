package ratings

import "math"

// HybridComparator defers to whichever of its comparators is most confident
// about a pair, in either direction. Confidence ties go to the earliest
// comparator, which keeps the two directions of a pair consistent.
type HybridComparator struct {
	comparators []Comparator
}

func NewHybrid(comparators ...Comparator) *HybridComparator {
	return &HybridComparator{comparators: comparators}
}

func (c *HybridComparator) Name() string { return "hybrid" }

func (c *HybridComparator) Predict(a, b string) float64 {
	best := NeutralProbability
	bestConf := -1.0
	for _, cmp := range c.comparators {
		p := cmp.Predict(a, b)
		conf := math.Max(p, 1-p)
		if conf > bestConf {
			best = p
			bestConf = conf
		}
	}
	return best
}
