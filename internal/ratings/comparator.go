// Package ratings turns a season of game results into win-probability
// estimates. Each algorithm builds its own finalized rating state at
// construction time and then answers Predict calls without further
// computation or mutation.
package ratings

// NeutralProbability is the fallback returned whenever an algorithm has no
// evidence connecting two teams (disconnected win graph, unknown team,
// empty schedule).
const NeutralProbability = 0.5

// MaxConfidence caps predictions backed by one-sided evidence so the
// complement is never exactly zero.
const MaxConfidence = 0.99

// Comparator produces the probability that the first team beats the second.
// Implementations guarantee Predict(a, b) + Predict(b, a) == 1 and are safe
// for concurrent use once constructed.
type Comparator interface {
	Name() string
	Predict(a, b string) float64
}

// Diagnostics reports how an iterative fit ended. A comparator that hits its
// iteration cap before its tolerance still returns its best estimate; the
// unmet tolerance is a reported condition, not a failure.
type Diagnostics struct {
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
}

// FitOptions bounds the convergence loops of the iterative algorithms.
type FitOptions struct {
	MaxIterations int
	Tolerance     float64
}

func (o FitOptions) withDefaults() FitOptions {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 10000
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-9
	}
	return o
}

func clampProbability(p float64) float64 {
	if p < 1-MaxConfidence {
		return 1 - MaxConfidence
	}
	if p > MaxConfidence {
		return MaxConfidence
	}
	return p
}
