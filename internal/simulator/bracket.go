// Package simulator advances a single-elimination bracket with any
// comparator, producing per-matchup advancement distributions and a
// most-likely ("chalk") walkthrough.
package simulator

import (
	"fmt"
)

// Slot is one first-round position: a concrete team placed at a seed in a
// region. Slots are listed in bracket order, i.e. slots 0 and 1 meet in the
// first round, the winner meets the winner of slots 2 and 3, and so on.
type Slot struct {
	Team   string `json:"team"`
	Seed   int    `json:"seed"`
	Region string `json:"region"`
}

// IncompleteBracketError reports a seeding that cannot fill the expected
// bracket shape; simulation cannot proceed.
type IncompleteBracketError struct {
	Reason string
}

func (e *IncompleteBracketError) Error() string {
	return "incomplete bracket: " + e.Reason
}

// MatchupState tracks resolution during a simulation pass.
type MatchupState int

const (
	Unresolved MatchupState = iota
	Resolved
)

// Matchup is one node of the bracket tree. Leaves carry a fixed slot; inner
// nodes are decided by the winners of their children. After resolution,
// Dist holds the probability of each team winning this matchup (equally,
// reaching the next round), marginalized over every way the bracket could
// have unfolded beneath it.
type Matchup struct {
	Round int          `json:"round"`
	State MatchupState `json:"-"`

	Slot        *Slot    `json:"slot,omitempty"`
	Left, Right *Matchup `json:"-"`

	Dist map[string]float64 `json:"dist,omitempty"`
}

// Bracket is an immutable tournament definition. Simulation never mutates
// it; each run resolves a fresh clone of the tree.
type Bracket struct {
	slots  []Slot
	rounds int
}

// NewBracket validates an ordered seeding. The field must be a power of two
// with at least two teams; regions must be equally sized contiguous
// power-of-two blocks, each containing exactly the seeds 1..size; team names
// must be unique and non-empty.
func NewBracket(slots []Slot) (*Bracket, error) {
	n := len(slots)
	if n < 2 {
		return nil, &IncompleteBracketError{Reason: fmt.Sprintf("need at least 2 teams, got %d", n)}
	}
	if n&(n-1) != 0 {
		return nil, &IncompleteBracketError{Reason: fmt.Sprintf("field size %d is not a power of two", n)}
	}

	seen := make(map[string]struct{}, n)
	regionSeeds := make(map[string]map[int]int)
	var regionOrder []string
	for i, s := range slots {
		if s.Team == "" {
			return nil, &IncompleteBracketError{Reason: fmt.Sprintf("slot %d has no team", i)}
		}
		if _, dup := seen[s.Team]; dup {
			return nil, &IncompleteBracketError{Reason: fmt.Sprintf("team %q appears twice", s.Team)}
		}
		seen[s.Team] = struct{}{}
		if _, ok := regionSeeds[s.Region]; !ok {
			regionSeeds[s.Region] = make(map[int]int)
			regionOrder = append(regionOrder, s.Region)
		}
		regionSeeds[s.Region][s.Seed]++
	}

	regionSize := n / len(regionOrder)
	for _, region := range regionOrder {
		seeds := regionSeeds[region]
		if len(seeds) != regionSize {
			return nil, &IncompleteBracketError{Reason: fmt.Sprintf("region %q has %d teams, want %d", region, countSeeds(seeds), regionSize)}
		}
		for want := 1; want <= regionSize; want++ {
			if seeds[want] != 1 {
				return nil, &IncompleteBracketError{Reason: fmt.Sprintf("region %q is missing seed %d", region, want)}
			}
		}
	}

	rounds := 0
	for size := n; size > 1; size /= 2 {
		rounds++
	}
	owned := make([]Slot, n)
	copy(owned, slots)
	return &Bracket{slots: owned, rounds: rounds}, nil
}

func countSeeds(seeds map[int]int) int {
	var total int
	for _, c := range seeds {
		total += c
	}
	return total
}

// NewBracketFromNames seeds a field from a flat name list split into equal
// regions. Within each region the seeds follow the standard matchup order
// (for 16 teams: 1,16,8,9,4,13,5,12,2,15,7,10,3,14,6,11), which differs
// from the order printed on the NCAA's bracket sheet.
func NewBracketFromNames(names []string, regions int) (*Bracket, error) {
	n := len(names)
	if regions < 1 || regions&(regions-1) != 0 {
		return nil, &IncompleteBracketError{Reason: fmt.Sprintf("region count %d is not a power of two", regions)}
	}
	if n < regions || n%regions != 0 {
		return nil, &IncompleteBracketError{Reason: fmt.Sprintf("%d teams cannot fill %d equal regions", n, regions)}
	}
	perRegion := n / regions
	if perRegion&(perRegion-1) != 0 {
		return nil, &IncompleteBracketError{Reason: fmt.Sprintf("region size %d is not a power of two", perRegion)}
	}

	order := seedOrder(perRegion)
	slots := make([]Slot, n)
	for q := 0; q < regions; q++ {
		region := fmt.Sprintf("region-%d", q+1)
		for i, seed := range order {
			idx := q*perRegion + i
			slots[idx] = Slot{Team: names[idx], Seed: seed, Region: region}
		}
	}
	return NewBracket(slots)
}

// seedOrder doubles up the classic pairing: each seed is followed by its
// first-round opponent at every bracket size.
func seedOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		grown := make([]int, 0, len(order)*2)
		next := len(order) * 2
		for _, s := range order {
			grown = append(grown, s, next-s+1)
		}
		order = grown
	}
	return order
}

// Slots returns the first-round seeding in bracket order.
func (b *Bracket) Slots() []Slot {
	out := make([]Slot, len(b.slots))
	copy(out, b.slots)
	return out
}

// Rounds is the number of rounds to a champion.
func (b *Bracket) Rounds() int {
	return b.rounds
}

// Seeds maps each team to its seed, for seed-based comparators.
func (b *Bracket) Seeds() map[string]int {
	seeds := make(map[string]int, len(b.slots))
	for _, s := range b.slots {
		seeds[s.Team] = s.Seed
	}
	return seeds
}

// buildTree clones the bracket into a fresh matchup tree, leaves first.
func (b *Bracket) buildTree() *Matchup {
	level := make([]*Matchup, len(b.slots))
	for i := range b.slots {
		slot := b.slots[i]
		level[i] = &Matchup{Round: 0, Slot: &slot}
	}
	round := 1
	for len(level) > 1 {
		next := make([]*Matchup, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, &Matchup{
				Round: round,
				Left:  level[i],
				Right: level[i+1],
			})
		}
		level = next
		round++
	}
	return level[0]
}
