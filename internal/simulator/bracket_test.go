package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourTeamSlots() []Slot {
	return []Slot{
		{Team: "t1", Seed: 1, Region: "east"},
		{Team: "t4", Seed: 4, Region: "east"},
		{Team: "t2", Seed: 2, Region: "east"},
		{Team: "t3", Seed: 3, Region: "east"},
	}
}

func TestNewBracket_Valid(t *testing.T) {
	b, err := NewBracket(fourTeamSlots())
	require.NoError(t, err)

	assert.Equal(t, 2, b.Rounds())
	assert.Len(t, b.Slots(), 4)
	assert.Equal(t, map[string]int{"t1": 1, "t2": 2, "t3": 3, "t4": 4}, b.Seeds())
}

func TestNewBracket_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		slots []Slot
	}{
		{"too few teams", []Slot{{Team: "a", Seed: 1, Region: "east"}}},
		{"not a power of two", []Slot{
			{Team: "a", Seed: 1, Region: "east"},
			{Team: "b", Seed: 2, Region: "east"},
			{Team: "c", Seed: 3, Region: "east"},
		}},
		{"empty team name", []Slot{
			{Team: "a", Seed: 1, Region: "east"},
			{Team: "", Seed: 2, Region: "east"},
		}},
		{"duplicate team", []Slot{
			{Team: "a", Seed: 1, Region: "east"},
			{Team: "a", Seed: 2, Region: "east"},
		}},
		{"missing seed in region", []Slot{
			{Team: "a", Seed: 1, Region: "east"},
			{Team: "b", Seed: 3, Region: "east"},
		}},
		{"unequal regions", []Slot{
			{Team: "a", Seed: 1, Region: "east"},
			{Team: "b", Seed: 2, Region: "east"},
			{Team: "c", Seed: 3, Region: "east"},
			{Team: "d", Seed: 1, Region: "west"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBracket(tc.slots)
			require.Error(t, err)
			var ibe *IncompleteBracketError
			assert.ErrorAs(t, err, &ibe)
		})
	}
}

func TestNewBracketFromNames_SeedOrder(t *testing.T) {
	names := make([]string, 16)
	for i := range names {
		names[i] = string(rune('a' + i))
	}

	b, err := NewBracketFromNames(names, 1)
	require.NoError(t, err)

	var seeds []int
	for _, s := range b.Slots() {
		seeds = append(seeds, s.Seed)
	}
	assert.Equal(t, []int{1, 16, 8, 9, 4, 13, 5, 12, 2, 15, 7, 10, 3, 14, 6, 11}, seeds)
}

func TestNewBracketFromNames_SplitsRegions(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	b, err := NewBracketFromNames(names, 2)
	require.NoError(t, err)

	slots := b.Slots()
	assert.Equal(t, "region-1", slots[0].Region)
	assert.Equal(t, "region-2", slots[4].Region)
	// Each region follows the four-team pairing 1,4,2,3.
	assert.Equal(t, []int{1, 4, 2, 3}, []int{slots[0].Seed, slots[1].Seed, slots[2].Seed, slots[3].Seed})
}

func TestNewBracketFromNames_Invalid(t *testing.T) {
	var ibe *IncompleteBracketError

	_, err := NewBracketFromNames([]string{"a", "b", "c"}, 3)
	assert.ErrorAs(t, err, &ibe)

	_, err = NewBracketFromNames([]string{"a", "b", "c", "d", "e", "f"}, 2)
	assert.ErrorAs(t, err, &ibe)
}
