package rules

import (
	"slices"

	"github.com/nstehr/dominion/dominion-core/dice"
)

// RollEnv wraps a just-made roll and exposes helper methods callable from
// trigger expressions. Rolls is the raw, unsorted roll sequence.
type RollEnv struct {
	Rolls []int
	Total int
	Held  []string
}

func (e RollEnv) HasDuplicates() bool { return dice.HasDuplicates(e.Rolls) }

func (e RollEnv) AllEqual() bool { return dice.AllEqual(e.Rolls) }

func (e RollEnv) Count(v int) int { return dice.CountValue(e.Rolls, v) }

func (e RollEnv) Sum() int { return dice.Sum(e.Rolls) }

func (e RollEnv) Max() int {
	if len(e.Rolls) == 0 {
		return 0
	}
	return slices.Max(e.Rolls)
}

func (e RollEnv) Min() int {
	if len(e.Rolls) == 0 {
		return 0
	}
	return slices.Min(e.Rolls)
}

// Holds reports whether a territory id is in the caller's context set.
func (e RollEnv) Holds(id string) bool { return slices.Contains(e.Held, id) }
