package engine

import (
	"math"

	"github.com/cyberchess/cyberchess/internal/game"
)

// Resource ledger: affordability, atomic spend and end-of-round regeneration
// over a role's pools.

// CanAfford reports whether every cost key exists in the pools with enough
// value. Unknown resource keys fail closed.
func CanAfford(pools []game.Resource, cost map[string]int) bool {
	for name, amount := range cost {
		found := false
		for i := range pools {
			if pools[i].Name == name {
				found = true
				if pools[i].Value < amount {
					return false
				}
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Spend decrements every cost key, all-or-nothing. A cost bundle that is not
// affordable leaves every pool unchanged and returns ErrInsufficientResources;
// partial deduction is never observable.
func Spend(pools []game.Resource, cost map[string]int) error {
	if !CanAfford(pools, cost) {
		return ErrInsufficientResources
	}
	for name, amount := range cost {
		for i := range pools {
			if pools[i].Name == name {
				pools[i].Value -= amount
				break
			}
		}
	}
	return nil
}

// Regenerate restores every pool by ceil(max*rate), clamped to max. Applied
// once per round boundary after all players have acted.
func Regenerate(pools []game.Resource, rate float64) {
	for i := range pools {
		recovered := int(math.Ceil(float64(pools[i].Max) * rate))
		pools[i].Value += recovered
		if pools[i].Value > pools[i].Max {
			pools[i].Value = pools[i].Max
		}
	}
}

// TotalValue sums the current values across pools.
func TotalValue(pools []game.Resource) int {
	total := 0
	for i := range pools {
		total += pools[i].Value
	}
	return total
}
