package engine

import (
	"github.com/cyberchess/cyberchess/internal/game"
)

// Chain effects are an explicit scheduled-effect queue: each entry is
// re-evaluated once per round advance, its duration decremented and expired
// entries removed (see Resolver.tickChainEffects in round.go).

// extraDefense sums active defense_bonus chain effects covering the layer.
func extraDefense(st *game.State, layerKey string) int {
	bonus := 0
	for i := range st.ChainEffects {
		ce := &st.ChainEffects[i]
		if ce.Kind == game.ChainKindDefenseBonus && (ce.Target == "" || ce.Target == layerKey) {
			bonus += int(ce.Magnitude)
		}
	}
	return bonus
}

// damageReduction returns the strongest active damage_reduction fraction
// covering the layer. Reductions do not stack; the best shield wins.
func damageReduction(st *game.State, layerKey string) float64 {
	best := 0.0
	for i := range st.ChainEffects {
		ce := &st.ChainEffects[i]
		if ce.Kind == game.ChainKindDamageReduction && (ce.Target == "" || ce.Target == layerKey) {
			if ce.Magnitude > best {
				best = ce.Magnitude
			}
		}
	}
	return best
}

// purgeHostileEffects removes attacker-sourced chain effects (threat
// hunting). Returns how many entries were dropped.
func purgeHostileEffects(st *game.State, self game.Role) int {
	kept := st.ChainEffects[:0]
	removed := 0
	for _, ce := range st.ChainEffects {
		if ce.Source != self && ce.Source == game.RoleAttacker {
			removed++
			continue
		}
		kept = append(kept, ce)
	}
	st.ChainEffects = kept
	return removed
}
