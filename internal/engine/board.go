package engine

import (
	"math"

	"github.com/cyberchess/cyberchess/internal/game"
)

// Layer board: damage, repair and breach tracking over the five fixed
// defense layers.

// DamageOutcome describes one ApplyDamage application.
type DamageOutcome struct {
	Raw       int
	Effective int
	Blocked   int
	// NewBreach is set only on the transition to zero health; a layer that
	// stays at zero does not re-fire.
	NewBreach bool
}

// ApplyDamage computes effective = max(0, raw - defense*(1-pierce)) *
// multiplier, applies it and clamps health to [0, maxHealth]. pierce is the
// fraction of defense the attack ignores; extraDefense and reduction come
// from active chain effects.
func ApplyDamage(layer *game.Layer, raw int, multiplier, pierce float64, extraDefense int, reduction float64) DamageOutcome {
	defense := float64(layer.Defense+extraDefense) * (1.0 - pierce)
	effective := (float64(raw) - defense) * multiplier
	if effective < 0 {
		effective = 0
	}
	if reduction > 0 {
		effective = effective * (1.0 - reduction)
	}
	dmg := int(math.Round(effective))

	out := DamageOutcome{Raw: raw, Effective: dmg}
	out.Blocked = raw - dmg
	if out.Blocked < 0 {
		out.Blocked = 0
	}

	layer.Health -= dmg
	if layer.Health <= 0 {
		layer.Health = 0
		if !layer.Breached {
			layer.Breached = true
			out.NewBreach = true
		}
	}
	return out
}

// ApplyRepair restores health, clamped to maxHealth. Repairing above zero
// clears the breach flag so a later breach fires again.
func ApplyRepair(layer *game.Layer, amount int) int {
	before := layer.Health
	layer.Health += amount
	if layer.Health > layer.MaxHealth {
		layer.Health = layer.MaxHealth
	}
	if layer.Health > 0 {
		layer.Breached = false
	}
	return layer.Health - before
}

// IsBreached reports whether the layer sits at zero health.
func IsBreached(layer *game.Layer) bool {
	return layer.Health == 0
}

// WeakestLayer returns the key of the lowest-health layer, breaking ties in
// canonical layer order so resolution stays deterministic.
func WeakestLayer(layers map[string]*game.Layer) string {
	weakest := ""
	low := math.MaxInt
	for _, key := range game.LayerKeys {
		if l, ok := layers[key]; ok && l.Health < low {
			low = l.Health
			weakest = key
		}
	}
	return weakest
}

// AllBreached reports whether every layer sits at zero health.
func AllBreached(layers map[string]*game.Layer) bool {
	for _, key := range game.LayerKeys {
		if l, ok := layers[key]; !ok || l.Health > 0 {
			return false
		}
	}
	return true
}
