package catalog

import (
	"fmt"
	"strings"

	"github.com/cyberchess/cyberchess/internal/game"
)

// Effect kinds understood by the tactic resolver. Everything a tactic does
// in-game is described here; the engine itself stays formula-agnostic.
const (
	EffectDamage  = "damage"  // attack a target layer
	EffectRepair  = "repair"  // restore health on a target layer (or the weakest)
	EffectFortify = "fortify" // raise a layer's defense stat
	EffectIntel   = "intel"   // add an intelligence reveal
	EffectDrain   = "drain"   // remove resources from another role
	EffectGrant   = "grant"   // add resources to another role
	EffectShield  = "shield"  // persistent incoming-damage reduction or defense bonus
	EffectPurge   = "purge"   // remove hostile chain effects
)

// Effect is the machine-readable half of a tactic. All fields are optional
// and applied when present for the tactic's kind.
type Effect struct {
	Kind string `json:"kind" yaml:"kind"`

	BaseDamage int `json:"base_damage" yaml:"base_damage"`
	// DefensePierce is the fraction of the target layer's defense ignored
	// (0day-style attacks).
	DefensePierce float64 `json:"defense_pierce" yaml:"defense_pierce"`
	// HitChance in [0,1]; 0 means always hits (no random draw consumed).
	HitChance float64 `json:"hit_chance" yaml:"hit_chance"`
	// CriticalAgainst/ReducedAgainst pick the damage multiplier per
	// tactic/target matchup; unlisted layers resolve at the normal rate.
	CriticalAgainst []string `json:"critical_against" yaml:"critical_against"`
	ReducedAgainst  []string `json:"reduced_against" yaml:"reduced_against"`

	RepairAmount int `json:"repair_amount" yaml:"repair_amount"`
	DefenseBonus int `json:"defense_bonus" yaml:"defense_bonus"`
	// AllLayers applies repair/fortify across the whole board instead of a
	// single target.
	AllLayers bool `json:"all_layers" yaml:"all_layers"`

	RequiresTarget bool `json:"requires_target" yaml:"requires_target"`

	// Duration schedules a chain effect for this many round advances.
	Duration int `json:"duration" yaml:"duration"`
	// CascadeDamage is the per-round magnitude of a scheduled cascade.
	CascadeDamage int `json:"cascade_damage" yaml:"cascade_damage"`
	// DamageReduction is the fraction shaved off incoming damage while a
	// shield chain effect is active.
	DamageReduction float64 `json:"damage_reduction" yaml:"damage_reduction"`

	DrainRole     game.Role `json:"drain_role" yaml:"drain_role"`
	DrainResource string    `json:"drain_resource" yaml:"drain_resource"`
	DrainAmount   int       `json:"drain_amount" yaml:"drain_amount"`

	GrantRole     game.Role `json:"grant_role" yaml:"grant_role"`
	GrantResource string    `json:"grant_resource" yaml:"grant_resource"`
	GrantAmount   int       `json:"grant_amount" yaml:"grant_amount"`

	// Impact holds the RITE dimension deltas recorded on the move.
	Impact map[string]int `json:"impact" yaml:"impact"`
}

// Tactic is an immutable catalog entry. Per-player cooldown state lives in
// game.State, not here.
type Tactic struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Cost        map[string]int `json:"cost" yaml:"cost"`
	Cooldown    int            `json:"cooldown" yaml:"cooldown"`
	Description string         `json:"description" yaml:"description"`
	Effect      Effect         `json:"effect" yaml:"effect"`
}

// Multipliers are the three damage rates picked by tactic/target matchup.
type Multipliers struct {
	Critical float64 `json:"critical" yaml:"critical"`
	Normal   float64 `json:"normal" yaml:"normal"`
	Reduced  float64 `json:"reduced" yaml:"reduced"`
}

// Scoring holds the per-event score weights.
type Scoring struct {
	DamageDealt       int `json:"damage_dealt" yaml:"damage_dealt"`
	DamageBlocked     int `json:"damage_blocked" yaml:"damage_blocked"`
	LayerBreach       int `json:"layer_breach" yaml:"layer_breach"`
	ResourceEfficient int `json:"resource_efficient" yaml:"resource_efficient"`
	PerfectDefense    int `json:"perfect_defense" yaml:"perfect_defense"`
	GameWin           int `json:"game_win" yaml:"game_win"`
}

// Settings are the tunable game constants.
type Settings struct {
	MaxRounds            int         `json:"max_rounds" yaml:"max_rounds"`
	MinPlayers           int         `json:"min_players" yaml:"min_players"`
	MaxPlayers           int         `json:"max_players" yaml:"max_players"`
	TurnTimeoutSeconds   int         `json:"turn_timeout" yaml:"turn_timeout"`
	ReconnectSeconds     int         `json:"reconnect_timeout" yaml:"reconnect_timeout"`
	ResourceRecoveryRate float64     `json:"resource_recovery_rate" yaml:"resource_recovery_rate"`
	DamageMultipliers    Multipliers `json:"damage_multipliers" yaml:"damage_multipliers"`
	Scoring              Scoring     `json:"scoring" yaml:"scoring"`
}

// Catalog is the static, immutable game definition: tactics per role,
// initial resource pools and initial layer stats. Loaded once at startup;
// a malformed catalog is a fatal configuration error, never a runtime one.
type Catalog struct {
	Settings Settings

	tactics   map[game.Role][]Tactic
	byID      map[game.Role]map[string]Tactic
	resources map[game.Role][]game.Resource
	layers    map[string]game.Layer
}

// New builds and validates a catalog. Every role needs a non-empty tactic
// set with unique ids, every cost key must reference a resource the role
// owns, and all five layers must be present.
func New(settings Settings, tactics map[game.Role][]Tactic, resources map[game.Role][]game.Resource, layers map[string]game.Layer) (*Catalog, error) {
	if settings.MaxRounds <= 0 {
		return nil, fmt.Errorf("catalog: max_rounds must be positive, got %d", settings.MaxRounds)
	}
	if settings.ResourceRecoveryRate < 0 || settings.ResourceRecoveryRate > 1 {
		return nil, fmt.Errorf("catalog: resource_recovery_rate must be within [0,1], got %v", settings.ResourceRecoveryRate)
	}
	for _, key := range game.LayerKeys {
		if _, ok := layers[key]; !ok {
			return nil, fmt.Errorf("catalog: missing initial layer %q", key)
		}
	}
	for key := range layers {
		if !game.ValidLayerKey(key) {
			return nil, fmt.Errorf("catalog: unknown layer %q", key)
		}
	}

	byID := make(map[game.Role]map[string]Tactic, len(game.Roles))
	for _, role := range game.Roles {
		set := tactics[role]
		if len(set) == 0 {
			return nil, fmt.Errorf("catalog: role %s has no tactics", role)
		}
		pool := map[string]bool{}
		for _, res := range resources[role] {
			pool[res.Name] = true
		}
		if len(pool) == 0 {
			return nil, fmt.Errorf("catalog: role %s has no initial resources", role)
		}
		idx := make(map[string]Tactic, len(set))
		for _, t := range set {
			if strings.TrimSpace(t.ID) == "" {
				return nil, fmt.Errorf("catalog: role %s has a tactic with empty id", role)
			}
			if _, dup := idx[t.ID]; dup {
				return nil, fmt.Errorf("catalog: duplicate tactic id %q for role %s", t.ID, role)
			}
			for key := range t.Cost {
				if !pool[key] {
					return nil, fmt.Errorf("catalog: tactic %q costs unknown resource %q for role %s", t.ID, key, role)
				}
			}
			if err := validateEffect(t); err != nil {
				return nil, err
			}
			idx[t.ID] = t
		}
		byID[role] = idx
	}

	return &Catalog{
		Settings:  settings,
		tactics:   tactics,
		byID:      byID,
		resources: resources,
		layers:    layers,
	}, nil
}

func validateEffect(t Tactic) error {
	switch t.Effect.Kind {
	case EffectDamage, EffectRepair, EffectFortify, EffectIntel, EffectDrain, EffectGrant, EffectShield, EffectPurge:
	default:
		return fmt.Errorf("catalog: tactic %q has unknown effect kind %q", t.ID, t.Effect.Kind)
	}
	if t.Effect.HitChance < 0 || t.Effect.HitChance > 1 {
		return fmt.Errorf("catalog: tactic %q hit_chance must be within [0,1]", t.ID)
	}
	if t.Effect.DefensePierce < 0 || t.Effect.DefensePierce > 1 {
		return fmt.Errorf("catalog: tactic %q defense_pierce must be within [0,1]", t.ID)
	}
	for dim := range t.Effect.Impact {
		switch dim {
		case game.DimTrust, game.DimRisk, game.DimIncident, game.DimLoss:
		default:
			return fmt.Errorf("catalog: tactic %q impacts unknown dimension %q", t.ID, dim)
		}
	}
	return nil
}

// Tactics returns the ordered tactic list for a role.
func (c *Catalog) Tactics(role game.Role) []Tactic {
	return c.tactics[role]
}

// Tactic looks up a tactic by role and id.
func (c *Catalog) Tactic(role game.Role, id string) (Tactic, bool) {
	t, ok := c.byID[role][id]
	return t, ok
}

// InitialResources returns a fresh copy of a role's starting pools.
func (c *Catalog) InitialResources(role game.Role) []game.Resource {
	src := c.resources[role]
	out := make([]game.Resource, len(src))
	copy(out, src)
	return out
}

// InitialLayers returns a fresh copy of the starting board.
func (c *Catalog) InitialLayers() map[string]*game.Layer {
	out := make(map[string]*game.Layer, len(c.layers))
	for key, l := range c.layers {
		cp := l
		cp.Name = key
		out[key] = &cp
	}
	return out
}

// NewState builds the initial game state for the configured roles.
func (c *Catalog) NewState() game.State {
	st := game.State{
		CurrentRound:   1,
		MaxRound:       c.Settings.MaxRounds,
		Layers:         c.InitialLayers(),
		Resources:      map[game.Role][]game.Resource{},
		Scores:         game.RITEScores{Trust: 100, Risk: 100, Incident: 100, Loss: 100},
		Statistics:     map[game.Role]*game.Statistics{},
		Cooldowns:      map[game.Role]map[string]int{},
		ActedThisRound: map[game.Role]bool{},
		Eliminated:     map[game.Role]bool{},
	}
	for _, role := range game.Roles {
		st.Resources[role] = c.InitialResources(role)
		st.Cooldowns[role] = map[string]int{}
		st.Statistics[role] = game.NewStatistics()
	}
	return st
}
