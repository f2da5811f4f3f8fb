package catalog

import (
	"strings"
	"testing"

	"github.com/cyberchess/cyberchess/internal/game"
)

func validInputs() (Settings, map[game.Role][]Tactic, map[game.Role][]game.Resource, map[string]game.Layer) {
	settings := Settings{
		MaxRounds:            15,
		ResourceRecoveryRate: 0.1,
		DamageMultipliers:    Multipliers{Critical: 1.5, Normal: 1.0, Reduced: 0.5},
	}
	resources := map[game.Role][]game.Resource{
		game.RoleAttacker: {{Name: "compute", Value: 100, Max: 100}},
		game.RoleDefender: {{Name: "budget", Value: 1000, Max: 1000}},
		game.RoleMonitor:  {{Name: "intel", Value: 40, Max: 40}},
	}
	layers := map[string]game.Layer{}
	for _, key := range game.LayerKeys {
		layers[key] = game.Layer{Health: 100, MaxHealth: 100, Defense: 10}
	}
	tactics := map[game.Role][]Tactic{
		game.RoleAttacker: {{ID: "strike", Cost: map[string]int{"compute": 10}, Effect: Effect{Kind: EffectDamage, BaseDamage: 10, RequiresTarget: true}}},
		game.RoleDefender: {{ID: "patch", Cost: map[string]int{"budget": 50}, Effect: Effect{Kind: EffectFortify, DefenseBonus: 5, RequiresTarget: true}}},
		game.RoleMonitor:  {{ID: "trace", Cost: map[string]int{"intel": 5}, Effect: Effect{Kind: EffectIntel}}},
	}
	return settings, tactics, resources, layers
}

func TestNew_Valid(t *testing.T) {
	settings, tactics, resources, layers := validInputs()
	cat, err := New(settings, tactics, resources, layers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cat.Tactic(game.RoleAttacker, "strike"); !ok {
		t.Fatalf("tactic lookup failed")
	}
	if _, ok := cat.Tactic(game.RoleDefender, "strike"); ok {
		t.Fatalf("tactics must be namespaced per role")
	}
}

func TestNew_RejectsMissingLayer(t *testing.T) {
	settings, tactics, resources, layers := validInputs()
	delete(layers, game.LayerData)
	if _, err := New(settings, tactics, resources, layers); err == nil || !strings.Contains(err.Error(), "missing initial layer") {
		t.Fatalf("expected missing layer error, got %v", err)
	}
}

func TestNew_RejectsDuplicateTacticID(t *testing.T) {
	settings, tactics, resources, layers := validInputs()
	tactics[game.RoleAttacker] = append(tactics[game.RoleAttacker], Tactic{ID: "strike", Cost: map[string]int{"compute": 1}, Effect: Effect{Kind: EffectDamage}})
	if _, err := New(settings, tactics, resources, layers); err == nil || !strings.Contains(err.Error(), "duplicate tactic id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestNew_RejectsUnknownCostResource(t *testing.T) {
	settings, tactics, resources, layers := validInputs()
	tactics[game.RoleMonitor][0].Cost = map[string]int{"mana": 5}
	if _, err := New(settings, tactics, resources, layers); err == nil || !strings.Contains(err.Error(), "unknown resource") {
		t.Fatalf("expected unknown resource error, got %v", err)
	}
}

func TestNew_RejectsBadEffect(t *testing.T) {
	settings, tactics, resources, layers := validInputs()
	tactics[game.RoleAttacker][0].Effect.Kind = "teleport"
	if _, err := New(settings, tactics, resources, layers); err == nil {
		t.Fatalf("expected unknown effect kind error")
	}

	settings, tactics, resources, layers = validInputs()
	tactics[game.RoleAttacker][0].Effect.HitChance = 1.5
	if _, err := New(settings, tactics, resources, layers); err == nil {
		t.Fatalf("expected hit_chance range error")
	}

	settings, tactics, resources, layers = validInputs()
	tactics[game.RoleAttacker][0].Effect.Impact = map[string]int{"karma": -5}
	if _, err := New(settings, tactics, resources, layers); err == nil {
		t.Fatalf("expected unknown impact dimension error")
	}
}

func TestNew_RejectsBadSettings(t *testing.T) {
	settings, tactics, resources, layers := validInputs()
	settings.MaxRounds = 0
	if _, err := New(settings, tactics, resources, layers); err == nil {
		t.Fatalf("expected max_rounds error")
	}

	settings, tactics, resources, layers = validInputs()
	settings.ResourceRecoveryRate = 1.2
	if _, err := New(settings, tactics, resources, layers); err == nil {
		t.Fatalf("expected recovery rate range error")
	}
}

func TestNewState_InitialValues(t *testing.T) {
	settings, tactics, resources, layers := validInputs()
	cat, err := New(settings, tactics, resources, layers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := cat.NewState()
	if st.CurrentRound != 1 || st.MaxRound != 15 {
		t.Fatalf("unexpected round bounds: %d/%d", st.CurrentRound, st.MaxRound)
	}
	if st.Scores.Trust != 100 || st.Scores.Risk != 100 || st.Scores.Incident != 100 || st.Scores.Loss != 100 {
		t.Fatalf("scores must start at 100: %+v", st.Scores)
	}
	if len(st.Layers) != len(game.LayerKeys) {
		t.Fatalf("expected %d layers, got %d", len(game.LayerKeys), len(st.Layers))
	}
	for _, role := range game.Roles {
		if st.Statistics[role] == nil {
			t.Fatalf("statistics missing for %s", role)
		}
		if len(st.Resources[role]) == 0 {
			t.Fatalf("resources missing for %s", role)
		}
	}

	// States must not share pools with the catalog or each other.
	st.Resources[game.RoleAttacker][0].Value = 1
	st2 := cat.NewState()
	if st2.Resources[game.RoleAttacker][0].Value != 100 {
		t.Fatalf("catalog initial resources were mutated")
	}
	st.Layers[game.LayerNetwork].Health = 5
	if st2.Layers[game.LayerNetwork].Health != 100 {
		t.Fatalf("catalog initial layers were mutated")
	}
}
