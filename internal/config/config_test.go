package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cyberchess/cyberchess/internal/game"
)

const minimalJSON = `{
  "resources": {
    "attacker": [{"name": "compute", "value": 100, "max": 100}],
    "defender": [{"name": "budget", "value": 1000, "max": 1000}],
    "monitor": [{"name": "intel", "value": 40, "max": 40}]
  },
  "layers": {
    "network": {"health": 100, "max_health": 100, "defense": 20},
    "application": {"health": 100, "max_health": 100, "defense": 15},
    "data": {"health": 100, "max_health": 100, "defense": 25},
    "physical": {"health": 100, "max_health": 100, "defense": 30},
    "personnel": {"health": 100, "max_health": 100, "defense": 10}
  },
  "tactics": {
    "attacker": [{"id": "strike", "cost": {"compute": 10}, "effect": {"kind": "damage", "base_damage": 10, "requires_target": true}}],
    "defender": [{"id": "patch", "cost": {"budget": 50}, "effect": {"kind": "fortify", "defense_bonus": 5, "requires_target": true}}],
    "monitor": [{"id": "trace", "cost": {"intel": 5}, "effect": {"kind": "intel"}}]
  }
}`

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, "config.json", minimalJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := cfg.Catalog.Settings
	if st.MaxRounds != 15 || st.TurnTimeoutSeconds != 120 || st.ReconnectSeconds != 30 {
		t.Fatalf("defaults not applied: %+v", st)
	}
	if st.DamageMultipliers.Critical != 1.5 || st.DamageMultipliers.Reduced != 0.5 {
		t.Fatalf("multiplier defaults not applied: %+v", st.DamageMultipliers)
	}
	if st.Scoring.GameWin != 200 || st.Scoring.LayerBreach != 50 {
		t.Fatalf("scoring defaults not applied: %+v", st.Scoring)
	}
	if cfg.ActionTimeout != 120*time.Second || cfg.ReconnectWindow != 30*time.Second {
		t.Fatalf("timeouts not derived: %v %v", cfg.ActionTimeout, cfg.ReconnectWindow)
	}
	if cfg.ServerAddress != ":8080" {
		t.Fatalf("expected default address, got %s", cfg.ServerAddress)
	}
	if _, ok := cfg.Catalog.Tactic(game.RoleAttacker, "strike"); !ok {
		t.Fatalf("tactic not loaded")
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	yamlConfig := `
server:
  address: ":9090"
game:
  max_rounds: 10
resources:
  attacker:
    - name: compute
      value: 100
      max: 100
  defender:
    - name: budget
      value: 1000
      max: 1000
  monitor:
    - name: intel
      value: 40
      max: 40
layers:
  network: {health: 100, max_health: 100, defense: 20}
  application: {health: 100, max_health: 100, defense: 15}
  data: {health: 100, max_health: 100, defense: 25}
  physical: {health: 100, max_health: 100, defense: 30}
  personnel: {health: 100, max_health: 100, defense: 10}
tactics:
  attacker:
    - id: strike
      cost: {compute: 10}
      effect: {kind: damage, base_damage: 10, requires_target: true}
  defender:
    - id: patch
      cost: {budget: 50}
      effect: {kind: fortify, defense_bonus: 5, requires_target: true}
  monitor:
    - id: trace
      cost: {intel: 5}
      effect: {kind: intel}
`
	cfg, err := LoadConfig(writeTempConfig(t, "config.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.ServerAddress)
	}
	if cfg.Catalog.Settings.MaxRounds != 10 {
		t.Fatalf("expected max_rounds 10, got %d", cfg.Catalog.Settings.MaxRounds)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadConfig(writeTempConfig(t, "bad.json", "{not json")); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if _, err := LoadConfig(writeTempConfig(t, "role.json", `{"resources": {"wizard": []}}`)); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
