package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cyberchess/cyberchess/internal/catalog"
	"github.com/cyberchess/cyberchess/internal/game"

	"gopkg.in/yaml.v3"
)

type resourceEntry struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
	Max   int    `json:"max" yaml:"max"`
	Icon  string `json:"icon" yaml:"icon"`
}

type layerEntry struct {
	Health    int `json:"health" yaml:"health"`
	MaxHealth int `json:"max_health" yaml:"max_health"`
	Defense   int `json:"defense" yaml:"defense"`
}

type rawConfig struct {
	Server *struct {
		Address string `json:"address" yaml:"address"`
	} `json:"server" yaml:"server"`
	Game      catalog.Settings                `json:"game" yaml:"game"`
	Resources map[game.Role][]resourceEntry   `json:"resources" yaml:"resources"`
	Layers    map[string]layerEntry           `json:"layers" yaml:"layers"`
	Tactics   map[game.Role][]catalog.Tactic  `json:"tactics" yaml:"tactics"`
}

// LoadedConfig holds the validated game catalog and server settings.
type LoadedConfig struct {
	Catalog       *catalog.Catalog
	ServerAddress string
	// ActionTimeout is the per-round turn window.
	ActionTimeout time.Duration
	// ReconnectWindow bounds how long a disconnected player keeps a seat.
	ReconnectWindow time.Duration
}

// LoadConfig reads the configuration file at path (JSON, or YAML when the
// extension is .yaml/.yml) and builds the game catalog. Any malformed
// content is returned as an error; callers treat it as startup-fatal.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &rc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &rc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applySettingDefaults(&rc.Game)

	resources := make(map[game.Role][]game.Resource, len(rc.Resources))
	for role, entries := range rc.Resources {
		if !role.Valid() {
			return nil, fmt.Errorf("config file %s: unknown role %q in resources", path, role)
		}
		pools := make([]game.Resource, 0, len(entries))
		for _, e := range entries {
			if e.Name == "" {
				return nil, fmt.Errorf("config file %s: resource entry for %s missing 'name'", path, role)
			}
			pools = append(pools, game.Resource{Name: e.Name, Value: e.Value, Max: e.Max, Icon: e.Icon})
		}
		resources[role] = pools
	}

	layers := make(map[string]game.Layer, len(rc.Layers))
	for key, e := range rc.Layers {
		layers[key] = game.Layer{Name: key, Health: e.Health, MaxHealth: e.MaxHealth, Defense: e.Defense}
	}

	for role := range rc.Tactics {
		if !role.Valid() {
			return nil, fmt.Errorf("config file %s: unknown role %q in tactics", path, role)
		}
	}

	cat, err := catalog.New(rc.Game, rc.Tactics, resources, layers)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	return &LoadedConfig{
		Catalog:         cat,
		ServerAddress:   addr,
		ActionTimeout:   time.Duration(rc.Game.TurnTimeoutSeconds) * time.Second,
		ReconnectWindow: time.Duration(rc.Game.ReconnectSeconds) * time.Second,
	}, nil
}

// applySettingDefaults fills zero-valued settings with the standard game
// constants so minimal config files stay valid.
func applySettingDefaults(s *catalog.Settings) {
	if s.MaxRounds == 0 {
		s.MaxRounds = 15
	}
	if s.MinPlayers == 0 {
		s.MinPlayers = 1
	}
	if s.MaxPlayers == 0 {
		s.MaxPlayers = 3
	}
	if s.TurnTimeoutSeconds == 0 {
		s.TurnTimeoutSeconds = 120
	}
	if s.ReconnectSeconds == 0 {
		s.ReconnectSeconds = 30
	}
	if s.ResourceRecoveryRate == 0 {
		s.ResourceRecoveryRate = 0.1
	}
	if s.DamageMultipliers.Critical == 0 {
		s.DamageMultipliers.Critical = 1.5
	}
	if s.DamageMultipliers.Normal == 0 {
		s.DamageMultipliers.Normal = 1.0
	}
	if s.DamageMultipliers.Reduced == 0 {
		s.DamageMultipliers.Reduced = 0.5
	}
	if s.Scoring.DamageDealt == 0 {
		s.Scoring.DamageDealt = 1
	}
	if s.Scoring.DamageBlocked == 0 {
		s.Scoring.DamageBlocked = 2
	}
	if s.Scoring.LayerBreach == 0 {
		s.Scoring.LayerBreach = 50
	}
	if s.Scoring.ResourceEfficient == 0 {
		s.Scoring.ResourceEfficient = 10
	}
	if s.Scoring.PerfectDefense == 0 {
		s.Scoring.PerfectDefense = 100
	}
	if s.Scoring.GameWin == 0 {
		s.Scoring.GameWin = 200
	}
}
