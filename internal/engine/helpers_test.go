package engine

import (
	"testing"
	"time"

	"github.com/cyberchess/cyberchess/internal/catalog"
	"github.com/cyberchess/cyberchess/internal/game"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	settings := catalog.Settings{
		MaxRounds:            15,
		MinPlayers:           1,
		MaxPlayers:           3,
		TurnTimeoutSeconds:   120,
		ReconnectSeconds:     30,
		ResourceRecoveryRate: 0.1,
		DamageMultipliers:    catalog.Multipliers{Critical: 1.5, Normal: 1.0, Reduced: 0.5},
		Scoring: catalog.Scoring{
			DamageDealt: 1, DamageBlocked: 2, LayerBreach: 50,
			ResourceEfficient: 10, PerfectDefense: 100, GameWin: 200,
		},
	}
	resources := map[game.Role][]game.Resource{
		game.RoleAttacker: {
			{Name: "compute", Value: 100, Max: 100},
			{Name: "zeroday", Value: 5, Max: 10},
			{Name: "time", Value: 50, Max: 50},
		},
		game.RoleDefender: {
			{Name: "budget", Value: 1000, Max: 1000},
			{Name: "manpower", Value: 20, Max: 20},
			{Name: "repair", Value: 30, Max: 30},
		},
		game.RoleMonitor: {
			{Name: "investigation", Value: 50, Max: 50},
			{Name: "authority", Value: 30, Max: 30},
			{Name: "intel", Value: 40, Max: 40},
		},
	}
	layers := map[string]game.Layer{
		game.LayerNetwork:     {Health: 100, MaxHealth: 100, Defense: 20},
		game.LayerApplication: {Health: 100, MaxHealth: 100, Defense: 15},
		game.LayerData:        {Health: 100, MaxHealth: 100, Defense: 25},
		game.LayerPhysical:    {Health: 100, MaxHealth: 100, Defense: 30},
		game.LayerPersonnel:   {Health: 100, MaxHealth: 100, Defense: 10},
	}
	tactics := map[game.Role][]catalog.Tactic{
		game.RoleAttacker: {
			{ID: "ddos", Name: "DDoS Flood", Cost: map[string]int{"compute": 50, "time": 10}, Cooldown: 2,
				Effect: catalog.Effect{Kind: catalog.EffectDamage, BaseDamage: 40, CriticalAgainst: []string{game.LayerNetwork}, ReducedAgainst: []string{game.LayerPhysical}, RequiresTarget: true, Impact: map[string]int{game.DimIncident: -10}}},
			{ID: "zero_day", Name: "Zero-Day Exploit", Cost: map[string]int{"zeroday": 1, "compute": 30}, Cooldown: 3,
				Effect: catalog.Effect{Kind: catalog.EffectDamage, BaseDamage: 50, DefensePierce: 0.5, HitChance: 0.9, RequiresTarget: true, Impact: map[string]int{game.DimTrust: -10}}},
			{ID: "wiper", Name: "Wiper", Cost: map[string]int{"compute": 1}, Cooldown: 0,
				Effect: catalog.Effect{Kind: catalog.EffectDamage, BaseDamage: 200, DefensePierce: 1.0, RequiresTarget: true}},
		},
		game.RoleDefender: {
			{ID: "zero_trust", Name: "Zero Trust Rollout", Cost: map[string]int{"budget": 300, "manpower": 10}, Cooldown: 3,
				Effect: catalog.Effect{Kind: catalog.EffectFortify, DefenseBonus: 3, AllLayers: true, Impact: map[string]int{game.DimRisk: 10}}},
			{ID: "incident_response", Name: "Incident Response", Cost: map[string]int{"repair": 10}, Cooldown: 1,
				Effect: catalog.Effect{Kind: catalog.EffectRepair, RepairAmount: 25, Impact: map[string]int{game.DimIncident: 10}}},
			{ID: "honeypot", Name: "Honeypot", Cost: map[string]int{"budget": 150}, Cooldown: 2,
				Effect: catalog.Effect{Kind: catalog.EffectShield, DefenseBonus: 10, Duration: 3, RequiresTarget: true}},
		},
		game.RoleMonitor: {
			{ID: "trace_source", Name: "Trace Source", Cost: map[string]int{"investigation": 10}, Cooldown: 1,
				Effect: catalog.Effect{Kind: catalog.EffectIntel, Impact: map[string]int{game.DimRisk: 5}}},
			{ID: "legal_sanction", Name: "Legal Sanction", Cost: map[string]int{"authority": 15}, Cooldown: 2,
				Effect: catalog.Effect{Kind: catalog.EffectDrain, DrainRole: game.RoleAttacker, DrainResource: "compute", DrainAmount: 20}},
		},
	}
	cat, err := catalog.New(settings, tactics, resources, layers)
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return cat
}

func testSession(t *testing.T, cat *catalog.Catalog) *game.Session {
	t.Helper()
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &game.Session{
		JoinCode: "TEST01",
		Status:   game.StatusPlaying,
		Players: []game.Player{
			{UserID: "u-att", Username: "Attacker", Role: game.RoleAttacker, ConnectionStatus: game.ConnConnected},
			{UserID: "u-def", Username: "Defender", Role: game.RoleDefender, ConnectionStatus: game.ConnConnected},
			{UserID: "u-mon", Username: "Monitor", Role: game.RoleMonitor, ConnectionStatus: game.ConnConnected},
		},
		State:     cat.NewState(),
		Seed:      42,
		StartedAt: &started,
	}
}

func resourceValue(pools []game.Resource, name string) int {
	for i := range pools {
		if pools[i].Name == name {
			return pools[i].Value
		}
	}
	return -1
}

func at(round int) time.Time {
	return time.Date(2025, 6, 1, 12, round, 0, 0, time.UTC)
}
