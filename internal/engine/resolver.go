package engine

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/cyberchess/cyberchess/internal/catalog"
	"github.com/cyberchess/cyberchess/internal/game"
)

// Resolver validates and resolves submitted actions against a session.
// Randomized components (hit chance) come from a seeded source and every
// draw is counted in the state, so a resolver rebuilt with the same seed
// and fast-forwarded reproduces live outcomes exactly.
//
// Callers must serialize Resolve calls per session; see service.Arena.
type Resolver struct {
	cat *catalog.Catalog
	rng *rand.Rand
}

func NewResolver(cat *catalog.Catalog, seed int64) *Resolver {
	return &Resolver{cat: cat, rng: rand.New(rand.NewSource(seed))}
}

// FastForward discards draws consumed by a previous resolver instance so a
// reloaded session continues the same random sequence.
func (r *Resolver) FastForward(draws int) {
	for i := 0; i < draws; i++ {
		r.rng.Float64()
	}
}

// Catalog exposes the resolver's static game definition.
func (r *Resolver) Catalog() *catalog.Catalog { return r.cat }

func (r *Resolver) draw(st *game.State) float64 {
	st.RngDraws++
	return r.rng.Float64()
}

// Resolve validates the action (fail fast, first failing check wins) and,
// on success, commits exactly: one ledger spend, zero-or-one board
// mutation, zero-or-one intelligence/chain-effect append and exactly one
// move. Validation failures leave the session untouched.
func (r *Resolver) Resolve(s *game.Session, act game.Action) (*game.Move, *game.ActionResult, error) {
	st := &s.State

	if s.Status != game.StatusPlaying {
		return nil, nil, ErrInvalidSessionState
	}
	if st.ActedThisRound[act.Role] || st.Eliminated[act.Role] {
		return nil, nil, ErrNotPlayersTurn
	}
	tactic, ok := r.cat.Tactic(act.Role, act.TacticID)
	if !ok {
		return nil, nil, ErrUnknownTactic
	}
	if until, on := st.Cooldowns[act.Role][tactic.ID]; on && st.CurrentRound < until {
		return nil, nil, ErrTacticOnCooldown
	}
	if !CanAfford(st.Resources[act.Role], tactic.Cost) {
		return nil, nil, ErrInsufficientResources
	}
	// A supplied target must be a real layer even for tactics that would
	// pick their own; otherwise the cost is spent on a guaranteed miss.
	if (tactic.Effect.RequiresTarget || act.TargetLayer != "") && !game.ValidLayerKey(act.TargetLayer) {
		return nil, nil, ErrInvalidTarget
	}

	// Validation passed; from here on the action commits.
	if err := Spend(st.Resources[act.Role], tactic.Cost); err != nil {
		// unreachable after CanAfford, kept as a guard
		return nil, nil, err
	}
	stats := st.Stats(act.Role)
	for name, amount := range tactic.Cost {
		stats.ResourcesUsed[name] += amount
	}
	stats.TacticsUsed[tactic.ID]++
	if st.Cooldowns[act.Role] == nil {
		st.Cooldowns[act.Role] = map[string]int{}
	}
	st.Cooldowns[act.Role][tactic.ID] = st.CurrentRound + tactic.Cooldown
	st.ActedThisRound[act.Role] = true

	result := r.applyEffect(s, act, tactic)
	if result.Success {
		stats.SuccessfulActions++
		st.Scores.Apply(tactic.Effect.Impact)
	} else {
		stats.FailedActions++
	}

	move := &game.Move{
		SessionID:   s.ID,
		Seq:         st.MoveCount,
		Round:       st.CurrentRound,
		PlayerID:    act.PlayerID,
		Role:        act.Role,
		ActionID:    tactic.ID,
		ActionName:  tactic.Name,
		Target:      act.TargetLayer,
		Success:     result.Success,
		Description: result.Message,
		Damage:      result.Damage,
		Impact:      result.Impact,
		Timestamp:   act.Timestamp,
	}
	st.MoveCount++
	st.Log("action", act.PlayerID+" used "+tactic.Name+": "+result.Message, act.Timestamp)
	return move, result, nil
}

// Pass commits the implicit no-op move recorded when a player's unsubmitted
// turn is closed (disconnect or round timeout). No cost, no effect.
func (r *Resolver) Pass(s *game.Session, role game.Role, playerID string, at time.Time) *game.Move {
	st := &s.State
	st.ActedThisRound[role] = true
	move := &game.Move{
		SessionID:   s.ID,
		Seq:         st.MoveCount,
		Round:       st.CurrentRound,
		PlayerID:    playerID,
		Role:        role,
		ActionID:    game.ActionPass,
		ActionName:  "Pass",
		Success:     true,
		Description: "turn passed",
		Timestamp:   at,
	}
	st.MoveCount++
	st.Log("pass", playerID+" passed", at)
	return move
}

// Forfeit eliminates a role that left mid-game and commits the move
// recording it. The elimination must live in the log: a replayed game would
// otherwise wait forever for the departed role's turn.
func (r *Resolver) Forfeit(s *game.Session, role game.Role, playerID string, at time.Time) *game.Move {
	st := &s.State
	st.Eliminated[role] = true
	move := &game.Move{
		SessionID:   s.ID,
		Seq:         st.MoveCount,
		Round:       st.CurrentRound,
		PlayerID:    playerID,
		Role:        role,
		ActionID:    game.ActionForfeit,
		ActionName:  "Forfeit",
		Success:     true,
		Description: "left the game",
		Timestamp:   at,
	}
	st.MoveCount++
	st.Log("forfeit", string(role)+" left the game", at)
	return move
}

func (r *Resolver) applyEffect(s *game.Session, act game.Action, tactic catalog.Tactic) *game.ActionResult {
	st := &s.State
	eff := tactic.Effect

	// Hit roll first so every resolution consumes a deterministic number of
	// draws for its tactic.
	if eff.HitChance > 0 && eff.HitChance < 1 {
		if r.draw(st) >= eff.HitChance {
			return &game.ActionResult{Success: false, Message: tactic.Name + " failed to take effect"}
		}
	}

	switch eff.Kind {
	case catalog.EffectDamage:
		return r.applyDamageEffect(s, act, tactic)
	case catalog.EffectRepair:
		return r.applyRepairEffect(s, act, tactic)
	case catalog.EffectFortify:
		return r.applyFortifyEffect(s, act, tactic)
	case catalog.EffectIntel:
		return r.applyIntelEffect(s, act, tactic)
	case catalog.EffectDrain:
		return r.applyDrainEffect(s, tactic)
	case catalog.EffectGrant:
		return r.applyGrantEffect(s, tactic)
	case catalog.EffectShield:
		return r.applyShieldEffect(s, act, tactic)
	case catalog.EffectPurge:
		removed := purgeHostileEffects(st, act.Role)
		return &game.ActionResult{Success: true, Message: tactic.Name + " neutralized " + strconv.Itoa(removed) + " hostile effect(s)", Impact: eff.Impact}
	}
	return &game.ActionResult{Success: false, Message: "no effect"}
}

func (r *Resolver) applyDamageEffect(s *game.Session, act game.Action, tactic catalog.Tactic) *game.ActionResult {
	st := &s.State
	eff := tactic.Effect
	layer := st.Layer(act.TargetLayer)
	if layer == nil {
		return &game.ActionResult{Success: false, Message: "target layer not found"}
	}

	mult := r.cat.Settings.DamageMultipliers.Normal
	critical := false
	for _, key := range eff.CriticalAgainst {
		if key == act.TargetLayer {
			mult = r.cat.Settings.DamageMultipliers.Critical
			critical = true
		}
	}
	for _, key := range eff.ReducedAgainst {
		if key == act.TargetLayer {
			mult = r.cat.Settings.DamageMultipliers.Reduced
		}
	}

	out := ApplyDamage(layer, eff.BaseDamage, mult, eff.DefensePierce, extraDefense(st, act.TargetLayer), damageReduction(st, act.TargetLayer))

	stats := st.Stats(act.Role)
	stats.DamageDealt += out.Effective
	st.Stats(game.RoleDefender).DamageReceived += out.Effective
	if critical && out.Effective > 0 {
		stats.CriticalHits++
	}
	awardScore(s, act.Role, out.Effective*r.cat.Settings.Scoring.DamageDealt)
	awardScore(s, game.RoleDefender, out.Blocked*r.cat.Settings.Scoring.DamageBlocked)
	if out.NewBreach {
		awardScore(s, act.Role, r.cat.Settings.Scoring.LayerBreach)
		recordBreach(s, act.Role, act.TargetLayer, act.Timestamp)
	}

	// Scheduled follow-up damage (supply-chain style cascades).
	if eff.Duration > 0 && eff.CascadeDamage > 0 {
		st.ChainEffects = append(st.ChainEffects, game.ChainEffect{
			Type: game.ChainCascade, Kind: game.ChainKindDotDamage,
			Target: act.TargetLayer, Magnitude: float64(eff.CascadeDamage),
			RemainingRounds: eff.Duration, Source: act.Role,
		})
	}

	msg := strconv.Itoa(out.Effective) + " damage to " + act.TargetLayer +
		" (base " + strconv.Itoa(out.Raw) + ", blocked " + strconv.Itoa(out.Blocked) + ")"
	effects := []string{}
	if critical {
		effects = append(effects, "critical")
	}
	if out.NewBreach {
		effects = append(effects, "breach")
	}
	return &game.ActionResult{Success: true, Message: msg, Damage: out.Effective, Effects: effects, Impact: tactic.Effect.Impact}
}

func (r *Resolver) applyRepairEffect(s *game.Session, act game.Action, tactic catalog.Tactic) *game.ActionResult {
	st := &s.State
	target := act.TargetLayer
	if target == "" {
		target = WeakestLayer(st.Layers)
	}
	layer := st.Layer(target)
	if layer == nil {
		return &game.ActionResult{Success: false, Message: "target layer not found"}
	}
	restored := ApplyRepair(layer, tactic.Effect.RepairAmount)
	return &game.ActionResult{Success: true, Message: "restored " + strconv.Itoa(restored) + " health on " + target, Impact: tactic.Effect.Impact}
}

func (r *Resolver) applyFortifyEffect(s *game.Session, act game.Action, tactic catalog.Tactic) *game.ActionResult {
	st := &s.State
	bonus := tactic.Effect.DefenseBonus
	if tactic.Effect.AllLayers {
		for _, key := range game.LayerKeys {
			if layer := st.Layer(key); layer != nil {
				layer.Defense += bonus
			}
		}
		return &game.ActionResult{Success: true, Message: "defense of all layers raised by " + strconv.Itoa(bonus), Impact: tactic.Effect.Impact}
	}
	layer := st.Layer(act.TargetLayer)
	if layer == nil {
		return &game.ActionResult{Success: false, Message: "target layer not found"}
	}
	layer.Defense += bonus
	return &game.ActionResult{Success: true, Message: act.TargetLayer + " defense raised by " + strconv.Itoa(bonus), Impact: tactic.Effect.Impact}
}

func (r *Resolver) applyIntelEffect(s *game.Session, act game.Action, tactic catalog.Tactic) *game.ActionResult {
	st := &s.State
	weakest := WeakestLayer(st.Layers)
	content := "weakest layer: " + weakest
	if layer := st.Layer(weakest); layer != nil {
		content += " (" + strconv.Itoa(layer.Health) + "/" + strconv.Itoa(layer.MaxHealth) + ")"
	}
	st.Intelligence = append(st.Intelligence, game.Intelligence{
		Type:    tactic.ID,
		Content: content,
		Source:  string(act.Role),
		Round:   st.CurrentRound,
	})
	return &game.ActionResult{Success: true, Message: "intelligence gathered: " + content, Effects: []string{"intel"}, Impact: tactic.Effect.Impact}
}

func (r *Resolver) applyDrainEffect(s *game.Session, tactic catalog.Tactic) *game.ActionResult {
	st := &s.State
	eff := tactic.Effect
	pools := st.Resources[eff.DrainRole]
	drained := 0
	for i := range pools {
		if pools[i].Name == eff.DrainResource {
			drained = eff.DrainAmount
			if pools[i].Value < drained {
				drained = pools[i].Value
			}
			pools[i].Value -= drained
			break
		}
	}
	msg := "drained " + strconv.Itoa(drained) + " " + eff.DrainResource + " from " + string(eff.DrainRole)
	return &game.ActionResult{Success: true, Message: msg, Impact: eff.Impact}
}

func (r *Resolver) applyGrantEffect(s *game.Session, tactic catalog.Tactic) *game.ActionResult {
	st := &s.State
	eff := tactic.Effect
	pools := st.Resources[eff.GrantRole]
	granted := 0
	for i := range pools {
		if pools[i].Name == eff.GrantResource {
			granted = eff.GrantAmount
			if pools[i].Value+granted > pools[i].Max {
				granted = pools[i].Max - pools[i].Value
			}
			pools[i].Value += granted
			break
		}
	}
	msg := "granted " + strconv.Itoa(granted) + " " + eff.GrantResource + " to " + string(eff.GrantRole)
	return &game.ActionResult{Success: true, Message: msg, Impact: eff.Impact}
}

func (r *Resolver) applyShieldEffect(s *game.Session, act game.Action, tactic catalog.Tactic) *game.ActionResult {
	st := &s.State
	eff := tactic.Effect
	ce := game.ChainEffect{Type: game.ChainPersistent, Target: act.TargetLayer, RemainingRounds: eff.Duration, Source: act.Role}
	if eff.DefenseBonus > 0 {
		ce.Kind = game.ChainKindDefenseBonus
		ce.Magnitude = float64(eff.DefenseBonus)
	} else {
		ce.Kind = game.ChainKindDamageReduction
		ce.Magnitude = eff.DamageReduction
	}
	st.ChainEffects = append(st.ChainEffects, ce)
	msg := tactic.Name + " active for " + strconv.Itoa(eff.Duration) + " round(s)"
	return &game.ActionResult{Success: true, Message: msg, Effects: []string{"shield"}, Impact: eff.Impact}
}
