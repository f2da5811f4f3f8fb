package engine

import (
	"strconv"
	"time"

	"github.com/cyberchess/cyberchess/internal/game"
)

// Round/session state machine. The engine owns the transition logic only;
// wall-clock timers live in the service layer, which calls IsRoundComplete
// and AdvanceRound at the right moments.

// ActiveRoles returns the joined roles still taking turns.
func ActiveRoles(s *game.Session) []game.Role {
	out := make([]game.Role, 0, len(s.Players))
	for i := range s.Players {
		if !s.State.Eliminated[s.Players[i].Role] {
			out = append(out, s.Players[i].Role)
		}
	}
	return out
}

// IsRoundComplete reports whether every connected active player has
// committed an action this round. Disconnected players do not hold the
// round open; the service auto-passes them at close.
func IsRoundComplete(s *game.Session) bool {
	complete := false
	for i := range s.Players {
		p := &s.Players[i]
		if s.State.Eliminated[p.Role] {
			continue
		}
		if p.ConnectionStatus == game.ConnDisconnected {
			continue
		}
		if !s.State.ActedThisRound[p.Role] {
			return false
		}
		complete = true
	}
	return complete
}

// UnactedRoles lists active roles without a committed action this round;
// the service records a pass move for each before advancing.
func UnactedRoles(s *game.Session) []game.Role {
	out := []game.Role{}
	for i := range s.Players {
		p := &s.Players[i]
		if s.State.Eliminated[p.Role] || s.State.ActedThisRound[p.Role] {
			continue
		}
		out = append(out, p.Role)
	}
	return out
}

// tickChainEffects applies cascade damage, decrements durations and drops
// expired entries. Runs once per round boundary, before regeneration.
func (r *Resolver) tickChainEffects(s *game.Session, at time.Time) {
	st := &s.State
	kept := st.ChainEffects[:0]
	for _, ce := range st.ChainEffects {
		if ce.Type == game.ChainCascade && ce.Kind == game.ChainKindDotDamage && ce.Target != "" {
			if layer := st.Layer(ce.Target); layer != nil && !IsBreached(layer) {
				out := ApplyDamage(layer, int(ce.Magnitude), 1.0, 0, extraDefense(st, ce.Target), damageReduction(st, ce.Target))
				st.Stats(ce.Source).DamageDealt += out.Effective
				st.Log("chain", ce.Target+" takes "+strconv.Itoa(out.Effective)+" cascading damage", at)
				if out.NewBreach {
					awardScore(s, ce.Source, r.cat.Settings.Scoring.LayerBreach)
					recordBreach(s, ce.Source, ce.Target, at)
				}
			}
		}
		ce.RemainingRounds--
		if ce.RemainingRounds > 0 {
			kept = append(kept, ce)
		}
	}
	st.ChainEffects = kept
}

// AdvanceRound closes the current round: chain effects tick, every joined
// role regenerates, termination conditions are evaluated and either the
// session ends (returning the single GameResult) or the round counter
// advances by exactly one, never beyond maxRound.
func (r *Resolver) AdvanceRound(s *game.Session, at time.Time) *game.GameResult {
	st := &s.State

	r.tickChainEffects(s, at)

	for i := range s.Players {
		role := s.Players[i].Role
		if !st.Eliminated[role] {
			Regenerate(st.Resources[role], r.cat.Settings.ResourceRecoveryRate)
		}
	}

	// (b) full breach beats everything, including the cap check below: an
	// attacker who takes the whole board on the final round wins outright
	// rather than going to a score comparison.
	if AllBreached(st.Layers) {
		return r.Finalize(s, game.RoleAttacker, at)
	}

	// (c) resource exhaustion eliminates a role; the game continues among
	// the remaining roles or ends immediately when only one is left.
	for i := range s.Players {
		role := s.Players[i].Role
		if st.Eliminated[role] {
			continue
		}
		if TotalValue(st.Resources[role]) == 0 && !canAffordAny(r, st, role) {
			st.Eliminated[role] = true
			st.Log("elimination", string(role)+" has exhausted all resources", at)
		}
	}
	if active := ActiveRoles(s); len(active) == 1 {
		return r.Finalize(s, active[0], at)
	} else if len(active) == 0 {
		return r.Finalize(s, "", at)
	}

	// (a) round cap: highest cumulative score wins, ties draw.
	if st.CurrentRound >= st.MaxRound {
		return r.Finalize(s, topScoringRole(s), at)
	}

	st.CurrentRound++
	st.ActedThisRound = map[game.Role]bool{}
	st.Log("round", "round "+strconv.Itoa(st.CurrentRound)+" begins", at)
	return nil
}

func canAffordAny(r *Resolver, st *game.State, role game.Role) bool {
	for _, t := range r.cat.Tactics(role) {
		if CanAfford(st.Resources[role], t.Cost) {
			return true
		}
	}
	return false
}

// topScoringRole returns the joined role with the strictly highest score,
// or "" on a tie.
func topScoringRole(s *game.Session) game.Role {
	best := game.Role("")
	bestScore := 0
	tied := false
	for i := range s.Players {
		p := &s.Players[i]
		switch {
		case best == "" || p.Score > bestScore:
			best = p.Role
			bestScore = p.Score
			tied = false
		case p.Score == bestScore:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return best
}

// Finalize transitions the session to ended and produces its one terminal
// GameResult. An empty winner means a draw. End-of-game bonuses (game win,
// perfect defense, resource efficiency) are added after the winner is
// decided so they never flip the outcome.
func (r *Resolver) Finalize(s *game.Session, winner game.Role, at time.Time) *game.GameResult {
	st := &s.State

	if winner != "" {
		awardScore(s, winner, r.cat.Settings.Scoring.GameWin)
	}
	if noBreachRecorded(st) {
		awardScore(s, game.RoleDefender, r.cat.Settings.Scoring.PerfectDefense)
	}
	for i := range s.Players {
		if resourceEfficient(st.Resources[s.Players[i].Role]) {
			awardScore(s, s.Players[i].Role, r.cat.Settings.Scoring.ResourceEfficient)
		}
	}

	result := &game.GameResult{
		FinalScore: map[string]int{},
		Rounds:     st.CurrentRound,
	}
	for i := range s.Players {
		result.FinalScore[string(s.Players[i].Role)] = s.Players[i].Score
	}
	if s.StartedAt != nil {
		result.Duration = int(at.Sub(*s.StartedAt).Seconds())
	}

	if winner == "" {
		result.Draw = true
		s.Winner = ""
		s.Message = "The game ended in a draw."
	} else {
		result.Winner = string(winner)
		result.Loser = string(lowestScoringOpponent(s, winner))
		s.Winner = string(winner)
		s.Message = "Victory for " + string(winner) + "."
	}

	st.Result = result
	s.Status = game.StatusEnded
	ended := at
	s.EndedAt = &ended
	st.Log("end", s.Message, at)
	return result
}

func noBreachRecorded(st *game.State) bool {
	for _, stats := range st.Statistics {
		if stats.DefensesBreached > 0 {
			return false
		}
	}
	return true
}

// resourceEfficient reports whether every pool kept at least half its max.
func resourceEfficient(pools []game.Resource) bool {
	if len(pools) == 0 {
		return false
	}
	for i := range pools {
		if pools[i].Value*2 < pools[i].Max {
			return false
		}
	}
	return true
}

func lowestScoringOpponent(s *game.Session, winner game.Role) game.Role {
	loser := game.Role("")
	low := 0
	for i := range s.Players {
		p := &s.Players[i]
		if p.Role == winner {
			continue
		}
		if loser == "" || p.Score < low {
			loser = p.Role
			low = p.Score
		}
	}
	return loser
}
