package engine

import (
	"time"

	"github.com/cyberchess/cyberchess/internal/game"
)

// breachImpact is the one-time RITE penalty applied when a layer falls.
// Breaches are edge-triggered; a layer sitting at zero does not re-fire.
var breachImpact = map[string]int{game.DimIncident: -20, game.DimLoss: -15}

// awardScore adds points to the player bound to the role, if joined.
func awardScore(s *game.Session, role game.Role, points int) {
	if points == 0 {
		return
	}
	if p := s.PlayerByRole(role); p != nil {
		p.Score += points
	}
}

// recordBreach applies the one-time breach scoring event: bonus to the
// breaching role, penalty to the incident/loss dimensions.
func recordBreach(s *game.Session, source game.Role, layerKey string, at time.Time) {
	st := &s.State
	st.Scores.Apply(breachImpact)
	st.Stats(source).DefensesBreached++
	st.Log("breach", layerKey+" layer breached", at)
}
