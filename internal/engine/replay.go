package engine

import (
	"fmt"
	"sort"

	"github.com/cyberchess/cyberchess/internal/catalog"
	"github.com/cyberchess/cyberchess/internal/game"
)

// Replay reconstructs the game state at the end of the given round by
// re-resolving the move log against the catalog's initial state. With the
// same catalog, seed and move sequence the result is bit-for-bit
// reproducible, which is what lets the analysis UI and regression tests
// trust stored records.
//
// The returned session is a synthetic copy: player scores and state are
// rebuilt from scratch, the stored rows are never touched.
func Replay(cat *catalog.Catalog, seed int64, players []game.Player, moves []game.Move, round int) (*game.Session, error) {
	s := &game.Session{
		Status:  game.StatusPlaying,
		Players: make([]game.Player, len(players)),
		State:   cat.NewState(),
		Seed:    seed,
	}
	for i, p := range players {
		s.Players[i] = game.Player{
			UserID:           p.UserID,
			Username:         p.Username,
			Role:             p.Role,
			ConnectionStatus: game.ConnConnected,
		}
	}

	ordered := make([]game.Move, len(moves))
	copy(ordered, moves)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	r := NewResolver(cat, seed)
	for i := range ordered {
		m := &ordered[i]
		if m.Round > round {
			break
		}
		if s.Status != game.StatusPlaying {
			return nil, fmt.Errorf("replay: move %d recorded after game end", m.Seq)
		}
		switch m.ActionID {
		case game.ActionPass:
			r.Pass(s, m.Role, m.PlayerID, m.Timestamp)
		case game.ActionForfeit:
			r.Forfeit(s, m.Role, m.PlayerID, m.Timestamp)
		default:
			act := game.Action{
				PlayerID:    m.PlayerID,
				Role:        m.Role,
				TacticID:    m.ActionID,
				TargetLayer: m.Target,
				Timestamp:   m.Timestamp,
			}
			if _, _, err := r.Resolve(s, act); err != nil {
				return nil, fmt.Errorf("replay: move %d (%s) does not re-resolve: %w", m.Seq, m.ActionID, err)
			}
		}
		if IsRoundComplete(s) {
			r.AdvanceRound(s, m.Timestamp)
		}
		// A forfeit can end the game outside a round boundary when at most
		// one active role remains, exactly as the live session does.
		if m.ActionID == game.ActionForfeit && s.Status == game.StatusPlaying {
			if active := ActiveRoles(s); len(active) <= 1 {
				winner := game.Role("")
				if len(active) == 1 {
					winner = active[0]
				}
				r.Finalize(s, winner, m.Timestamp)
			}
		}
	}
	return s, nil
}
