package service

import (
	"time"

	"github.com/cyberchess/cyberchess/internal/engine"
	"github.com/cyberchess/cyberchess/internal/events"
	"github.com/cyberchess/cyberchess/internal/game"
	"github.com/cyberchess/cyberchess/internal/logging"
)

// resolverFor rebuilds the session's deterministic resolver: same seed,
// random stream fast-forwarded past the draws already consumed.
func (s *Service) resolverFor(sess *game.Session) *engine.Resolver {
	r := engine.NewResolver(s.cat, sess.Seed)
	r.FastForward(sess.State.RngDraws)
	return r
}

// SubmitAction resolves one player order against the live session. On
// success the move is appended to the replay log; when the action closes the
// round, pending turns are auto-passed and the round advances (possibly
// ending the game) before the call returns.
func (s *Service) SubmitAction(code string, act game.Action) (*game.ActionResult, *game.Session, error) {
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return nil, nil, err
	}
	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return nil, nil, err
	}

	p := sess.PlayerByUserID(act.PlayerID)
	if p == nil {
		return nil, nil, ErrPlayerNotFound
	}
	// The seat decides the role; clients cannot act for another side.
	act.Role = p.Role
	if act.Timestamp.IsZero() {
		act.Timestamp = time.Now()
	}

	r := s.resolverFor(sess)
	move, result, err := r.Resolve(sess, act)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.AppendMove(move); err != nil {
		return nil, nil, err
	}

	s.pub.Publish(sess.JoinCode, events.Event{
		Event: events.ActionResolved,
		Data: map[string]interface{}{
			"player": act.PlayerID, "role": act.Role, "tactic": act.TacticID,
			"result": result,
		},
		Timestamp: act.Timestamp,
	})

	if err := s.advanceIfComplete(sess, r, act.Timestamp); err != nil {
		return nil, nil, err
	}
	if err := s.repo.UpdateSession(sess); err != nil {
		return nil, nil, err
	}
	return result, sess, nil
}

// closeRoundIfComplete is the connection-change variant of the round close:
// a disconnect may leave every remaining connected player already acted.
func (s *Service) closeRoundIfComplete(sess *game.Session, now time.Time) error {
	return s.advanceIfComplete(sess, s.resolverFor(sess), now)
}

// advanceIfComplete auto-passes any role without a committed action (only
// disconnected or otherwise skipped players at this point), advances the
// round and, on game end, writes the durable records.
func (s *Service) advanceIfComplete(sess *game.Session, r *engine.Resolver, at time.Time) error {
	if !engine.IsRoundComplete(sess) {
		return nil
	}
	if err := s.passUnacted(sess, r, at); err != nil {
		return err
	}
	return s.advanceRound(sess, r, at)
}

// passUnacted records an explicit pass move for every active role without an
// action this round, so the persisted log replays to the same round
// boundaries as the live game.
func (s *Service) passUnacted(sess *game.Session, r *engine.Resolver, at time.Time) error {
	for _, role := range engine.UnactedRoles(sess) {
		playerID := string(role)
		if p := sess.PlayerByRole(role); p != nil {
			playerID = p.UserID
		}
		move := r.Pass(sess, role, playerID, at)
		if err := s.repo.AppendMove(move); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) advanceRound(sess *game.Session, r *engine.Resolver, at time.Time) error {
	result := r.AdvanceRound(sess, at)
	if result == nil {
		sess.ActionDeadline = at.Add(s.actionTimeout)
		s.pub.Publish(sess.JoinCode, events.Event{
			Event: events.RoundAdvanced,
			Data: map[string]interface{}{
				"round": sess.State.CurrentRound, "deadline": sess.ActionDeadline,
			},
			Timestamp: at,
		})
		return nil
	}

	sess.ActionDeadline = time.Time{}
	if err := s.finishGame(sess, result); err != nil {
		return err
	}
	s.pub.Publish(sess.JoinCode, events.Event{
		Event:     events.GameEnded,
		Data:      result,
		Timestamp: at,
	})
	s.arena.Release(sess.ID)
	logging.Info("game ended", logging.Fields{
		"join_code": sess.JoinCode, "winner": sess.Winner, "rounds": result.Rounds,
	})
	return nil
}

// maybeEndByForfeit ends the game when eliminations from a forfeit leave at
// most one active role, outside of a round boundary.
func (s *Service) maybeEndByForfeit(sess *game.Session, now time.Time) error {
	active := engine.ActiveRoles(sess)
	if len(active) > 1 {
		return nil
	}
	r := s.resolverFor(sess)
	winner := game.Role("")
	if len(active) == 1 {
		winner = active[0]
	}
	result := r.Finalize(sess, winner, now)
	sess.ActionDeadline = time.Time{}
	if err := s.finishGame(sess, result); err != nil {
		return err
	}
	s.pub.Publish(sess.JoinCode, events.Event{
		Event:     events.GameEnded,
		Data:      result,
		Timestamp: now,
	})
	s.arena.Release(sess.ID)
	return nil
}
