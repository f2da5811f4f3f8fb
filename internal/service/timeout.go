package service

import (
	"context"
	"time"

	"github.com/cyberchess/cyberchess/internal/game"
	"github.com/cyberchess/cyberchess/internal/logging"
)

// RunTimeoutScanner force-closes rounds whose action window expired. It
// blocks until the context is cancelled; run it in its own goroutine.
func (s *Service) RunTimeoutScanner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.scanTimeouts(now)
		}
	}
}

func (s *Service) scanTimeouts(now time.Time) {
	sessions, err := s.repo.FindTimedOutSessions(now)
	if err != nil {
		logging.Error("timeout scan failed", err, nil)
		return
	}
	for i := range sessions {
		if err := s.HandleTimedOutSession(sessions[i].ID, now); err != nil {
			logging.Error("failed to close timed-out round", err, logging.Fields{
				"session_id": sessions[i].ID,
			})
		}
	}
}

// HandleTimedOutSession auto-passes every role still owing an action and
// advances the round, exactly as if all pending players had passed at the
// deadline.
func (s *Service) HandleTimedOutSession(sessionID uint, now time.Time) error {
	unlock := s.arena.Lock(sessionID)
	defer unlock()

	sess, err := s.repo.GetSessionByID(sessionID)
	if err != nil {
		return err
	}
	// Re-check under the lock; a concurrent action may have closed the round.
	if sess.Status != game.StatusPlaying || sess.ActionDeadline.IsZero() || sess.ActionDeadline.After(now) {
		return nil
	}

	r := s.resolverFor(sess)
	if err := s.passUnacted(sess, r, now); err != nil {
		return err
	}
	if err := s.advanceRound(sess, r, now); err != nil {
		return err
	}
	return s.repo.UpdateSession(sess)
}
