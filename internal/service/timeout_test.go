package service

import (
	"testing"
	"time"

	"github.com/cyberchess/cyberchess/internal/game"
)

func TestHandleTimedOutSession_PassesAndAdvances(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, t)
	sess := startedSession(t, svc)

	ts := time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC)
	if _, _, err := svc.SubmitAction(sess.JoinCode, game.Action{PlayerID: "u-att", TacticID: "strike", TargetLayer: game.LayerNetwork, Timestamp: ts}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := sess.ActionDeadline.Add(time.Second)
	if err := svc.HandleTimedOutSession(sess.ID, deadline); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, _ := repo.GetSessionByID(sess.ID)
	if updated.State.CurrentRound != 2 {
		t.Fatalf("expected round 2 after timeout close, got %d", updated.State.CurrentRound)
	}
	var passes int
	for _, mv := range repo.moves {
		if mv.ActionID == game.ActionPass {
			passes++
		}
	}
	if passes != 2 {
		t.Fatalf("expected passes for the two silent roles, got %d", passes)
	}
	if updated.ActionDeadline.IsZero() || !updated.ActionDeadline.After(deadline) {
		t.Fatalf("a new action window must open: %v", updated.ActionDeadline)
	}
}

func TestHandleTimedOutSession_NoOpBeforeDeadline(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, t)
	sess := startedSession(t, svc)

	if err := svc.HandleTimedOutSession(sess.ID, sess.ActionDeadline.Add(-time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, _ := repo.GetSessionByID(sess.ID)
	if updated.State.CurrentRound != 1 || len(repo.moves) != 0 {
		t.Fatalf("scanner must not act before the deadline")
	}
}

func TestScanTimeouts_ClosesExpiredSessions(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, t)
	sess := startedSession(t, svc)

	svc.scanTimeouts(sess.ActionDeadline.Add(time.Minute))

	updated, _ := repo.GetSessionByID(sess.ID)
	if updated.State.CurrentRound != 2 {
		t.Fatalf("expected expired round to close, got round %d", updated.State.CurrentRound)
	}
}
