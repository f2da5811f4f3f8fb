package game

import "testing"

func TestRITEScores_ApplyClamps(t *testing.T) {
	s := RITEScores{Trust: 100, Risk: 100, Incident: 100, Loss: 100}
	s.Apply(map[string]int{DimTrust: -10, DimRisk: 5, DimIncident: -120})
	if s.Trust != 90 {
		t.Fatalf("expected trust 90, got %d", s.Trust)
	}
	if s.Risk != 100 {
		t.Fatalf("risk must clamp at 100, got %d", s.Risk)
	}
	if s.Incident != 0 {
		t.Fatalf("incident must clamp at 0, got %d", s.Incident)
	}
	if s.Loss != 100 {
		t.Fatalf("untouched dimension changed: %d", s.Loss)
	}
}

func TestRITEScores_OverallRounds(t *testing.T) {
	s := RITEScores{Trust: 81, Risk: 80, Incident: 80, Loss: 80}
	// mean = 80.25 -> 80
	if got := s.Overall(); got != 80 {
		t.Fatalf("expected overall 80, got %d", got)
	}
	s = RITEScores{Trust: 82, Risk: 81, Incident: 81, Loss: 80}
	// mean = 81 -> 81
	if got := s.Overall(); got != 81 {
		t.Fatalf("expected overall 81, got %d", got)
	}
}

func TestRITEScores_Grade(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "S"}, {85, "S"}, {84, "A"}, {75, "A"},
		{74, "B"}, {65, "B"}, {64, "C"}, {55, "C"},
		{54, "D"}, {45, "D"}, {44, "F"}, {0, "F"},
	}
	for _, c := range cases {
		s := RITEScores{Trust: c.score, Risk: c.score, Incident: c.score, Loss: c.score}
		if got := s.Grade(); got != c.want {
			t.Fatalf("score %d: expected grade %s, got %s", c.score, c.want, got)
		}
	}
}

func TestSession_PlayerLookups(t *testing.T) {
	s := &Session{Players: []Player{
		{UserID: "u1", Role: RoleAttacker},
		{UserID: "u2", Role: RoleDefender},
	}}
	if p := s.PlayerByRole(RoleDefender); p == nil || p.UserID != "u2" {
		t.Fatalf("PlayerByRole failed: %+v", p)
	}
	if p := s.PlayerByRole(RoleMonitor); p != nil {
		t.Fatalf("expected nil for unseated role")
	}
	if p := s.PlayerByUserID("u1"); p == nil || p.Role != RoleAttacker {
		t.Fatalf("PlayerByUserID failed: %+v", p)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Fatalf("role %s should be valid", r)
		}
	}
	if Role("wizard").Valid() {
		t.Fatalf("unknown role must be invalid")
	}
}
