package service

import (
	"testing"
	"time"

	"github.com/cyberchess/cyberchess/internal/catalog"
	"github.com/cyberchess/cyberchess/internal/game"

	"gorm.io/gorm"
)

type mockRepo struct {
	nextID      uint
	sessions    map[uint]*game.Session
	byCode      map[string]uint
	moves       []game.Move
	records     []*game.GameRecord
	users       map[string]*game.User
	statsCalled bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		nextID:   1,
		sessions: map[uint]*game.Session{},
		byCode:   map[string]uint{},
		users:    map[string]*game.User{},
	}
}

func (m *mockRepo) CreateSession(s *game.Session) error {
	s.ID = m.nextID
	m.nextID++
	m.sessions[s.ID] = s
	m.byCode[s.JoinCode] = s.ID
	return nil
}

func (m *mockRepo) GetSessionByID(id uint) (*game.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) FindSessionByJoinCode(code string) (*game.Session, error) {
	if id, ok := m.byCode[code]; ok {
		return m.sessions[id], nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) UpdateSession(s *game.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockRepo) GetPublicSessions() ([]game.Session, error) {
	out := []game.Session{}
	for _, s := range m.sessions {
		if !s.Private && s.Status == game.StatusWaiting {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockRepo) RemovePlayer(sessionID uint, userID string) error { return nil }

func (m *mockRepo) AppendMove(mv *game.Move) error {
	m.moves = append(m.moves, *mv)
	return nil
}

func (m *mockRepo) MovesBySession(sessionID uint) ([]game.Move, error) {
	out := []game.Move{}
	for _, mv := range m.moves {
		if mv.SessionID == sessionID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *mockRepo) CreateRecord(rec *game.GameRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *mockRepo) GetRecordByUUID(id string) (*game.GameRecord, error) {
	for _, rec := range m.records {
		if rec.RecordUUID == id {
			return rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) RecordsByUser(userID string, limit int) ([]game.GameRecord, error) {
	out := []game.GameRecord{}
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *mockRepo) UpsertUser(userID, username string) error {
	m.users[userID] = &game.User{UserID: userID, Username: username}
	return nil
}

func (m *mockRepo) UpdateStatsOnGameEnd(s *game.Session) error {
	m.statsCalled = true
	return nil
}

func (m *mockRepo) GetTopPlayers(limit int) ([]game.User, error) { return nil, nil }

func (m *mockRepo) FindTimedOutSessions(now time.Time) ([]game.Session, error) {
	out := []game.Session{}
	for _, s := range m.sessions {
		if s.Status == game.StatusPlaying && !s.ActionDeadline.IsZero() && !s.ActionDeadline.After(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

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
		game.RoleAttacker: {{Name: "compute", Value: 100, Max: 100}},
		game.RoleDefender: {{Name: "budget", Value: 1000, Max: 1000}},
		game.RoleMonitor:  {{Name: "intel", Value: 40, Max: 40}},
	}
	layers := map[string]game.Layer{}
	for _, key := range game.LayerKeys {
		layers[key] = game.Layer{Health: 100, MaxHealth: 100, Defense: 20}
	}
	tactics := map[game.Role][]catalog.Tactic{
		game.RoleAttacker: {{ID: "strike", Name: "Strike", Cost: map[string]int{"compute": 10}, Cooldown: 0,
			Effect: catalog.Effect{Kind: catalog.EffectDamage, BaseDamage: 40, RequiresTarget: true, Impact: map[string]int{game.DimIncident: -5}}}},
		game.RoleDefender: {{ID: "patch", Name: "Patch", Cost: map[string]int{"budget": 50}, Cooldown: 0,
			Effect: catalog.Effect{Kind: catalog.EffectFortify, DefenseBonus: 5, RequiresTarget: true}}},
		game.RoleMonitor: {{ID: "trace", Name: "Trace", Cost: map[string]int{"intel": 5}, Cooldown: 0,
			Effect: catalog.Effect{Kind: catalog.EffectIntel}}},
	}
	cat, err := catalog.New(settings, tactics, resources, layers)
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return cat
}

// startedSession wires a three-player playing session through the real
// lifecycle calls.
func startedSession(t *testing.T, svc *Service) *game.Session {
	t.Helper()
	sess, err := svc.CreateSession("u-att", "Attacker", game.RoleAttacker, game.ModeMulti, false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.JoinSession(sess.JoinCode, "u-def", "Defender", game.RoleDefender); err != nil {
		t.Fatalf("join defender failed: %v", err)
	}
	if _, err := svc.JoinSession(sess.JoinCode, "u-mon", "Monitor", game.RoleMonitor); err != nil {
		t.Fatalf("join monitor failed: %v", err)
	}
	for _, uid := range []string{"u-def", "u-mon"} {
		if _, err := svc.SetReady(sess.JoinCode, uid, true); err != nil {
			t.Fatalf("ready %s failed: %v", uid, err)
		}
	}
	sess, err = svc.StartSession(sess.JoinCode, "u-att", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return sess
}
