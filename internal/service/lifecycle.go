package service

import (
	"math/rand"
	"time"

	"github.com/cyberchess/cyberchess/internal/catalog"
	"github.com/cyberchess/cyberchess/internal/events"
	"github.com/cyberchess/cyberchess/internal/game"
	"github.com/cyberchess/cyberchess/internal/logging"
	"github.com/cyberchess/cyberchess/internal/storage"

	"github.com/google/uuid"
)

// Service owns every session state transition. Handlers translate HTTP to
// these calls and back; nothing else mutates sessions.
type Service struct {
	repo            storage.Repository
	cat             *catalog.Catalog
	pub             events.Publisher
	arena           *Arena
	actionTimeout   time.Duration
	reconnectWindow time.Duration
}

func NewService(repo storage.Repository, cat *catalog.Catalog, pub events.Publisher, actionTimeout, reconnectWindow time.Duration) *Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{
		repo:            repo,
		cat:             cat,
		pub:             pub,
		arena:           NewArena(),
		actionTimeout:   actionTimeout,
		reconnectWindow: reconnectWindow,
	}
}

// Catalog exposes the static game definition for read-only handlers.
func (s *Service) Catalog() *catalog.Catalog { return s.cat }

const joinCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newJoinCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = joinCodeCharset[rand.Intn(len(joinCodeCharset))]
	}
	return string(b)
}

// CreateSession opens a new waiting room with the caller seated as host.
func (s *Service) CreateSession(userID, username string, role game.Role, mode string, private bool) (*game.Session, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if mode == "" {
		mode = game.ModeMulti
	}

	sess := &game.Session{
		SessionUUID: uuid.NewString(),
		JoinCode:    newJoinCode(),
		Private:     private,
		Mode:        mode,
		Status:      game.StatusWaiting,
		Seed:        time.Now().UnixNano(),
		Players: []game.Player{{
			UserID:           userID,
			Username:         username,
			Role:             role,
			IsHost:           true,
			ConnectionStatus: game.ConnConnected,
		}},
	}
	sess.RoomID = sess.JoinCode

	// Join codes are short; retry on the rare unique-index collision.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if err = s.repo.CreateSession(sess); err == nil {
			break
		}
		sess.JoinCode = newJoinCode()
		sess.RoomID = sess.JoinCode
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpsertUser(userID, username); err != nil {
		logging.Warn("failed to upsert user profile", logging.Fields{"user_id": userID, "error": err.Error()})
	}
	logging.Info("session created", logging.Fields{"join_code": sess.JoinCode, "host": userID, "role": string(role)})
	return sess, nil
}

// JoinSession seats a player in a waiting room.
func (s *Service) JoinSession(code, userID, username string, role game.Role) (*game.Session, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return nil, err
	}

	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return nil, err
	}

	if sess.Status != game.StatusWaiting {
		return nil, ErrSessionNotJoinable
	}
	if sess.PlayerByUserID(userID) != nil {
		return nil, ErrAlreadyJoined
	}
	if len(sess.Players) >= s.cat.Settings.MaxPlayers {
		return nil, ErrSessionFull
	}
	if sess.PlayerByRole(role) != nil {
		return nil, ErrRoleTaken
	}

	sess.Players = append(sess.Players, game.Player{
		SessionID:        sess.ID,
		UserID:           userID,
		Username:         username,
		Role:             role,
		ConnectionStatus: game.ConnConnected,
	})
	if err := s.repo.UpdateSession(sess); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertUser(userID, username); err != nil {
		logging.Warn("failed to upsert user profile", logging.Fields{"user_id": userID, "error": err.Error()})
	}

	s.pub.Publish(sess.JoinCode, events.Event{
		Event:     events.PlayerJoined,
		Data:      map[string]interface{}{"user_id": userID, "username": username, "role": role},
		Timestamp: time.Now(),
	})
	return sess, nil
}

// SetReady flips the caller's ready flag while the room is waiting.
func (s *Service) SetReady(code, userID string, ready bool) (*game.Session, error) {
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return nil, err
	}
	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return nil, err
	}

	if sess.Status != game.StatusWaiting {
		return nil, ErrSessionNotJoinable
	}
	p := sess.PlayerByUserID(userID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	p.IsReady = ready
	if err := s.repo.UpdateSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// StartSession begins play: the host starts once every seated player is
// ready and the minimum player count is met. The initial board and ledgers
// come from the catalog and the first action window opens immediately.
func (s *Service) StartSession(code, userID string, now time.Time) (*game.Session, error) {
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return nil, err
	}
	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return nil, err
	}

	if sess.Status != game.StatusWaiting {
		return nil, ErrSessionNotJoinable
	}
	host := sess.PlayerByUserID(userID)
	if host == nil {
		return nil, ErrPlayerNotFound
	}
	if !host.IsHost {
		return nil, ErrNotHost
	}
	if len(sess.Players) < s.cat.Settings.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}
	for i := range sess.Players {
		if !sess.Players[i].IsReady && !sess.Players[i].IsHost {
			return nil, ErrNotAllReady
		}
	}

	sess.State = s.cat.NewState()
	sess.Status = game.StatusPlaying
	started := now
	sess.StartedAt = &started
	sess.ActionDeadline = now.Add(s.actionTimeout)
	sess.State.Log("start", "the game begins", now)

	if err := s.repo.UpdateSession(sess); err != nil {
		return nil, err
	}
	s.pub.Publish(sess.JoinCode, events.Event{
		Event:     events.GameStarted,
		Data:      map[string]interface{}{"round": sess.State.CurrentRound, "deadline": sess.ActionDeadline},
		Timestamp: now,
	})
	logging.Info("game started", logging.Fields{"join_code": sess.JoinCode, "players": len(sess.Players)})
	return sess, nil
}

// PauseSession suspends play. The action deadline is cleared so the timeout
// scanner ignores paused games.
func (s *Service) PauseSession(code, userID string, now time.Time) (*game.Session, error) {
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return nil, err
	}
	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return nil, err
	}

	if sess.Status != game.StatusPlaying {
		return nil, ErrSessionNotJoinable
	}
	if sess.PlayerByUserID(userID) == nil {
		return nil, ErrPlayerNotFound
	}
	sess.Status = game.StatusPaused
	sess.ActionDeadline = time.Time{}
	if err := s.repo.UpdateSession(sess); err != nil {
		return nil, err
	}
	s.pub.Publish(sess.JoinCode, events.Event{Event: events.SessionPaused, Timestamp: now})
	return sess, nil
}

// ResumeSession restarts a paused game with a fresh action window.
func (s *Service) ResumeSession(code, userID string, now time.Time) (*game.Session, error) {
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return nil, err
	}
	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return nil, err
	}

	if sess.Status != game.StatusPaused {
		return nil, ErrSessionNotJoinable
	}
	if sess.PlayerByUserID(userID) == nil {
		return nil, ErrPlayerNotFound
	}
	sess.Status = game.StatusPlaying
	sess.ActionDeadline = now.Add(s.actionTimeout)
	if err := s.repo.UpdateSession(sess); err != nil {
		return nil, err
	}
	s.pub.Publish(sess.JoinCode, events.Event{Event: events.SessionResumed, Timestamp: now})
	return sess, nil
}

// MarkDisconnected flags a player as gone. During play the round may now be
// closable without them; if so it closes immediately.
func (s *Service) MarkDisconnected(code, userID string, now time.Time) error {
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return err
	}
	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return err
	}

	p := sess.PlayerByUserID(userID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.ConnectionStatus = game.ConnDisconnected
	logging.Info("player disconnected", logging.Fields{"join_code": sess.JoinCode, "user_id": userID})

	if sess.Status == game.StatusPlaying {
		if err := s.closeRoundIfComplete(sess, now); err != nil {
			return err
		}
	}
	return s.repo.UpdateSession(sess)
}

// MarkReconnected clears the disconnect flag within the reconnect window.
func (s *Service) MarkReconnected(code, userID string) error {
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return err
	}
	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return err
	}

	p := sess.PlayerByUserID(userID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.ConnectionStatus = game.ConnConnected
	return s.repo.UpdateSession(sess)
}

// LeaveSession removes a player from a waiting room. Leaving a running game
// forfeits: the role is eliminated and play continues without it.
func (s *Service) LeaveSession(code, userID string, now time.Time) (*game.Session, error) {
	sess, err := s.repo.FindSessionByJoinCode(code)
	if err != nil {
		return nil, err
	}
	unlock := s.arena.Lock(sess.ID)
	defer unlock()
	sess, err = s.repo.GetSessionByID(sess.ID)
	if err != nil {
		return nil, err
	}

	p := sess.PlayerByUserID(userID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	leftRole := p.Role

	switch sess.Status {
	case game.StatusWaiting:
		if err := s.repo.RemovePlayer(sess.ID, userID); err != nil {
			return nil, err
		}
		wasHost := p.IsHost
		kept := sess.Players[:0]
		for i := range sess.Players {
			if sess.Players[i].UserID != userID {
				kept = append(kept, sess.Players[i])
			}
		}
		sess.Players = kept
		if wasHost && len(sess.Players) > 0 {
			sess.Players[0].IsHost = true
		}
		if err := s.repo.UpdateSession(sess); err != nil {
			return nil, err
		}
	case game.StatusPlaying, game.StatusPaused:
		// The forfeit goes into the move log so stored games replay through
		// the elimination instead of stalling at the departed role's turn.
		move := s.resolverFor(sess).Forfeit(sess, leftRole, userID, now)
		if err := s.repo.AppendMove(move); err != nil {
			return nil, err
		}
		p.ConnectionStatus = game.ConnDisconnected
		if sess.Status == game.StatusPlaying {
			if err := s.closeRoundIfComplete(sess, now); err != nil {
				return nil, err
			}
		}
		// Also reached when the game was paused: with at most one role left
		// there is nothing to resume into.
		if sess.Status != game.StatusEnded {
			if err := s.maybeEndByForfeit(sess, now); err != nil {
				return nil, err
			}
		}
		if err := s.repo.UpdateSession(sess); err != nil {
			return nil, err
		}
	default:
		return nil, ErrSessionNotJoinable
	}

	s.pub.Publish(sess.JoinCode, events.Event{
		Event:     events.PlayerLeft,
		Data:      map[string]interface{}{"user_id": userID, "role": leftRole},
		Timestamp: now,
	})
	return sess, nil
}

// GetSession loads a session by join code for read-only callers.
func (s *Service) GetSession(code string) (*game.Session, error) {
	return s.repo.FindSessionByJoinCode(code)
}

// PublicSessions lists joinable public rooms.
func (s *Service) PublicSessions() ([]game.Session, error) {
	return s.repo.GetPublicSessions()
}
