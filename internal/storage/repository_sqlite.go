package storage

import (
	"time"

	"github.com/cyberchess/cyberchess/internal/game"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
	// publicSessionsTTL bounds how long a waiting room stays listed.
	publicSessionsTTL time.Duration
}

func NewSQLiteRepository(db *gorm.DB, publicSessionsTTL time.Duration) Repository {
	return &sqliteRepository{db: db, publicSessionsTTL: publicSessionsTTL}
}

func (r *sqliteRepository) CreateSession(s *game.Session) error {
	return r.db.Create(s).Error
}

func (r *sqliteRepository) GetSessionByID(id uint) (*game.Session, error) {
	var s game.Session
	if err := r.db.Preload("Players").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) FindSessionByJoinCode(code string) (*game.Session, error) {
	var s game.Session
	err := r.db.Preload("Players").Where("join_code = ?", code).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) UpdateSession(s *game.Session) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(s).Error
}

func (r *sqliteRepository) GetPublicSessions() ([]game.Session, error) {
	var sessions []game.Session
	cutoff := time.Now().Add(-r.publicSessionsTTL)
	if err := r.db.Preload("Players").
		Where("private = ? AND status = ? AND created_at > ?", false, game.StatusWaiting, cutoff).
		Order("created_at desc").Find(&sessions).Error; err != nil {
		return nil, err
	}
	// Only return rooms with at least one seated player
	filtered := make([]game.Session, 0, len(sessions))
	for i := range sessions {
		if len(sessions[i].Players) >= 1 {
			filtered = append(filtered, sessions[i])
		}
	}
	return filtered, nil
}

func (r *sqliteRepository) RemovePlayer(sessionID uint, userID string) error {
	return r.db.Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&game.Player{}).Error
}

func (r *sqliteRepository) AppendMove(m *game.Move) error {
	return r.db.Create(m).Error
}

func (r *sqliteRepository) MovesBySession(sessionID uint) ([]game.Move, error) {
	var moves []game.Move
	if err := r.db.Where("session_id = ?", sessionID).Order("seq asc").Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

func (r *sqliteRepository) CreateRecord(rec *game.GameRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetRecordByUUID(id string) (*game.GameRecord, error) {
	var rec game.GameRecord
	if err := r.db.Where("record_uuid = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) RecordsByUser(userID string, limit int) ([]game.GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []game.GameRecord
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) UpsertUser(userID, username string) error {
	var u game.User
	if err := r.db.Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			u = game.User{UserID: userID, Username: username}
		} else {
			return err
		}
	}
	u.Username = username
	return r.db.Save(&u).Error
}

func (r *sqliteRepository) UpdateStatsOnGameEnd(s *game.Session) error {
	// Helper to upsert and add deltas
	upsert := func(userID, username string, played, wins, draws int) error {
		var u game.User
		if err := r.db.Where("user_id = ?", userID).First(&u).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				u = game.User{UserID: userID, Username: username}
			} else {
				return err
			}
		}
		u.Username = username
		u.GamesPlayed += played
		u.Wins += wins
		u.Draws += draws
		return r.db.Save(&u).Error
	}

	draw := s.State.Result != nil && s.State.Result.Draw
	for i := range s.Players {
		p := &s.Players[i]
		wins := 0
		draws := 0
		if draw {
			draws = 1
		} else if s.Winner != "" && string(p.Role) == s.Winner {
			wins = 1
		}
		if err := upsert(p.UserID, p.Username, 1, wins, draws); err != nil {
			return err
		}
	}
	return nil
}

// GetTopPlayers returns top N players ordered by Wins desc, then GamesPlayed desc
func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var users []game.User
	if err := r.db.Model(&game.User{}).
		Order("wins DESC").
		Order("games_played DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *sqliteRepository) FindTimedOutSessions(now time.Time) ([]game.Session, error) {
	var sessions []game.Session
	if err := r.db.Preload("Players").
		Where("status = ? AND action_deadline <= ? AND action_deadline > ?", game.StatusPlaying, now, time.Time{}).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
