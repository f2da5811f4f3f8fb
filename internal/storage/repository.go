package storage

import (
	"time"

	"github.com/cyberchess/cyberchess/internal/game"
)

type Repository interface {
	CreateSession(s *game.Session) error
	GetSessionByID(id uint) (*game.Session, error)
	FindSessionByJoinCode(code string) (*game.Session, error)
	UpdateSession(s *game.Session) error
	GetPublicSessions() ([]game.Session, error)
	RemovePlayer(sessionID uint, userID string) error

	// AppendMove persists one committed replay-log entry. Rows are
	// append-only; there is deliberately no update or delete.
	AppendMove(m *game.Move) error
	MovesBySession(sessionID uint) ([]game.Move, error)

	CreateRecord(rec *game.GameRecord) error
	GetRecordByUUID(id string) (*game.GameRecord, error)
	RecordsByUser(userID string, limit int) ([]game.GameRecord, error)

	UpsertUser(userID, username string) error
	UpdateStatsOnGameEnd(s *game.Session) error
	GetTopPlayers(limit int) ([]game.User, error)

	// FindTimedOutSessions returns sessions that are playing and whose
	// action deadline is at or before the provided time. The caller
	// decides how to resolve them (auto-pass and advance the round).
	FindTimedOutSessions(now time.Time) ([]game.Session, error)
}
