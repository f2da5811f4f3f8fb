package service

import (
	"github.com/cyberchess/cyberchess/internal/game"
	"github.com/cyberchess/cyberchess/internal/logging"

	"github.com/google/uuid"
)

// finishGame writes the durable end-of-game artifacts exactly once: one
// GameRecord per participant embedding the full replay payload, plus the
// aggregate win/draw counters on the player profiles.
func (s *Service) finishGame(sess *game.Session, result *game.GameResult) error {
	if sess.RecordsWritten {
		return nil
	}

	moves, err := s.repo.MovesBySession(sess.ID)
	if err != nil {
		return err
	}
	data := game.GameData{State: sess.State, Moves: moves, Result: result}

	for i := range sess.Players {
		p := &sess.Players[i]
		rec := &game.GameRecord{
			RecordUUID: uuid.NewString(),
			SessionID:  sess.ID,
			UserID:     p.UserID,
			ChessID:    sess.SessionUUID,
			Role:       p.Role,
			Result:     participantResult(sess, result, p.Role),
			Score:      p.Score,
			Rounds:     result.Rounds,
			Duration:   result.Duration,
			GameData:   data,
		}
		if stats := sess.State.Statistics[p.Role]; stats != nil {
			rec.Statistics = *stats
		}
		if err := s.repo.CreateRecord(rec); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateStatsOnGameEnd(sess); err != nil {
		logging.Error("failed to update player stats", err, logging.Fields{"join_code": sess.JoinCode})
	}
	sess.RecordsWritten = true
	return nil
}

func participantResult(sess *game.Session, result *game.GameResult, role game.Role) string {
	switch {
	case result.Draw:
		return game.ResultDraw
	case string(role) == sess.Winner:
		return game.ResultVictory
	default:
		return game.ResultDefeat
	}
}

// GetRecord loads a finished game's record by its public id.
func (s *Service) GetRecord(recordUUID string) (*game.GameRecord, error) {
	return s.repo.GetRecordByUUID(recordUUID)
}

// RecordsForUser lists a player's recent finished games.
func (s *Service) RecordsForUser(userID string, limit int) ([]game.GameRecord, error) {
	return s.repo.RecordsByUser(userID, limit)
}

// Leaderboard returns the top player profiles by wins.
func (s *Service) Leaderboard(limit int) ([]game.User, error) {
	return s.repo.GetTopPlayers(limit)
}
