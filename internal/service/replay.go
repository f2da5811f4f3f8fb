package service

import (
	"errors"
	"strconv"

	"github.com/cyberchess/cyberchess/internal/catalog"
	"github.com/cyberchess/cyberchess/internal/engine"
	"github.com/cyberchess/cyberchess/internal/game"
	"github.com/cyberchess/cyberchess/internal/storage"

	"golang.org/x/sync/singleflight"
)

var ErrRoundOutOfRange = errors.New("round is out of range for this record")

// ReplayService reconstructs historical game states from stored records.
// Replays are pure CPU work over immutable rows, so concurrent requests for
// the same (record, round) pair are collapsed into a single computation.
type ReplayService struct {
	repo storage.Repository
	cat  *catalog.Catalog
	sf   singleflight.Group
}

func NewReplayService(repo storage.Repository, cat *catalog.Catalog) *ReplayService {
	return &ReplayService{repo: repo, cat: cat}
}

// ReplaySnapshot is the state of a finished game at one round boundary.
type ReplaySnapshot struct {
	Round   int            `json:"round"`
	State   game.State     `json:"state"`
	Scores  map[string]int `json:"scores"`
	Moves   []game.Move    `json:"moves"`
	Ended   bool           `json:"ended"`
	Message string         `json:"message,omitempty"`
}

// StateAtRound re-resolves the record's move log up to and including the
// given round and returns the reconstructed state.
func (rs *ReplayService) StateAtRound(recordUUID string, round int) (*ReplaySnapshot, error) {
	key := recordUUID + ":" + strconv.Itoa(round)
	v, err, _ := rs.sf.Do(key, func() (interface{}, error) {
		return rs.replay(recordUUID, round)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ReplaySnapshot), nil
}

func (rs *ReplayService) replay(recordUUID string, round int) (*ReplaySnapshot, error) {
	rec, err := rs.repo.GetRecordByUUID(recordUUID)
	if err != nil {
		return nil, err
	}
	if round < 1 || round > rec.Rounds {
		return nil, ErrRoundOutOfRange
	}

	// The record carries the move log; the seed lives on the session row.
	sess, err := rs.repo.GetSessionByID(rec.SessionID)
	if err != nil {
		return nil, err
	}

	replayed, err := engine.Replay(rs.cat, sess.Seed, sess.Players, rec.GameData.Moves, round)
	if err != nil {
		return nil, err
	}

	snap := &ReplaySnapshot{
		Round:   round,
		State:   replayed.State,
		Scores:  map[string]int{},
		Ended:   replayed.Status == game.StatusEnded,
		Message: replayed.Message,
	}
	for i := range replayed.Players {
		snap.Scores[string(replayed.Players[i].Role)] = replayed.Players[i].Score
	}
	for _, m := range rec.GameData.Moves {
		if m.Round <= round {
			snap.Moves = append(snap.Moves, m)
		}
	}
	return snap, nil
}
