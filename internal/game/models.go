package game

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies one of the three asymmetric sides of a match.
// Using a dedicated type instead of plain string makes code safer and self-documenting.
type Role string

const (
	RoleAttacker Role = "attacker"
	RoleDefender Role = "defender"
	RoleMonitor  Role = "monitor"
)

// Roles lists all roles in canonical order (attacker acts against the
// layers, defender protects them, monitor investigates).
var Roles = []Role{RoleAttacker, RoleDefender, RoleMonitor}

func (r Role) Valid() bool {
	switch r {
	case RoleAttacker, RoleDefender, RoleMonitor:
		return true
	}
	return false
}

// Session status values. Transitions are waiting -> playing <-> paused -> ended.
const (
	StatusWaiting = "waiting"
	StatusPlaying = "playing"
	StatusPaused  = "paused"
	StatusEnded   = "ended"
)

// Session modes.
const (
	ModeSingle = "single"
	ModeMulti  = "multi"
	ModeAI     = "ai"
)

// Player connection states.
const (
	ConnConnected    = "connected"
	ConnDisconnected = "disconnected"
)

type Session struct {
	gorm.Model
	SessionUUID string `json:"session_uuid" gorm:"uniqueIndex"`
	RoomID      string `json:"room_id"`
	JoinCode    string `json:"join_code" gorm:"unique"`
	Private     bool   `json:"private"`
	Mode        string `json:"mode"`
	Status      string `json:"status"`

	Players []Player `json:"players"`

	// State is the single live per-round snapshot. It is stored as a JSON
	// document; moves are persisted in their own append-only table.
	State State `json:"state" gorm:"serializer:json"`

	// Seed drives every randomized resolver component so a stored move log
	// replays bit-for-bit (see engine.Replay).
	Seed int64 `json:"-"`

	Winner  string `json:"winner"`
	Message string `json:"message"`

	// ActionDeadline bounds the open turn window; the timeout scanner
	// force-closes rounds whose deadline passed.
	ActionDeadline time.Time `json:"action_deadline"`

	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`

	RecordsWritten bool `json:"-"`
}

func (Session) TableName() string { return "game_sessions" }

type Player struct {
	gorm.Model
	SessionID        uint   `json:"-"`
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	Role             Role   `json:"role"`
	IsReady          bool   `json:"is_ready"`
	IsHost           bool   `json:"is_host"`
	Score            int    `json:"score"`
	ConnectionStatus string `json:"connection_status"`
}

func (Player) TableName() string { return "session_players" }

// PlayerByRole returns the participant bound to the given role, or nil.
func (s *Session) PlayerByRole(role Role) *Player {
	for i := range s.Players {
		if s.Players[i].Role == role {
			return &s.Players[i]
		}
	}
	return nil
}

// PlayerByUserID returns the participant with the given user id, or nil.
func (s *Session) PlayerByUserID(userID string) *Player {
	for i := range s.Players {
		if s.Players[i].UserID == userID {
			return &s.Players[i]
		}
	}
	return nil
}

// Move is one committed entry of the replay log. Rows are append-only and
// never mutated or reordered after commit; Seq gives total order within a
// session.
type Move struct {
	gorm.Model
	SessionID   uint           `json:"-" gorm:"index"`
	Seq         int            `json:"seq" gorm:"index"`
	Round       int            `json:"round"`
	PlayerID    string         `json:"player"`
	Role        Role           `json:"role"`
	ActionID    string         `json:"action"`
	ActionName  string         `json:"action_name"`
	Target      string         `json:"target"`
	Success     bool           `json:"success"`
	Description string         `json:"description"`
	Damage      int            `json:"damage"`
	Impact      map[string]int `json:"impact" gorm:"serializer:json"`
	Timestamp   time.Time      `json:"timestamp"`
}

func (Move) TableName() string { return "session_moves" }

// ActionPass is the ActionID recorded when a player's unsubmitted turn is
// closed as an implicit no-op (disconnect or round timeout).
const ActionPass = "pass"

// ActionForfeit is the ActionID recorded when a player leaves a running
// game. Like passes, forfeits live in the move log so replays walk through
// the same eliminations the live game saw.
const ActionForfeit = "forfeit"

// Action is a player's submitted order for the current round. The role
// field is trusted; identity validation happens at the API boundary.
type Action struct {
	PlayerID    string    `json:"player_id"`
	Role        Role      `json:"role"`
	TacticID    string    `json:"tactic_id"`
	TargetLayer string    `json:"target_layer"`
	Timestamp   time.Time `json:"timestamp"`
}

// ActionResult reports the outcome of a resolved action back to the caller.
type ActionResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Damage  int            `json:"damage,omitempty"`
	Effects []string       `json:"effects,omitempty"`
	Impact  map[string]int `json:"impact,omitempty"`
}

// GameResult is the terminal artifact of a session, produced exactly once.
type GameResult struct {
	Winner     string         `json:"winner"`
	Loser      string         `json:"loser"`
	Draw       bool           `json:"draw"`
	FinalScore map[string]int `json:"final_score"`
	Duration   int            `json:"duration"`
	Rounds     int            `json:"rounds"`
}

// Result values stored on a GameRecord.
const (
	ResultVictory = "victory"
	ResultDefeat  = "defeat"
	ResultDraw    = "draw"
)

// GameData is the durable replay payload embedded in a GameRecord: the
// final state, the full move log and the terminal result.
type GameData struct {
	State  State       `json:"game_state"`
	Moves  []Move      `json:"moves"`
	Result *GameResult `json:"result,omitempty"`
}

// GameRecord is written once per participant when a session ends and is
// the artifact the replay/analysis UI consumes.
type GameRecord struct {
	gorm.Model
	RecordUUID string     `json:"record_uuid" gorm:"uniqueIndex"`
	SessionID  uint       `json:"-" gorm:"index"`
	UserID     string     `json:"user_id" gorm:"index"`
	ChessID    string     `json:"chess_id"`
	Role       Role       `json:"role"`
	Result     string     `json:"result"`
	Score      int        `json:"score"`
	Rounds     int        `json:"rounds"`
	Duration   int        `json:"duration"`
	GameData   GameData   `json:"game_data" gorm:"serializer:json"`
	Statistics Statistics `json:"statistics" gorm:"serializer:json"`
}

func (GameRecord) TableName() string { return "game_records" }

// User stores unique player identity and aggregate stats.
type User struct {
	gorm.Model
	UserID      string `gorm:"uniqueIndex"`
	Username    string
	GamesPlayed int
	Wins        int
	Draws       int
}

func (User) TableName() string { return "player_profiles" }
