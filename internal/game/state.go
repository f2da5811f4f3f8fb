package game

import (
	"math"
	"time"
)

// Layer keys. The board always holds exactly these five layers.
const (
	LayerNetwork     = "network"
	LayerApplication = "application"
	LayerData        = "data"
	LayerPhysical    = "physical"
	LayerPersonnel   = "personnel"
)

// LayerKeys lists the five defense layers in display order.
var LayerKeys = []string{LayerNetwork, LayerApplication, LayerData, LayerPhysical, LayerPersonnel}

func ValidLayerKey(key string) bool {
	for _, k := range LayerKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Layer is one of the five abstracted defense surfaces. Breached flags the
// edge-triggered zero-health event; it clears when health is repaired
// above zero so a later breach fires again.
type Layer struct {
	Name      string `json:"name"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	Defense   int    `json:"defense"`
	Breached  bool   `json:"breached"`
}

// Resource is one pool owned by a single role. Icon is display-only.
type Resource struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Max   int    `json:"max"`
	Icon  string `json:"icon"`
}

// Intelligence is a monitor-produced reveal visible in the intel feed.
type Intelligence struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Source  string `json:"source"`
	Round   int    `json:"round"`
}

// ActionLogEntry is the human-readable running commentary shown during play.
type ActionLogEntry struct {
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
}

// Chain effect classes and kinds.
const (
	ChainCascade    = "cascade"
	ChainPersistent = "persistent"

	ChainKindDotDamage       = "dot_damage"
	ChainKindDamageReduction = "damage_reduction"
	ChainKindDefenseBonus    = "defense_bonus"
)

// ChainEffect is a scheduled modifier re-evaluated once per round advance.
// Cascade effects apply their magnitude as layer damage each tick;
// persistent effects modify resolution while active. RemainingRounds is
// decremented at each round boundary and expired entries are removed.
type ChainEffect struct {
	Type            string  `json:"type"`
	Kind            string  `json:"kind"`
	Target          string  `json:"target,omitempty"`
	Magnitude       float64 `json:"magnitude"`
	RemainingRounds int     `json:"remaining_rounds"`
	Source          Role    `json:"source"`
}

// RITEScores are the four 0-100 security dimensions: zero-Trust posture,
// Risk-zero, zero-Incident and zero-loss. Each starts at 100 and moves by
// configuration-driven per-tactic impact deltas, clamped.
type RITEScores struct {
	Trust    int `json:"trust"`
	Risk     int `json:"risk"`
	Incident int `json:"incident"`
	Loss     int `json:"loss"`
}

// RITE dimension keys used in tactic impact tables.
const (
	DimTrust    = "trust"
	DimRisk     = "risk"
	DimIncident = "incident"
	DimLoss     = "loss"
)

// Apply adds the given deltas to the matching dimensions, clamped to [0,100].
func (r *RITEScores) Apply(impact map[string]int) {
	for dim, delta := range impact {
		switch dim {
		case DimTrust:
			r.Trust = clampScore(r.Trust + delta)
		case DimRisk:
			r.Risk = clampScore(r.Risk + delta)
		case DimIncident:
			r.Incident = clampScore(r.Incident + delta)
		case DimLoss:
			r.Loss = clampScore(r.Loss + delta)
		}
	}
}

// Overall is the unweighted mean of the four dimensions, rounded.
func (r RITEScores) Overall() int {
	return int(math.Round(float64(r.Trust+r.Risk+r.Incident+r.Loss) / 4.0))
}

// Grade maps the overall score to the letter scale shown on the score panel.
func (r RITEScores) Grade() string {
	score := r.Overall()
	switch {
	case score >= 85:
		return "S"
	case score >= 75:
		return "A"
	case score >= 65:
		return "B"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	}
	return "F"
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Statistics aggregates per-role combat numbers for the durable record.
type Statistics struct {
	DamageDealt       int            `json:"damageDealt"`
	DamageReceived    int            `json:"damageReceived"`
	ResourcesUsed     map[string]int `json:"resourcesUsed"`
	TacticsUsed       map[string]int `json:"tacticsUsed"`
	SuccessfulActions int            `json:"successfulActions"`
	FailedActions     int            `json:"failedActions"`
	CriticalHits      int            `json:"criticalHits"`
	DefensesBreached  int            `json:"defensesBreached"`
}

// NewStatistics returns a zeroed statistics block with maps allocated.
func NewStatistics() *Statistics {
	return &Statistics{ResourcesUsed: map[string]int{}, TacticsUsed: map[string]int{}}
}

// State is the mutable per-round snapshot of a session. Exactly one State
// is live per session; everything here round-trips through JSON so a
// session survives process restarts.
type State struct {
	CurrentRound int                    `json:"currentRound"`
	MaxRound     int                    `json:"maxRound"`
	Layers       map[string]*Layer      `json:"layers"`
	Resources    map[Role][]Resource    `json:"resources"`
	Intelligence []Intelligence         `json:"intelligence"`
	ActionLog    []ActionLogEntry       `json:"actionLog"`
	ChainEffects []ChainEffect          `json:"chainEffects"`
	Scores       RITEScores             `json:"scores"`
	Statistics   map[Role]*Statistics   `json:"statistics"`

	// Cooldowns maps role -> tactic id -> first round the tactic is usable
	// again. Catalog entries are immutable; cooldown state is per player.
	Cooldowns map[Role]map[string]int `json:"cooldowns"`

	// ActedThisRound tracks which roles already committed an action in the
	// open turn window.
	ActedThisRound map[Role]bool `json:"actedThisRound"`

	// Eliminated roles stay in the session but no longer take turns.
	Eliminated map[Role]bool `json:"eliminated"`

	// MoveCount is the number of committed moves (the next Seq value).
	MoveCount int `json:"moveCount"`

	// RngDraws counts consumed random draws so a resolver can fast-forward
	// its seeded source to the live position after a reload.
	RngDraws int `json:"rngDraws"`

	Result *GameResult `json:"result,omitempty"`
}

// Layer returns the named layer or nil.
func (st *State) Layer(key string) *Layer {
	if st.Layers == nil {
		return nil
	}
	return st.Layers[key]
}

// Stats returns the statistics block for a role, allocating it on first use.
func (st *State) Stats(role Role) *Statistics {
	if st.Statistics == nil {
		st.Statistics = map[Role]*Statistics{}
	}
	s, ok := st.Statistics[role]
	if !ok {
		s = NewStatistics()
		st.Statistics[role] = s
	}
	return s
}

// Log appends a commentary entry to the action log.
func (st *State) Log(kind, msg string, at time.Time) {
	st.ActionLog = append(st.ActionLog, ActionLogEntry{Message: msg, Type: kind, Round: st.CurrentRound, Timestamp: at})
}
