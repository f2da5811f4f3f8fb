package engine

import "errors"

// Validation failures returned by the resolver. All of them are recoverable:
// they are raised strictly before any mutation, so a rejected action leaves
// the session untouched and the caller may retry within the open turn window.
var (
	ErrInvalidSessionState   = errors.New("session is not in playing state")
	ErrNotPlayersTurn        = errors.New("player already acted this round")
	ErrUnknownTactic         = errors.New("unknown tactic for role")
	ErrTacticOnCooldown      = errors.New("tactic is on cooldown")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidTarget         = errors.New("invalid target layer")
)
