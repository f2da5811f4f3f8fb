package constants

// Centralized constants for env keys, routes and API error messages.
const (
	// Environment variable keys
	EnvConfigPath = "CYBERCHESS_CONFIG"
	EnvDBPath     = "CYBERCHESS_DB"
	EnvListenAddr = "CYBERCHESS_ADDR"

	// Defaults
	DefaultConfigPath = "./cyberchess_config.json"
	DefaultDBPath     = "./data/cyberchess.db"
	DefaultListenAddr = ":8080"
)

// Routes used by the backend router
const (
	RouteAPIPrefix      = "/api"
	RouteSessions       = "/sessions"
	RouteSessionsJoin   = "/sessions/join"
	RouteSessionByCode  = "/sessions/:code"
	RouteSessionReady   = "/sessions/:code/ready"
	RouteSessionStart   = "/sessions/:code/start"
	RouteSessionPause   = "/sessions/:code/pause"
	RouteSessionResume  = "/sessions/:code/resume"
	RouteSessionAction  = "/sessions/:code/action"
	RouteSessionLeave   = "/sessions/:code/leave"
	RouteSessionTactics = "/sessions/:code/tactics"
	RouteRecordByID     = "/records/:id"
	RouteUserRecords    = "/users/:id/records"
	RouteRecordState    = "/records/:id/state/:round"
	RouteLeaderboard    = "/leaderboard"
	RouteWS             = "/ws/:code"
	RouteVersion        = "/version"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrInvalidSessionCode = "Invalid session code"
	ErrSessionNotFound    = "Session not found"
	ErrRecordNotFound     = "Record not found"
	ErrInvalidRound       = "Invalid round number"

	ErrFailedCreateSession = "Failed to create session"
	ErrFailedUpdateSession = "Failed to update session"
	ErrSessionFull         = "Session is full"
	ErrRoleAlreadyTaken    = "Role already taken"
	ErrInvalidRole         = "Invalid role"
	ErrNotAllPlayersReady  = "Not all players are ready"
	ErrOnlyHostMayStart    = "Only the host may start the session"
	ErrSessionNotWaiting   = "Session is already starting or started"
	ErrCannotLeaveStarted  = "Cannot leave after the session has started"
	ErrPlayerNotInSession  = "Player not in this session"

	ErrSessionNotPlaying     = "Session is not in playing state"
	ErrNotPlayersTurn        = "Player already acted this round"
	ErrUnknownTactic         = "Unknown tactic for role"
	ErrTacticOnCooldown      = "Tactic is on cooldown"
	ErrInsufficientResources = "Insufficient resources"
	ErrInvalidTarget         = "Invalid target layer"

	ErrFailedStoreAction      = "Failed to store action"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedReconstructState = "Failed to reconstruct state"
)

// Logging field names
const (
	LogFieldSessionID = "session_id"
	LogFieldJoinCode  = "join_code"
	LogFieldUserID    = "user_id"
	LogFieldRole      = "role"
	LogFieldRound     = "round"
	LogFieldTactic    = "tactic"
	LogFieldAddr      = "addr"
)
