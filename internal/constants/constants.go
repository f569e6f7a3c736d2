package constants

import "time"

// Centralized constants for headers, env keys, routes and log fields.
const (
	// Environment variable keys
	EnvSessionSecret  = "SESSION_SECRET"
	EnvHealthcheckURL = "HEALTHCHECK_URL"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Session cookie name
	CookieSessionName = "arena_session"

	// Gin context keys
	ContextUserID = "userID"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultServerAddress = ":8080"
	DefaultSessionTTL    = 30 * time.Minute
	DefaultSweepInterval = time.Minute
	DefaultBattleTokens  = 5
	DefaultAIDelay       = 1500 * time.Millisecond
	MaxTeamSize          = 3
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteHealth        = "/health"
	RouteVersion       = "/version"
	RouteAbilities     = "/abilities"
	RouteProfile       = "/profile"
	RouteBattles       = "/battles"
	RouteBattleActive  = "/battles/active"
	RouteBattleStats   = "/battles/stats"
	RouteBattleByID    = "/battles/:battleID"
	RouteBattleTurn    = "/battles/:battleID/turn"
	RouteBattleAITurn  = "/battles/:battleID/ai-turn"
	RouteBattleForfeit = "/battles/:battleID/forfeit"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyCode    = "code"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrInvalidBattleID    = "Invalid battle ID"
	ErrAuthRequired       = "Authentication required"
	ErrInvalidSession     = "Invalid session"
	ErrInternal           = "Internal server error"
	ErrFailedFetchProfile = "Failed to fetch profile"
	ErrNoActiveBattle     = "No active battle"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldUserID   = "user_id"
	LogFieldTurn     = "turn"
	LogFieldSide     = "side"
	LogFieldAction   = "action"
	LogFieldStatus   = "status"
	LogFieldCount    = "count"
	LogFieldAddr     = "addr"
	LogFieldPath     = "path"
)
