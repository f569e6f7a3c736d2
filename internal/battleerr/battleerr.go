// Package battleerr provides the battle error taxonomy. Every error carries a
// Kind for routing (HTTP status, retries) and a machine-readable Code.
package battleerr

import "errors"

// Kind groups codes by how the caller should react.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindTerminalState Kind = "terminal_state"
	KindNotFound      Kind = "not_found"
)

// Code is a machine-readable error code.
type Code string

const (
	// Validation
	CodeUnknownAbility      Code = "UNKNOWN_ABILITY"
	CodePassiveNotUsable    Code = "PASSIVE_NOT_USABLE"
	CodeInsufficientMP      Code = "INSUFFICIENT_MP"
	CodeInvalidTarget       Code = "INVALID_TARGET"
	CodeFaintedActor        Code = "FAINTED_ACTOR"
	CodeNotYourTurn         Code = "NOT_YOUR_TURN"
	CodeUnknownMonster      Code = "UNKNOWN_MONSTER"
	CodeFaintedMonster      Code = "FAINTED_MONSTER"
	CodeAlreadyActive       Code = "ALREADY_ACTIVE"
	CodeUnknownAction       Code = "UNKNOWN_ACTION"
	CodeEmptyTeam           Code = "EMPTY_TEAM"
	CodeTeamTooLarge        Code = "TEAM_TOO_LARGE"
	CodeNoBattleTokens      Code = "NO_BATTLE_TOKENS"
	CodeNoOpponentAvailable Code = "NO_OPPONENT_AVAILABLE"

	// Authorization
	CodeNotSessionOwner Code = "NOT_SESSION_OWNER"

	// Conflict
	CodeActiveBattleExists Code = "ACTIVE_BATTLE_EXISTS"

	// Terminal state
	CodeBattleOver Code = "BATTLE_OVER"

	// Not found
	CodeBattleNotFound Code = "BATTLE_NOT_FOUND"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Kind     Kind
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// With returns a copy carrying an extra metadata entry.
func (e *Error) With(key, value string) *Error {
	out := *e
	out.Metadata = make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata[key] = value
	return &out
}

func newErr(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation reports a malformed or ineligible action.
func Validation(code Code, message string) *Error {
	return newErr(KindValidation, code, message)
}

// Authorization reports that the caller does not own the resource.
func Authorization(code Code, message string) *Error {
	return newErr(KindAuthorization, code, message)
}

// Conflict reports a state that prevents creating a resource.
func Conflict(code Code, message string) *Error {
	return newErr(KindConflict, code, message)
}

// TerminalState reports a turn submitted to a finished battle.
func TerminalState(code Code, message string) *Error {
	return newErr(KindTerminalState, code, message)
}

// NotFound reports a missing or expired resource.
func NotFound(code Code, message string) *Error {
	return newErr(KindNotFound, code, message)
}

// As extracts a battle error from err's chain.
func As(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// KindOf returns the kind of a battle error, or "" for any other error.
func KindOf(err error) Kind {
	if be, ok := As(err); ok {
		return be.Kind
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	if be, ok := As(err); ok {
		return be.Code == code
	}
	return false
}

// Sentinels usable with errors.Is.
var (
	ErrBattleOver         = TerminalState(CodeBattleOver, "battle is already over")
	ErrActiveBattleExists = Conflict(CodeActiveBattleExists, "user already has an active battle")
	ErrNotSessionOwner    = Authorization(CodeNotSessionOwner, "battle belongs to another user")
	ErrBattleNotFound     = NotFound(CodeBattleNotFound, "battle not found")
)
