package session

import (
	"context"
	"time"

	"github.com/ericogr/monster-arena/internal/game"
)

// BattleSession wraps the authoritative state of one battle.
type BattleSession struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	State        game.BattleState `json:"state"`
	CreatedAt    time.Time        `json:"created_at"`
	LastActivity time.Time        `json:"last_activity"`
	ExpiresAt    time.Time        `json:"expires_at"`
}

// Expired reports whether the session's expiry has passed at now.
func (s BattleSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions keyed by battle id with a secondary index from user
// id to that user's single battle. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (BattleSession, bool, error)
	Put(ctx context.Context, s BattleSession) error
	// Touch updates only the activity timestamps of an existing session and
	// reports whether it was found. It never recreates a deleted session.
	Touch(ctx context.Context, id string, lastActivity, expiresAt time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
	ForUser(ctx context.Context, userID string) (string, bool, error)
	List(ctx context.Context) ([]BattleSession, error)
	NewID() string
}
