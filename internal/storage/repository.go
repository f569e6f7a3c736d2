package storage

import (
	"context"
	"errors"

	"github.com/ericogr/monster-arena/internal/game"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: record not found")

type Repository interface {
	// EnsureProfile returns the user's profile, creating it on first visit
	// together with one monster per starter template. created reports
	// whether this call did the bootstrap.
	EnsureProfile(ctx context.Context, userID string, starters []game.MonsterTemplate, tokens int) (profile *game.PlayerProfile, created bool, err error)
	GetProfile(ctx context.Context, userID string) (*game.PlayerProfile, error)
	ListMonsters(ctx context.Context, userID string) ([]game.MonsterRecord, error)
	// GetMonstersByIDs returns the user's monsters in the order of ids.
	// Unknown ids and monsters owned by someone else are skipped.
	GetMonstersByIDs(ctx context.Context, userID string, ids []uint) ([]game.MonsterRecord, error)
	// RecordBattleEnd applies the rewards of an ended battle to the profile,
	// consumes one battle token and stores the battle summary. Recording the
	// same battle twice is a no-op.
	RecordBattleEnd(ctx context.Context, userID, battleID string, result game.BattleEndResult) error
	// ListBattleRecords returns the most recent battle summaries first.
	ListBattleRecords(ctx context.Context, userID string, limit int) ([]game.BattleRecord, error)
}
