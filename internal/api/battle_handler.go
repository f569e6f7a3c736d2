package api

import (
	"context"

	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/service"
	"github.com/ericogr/monster-arena/internal/session"
)

// BattleService is the subset of the service layer the handlers call.
type BattleService interface {
	Profile(ctx context.Context, userID string) (service.ProfileView, error)
	StartBattle(ctx context.Context, userID string, monsterIDs []uint) (session.BattleSession, error)
	GetActiveBattle(ctx context.Context, userID string) (*session.BattleSession, error)
	GetBattle(ctx context.Context, battleID, userID string) (*session.BattleSession, error)
	SubmitTurn(ctx context.Context, battleID, userID string, action game.Action) (service.TurnResult, error)
	RunAITurn(ctx context.Context, battleID, userID string) (service.TurnResult, error)
	Forfeit(ctx context.Context, battleID, userID string) (service.TurnResult, error)
	Stats(ctx context.Context) (session.Stats, error)
}

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	svc       BattleService
	abilities []game.Ability
}

// NewBattleHandler creates a handler serving svc and the ability catalog.
func NewBattleHandler(svc BattleService, abilities []game.Ability) *BattleHandler {
	return &BattleHandler{svc: svc, abilities: abilities}
}
