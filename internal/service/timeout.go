package service

import (
	"context"

	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/engine"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/ericogr/monster-arena/internal/session"
)

// HandleExpiredSession resolves a session evicted for inactivity.
// Behavior:
// - battle still active -> recorded as abandoned with no rewards
// - battle already over (its result failed to persist earlier) -> recorded as it ended
// Recording is idempotent per battle id, so replays are harmless.
func (s *Service) HandleExpiredSession(ctx context.Context, bs session.BattleSession) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := s.start(ctx, "HandleExpiredSession", bs.UserID, bs.ID)
	defer span.End()

	st := bs.State
	if !st.Status.Terminal() {
		st.Status = game.StatusAbandoned
		st.Log = append(append([]string(nil), st.Log...), "The battle was abandoned.")
	}
	result := engine.EndResult(st, s.cfg.Rewards)
	if err := s.repo.RecordBattleEnd(ctx, bs.UserID, bs.ID, result); err != nil {
		logging.Error("failed to record expired battle", fail(span, err), logging.Fields{
			constants.LogFieldBattleID: bs.ID,
			constants.LogFieldUserID:   bs.UserID,
		})
		return
	}
	logging.Info("expired battle recorded", logging.Fields{
		constants.LogFieldBattleID: bs.ID,
		constants.LogFieldUserID:   bs.UserID,
		constants.LogFieldStatus:   string(result.Status),
	})
}
