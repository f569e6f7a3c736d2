package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/engine"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/ericogr/monster-arena/internal/session"
)

// TurnResult is returned for every processed turn.
type TurnResult struct {
	BattleID   string                `json:"battle_id"`
	Side       game.Side             `json:"side"`
	Action     game.Action           `json:"action"`
	Outcome    engine.TurnOutcome    `json:"outcome"`
	EndResult  *game.BattleEndResult `json:"end_result,omitempty"`
	AIDelayMS  int64                 `json:"ai_turn_delay_ms,omitempty"`
	NextToMove game.Side             `json:"next_to_move,omitempty"`
}

// SubmitTurn processes the player's action. A turn that ends the battle
// records the result and closes the session.
func (s *Service) SubmitTurn(ctx context.Context, battleID, userID string, action game.Action) (TurnResult, error) {
	ctx, span := s.start(ctx, "SubmitTurn", userID, battleID)
	defer span.End()
	span.SetAttributes(attribute.String("battle.action", string(action.Type)))

	res, err := s.runTurn(ctx, battleID, userID, game.SidePlayer, func(game.BattleState) game.Action { return action })
	return res, fail(span, err)
}

// RunAITurn lets the AI pick and play its action. Clients call it after the
// configured delay once the player's turn is done.
func (s *Service) RunAITurn(ctx context.Context, battleID, userID string) (TurnResult, error) {
	ctx, span := s.start(ctx, "RunAITurn", userID, battleID)
	defer span.End()

	res, err := s.runTurn(ctx, battleID, userID, game.SideAI, engine.ChooseAIAction)
	if err == nil {
		span.SetAttributes(attribute.String("battle.action", string(res.Action.Type)))
	}
	return res, fail(span, err)
}

// Forfeit ends the battle as a defeat for the player. It is accepted on
// either side's turn.
func (s *Service) Forfeit(ctx context.Context, battleID, userID string) (TurnResult, error) {
	ctx, span := s.start(ctx, "Forfeit", userID, battleID)
	defer span.End()

	res, err := s.runTurn(ctx, battleID, userID, game.SidePlayer, func(game.BattleState) game.Action {
		return game.Action{Type: game.ActionForfeit}
	})
	return res, fail(span, err)
}

func (s *Service) runTurn(ctx context.Context, battleID, userID string, side game.Side, choose func(game.BattleState) game.Action) (TurnResult, error) {
	res := TurnResult{BattleID: battleID, Side: side}
	bs, err := s.sessions.WithSession(ctx, battleID, userID, func(cur session.BattleSession) (game.BattleState, error) {
		// The AI may pick FORFEIT, which is accepted out of turn.
		if side == game.SideAI && !cur.State.Status.Terminal() && cur.State.CurrentTurn != game.SideAI {
			return game.BattleState{}, battleerr.Validation(battleerr.CodeNotYourTurn, "it is not the ai side's turn")
		}
		res.Action = choose(cur.State)
		out, err := engine.RunTurn(cur.State, side, res.Action)
		if err != nil {
			return game.BattleState{}, err
		}
		res.Outcome = out
		return out.State, nil
	})
	if err != nil {
		logging.Warn("turn rejected", logging.Fields{
			constants.LogFieldBattleID: battleID,
			constants.LogFieldUserID:   userID,
			constants.LogFieldSide:     string(side),
			constants.LogFieldAction:   string(res.Action.Type),
			"error":                    err.Error(),
		})
		return TurnResult{}, err
	}

	if res.Outcome.Ended {
		end, err := s.finish(ctx, bs)
		if err != nil {
			return res, err
		}
		res.EndResult = &end
		return res, nil
	}
	res.NextToMove = bs.State.CurrentTurn
	if res.NextToMove == game.SideAI {
		res.AIDelayMS = s.cfg.AITurnDelay.Milliseconds()
	}
	return res, nil
}
