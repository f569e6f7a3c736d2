package service

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/ericogr/monster-arena/internal/session"
)

// StartBattle opens a battle for userID with the chosen monsters. With no
// ids the first owned monsters fill the team. The opposing team has the same
// size and is matched from the catalog by team power level.
func (s *Service) StartBattle(ctx context.Context, userID string, monsterIDs []uint) (session.BattleSession, error) {
	ctx, span := s.start(ctx, "StartBattle", userID, "")
	defer span.End()

	if len(monsterIDs) > constants.MaxTeamSize {
		return session.BattleSession{}, fail(span, battleerr.Validation(battleerr.CodeTeamTooLarge,
			"a team holds at most "+strconv.Itoa(constants.MaxTeamSize)+" monsters"))
	}
	active, err := s.sessions.GetActiveBattle(ctx, userID)
	if err != nil {
		return session.BattleSession{}, fail(span, err)
	}
	s.settle(ctx, active)

	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return session.BattleSession{}, fail(span, err)
	}
	if profile.BattleTokens <= 0 {
		return session.BattleSession{}, fail(span, battleerr.Validation(battleerr.CodeNoBattleTokens, "no battle tokens left"))
	}

	records, err := s.selectMonsters(ctx, userID, monsterIDs)
	if err != nil {
		return session.BattleSession{}, fail(span, err)
	}
	team, err := playerTeam(s.catalog, records)
	if err != nil {
		return session.BattleSession{}, fail(span, err)
	}

	tpl := teamPowerLevel(records)
	matched, err := matchOpponents(s.catalog.Templates(), tpl, len(team))
	if err != nil {
		return session.BattleSession{}, fail(span, err)
	}
	opponents, err := aiTeam(s.catalog, matched)
	if err != nil {
		return session.BattleSession{}, fail(span, err)
	}

	bs, err := s.sessions.CreateSession(ctx, userID, team, opponents)
	if err != nil {
		return session.BattleSession{}, fail(span, err)
	}
	span.SetAttributes(attribute.String("battle.id", bs.ID), attribute.Int("battle.tpl", tpl))
	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID: bs.ID,
		constants.LogFieldUserID:   userID,
		constants.LogFieldCount:    len(team),
		"tpl":                      tpl,
	})
	return bs, nil
}

func (s *Service) selectMonsters(ctx context.Context, userID string, ids []uint) ([]game.MonsterRecord, error) {
	if len(ids) == 0 {
		owned, err := s.repo.ListMonsters(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list monsters: %w", err)
		}
		if len(owned) == 0 {
			return nil, battleerr.Validation(battleerr.CodeEmptyTeam, "player owns no monsters")
		}
		if len(owned) > constants.MaxTeamSize {
			owned = owned[:constants.MaxTeamSize]
		}
		return owned, nil
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, battleerr.Validation(battleerr.CodeUnknownMonster, "monster selected twice").
				With("monster_id", strconv.FormatUint(uint64(id), 10))
		}
		seen[id] = true
	}
	records, err := s.repo.GetMonstersByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load monsters: %w", err)
	}
	if len(records) != len(ids) {
		return nil, battleerr.Validation(battleerr.CodeUnknownMonster, "one or more monsters are not owned by the player")
	}
	return records, nil
}
