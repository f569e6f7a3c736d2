package engine

import (
	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/game"
)

// --- Planned action model ---------------------------------------------

// plannedAction is a fully validated action. Building it never touches the
// battle state, so a rejected submission leaves the state as it was.
type plannedAction struct {
	kind    game.ActionType
	ability game.Ability
	targets []string
	swapTo  int
}

// buildPlan validates an action for side against st.
func buildPlan(st *game.BattleState, side game.Side, action game.Action) (plannedAction, error) {
	switch action.Type {
	case game.ActionUseAbility:
		return planAbility(st, side, action.Payload)
	case game.ActionSwapMonster:
		return planSwap(st, side, action.Payload)
	case game.ActionForfeit:
		return plannedAction{kind: game.ActionForfeit}, nil
	}
	return plannedAction{}, battleerr.Validation(battleerr.CodeUnknownAction, "unknown action type").
		With("type", string(action.Type))
}

func planAbility(st *game.BattleState, side game.Side, p game.ActionPayload) (plannedAction, error) {
	actor := st.Active(side)
	if actor == nil || actor.Fainted() {
		return plannedAction{}, battleerr.Validation(battleerr.CodeFaintedActor, "active monster has fainted; swap in another monster")
	}
	ab, ok := actor.FindAbility(p.AbilityID)
	if !ok {
		return plannedAction{}, battleerr.Validation(battleerr.CodeUnknownAbility, actor.Name+" does not know that ability").
			With("ability_id", p.AbilityID)
	}
	if ab.IsPassive() {
		return plannedAction{}, battleerr.Validation(battleerr.CodePassiveNotUsable, ab.Name+" is passive and activates on its own").
			With("ability_id", ab.ID)
	}
	if actor.MP < ab.Cost {
		return plannedAction{}, battleerr.Validation(battleerr.CodeInsufficientMP, "not enough MP to use "+ab.Name).
			With("ability_id", ab.ID)
	}
	targets, err := resolveTargets(st, side, actor, ab, p.TargetID)
	if err != nil {
		return plannedAction{}, err
	}
	return plannedAction{kind: game.ActionUseAbility, ability: ab, targets: targets}, nil
}

// resolveTargets maps the ability's target scope to concrete monster ids.
func resolveTargets(st *game.BattleState, side game.Side, actor *game.CombatMonster, ab game.Ability, targetID string) ([]string, error) {
	invalid := func(msg string) error {
		return battleerr.Validation(battleerr.CodeInvalidTarget, msg).With("target_id", targetID)
	}
	switch ab.TargetScopeOrDefault() {
	case game.TargetSelf:
		if targetID != "" && targetID != actor.ID {
			return nil, invalid(ab.Name + " can only target its user")
		}
		return []string{actor.ID}, nil
	case game.TargetAnyAlly:
		if targetID == "" {
			return nil, invalid(ab.Name + " requires a target")
		}
		team := st.Team(side)
		idx := indexOf(team, targetID)
		if idx < 0 || team[idx].Fainted() {
			return nil, invalid("target is not an able ally")
		}
		return []string{targetID}, nil
	case game.TargetBench:
		tside := side.Opponent()
		if isSupport(ab) {
			tside = side
		}
		team := st.Team(tside)
		bench := healthyBench(team, st.ActiveIndex(tside))
		if len(bench) == 0 {
			return nil, invalid("no bench monster to target")
		}
		ids := make([]string, 0, len(bench))
		for _, i := range bench {
			ids = append(ids, team[i].ID)
		}
		return ids, nil
	default:
		opp := st.Active(side.Opponent())
		if opp == nil || opp.Fainted() {
			return nil, invalid("opposing monster has fainted")
		}
		if targetID != "" && targetID != opp.ID {
			return nil, invalid(ab.Name + " can only target the opposing active monster")
		}
		return []string{opp.ID}, nil
	}
}

func planSwap(st *game.BattleState, side game.Side, p game.ActionPayload) (plannedAction, error) {
	team := st.Team(side)
	idx := indexOf(team, p.MonsterID)
	if idx < 0 {
		return plannedAction{}, battleerr.Validation(battleerr.CodeUnknownMonster, "monster is not on your team").
			With("monster_id", p.MonsterID)
	}
	if team[idx].Fainted() {
		return plannedAction{}, battleerr.Validation(battleerr.CodeFaintedMonster, team[idx].Name+" has fainted and cannot battle").
			With("monster_id", p.MonsterID)
	}
	if idx == st.ActiveIndex(side) {
		return plannedAction{}, battleerr.Validation(battleerr.CodeAlreadyActive, team[idx].Name+" is already in battle").
			With("monster_id", p.MonsterID)
	}
	return plannedAction{kind: game.ActionSwapMonster, swapTo: idx}, nil
}
