package engine

import (
	"github.com/ericogr/monster-arena/internal/game"
)

// lowHPPercent is the HP share under which the AI prefers healing.
const lowHPPercent = 35

// ChooseAIAction picks the AI side's next action. The policy is deterministic:
//  1. replace a fainted active monster with the first able bench monster;
//  2. heal the active monster when it is low and a heal is affordable;
//  3. use the affordable attack with the highest expected damage;
//  4. use any other affordable ability;
//  5. swap to a bench monster that can still act;
//  6. forfeit.
func ChooseAIAction(state game.BattleState) game.Action {
	st := &state
	team := st.AITeam
	active := st.Active(game.SideAI)
	bench := healthyBench(team, st.AIActive)

	if active == nil || active.Fainted() {
		if len(bench) > 0 {
			return swapTo(team[bench[0]].ID)
		}
		return game.Action{Type: game.ActionForfeit}
	}

	if active.HPPercent() <= lowHPPercent {
		for _, ab := range active.Abilities {
			if !ab.Heals {
				continue
			}
			if a := useOn(ab, active.ID); valid(st, a) {
				return a
			}
		}
	}

	best, bestDamage := game.Action{}, 0
	for _, ab := range active.Abilities {
		if ab.IsPassive() || isSupport(ab) {
			continue
		}
		a := useOn(ab, "")
		plan, err := buildPlan(st, game.SideAI, a)
		if err != nil {
			continue
		}
		total := 0
		for _, id := range plan.targets {
			if target, _, ok := st.Find(id); ok {
				total += damageFor(*active, *target, ab, st.Effects)
			}
		}
		if total > bestDamage {
			best, bestDamage = a, total
		}
	}
	if bestDamage > 0 {
		return best
	}

	for _, ab := range active.Abilities {
		if ab.IsPassive() {
			continue
		}
		target := ""
		if ab.TargetScopeOrDefault() == game.TargetAnyAlly {
			target = active.ID
		}
		if a := useOn(ab, target); valid(st, a) {
			return a
		}
	}

	for _, i := range bench {
		for _, ab := range team[i].Abilities {
			if !ab.IsPassive() && ab.Cost <= team[i].MP {
				return swapTo(team[i].ID)
			}
		}
	}
	return game.Action{Type: game.ActionForfeit}
}

func useOn(ab game.Ability, targetID string) game.Action {
	return game.Action{Type: game.ActionUseAbility, Payload: game.ActionPayload{AbilityID: ab.ID, TargetID: targetID}}
}

func swapTo(id string) game.Action {
	return game.Action{Type: game.ActionSwapMonster, Payload: game.ActionPayload{MonsterID: id}}
}

func valid(st *game.BattleState, a game.Action) bool {
	_, err := buildPlan(st, game.SideAI, a)
	return err == nil
}
