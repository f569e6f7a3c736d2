package engine

import (
	"strconv"

	"github.com/ericogr/monster-arena/internal/game"
)

// executePlan runs a validated action against the working state.
func (tc *turnContext) executePlan(plan plannedAction) {
	switch plan.kind {
	case game.ActionUseAbility:
		tc.execAbility(plan)
	case game.ActionSwapMonster:
		tc.execSwap(plan)
	}
}

func (tc *turnContext) execAbility(plan plannedAction) {
	actor := tc.st.Active(tc.side)
	ab := plan.ability
	actor.MP -= ab.Cost
	if tc.side == game.SidePlayer {
		tc.st.Stats.AbilitiesUsed++
	}
	tc.add(actor.Name + " used " + ab.Name + "!")

	for _, id := range plan.targets {
		target, tside, ok := tc.st.Find(id)
		if !ok || target.Fainted() {
			continue
		}
		res := game.BattleResult{TargetID: id}
		switch {
		case ab.Heals:
			before := target.HP
			amount := ComputeHealing(EffectiveStat(*actor, ab.Scaling(), tc.st.Effects), ab)
			target.HP = ApplyHealing(target.HP, target.MaxHP, amount)
			res.Healing = target.HP - before
			tc.add(target.Name + " recovered " + strconv.Itoa(res.Healing) + " HP.")
		case ab.PowerMultiplier > 0:
			dmg := damageFor(*actor, *target, ab, tc.st.Effects)
			target.HP -= dmg
			if target.HP < 0 {
				target.HP = 0
			}
			res.Damage = dmg
			tc.recordDamage(tside, dmg)
			tc.markDamaged(id)
			tc.add(target.Name + " took " + strconv.Itoa(dmg) + " damage.")
		}
		if !target.Fainted() {
			for _, mod := range ab.Modifiers {
				tc.st.NextEffectID++
				e := newEffect(target.ID, ab.ID, "", mod)
				e.ID = tc.st.NextEffectID
				tc.st.Effects = append(tc.st.Effects, e)
				label := modifierLabel(mod)
				res.StatusEffectsApplied = append(res.StatusEffectsApplied, label)
				tc.add(target.Name + " receives " + label + ".")
			}
			if ab.Inflicts != nil {
				inflict(target, *ab.Inflicts)
				res.StatusEffectsApplied = append(res.StatusEffectsApplied, string(ab.Inflicts.Kind))
				tc.add(target.Name + " is afflicted with " + conditionLabel(ab.Inflicts.Kind) + "!")
			}
		} else {
			tc.add(target.Name + " fainted!")
		}
		tc.results = append(tc.results, res)
	}
}

func (tc *turnContext) execSwap(plan plannedAction) {
	tc.st.SetActiveIndex(tc.side, plan.swapTo)
	m := tc.st.Active(tc.side)
	tc.add(sideLabel(tc.side) + " sends out " + m.Name + "!")
}
