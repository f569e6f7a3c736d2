package engine

import (
	"strconv"

	"github.com/ericogr/monster-arena/internal/game"
)

// applyStartOfTurn ticks the status conditions of the acting side's active
// monster. Poison deals a share of max HP but never knocks a monster out;
// paralysis makes the side lose its action. It reports whether the action
// must be skipped.
func (tc *turnContext) applyStartOfTurn() bool {
	m := tc.st.Active(tc.side)
	if m == nil || m.Fainted() || len(m.Conditions) == 0 {
		return false
	}
	skip := false
	kept := m.Conditions[:0]
	for _, c := range m.Conditions {
		switch c.Kind {
		case game.ConditionPoison:
			dmg := m.MaxHP * c.Percent / 100
			if dmg < 1 {
				dmg = 1
			}
			if m.HP-dmg < 1 {
				dmg = m.HP - 1
			}
			if dmg > 0 {
				m.HP -= dmg
				tc.recordDamage(tc.side, dmg)
				tc.markDamaged(m.ID)
				tc.add(m.Name + " is hurt by poison and loses " + strconv.Itoa(dmg) + " HP.")
			}
		case game.ConditionParalysis:
			skip = true
			tc.add(m.Name + " is paralyzed and cannot act!")
		}
		c.Turns--
		if c.Turns > 0 {
			kept = append(kept, c)
		} else {
			tc.add(m.Name + " is no longer affected by " + conditionLabel(c.Kind) + ".")
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	m.Conditions = kept
	return skip
}

// inflict places a condition on the target, replacing one of the same kind.
func inflict(m *game.CombatMonster, c game.StatusCondition) {
	for i := range m.Conditions {
		if m.Conditions[i].Kind == c.Kind {
			m.Conditions[i] = c
			return
		}
	}
	m.Conditions = append(m.Conditions, c)
}

func conditionLabel(k game.ConditionKind) string {
	switch k {
	case game.ConditionPoison:
		return "poison"
	case game.ConditionParalysis:
		return "paralysis"
	}
	return string(k)
}
