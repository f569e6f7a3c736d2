package engine

import (
	"math"

	"github.com/ericogr/monster-arena/internal/game"
)

// EffectiveStat resolves a monster's stat against the active effects bound to
// it. FLAT values are summed onto the base first, then every PERCENTAGE value
// multiplies the running total in turn. The result is floored and never
// drops below 1.
func EffectiveStat(m game.CombatMonster, stat game.StatName, effects []game.ActiveEffect) int {
	total := m.Stats.Get(stat)
	for _, e := range effects {
		if e.TargetID == m.ID && e.Modifier.Stat == stat && e.Modifier.Kind == game.ModifierFlat {
			total += e.Modifier.Value
		}
	}
	v := float64(total)
	for _, e := range effects {
		if e.TargetID == m.ID && e.Modifier.Stat == stat && e.Modifier.Kind == game.ModifierPercentage {
			v *= 1 + float64(e.Modifier.Value)/100
		}
	}
	out := int(math.Floor(v))
	if out < 1 {
		out = 1
	}
	return out
}

// effectsOn returns the effects currently bound to the monster with the given id.
func effectsOn(effects []game.ActiveEffect, id string) []game.ActiveEffect {
	var out []game.ActiveEffect
	for _, e := range effects {
		if e.TargetID == id {
			out = append(out, e)
		}
	}
	return out
}

// decrementEffects ages every timed effect by one turn and drops the expired
// ones along with anything bound to a fainted monster.
func decrementEffects(st *game.BattleState) {
	kept := st.Effects[:0]
	for _, e := range st.Effects {
		if m, _, ok := st.Find(e.TargetID); !ok || m.Fainted() {
			continue
		}
		if !e.Permanent {
			e.Remaining--
			if e.Remaining <= 0 {
				continue
			}
		}
		kept = append(kept, e)
	}
	st.Effects = kept
}
