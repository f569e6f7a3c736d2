package engine

import (
	"strconv"

	"github.com/ericogr/monster-arena/internal/game"
)

// indexOf returns the team position of the monster with the given id, or -1.
func indexOf(team []game.CombatMonster, id string) int {
	for i := range team {
		if team[i].ID == id {
			return i
		}
	}
	return -1
}

// healthyBench returns the indexes of non-fainted, non-active monsters.
func healthyBench(team []game.CombatMonster, active int) []int {
	var out []int
	for i := range team {
		if i != active && !team[i].Fainted() {
			out = append(out, i)
		}
	}
	return out
}

func sideLabel(s game.Side) string {
	if s == game.SidePlayer {
		return "Player"
	}
	return "Opponent"
}

// modifierLabel renders a stat modifier for logs, e.g. "power +50%".
func modifierLabel(mod game.StatModifier) string {
	v := strconv.Itoa(mod.Value)
	if mod.Value >= 0 {
		v = "+" + v
	}
	if mod.Kind == game.ModifierPercentage {
		v += "%"
	}
	return string(mod.Stat) + " " + v
}

func snapshot(st *game.BattleState) []game.MonsterSnapshot {
	out := make([]game.MonsterSnapshot, 0, len(st.PlayerTeam)+len(st.AITeam))
	for _, team := range [][]game.CombatMonster{st.PlayerTeam, st.AITeam} {
		for _, m := range team {
			out = append(out, game.MonsterSnapshot{ID: m.ID, HP: m.HP, MP: m.MP})
		}
	}
	return out
}

// isSupport reports whether an ability helps its targets rather than hurting them.
func isSupport(ab game.Ability) bool {
	return ab.Heals || ab.PowerMultiplier <= 0
}
