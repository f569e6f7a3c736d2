package service

import (
	"fmt"
	"sort"

	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/keys"
)

// playerTeam turns owned monsters into fresh combatants with full HP and MP
// and their abilities snapshotted from the catalog.
func playerTeam(catalog Catalog, records []game.MonsterRecord) ([]game.CombatMonster, error) {
	team := make([]game.CombatMonster, 0, len(records))
	for _, r := range records {
		abilities, err := catalog.AbilitiesFor(r.AbilityIDs)
		if err != nil {
			return nil, fmt.Errorf("monster %s: %w", r.Name, err)
		}
		team = append(team, game.CombatMonster{
			ID:          r.CombatID(),
			Name:        r.Name,
			Side:        game.SidePlayer,
			Level:       r.Level,
			Stats:       r.BaseStats(),
			HP:          r.MaxHP,
			MaxHP:       r.MaxHP,
			MP:          r.MaxMP,
			MaxMP:       r.MaxMP,
			Abilities:   abilities,
			Resistances: append([]string(nil), r.Resistances...),
			Weaknesses:  append([]string(nil), r.Weaknesses...),
		})
	}
	return team, nil
}

// teamPowerLevel sums the power level of every record.
func teamPowerLevel(records []game.MonsterRecord) int {
	tpl := 0
	for _, r := range records {
		tpl += r.PowerLevel()
	}
	return tpl
}

// matchOpponents picks size templates whose power level is closest to the
// per-slot share of tpl. Each template is used at most once while unused
// ones remain.
func matchOpponents(templates []game.MonsterTemplate, tpl, size int) ([]game.MonsterTemplate, error) {
	if len(templates) == 0 || size <= 0 {
		return nil, battleerr.Validation(battleerr.CodeNoOpponentAvailable, "no opponent templates configured")
	}
	target := tpl / size
	ranked := append([]game.MonsterTemplate(nil), templates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return distance(ranked[i].PowerLevel(), target) < distance(ranked[j].PowerLevel(), target)
	})
	out := make([]game.MonsterTemplate, 0, size)
	for len(out) < size {
		out = append(out, ranked[len(out)%len(ranked)])
	}
	return out, nil
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// aiTeam builds the opposing combatants from the matched templates.
func aiTeam(catalog Catalog, templates []game.MonsterTemplate) ([]game.CombatMonster, error) {
	team := make([]game.CombatMonster, 0, len(templates))
	for i, t := range templates {
		abilities, err := catalog.AbilitiesFor(t.AbilityIDs)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", t.Key, err)
		}
		team = append(team, game.CombatMonster{
			ID:          keys.AIMonsterID(i + 1),
			Name:        t.Name,
			Side:        game.SideAI,
			Level:       t.Level,
			Stats:       t.Stats,
			HP:          t.MaxHP,
			MaxHP:       t.MaxHP,
			MP:          t.MaxMP,
			MaxMP:       t.MaxMP,
			Abilities:   abilities,
			Resistances: append([]string(nil), t.Resistances...),
			Weaknesses:  append([]string(nil), t.Weaknesses...),
		})
	}
	return team, nil
}
