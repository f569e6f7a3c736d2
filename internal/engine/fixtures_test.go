package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ericogr/monster-arena/internal/game"
)

var (
	biteAbility  = game.Ability{ID: "bite", Name: "Bite", Type: game.AbilityActive, PowerMultiplier: 0.48}
	blastAbility = game.Ability{ID: "blast", Name: "Blast", Type: game.AbilityActive, Cost: 10, PowerMultiplier: 1.5}
	mendAbility  = game.Ability{ID: "mend", Name: "Mend", Type: game.AbilityActive, Cost: 5, PowerMultiplier: 0.5, Heals: true, Target: game.TargetAnyAlly}

	hardenAbility = game.Ability{
		ID: "harden", Name: "Harden", Type: game.AbilityActive, Target: game.TargetSelf,
		Modifiers: []game.StatModifier{{Stat: game.StatDefense, Kind: game.ModifierFlat, Value: 10, Duration: 2}},
	}

	lastStandAbility = game.Ability{
		ID: "last_stand", Name: "Last Stand", Type: game.AbilityPassive,
		Trigger: game.TriggerOnHPThreshold, TriggerValue: 50,
		Modifiers: []game.StatModifier{{Stat: game.StatDefense, Kind: game.ModifierPercentage, Value: 50, Duration: 3}},
		Effects:   []game.PassiveEffect{{Kind: game.GrantStatModifier}},
	}

	auraAbility = game.Ability{
		ID: "aura", Name: "Healing Aura", Type: game.AbilityPassive,
		Trigger: game.TriggerEndOfTurn, ActivationScope: game.ScopeBench,
		Effects: []game.PassiveEffect{{Kind: game.HealActiveAllyPercent, Percent: 10}},
	}
)

func newMonster(id, name string, power, defense, hp int, abilities ...game.Ability) game.CombatMonster {
	return game.CombatMonster{
		ID:        id,
		Name:      name,
		Level:     5,
		Stats:     game.BaseStats{Power: power, Defense: defense, Speed: 10},
		HP:        hp,
		MaxHP:     hp,
		MP:        20,
		MaxMP:     20,
		Abilities: abilities,
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func countLines(lines []string, substr string) int {
	n := 0
	for _, l := range lines {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

func useAbility(id, target string) game.Action {
	return game.Action{Type: game.ActionUseAbility, Payload: game.ActionPayload{AbilityID: id, TargetID: target}}
}
