package engine

import (
	"math"

	"github.com/ericogr/monster-arena/internal/game"
)

// ComputeDamage is the DEFENSE_SCALED formula: the attacker's scaling stat times
// the ability multiplier, mitigated by 100/(100+defense), rounded half away
// from zero and never below 1.
func ComputeDamage(attackerStat, defenderDefense int, ability game.Ability) int {
	if defenderDefense < 0 {
		defenderDefense = 0
	}
	attack := float64(attackerStat) * ability.PowerMultiplier
	raw := attack * 100 / float64(100+defenderDefense)
	dmg := int(math.Round(raw))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// ComputeTypedDamage is the TYPE_MATCHUP formula. The defender's resistances
// and weaknesses to the ability's damage type scale the raw attack by 0.75 or
// 1.25; defense is ignored. The result is floored and never below 1.
func ComputeTypedDamage(attackerStat int, defender game.CombatMonster, ability game.Ability) int {
	raw := float64(attackerStat) * ability.PowerMultiplier
	if ability.DamageType != "" {
		if contains(defender.Resistances, ability.DamageType) {
			raw *= 0.75
		} else if contains(defender.Weaknesses, ability.DamageType) {
			raw *= 1.25
		}
	}
	dmg := int(math.Floor(raw))
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// ComputeHealing scales the healer's stat by the ability multiplier.
func ComputeHealing(healerStat int, ability game.Ability) int {
	amount := int(math.Round(float64(healerStat) * ability.PowerMultiplier))
	if amount < 0 {
		amount = 0
	}
	return amount
}

// ApplyHealing returns the new HP after healing, clamped to [hp, maxHP].
func ApplyHealing(hp, maxHP, amount int) int {
	if amount <= 0 || hp >= maxHP {
		return hp
	}
	hp += amount
	if hp > maxHP {
		hp = maxHP
	}
	return hp
}

// damageFor resolves the damage of one hit using the formula the ability names.
func damageFor(attacker, target game.CombatMonster, ability game.Ability, effects []game.ActiveEffect) int {
	stat := EffectiveStat(attacker, ability.Scaling(), effects)
	switch ability.FormulaOrDefault() {
	case game.FormulaTypeMatchup:
		return ComputeTypedDamage(stat, target, ability)
	default:
		return ComputeDamage(stat, EffectiveStat(target, game.StatDefense, effects), ability)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
