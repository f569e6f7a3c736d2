package engine

import (
	"strconv"

	"github.com/ericogr/monster-arena/internal/game"
)

// Teams is the working view of both sides handed to the passive engine.
type Teams struct {
	Player       []game.CombatMonster
	AI           []game.CombatMonster
	PlayerActive int
	AIActive     int
}

// PassiveOutcome is what the passive engine produced. New effects carry a zero
// ID; the caller assigns identifiers when merging them into the battle.
type PassiveOutcome struct {
	Teams   Teams
	Effects []game.ActiveEffect
	Log     []string
}

func (t Teams) team(side game.Side) []game.CombatMonster {
	if side == game.SidePlayer {
		return t.Player
	}
	return t.AI
}

func (t Teams) active(side game.Side) int {
	if side == game.SidePlayer {
		return t.PlayerActive
	}
	return t.AIActive
}

// ApplyPassives fires every passive ability listening on trigger. Monsters are
// scanned player team first, then AI team, each in bench order. The inputs are
// never mutated; the returned teams and effects are fresh copies.
//
// ON_HP_THRESHOLD only considers the monster identified by damagedID and is
// suppressed while an effect it sourced on that monster is still active.
// END_OF_TURN only considers the side that just acted.
func ApplyPassives(trigger game.Trigger, teams Teams, effects []game.ActiveEffect, actingSide game.Side, damagedID string) PassiveOutcome {
	out := PassiveOutcome{
		Teams: Teams{
			Player:       cloneMonsters(teams.Player),
			AI:           cloneMonsters(teams.AI),
			PlayerActive: teams.PlayerActive,
			AIActive:     teams.AIActive,
		},
		Effects: append([]game.ActiveEffect{}, effects...),
	}
	for _, side := range []game.Side{game.SidePlayer, game.SideAI} {
		team := out.Teams.team(side)
		activeIdx := out.Teams.active(side)
		for i := range team {
			if team[i].Fainted() {
				continue
			}
			for _, ab := range team[i].Abilities {
				if !ab.IsPassive() || ab.Trigger != trigger {
					continue
				}
				if !passiveHolds(ab, team[i], i == activeIdx, side, actingSide, damagedID, out.Effects) {
					continue
				}
				out.firePassive(ab, team, i, activeIdx)
			}
		}
	}
	return out
}

func passiveHolds(ab game.Ability, m game.CombatMonster, isActive bool, side, actingSide game.Side, damagedID string, effects []game.ActiveEffect) bool {
	switch ab.Trigger {
	case game.TriggerOnHPThreshold:
		if m.ID != damagedID || m.MaxHP <= 0 {
			return false
		}
		if m.HP*100 > ab.TriggerValue*m.MaxHP {
			return false
		}
		return !hasSourcedEffect(effects, ab.ID, m.ID, game.TriggerOnHPThreshold)
	case game.TriggerEndOfTurn:
		if side != actingSide {
			return false
		}
		switch ab.ActivationScope {
		case game.ScopeBench:
			return true
		default:
			return isActive
		}
	}
	return false
}

func (out *PassiveOutcome) firePassive(ab game.Ability, team []game.CombatMonster, ownerIdx, activeIdx int) {
	owner := &team[ownerIdx]
	out.Log = append(out.Log, owner.Name+"'s "+ab.Name+" activated!")
	for _, eff := range ab.Effects {
		switch eff.Kind {
		case game.HealActiveAllyPercent:
			if activeIdx < 0 || activeIdx >= len(team) || team[activeIdx].Fainted() {
				continue
			}
			ally := &team[activeIdx]
			before := ally.HP
			ally.HP = ApplyHealing(ally.HP, ally.MaxHP, ally.MaxHP*eff.Percent/100)
			if healed := ally.HP - before; healed > 0 {
				out.Log = append(out.Log, ab.Name+" restores "+strconv.Itoa(healed)+" HP to "+ally.Name+".")
			}
		case game.GrantStatModifier:
			if ab.Trigger == game.TriggerEndOfTurn {
				for _, mod := range ab.Modifiers {
					out.Effects = dropSourcedStat(out.Effects, ab.ID, owner.ID, mod.Stat)
				}
			}
			for _, mod := range ab.Modifiers {
				out.Effects = append(out.Effects, newEffect(owner.ID, ab.ID, ab.Trigger, mod))
				out.Log = append(out.Log, owner.Name+" gains "+modifierLabel(mod)+".")
			}
		}
	}
}

func newEffect(targetID, abilityID string, trigger game.Trigger, mod game.StatModifier) game.ActiveEffect {
	return game.ActiveEffect{
		TargetID:        targetID,
		SourceAbilityID: abilityID,
		SourceTrigger:   trigger,
		Modifier:        mod,
		Remaining:       mod.Duration,
		Permanent:       mod.Duration <= 0,
	}
}

func hasSourcedEffect(effects []game.ActiveEffect, abilityID, targetID string, trigger game.Trigger) bool {
	for _, e := range effects {
		if e.SourceAbilityID == abilityID && e.TargetID == targetID && e.SourceTrigger == trigger {
			return true
		}
	}
	return false
}

// dropSourcedStat removes the effect a refreshing passive placed earlier.
func dropSourcedStat(effects []game.ActiveEffect, abilityID, targetID string, stat game.StatName) []game.ActiveEffect {
	out := effects[:0]
	for _, e := range effects {
		if e.SourceAbilityID == abilityID && e.TargetID == targetID && e.Modifier.Stat == stat {
			continue
		}
		out = append(out, e)
	}
	return out
}

func cloneMonsters(team []game.CombatMonster) []game.CombatMonster {
	out := make([]game.CombatMonster, len(team))
	for i := range team {
		out[i] = team[i].Clone()
	}
	return out
}
