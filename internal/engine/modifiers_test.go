package engine

import (
	"testing"

	"github.com/ericogr/monster-arena/internal/game"
	"pgregory.net/rapid"
)

func TestEffectiveStat_FlatBeforePercentage(t *testing.T) {
	m := newMonster("p1", "Ember", 100, 10, 100)
	effects := []game.ActiveEffect{
		{TargetID: "p1", Modifier: game.StatModifier{Stat: game.StatPower, Kind: game.ModifierPercentage, Value: 50}},
		{TargetID: "p1", Modifier: game.StatModifier{Stat: game.StatPower, Kind: game.ModifierFlat, Value: 20}},
	}
	if got := EffectiveStat(m, game.StatPower, effects); got != 180 {
		t.Fatalf("expected 180, got %d", got)
	}
}

func TestEffectiveStat_PercentagesCompound(t *testing.T) {
	m := newMonster("p1", "Ember", 100, 10, 100)
	effects := []game.ActiveEffect{
		{TargetID: "p1", Modifier: game.StatModifier{Stat: game.StatPower, Kind: game.ModifierPercentage, Value: 50}},
		{TargetID: "p1", Modifier: game.StatModifier{Stat: game.StatPower, Kind: game.ModifierPercentage, Value: 50}},
	}
	// 100 * 1.5 * 1.5, not 100 * 2
	if got := EffectiveStat(m, game.StatPower, effects); got != 225 {
		t.Fatalf("expected 225, got %d", got)
	}
}

func TestEffectiveStat_IgnoresOtherTargetsAndStats(t *testing.T) {
	m := newMonster("p1", "Ember", 40, 10, 100)
	effects := []game.ActiveEffect{
		{TargetID: "p2", Modifier: game.StatModifier{Stat: game.StatPower, Kind: game.ModifierFlat, Value: 100}},
		{TargetID: "p1", Modifier: game.StatModifier{Stat: game.StatDefense, Kind: game.ModifierFlat, Value: 100}},
	}
	if got := EffectiveStat(m, game.StatPower, effects); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
}

func TestEffectiveStat_NeverBelowOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.IntRange(0, 500).Draw(t, "base")
		m := newMonster("p1", "Ember", base, base, 100)
		n := rapid.IntRange(0, 4).Draw(t, "effects")
		effects := make([]game.ActiveEffect, 0, n)
		for i := 0; i < n; i++ {
			kind := rapid.SampledFrom([]game.ModifierKind{game.ModifierFlat, game.ModifierPercentage}).Draw(t, "kind")
			effects = append(effects, game.ActiveEffect{
				TargetID: "p1",
				Modifier: game.StatModifier{Stat: game.StatPower, Kind: kind, Value: rapid.IntRange(-300, 300).Draw(t, "value")},
			})
		}
		if got := EffectiveStat(m, game.StatPower, effects); got < 1 {
			t.Fatalf("effective stat %d below 1", got)
		}
	})
}

func TestDecrementEffects_ExpiresAndKeepsPermanent(t *testing.T) {
	st := game.NewBattleState(
		[]game.CombatMonster{newMonster("p1", "Ember", 10, 10, 50)},
		[]game.CombatMonster{newMonster("a1", "Shade", 10, 10, 50)},
	)
	st.Effects = []game.ActiveEffect{
		{ID: 1, TargetID: "p1", Remaining: 1},
		{ID: 2, TargetID: "p1", Remaining: 2},
		{ID: 3, TargetID: "a1", Permanent: true},
	}
	decrementEffects(&st)
	if len(st.Effects) != 2 || st.Effects[0].ID != 2 || st.Effects[0].Remaining != 1 || st.Effects[1].ID != 3 {
		t.Fatalf("unexpected effects after decrement: %+v", st.Effects)
	}
}
