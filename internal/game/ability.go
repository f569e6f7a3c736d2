package game

// AbilityType discriminates the two ability variants.
type AbilityType string

const (
	AbilityActive  AbilityType = "ACTIVE"
	AbilityPassive AbilityType = "PASSIVE"
)

// StatName selects one of the three combat stats.
type StatName string

const (
	StatPower   StatName = "power"
	StatDefense StatName = "defense"
	StatSpeed   StatName = "speed"
)

// Valid reports whether s names a known stat.
func (s StatName) Valid() bool {
	switch s {
	case StatPower, StatDefense, StatSpeed:
		return true
	}
	return false
}

// ModifierKind tells the stat resolver how to apply a modifier value.
type ModifierKind string

const (
	ModifierFlat       ModifierKind = "FLAT"
	ModifierPercentage ModifierKind = "PERCENTAGE"
)

// TargetScope describes who an active ability lands on.
type TargetScope string

const (
	TargetOpponent TargetScope = "OPPONENT"
	TargetAnyAlly  TargetScope = "ANY_ALLY"
	TargetSelf     TargetScope = "SELF"
	TargetBench    TargetScope = "BENCH"
)

// DamageFormula selects the damage model used by a damaging ability.
type DamageFormula string

const (
	// FormulaDefenseScaled mitigates with 100/(100+defense). Default.
	FormulaDefenseScaled DamageFormula = "DEFENSE_SCALED"
	// FormulaTypeMatchup applies x0.75 on resistance and x1.25 on weakness.
	FormulaTypeMatchup DamageFormula = "TYPE_MATCHUP"
)

// Trigger is the phase hook a passive listens on.
type Trigger string

const (
	TriggerEndOfTurn     Trigger = "END_OF_TURN"
	TriggerOnHPThreshold Trigger = "ON_HP_THRESHOLD"
)

// ActivationScope restricts which position a passive owner must hold.
type ActivationScope string

const (
	ScopeSelf   ActivationScope = "SELF"
	ScopeActive ActivationScope = "ACTIVE"
	ScopeBench  ActivationScope = "BENCH"
)

// PassiveEffectKind is the closed set of things a passive can do when it fires.
type PassiveEffectKind string

const (
	// HealActiveAllyPercent heals the owner's active ally by Percent of its max HP.
	HealActiveAllyPercent PassiveEffectKind = "HEAL_ACTIVE_ALLY_PERCENT"
	// GrantStatModifier instantiates the ability's Modifiers on the owner.
	GrantStatModifier PassiveEffectKind = "GRANT_STAT_MODIFIER"
)

// PassiveEffect is one structured behavior of a passive ability.
type PassiveEffect struct {
	Kind    PassiveEffectKind `json:"kind" yaml:"kind"`
	Percent int               `json:"percent,omitempty" yaml:"percent,omitempty"`
}

// StatModifier is the catalog description of a stat change. Value is a whole
// number percent for PERCENTAGE modifiers (50 = +50%). A Duration of zero or
// less never expires.
type StatModifier struct {
	Stat     StatName     `json:"stat" yaml:"stat"`
	Kind     ModifierKind `json:"kind" yaml:"kind"`
	Value    int          `json:"value" yaml:"value"`
	Duration int          `json:"duration" yaml:"duration"`
}

// ConditionKind is a start-of-turn status layered on top of stat modifiers.
type ConditionKind string

const (
	ConditionPoison    ConditionKind = "POISON"
	ConditionParalysis ConditionKind = "PARALYSIS"
)

// StatusCondition directly alters HP (poison) or skips the action (paralysis)
// at the start of the afflicted side's turn.
type StatusCondition struct {
	Kind    ConditionKind `json:"kind" yaml:"kind"`
	Percent int           `json:"percent,omitempty" yaml:"percent,omitempty"`
	Turns   int           `json:"turns" yaml:"turns"`
}

// Ability is immutable reference data. Fields after Inflicts only matter for
// PASSIVE abilities.
type Ability struct {
	ID              string           `json:"id" yaml:"id"`
	Name            string           `json:"name" yaml:"name"`
	Description     string           `json:"description" yaml:"description"`
	Type            AbilityType      `json:"type" yaml:"type"`
	Cost            int              `json:"cost" yaml:"cost"`
	PowerMultiplier float64          `json:"power_multiplier" yaml:"power_multiplier"`
	ScalingStat     StatName         `json:"scaling_stat,omitempty" yaml:"scaling_stat,omitempty"`
	Target          TargetScope      `json:"target,omitempty" yaml:"target,omitempty"`
	Heals           bool             `json:"heals,omitempty" yaml:"heals,omitempty"`
	Formula         DamageFormula    `json:"formula,omitempty" yaml:"formula,omitempty"`
	DamageType      string           `json:"damage_type,omitempty" yaml:"damage_type,omitempty"`
	Modifiers       []StatModifier   `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Inflicts        *StatusCondition `json:"inflicts,omitempty" yaml:"inflicts,omitempty"`
	Trigger         Trigger          `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	ActivationScope ActivationScope  `json:"activation_scope,omitempty" yaml:"activation_scope,omitempty"`
	TriggerValue    int              `json:"trigger_value,omitempty" yaml:"trigger_value,omitempty"`
	Effects         []PassiveEffect  `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// IsPassive reports whether the ability self-activates.
func (a Ability) IsPassive() bool { return a.Type == AbilityPassive }

// Scaling returns the stat driving the ability's output, defaulting to power.
func (a Ability) Scaling() StatName {
	if a.ScalingStat == "" {
		return StatPower
	}
	return a.ScalingStat
}

// TargetScopeOrDefault returns the target scope, defaulting to a single opponent.
func (a Ability) TargetScopeOrDefault() TargetScope {
	if a.Target == "" {
		return TargetOpponent
	}
	return a.Target
}

// FormulaOrDefault returns the damage formula, defaulting to DEFENSE_SCALED.
func (a Ability) FormulaOrDefault() DamageFormula {
	if a.Formula == "" {
		return FormulaDefenseScaled
	}
	return a.Formula
}

// Clone copies the slices and pointers so the result can be mutated freely.
func (a Ability) Clone() Ability {
	out := a
	if a.Modifiers != nil {
		out.Modifiers = append([]StatModifier(nil), a.Modifiers...)
	}
	if a.Effects != nil {
		out.Effects = append([]PassiveEffect(nil), a.Effects...)
	}
	if a.Inflicts != nil {
		c := *a.Inflicts
		out.Inflicts = &c
	}
	return out
}
