package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/engine"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/keys"
	"gopkg.in/yaml.v3"
)

type rawConfig struct {
	Abilities        []game.Ability         `json:"abilities" yaml:"abilities"`
	MonsterTemplates []game.MonsterTemplate `json:"monster_templates" yaml:"monster_templates"`
	StarterMonsters  []string               `json:"starter_monsters" yaml:"starter_monsters"`
	Rewards          *engine.RewardTable    `json:"rewards" yaml:"rewards"`
	RecordHistory    bool                   `json:"record_history" yaml:"record_history"`
	BattleTokens     *int                   `json:"battle_tokens" yaml:"battle_tokens"`
	Server           *struct {
		Address string `json:"address" yaml:"address"`
	} `json:"server" yaml:"server"`
	Session *struct {
		TTL           string `json:"ttl" yaml:"ttl"`
		SweepInterval string `json:"sweep_interval" yaml:"sweep_interval"`
		AITurnDelay   string `json:"ai_turn_delay" yaml:"ai_turn_delay"`
	} `json:"session" yaml:"session"`
}

// LoadedConfig is the validated arena catalog plus server settings.
type LoadedConfig struct {
	Abilities        []game.Ability
	MonsterTemplates []game.MonsterTemplate
	StarterMonsters  []string
	Rewards          engine.RewardTable
	RecordHistory    bool
	// BattleTokens is the token balance a new profile starts with.
	BattleTokens  int
	ServerAddress string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	AITurnDelay   time.Duration

	abilities map[string]game.Ability
	templates map[string]game.MonsterTemplate
}

// LoadConfig reads the catalog file at path. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON. The catalog is validated as a whole:
// ids must be unique and every reference must resolve.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rc)
	default:
		err = json.Unmarshal(b, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg, err := build(rc)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func build(rc rawConfig) (*LoadedConfig, error) {
	if len(rc.Abilities) == 0 {
		return nil, fmt.Errorf("abilities is empty (provide 'abilities' array)")
	}
	if len(rc.MonsterTemplates) == 0 {
		return nil, fmt.Errorf("monster_templates is empty (provide 'monster_templates' array)")
	}

	cfg := &LoadedConfig{
		Rewards:       engine.DefaultRewards,
		RecordHistory: rc.RecordHistory,
		BattleTokens:  constants.DefaultBattleTokens,
		ServerAddress: constants.DefaultServerAddress,
		SessionTTL:    constants.DefaultSessionTTL,
		SweepInterval: constants.DefaultSweepInterval,
		AITurnDelay:   constants.DefaultAIDelay,
		abilities:     make(map[string]game.Ability, len(rc.Abilities)),
		templates:     make(map[string]game.MonsterTemplate, len(rc.MonsterTemplates)),
	}

	for _, a := range rc.Abilities {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("ability entry missing 'name'")
		}
		if a.ID == "" {
			a.ID = keys.TemplateKey(a.Name)
		}
		if _, exists := cfg.abilities[a.ID]; exists {
			return nil, fmt.Errorf("duplicate ability id '%s'", a.ID)
		}
		if err := validateAbility(a); err != nil {
			return nil, fmt.Errorf("ability '%s': %w", a.ID, err)
		}
		cfg.abilities[a.ID] = a
		cfg.Abilities = append(cfg.Abilities, a)
	}

	for _, t := range rc.MonsterTemplates {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("monster template entry missing 'name'")
		}
		if t.Key == "" {
			t.Key = keys.TemplateKey(t.Name)
		}
		if _, exists := cfg.templates[t.Key]; exists {
			return nil, fmt.Errorf("duplicate monster template key '%s'", t.Key)
		}
		if t.MaxHP <= 0 {
			return nil, fmt.Errorf("monster template '%s': max_hp must be positive", t.Key)
		}
		if t.Level < 1 {
			t.Level = 1
		}
		if len(t.AbilityIDs) == 0 {
			return nil, fmt.Errorf("monster template '%s': no abilities", t.Key)
		}
		for _, id := range t.AbilityIDs {
			if _, ok := cfg.abilities[id]; !ok {
				return nil, fmt.Errorf("monster template '%s': unknown ability '%s'", t.Key, id)
			}
		}
		cfg.templates[t.Key] = t
		cfg.MonsterTemplates = append(cfg.MonsterTemplates, t)
	}

	if len(rc.StarterMonsters) == 0 {
		return nil, fmt.Errorf("starter_monsters is empty")
	}
	for _, key := range rc.StarterMonsters {
		if _, ok := cfg.templates[key]; !ok {
			return nil, fmt.Errorf("starter monster '%s' is not a monster template", key)
		}
	}
	cfg.StarterMonsters = rc.StarterMonsters

	if rc.Rewards != nil {
		cfg.Rewards = *rc.Rewards
	}
	if rc.BattleTokens != nil {
		if *rc.BattleTokens < 0 {
			return nil, fmt.Errorf("battle_tokens must not be negative")
		}
		cfg.BattleTokens = *rc.BattleTokens
	}
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.Session != nil {
		var err error
		if cfg.SessionTTL, err = parseDuration("session.ttl", rc.Session.TTL, cfg.SessionTTL); err != nil {
			return nil, err
		}
		if cfg.SweepInterval, err = parseDuration("session.sweep_interval", rc.Session.SweepInterval, cfg.SweepInterval); err != nil {
			return nil, err
		}
		if cfg.AITurnDelay, err = parseDuration("session.ai_turn_delay", rc.Session.AITurnDelay, cfg.AITurnDelay); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func parseDuration(field, raw string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", field)
	}
	return d, nil
}

func validateAbility(a game.Ability) error {
	if a.Cost < 0 {
		return fmt.Errorf("cost must not be negative")
	}
	if a.PowerMultiplier < 0 {
		return fmt.Errorf("power_multiplier must not be negative")
	}
	if a.ScalingStat != "" && !a.ScalingStat.Valid() {
		return fmt.Errorf("unknown scaling_stat '%s'", a.ScalingStat)
	}
	for _, m := range a.Modifiers {
		if !m.Stat.Valid() {
			return fmt.Errorf("modifier with unknown stat '%s'", m.Stat)
		}
		if m.Kind != game.ModifierFlat && m.Kind != game.ModifierPercentage {
			return fmt.Errorf("modifier with unknown kind '%s'", m.Kind)
		}
	}
	switch a.Type {
	case game.AbilityActive:
		return validateActive(a)
	case game.AbilityPassive:
		return validatePassive(a)
	}
	return fmt.Errorf("unknown type '%s'", a.Type)
}

func validateActive(a game.Ability) error {
	switch a.TargetScopeOrDefault() {
	case game.TargetOpponent, game.TargetAnyAlly, game.TargetSelf, game.TargetBench:
	default:
		return fmt.Errorf("unknown target '%s'", a.Target)
	}
	switch a.FormulaOrDefault() {
	case game.FormulaDefenseScaled:
	case game.FormulaTypeMatchup:
		if a.DamageType == "" {
			return fmt.Errorf("formula TYPE_MATCHUP requires 'damage_type'")
		}
	default:
		return fmt.Errorf("unknown formula '%s'", a.Formula)
	}
	if a.Inflicts != nil {
		switch a.Inflicts.Kind {
		case game.ConditionPoison, game.ConditionParalysis:
		default:
			return fmt.Errorf("unknown condition '%s'", a.Inflicts.Kind)
		}
		if a.Inflicts.Turns <= 0 {
			return fmt.Errorf("inflicted condition needs a positive 'turns'")
		}
	}
	if len(a.Effects) > 0 || a.Trigger != "" {
		return fmt.Errorf("active abilities cannot declare a trigger or passive effects")
	}
	return nil
}

func validatePassive(a game.Ability) error {
	switch a.Trigger {
	case game.TriggerEndOfTurn:
		switch a.ActivationScope {
		case "", game.ScopeSelf, game.ScopeActive, game.ScopeBench:
		default:
			return fmt.Errorf("unknown activation_scope '%s'", a.ActivationScope)
		}
	case game.TriggerOnHPThreshold:
		if a.TriggerValue < 1 || a.TriggerValue > 100 {
			return fmt.Errorf("trigger_value must be an HP percent between 1 and 100")
		}
	default:
		return fmt.Errorf("passive needs a trigger (END_OF_TURN or ON_HP_THRESHOLD)")
	}
	if len(a.Effects) == 0 {
		return fmt.Errorf("passive declares no effects")
	}
	grants := false
	for _, e := range a.Effects {
		switch e.Kind {
		case game.HealActiveAllyPercent:
			if e.Percent <= 0 {
				return fmt.Errorf("%s needs a positive 'percent'", e.Kind)
			}
		case game.GrantStatModifier:
			grants = true
		default:
			return fmt.Errorf("unknown passive effect '%s'", e.Kind)
		}
	}
	if grants && len(a.Modifiers) == 0 {
		return fmt.Errorf("%s without modifiers", game.GrantStatModifier)
	}
	if !grants && len(a.Modifiers) > 0 {
		return fmt.Errorf("modifiers declared without a %s effect", game.GrantStatModifier)
	}
	return nil
}

// Ability returns the catalog ability with the given id.
func (c *LoadedConfig) Ability(id string) (game.Ability, bool) {
	a, ok := c.abilities[id]
	return a, ok
}

// Template returns the monster template with the given key.
func (c *LoadedConfig) Template(key string) (game.MonsterTemplate, bool) {
	t, ok := c.templates[key]
	return t, ok
}

// AbilitiesFor resolves ability ids to independent copies of catalog entries,
// in the given order.
func (c *LoadedConfig) AbilitiesFor(ids []string) ([]game.Ability, error) {
	out := make([]game.Ability, 0, len(ids))
	for _, id := range ids {
		a, ok := c.Ability(id)
		if !ok {
			return nil, fmt.Errorf("unknown ability '%s'", id)
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

// Templates returns every monster template in file order.
func (c *LoadedConfig) Templates() []game.MonsterTemplate {
	return append([]game.MonsterTemplate(nil), c.MonsterTemplates...)
}

// Starters returns the templates granted to a new player.
func (c *LoadedConfig) Starters() []game.MonsterTemplate {
	out := make([]game.MonsterTemplate, 0, len(c.StarterMonsters))
	for _, key := range c.StarterMonsters {
		if t, ok := c.Template(key); ok {
			out = append(out, t)
		}
	}
	return out
}
