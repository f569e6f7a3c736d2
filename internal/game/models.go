package game

import (
	"strconv"

	"gorm.io/gorm"
)

// MonsterTemplate is catalog data for a species. Templates are configured in
// the arena config file and never persisted; they seed AI opponents and the
// starter monsters granted to new players.
type MonsterTemplate struct {
	Key         string    `json:"key" yaml:"key"`
	Name        string    `json:"name" yaml:"name"`
	Level       int       `json:"level" yaml:"level"`
	Stats       BaseStats `json:"stats" yaml:"stats"`
	MaxHP       int       `json:"max_hp" yaml:"max_hp"`
	MaxMP       int       `json:"max_mp" yaml:"max_mp"`
	AbilityIDs  []string  `json:"abilities" yaml:"abilities"`
	Resistances []string  `json:"resistances,omitempty" yaml:"resistances,omitempty"`
	Weaknesses  []string  `json:"weaknesses,omitempty" yaml:"weaknesses,omitempty"`
}

// PowerLevel is the template's contribution to a team power level.
func (t MonsterTemplate) PowerLevel() int {
	return powerLevel(t.Stats, t.MaxHP, t.Level)
}

// MonsterRecord is a monster owned by a player. Evolution and upgrades are
// already folded into the stored stats; they stay fixed for a battle.
type MonsterRecord struct {
	gorm.Model
	OwnerID     string   `json:"-" gorm:"index"`
	TemplateKey string   `json:"template_key"`
	Name        string   `json:"name"`
	Level       int      `json:"level"`
	Evolution   int      `json:"evolution"`
	Power       int      `json:"power"`
	Defense     int      `json:"defense"`
	Speed       int      `json:"speed"`
	MaxHP       int      `json:"max_hp"`
	MaxMP       int      `json:"max_mp"`
	AbilityIDs  []string `json:"abilities" gorm:"serializer:json"`
	Resistances []string `json:"resistances" gorm:"serializer:json"`
	Weaknesses  []string `json:"weaknesses" gorm:"serializer:json"`
}

// TableName keeps player monsters in `player_monsters`.
func (MonsterRecord) TableName() string { return "player_monsters" }

// BaseStats returns the stored stats in combat form.
func (m MonsterRecord) BaseStats() BaseStats {
	return BaseStats{Power: m.Power, Defense: m.Defense, Speed: m.Speed}
}

// PowerLevel is the record's contribution to a team power level.
func (m MonsterRecord) PowerLevel() int {
	return powerLevel(m.BaseStats(), m.MaxHP, m.Level)
}

// CombatID is the identifier the monster carries inside a battle.
func (m MonsterRecord) CombatID() string {
	return "p" + strconv.FormatUint(uint64(m.ID), 10)
}

func powerLevel(s BaseStats, maxHP, level int) int {
	if level < 1 {
		level = 1
	}
	return s.Power + s.Defense + s.Speed + maxHP/4 + level*2
}

// PlayerProfile stores the rank and currency a player earns from battles.
type PlayerProfile struct {
	gorm.Model
	UserID        string `json:"user_id" gorm:"uniqueIndex"`
	RankXP        int    `json:"rank_xp"`
	Gold          int    `json:"gold"`
	BattleTokens  int    `json:"battle_tokens"`
	BattlesPlayed int    `json:"battles_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Forfeits      int    `json:"forfeits"`
	Abandoned     int    `json:"abandoned"`
}

// TableName stores profiles in `player_profiles`.
func (PlayerProfile) TableName() string { return "player_profiles" }

// BattleRecord is the persisted summary of an ended battle.
type BattleRecord struct {
	gorm.Model
	BattleID      string       `json:"battle_id" gorm:"uniqueIndex"`
	UserID        string       `json:"user_id" gorm:"index"`
	Status        BattleStatus `json:"status"`
	Winner        Side         `json:"winner"`
	Forfeited     bool         `json:"forfeited"`
	RankXP        int          `json:"rank_xp"`
	Gold          int          `json:"gold"`
	TurnsPlayed   int          `json:"turns_played"`
	DamageDealt   int          `json:"damage_dealt"`
	DamageTaken   int          `json:"damage_taken"`
	AbilitiesUsed int          `json:"abilities_used"`
}

// TableName stores battle summaries in `battle_records`.
func (BattleRecord) TableName() string { return "battle_records" }
