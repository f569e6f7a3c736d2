package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericogr/monster-arena/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) EnsureProfile(ctx context.Context, userID string, starters []game.MonsterTemplate, tokens int) (*game.PlayerProfile, bool, error) {
	var p game.PlayerProfile
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&p).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		p = game.PlayerProfile{UserID: userID, BattleTokens: tokens}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if len(starters) > 0 {
			monsters := make([]game.MonsterRecord, 0, len(starters))
			for _, t := range starters {
				monsters = append(monsters, recordFromTemplate(userID, t))
			}
			if err := tx.Create(&monsters).Error; err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("ensure profile: %w", err)
	}
	return &p, created, nil
}

func recordFromTemplate(userID string, t game.MonsterTemplate) game.MonsterRecord {
	return game.MonsterRecord{
		OwnerID:     userID,
		TemplateKey: t.Key,
		Name:        t.Name,
		Level:       t.Level,
		Power:       t.Stats.Power,
		Defense:     t.Stats.Defense,
		Speed:       t.Stats.Speed,
		MaxHP:       t.MaxHP,
		MaxMP:       t.MaxMP,
		AbilityIDs:  append([]string(nil), t.AbilityIDs...),
		Resistances: append([]string(nil), t.Resistances...),
		Weaknesses:  append([]string(nil), t.Weaknesses...),
	}
}

func (r *sqliteRepository) GetProfile(ctx context.Context, userID string) (*game.PlayerProfile, error) {
	var p game.PlayerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) ListMonsters(ctx context.Context, userID string) ([]game.MonsterRecord, error) {
	var monsters []game.MonsterRecord
	if err := r.db.WithContext(ctx).Where("owner_id = ?", userID).Order("id").Find(&monsters).Error; err != nil {
		return nil, err
	}
	return monsters, nil
}

func (r *sqliteRepository) GetMonstersByIDs(ctx context.Context, userID string, ids []uint) ([]game.MonsterRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []game.MonsterRecord
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id IN ?", userID, ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]game.MonsterRecord, len(rows))
	for _, m := range rows {
		byID[m.ID] = m
	}
	out := make([]game.MonsterRecord, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *sqliteRepository) RecordBattleEnd(ctx context.Context, userID, battleID string, result game.BattleEndResult) error {
	gold := 0
	if result.Rewards.Gold != nil {
		gold = *result.Rewards.Gold
	}
	rec := game.BattleRecord{
		BattleID:      battleID,
		UserID:        userID,
		Status:        result.Status,
		Winner:        result.Winner,
		Forfeited:     result.Forfeited,
		RankXP:        result.Rewards.RankXP,
		Gold:          gold,
		TurnsPlayed:   result.Statistics.TurnsPlayed,
		DamageDealt:   result.Statistics.DamageDealt,
		DamageTaken:   result.Statistics.DamageTaken,
		AbilitiesUsed: result.Statistics.AbilitiesUsed,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "battle_id"}},
			DoNothing: true,
		}).Create(&rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var p game.PlayerProfile
		if err := tx.Where("user_id = ?", userID).First(&p).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			p = game.PlayerProfile{UserID: userID}
		}
		applyResult(&p, result.Status, result.Forfeited, result.Rewards.RankXP, gold)
		return tx.Save(&p).Error
	})
}

func applyResult(p *game.PlayerProfile, status game.BattleStatus, forfeited bool, xp, gold int) {
	p.RankXP += xp
	if p.RankXP < 0 {
		p.RankXP = 0
	}
	p.Gold += gold
	if p.BattleTokens > 0 {
		p.BattleTokens--
	}
	p.BattlesPlayed++
	switch {
	case status == game.StatusVictory:
		p.Wins++
	case status == game.StatusAbandoned:
		p.Abandoned++
	case forfeited:
		p.Forfeits++
	default:
		p.Losses++
	}
}

func (r *sqliteRepository) ListBattleRecords(ctx context.Context, userID string, limit int) ([]game.BattleRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []game.BattleRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
