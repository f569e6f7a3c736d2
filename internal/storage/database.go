package storage

import (
	"fmt"

	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the sqlite database and keeps the schema current via
// AutoMigrate. Catalog data (abilities, templates) lives in the config file
// and is never stored.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&game.PlayerProfile{}, &game.MonsterRecord{}, &game.BattleRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logging.Info("database ready", logging.Fields{constants.LogFieldPath: dataSourceName})
	return db, nil
}
