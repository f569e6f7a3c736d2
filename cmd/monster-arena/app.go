package main

import (
	"github.com/ericogr/monster-arena/internal/config"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/ericogr/monster-arena/internal/storage"
)

func loadConfigOrExit(env config.EnvConfig) *config.LoadedConfig {
	cfg, err := config.LoadConfig(env.ConfigPath)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": env.ConfigPath})
	}
	cfg.ApplyEnv(env)
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
