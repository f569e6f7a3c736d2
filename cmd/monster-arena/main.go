package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ericogr/monster-arena/internal/api"
	"github.com/ericogr/monster-arena/internal/config"
	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/ericogr/monster-arena/internal/service"
	"github.com/ericogr/monster-arena/internal/session"
	"github.com/ericogr/monster-arena/internal/telemetry"
)

func main() {
	issueFor := flag.String("issue-token", "", "print a session token for this user id and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of tokens printed by -issue-token")
	flag.Parse()
	defer logging.Sync()

	env, err := config.LoadEnv()
	if err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	verifier, err := api.NewTokenVerifier(env.SessionSecret)
	if err != nil {
		logging.Fatal("Failed to set up session tokens", err, nil)
	}
	if *issueFor != "" {
		if env.SessionSecret == "" {
			logging.Fatal("Session secret required to issue tokens", nil, logging.Fields{"var": constants.EnvSessionSecret})
		}
		token, err := verifier.Issue(*issueFor, *issueFor, *tokenTTL)
		if err != nil {
			logging.Fatal("Failed to issue token", err, nil)
		}
		fmt.Println(token)
		return
	}
	if env.SessionSecret == "" {
		logging.Warn("Session secret not set, using a temporary key", logging.Fields{"var": constants.EnvSessionSecret})
	}

	cfg := loadConfigOrExit(env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "monster-arena", env.OTelEndpoint)
	if err != nil {
		logging.Fatal("Failed to set up tracing", err, nil)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logging.Error("tracing shutdown failed", err, nil)
		}
	}()

	repo := createRepositoryOrExit(env.DatabasePath)
	sessions := session.NewManager(session.NewMemoryStore(), session.Options{
		TTL:           cfg.SessionTTL,
		SweepInterval: cfg.SweepInterval,
		RecordHistory: cfg.RecordHistory,
	})
	svc := service.New(repo, cfg, sessions, service.Config{
		Rewards:      cfg.Rewards,
		BattleTokens: cfg.BattleTokens,
		AITurnDelay:  cfg.AITurnDelay,
	})
	router := api.NewRouter(api.NewBattleHandler(svc, cfg.Abilities), verifier)

	if err := serve(ctx, cfg.ServerAddress, router, sessions); err != nil {
		logging.Error("Server stopped", err, nil)
		stop()
		logging.Sync()
		os.Exit(1)
	}
}
