package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/dedupe"
	"github.com/ericogr/monster-arena/internal/engine"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/logging"
	"github.com/ericogr/monster-arena/internal/session"
	"github.com/ericogr/monster-arena/internal/storage"
)

// BattleRepo is the persistence the battle use-cases need. Using a small
// interface simplifies testing.
type BattleRepo interface {
	GetProfile(ctx context.Context, userID string) (*game.PlayerProfile, error)
	EnsureProfile(ctx context.Context, userID string, starters []game.MonsterTemplate, tokens int) (*game.PlayerProfile, bool, error)
	ListMonsters(ctx context.Context, userID string) ([]game.MonsterRecord, error)
	GetMonstersByIDs(ctx context.Context, userID string, ids []uint) ([]game.MonsterRecord, error)
	RecordBattleEnd(ctx context.Context, userID, battleID string, result game.BattleEndResult) error
	ListBattleRecords(ctx context.Context, userID string, limit int) ([]game.BattleRecord, error)
}

// Catalog is the read-only monster and ability reference data.
type Catalog interface {
	AbilitiesFor(ids []string) ([]game.Ability, error)
	Templates() []game.MonsterTemplate
	Starters() []game.MonsterTemplate
}

// Config holds the tunables of the battle use-cases.
type Config struct {
	Rewards      engine.RewardTable
	BattleTokens int
	AITurnDelay  time.Duration
}

// Service implements the battle use-cases on top of the session manager.
type Service struct {
	repo     BattleRepo
	catalog  Catalog
	sessions *session.Manager
	cfg      Config
	tracer   trace.Tracer
}

// New builds the service and registers it as the manager's expiry hook.
func New(repo BattleRepo, catalog Catalog, sessions *session.Manager, cfg Config) *Service {
	if cfg.BattleTokens <= 0 {
		cfg.BattleTokens = constants.DefaultBattleTokens
	}
	if cfg.AITurnDelay <= 0 {
		cfg.AITurnDelay = constants.DefaultAIDelay
	}
	s := &Service{
		repo:     repo,
		catalog:  catalog,
		sessions: sessions,
		cfg:      cfg,
		tracer:   otel.Tracer("github.com/ericogr/monster-arena/internal/service"),
	}
	sessions.SetOnExpire(s.HandleExpiredSession)
	return s
}

// ProfileView is a player's profile with the monsters they own.
type ProfileView struct {
	Profile  game.PlayerProfile   `json:"profile"`
	Monsters []game.MonsterRecord `json:"monsters"`
	Recent   []game.BattleRecord  `json:"recent_battles"`
}

// Profile returns the user's profile, bootstrapping it on first visit.
func (s *Service) Profile(ctx context.Context, userID string) (ProfileView, error) {
	ctx, span := s.start(ctx, "Profile", userID, "")
	defer span.End()

	p, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return ProfileView{}, fail(span, err)
	}
	monsters, err := s.repo.ListMonsters(ctx, userID)
	if err != nil {
		return ProfileView{}, fail(span, fmt.Errorf("list monsters: %w", err))
	}
	recent, err := s.repo.ListBattleRecords(ctx, userID, 10)
	if err != nil {
		return ProfileView{}, fail(span, fmt.Errorf("list battles: %w", err))
	}
	return ProfileView{Profile: *p, Monsters: monsters, Recent: recent}, nil
}

// ensureProfile loads the user's profile. On a first visit it runs the
// bootstrap at most once per user at a time.
func (s *Service) ensureProfile(ctx context.Context, userID string) (*game.PlayerProfile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	v, err, shared := dedupe.ProfileGroup.Do(userID, func() (interface{}, error) {
		p, created, err := s.repo.EnsureProfile(ctx, userID, s.catalog.Starters(), s.cfg.BattleTokens)
		if err != nil {
			return nil, err
		}
		if created {
			logging.Info("player profile created", logging.Fields{
				constants.LogFieldUserID: userID,
				constants.LogFieldCount:  len(s.catalog.Starters()),
			})
		}
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	profile := *v.(*game.PlayerProfile)
	if shared {
		logging.Info("profile bootstrap shared", logging.Fields{constants.LogFieldUserID: userID})
	}
	return &profile, nil
}

// GetActiveBattle returns the user's live battle or nil.
func (s *Service) GetActiveBattle(ctx context.Context, userID string) (*session.BattleSession, error) {
	ctx, span := s.start(ctx, "GetActiveBattle", userID, "")
	defer span.End()
	bs, err := s.sessions.GetActiveBattle(ctx, userID)
	if err != nil {
		return nil, fail(span, err)
	}
	if s.settle(ctx, bs) {
		return nil, nil
	}
	return bs, nil
}

// GetBattle returns one owned battle.
func (s *Service) GetBattle(ctx context.Context, battleID, userID string) (*session.BattleSession, error) {
	ctx, span := s.start(ctx, "GetBattle", userID, battleID)
	defer span.End()
	bs, err := s.sessions.GetSession(ctx, battleID, userID)
	if err != nil {
		return nil, fail(span, err)
	}
	if bs == nil {
		return nil, fail(span, battleerr.ErrBattleNotFound.With("battle_id", battleID))
	}
	s.settle(ctx, bs)
	return bs, nil
}

// Stats reports session store statistics.
func (s *Service) Stats(ctx context.Context) (session.Stats, error) {
	return s.sessions.Stats(ctx)
}

// finish persists the end result of a terminal battle and frees the user for
// a new one. When persisting fails the session is kept so the expiry hook
// can record it later.
func (s *Service) finish(ctx context.Context, bs session.BattleSession) (game.BattleEndResult, error) {
	result := engine.EndResult(bs.State, s.cfg.Rewards)
	if err := s.repo.RecordBattleEnd(ctx, bs.UserID, bs.ID, result); err != nil {
		logging.Error("failed to record battle end", err, logging.Fields{
			constants.LogFieldBattleID: bs.ID,
			constants.LogFieldUserID:   bs.UserID,
		})
		return result, fmt.Errorf("record battle end: %w", err)
	}
	if err := s.sessions.EndSession(ctx, bs.ID); err != nil {
		return result, err
	}
	logging.Info("battle finished", logging.Fields{
		constants.LogFieldBattleID: bs.ID,
		constants.LogFieldUserID:   bs.UserID,
		constants.LogFieldStatus:   string(result.Status),
		constants.LogFieldTurn:     bs.State.Stats.TurnsPlayed,
	})
	return result, nil
}

// settle retries recording a finished battle whose result could not be
// persisted when it ended. It reports whether the session was closed.
func (s *Service) settle(ctx context.Context, bs *session.BattleSession) bool {
	if bs == nil || !bs.State.Status.Terminal() {
		return false
	}
	_, err := s.finish(ctx, *bs)
	return err == nil
}

func (s *Service) start(ctx context.Context, name, userID, battleID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("user.id", userID)}
	if battleID != "" {
		attrs = append(attrs, attribute.String("battle.id", battleID))
	}
	return s.tracer.Start(ctx, "service."+name, trace.WithAttributes(attrs...))
}

// fail records err on the span and returns it unchanged. Battle errors are
// caller mistakes and leave the span status untouched.
func fail(span trace.Span, err error) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	if be, ok := battleerr.As(err); ok {
		span.SetAttributes(attribute.String("error.code", string(be.Code)))
		return err
	}
	span.SetStatus(codes.Error, err.Error())
	return err
}
