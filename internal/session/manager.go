package session

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/constants"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/logging"
)

// Options configures a Manager. Zero durations fall back to the defaults.
type Options struct {
	TTL           time.Duration
	SweepInterval time.Duration
	RecordHistory bool
	// OnExpire receives every session evicted because its expiry passed,
	// whether found by an access or by the sweeper.
	OnExpire func(ctx context.Context, s BattleSession)
}

// Stats is the observability snapshot of the session store.
type Stats struct {
	ActiveSessions int    `json:"active_sessions"`
	ActiveUsers    int    `json:"active_users"`
	MemoryUsage    uint64 `json:"memory_usage"`
}

// Manager owns the battle sessions. It enforces one live battle per user,
// sliding expiry and one in-flight turn per battle.
type Manager struct {
	store         Store
	ttl           time.Duration
	sweepInterval time.Duration
	recordHistory bool
	onExpire      func(context.Context, BattleSession)
	now           func() time.Time

	createMu sync.Mutex
	locksMu  sync.Mutex
	locks    map[string]*sync.Mutex
}

func NewManager(store Store, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = constants.DefaultSessionTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = constants.DefaultSweepInterval
	}
	return &Manager{
		store:         store,
		ttl:           opts.TTL,
		sweepInterval: opts.SweepInterval,
		recordHistory: opts.RecordHistory,
		onExpire:      opts.OnExpire,
		now:           time.Now,
		locks:         make(map[string]*sync.Mutex),
	}
}

// WithClock replaces the time source, for tests.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	m.now = clock
	return m
}

// SetOnExpire installs the expiry hook after construction.
func (m *Manager) SetOnExpire(fn func(context.Context, BattleSession)) {
	m.onExpire = fn
}

// CreateSession starts a battle for userID. It fails with a conflict error
// while the user still owns a live session.
func (m *Manager) CreateSession(ctx context.Context, userID string, playerTeam, aiTeam []game.CombatMonster) (BattleSession, error) {
	if len(playerTeam) == 0 || len(aiTeam) == 0 {
		return BattleSession{}, battleerr.Validation(battleerr.CodeEmptyTeam, "both teams need at least one monster")
	}
	m.createMu.Lock()
	defer m.createMu.Unlock()

	now := m.now()
	id, ok, err := m.store.ForUser(ctx, userID)
	if err != nil {
		return BattleSession{}, fmt.Errorf("lookup user session: %w", err)
	}
	if ok {
		existing, found, err := m.store.Get(ctx, id)
		if err != nil {
			return BattleSession{}, fmt.Errorf("load session: %w", err)
		}
		if found && !existing.Expired(now) {
			return BattleSession{}, battleerr.ErrActiveBattleExists.With("battle_id", existing.ID)
		}
		if found && !m.expire(ctx, existing) {
			return BattleSession{}, battleerr.ErrActiveBattleExists.With("battle_id", existing.ID)
		}
	}

	st := game.NewBattleState(playerTeam, aiTeam)
	st.RecordHistory = m.recordHistory
	s := BattleSession{
		ID:           m.store.NewID(),
		UserID:       userID,
		State:        st,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if err := m.store.Put(ctx, s); err != nil {
		return BattleSession{}, fmt.Errorf("store session: %w", err)
	}
	logging.Info("battle session created", logging.Fields{
		constants.LogFieldBattleID: s.ID,
		constants.LogFieldUserID:   userID,
	})
	return s, nil
}

// GetSession returns the session and slides its expiry. A missing or expired
// session yields nil without error; an expired one is evicted on the way. A
// session owned by someone else yields an authorization error. Finished
// battles keep their expiry so an unrecorded result still reaches the
// expiry hook.
func (m *Manager) GetSession(ctx context.Context, battleID, userID string) (*BattleSession, error) {
	return m.load(ctx, battleID, userID, false)
}

// load reads an owned session. held is true when the caller already holds
// the battle lock. Only the timestamps are written back, so a concurrent
// turn or end is never overwritten by a stale read.
func (m *Manager) load(ctx context.Context, battleID, userID string, held bool) (*BattleSession, error) {
	s, ok, err := m.store.Get(ctx, battleID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	now := m.now()
	if s.Expired(now) {
		if held {
			m.evict(ctx, s)
		} else {
			m.expire(ctx, s)
		}
		return nil, nil
	}
	if s.UserID != userID {
		return nil, battleerr.ErrNotSessionOwner.With("battle_id", battleID)
	}
	if s.State.Status.Terminal() {
		return &s, nil
	}
	s.LastActivity = now
	s.ExpiresAt = now.Add(m.ttl)
	found, err := m.store.Touch(ctx, battleID, s.LastActivity, s.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

// UpdateSession replaces the state of an owned, live session.
func (m *Manager) UpdateSession(ctx context.Context, battleID, userID string, state game.BattleState) error {
	_, err := m.WithSession(ctx, battleID, userID, func(BattleSession) (game.BattleState, error) {
		return state, nil
	})
	return err
}

// WithSession runs fn as a critical section for one battle: it loads the
// session, lets fn compute the next state and stores it. Concurrent calls for
// the same battle run one at a time; other battles are not blocked. When fn
// fails nothing is written.
func (m *Manager) WithSession(ctx context.Context, battleID, userID string, fn func(BattleSession) (game.BattleState, error)) (BattleSession, error) {
	l := m.lockFor(battleID)
	l.Lock()
	defer l.Unlock()

	s, err := m.load(ctx, battleID, userID, true)
	if err != nil {
		return BattleSession{}, err
	}
	if s == nil {
		return BattleSession{}, battleerr.ErrBattleNotFound.With("battle_id", battleID)
	}
	next, err := fn(*s)
	if err != nil {
		return *s, err
	}
	s.State = next
	if err := m.save(ctx, *s, next); err != nil {
		return *s, err
	}
	return *s, nil
}

func (m *Manager) save(ctx context.Context, s BattleSession, state game.BattleState) error {
	now := m.now()
	s.State = state
	s.LastActivity = now
	s.ExpiresAt = now.Add(m.ttl)
	if err := m.store.Put(ctx, s); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// EndSession removes a session and its user index entry. Ending a session
// that does not exist is not an error.
func (m *Manager) EndSession(ctx context.Context, battleID string) error {
	l := m.lockFor(battleID)
	l.Lock()
	defer l.Unlock()
	if err := m.store.Delete(ctx, battleID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.dropLock(battleID)
	return nil
}

// GetActiveBattle returns the user's live session, if any.
func (m *Manager) GetActiveBattle(ctx context.Context, userID string) (*BattleSession, error) {
	id, ok, err := m.store.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return m.GetSession(ctx, id, userID)
}

// Sweep evicts every session whose expiry has passed and returns how many
// were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	all, err := m.store.List(ctx)
	if err != nil {
		logging.Error("session sweep failed", err, nil)
		return 0
	}
	now := m.now()
	n := 0
	for _, s := range all {
		if s.Expired(now) && m.expire(ctx, s) {
			n++
		}
	}
	if n > 0 {
		logging.Info("expired battle sessions swept", logging.Fields{constants.LogFieldCount: n})
	}
	return n
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Stats reports the number of live sessions and users plus heap usage.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	all, err := m.store.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list sessions: %w", err)
	}
	now := m.now()
	users := make(map[string]struct{}, len(all))
	live := 0
	for _, s := range all {
		if s.Expired(now) {
			continue
		}
		live++
		users[s.UserID] = struct{}{}
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Stats{ActiveSessions: live, ActiveUsers: len(users), MemoryUsage: ms.HeapAlloc}, nil
}

// expire evicts s under its battle lock if it is still expired once the lock
// is held. It reports whether the session is gone.
func (m *Manager) expire(ctx context.Context, s BattleSession) bool {
	l := m.lockFor(s.ID)
	l.Lock()
	defer l.Unlock()

	cur, ok, err := m.store.Get(ctx, s.ID)
	if err != nil {
		logging.Error("failed to load expired session", err, logging.Fields{constants.LogFieldBattleID: s.ID})
		return false
	}
	if !ok {
		return true
	}
	if !cur.Expired(m.now()) {
		return false
	}
	return m.evict(ctx, cur)
}

// evict deletes s and hands it to the expiry hook. The caller holds the
// battle lock.
func (m *Manager) evict(ctx context.Context, s BattleSession) bool {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		logging.Error("failed to evict expired session", err, logging.Fields{constants.LogFieldBattleID: s.ID})
		return false
	}
	m.dropLock(s.ID)
	logging.Info("battle session expired", logging.Fields{
		constants.LogFieldBattleID: s.ID,
		constants.LogFieldUserID:   s.UserID,
		constants.LogFieldStatus:   string(s.State.Status),
	})
	if m.onExpire != nil {
		m.onExpire(ctx, s)
	}
	return true
}

func (m *Manager) lockFor(battleID string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[battleID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[battleID] = l
	}
	return l
}

func (m *Manager) dropLock(battleID string) {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	delete(m.locks, battleID)
}
