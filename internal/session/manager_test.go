package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ericogr/monster-arena/internal/battleerr"
	"github.com/ericogr/monster-arena/internal/game"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func team(prefix string) []game.CombatMonster {
	return []game.CombatMonster{{
		ID:    prefix + "1",
		Name:  prefix + "-mon",
		Level: 3,
		Stats: game.BaseStats{Power: 30, Defense: 10, Speed: 10},
		HP:    50, MaxHP: 50, MP: 10, MaxMP: 10,
	}}
}

func newTestManager(t *testing.T, opts Options) (*Manager, *fakeClock) {
	t.Helper()
	return newTestManagerWithStore(t, NewMemoryStore(), opts)
}

func newTestManagerWithStore(t *testing.T, store Store, opts Options) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	if opts.TTL == 0 {
		opts.TTL = 10 * time.Minute
	}
	return NewManager(store, opts).WithClock(clock.Now), clock
}

// gatedStore stalls the next Get after it has read, so another caller can
// change the session in between.
type gatedStore struct {
	*MemoryStore
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{MemoryStore: NewMemoryStore(), reached: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedStore) Get(ctx context.Context, id string) (BattleSession, bool, error) {
	v, ok, err := s.MemoryStore.Get(ctx, id)
	if s.armed.CompareAndSwap(true, false) {
		s.reached <- struct{}{}
		<-s.release
	}
	return v, ok, err
}

// readDuring runs GetSession, stalls it after its read and runs between
// before letting it finish.
func readDuring(t *testing.T, m *Manager, store *gatedStore, battleID string, between func()) {
	t.Helper()
	store.armed.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := m.GetSession(context.Background(), battleID, "u1")
		done <- err
	}()
	<-store.reached
	between()
	close(store.release)
	require.NoError(t, <-done)
}

func TestCreateSessionOnePerUser(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{RecordHistory: true})

	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	require.Equal(t, game.SidePlayer, s.State.CurrentTurn)
	require.True(t, s.State.RecordHistory)

	_, err = m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.ErrorIs(t, err, battleerr.ErrActiveBattleExists)
	require.Equal(t, battleerr.KindConflict, battleerr.KindOf(err))

	other, err := m.CreateSession(ctx, "u2", team("p"), team("ai-"))
	require.NoError(t, err)
	require.NotEqual(t, s.ID, other.ID)

	require.NoError(t, m.EndSession(ctx, s.ID))
	_, err = m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
}

func TestCreateSessionRejectsEmptyTeam(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	_, err := m.CreateSession(context.Background(), "u1", nil, team("ai-"))
	require.True(t, battleerr.HasCode(err, battleerr.CodeEmptyTeam))
}

func TestGetSessionOwnership(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	_, err = m.GetSession(ctx, s.ID, "intruder")
	require.ErrorIs(t, err, battleerr.ErrNotSessionOwner)
	require.Equal(t, battleerr.KindAuthorization, battleerr.KindOf(err))

	missing, err := m.GetSession(ctx, "nope", "u1")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSlidingExpiry(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, Options{TTL: 10 * time.Minute})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	clock.Advance(8 * time.Minute)
	got, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, clock.Now().Add(10*time.Minute), got.ExpiresAt)

	// Still alive 16 minutes after creation because the access slid the expiry.
	clock.Advance(8 * time.Minute)
	got, err = m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestExpiredSessionIsEvictedOnAccess(t *testing.T) {
	ctx := context.Background()
	var expired []string
	m, clock := newTestManager(t, Options{OnExpire: func(_ context.Context, s BattleSession) {
		expired = append(expired, s.ID)
	}})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	got, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, []string{s.ID}, expired)

	active, err := m.GetActiveBattle(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, active)

	// The expired battle no longer blocks a new one.
	_, err = m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
	require.Len(t, expired, 1)
}

func TestCreateSessionReplacesExpired(t *testing.T) {
	ctx := context.Background()
	calls := 0
	m, clock := newTestManager(t, Options{OnExpire: func(context.Context, BattleSession) { calls++ }})
	_, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
	clock.Advance(11 * time.Minute)
	_, err = m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestSweepEvictsExpired(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	seen := map[string]bool{}
	m, clock := newTestManager(t, Options{OnExpire: func(_ context.Context, s BattleSession) {
		mu.Lock()
		defer mu.Unlock()
		seen[s.UserID] = true
	}})
	_, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
	clock.Advance(6 * time.Minute)
	keep, err := m.CreateSession(ctx, "u2", team("p"), team("ai-"))
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	require.Equal(t, 1, m.Sweep(ctx))
	require.Equal(t, map[string]bool{"u1": true}, seen)

	got, err := m.GetSession(ctx, keep.ID, "u2")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 0, m.Sweep(ctx))
}

func TestUpdateSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	st := s.State.Clone()
	st.TurnCount = 7
	require.NoError(t, m.UpdateSession(ctx, s.ID, "u1", st))
	got, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, 7, got.State.TurnCount)

	err = m.UpdateSession(ctx, "missing", "u1", st)
	require.ErrorIs(t, err, battleerr.ErrBattleNotFound)
}

func TestWithSessionSerializesTurns(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := m.WithSession(ctx, s.ID, "u1", func(cur BattleSession) (game.BattleState, error) {
				next := cur.State.Clone()
				next.TurnCount++
				return next, nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, 1+workers, got.State.TurnCount)
}

func TestWithSessionFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	boom := battleerr.Validation(battleerr.CodeInvalidTarget, "bad target")
	_, err = m.WithSession(ctx, s.ID, "u1", func(cur BattleSession) (game.BattleState, error) {
		next := cur.State.Clone()
		next.TurnCount = 99
		return next, boom
	})
	require.ErrorIs(t, err, boom)

	got, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, got.State.TurnCount)

	_, err = m.WithSession(ctx, "missing", "u1", func(cur BattleSession) (game.BattleState, error) {
		return cur.State, nil
	})
	require.ErrorIs(t, err, battleerr.ErrBattleNotFound)
}

func TestEndSessionIdempotent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
	require.NoError(t, m.EndSession(ctx, s.ID))
	require.NoError(t, m.EndSession(ctx, s.ID))
	require.NoError(t, m.EndSession(ctx, "never-existed"))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, Options{})
	_, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	_, err = m.CreateSession(ctx, "u2", team("p"), team("ai-"))
	require.NoError(t, err)

	st, err := m.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, st.ActiveSessions)
	require.Equal(t, 2, st.ActiveUsers)
	require.NotZero(t, st.MemoryUsage)

	clock.Advance(6 * time.Minute)
	st, err = m.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.ActiveSessions)
}

func TestRunStopsOnCancel(t *testing.T) {
	m, _ := newTestManager(t, Options{SweepInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestGetSessionKeepsConcurrentTurn(t *testing.T) {
	ctx := context.Background()
	store := newGatedStore()
	m, _ := newTestManagerWithStore(t, store, Options{})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	readDuring(t, m, store, s.ID, func() {
		_, err := m.WithSession(ctx, s.ID, "u1", func(cur BattleSession) (game.BattleState, error) {
			next := cur.State.Clone()
			next.TurnCount = 99
			return next, nil
		})
		require.NoError(t, err)
	})

	got, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, 99, got.State.TurnCount)
}

func TestGetSessionDoesNotReviveEndedSession(t *testing.T) {
	ctx := context.Background()
	store := newGatedStore()
	m, _ := newTestManagerWithStore(t, store, Options{})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	readDuring(t, m, store, s.ID, func() {
		require.NoError(t, m.EndSession(ctx, s.ID))
	})

	gone, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.Nil(t, gone)
	_, err = m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
}

func TestFinishedSessionKeepsItsExpiry(t *testing.T) {
	ctx := context.Background()
	var expired []game.BattleStatus
	m, clock := newTestManager(t, Options{OnExpire: func(_ context.Context, s BattleSession) {
		expired = append(expired, s.State.Status)
	}})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)

	done := s.State.Clone()
	done.Status = game.StatusVictory
	require.NoError(t, m.UpdateSession(ctx, s.ID, "u1", done))
	deadline := clock.Now().Add(10 * time.Minute)

	clock.Advance(8 * time.Minute)
	got, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, deadline, got.ExpiresAt)

	clock.Advance(3 * time.Minute)
	got, err = m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, []game.BattleStatus{game.StatusVictory}, expired)
}

func TestSweepSparesSessionRefreshedAfterListing(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, Options{})
	s, err := m.CreateSession(ctx, "u1", team("p"), team("ai-"))
	require.NoError(t, err)
	stale, ok, err := m.store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(5 * time.Minute)
	_, err = m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)

	// The listed copy looks expired but the stored session was refreshed.
	clock.Advance(6 * time.Minute)
	require.False(t, m.expire(ctx, stale))
	got, err := m.GetSession(ctx, s.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
}
