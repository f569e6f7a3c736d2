package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ericogr/monster-arena/internal/engine"
	"github.com/ericogr/monster-arena/internal/game"
	"github.com/ericogr/monster-arena/internal/session"
	"github.com/ericogr/monster-arena/internal/storage"
)

type mockRepo struct {
	mu        sync.Mutex
	profiles  map[string]*game.PlayerProfile
	monsters  map[string][]game.MonsterRecord
	ended     map[string]game.BattleEndResult
	created   int
	ensured   int
	nextID    uint
	recordErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		profiles: map[string]*game.PlayerProfile{},
		monsters: map[string][]game.MonsterRecord{},
		ended:    map[string]game.BattleEndResult{},
	}
}

func (m *mockRepo) GetProfile(_ context.Context, userID string) (*game.PlayerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) EnsureProfile(_ context.Context, userID string, starters []game.MonsterTemplate, tokens int) (*game.PlayerProfile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured++
	if p, ok := m.profiles[userID]; ok {
		cp := *p
		return &cp, false, nil
	}
	p := &game.PlayerProfile{UserID: userID, BattleTokens: tokens}
	m.profiles[userID] = p
	for _, t := range starters {
		m.nextID++
		rec := game.MonsterRecord{
			OwnerID: userID, TemplateKey: t.Key, Name: t.Name, Level: t.Level,
			Power: t.Stats.Power, Defense: t.Stats.Defense, Speed: t.Stats.Speed,
			MaxHP: t.MaxHP, MaxMP: t.MaxMP, AbilityIDs: t.AbilityIDs,
		}
		rec.ID = m.nextID
		m.monsters[userID] = append(m.monsters[userID], rec)
	}
	m.created++
	cp := *p
	return &cp, true, nil
}

func (m *mockRepo) ListMonsters(_ context.Context, userID string) ([]game.MonsterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]game.MonsterRecord(nil), m.monsters[userID]...), nil
}

func (m *mockRepo) GetMonstersByIDs(_ context.Context, userID string, ids []uint) ([]game.MonsterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []game.MonsterRecord
	for _, id := range ids {
		for _, r := range m.monsters[userID] {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *mockRepo) RecordBattleEnd(_ context.Context, userID, battleID string, result game.BattleEndResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	if _, dup := m.ended[battleID]; dup {
		return nil
	}
	m.ended[battleID] = result
	if p, ok := m.profiles[userID]; ok && p.BattleTokens > 0 {
		p.BattleTokens--
	}
	return nil
}

func (m *mockRepo) ListBattleRecords(context.Context, string, int) ([]game.BattleRecord, error) {
	return nil, nil
}

func (m *mockRepo) endedResult(battleID string) (game.BattleEndResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ended[battleID]
	return r, ok
}

type fakeCatalog struct {
	abilities map[string]game.Ability
	templates []game.MonsterTemplate
	starters  []game.MonsterTemplate
}

func (c fakeCatalog) AbilitiesFor(ids []string) ([]game.Ability, error) {
	out := make([]game.Ability, 0, len(ids))
	for _, id := range ids {
		a, ok := c.abilities[id]
		if !ok {
			return nil, fmt.Errorf("unknown ability '%s'", id)
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

func (c fakeCatalog) Templates() []game.MonsterTemplate { return c.templates }
func (c fakeCatalog) Starters() []game.MonsterTemplate  { return c.starters }

var (
	smash = game.Ability{ID: "smash", Name: "Smash", Type: game.AbilityActive, PowerMultiplier: 1}

	brute = game.MonsterTemplate{
		Key: "brute", Name: "Brute", Level: 5,
		Stats: game.BaseStats{Power: 200, Defense: 50, Speed: 10},
		MaxHP: 100, MaxMP: 10, AbilityIDs: []string{"smash"},
	}
	scrapper = game.MonsterTemplate{
		Key: "scrapper", Name: "Scrapper", Level: 2,
		Stats: game.BaseStats{Power: 20, Defense: 10, Speed: 10},
		MaxHP: 60, MaxMP: 10, AbilityIDs: []string{"smash"},
	}
	weakling = game.MonsterTemplate{
		Key: "weakling", Name: "Weakling", Level: 4,
		Stats: game.BaseStats{Power: 10, Defense: 0, Speed: 5},
		MaxHP: 20, MaxMP: 5, AbilityIDs: []string{"smash"},
	}
	tank = game.MonsterTemplate{
		Key: "tank", Name: "Tank", Level: 6,
		Stats: game.BaseStats{Power: 10, Defense: 300, Speed: 5},
		MaxHP: 1000, MaxMP: 5, AbilityIDs: []string{"smash"},
	}
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestService wires the service to a mock repo, a one-brute starter set
// and the given opponent templates.
func newTestService(t *testing.T, opponents ...game.MonsterTemplate) (*Service, *mockRepo, *session.Manager, *testClock) {
	t.Helper()
	repo := newMockRepo()
	catalog := fakeCatalog{
		abilities: map[string]game.Ability{"smash": smash},
		templates: opponents,
		starters:  []game.MonsterTemplate{brute, scrapper},
	}
	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	mgr := session.NewManager(session.NewMemoryStore(), session.Options{TTL: 10 * time.Minute}).WithClock(clock.Now)
	svc := New(repo, catalog, mgr, Config{Rewards: engine.DefaultRewards, BattleTokens: 3})
	return svc, repo, mgr, clock
}
