package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"docmanager/internal/auth"
	"docmanager/internal/model"
	"docmanager/internal/store"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

var (
	adminActor = model.Actor{ID: store.SeedAdminID, Role: model.RoleAdmin}
	aliceActor = model.Actor{ID: store.SeedAliceID, Role: model.RoleUser}
	bobActor   = model.Actor{ID: store.SeedBobID, Role: model.RoleUser}
)

// bcrypt is slow, so the seed is hashed once per test binary.
var (
	seedOnce     sync.Once
	seedFixtures store.Fixtures
	seedErr      error
)

func cachedSeed() (store.Fixtures, error) {
	seedOnce.Do(func() { seedFixtures, seedErr = store.DefaultSeed() })
	return seedFixtures, seedErr
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	store    *store.Store
	clock    *fakeClock
	sessions SessionService
	docs     DocumentService
	users    UserService
	hook     *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, hook := test.NewNullLogger()
	clock := &fakeClock{t: testNow}
	st := store.New(store.NewMemoryBackend(),
		store.WithClock(clock.Now),
		store.WithSeed(cachedSeed),
		store.WithLogger(log),
	)
	return &testEnv{
		store:    st,
		clock:    clock,
		sessions: NewSessionService(st, auth.NewTokenIssuer("test-secret"), auth.DefaultSessionTTL, clock.Now, log),
		docs:     NewDocumentService(st, clock.Now, log),
		users:    NewUserService(st, clock.Now, log),
		hook:     hook,
	}
}

func documentIDs(docs []model.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}

// MockEntityStore is a mock implementation of store.EntityStore.
type MockEntityStore struct {
	mock.Mock
}

func (m *MockEntityStore) LoadUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockEntityStore) SaveUsers(ctx context.Context, users []model.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *MockEntityStore) LoadDocuments(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockEntityStore) SaveDocuments(ctx context.Context, docs []model.Document) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockEntityStore) LoadSession(ctx context.Context) (*model.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockEntityStore) SaveSession(ctx context.Context, session model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockEntityStore) ClearSession(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEntityStore) ClearSessionToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockEntityStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEntityStore) Exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}
