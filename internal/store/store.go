// Package store is the entity store: three named records (users, documents,
// and the single active session) persisted whole on every write.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"docmanager/internal/model"
)

const (
	usersKey     = "users"
	documentsKey = "documents"
	sessionKey   = "session"
)

// Backend persists named records as opaque bytes.
type Backend interface {
	// Get returns nil, nil when the record does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the record. A positive ttl is a hint for backends that can expire keys.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EntityStore is the persistence contract the services depend on.
// Reads return fresh copies; writes replace whole collections.
type EntityStore interface {
	LoadUsers(ctx context.Context) ([]model.User, error)
	SaveUsers(ctx context.Context, users []model.User) error
	LoadDocuments(ctx context.Context) ([]model.Document, error)
	SaveDocuments(ctx context.Context, docs []model.Document) error
	LoadSession(ctx context.Context) (*model.Session, error)
	SaveSession(ctx context.Context, session model.Session) error
	ClearSession(ctx context.Context) error
	// ClearSessionToken clears the session only while it still carries token.
	ClearSessionToken(ctx context.Context, token string) error
	Reset(ctx context.Context) error
	Exclusive(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store implements EntityStore on top of a Backend.
type Store struct {
	backend Backend
	seed    SeedFunc
	now     func() time.Time
	log     logrus.FieldLogger

	// mu serializes read-modify-write rounds within this process only.
	mu     sync.Mutex
	seedMu sync.Mutex
}

var _ EntityStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSeed overrides the fixtures written on first use and on Reset.
func WithSeed(seed SeedFunc) Option {
	return func(s *Store) { s.seed = seed }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		seed:    DefaultSeed,
		now:     time.Now,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type lockHeldKey struct{}

// Exclusive runs fn while holding the store's write lock. The lock is
// released when fn returns or panics. Calling Exclusive again with the
// context handed to fn reuses the held lock.
func (s *Store) Exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	if held, _ := ctx.Value(lockHeldKey{}).(*Store); held == s {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, lockHeldKey{}, s))
}

// LoadUsers returns all users, seeding the collection on first use.
func (s *Store) LoadUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.loadOrSeed(ctx, usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUsers replaces the user collection.
func (s *Store) SaveUsers(ctx context.Context, users []model.User) error {
	return s.put(ctx, usersKey, nonNil(users), 0)
}

// LoadDocuments returns all documents in insertion order, seeding on first use.
func (s *Store) LoadDocuments(ctx context.Context) ([]model.Document, error) {
	var docs []model.Document
	if err := s.loadOrSeed(ctx, documentsKey, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveDocuments replaces the document collection.
func (s *Store) SaveDocuments(ctx context.Context, docs []model.Document) error {
	return s.put(ctx, documentsKey, nonNil(docs), 0)
}

// LoadSession returns the active session, or nil when there is none.
// An expired session is deleted on read.
func (s *Store) LoadSession(ctx context.Context) (*model.Session, error) {
	session, err := s.readSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	if session.ValidAt(s.now()) {
		return session, nil
	}

	// a login may have replaced the record since it was read
	var current *model.Session
	err = s.Exclusive(ctx, func(ctx context.Context) error {
		current, err = s.readSession(ctx)
		if err != nil || current == nil || current.ValidAt(s.now()) {
			return err
		}
		s.log.WithField("user_id", current.User.ID).Info("session expired, clearing")
		current = nil
		if err := s.backend.Delete(ctx, sessionKey); err != nil {
			return fmt.Errorf("clear expired session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}

// ClearSessionToken removes the active session only if it still carries token.
func (s *Store) ClearSessionToken(ctx context.Context, token string) error {
	return s.Exclusive(ctx, func(ctx context.Context) error {
		current, err := s.readSession(ctx)
		if err != nil || current == nil || current.Token != token {
			return err
		}
		return s.ClearSession(ctx)
	})
}

func (s *Store) readSession(ctx context.Context) (*model.Session, error) {
	data, err := s.backend.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// SaveSession replaces the active session.
func (s *Store) SaveSession(ctx context.Context, session model.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		ttl = time.Millisecond
	}
	return s.put(ctx, sessionKey, session, ttl)
}

// ClearSession removes the active session. Clearing an absent session is a no-op.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.backend.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Reset drops the session and rewrites both collections from the seed.
func (s *Store) Reset(ctx context.Context) error {
	fixtures, err := s.seed()
	if err != nil {
		return fmt.Errorf("build seed: %w", err)
	}
	if err := s.ClearSession(ctx); err != nil {
		return err
	}
	if err := s.SaveUsers(ctx, fixtures.Users); err != nil {
		return err
	}
	if err := s.SaveDocuments(ctx, fixtures.Documents); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"users":     len(fixtures.Users),
		"documents": len(fixtures.Documents),
	}).Info("store reset to seed data")
	return nil
}

func (s *Store) put(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, payload, ttl); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) loadOrSeed(ctx context.Context, key string, dst any) error {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if data == nil {
		if data, err = s.seedRecord(ctx, key); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) seedRecord(ctx context.Context, key string) ([]byte, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	// another caller may have seeded while we waited
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if data != nil {
		return data, nil
	}

	fixtures, err := s.seed()
	if err != nil {
		return nil, fmt.Errorf("build seed: %w", err)
	}

	var v any
	switch key {
	case usersKey:
		v = nonNil(fixtures.Users)
	case documentsKey:
		v = nonNil(fixtures.Documents)
	default:
		return nil, fmt.Errorf("no seed for record %q", key)
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, payload, 0); err != nil {
		return nil, fmt.Errorf("seed %s: %w", key, err)
	}
	s.log.WithField("record", key).Info("seeded empty collection")
	return payload, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
