package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"docmanager/internal/auth"
	"docmanager/internal/errors"
	"docmanager/internal/model"
	"docmanager/internal/store"
)

// SessionService owns the single active session: login, logout and
// resolving who is calling.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	// Logout clears the session. It never fails; persistence errors are logged.
	Logout(ctx context.Context)
	// CurrentActor returns the session user, or nil when nobody is logged in.
	CurrentActor(ctx context.Context) (*model.PublicUser, error)
	// ResolveToken returns the session user only if token is the active session's token.
	ResolveToken(ctx context.Context, token string) (*model.PublicUser, error)
	// Reset drops the session and restores the seed collections.
	Reset(ctx context.Context) error
}

type sessionService struct {
	store  store.EntityStore
	tokens *auth.TokenIssuer
	ttl    time.Duration
	now    func() time.Time
	log    logrus.FieldLogger
}

// NewSessionService creates a new session service. A zero ttl means
// auth.DefaultSessionTTL; a nil clock means time.Now.
func NewSessionService(st store.EntityStore, tokens *auth.TokenIssuer, ttl time.Duration, now func() time.Time, log logrus.FieldLogger) SessionService {
	if ttl <= 0 {
		ttl = auth.DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &sessionService{
		store:  st,
		tokens: tokens,
		ttl:    ttl,
		now:    now,
		log:    log,
	}
}

// Login authenticates by email and password and replaces the active session.
func (s *sessionService) Login(ctx context.Context, email, password string) (*model.Session, error) {
	var session model.Session

	err := s.store.Exclusive(ctx, func(ctx context.Context) error {
		users, err := s.store.LoadUsers(ctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}

		idx := indexOfEmail(users, email, "")
		if idx < 0 {
			return errors.ErrInvalidCredentials
		}
		user := &users[idx]

		if !user.IsActive {
			return errors.ErrAccountDisabled
		}
		if !auth.CheckPassword(user.PasswordHash, password) {
			return errors.ErrInvalidCredentials
		}

		now := s.now()
		user.LastLogin = &now
		if err := s.store.SaveUsers(ctx, users); err != nil {
			return fmt.Errorf("save users: %w", err)
		}

		public := user.Public()
		expiresAt := now.Add(s.ttl)
		token, err := s.tokens.Issue(public, now, expiresAt)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}

		session = model.Session{Token: token, User: public, ExpiresAt: expiresAt}
		if err := s.store.SaveSession(ctx, session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.WithField("email", email).WithError(err).Warn("login failed")
		return nil, err
	}

	s.log.WithField("user_id", session.User.ID).Info("user logged in")
	return &session, nil
}

func (s *sessionService) Logout(ctx context.Context) {
	if err := s.store.ClearSession(ctx); err != nil {
		s.log.WithError(err).Error("clear session on logout")
		return
	}
	s.log.Info("session cleared")
}

func (s *sessionService) CurrentActor(ctx context.Context) (*model.PublicUser, error) {
	session, err := s.store.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	user := session.User
	return &user, nil
}

// ResolveToken also re-reads the user record, so a deleted or deactivated
// user loses access at once and role changes apply to the next call.
func (s *sessionService) ResolveToken(ctx context.Context, token string) (*model.PublicUser, error) {
	if token == "" {
		return nil, errors.ErrUnauthenticated
	}
	session, err := s.store.LoadSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.Token != token {
		return nil, errors.ErrUnauthenticated
	}

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	idx := indexOfUser(users, session.User.ID)
	if idx < 0 || !users[idx].IsActive {
		s.log.WithField("user_id", session.User.ID).Info("session user gone or disabled, clearing session")
		if err := s.store.ClearSessionToken(ctx, token); err != nil {
			s.log.WithError(err).Error("clear session of disabled user")
		}
		return nil, errors.ErrUnauthenticated
	}

	user := users[idx].Public()
	return &user, nil
}

func (s *sessionService) Reset(ctx context.Context) error {
	return s.store.Exclusive(ctx, func(ctx context.Context) error {
		return s.store.Reset(ctx)
	})
}

func indexOfUser(users []model.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

// indexOfEmail finds a user by case-insensitive email, skipping exceptID.
func indexOfEmail(users []model.User, email, exceptID string) int {
	for i := range users {
		if users[i].ID != exceptID && model.EmailEqual(users[i].Email, email) {
			return i
		}
	}
	return -1
}
