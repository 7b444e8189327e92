package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"docmanager/internal/auth"
	"docmanager/internal/errors"
	"docmanager/internal/model"
	"docmanager/internal/policy"
	"docmanager/internal/store"
)

// UserService exposes the admin-only user administration operations.
type UserService interface {
	ListUsers(ctx context.Context, actor model.Actor) ([]model.PublicUser, error)
	GetUser(ctx context.Context, actor model.Actor, id string) (*model.PublicUser, error)
	CreateUser(ctx context.Context, actor model.Actor, in model.NewUser) (*model.PublicUser, error)
	UpdateUser(ctx context.Context, actor model.Actor, id string, patch model.UserPatch) (*model.PublicUser, error)
	// DeleteUser removes the user together with every document it owns.
	DeleteUser(ctx context.Context, actor model.Actor, id string) error
}

type userService struct {
	store    store.EntityStore
	validate *validator.Validate
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewUserService builds a UserService. A nil clock means time.Now.
func NewUserService(st store.EntityStore, now func() time.Time, log logrus.FieldLogger) UserService {
	if now == nil {
		now = time.Now
	}
	return &userService{
		store:    st,
		validate: validator.New(),
		now:      now,
		log:      log,
	}
}

func authorizeAdmin(actor model.Actor) error {
	if !actor.Authenticated() {
		return errors.ErrUnauthenticated
	}
	if !policy.CanManageUsers(actor) {
		return errors.ErrForbidden
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context, actor model.Actor) ([]model.PublicUser, error) {
	if err := authorizeAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *userService) GetUser(ctx context.Context, actor model.Actor, id string) (*model.PublicUser, error) {
	if err := authorizeAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	idx := indexOfUser(users, id)
	if idx < 0 {
		return nil, errors.ErrUserNotFound
	}
	public := users[idx].Public()
	return &public, nil
}

func (s *userService) CreateUser(ctx context.Context, actor model.Actor, in model.NewUser) (*model.PublicUser, error) {
	if err := authorizeAdmin(actor); err != nil {
		return nil, err
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, errors.Invalid("%v", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           "user-" + uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CreatedAt:    s.now(),
		IsActive:     true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	err = s.store.Exclusive(ctx, func(ctx context.Context) error {
		users, err := s.store.LoadUsers(ctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		if indexOfEmail(users, user.Email, "") >= 0 {
			return errors.ErrDuplicateEmail
		}
		users = append(users, user)
		if err := s.store.SaveUsers(ctx, users); err != nil {
			return fmt.Errorf("save users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "by": actor.ID}).Info("user created")
	public := user.Public()
	return &public, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor model.Actor, id string, patch model.UserPatch) (*model.PublicUser, error) {
	if err := authorizeAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validatePatch(&patch); err != nil {
		return nil, err
	}

	var hash string
	if patch.Password.Set {
		h, err := auth.HashPassword(patch.Password.Value)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	var updated model.User
	err := s.store.Exclusive(ctx, func(ctx context.Context) error {
		users, err := s.store.LoadUsers(ctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		idx := indexOfUser(users, id)
		if idx < 0 {
			return errors.ErrUserNotFound
		}
		if patch.Email.Set && indexOfEmail(users, patch.Email.Value, id) >= 0 {
			return errors.ErrDuplicateEmail
		}

		u := &users[idx]
		patch.Email.ApplyTo(&u.Email)
		patch.Role.ApplyTo(&u.Role)
		patch.FirstName.ApplyTo(&u.FirstName)
		patch.LastName.ApplyTo(&u.LastName)
		patch.IsActive.ApplyTo(&u.IsActive)
		if patch.Password.Set {
			u.PasswordHash = hash
		}

		if err := s.store.SaveUsers(ctx, users); err != nil {
			return fmt.Errorf("save users: %w", err)
		}
		updated = *u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": id, "by": actor.ID}).Info("user updated")
	public := updated.Public()
	return &public, nil
}

func (s *userService) validatePatch(p *model.UserPatch) error {
	if p.Email.Set {
		p.Email.Value = strings.TrimSpace(p.Email.Value)
		if err := s.validate.Var(p.Email.Value, "required,email"); err != nil {
			return errors.Invalid("email: %v", err)
		}
	}
	if p.Password.Set {
		if err := s.validate.Var(p.Password.Value, "required,min=6"); err != nil {
			return errors.Invalid("password: %v", err)
		}
	}
	if p.Role.Set && !p.Role.Value.Valid() {
		return errors.Invalid("role must be admin or user")
	}
	if p.FirstName.Set && strings.TrimSpace(p.FirstName.Value) == "" {
		return errors.Invalid("first_name must not be empty")
	}
	if p.LastName.Set && strings.TrimSpace(p.LastName.Value) == "" {
		return errors.Invalid("last_name must not be empty")
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, actor model.Actor, id string) error {
	if err := authorizeAdmin(actor); err != nil {
		return err
	}
	if !policy.CanDeleteUser(actor, id) {
		return errors.ErrSelfDeletionForbidden
	}

	var removed int
	err := s.store.Exclusive(ctx, func(ctx context.Context) error {
		users, err := s.store.LoadUsers(ctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		idx := indexOfUser(users, id)
		if idx < 0 {
			return errors.ErrUserNotFound
		}

		docs, err := s.store.LoadDocuments(ctx)
		if err != nil {
			return fmt.Errorf("load documents: %w", err)
		}
		kept := make([]model.Document, 0, len(docs))
		for _, d := range docs {
			if d.OwnerID != id {
				kept = append(kept, d)
			}
		}
		removed = len(docs) - len(kept)

		// documents first: a failure here leaves the user in place and retryable
		if err := s.store.SaveDocuments(ctx, kept); err != nil {
			return fmt.Errorf("save documents: %w", err)
		}
		users = append(users[:idx], users[idx+1:]...)
		if err := s.store.SaveUsers(ctx, users); err != nil {
			return fmt.Errorf("save users: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":           id,
		"by":                actor.ID,
		"documents_removed": removed,
	}).Info("user deleted")
	return nil
}
