package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmanager/internal/errors"
	"docmanager/internal/model"
	"docmanager/internal/store"
)

func validNewUser() model.NewUser {
	return model.NewUser{
		Email:     "carol@example.com",
		Password:  "carol123",
		Role:      model.RoleUser,
		FirstName: "Carol",
		LastName:  "Danvers",
	}
}

func TestUserService_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.ListUsers(ctx, aliceActor)
	assert.ErrorIs(t, err, errors.ErrForbidden)
	_, err = env.users.GetUser(ctx, aliceActor, store.SeedBobID)
	assert.ErrorIs(t, err, errors.ErrForbidden)
	_, err = env.users.CreateUser(ctx, aliceActor, validNewUser())
	assert.ErrorIs(t, err, errors.ErrForbidden)
	_, err = env.users.UpdateUser(ctx, aliceActor, store.SeedBobID, model.UserPatch{FirstName: model.Some("Robert")})
	assert.ErrorIs(t, err, errors.ErrForbidden)
	assert.ErrorIs(t, env.users.DeleteUser(ctx, aliceActor, store.SeedBobID), errors.ErrForbidden)

	_, err = env.users.ListUsers(ctx, model.Actor{})
	assert.ErrorIs(t, err, errors.ErrUnauthenticated)

	users, err := env.users.ListUsers(ctx, adminActor)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Bob", users[2].FirstName)
}

func TestUserService_CreateThenList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.users.CreateUser(ctx, adminActor, validNewUser())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.LastLogin)
	assert.True(t, created.CreatedAt.Equal(testNow))

	users, err := env.users.ListUsers(ctx, adminActor)
	require.NoError(t, err)
	require.Len(t, users, 4)
	assert.Equal(t, created.ID, users[3].ID)

	payload, err := json.Marshal(users)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "password")
	assert.NotContains(t, string(payload), "carol123")

	// the new account is usable straight away
	session, err := env.sessions.Login(ctx, "CAROL@example.com", "carol123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, session.User.ID)
}

func TestUserService_CreateUser_Errors(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*model.NewUser)
		expectedError error
	}{
		{
			name:          "duplicate email ignoring case",
			mutate:        func(u *model.NewUser) { u.Email = "Alice@Example.com" },
			expectedError: errors.ErrDuplicateEmail,
		},
		{
			name:          "malformed email",
			mutate:        func(u *model.NewUser) { u.Email = "not-an-email" },
			expectedError: errors.ErrInvalidInput,
		},
		{
			name:          "unknown role",
			mutate:        func(u *model.NewUser) { u.Role = "superuser" },
			expectedError: errors.ErrInvalidInput,
		},
		{
			name:          "short password",
			mutate:        func(u *model.NewUser) { u.Password = "abc" },
			expectedError: errors.ErrInvalidInput,
		},
		{
			name:          "missing name",
			mutate:        func(u *model.NewUser) { u.FirstName = "" },
			expectedError: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			in := validNewUser()
			tt.mutate(&in)

			_, err := env.users.CreateUser(ctx, adminActor, in)

			assert.ErrorIs(t, err, tt.expectedError)
			users, err := env.users.ListUsers(ctx, adminActor)
			require.NoError(t, err)
			assert.Len(t, users, 3)
		})
	}
}

func TestUserService_CreateUser_Inactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := validNewUser()
	in.IsActive = ptr(false)

	created, err := env.users.CreateUser(ctx, adminActor, in)
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	_, err = env.sessions.Login(ctx, in.Email, in.Password)
	assert.ErrorIs(t, err, errors.ErrAccountDisabled)
}

func TestUserService_GetUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.GetUser(ctx, adminActor, store.SeedAliceID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = env.users.GetUser(ctx, adminActor, "user-404")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestUserService_UpdateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.users.UpdateUser(ctx, adminActor, store.SeedBobID, model.UserPatch{
		FirstName: model.Some("Robert"),
		Password:  model.Some("new-secret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	assert.Equal(t, "bob@example.com", updated.Email)
	assert.Equal(t, model.RoleUser, updated.Role)

	_, err = env.sessions.Login(ctx, "bob@example.com", "bob123")
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
	_, err = env.sessions.Login(ctx, "bob@example.com", "new-secret")
	assert.NoError(t, err)
}

func TestUserService_UpdateUser_Errors(t *testing.T) {
	tests := []struct {
		name          string
		id            string
		patch         model.UserPatch
		expectedError error
	}{
		{
			name:          "missing user",
			id:            "user-404",
			patch:         model.UserPatch{FirstName: model.Some("X")},
			expectedError: errors.ErrUserNotFound,
		},
		{
			name:          "email taken by another user",
			id:            store.SeedBobID,
			patch:         model.UserPatch{Email: model.Some("ALICE@example.com")},
			expectedError: errors.ErrDuplicateEmail,
		},
		{
			name:          "invalid role",
			id:            store.SeedBobID,
			patch:         model.UserPatch{Role: model.Some(model.Role("root"))},
			expectedError: errors.ErrInvalidInput,
		},
		{
			name:          "invalid email",
			id:            store.SeedBobID,
			patch:         model.UserPatch{Email: model.Some("bob")},
			expectedError: errors.ErrInvalidInput,
		},
		{
			name:          "blank last name",
			id:            store.SeedBobID,
			patch:         model.UserPatch{LastName: model.Some(" ")},
			expectedError: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()

			_, err := env.users.UpdateUser(ctx, adminActor, tt.id, tt.patch)

			assert.ErrorIs(t, err, tt.expectedError)
			bob, err := env.users.GetUser(ctx, adminActor, store.SeedBobID)
			require.NoError(t, err)
			assert.Equal(t, "bob@example.com", bob.Email)
			assert.Equal(t, "Smith", bob.LastName)
		})
	}
}

func TestUserService_UpdateUser_SameEmailDifferentCase(t *testing.T) {
	env := newTestEnv(t)

	updated, err := env.users.UpdateUser(context.Background(), adminActor, store.SeedBobID,
		model.UserPatch{Email: model.Some("Bob@Example.com")})

	require.NoError(t, err)
	assert.Equal(t, "Bob@Example.com", updated.Email)
}

func TestUserService_DeleteUser_SelfForbidden(t *testing.T) {
	env := newTestEnv(t)

	err := env.users.DeleteUser(context.Background(), adminActor, adminActor.ID)

	assert.ErrorIs(t, err, errors.ErrSelfDeletionForbidden)
}

func TestUserService_DeleteUser_Missing(t *testing.T) {
	env := newTestEnv(t)

	err := env.users.DeleteUser(context.Background(), adminActor, "user-404")

	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestUserService_DeleteUser_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before, err := env.docs.List(ctx, adminActor, true)
	require.NoError(t, err)
	var aliceDocs int
	for _, d := range before {
		if d.OwnerID == store.SeedAliceID {
			aliceDocs++
		}
	}
	require.Equal(t, 4, aliceDocs)

	require.NoError(t, env.users.DeleteUser(ctx, adminActor, store.SeedAliceID))

	after, err := env.docs.List(ctx, adminActor, true)
	require.NoError(t, err)
	assert.Len(t, after, len(before)-aliceDocs)

	var expected []model.Document
	for _, d := range before {
		if d.OwnerID != store.SeedAliceID {
			expected = append(expected, d)
		}
	}
	assert.Equal(t, expected, after)

	users, err := env.users.ListUsers(ctx, adminActor)
	require.NoError(t, err)
	for _, u := range users {
		assert.NotEqual(t, store.SeedAliceID, u.ID)
	}
}
