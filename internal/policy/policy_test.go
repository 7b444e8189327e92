package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docmanager/internal/model"
)

var (
	admin = model.Actor{ID: "user-001", Role: model.RoleAdmin}
	alice = model.Actor{ID: "user-002", Role: model.RoleUser}
	bob   = model.Actor{ID: "user-003", Role: model.RoleUser}
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func TestIsWithinAccessWindow(t *testing.T) {
	start := at("2024-11-01T00:00:00Z")
	end := at("2024-11-30T23:59:59Z")

	tests := []struct {
		name string
		doc  model.Document
		now  time.Time
		want bool
	}{
		{"no bounds", model.Document{}, at("2030-01-01T00:00:00Z"), true},
		{"before start", model.Document{AccessStart: &start}, start.Add(-time.Second), false},
		{"at start", model.Document{AccessStart: &start}, start, true},
		{"after end", model.Document{AccessEnd: &end}, end.Add(time.Second), false},
		{"at end", model.Document{AccessEnd: &end}, end, true},
		{"inside both", model.Document{AccessStart: &start, AccessEnd: &end}, at("2024-11-15T12:00:00Z"), true},
		{"outside both", model.Document{AccessStart: &start, AccessEnd: &end}, at("2024-12-15T12:00:00Z"), false},
		{"inverted window between bounds", model.Document{AccessStart: &end, AccessEnd: &start}, at("2024-11-15T12:00:00Z"), false},
		{"inverted window after start", model.Document{AccessStart: &end, AccessEnd: &start}, end.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinAccessWindow(tt.doc, tt.now))
		})
	}
}

func TestIsWithinAccessWindow_Monotone(t *testing.T) {
	start := at("2025-01-01T00:00:00Z")
	end := at("2025-01-31T00:00:00Z")
	doc := model.Document{AccessStart: &start, AccessEnd: &end}

	for now := start.Add(-72 * time.Hour); now.Before(end.Add(72 * time.Hour)); now = now.Add(7 * time.Hour) {
		inside := !now.Before(start) && !now.After(end)
		assert.Equal(t, inside, IsWithinAccessWindow(doc, now), "now=%s", now)
	}
}

func TestCanView(t *testing.T) {
	now := at("2026-01-01T00:00:00Z")
	expired := model.Document{OwnerID: alice.ID, IsPublic: true, AccessEnd: ptr(at("2025-01-01T00:00:00Z"))}
	private := model.Document{OwnerID: alice.ID}
	public := model.Document{OwnerID: alice.ID, IsPublic: true}

	assert.True(t, CanView(admin, private, now))
	assert.True(t, CanView(alice, private, now))
	assert.False(t, CanView(bob, private, now))
	assert.True(t, CanView(bob, public, now))
	assert.False(t, CanView(bob, expired, now))
	assert.True(t, CanView(alice, expired, now), "owners are not windowed")
	assert.False(t, CanView(model.Actor{}, public, now), "anonymous actors see nothing")
}

func TestCanViewDirect_IgnoresWindow(t *testing.T) {
	expired := model.Document{OwnerID: alice.ID, IsPublic: true, AccessEnd: ptr(at("2025-01-01T00:00:00Z"))}

	assert.True(t, CanViewDirect(bob, expired))
	assert.False(t, CanViewDirect(bob, model.Document{OwnerID: alice.ID}))
	assert.True(t, CanViewDirect(admin, model.Document{OwnerID: alice.ID}))
}

func TestCanList(t *testing.T) {
	now := at("2026-01-01T00:00:00Z")
	expiredPublic := model.Document{OwnerID: alice.ID, IsPublic: true, AccessEnd: ptr(at("2025-01-01T00:00:00Z"))}
	expiredPrivate := model.Document{OwnerID: alice.ID, AccessEnd: ptr(at("2025-01-01T00:00:00Z"))}

	assert.True(t, CanList(alice, expiredPublic, now, false), "owner sees own documents unconditionally")
	assert.False(t, CanList(bob, expiredPublic, now, false))
	assert.True(t, CanList(bob, expiredPublic, now, true))
	assert.False(t, CanList(admin, expiredPrivate, now, false))
	assert.True(t, CanList(admin, expiredPrivate, now, true))

	for _, includeExpired := range []bool{false, true} {
		assert.False(t, CanList(bob, expiredPrivate, now, includeExpired))
		assert.False(t, CanList(bob, model.Document{OwnerID: alice.ID}, now, includeExpired))
	}
}

func TestMutationAndUserManagement(t *testing.T) {
	doc := model.Document{OwnerID: alice.ID}

	assert.True(t, CanMutate(admin, doc))
	assert.True(t, CanMutate(alice, doc))
	assert.False(t, CanMutate(bob, doc))

	assert.True(t, CanManageUsers(admin))
	assert.False(t, CanManageUsers(alice))

	assert.True(t, CanDeleteUser(admin, alice.ID))
	assert.False(t, CanDeleteUser(admin, admin.ID))
	assert.False(t, CanDeleteUser(alice, bob.ID))
}
