package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentPatch_Apply(t *testing.T) {
	start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	doc := Document{
		ID:          "doc-1",
		OwnerID:     "user-1",
		Title:       "Old title",
		Description: "Old description",
		IsPublic:    true,
		AccessStart: &start,
		Keywords:    []string{"a"},
	}

	var patch DocumentPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New title","description":"","access_start":null}`), &patch))
	patch.Apply(&doc)

	assert.Equal(t, "New title", doc.Title)
	assert.Equal(t, "", doc.Description, "explicit empty string blanks the field")
	assert.Nil(t, doc.AccessStart, "explicit null clears the bound")
	assert.True(t, doc.IsPublic, "omitted fields are preserved")
	assert.Equal(t, []string{"a"}, doc.Keywords)
	assert.Equal(t, "user-1", doc.OwnerID)
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var p struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
		C Optional[bool]   `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","c":false}`), &p))

	assert.Equal(t, Some("x"), p.A)
	assert.False(t, p.B.Set)
	assert.True(t, p.C.Set)
	assert.False(t, p.C.Value)
}

func TestOptional_UnmarshalJSONTypeMismatch(t *testing.T) {
	var p struct {
		A Optional[bool] `json:"a"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"a":"yes"}`), &p))
}

func TestUser_Public(t *testing.T) {
	u := User{ID: "user-1", Email: "a@b.c", PasswordHash: "secret-hash", Role: RoleAdmin, FirstName: "Ann", LastName: "Lee"}

	payload, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret-hash")
	assert.NotContains(t, string(payload), "password")
	assert.Equal(t, Actor{ID: "user-1", Role: RoleAdmin}, u.Public().Actor())
	assert.Equal(t, "Ann Lee", u.FullName())
}

func TestSession_ValidAt(t *testing.T) {
	exp := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: exp}

	assert.True(t, s.ValidAt(exp.Add(-time.Nanosecond)))
	assert.False(t, s.ValidAt(exp), "a session is invalid at its expiry instant")
	assert.False(t, s.ValidAt(exp.Add(time.Hour)))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("root").Valid())
	assert.True(t, EmailEqual("Admin@DocManager.com", " admin@docmanager.com"))
}
