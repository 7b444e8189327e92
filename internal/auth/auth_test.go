package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmanager/internal/model"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, CheckPassword(hash, "secret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "secret"))

	again, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")
}

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	user := model.PublicUser{ID: "user-001", Role: model.RoleAdmin}
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)

	token, err := issuer.Issue(user, now, now.Add(DefaultSessionTTL))
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, now.Add(DefaultSessionTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenIssuer_UniqueTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	user := model.PublicUser{ID: "user-002", Role: model.RoleUser}
	now := time.Now()

	a, err := issuer.Issue(user, now, now.Add(time.Hour))
	require.NoError(t, err)
	b, err := issuer.Issue(user, now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	now := time.Now()
	token, err := NewTokenIssuer("other-secret").Issue(model.PublicUser{ID: "user-002"}, now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret").Parse(token)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: "admin"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret").Parse(signed)
	assert.Error(t, err)
}
