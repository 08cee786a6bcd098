package identity_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tcs-portal/internal/identity"
	"tcs-portal/internal/models"
)

func sampleSession() models.Session {
	now := time.Now()
	return models.Session{
		UserID:    "user-1",
		Role:      models.RoleStudent,
		LoginAt:   now,
		ExpiresAt: now.Add(30 * time.Minute),
	}
}

func TestMintAndVerifyToken(t *testing.T) {
	token, err := identity.MintToken("secret", sampleSession())
	assert.NoError(t, err)

	userID, role, err := identity.VerifyToken("secret", token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, models.RoleStudent, role)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := identity.MintToken("secret", sampleSession())
	assert.NoError(t, err)

	_, _, err = identity.VerifyToken("other-secret", token)
	assert.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	session := sampleSession()
	session.LoginAt = time.Now().Add(-2 * time.Hour)
	session.ExpiresAt = time.Now().Add(-time.Hour)

	token, err := identity.MintToken("secret", session)
	assert.NoError(t, err)

	_, _, err = identity.VerifyToken("secret", token)
	assert.Error(t, err)
}

func TestExtractTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer abc.def.ghi")

	token, err := identity.ExtractTokenFromRequest(r)
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestExtractTokenMissingOrMalformed(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	_, err := identity.ExtractTokenFromRequest(r)
	assert.Error(t, err)

	r.Header.Set("Authorization", "Token abc")
	_, err = identity.ExtractTokenFromRequest(r)
	assert.Error(t, err)
}
