package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tcs-portal/internal/identity"
	"tcs-portal/internal/models"
	"tcs-portal/internal/store"
)

func setupService() *identity.Service {
	svc := identity.NewService(store.NewMemory(store.NewMemoryBus()), 30*time.Minute)
	svc.Now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestEnsureSeedCreatesAdminOnce(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	assert.NoError(t, svc.EnsureSeed(ctx, "TCS Admin", "admin@tcs.uaf", "admin123"))
	assert.NoError(t, svc.EnsureSeed(ctx, "TCS Admin", "admin@tcs.uaf", "admin123"))

	user, session, err := svc.Login(ctx, "admin@tcs.uaf", "admin123")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, user.ID, session.UserID)
	assert.Empty(t, user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	var validationErr *identity.ValidationError

	_, err := svc.Register(ctx, "A", "a@b.c", "secret1")
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "Name")

	_, err = svc.Register(ctx, "Ali Khan", "not-an-email", "secret1")
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "email")

	_, err = svc.Register(ctx, "Ali Khan", "ali@example.com", "short")
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "Password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ali Khan", "ali@example.com", "secret1")
	assert.NoError(t, err)

	_, err = svc.Register(ctx, "Other Person", "ALI@EXAMPLE.COM", "secret2")
	assert.ErrorIs(t, err, identity.ErrDuplicateEmail)
}

func TestRegisterNormalizesAndSanitizes(t *testing.T) {
	svc := setupService()

	user, err := svc.Register(context.Background(), "  Ali Khan  ", "Ali@Example.com", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, "Ali Khan", user.Name)
	assert.Equal(t, "ali@example.com", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Empty(t, user.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ali Khan", "ali@example.com", "secret1")
	assert.NoError(t, err)

	_, _, err = svc.Login(ctx, "ali@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestLoginReplacesSession(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ali Khan", "ali@example.com", "secret1")
	assert.NoError(t, err)
	_, err = svc.Register(ctx, "Sara Ahmed", "sara@example.com", "secret2")
	assert.NoError(t, err)

	_, _, err = svc.Login(ctx, "ali@example.com", "secret1")
	assert.NoError(t, err)
	_, second, err := svc.Login(ctx, "sara@example.com", "secret2")
	assert.NoError(t, err)

	current, err := svc.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Equal(t, second.UserID, current.ID)
	assert.Equal(t, "sara@example.com", current.Email)
}

func TestCurrentUserLazyExpiry(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ali Khan", "ali@example.com", "secret1")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "ali@example.com", "secret1")
	assert.NoError(t, err)

	// Jump past the TTL; the expired session is cleared on read.
	svc.Now = func() time.Time { return time.Date(2025, 10, 1, 13, 0, 0, 0, time.UTC) }

	current, err := svc.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Nil(t, current)

	// A later read within a fresh clock still finds no session.
	svc.Now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	current, err = svc.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Nil(t, current)
}

func TestLogoutClearsSession(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ali Khan", "ali@example.com", "secret1")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "ali@example.com", "secret1")
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(ctx))

	current, err := svc.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Nil(t, current)
}

func TestRefreshExtendsDeadline(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ali Khan", "ali@example.com", "secret1")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "ali@example.com", "secret1")
	assert.NoError(t, err)

	extended, err := svc.Refresh(ctx, time.Hour)
	assert.NoError(t, err)
	assert.True(t, extended)
	assert.Equal(t, time.Hour, svc.SessionTimeRemaining(ctx))
}

func TestRefreshWithoutSession(t *testing.T) {
	svc := setupService()

	extended, err := svc.Refresh(context.Background(), time.Hour)
	assert.NoError(t, err)
	assert.False(t, extended)
}

func TestSessionTimeRemaining(t *testing.T) {
	svc := setupService()
	ctx := context.Background()

	assert.Zero(t, svc.SessionTimeRemaining(ctx))

	_, err := svc.Register(ctx, "Ali Khan", "ali@example.com", "secret1")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "ali@example.com", "secret1")
	assert.NoError(t, err)

	assert.Equal(t, 30*time.Minute, svc.SessionTimeRemaining(ctx))

	svc.Now = func() time.Time { return time.Date(2025, 10, 1, 14, 0, 0, 0, time.UTC) }
	assert.Zero(t, svc.SessionTimeRemaining(ctx))
}
