package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tcs-portal/internal/models"
	"tcs-portal/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already registered")
)

// ValidationError reports a missing or malformed registration field with a
// message suitable for direct display.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service owns the users collection and the singleton session. All
// mutations go through the Store, which notifies open views after each
// write.
type Service struct {
	Store      store.Store
	SessionTTL time.Duration
	Now        func() time.Time

	mu sync.Mutex
}

func NewService(st store.Store, sessionTTL time.Duration) *Service {
	return &Service{Store: st, SessionTTL: sessionTTL, Now: time.Now}
}

// EnsureSeed creates the users collection with the admin account, or adds
// the admin if a collection exists without one. The admin is never
// re-created once present.
func (s *Service) EnsureSeed(ctx context.Context, name, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadUsers(ctx)
	for _, u := range users {
		if u.Role == models.RoleAdmin && strings.EqualFold(u.Email, email) {
			return nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    s.Now(),
	}
	return s.Store.Set(ctx, store.KeyUsers, append(users, admin))
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if len(strings.TrimSpace(name)) < 2 {
		return nil, &ValidationError{Message: "Name must be at least 2 characters."}
	}
	if !strings.Contains(email, "@") {
		return nil, &ValidationError{Message: "Please enter a valid email address."}
	}
	if len(password) < 6 {
		return nil, &ValidationError{Message: "Password must be at least 6 characters."}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadUsers(ctx)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrDuplicateEmail
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		CreatedAt:    s.Now(),
	}

	if err := s.Store.Set(ctx, store.KeyUsers, append(users, user)); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login verifies the credentials and overwrites the session. A single
// session exists at a time; logging in replaces any prior one.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadUsers(ctx)
	var match *models.User
	for i := range users {
		if strings.EqualFold(users[i].Email, strings.TrimSpace(email)) {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(match.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := s.Now()
	session := models.Session{
		UserID:    match.ID,
		Role:      match.Role,
		LoginAt:   now,
		ExpiresAt: now.Add(s.SessionTTL),
	}
	if err := s.Store.Set(ctx, store.KeySession, session); err != nil {
		return nil, nil, fmt.Errorf("failed to persist session: %w", err)
	}

	user := match.Sanitized()
	return &user, &session, nil
}

// CurrentUser resolves the session. An expired session is deleted as a
// side effect (lazy expiry) and nil is returned. The password hash is
// never part of the returned view.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var session models.Session
	if err := s.Store.Get(ctx, store.KeySession, &session); err != nil {
		return nil, nil
	}
	if session.Expired(s.Now()) {
		_ = s.Store.Delete(ctx, store.KeySession)
		return nil, nil
	}

	users := s.loadUsers(ctx)
	for _, u := range users {
		if u.ID == session.UserID {
			sanitized := u.Sanitized()
			return &sanitized, nil
		}
	}

	// Session points at a deleted user; clear it.
	_ = s.Store.Delete(ctx, store.KeySession)
	return nil, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.Store.Delete(ctx, store.KeySession)
}

// Refresh extends the session deadline from now. Returns false when there
// is no session to extend.
func (s *Service) Refresh(ctx context.Context, extend time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var session models.Session
	if err := s.Store.Get(ctx, store.KeySession, &session); err != nil {
		return false, nil
	}
	session.ExpiresAt = s.Now().Add(extend)
	if err := s.Store.Set(ctx, store.KeySession, session); err != nil {
		return false, err
	}
	return true, nil
}

// SessionTimeRemaining reports how long the session stays valid, zero when
// absent or already expired.
func (s *Service) SessionTimeRemaining(ctx context.Context) time.Duration {
	var session models.Session
	if err := s.Store.Get(ctx, store.KeySession, &session); err != nil {
		return 0
	}
	remaining := session.ExpiresAt.Sub(s.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Service) loadUsers(ctx context.Context) []models.User {
	var users []models.User
	if err := s.Store.Get(ctx, store.KeyUsers, &users); err != nil {
		return nil
	}
	return users
}
