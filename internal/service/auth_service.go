package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"puppaka/internal/auth"
	apperrors "puppaka/internal/errors"
	"puppaka/internal/metrics"
	"puppaka/internal/repository"
)

// Password length bounds for password changes. bcrypt reads at most 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// Session is an established authenticated session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      auth.SessionUser
}

// AuthService handles the admin login state machine.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	Resume(ctx context.Context, claims *auth.Claims) (*auth.SessionUser, error)
	Authenticate(ctx context.Context, token string) (*auth.SessionUser, error)
	ChangePassword(ctx context.Context, userID uint, current, next string) error
}

type authService struct {
	users    repository.UserRepository
	tokens   *auth.TokenService
	sessions auth.SessionStoreInterface
	metrics  metrics.Recorder

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, sessions auth.SessionStoreInterface, rec metrics.Recorder) AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &authService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		metrics:  rec,
	}
}

// Login verifies the credentials and opens a session. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials after a bcrypt comparison.
func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		auth.CheckPassword(s.dummy(), password)
		return nil, s.failLogin(ctx, username)
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, s.failLogin(ctx, username)
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	sessionUser := auth.SessionUser{ID: user.ID, Username: user.Username, Role: user.Role}
	if err := s.sessions.Create(ctx, claims.SessionID(), sessionUser, s.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.LoginAttempt(metrics.LoginSuccess)
	slog.InfoContext(ctx, "admin logged in", "username", user.Username)

	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      sessionUser,
	}, nil
}

func (s *authService) failLogin(ctx context.Context, username string) error {
	s.metrics.LoginAttempt(metrics.LoginFailure)
	slog.WarnContext(ctx, "admin login failed", "username", username)
	return apperrors.ErrInvalidCredentials
}

// dummy returns a hash to compare against when the username is unknown.
func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("puppaka-no-such-user")
	})
	return s.dummyHash
}

// Logout destroys the session. It is idempotent.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Resume returns the user of a live session named by already validated claims.
func (s *authService) Resume(ctx context.Context, claims *auth.Claims) (*auth.SessionUser, error) {
	user, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if user.ID != claims.UserID {
		return nil, auth.ErrNoSession
	}
	return user, nil
}

// Authenticate validates a raw session token and resumes its session.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.SessionUser, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, auth.ErrNoSession
	}
	return s.Resume(ctx, claims)
}

// ChangePassword replaces the password of userID after verifying the current one.
func (s *authService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if len(next) < MinPasswordLength {
		return apperrors.NewValidationError("new_password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if len(next) > MaxPasswordBytes {
		return apperrors.NewValidationError("new_password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(user.Password, current) {
		return apperrors.NewValidationError("current_password", "is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	slog.InfoContext(ctx, "admin password changed", "username", user.Username)
	return nil
}
