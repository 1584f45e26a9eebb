package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"puppaka/internal/cache"
)

const sessionKeyPrefix = "session:"

// ErrNoSession is returned when a session id does not name a live session.
var ErrNoSession = errors.New("session not found")

// SessionUser is what an authenticated session knows about its user.
type SessionUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SessionStoreInterface defines server-side session storage.
type SessionStoreInterface interface {
	Create(ctx context.Context, sessionID string, user SessionUser, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*SessionUser, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionStore keeps sessions in a cache.Store (Redis or in-process).
type SessionStore struct {
	cache cache.Store
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a session store.
func NewSessionStore(store cache.Store) *SessionStore {
	return &SessionStore{cache: store}
}

func (s *SessionStore) Create(ctx context.Context, sessionID string, user SessionUser, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*SessionUser, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, ErrNoSession
	}
	var user SessionUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &user, nil
}

// Delete destroys the session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}
