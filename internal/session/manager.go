// Package session issues and validates login sessions.
//
// A session is a JSON payload stored in Redis under session:{token} with a
// fixed TTL counted from creation. Redis evicts expired keys; nothing here
// compares timestamps. Validation issues a single GET and never extends or
// deletes the key, so any number of concurrent requests may validate the
// same token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTTL is how long a session lives after login.
const DefaultTTL = 3600 * time.Second

// maxIssueAttempts bounds regeneration when SET NX finds the key taken.
const maxIssueAttempts = 3

var (
	// ErrUnauthorized is returned when the header is malformed or the session
	// is absent, expired or unreadable.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStoreUnavailable wraps every failure of the underlying store.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrTokenCollision means every generated token was already taken.
	ErrTokenCollision = errors.New("token collision")
)

// Manager defines the interface for session management operations
type Manager interface {
	// Create issues a new token for the user and stores the session.
	Create(ctx context.Context, userID int64, username string) (*Session, error)
	// Get resolves a raw token.
	Get(ctx context.Context, token string) (*Session, error)
	// Validate resolves the value of an Authorization header.
	Validate(ctx context.Context, authorization string) (*Session, error)
	// Delete revokes a token immediately. Deleting an unknown token succeeds.
	Delete(ctx context.Context, token string) error
}

// manager implements Manager interface
type manager struct {
	store    Store
	ttl      time.Duration
	newToken func() (string, error)
	now      func() time.Time
}

// NewManager creates a session manager. A non-positive ttl means DefaultTTL.
func NewManager(store Store, ttl time.Duration) Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &manager{
		store:    store,
		ttl:      ttl,
		newToken: NewToken,
		now:      time.Now,
	}
}

func (m *manager) Create(ctx context.Context, userID int64, username string) (*Session, error) {
	now := m.now()
	data, err := json.Marshal(payload{
		UserID:    userID,
		Username:  username,
		LoginTime: now.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		token, err := m.newToken()
		if err != nil {
			return nil, err
		}

		stored, err := m.store.SetNX(ctx, Key(token), string(data), m.ttl)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		if !stored {
			slog.Warn("Session token collision, regenerating", "attempt", attempt+1)
			continue
		}

		return &Session{
			Token:     token,
			UserID:    userID,
			Username:  username,
			CreatedAt: time.Unix(now.Unix(), 0),
		}, nil
	}

	return nil, ErrTokenCollision
}

func (m *manager) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	data, err := m.store.Get(ctx, Key(token))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	var p payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		slog.Warn("Discarding unreadable session payload", "error", err.Error())
		return nil, ErrUnauthorized
	}

	return &Session{
		Token:     token,
		UserID:    p.UserID,
		Username:  p.Username,
		CreatedAt: time.Unix(p.LoginTime, 0),
	}, nil
}

func (m *manager) Validate(ctx context.Context, authorization string) (*Session, error) {
	token, ok := ExtractBearer(authorization)
	if !ok {
		return nil, ErrUnauthorized
	}
	return m.Get(ctx, token)
}

func (m *manager) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, Key(token)); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
