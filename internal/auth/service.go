// Package auth implements account registration, password login and logout.
// A successful login mints a session through the session manager; the
// returned token is the only credential the profile endpoints accept.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"profilehub/internal/apperror"
	"profilehub/internal/session"
)

const (
	msgInvalidData   = "Invalid data received."
	msgFieldsMissing = "All fields are required."
	msgDuplicateUser = "Username or Email already exists."
	msgPasswordLong  = "Password must be 72 bytes or fewer."
)

// Service defines the authentication service interface
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// service implements the Service interface
type service struct {
	users    UserRepository
	sessions session.Manager
	hasher   *Hasher
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewService creates a new authentication service
func NewService(users UserRepository, sessions session.Manager, hasher *Hasher) (Service, error) {
	dummy, err := hasher.Hash("profilehub-dummy-password")
	if err != nil {
		return nil, err
	}
	return &service{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		dummyHash: dummy,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Username == nil || req.Email == nil || req.Password == nil {
		return nil, apperror.Validation(msgInvalidData)
	}

	// stored as submitted so login matches the same bytes
	username, email, password := *req.Username, *req.Email, *req.Password

	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, apperror.Validation(msgFieldsMissing)
	}
	if len(password) > MaxPasswordBytes {
		return nil, apperror.Validation(msgPasswordLong)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Unavailable(err)
	}

	user, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, apperror.Conflict(msgDuplicateUser)
		}
		return nil, apperror.Unavailable(err)
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Email == nil || req.Password == nil || *req.Email == "" || *req.Password == "" {
		return nil, apperror.Validation(msgInvalidData)
	}

	user, err := s.users.GetByEmail(ctx, *req.Email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		_ = s.hasher.Verify(s.dummyHash, *req.Password)
		return nil, apperror.InvalidCredentials()
	case err != nil:
		return nil, apperror.Unavailable(err)
	}

	if err := s.hasher.Verify(user.PasswordHash, *req.Password); err != nil {
		if !errors.Is(err, errPasswordMismatch) {
			slog.Warn("Stored password hash is unreadable", "user_id", user.ID, "error", err.Error())
		}
		return nil, apperror.InvalidCredentials()
	}

	sess, err := s.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		return nil, apperror.Unavailable(err)
	}

	return &LoginResult{
		Token:    sess.Token,
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperror.Unavailable(err)
	}
	return nil
}
