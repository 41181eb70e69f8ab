// Package profile serves the per-user profile document. Callers identify the
// user only through a validated session; no handler accepts a user id from
// the request.
package profile

import (
	"context"
	"errors"

	"profilehub/internal/apperror"
)

// Service defines the profile operations
type Service interface {
	Get(ctx context.Context, userID int64) (*View, error)
	Update(ctx context.Context, userID int64, req UpdateRequest) error
}

type service struct {
	store Store
}

// NewService creates a new profile service
func NewService(store Store) Service {
	return &service{store: store}
}

// Get returns the stored profile, or StatusNotCompleted when the user has not
// saved one yet. A missing document is not an error.
func (s *service) Get(ctx context.Context, userID int64) (*View, error) {
	p, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return &View{Status: StatusNotCompleted}, nil
	}
	if err != nil {
		return nil, apperror.Unavailable(err)
	}
	return &View{Status: StatusCompleted, Profile: p}, nil
}

// Update stores the three fields for userID. Repeating the same update leaves
// the same document behind.
func (s *service) Update(ctx context.Context, userID int64, req UpdateRequest) error {
	err := s.store.Upsert(ctx, &Profile{
		UserID:  userID,
		Age:     req.Age,
		DOB:     req.DOB,
		Contact: req.Contact,
	})
	if err != nil {
		return apperror.Unavailable(err)
	}
	return nil
}
