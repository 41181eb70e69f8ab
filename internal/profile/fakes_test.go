package profile

import (
	"context"
	"sync"
)

// fakeStore is an in-memory Store keyed by user_id.
type fakeStore struct {
	mu      sync.Mutex
	docs    map[int64]Profile
	upserts int
	// set to a non-nil error to simulate a MongoDB failure
	err error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[int64]Profile)}
}

func (f *fakeStore) FindByUserID(ctx context.Context, userID int64) (*Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.docs[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeStore) Upsert(ctx context.Context, p *Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.docs[p.UserID] = *p
	f.upserts++
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
