package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"profilehub/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository with the same uniqueness
// rules as the users table.
type fakeUserRepo struct {
	mu     sync.Mutex
	byID   map[int64]*User
	nextID int64
	// set to a non-nil error to simulate a database failure
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.byID {
		if u.Username == username || u.Email == email {
			return nil, ErrDuplicateUser
		}
	}

	u := &User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.byID[u.ID] = u
	f.nextID++

	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

type testEnv struct {
	repo     *fakeUserRepo
	sessions session.Manager
	redis    *miniredis.Miniredis
	service  Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := newFakeUserRepo()
	sessions := session.NewManager(session.NewRedisStore(rdb), time.Hour)

	svc, err := NewService(repo, sessions, NewHasher(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	return &testEnv{repo: repo, sessions: sessions, redis: mr, service: svc}
}

func strPtr(s string) *string { return &s }
