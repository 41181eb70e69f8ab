package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"profilehub/internal/auth"
	"profilehub/internal/profile"
	"profilehub/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	mu    sync.Mutex
	users []*auth.User
}

func (f *fakeUsers) Create(ctx context.Context, username, email, passwordHash string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return nil, auth.ErrDuplicateUser
		}
	}
	u := &auth.User{
		ID:           int64(len(f.users) + 1),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

type fakeProfiles struct {
	mu      sync.Mutex
	docs    map[int64]profile.Profile
	pingErr error
}

func (f *fakeProfiles) FindByUserID(ctx context.Context, userID int64) (*profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.docs[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, p *profile.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[p.UserID] = *p
	return nil
}

func (f *fakeProfiles) Ping(ctx context.Context) error { return f.pingErr }

type fakeDB struct {
	status string
}

func (f fakeDB) Health(ctx context.Context) map[string]string {
	return map[string]string{"status": f.status}
}

type testServer struct {
	redis    *miniredis.Miniredis
	profiles *fakeProfiles
	db       *fakeDB
	deps     Deps
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	profiles := &fakeProfiles{docs: make(map[int64]profile.Profile)}
	db := &fakeDB{status: "up"}

	return &testServer{
		redis:    mr,
		profiles: profiles,
		db:       db,
		deps: Deps{
			DB:                 db,
			Users:              &fakeUsers{},
			SessionStore:       session.NewRedisStore(rdb),
			ProfileStore:       profiles,
			Hasher:             auth.NewHasher(bcrypt.MinCost),
			SessionTTL:         time.Hour,
			CORSAllowedOrigins: []string{"http://localhost:5173"},
		},
	}
}
