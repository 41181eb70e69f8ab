//go:build integration

package profile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func setupMongo(t *testing.T) *mongo.Collection {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client, err := Connect(connectCtx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	coll := client.Database("user_profiles_db").Collection("profiles")
	require.NoError(t, EnsureIndexes(ctx, coll))
	return coll
}

func TestIntegration_UpsertAndFind(t *testing.T) {
	coll := setupMongo(t)
	store := NewMongoStore(coll)
	ctx := context.Background()

	_, err := store.FindByUserID(ctx, 1)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	want := &Profile{UserID: 1, Age: 30, DOB: "1995-01-01", Contact: "555"}
	require.NoError(t, store.Upsert(ctx, want))
	require.NoError(t, store.Upsert(ctx, want))

	got, err := store.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	count, err := coll.CountDocuments(ctx, bson.D{{Key: "user_id", Value: int64(1)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIntegration_MissingFieldsDefaultToEmpty(t *testing.T) {
	coll := setupMongo(t)
	store := NewMongoStore(coll)
	ctx := context.Background()

	_, err := coll.InsertOne(ctx, bson.D{{Key: "user_id", Value: int64(2)}, {Key: "dob", Value: "2000-01-01"}})
	require.NoError(t, err)

	got, err := store.FindByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, &Profile{UserID: 2, DOB: "2000-01-01"}, got)
}

func TestIntegration_ConcurrentFirstUpserts(t *testing.T) {
	coll := setupMongo(t)
	store := NewMongoStore(coll)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(age int64) {
			defer wg.Done()
			errs <- store.Upsert(ctx, &Profile{UserID: 3, Age: age, DOB: "d", Contact: "c"})
		}(int64(i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	count, err := coll.CountDocuments(ctx, bson.D{{Key: "user_id", Value: int64(3)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIntegration_Ping(t *testing.T) {
	store := NewMongoStore(setupMongo(t))
	require.NoError(t, store.Ping(context.Background()))
}
