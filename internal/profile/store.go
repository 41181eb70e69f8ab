package profile

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ErrProfileNotFound is returned when the user has no profile document yet.
var ErrProfileNotFound = errors.New("profile not found")

// Store is the profile document store.
type Store interface {
	FindByUserID(ctx context.Context, userID int64) (*Profile, error)
	// Upsert replaces age, dob and contact for p.UserID, creating the
	// document when it does not exist.
	Upsert(ctx context.Context, p *Profile) error
	Ping(ctx context.Context) error
}

type mongoStore struct {
	coll *mongo.Collection
}

// Connect opens a pooled MongoDB client and verifies the primary answers.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}
	return client, nil
}

// NewMongoStore wraps the profiles collection. The caller owns the client.
func NewMongoStore(coll *mongo.Collection) Store {
	return &mongoStore{coll: coll}
}

// EnsureIndexes creates the unique index on user_id.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create user_id index: %w", err)
	}
	return nil
}

func (s *mongoStore) FindByUserID(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := s.coll.FindOne(ctx, bson.D{{Key: "user_id", Value: userID}}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &p, nil
}

func (s *mongoStore) Upsert(ctx context.Context, p *Profile) error {
	filter := bson.D{{Key: "user_id", Value: p.UserID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "user_id", Value: p.UserID},
		{Key: "age", Value: p.Age},
		{Key: "dob", Value: p.DOB},
		{Key: "contact", Value: p.Contact},
	}}}
	opts := options.UpdateOne().SetUpsert(true)

	_, err := s.coll.UpdateOne(ctx, filter, update, opts)
	// Two first-time upserts for the same user can both miss the filter; the
	// unique index rejects the loser, which then matches the winner's document.
	if mongo.IsDuplicateKeyError(err) {
		_, err = s.coll.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}
