package idempotency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the name of the idempotency collection in MongoDB
const CollectionName = "idempotency_records"

type mongoRecord struct {
	Key    string `bson:"_id"`
	Record `bson:",inline"`
}

// MongoStore is the durable idempotency backend. Records expire through a TTL
// index on created_at, so retention needs no application-side sweeper.
type MongoStore struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoStore creates the Mongo-backed store and ensures the TTL index
// exists with the configured retention.
func NewMongoStore(ctx context.Context, logger *slog.Logger, db *mongo.Database, ttl time.Duration) (*MongoStore, error) {
	collection := db.Collection(CollectionName)

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("failed to create idempotency TTL index: %w", err)
	}

	return &MongoStore{
		collection: collection,
		logger:     logger,
	}, nil
}

// Get returns the record for key, or nil if the key has never been seen.
func (s *MongoStore) Get(ctx context.Context, key string) (*Record, error) {
	var doc mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		s.logger.Error("Failed to get idempotency record", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get idempotency record: %w", err)
	}

	return &doc.Record, nil
}

// Put stores the record for key. A concurrent writer that got there first
// wins; the duplicate-key error is swallowed so the recorded outcome stands.
func (s *MongoStore) Put(ctx context.Context, key string, rec Record) error {
	_, err := s.collection.InsertOne(ctx, mongoRecord{Key: key, Record: rec})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		s.logger.Error("Failed to store idempotency record", "key", key, "error", err)
		return fmt.Errorf("failed to store idempotency record: %w", err)
	}

	return nil
}
