package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/admin-console/internal/core/domain"
)

const sessionCollection = "session_records"

// KeyValueStore persists session records as documents keyed by _id.
type KeyValueStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewKeyValueStore(db *mongo.Database) *KeyValueStore {
	return &KeyValueStore{db: db, coll: db.Collection(sessionCollection)}
}

type record struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	var rec record
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("find session record: %w", err)
	}
	return rec.Value, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	rec := record{Key: key, Value: value, UpdatedAt: time.Now().UTC().Unix()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session record: %w", err)
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}

// Ping checks both the client connection and that the database answers commands.
func (s *KeyValueStore) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return err
	}
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
