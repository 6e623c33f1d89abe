package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/errs"
)

const defaultCollectionName = "grove_kv"

const (
	OpGet = "store.mongodb.Get"
	OpSet = "store.mongodb.Set"
	OpCAS = "store.mongodb.CompareAndSwap"
)

var _ port.Store = (*Store)(nil)

type recordDoc struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewStore(client *mongo.Client, database, collection string) *Store {
	if collection == "" {
		collection = defaultCollectionName
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (s *Store) Get(ctx context.Context, key string) (port.Record, error) {
	var doc recordDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	switch {
	case err == nil:
		return port.Record{Value: doc.Value, Version: uint64(doc.Version)}, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return port.Record{}, port.ErrNotFound
	default:
		return port.Record{}, errs.Wrap(OpGet, errs.KindInfra, err, map[string]any{"key": key})
	}
}

func (s *Store) Set(ctx context.Context, key string, value []byte) (uint64, error) {
	var doc recordDoc
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": key},
		bson.M{
			"$set": bson.M{"value": value, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": int64(1)},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, errs.Wrap(OpSet, errs.KindInfra, err, map[string]any{"key": key})
	}
	return uint64(doc.Version), nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key string, expected uint64, value []byte) (uint64, error) {
	now := time.Now().UTC()
	if expected == 0 {
		_, err := s.coll.InsertOne(ctx, recordDoc{Key: key, Value: value, Version: 1, UpdatedAt: now})
		switch {
		case err == nil:
			return 1, nil
		case mongo.IsDuplicateKeyError(err):
			return 0, port.ErrVersionConflict
		default:
			return 0, errs.Wrap(OpCAS, errs.KindInfra, err, map[string]any{"key": key})
		}
	}

	res, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": key, "version": int64(expected)},
		bson.M{
			"$set": bson.M{"value": value, "updated_at": now},
			"$inc": bson.M{"version": int64(1)},
		},
	)
	if err != nil {
		return 0, errs.Wrap(OpCAS, errs.KindInfra, err, map[string]any{"key": key, "expected": expected})
	}
	if res.MatchedCount == 0 {
		return 0, port.ErrVersionConflict
	}
	return expected + 1, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
