package dbmongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mediacms/internal/media"
)

// MediaRecordStore persists MediaAsset documents in per-kind collections.
// It implements media.RecordStore.
type MediaRecordStore struct {
	db *mongo.Database
}

func NewMediaRecordStore(mongoClient *MongoClient) *MediaRecordStore {
	if mongoClient == nil {
		return &MediaRecordStore{}
	}
	return &MediaRecordStore{db: mongoClient.Database}
}

// mediaRecord pairs the generated ObjectID with the asset document.
type mediaRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	media.MediaAsset `bson:",inline"`
}

// FindByHash performs the single indexed-equality lookup driving dedup.
// A miss is not an error; it returns (nil, nil).
func (s *MediaRecordStore) FindByHash(ctx context.Context, collection, hash string) (*media.MediaAsset, error) {
	if s.db == nil {
		return nil, media.ErrAdapterNotInitialized
	}

	var record mediaRecord
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"hash": hash}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}

	asset := record.MediaAsset
	asset.ID = record.ID.Hex()
	return &asset, nil
}

// Persist inserts one new asset record and returns its generated identifier.
// A duplicate-key conflict means a concurrent upload of identical bytes won
// the race; the existing record's id is returned so both callers converge.
func (s *MediaRecordStore) Persist(ctx context.Context, collection string, asset *media.MediaAsset) (string, error) {
	if s.db == nil {
		return "", media.ErrAdapterNotInitialized
	}

	res, err := s.db.Collection(collection).InsertOne(ctx, mediaRecord{MediaAsset: *asset})
	if mongo.IsDuplicateKeyError(err) {
		existing, lookupErr := s.FindByHash(ctx, collection, asset.Hash)
		if lookupErr != nil {
			return "", lookupErr
		}
		if existing != nil {
			return existing.ID, nil
		}
		return "", fmt.Errorf("insert media record: %w", err)
	}
	if err != nil {
		return "", fmt.Errorf("insert media record: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return objectID.Hex(), nil
}

// Exists reports whether a record with the given hash is already stored.
func (s *MediaRecordStore) Exists(ctx context.Context, collection, hash string) (bool, error) {
	if s.db == nil {
		return false, media.ErrAdapterNotInitialized
	}
	count, err := s.db.Collection(collection).CountDocuments(ctx, bson.M{"hash": hash})
	if err != nil {
		return false, fmt.Errorf("count by hash: %w", err)
	}
	return count > 0, nil
}
