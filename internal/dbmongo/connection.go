// Package dbmongo holds the MongoDB adapter for media metadata.
package dbmongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediacms/internal/common"
	"mediacms/internal/config"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var mediaCollections = []common.MediaKind{
	common.MediaKindImage,
	common.MediaKindDocument,
	common.MediaKindAudio,
	common.MediaKindVideo,
	common.MediaKindRemoteVideo,
}

func NewMongoConnection(c *config.Config) (*MongoClient, error) {
	uri := c.GetMongoURI()
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := client.Database(c.MongoDB.Database)
	if err := ensureHashIndexes(ctx, database); err != nil {
		return nil, fmt.Errorf("failed to create hash indexes: %w", err)
	}

	return &MongoClient{
		Client:   client,
		Database: database,
	}, nil
}

// ensureHashIndexes creates the unique hash index on every media collection.
// The index is what turns the dedup-check/insert race into a catchable
// duplicate-key conflict instead of two records.
func ensureHashIndexes(ctx context.Context, database *mongo.Database) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "hash", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, kind := range mediaCollections {
		if _, err := database.Collection(kind.Collection()).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("collection %s: %w", kind.Collection(), err)
		}
	}
	return nil
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}
