package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	DonorsCollection    = "donors"
	CharitiesCollection = "charities"
	MessagesCollection  = "messages"
)

// Connect dials uri and pings the primary before returning the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(database), nil
}

func indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		DonorsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CharitiesCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "posts._id", Value: 1}}},
		},
		MessagesCollection: {
			{Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "to", Value: 1}, {Key: "read", Value: 1}}},
			{Keys: bson.D{{Key: "from", Value: 1}, {Key: "fromModel", Value: 1}}},
			{Keys: bson.D{{Key: "to", Value: 1}, {Key: "toModel", Value: 1}}},
		},
	}
}

// EnsureIndexes creates the collections' indexes; existing identical indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	for name, models := range indexes() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
		logger.Debug("Indexes ensured", "collection", name, "count", len(models))
	}
	return nil
}
