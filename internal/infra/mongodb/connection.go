package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	leadsCollection         = "leads"
	notificationsCollection = "notifications"
	logsCollection          = "user_logs"
)

// Connect opens a client, pings the primary and returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, nil, storeErr("connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, storeErr("ping", err)
	}
	return client, client.Database(database), nil
}

// EnsureIndexes creates the indexes the repositories query by.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		leadsCollection: {
			{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "stage", Value: 1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "recipient_kind", Value: 1}, {Key: "recipient_key", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		logsCollection: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return storeErr("create indexes on "+coll, err)
		}
	}
	return nil
}
