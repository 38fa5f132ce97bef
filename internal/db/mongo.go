package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used across services.
const (
	UsersCollection        = "users"
	PostsCollection        = "posts"
	InteractionsCollection = "interactions"
	BlacklistCollection    = "blacklist"
	FeedbackCollection     = "feedback"
	CountersCollection     = "counters"
)

// ConnectDB initializes and returns a MongoDB client and database instance.
func ConnectDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	fmt.Println("Successfully connected to MongoDB!")

	return client, db, nil
}

// DisconnectDB closes the MongoDB client connection.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	fmt.Println("MongoDB connection closed.")
	return nil
}

// EnsureIndexes creates the indexes the windowed count queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	postIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := db.Collection(PostsCollection).Indexes().CreateOne(ctx, postIdx); err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}
	feedbackIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := db.Collection(FeedbackCollection).Indexes().CreateOne(ctx, feedbackIdx); err != nil {
		return fmt.Errorf("failed to create feedback index: %w", err)
	}
	return nil
}

// NextSequence returns the next value of a named monotonic counter, creating
// the counter on first use. Used for the user-visible numeric post ids.
func NextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(CountersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %q: %w", name, err)
	}
	return doc.Seq, nil
}
