package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"faq-bot/models"
)

// Archive persists conversation turns to MongoDB for offline review. It is
// optional: a nil *Archive is valid and every method no-ops on it, so the bot
// runs unchanged without a database.
type Archive struct {
	db *mongo.Database
}

// NewArchive wires the archive against a connected client and creates the
// transcript indexes.
func NewArchive(client *mongo.Client, databaseName string) *Archive {
	a := &Archive{db: client.Database(databaseName)}
	a.createIndexes()
	return a
}

func (a *Archive) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := a.db.Collection("transcripts")
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"user_id": 1}},
		{Keys: bson.M{"country": 1}},
		{Keys: bson.M{"timestamp": -1}},
	})
	if err != nil {
		slog.Error("Failed to create transcript indexes", "error", err)
	}
}

// SaveTurn archives one exchange. Fire-and-forget: failures are logged, the
// request is already answered.
func (a *Archive) SaveTurn(ctx context.Context, transcript models.Transcript) {
	if a == nil {
		return
	}
	transcript.Timestamp = time.Now()
	if _, err := a.db.Collection("transcripts").InsertOne(ctx, transcript); err != nil {
		slog.Error("Failed to archive turn", "error", err, "userID", transcript.UserID)
	}
}

// RecentTurns returns the latest archived turns for a user, oldest first.
func (a *Archive) RecentTurns(ctx context.Context, userID string, limit int) ([]models.Transcript, error) {
	if a == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	findOptions := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetLimit(int64(limit))

	cursor, err := a.db.Collection("transcripts").Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var turns []models.Transcript
	if err := cursor.All(ctx, &turns); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
