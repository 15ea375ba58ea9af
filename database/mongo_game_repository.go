package database

import (
	"context"
	"errors"
	"fmt"

	"cfb-pickem/logging"
	"cfb-pickem/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGameRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoGameRepository(ctx context.Context, db *MongoDB) *MongoGameRepository {
	collection := db.GetCollection("games")
	logger := logging.WithPrefix("mongo_game_repo")

	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	// Listing orders by kickoff
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "kickoff", Value: 1}},
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on games collection: %v", err)
	}

	return &MongoGameRepository{
		collection: collection,
		logger:     logger,
	}
}

// SaveGame replaces the stored document for game.ID, inserting it if absent
func (r *MongoGameRepository) SaveGame(ctx context.Context, game *models.Game) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": game.ID}, game, opts); err != nil {
		return fmt.Errorf("failed to upsert game %s: %w", game.ID, err)
	}
	return nil
}

func (r *MongoGameRepository) GetGame(ctx context.Context, id string) (*models.Game, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find game %s: %w", id, err)
	}
	return &game, nil
}

func (r *MongoGameRepository) ListGames(ctx context.Context) ([]*models.Game, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "kickoff", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find games: %w", err)
	}
	defer cursor.Close(ctx)

	var games []*models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}
