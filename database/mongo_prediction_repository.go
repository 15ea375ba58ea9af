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

// MongoPredictionRepository stores one document per (user, game_id)
type MongoPredictionRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoPredictionRepository(ctx context.Context, db *MongoDB) *MongoPredictionRepository {
	collection := db.GetCollection("predictions")
	logger := logging.WithPrefix("mongo_prediction_repo")

	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	// Compound index on user, game_id (unique constraint)
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "game_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "game_id", Value: 1}},
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create prediction indexes: %v", err)
	}

	return &MongoPredictionRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoPredictionRepository) GetPrediction(ctx context.Context, user, gameID string) (*models.Prediction, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var p models.Prediction
	err := r.collection.FindOne(ctx, bson.M{"user": user, "game_id": gameID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prediction %s/%s: %w", user, gameID, err)
	}
	return &p, nil
}

// UpsertPrediction creates or overwrites the prediction for (user, game_id)
func (r *MongoPredictionRepository) UpsertPrediction(ctx context.Context, p *models.Prediction) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	filter := bson.M{"user": p.User, "game_id": p.GameID}
	update := bson.M{
		"$set": bson.M{
			"winner":       p.Winner,
			"total":        p.Total,
			"line_at_pick": p.LineAtPick,
			"updated_at":   p.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"created_at": p.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert prediction %s/%s: %w", p.User, p.GameID, err)
	}
	return nil
}

func (r *MongoPredictionRepository) ListPredictions(ctx context.Context) ([]*models.Prediction, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoPredictionRepository) ListPredictionsByUser(ctx context.Context, user string) ([]*models.Prediction, error) {
	return r.find(ctx, bson.M{"user": user})
}

func (r *MongoPredictionRepository) ListPredictionsByGame(ctx context.Context, gameID string) ([]*models.Prediction, error) {
	return r.find(ctx, bson.M{"game_id": gameID})
}

func (r *MongoPredictionRepository) find(ctx context.Context, filter bson.M) ([]*models.Prediction, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "user", Value: 1}, {Key: "game_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find predictions: %w", err)
	}
	defer cursor.Close(ctx)

	var predictions []*models.Prediction
	if err := cursor.All(ctx, &predictions); err != nil {
		return nil, fmt.Errorf("failed to decode predictions: %w", err)
	}
	return predictions, nil
}
