package database

import (
	"context"
	"fmt"

	"cfb-pickem/logging"
	"cfb-pickem/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoAchievementRepository struct {
	collection *mongo.Collection
}

func NewMongoAchievementRepository(ctx context.Context, db *MongoDB) *MongoAchievementRepository {
	collection := db.GetCollection("achievements")

	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "badge", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logging.WithPrefix("mongo_achievement_repo").Errorf("Failed to create index on achievements collection: %v", err)
	}

	return &MongoAchievementRepository{collection: collection}
}

// Award inserts (user, badge) only if absent
func (r *MongoAchievementRepository) Award(ctx context.Context, a models.Achievement) (bool, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	filter := bson.M{"user": a.User, "badge": a.Badge}
	update := bson.M{"$setOnInsert": bson.M{"awarded_at": a.AwardedAt}}

	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// A concurrent upsert of the same key loses on the unique index
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to award %s to %s: %w", a.Badge, a.User, err)
	}
	return res.UpsertedCount == 1, nil
}

func (r *MongoAchievementRepository) ListAchievements(ctx context.Context, user string) ([]models.Achievement, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "badge", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find achievements for %s: %w", user, err)
	}
	defer cursor.Close(ctx)

	achievements := []models.Achievement{}
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, fmt.Errorf("failed to decode achievements: %w", err)
	}
	return achievements, nil
}
