package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfb-pickem/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *MongoDB) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.GetCollection("users"),
	}
}

// EnsureUser inserts the username if it is not already present
func (r *MongoUserRepository) EnsureUser(ctx context.Context, username string, now time.Time) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	update := bson.M{"$setOnInsert": bson.M{"created_at": now}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": username}, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to ensure user %s: %w", username, err)
	}
	return nil
}

// GetUser retrieves a user by username
func (r *MongoUserRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}
	return &user, nil
}

// ClaimUser sets the password hash only while the document has none. When the
// filter misses because a hash is present, the upsert collides on _id.
func (r *MongoUserRepository) ClaimUser(ctx context.Context, user *models.User) (bool, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"_id":           user.Username,
		"password_hash": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{
		"$set":         bson.M{"password_hash": user.PasswordHash},
		"$setOnInsert": bson.M{"created_at": user.CreatedAt},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim user %s: %w", user.Username, err)
	}
	return result.MatchedCount > 0 || result.UpsertedCount > 0, nil
}

// ListUsers returns all users ordered by username
func (r *MongoUserRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}
