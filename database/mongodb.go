package database

import (
	"context"
	"fmt"
	"time"

	"cfb-pickem/logging"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config selects and parameterizes a storage backend
type Config struct {
	Driver      string
	Host        string
	Port        string
	Username    string
	Password    string
	Database    string
	PostgresURL string
	Timeout     time.Duration
}

type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

func (c Config) mongoURI() string {
	if c.Username != "" && c.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=%s",
			c.Username, c.Password, c.Host, c.Port, c.Database, c.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", c.Host, c.Port, c.Database)
}

func NewMongoConnection(ctx context.Context, config Config) (*MongoDB, error) {
	logger := logging.WithPrefix("MongoDB")
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = MediumTimeout
	}
	ctx, cancel := ContextWithTimeout(ctx, timeout)
	defer cancel()

	if config.Username != "" {
		logger.Infof("Connecting with authentication as user: %s", config.Username)
	} else {
		logger.Info("Connecting without authentication")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.mongoURI()))
	if err != nil {
		logger.Errorf("Failed to connect: %v", err)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, nil); err != nil {
		logger.Errorf("Failed to ping: %v", err)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Infof("Successfully connected to %s:%s database=%s", config.Host, config.Port, config.Database)

	return &MongoDB{
		client:   client,
		database: client.Database(config.Database),
	}, nil
}

func (m *MongoDB) Close() error {
	logger := logging.WithPrefix("MongoDB")
	ctx, cancel := WithShortTimeout(context.Background())
	defer cancel()

	err := m.client.Disconnect(ctx)
	if err != nil {
		logger.Errorf("Error disconnecting: %v", err)
	} else {
		logger.Info("Connection closed successfully")
	}
	return err
}

func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) GetCollection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// NewMongoStore builds the repository bundle on top of a MongoDB connection
func NewMongoStore(ctx context.Context, db *MongoDB) *Store {
	return &Store{
		Driver:       DriverMongo,
		Games:        NewMongoGameRepository(ctx, db),
		Predictions:  NewMongoPredictionRepository(ctx, db),
		Achievements: NewMongoAchievementRepository(ctx, db),
		Users:        NewMongoUserRepository(db),
		ping:         db.Ping,
		close:        db.Close,
	}
}
