package database

import (
	"context"
	"fmt"

	"cfb-pickem/logging"
)

// Open connects to the backend named by config.Driver and returns its repositories
func Open(ctx context.Context, config Config) (*Store, error) {
	logger := logging.WithPrefix("Database")

	switch config.Driver {
	case DriverMongo, "":
		db, err := NewMongoConnection(ctx, config)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(ctx, db), nil
	case DriverPostgres:
		pool, err := NewPostgresPool(ctx, config)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil
	case DriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		return NewMemoryBundle(NewMemoryStore()), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", config.Driver)
	}
}
