package config

import (
	"os"

	"cfb-pickem/database"
	"cfb-pickem/logging"
	"cfb-pickem/services"

	"github.com/redis/go-redis/v9"
)

// ToDatabaseConfig converts Config to database.Config
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:      c.Database.Driver,
		Host:        c.Database.Host,
		Port:        c.Database.Port,
		Username:    c.Database.Username,
		Password:    c.Database.Password,
		Database:    c.Database.Database,
		PostgresURL: c.Database.PostgresURL,
		Timeout:     c.Database.Timeout,
	}
}

// ToLoggingConfig converts Config to logging.Config
func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Output:      os.Stdout,
		Prefix:      c.Logging.Prefix,
		EnableColor: c.Logging.EnableColor,
		JSON:        c.Logging.JSON,
	}
}

// ToFeedConfig converts Config to services.FeedConfig
func (c *Config) ToFeedConfig() services.FeedConfig {
	return services.FeedConfig{
		ScoreboardURL: c.Feed.ScoreboardURL,
		Timeout:       c.Feed.Timeout,
		RetryAttempts: c.Feed.RetryAttempts,
		RetryBackoff:  c.Feed.RetryBackoff,
		CacheTTL:      c.Redis.TTL,
	}
}

// RedisOptions returns client options, or nil when caching is disabled
func (c *Config) RedisOptions() *redis.Options {
	if c.Redis.Addr == "" {
		return nil
	}
	return &redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}
