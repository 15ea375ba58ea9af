package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cfb-pickem/logging"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Storage configuration
	Database DatabaseConfig `json:"database"`

	// Redis feed cache configuration
	Redis RedisConfig `json:"redis"`

	// Scoreboard feed configuration
	Feed FeedConfig `json:"feed"`

	// Authentication configuration
	Auth AuthConfig `json:"auth"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `json:"port"`
	Host           string        `json:"host"`
	BehindProxy    bool          `json:"behind_proxy"`
	Environment    string        `json:"environment"`
	CORSOrigins    []string      `json:"cors_origins"`
	RateLimit      int           `json:"rate_limit"`
	RateLimitEvery time.Duration `json:"rate_limit_every"`
}

// DatabaseConfig holds storage configuration
type DatabaseConfig struct {
	Driver      string        `json:"driver"`
	Host        string        `json:"host"`
	Port        string        `json:"port"`
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	Database    string        `json:"database"`
	PostgresURL string        `json:"postgres_url"`
	Timeout     time.Duration `json:"timeout"`
}

// RedisConfig holds the feed cache connection. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `json:"addr"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	TTL      time.Duration `json:"ttl"`
}

// FeedConfig holds scoreboard feed settings
type FeedConfig struct {
	ScoreboardURL string        `json:"scoreboard_url"`
	Timeout       time.Duration `json:"timeout"`
	RetryAttempts int           `json:"retry_attempts"`
	RetryBackoff  time.Duration `json:"retry_backoff"`
	// PollInterval drives the background updater; zero disables it
	PollInterval  time.Duration `json:"poll_interval"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret    string        `json:"jwt_secret"`
	TokenTTL     time.Duration `json:"token_ttl"`
	AuthRequired bool          `json:"auth_required"`
	AdminToken   string        `json:"admin_token"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
	JSON        bool   `json:"json"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Don't treat missing .env as an error
		logging.Debugf("Could not load .env file: %v", err)
	}

	config := FromEnv()

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds a Config from the process environment without validating it
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			BehindProxy:    getBoolEnv("BEHIND_PROXY", false),
			Environment:    getEnv("ENVIRONMENT", "development"),
			CORSOrigins:    getListEnv("CORS_ORIGINS", []string{"*"}),
			RateLimit:      getIntEnv("RATE_LIMIT", 60),
			RateLimitEvery: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", "mongo")),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "27017"),
			Username:    getEnv("DB_USERNAME", ""),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "cfb_pickem"),
			PostgresURL: getEnv("POSTGRES_URL", ""),
			Timeout:     getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			TTL:      getDurationEnv("FEED_CACHE_TTL", 2*time.Minute),
		},
		Feed: FeedConfig{
			ScoreboardURL: getEnv("FEED_URL", "https://site.api.espn.com/apis/site/v2/sports/football/college-football/scoreboard"),
			Timeout:       getDurationEnv("FEED_TIMEOUT", 20*time.Second),
			RetryAttempts: getIntEnv("FEED_RETRY_ATTEMPTS", 3),
			RetryBackoff:  getDurationEnv("FEED_RETRY_BACKOFF", 2*time.Second),
			PollInterval:  getDurationEnv("FEED_POLL_INTERVAL", 0),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
			TokenTTL:     getDurationEnv("TOKEN_TTL", 7*24*time.Hour),
			AuthRequired: getBoolEnv("AUTH_REQUIRED", false),
			AdminToken:   getEnv("ADMIN_TOKEN", ""),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", "cfb-pickem"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
			JSON:        getBoolEnv("LOG_JSON", false),
		},
	}
}

// IsDevelopment reports whether the environment is development
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, "development")
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got: %d", c.Server.RateLimit)
	}

	switch c.Database.Driver {
	case "mongo", "":
		if c.Database.Host == "" || c.Database.Port == "" {
			return fmt.Errorf("database host and port are required for mongo")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	case "postgres":
		if c.Database.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required when DB_DRIVER=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	if c.Feed.RetryAttempts < 1 {
		return fmt.Errorf("feed retry attempts must be at least 1, got: %d", c.Feed.RetryAttempts)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == defaultJWTSecret && !c.IsDevelopment() {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (Behind Proxy: %t, Environment: %s, CORS: %v, RateLimit: %d/%s)",
		c.GetServerAddress(), c.Server.BehindProxy, c.Server.Environment,
		c.Server.CORSOrigins, c.Server.RateLimit, c.Server.RateLimitEvery)
	logging.Infof("Storage: driver=%s %s:%s/%s (Username: %s, Auth: %t, Postgres: %t)",
		c.Database.Driver, c.Database.Host, c.Database.Port, c.Database.Database,
		c.Database.Username, c.Database.Password != "", c.Database.PostgresURL != "")
	logging.Infof("Redis: enabled=%t addr=%s db=%d ttl=%s",
		c.Redis.Addr != "", c.Redis.Addr, c.Redis.DB, c.Redis.TTL)
	logging.Infof("Feed: %s (timeout=%s, attempts=%d, backoff=%s, poll=%s)",
		c.Feed.ScoreboardURL, c.Feed.Timeout, c.Feed.RetryAttempts, c.Feed.RetryBackoff, c.Feed.PollInterval)
	logging.Infof("Auth: required=%t, token TTL=%s, admin token set=%t",
		c.Auth.AuthRequired, c.Auth.TokenTTL, c.Auth.AdminToken != "")
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t, JSON=%t",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor, c.Logging.JSON)
	logging.Info("================================")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
