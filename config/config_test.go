package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "CORS_ORIGINS", "REDIS_ADDR", "FEED_RETRY_ATTEMPTS", "ENVIRONMENT", "JWT_SECRET"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.Database.Driver != "mongo" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Fatalf("cors default: %v", cfg.Server.CORSOrigins)
	}
	if cfg.RedisOptions() != nil {
		t.Fatal("redis should be disabled without REDIS_ADDR")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate in development: %v", err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("POSTGRES_URL", "postgres://localhost/pickem")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("FEED_CACHE_TTL", "45s")
	t.Setenv("AUTH_REQUIRED", "yes")

	cfg := FromEnv()
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors = %v", cfg.Server.CORSOrigins)
	}
	if opts := cfg.RedisOptions(); opts == nil || opts.Addr != "localhost:6379" {
		t.Fatalf("redis options = %+v", opts)
	}
	if cfg.ToFeedConfig().CacheTTL != 45*time.Second {
		t.Fatalf("cache ttl = %s", cfg.ToFeedConfig().CacheTTL)
	}
	if !cfg.Auth.AuthRequired {
		t.Fatal("AUTH_REQUIRED not honored")
	}
	if db := cfg.ToDatabaseConfig(); db.Driver != "postgres" || db.PostgresURL == "" {
		t.Fatalf("database config = %+v", db)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, true},
		{"postgres without url", func(c *Config) { c.Database.Driver = "postgres"; c.Database.PostgresURL = "" }, true},
		{"memory needs nothing", func(c *Config) { c.Database = DatabaseConfig{Driver: "memory"} }, false},
		{"zero attempts", func(c *Config) { c.Feed.RetryAttempts = 0 }, true},
		{"default secret in production", func(c *Config) { c.Server.Environment = "production"; c.Auth.JWTSecret = defaultJWTSecret }, true},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Server:   ServerConfig{Port: "8080", Environment: "development"},
				Database: DatabaseConfig{Driver: "mongo", Host: "localhost", Port: "27017", Database: "cfb_pickem"},
				Feed:     FeedConfig{RetryAttempts: 1},
				Auth:     AuthConfig{JWTSecret: "s3cret"},
			}
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
