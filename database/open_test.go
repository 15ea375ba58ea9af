package database

import (
	"context"
	"testing"
)

func TestOpenMemoryDriver(t *testing.T) {
	store, err := Open(context.Background(), Config{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if store.Driver != DriverMemory {
		t.Fatalf("expected memory driver, got %s", store.Driver)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "sqlite"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestMongoURI(t *testing.T) {
	c := Config{Host: "db", Port: "27017", Database: "pickem"}
	if got := c.mongoURI(); got != "mongodb://db:27017/pickem" {
		t.Fatalf("unexpected uri %s", got)
	}
	c.Username, c.Password = "u", "p"
	if got := c.mongoURI(); got != "mongodb://u:p@db:27017/pickem?authSource=pickem" {
		t.Fatalf("unexpected uri %s", got)
	}
}
