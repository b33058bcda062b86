package engine

// Shared fixtures for the engine tests. Every test runs against a real
// in-memory SQLite provider so the SQL paths are exercised, not mocked.

import (
	"context"
	"testing"
	"time"

	"door-command-control/internal/config"
	"door-command-control/internal/storage"
)

func newTestStore(t *testing.T) storage.Provider {
	t.Helper()

	provider := storage.NewProvider(&config.Storage{
		SQLite: &config.SQLLiteStorage{Path: ":memory:"},
	})
	if provider == nil {
		t.Fatal("failed to create in-memory storage provider")
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func newTestDevice(t *testing.T, store storage.Provider, deviceID string) {
	t.Helper()

	_, err := store.CreateDevice(context.Background(), storage.Device{
		DeviceID: deviceID,
		Name:     "Test Door",
		Location: "B101",
		Status:   storage.DeviceStatusOffline,
	})
	if err != nil {
		t.Fatalf("CreateDevice failed: %v", err)
	}
}

func newTestUser(t *testing.T, store storage.Provider, email string, role storage.Role) int64 {
	t.Helper()

	id, err := store.CreateUser(context.Background(), storage.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return id
}

// tuesdayAt returns a fixed Tuesday at the given wall-clock time in UTC.
// 2026-09-01 is a Tuesday, so day_of_week is 2.
func tuesdayAt(hour, minute, second int) time.Time {
	return time.Date(2026, time.September, 1, hour, minute, second, 0, time.UTC)
}
