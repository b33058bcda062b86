package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"door-command-control/internal/config"
)

func newMemoryProvider(t *testing.T) Provider {
	t.Helper()

	provider := NewProvider(&config.Storage{
		SQLite: &config.SQLLiteStorage{Path: ":memory:"},
	})
	if provider == nil {
		t.Fatal("NewProvider returned nil for in-memory sqlite")
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestNewProvider_UnsupportedConfig(t *testing.T) {
	if provider := NewProvider(&config.Storage{}); provider != nil {
		t.Fatal("expected nil provider for empty storage config")
	}
}

func TestMigrations_RerunOnExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	cfg := &config.Storage{SQLite: &config.SQLLiteStorage{Path: path}}

	first := NewProvider(cfg)
	if first == nil {
		t.Fatal("first open failed")
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening must see the applied migrations and not fail re-applying.
	second := NewProvider(cfg)
	if second == nil {
		t.Fatal("second open failed")
	}
	defer second.Close()

	if _, err := second.ListDevices(context.Background()); err != nil {
		t.Fatalf("schema unusable after reopen: %v", err)
	}
}

func TestUpdateDeviceStatus_ReportsMissingDevice(t *testing.T) {
	ctx := context.Background()
	provider := newMemoryProvider(t)

	updated, err := provider.UpdateDeviceStatus(ctx, "door-404", DeviceStatusOnline)
	if err != nil {
		t.Fatalf("UpdateDeviceStatus failed: %v", err)
	}
	if updated {
		t.Fatal("update reported success for unknown device")
	}

	if _, err := provider.CreateDevice(ctx, Device{
		DeviceID: "door-1", Name: "Door", Location: "B101", Status: DeviceStatusOffline,
	}); err != nil {
		t.Fatalf("CreateDevice failed: %v", err)
	}

	updated, err = provider.UpdateDeviceStatus(ctx, "door-1", DeviceStatusLocked)
	if err != nil {
		t.Fatalf("UpdateDeviceStatus failed: %v", err)
	}
	if !updated {
		t.Fatal("update reported failure for existing device")
	}

	device, err := provider.GetDevice(ctx, "door-1")
	if err != nil {
		t.Fatalf("GetDevice failed: %v", err)
	}
	if device.Status != DeviceStatusLocked {
		t.Errorf("status = %q, want locked", device.Status)
	}
}

func TestClaimNextCommand_FlipsExecutedAtomically(t *testing.T) {
	ctx := context.Background()
	provider := newMemoryProvider(t)

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	if _, err := provider.CreateCommand(ctx, Command{
		DeviceID: "door-1", Command: ActionLock, ExpiresAt: now.Add(5 * time.Minute),
	}); err != nil {
		t.Fatalf("CreateCommand failed: %v", err)
	}

	claimed, err := provider.ClaimNextCommand(ctx, "door-1", now)
	if err != nil {
		t.Fatalf("ClaimNextCommand failed: %v", err)
	}
	if claimed == nil || !claimed.Executed {
		t.Fatalf("claimed = %+v, want an executed lock", claimed)
	}

	again, err := provider.ClaimNextCommand(ctx, "door-1", now)
	if err != nil {
		t.Fatalf("ClaimNextCommand failed: %v", err)
	}
	if again != nil {
		t.Fatalf("command claimed twice: %+v", again)
	}
}

func TestListLogs_FiltersAndLimit(t *testing.T) {
	ctx := context.Background()
	provider := newMemoryProvider(t)

	entries := []LogEntry{
		{DeviceID: "door-1", Action: LogActionHeartbeat, Status: LogStatusSuccess},
		{DeviceID: "door-1", Action: LogActionLock, Status: LogStatusPending},
		{DeviceID: "door-2", Action: LogActionHeartbeat, Status: LogStatusSuccess},
	}
	for _, entry := range entries {
		if err := provider.AppendLog(ctx, entry); err != nil {
			t.Fatalf("AppendLog failed: %v", err)
		}
	}

	byDevice, err := provider.ListLogs(ctx, LogFilter{DeviceID: "door-1"})
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(byDevice) != 2 {
		t.Fatalf("device filter returned %d entries, want 2", len(byDevice))
	}

	byAction, err := provider.ListLogs(ctx, LogFilter{Action: LogActionHeartbeat})
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(byAction) != 2 {
		t.Fatalf("action filter returned %d entries, want 2", len(byAction))
	}

	limited, err := provider.ListLogs(ctx, LogFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit 1 returned %d entries", len(limited))
	}
}
