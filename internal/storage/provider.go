package storage

import (
	"context"
	"log/slog"
	"time"

	"door-command-control/internal/config"
)

// OverrideFilter narrows ListActiveOverrides. Zero value means all.
type OverrideFilter struct {
	DeviceID string
	UserID   int64
}

// LogFilter narrows ListLogs. Zero value means the most recent entries.
type LogFilter struct {
	DeviceID string
	UserID   int64
	Action   LogAction
	Status   LogStatus
	Limit    int
}

type Provider interface {
	Close() error

	// User methods
	CreateUser(ctx context.Context, user User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)

	// Device methods
	CreateDevice(ctx context.Context, device Device) (int64, error)
	GetDevice(ctx context.Context, deviceID string) (*Device, error)
	ListDevices(ctx context.Context) ([]Device, error)
	UpdateDeviceStatus(ctx context.Context, deviceID string, status DeviceStatus) (bool, error)

	// Schedule methods
	CreateSchedule(ctx context.Context, schedule Schedule) (int64, error)
	GetSchedule(ctx context.Context, id int64) (*Schedule, error)
	UpdateSchedule(ctx context.Context, schedule Schedule) error
	DeleteSchedule(ctx context.Context, id int64) (bool, error)
	ListSchedules(ctx context.Context, deviceID string) ([]Schedule, error)
	ListSchedulesForDay(ctx context.Context, deviceID string, dayOfWeek int) ([]Schedule, error)

	// Override methods
	CreateOverride(ctx context.Context, override Override) (int64, error)
	GetOverride(ctx context.Context, id int64) (*Override, error)
	DeleteOverride(ctx context.Context, id int64) (bool, error)
	ListActiveOverrides(ctx context.Context, now time.Time, filter OverrideFilter) ([]Override, error)
	ListDueOverrides(ctx context.Context, now time.Time) ([]Override, error)
	DeleteOverridesTriggeredBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Command queue methods
	CreateCommand(ctx context.Context, command Command) (int64, error)
	// ClaimNextCommand atomically marks the most recent unexecuted,
	// unexpired command for the device as executed and returns it.
	// Returns nil when no such command exists.
	ClaimNextCommand(ctx context.Context, deviceID string, now time.Time) (*Command, error)
	ListCommands(ctx context.Context, deviceID string, includeExecuted bool) ([]Command, error)

	// Audit log methods
	AppendLog(ctx context.Context, entry LogEntry) error
	ListLogs(ctx context.Context, filter LogFilter) ([]LogEntry, error)
}

func NewProvider(config *config.Storage) Provider {
	switch {
	case config.SQLite != nil:
		provider := NewSQLiteProvider(config)
		if provider == nil {
			return nil
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported storage configuration", "config", config)
	}

	return nil
}
