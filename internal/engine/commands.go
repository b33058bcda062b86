package engine

import (
	"context"
	"log/slog"
	"time"

	"door-command-control/internal/metrics"
	"door-command-control/internal/storage"
)

// DefaultCommandTTL is the validity window for commands when the caller does
// not supply an explicit expiry.
const DefaultCommandTTL = 5 * time.Minute

// Commands owns the single-use command queue. Rows are created here (by the
// loop, or directly for manual commands) and consumed exactly once through
// TakeNext; nothing else may flip the executed flag.
type Commands struct {
	store  storage.Provider
	logger *slog.Logger
	now    func() time.Time
}

func NewCommands(store storage.Provider) *Commands {
	return &Commands{
		store:  store,
		logger: slog.With("component", "commands"),
		now:    time.Now,
	}
}

// Enqueue appends a new command row. Pending commands are never deduplicated;
// several may coexist for one device and delivery picks the most recent.
// userID is recorded in the audit log when non-nil.
func (c *Commands) Enqueue(ctx context.Context, deviceID string, action storage.Action, expiresAt time.Time, userID *int64) (*storage.Command, error) {
	if deviceID == "" {
		return nil, &ValidationError{Field: "device_id", Reason: "must not be empty"}
	}
	if !action.Valid() {
		return nil, &ValidationError{Field: "action", Reason: "must be lock or unlock"}
	}
	if expiresAt.IsZero() {
		expiresAt = c.now().Add(DefaultCommandTTL)
	}

	command := storage.Command{
		DeviceID:  deviceID,
		Command:   action,
		ExpiresAt: expiresAt,
	}
	id, err := c.store.CreateCommand(ctx, command)
	if err != nil {
		return nil, err
	}
	command.ID = id

	if err := c.store.AppendLog(ctx, storage.LogEntry{
		DeviceID: deviceID,
		UserID:   userID,
		Action:   storage.LogAction(action),
		Status:   storage.LogStatusPending,
	}); err != nil {
		return nil, err
	}

	metrics.CommandsEnqueuedTotal.Inc()
	c.logger.Debug("Command enqueued", "command_id", id, "device_id", deviceID, "action", action, "expires_at", expiresAt)
	return &command, nil
}

// TakeNext hands out the device's most recent pending, unexpired command and
// retires it. Expired rows are excluded inside the claim itself, not filtered
// afterwards. Returns nil when the queue holds nothing deliverable.
func (c *Commands) TakeNext(ctx context.Context, deviceID string) (*storage.Command, error) {
	command, err := c.store.ClaimNextCommand(ctx, deviceID, c.now())
	if err != nil {
		return nil, err
	}
	if command != nil {
		metrics.CommandsDeliveredTotal.Inc()
		c.logger.Debug("Command delivered", "command_id", command.ID, "device_id", deviceID, "action", command.Command)
	}
	return command, nil
}

func (c *Commands) List(ctx context.Context, deviceID string, includeExecuted bool) ([]storage.Command, error) {
	return c.store.ListCommands(ctx, deviceID, includeExecuted)
}
