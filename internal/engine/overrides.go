package engine

import (
	"context"
	"log/slog"
	"time"

	"door-command-control/internal/storage"
)

// Overrides applies the one-off exception rules: role checks on creation and
// deletion, and the delayed-trigger policy. Creating an override enqueues
// nothing; the reconciliation loop converts it into a command once trigger_at
// has passed. The alternative policy, enqueuing immediately at creation with
// trigger_at as the command's own expiry, is intentionally not implemented.
type Overrides struct {
	store  storage.Provider
	logger *slog.Logger
	now    func() time.Time
}

func NewOverrides(store storage.Provider) *Overrides {
	return &Overrides{
		store:  store,
		logger: slog.With("component", "overrides"),
		now:    time.Now,
	}
}

func (o *Overrides) Create(ctx context.Context, deviceID string, userID int64, role storage.Role, action storage.Action, triggerAt time.Time) (*storage.Override, error) {
	if role != storage.RoleFaculty && role != storage.RoleAdmin {
		return nil, &AuthorizationError{}
	}
	if deviceID == "" {
		return nil, &ValidationError{Field: "device_id", Reason: "must not be empty"}
	}
	if !action.Valid() {
		return nil, &ValidationError{Field: "action", Reason: "must be lock or unlock"}
	}
	if triggerAt.IsZero() {
		return nil, &ValidationError{Field: "trigger_at", Reason: "must be a valid timestamp"}
	}

	override := storage.Override{
		DeviceID:  deviceID,
		UserID:    userID,
		Action:    action,
		TriggerAt: triggerAt,
	}
	id, err := o.store.CreateOverride(ctx, override)
	if err != nil {
		return nil, err
	}
	override.ID = id

	if err := o.store.AppendLog(ctx, storage.LogEntry{
		DeviceID: deviceID,
		UserID:   &userID,
		Action:   storage.LogActionOverride,
		Status:   storage.LogStatusSuccess,
	}); err != nil {
		return nil, err
	}

	o.logger.Info("Override created", "override_id", id, "device_id", deviceID, "action", action, "trigger_at", triggerAt)
	return &override, nil
}

// Delete removes an override before it fires. Only the creator or an admin
// may do so.
func (o *Overrides) Delete(ctx context.Context, id int64, requesterID int64, role storage.Role) error {
	override, err := o.store.GetOverride(ctx, id)
	if err != nil {
		return err
	}
	if override == nil {
		return &NotFoundError{Kind: "override", ID: id}
	}

	if role != storage.RoleAdmin && override.UserID != requesterID {
		return &AuthorizationError{}
	}

	if _, err := o.store.DeleteOverride(ctx, id); err != nil {
		return err
	}

	if err := o.store.AppendLog(ctx, storage.LogEntry{
		DeviceID: override.DeviceID,
		UserID:   &requesterID,
		Action:   storage.LogActionOverride,
		Status:   storage.LogStatusSuccess,
	}); err != nil {
		return err
	}

	o.logger.Info("Override deleted", "override_id", id, "requester_id", requesterID)
	return nil
}

// ListActive returns overrides whose trigger time is still in the future.
func (o *Overrides) ListActive(ctx context.Context, filter storage.OverrideFilter) ([]storage.Override, error) {
	return o.store.ListActiveOverrides(ctx, o.now(), filter)
}
