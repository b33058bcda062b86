package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"door-command-control/internal/metrics"
	"door-command-control/internal/storage"
)

// Devices covers the device registry and the device-facing delivery
// endpoint. Heartbeat is the only way a device ever receives a command: the
// server never pushes to lock hardware, the hardware polls in.
type Devices struct {
	store    storage.Provider
	commands *Commands
	logger   *slog.Logger
	now      func() time.Time

	// Validity window of synthesized hold-current-state responses.
	holdTTL time.Duration
}

func NewDevices(store storage.Provider, commands *Commands) *Devices {
	return &Devices{
		store:    store,
		commands: commands,
		logger:   slog.With("component", "devices"),
		now:      time.Now,
		holdTTL:  DefaultCommandTTL,
	}
}

// ErrDeviceExists is returned by Register for a duplicate device_id.
var ErrDeviceExists = fmt.Errorf("device already exists")

func (d *Devices) Register(ctx context.Context, deviceID, name, location string) (*storage.Device, error) {
	if deviceID == "" {
		return nil, &ValidationError{Field: "device_id", Reason: "must not be empty"}
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if location == "" {
		return nil, &ValidationError{Field: "location", Reason: "must not be empty"}
	}

	existing, err := d.store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDeviceExists
	}

	device := storage.Device{
		DeviceID: deviceID,
		Name:     name,
		Location: location,
		Status:   storage.DeviceStatusOffline,
	}
	id, err := d.store.CreateDevice(ctx, device)
	if err != nil {
		return nil, err
	}
	device.ID = id

	if err := d.store.AppendLog(ctx, storage.LogEntry{
		DeviceID: deviceID,
		Action:   storage.LogActionRegister,
		Status:   storage.LogStatusSuccess,
	}); err != nil {
		return nil, err
	}

	d.logger.Info("Device registered", "device_id", deviceID, "name", name, "location", location)
	return &device, nil
}

func (d *Devices) Get(ctx context.Context, deviceID string) (*storage.Device, error) {
	device, err := d.store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, &NotFoundError{Kind: "device", ID: deviceID}
	}
	return device, nil
}

func (d *Devices) List(ctx context.Context) ([]storage.Device, error) {
	return d.store.ListDevices(ctx)
}

// HeartbeatResult is what a polling device takes home: at most one command.
// A nil Action means nothing to do.
type HeartbeatResult struct {
	Action    *storage.Action
	ExpiresAt *time.Time
}

// Heartbeat records the device's reported status, appends an audit entry and
// claims the device's next deliverable command. When the queue is empty but
// the stored status is already locked or unlocked, an idempotent
// hold-current-state response is synthesized instead of null; no command row
// backs it.
func (d *Devices) Heartbeat(ctx context.Context, deviceID string, status storage.DeviceStatus) (HeartbeatResult, error) {
	if deviceID == "" {
		return HeartbeatResult{}, &ValidationError{Field: "device_id", Reason: "must not be empty"}
	}
	if status == "" {
		status = storage.DeviceStatusOnline
	}
	if !status.Valid() {
		return HeartbeatResult{}, &ValidationError{Field: "status", Reason: "must be one of online, offline, locked, unlocked"}
	}

	updated, err := d.store.UpdateDeviceStatus(ctx, deviceID, status)
	if err != nil {
		return HeartbeatResult{}, err
	}
	if !updated {
		return HeartbeatResult{}, &NotFoundError{Kind: "device", ID: deviceID}
	}

	if err := d.store.AppendLog(ctx, storage.LogEntry{
		DeviceID: deviceID,
		Action:   storage.LogActionHeartbeat,
		Status:   storage.LogStatusSuccess,
	}); err != nil {
		return HeartbeatResult{}, err
	}

	metrics.HeartbeatsTotal.Inc()

	command, err := d.commands.TakeNext(ctx, deviceID)
	if err != nil {
		return HeartbeatResult{}, err
	}
	if command != nil {
		return HeartbeatResult{Action: &command.Command, ExpiresAt: &command.ExpiresAt}, nil
	}

	// Compatibility affordance for devices that treat a null command as
	// "do nothing": repeat the state they just reported.
	if status == storage.DeviceStatusLocked || status == storage.DeviceStatusUnlocked {
		hold := storage.ActionLock
		if status == storage.DeviceStatusUnlocked {
			hold = storage.ActionUnlock
		}
		expires := d.now().Add(d.holdTTL)
		return HeartbeatResult{Action: &hold, ExpiresAt: &expires}, nil
	}

	return HeartbeatResult{}, nil
}
