package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (p *SQLProvider) CreateDevice(ctx context.Context, device Device) (int64, error) {
	now := time.Now().UTC()
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO devices (device_id, name, location, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		device.DeviceID, device.Name, device.Location, device.Status, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create device: %w", err)
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetDevice(ctx context.Context, deviceID string) (*Device, error) {
	var device Device
	err := p.db.GetContext(ctx, &device,
		`SELECT id, device_id, name, location, status, created_at, updated_at
		 FROM devices WHERE device_id = ?`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return &device, nil
}

func (p *SQLProvider) ListDevices(ctx context.Context) ([]Device, error) {
	var devices []Device
	err := p.db.SelectContext(ctx, &devices,
		`SELECT id, device_id, name, location, status, created_at, updated_at
		 FROM devices ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// UpdateDeviceStatus returns false when the device does not exist.
func (p *SQLProvider) UpdateDeviceStatus(ctx context.Context, deviceID string, status DeviceStatus) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		`UPDATE devices SET status = ?, updated_at = ? WHERE device_id = ?`,
		status, time.Now().UTC(), deviceID)
	if err != nil {
		return false, fmt.Errorf("failed to update device status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
