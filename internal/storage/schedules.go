package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (p *SQLProvider) CreateSchedule(ctx context.Context, schedule Schedule) (int64, error) {
	now := time.Now().UTC()
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO schedules (device_id, day_of_week, open_time, close_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		schedule.DeviceID, schedule.DayOfWeek, schedule.OpenTime, schedule.CloseTime, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create schedule: %w", err)
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetSchedule(ctx context.Context, id int64) (*Schedule, error) {
	var schedule Schedule
	err := p.db.GetContext(ctx, &schedule,
		`SELECT id, device_id, day_of_week, open_time, close_time, created_at, updated_at
		 FROM schedules WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (p *SQLProvider) UpdateSchedule(ctx context.Context, schedule Schedule) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE schedules SET device_id = ?, day_of_week = ?, open_time = ?, close_time = ?, updated_at = ?
		 WHERE id = ?`,
		schedule.DeviceID, schedule.DayOfWeek, schedule.OpenTime, schedule.CloseTime,
		time.Now().UTC(), schedule.ID)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

func (p *SQLProvider) DeleteSchedule(ctx context.Context, id int64) (bool, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListSchedules lists all schedules, or those of a single device when
// deviceID is non-empty.
func (p *SQLProvider) ListSchedules(ctx context.Context, deviceID string) ([]Schedule, error) {
	var schedules []Schedule
	var err error
	if deviceID == "" {
		err = p.db.SelectContext(ctx, &schedules,
			`SELECT id, device_id, day_of_week, open_time, close_time, created_at, updated_at
			 FROM schedules ORDER BY device_id ASC, day_of_week ASC`)
	} else {
		err = p.db.SelectContext(ctx, &schedules,
			`SELECT id, device_id, day_of_week, open_time, close_time, created_at, updated_at
			 FROM schedules WHERE device_id = ? ORDER BY day_of_week ASC`, deviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// ListSchedulesForDay returns schedules for a weekday, optionally restricted
// to a device. The reconciliation loop uses the all-devices form; the overlap
// check uses the per-device form.
func (p *SQLProvider) ListSchedulesForDay(ctx context.Context, deviceID string, dayOfWeek int) ([]Schedule, error) {
	var schedules []Schedule
	var err error
	if deviceID == "" {
		err = p.db.SelectContext(ctx, &schedules,
			`SELECT id, device_id, day_of_week, open_time, close_time, created_at, updated_at
			 FROM schedules WHERE day_of_week = ?`, dayOfWeek)
	} else {
		err = p.db.SelectContext(ctx, &schedules,
			`SELECT id, device_id, day_of_week, open_time, close_time, created_at, updated_at
			 FROM schedules WHERE device_id = ? AND day_of_week = ?`, deviceID, dayOfWeek)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules for day: %w", err)
	}
	return schedules, nil
}
