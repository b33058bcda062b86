package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (p *SQLProvider) CreateOverride(ctx context.Context, override Override) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO overrides (device_id, user_id, action, trigger_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		override.DeviceID, override.UserID, override.Action,
		override.TriggerAt.UTC(), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create override: %w", err)
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetOverride(ctx context.Context, id int64) (*Override, error) {
	var override Override
	err := p.db.GetContext(ctx, &override,
		`SELECT id, device_id, user_id, action, trigger_at, created_at
		 FROM overrides WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return &override, nil
}

func (p *SQLProvider) DeleteOverride(ctx context.Context, id int64) (bool, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM overrides WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete override: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListActiveOverrides returns overrides whose trigger time is still in the
// future. Already-fired or stale rows are invisible here even when the
// cleanup pass has not physically removed them yet.
func (p *SQLProvider) ListActiveOverrides(ctx context.Context, now time.Time, filter OverrideFilter) ([]Override, error) {
	query := `SELECT id, device_id, user_id, action, trigger_at, created_at
		 FROM overrides WHERE trigger_at > ?`
	args := []any{now.UTC()}

	if filter.DeviceID != "" {
		query += ` AND device_id = ?`
		args = append(args, filter.DeviceID)
	}
	if filter.UserID != 0 {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	query += ` ORDER BY created_at DESC`

	var overrides []Override
	if err := p.db.SelectContext(ctx, &overrides, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list active overrides: %w", err)
	}
	return overrides, nil
}

func (p *SQLProvider) ListDueOverrides(ctx context.Context, now time.Time) ([]Override, error) {
	var overrides []Override
	err := p.db.SelectContext(ctx, &overrides,
		`SELECT id, device_id, user_id, action, trigger_at, created_at
		 FROM overrides WHERE trigger_at <= ? ORDER BY trigger_at ASC`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due overrides: %w", err)
	}
	return overrides, nil
}

func (p *SQLProvider) DeleteOverridesTriggeredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM overrides WHERE trigger_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale overrides: %w", err)
	}
	return res.RowsAffected()
}
