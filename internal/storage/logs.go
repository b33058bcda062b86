package storage

import (
	"context"
	"fmt"
	"time"
)

const defaultLogLimit = 100

func (p *SQLProvider) AppendLog(ctx context.Context, entry LogEntry) error {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO logs (device_id, user_id, action, status, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.DeviceID, entry.UserID, entry.Action, entry.Status, ts.UTC())
	if err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return nil
}

func (p *SQLProvider) ListLogs(ctx context.Context, filter LogFilter) ([]LogEntry, error) {
	query := `SELECT id, device_id, user_id, action, status, timestamp FROM logs`
	var conds []string
	var args []any

	if filter.DeviceID != "" {
		conds = append(conds, `device_id = ?`)
		args = append(args, filter.DeviceID)
	}
	if filter.UserID != 0 {
		conds = append(conds, `user_id = ?`)
		args = append(args, filter.UserID)
	}
	if filter.Action != "" {
		conds = append(conds, `action = ?`)
		args = append(args, filter.Action)
	}
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, filter.Status)
	}
	for i, cond := range conds {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	var entries []LogEntry
	if err := p.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	return entries, nil
}
