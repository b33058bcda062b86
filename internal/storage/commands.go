package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (p *SQLProvider) CreateCommand(ctx context.Context, command Command) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO device_commands (device_id, command, expires_at, executed, created_at)
		 VALUES (?, ?, ?, 0, ?)`,
		command.DeviceID, command.Command, command.ExpiresAt.UTC(), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create command: %w", err)
	}
	return res.LastInsertId()
}

// ClaimNextCommand marks the most recent pending, unexpired command for the
// device as executed and returns it. The read and the executed flip happen in
// a single statement so two concurrent heartbeats for the same device can
// never claim the same command.
func (p *SQLProvider) ClaimNextCommand(ctx context.Context, deviceID string, now time.Time) (*Command, error) {
	var command Command
	err := p.db.GetContext(ctx, &command,
		`UPDATE device_commands SET executed = 1
		 WHERE id = (
		     SELECT id FROM device_commands
		     WHERE device_id = ? AND executed = 0 AND expires_at > ?
		     ORDER BY created_at DESC, id DESC
		     LIMIT 1
		 )
		 RETURNING id, device_id, command, expires_at, executed, created_at`,
		deviceID, now.UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim command: %w", err)
	}
	return &command, nil
}

func (p *SQLProvider) ListCommands(ctx context.Context, deviceID string, includeExecuted bool) ([]Command, error) {
	query := `SELECT id, device_id, command, expires_at, executed, created_at
		 FROM device_commands`
	var conds []string
	var args []any

	if deviceID != "" {
		conds = append(conds, `device_id = ?`)
		args = append(args, deviceID)
	}
	if !includeExecuted {
		conds = append(conds, `executed = 0`)
	}
	for i, cond := range conds {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var commands []Command
	if err := p.db.SelectContext(ctx, &commands, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list commands: %w", err)
	}
	return commands, nil
}
