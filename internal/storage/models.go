package storage

import "time"

// Action is the closed set of things a lock can be told to do.
type Action string

const (
	ActionLock   Action = "lock"
	ActionUnlock Action = "unlock"
)

func (a Action) Valid() bool {
	return a == ActionLock || a == ActionUnlock
}

type DeviceStatus string

const (
	DeviceStatusOnline   DeviceStatus = "online"
	DeviceStatusOffline  DeviceStatus = "offline"
	DeviceStatusLocked   DeviceStatus = "locked"
	DeviceStatusUnlocked DeviceStatus = "unlocked"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusOnline, DeviceStatusOffline, DeviceStatusLocked, DeviceStatusUnlocked:
		return true
	}
	return false
}

type LogAction string

const (
	LogActionLock      LogAction = "lock"
	LogActionUnlock    LogAction = "unlock"
	LogActionOverride  LogAction = "override"
	LogActionSchedule  LogAction = "schedule"
	LogActionHeartbeat LogAction = "heartbeat"
	LogActionRegister  LogAction = "register"
)

func (a LogAction) Valid() bool {
	switch a {
	case LogActionLock, LogActionUnlock, LogActionOverride, LogActionSchedule, LogActionHeartbeat, LogActionRegister:
		return true
	}
	return false
}

type LogStatus string

const (
	LogStatusSuccess LogStatus = "success"
	LogStatusFailed  LogStatus = "failed"
	LogStatusPending LogStatus = "pending"
)

func (s LogStatus) Valid() bool {
	return s == LogStatusSuccess || s == LogStatusFailed || s == LogStatusPending
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFaculty
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Device struct {
	ID        int64        `db:"id" json:"id"`
	DeviceID  string       `db:"device_id" json:"device_id"`
	Name      string       `db:"name" json:"name"`
	Location  string       `db:"location" json:"location"`
	Status    DeviceStatus `db:"status" json:"status"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// Schedule is a recurring weekly access window. Open and close times are
// wall-clock HH:MM:SS strings; overlap checks compare at minute resolution.
type Schedule struct {
	ID        int64     `db:"id" json:"id"`
	DeviceID  string    `db:"device_id" json:"device_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"` // 0 (Sunday) through 6 (Saturday)
	OpenTime  string    `db:"open_time" json:"open_time"`
	CloseTime string    `db:"close_time" json:"close_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Override is a one-off access exception. It does nothing at creation time;
// the reconciliation loop converts it into a Command once trigger_at passes.
type Override struct {
	ID        int64     `db:"id" json:"id"`
	DeviceID  string    `db:"device_id" json:"device_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Action    Action    `db:"action" json:"action"`
	TriggerAt time.Time `db:"trigger_at" json:"trigger_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Command is a single-use, time-bounded instruction. It is visible to the
// delivery path only while executed is false and expires_at is in the future.
type Command struct {
	ID        int64     `db:"id" json:"id"`
	DeviceID  string    `db:"device_id" json:"device_id"`
	Command   Action    `db:"command" json:"command"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Executed  bool      `db:"executed" json:"executed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LogEntry is an append-only audit record. The engine never mutates or
// deletes rows in the logs table.
type LogEntry struct {
	ID        int64     `db:"id" json:"id"`
	DeviceID  string    `db:"device_id" json:"device_id"`
	UserID    *int64    `db:"user_id" json:"user_id"` // nil for system actions
	Action    LogAction `db:"action" json:"action"`
	Status    LogStatus `db:"status" json:"status"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
