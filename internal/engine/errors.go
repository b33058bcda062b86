// Package engine implements the command and override scheduling core: the
// schedule store rules, the override store rules, the single-use command
// queue, and the reconciliation loop that ties them together. HTTP framing,
// credential handling and UI concerns live elsewhere.
package engine

import "fmt"

// ValidationError reports malformed input, e.g. a bad time format or an
// out-of-range day of week. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a schedule overlapping an existing one. The
// conflicting interval is named so the caller can resolve it.
type ConflictError struct {
	OpenTime  string
	CloseTime string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule overlaps with existing schedule: %s-%s", e.OpenTime, e.CloseTime)
}

// NotFoundError reports an unknown schedule, override, device or user id.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Kind, e.ID)
}

// AuthorizationError reports a role mismatch. It deliberately carries no
// detail beyond "unauthorized".
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string {
	return "unauthorized"
}
