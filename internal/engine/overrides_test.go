package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"door-command-control/internal/storage"
)

func TestOverrideCreate_RequiresKnownRole(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	overrides := NewOverrides(store)

	trigger := tuesdayAt(15, 0, 0)

	var authz *AuthorizationError
	if _, err := overrides.Create(ctx, "door-1", 1, storage.Role(""), storage.ActionUnlock, trigger); !errors.As(err, &authz) {
		t.Errorf("empty role: expected AuthorizationError, got %v", err)
	}
	if _, err := overrides.Create(ctx, "door-1", 1, storage.Role("student"), storage.ActionUnlock, trigger); !errors.As(err, &authz) {
		t.Errorf("unknown role: expected AuthorizationError, got %v", err)
	}

	for _, role := range []storage.Role{storage.RoleFaculty, storage.RoleAdmin} {
		if _, err := overrides.Create(ctx, "door-1", 1, role, storage.ActionUnlock, trigger); err != nil {
			t.Errorf("role %s should be allowed, got %v", role, err)
		}
	}
}

func TestOverrideCreate_Validation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	overrides := NewOverrides(store)

	var validation *ValidationError
	if _, err := overrides.Create(ctx, "", 1, storage.RoleFaculty, storage.ActionUnlock, tuesdayAt(15, 0, 0)); !errors.As(err, &validation) {
		t.Errorf("empty device: expected ValidationError, got %v", err)
	}
	if _, err := overrides.Create(ctx, "door-1", 1, storage.RoleFaculty, storage.Action("open"), tuesdayAt(15, 0, 0)); !errors.As(err, &validation) {
		t.Errorf("bad action: expected ValidationError, got %v", err)
	}
	if _, err := overrides.Create(ctx, "door-1", 1, storage.RoleFaculty, storage.ActionUnlock, time.Time{}); !errors.As(err, &validation) {
		t.Errorf("zero trigger_at: expected ValidationError, got %v", err)
	}
}

func TestOverrideCreate_EnqueuesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	overrides := NewOverrides(store)

	// Even a trigger time already in the past produces no command at
	// creation; the reconciliation loop owns that conversion.
	if _, err := overrides.Create(ctx, "door-1", 1, storage.RoleFaculty, storage.ActionUnlock, tuesdayAt(1, 0, 0)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	pending, err := store.ListCommands(ctx, "door-1", true)
	if err != nil {
		t.Fatalf("ListCommands failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("override creation enqueued a command: %+v", pending)
	}
}

func TestOverrideDelete_CreatorOrAdminOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	overrides := NewOverrides(store)

	creator := newTestUser(t, store, "creator@example.com", storage.RoleFaculty)
	other := newTestUser(t, store, "other@example.com", storage.RoleFaculty)
	admin := newTestUser(t, store, "admin@example.com", storage.RoleAdmin)

	trigger := tuesdayAt(15, 0, 0)

	first, err := overrides.Create(ctx, "door-1", creator, storage.RoleFaculty, storage.ActionUnlock, trigger)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var authz *AuthorizationError
	if err := overrides.Delete(ctx, first.ID, other, storage.RoleFaculty); !errors.As(err, &authz) {
		t.Fatalf("non-creator faculty delete: expected AuthorizationError, got %v", err)
	}
	if err := overrides.Delete(ctx, first.ID, creator, storage.RoleFaculty); err != nil {
		t.Fatalf("creator delete should succeed, got %v", err)
	}

	second, err := overrides.Create(ctx, "door-1", creator, storage.RoleFaculty, storage.ActionUnlock, trigger)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := overrides.Delete(ctx, second.ID, admin, storage.RoleAdmin); err != nil {
		t.Fatalf("admin delete should succeed, got %v", err)
	}

	var notFound *NotFoundError
	if err := overrides.Delete(ctx, second.ID, admin, storage.RoleAdmin); !errors.As(err, &notFound) {
		t.Fatalf("deleting twice: expected NotFoundError, got %v", err)
	}
}

func TestOverrideListActive_FutureOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	overrides := NewOverrides(store)

	now := tuesdayAt(12, 0, 0)
	overrides.now = func() time.Time { return now }

	if _, err := overrides.Create(ctx, "door-1", 1, storage.RoleFaculty, storage.ActionUnlock, now.Add(-time.Minute)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	future, err := overrides.Create(ctx, "door-1", 1, storage.RoleFaculty, storage.ActionLock, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	active, err := overrides.ListActive(ctx, storage.OverrideFilter{})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != future.ID {
		t.Fatalf("expected only the future override, got %+v", active)
	}
}

func TestOverrideListActive_Filters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	overrides := NewOverrides(store)

	now := tuesdayAt(12, 0, 0)
	overrides.now = func() time.Time { return now }

	alice := newTestUser(t, store, "alice@example.com", storage.RoleFaculty)
	bob := newTestUser(t, store, "bob@example.com", storage.RoleFaculty)

	if _, err := overrides.Create(ctx, "door-1", alice, storage.RoleFaculty, storage.ActionUnlock, now.Add(time.Hour)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := overrides.Create(ctx, "door-2", bob, storage.RoleFaculty, storage.ActionUnlock, now.Add(time.Hour)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	byDevice, err := overrides.ListActive(ctx, storage.OverrideFilter{DeviceID: "door-1"})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(byDevice) != 1 || byDevice[0].DeviceID != "door-1" {
		t.Fatalf("device filter returned %+v", byDevice)
	}

	byUser, err := overrides.ListActive(ctx, storage.OverrideFilter{UserID: bob})
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(byUser) != 1 || byUser[0].UserID != bob {
		t.Fatalf("user filter returned %+v", byUser)
	}
}
