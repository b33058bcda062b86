package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"door-command-control/internal/auth"
	"door-command-control/internal/config"
	"door-command-control/internal/engine"
	"door-command-control/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *API) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Secret:   "test-secret",
		TokenTTL: 1,
	}
	config.Cfg = cfg

	store := storage.NewProvider(&config.Storage{
		SQLite: &config.SQLLiteStorage{Path: ":memory:"},
	})
	if store == nil {
		t.Fatal("failed to create in-memory storage provider")
	}
	t.Cleanup(func() { store.Close() })

	commands := engine.NewCommands(store)
	schedules := engine.NewSchedules(store)
	api := &API{
		Users:     auth.NewUsers(store),
		Devices:   engine.NewDevices(store, commands),
		Schedules: schedules,
		Overrides: engine.NewOverrides(store),
		Commands:  commands,
		Loop:      engine.NewLoop(store, schedules, commands, 0, 0),
		Store:     store,
	}

	r := gin.New()
	RegisterRoutes(r, api, cfg)
	return r, api
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

// loginAs registers a fresh user with the given role and returns a bearer
// token for it.
func loginAs(t *testing.T, r *gin.Engine, role storage.Role, email string) string {
	t.Helper()

	register := map[string]any{
		"name":     "Test User",
		"email":    email,
		"password": "hunter2hunter2",
		"role":     string(role),
	}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", register); w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", role, w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", role, w.Code, w.Body.String())
	}

	data, _ := decodeBody(t, w)["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("login response missing token: %s", w.Body.String())
	}
	return token
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "pong" {
		t.Errorf("message = %v, want pong", body["message"])
	}
}

func TestAuthRequired(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/devices", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/devices", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", w.Code)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, _ := newTestRouter(t)

	register := map[string]any{
		"name":     "Test User",
		"email":    "dup@example.com",
		"password": "hunter2hunter2",
		"role":     "faculty",
	}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", register); w.Code != http.StatusCreated {
		t.Fatalf("first register: status %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", register)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status = %d, want 409, body %s", w.Code, w.Body.String())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)
	loginAs(t, r, storage.RoleFaculty, "faculty@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "faculty@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRegisterDevice_AdminOnly(t *testing.T) {
	r, _ := newTestRouter(t)

	device := map[string]any{
		"device_id": "door-1",
		"name":      "Main Door",
		"location":  "B101",
	}

	faculty := loginAs(t, r, storage.RoleFaculty, "faculty@example.com")
	if w := doJSON(t, r, http.MethodPost, "/api/devices", faculty, device); w.Code != http.StatusForbidden {
		t.Fatalf("faculty register device: status = %d, want 403", w.Code)
	}

	admin := loginAs(t, r, storage.RoleAdmin, "admin@example.com")
	if w := doJSON(t, r, http.MethodPost, "/api/devices", admin, device); w.Code != http.StatusCreated {
		t.Fatalf("admin register device: status = %d, body %s", w.Code, w.Body.String())
	}

	// Same device id again conflicts.
	if w := doJSON(t, r, http.MethodPost, "/api/devices", admin, device); w.Code != http.StatusConflict {
		t.Fatalf("duplicate device: status = %d, want 409", w.Code)
	}
}

func TestHeartbeat_UnknownDevice(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/device-comm/heartbeat", "", map[string]any{
		"device_id": "door-404",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body %s", w.Code, w.Body.String())
	}
}

func TestHeartbeat_DeliversManualCommandOnce(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAs(t, r, storage.RoleAdmin, "admin@example.com")

	device := map[string]any{"device_id": "door-1", "name": "Main Door", "location": "B101"}
	if w := doJSON(t, r, http.MethodPost, "/api/devices", admin, device); w.Code != http.StatusCreated {
		t.Fatalf("register device: status %d", w.Code)
	}

	command := map[string]any{"device_id": "door-1", "command": "unlock"}
	if w := doJSON(t, r, http.MethodPost, "/api/devices/command", admin, command); w.Code != http.StatusCreated {
		t.Fatalf("send command: status %d, body %s", w.Code, w.Body.String())
	}

	heartbeat := map[string]any{"device_id": "door-1", "status": "online"}

	w := doJSON(t, r, http.MethodPost, "/api/device-comm/heartbeat", "", heartbeat)
	if w.Code != http.StatusOK {
		t.Fatalf("heartbeat: status %d, body %s", w.Code, w.Body.String())
	}
	data, _ := decodeBody(t, w)["data"].(map[string]any)
	if data["command"] != "unlock" {
		t.Fatalf("first heartbeat command = %v, want unlock", data["command"])
	}
	if data["expires_at"] == nil {
		t.Fatal("delivered command has no expires_at")
	}

	w = doJSON(t, r, http.MethodPost, "/api/device-comm/heartbeat", "", heartbeat)
	if w.Code != http.StatusOK {
		t.Fatalf("second heartbeat: status %d", w.Code)
	}
	data, _ = decodeBody(t, w)["data"].(map[string]any)
	if data["command"] != nil {
		t.Fatalf("second heartbeat command = %v, want null", data["command"])
	}
}

func TestCreateSchedule_ConflictMapsTo409(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAs(t, r, storage.RoleAdmin, "admin@example.com")

	first := map[string]any{
		"device_id":   "door-1",
		"day_of_week": 2,
		"open_time":   "08:00:00",
		"close_time":  "17:00:00",
	}
	if w := doJSON(t, r, http.MethodPost, "/api/schedules", admin, first); w.Code != http.StatusCreated {
		t.Fatalf("create schedule: status %d, body %s", w.Code, w.Body.String())
	}

	overlapping := map[string]any{
		"device_id":   "door-1",
		"day_of_week": 2,
		"open_time":   "16:00:00",
		"close_time":  "18:00:00",
	}
	w := doJSON(t, r, http.MethodPost, "/api/schedules", admin, overlapping)
	if w.Code != http.StatusConflict {
		t.Fatalf("overlapping schedule: status = %d, want 409, body %s", w.Code, w.Body.String())
	}

	codes, _ := decodeBody(t, w)["code"].([]any)
	if len(codes) == 0 || codes[0] != "SCHEDULE_CONFLICT" {
		t.Errorf("stop codes = %v, want SCHEDULE_CONFLICT", codes)
	}
}

func TestCreateSchedule_ValidationMapsTo400(t *testing.T) {
	r, _ := newTestRouter(t)
	admin := loginAs(t, r, storage.RoleAdmin, "admin@example.com")

	bad := map[string]any{
		"device_id":   "door-1",
		"day_of_week": 2,
		"open_time":   "17:00:00",
		"close_time":  "08:00:00",
	}
	w := doJSON(t, r, http.MethodPost, "/api/schedules", admin, bad)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}

func TestOverrideDelete_ForbiddenForStranger(t *testing.T) {
	r, _ := newTestRouter(t)

	creator := loginAs(t, r, storage.RoleFaculty, "creator@example.com")
	w := doJSON(t, r, http.MethodPost, "/api/overrides", creator, map[string]any{
		"device_id":  "door-1",
		"action":     "unlock",
		"trigger_at": "2026-09-01T15:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create override: status %d, body %s", w.Code, w.Body.String())
	}
	data, _ := decodeBody(t, w)["data"].(map[string]any)
	overrideID, _ := data["id"].(float64)
	if overrideID == 0 {
		t.Fatalf("override response missing id: %s", w.Body.String())
	}

	admin := loginAs(t, r, storage.RoleAdmin, "admin@example.com")
	stranger := loginAs(t, r, storage.RoleFaculty, "stranger@example.com")

	path := fmt.Sprintf("/api/overrides/%d", int64(overrideID))
	if w := doJSON(t, r, http.MethodDelete, path, stranger, nil); w.Code != http.StatusForbidden {
		t.Fatalf("stranger delete: status = %d, want 403, body %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodDelete, path, admin, nil); w.Code != http.StatusOK {
		t.Fatalf("admin delete: status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestSchedulerControl(t *testing.T) {
	r, _ := newTestRouter(t)

	admin := loginAs(t, r, storage.RoleAdmin, "admin@example.com")
	faculty := loginAs(t, r, storage.RoleFaculty, "faculty@example.com")

	if w := doJSON(t, r, http.MethodGet, "/api/scheduler/status", faculty, nil); w.Code != http.StatusForbidden {
		t.Fatalf("faculty status: status = %d, want 403", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/scheduler/status", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	if body := decodeBody(t, w); body["running"] != false {
		t.Fatalf("loop running before start: %v", body)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/scheduler/start", admin, map[string]any{"cadence": "30s"}); w.Code != http.StatusOK {
		t.Fatalf("start: status %d, body %s", w.Code, w.Body.String())
	}
	defer doJSON(t, r, http.MethodPost, "/api/scheduler/stop", admin, nil)

	w = doJSON(t, r, http.MethodGet, "/api/scheduler/status", admin, nil)
	if body := decodeBody(t, w); body["running"] != true {
		t.Fatalf("loop not running after start: %v", body)
	}

	// Cadence above the schedule minute resolution is rejected.
	if w := doJSON(t, r, http.MethodPost, "/api/scheduler/start", admin, map[string]any{"cadence": "2m"}); w.Code != http.StatusBadRequest {
		t.Fatalf("oversized cadence: status = %d, want 400", w.Code)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/scheduler/stop", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("stop: status %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/scheduler/status", admin, nil)
	if body := decodeBody(t, w); body["running"] != false {
		t.Fatalf("loop still running after stop: %v", body)
	}
}

func TestParseAllowedNetworks(t *testing.T) {
	got := ParseAllowedNetworks("10.0.0.0/8, 192.168.1.0/24 ,,")
	if len(got) != 2 || got[0] != "10.0.0.0/8" || got[1] != "192.168.1.0/24" {
		t.Fatalf("ParseAllowedNetworks = %v", got)
	}
	if got := ParseAllowedNetworks(""); len(got) != 0 {
		t.Fatalf("empty input should yield no networks, got %v", got)
	}
}
