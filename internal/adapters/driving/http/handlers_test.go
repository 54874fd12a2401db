package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus-labs/studysync-core/internal/adapters/driven/auth"
	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven/mocks"
	"github.com/campus-labs/studysync-core/internal/core/services"
)

const (
	testClientID = "studysync-android"
	testAPIKey   = "test-api-key"
	testCourseID = int64(42)
)

type serverFixture struct {
	server   *Server
	settings *mocks.MockSyncSettingsStore
	progress *mocks.MockSyncProgressStore
	queue    *mocks.MockTaskQueue
	auth     *services.Auth
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	adapter := auth.NewAdapterWithCost("test-secret", bcrypt.MinCost)
	keyHash, err := adapter.HashAPIKey(testAPIKey)
	if err != nil {
		t.Fatalf("hash api key: %v", err)
	}

	authService := services.NewAuth(services.AuthConfig{
		Adapter: adapter,
		Clients: []services.APIClient{{ClientID: testClientID, KeyHash: keyHash}},
	})

	settings := mocks.NewMockSyncSettingsStore()
	progress := mocks.NewMockSyncProgressStore()
	queue := mocks.NewMockTaskQueue()

	syncService := services.NewSyncAdmin(services.SyncAdminConfig{
		Settings: settings,
		Progress: progress,
		Queue:    queue,
	})

	server := NewServer(Config{
		Version:     "test",
		AuthService: authService,
		SyncService: syncService,
		TaskQueue:   queue,
	})

	return &serverFixture{
		server:   server,
		settings: settings,
		progress: progress,
		queue:    queue,
		auth:     authService,
	}
}

// bearerToken mints a valid token through the real auth service.
func (f *serverFixture) bearerToken(t *testing.T) string {
	t.Helper()

	resp, err := f.auth.MintToken(context.Background(), domain.TokenRequest{
		ClientID: testClientID,
		APIKey:   testAPIKey,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return resp.Token
}

func (f *serverFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *serverFixture) saveSettings(t *testing.T) {
	t.Helper()

	err := f.settings.Save(context.Background(), &domain.SyncSettings{
		CourseID: testCourseID,
		Tabs:     map[domain.TabID]bool{domain.TabPages: true},
	})
	if err != nil {
		t.Fatalf("save settings: %v", err)
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	if err := json.NewDecoder(rec.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("ready: expected 200, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/version", "", nil)
	var version map[string]string
	decodeJSON(t, rec, &version)
	if version["version"] != "test" {
		t.Errorf("expected version test, got %q", version["version"])
	}
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error {
	return fmt.Errorf("connection refused")
}

func TestReady_UnavailableBackend(t *testing.T) {
	f := newServerFixture(t)
	server := NewServer(Config{
		Version:     "test",
		AuthService: f.auth,
		SyncService: services.NewSyncAdmin(services.SyncAdminConfig{
			Settings: f.settings,
			Progress: f.progress,
			Queue:    f.queue,
		}),
		TaskQueue: f.queue,
		DB:        failingPinger{},
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestMintToken(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/token", "", domain.TokenRequest{
		ClientID: testClientID,
		APIKey:   testAPIKey,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.TokenResponse
	decodeJSON(t, rec, &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.ExpiresAt <= time.Now().Unix() {
		t.Error("expected a future expiry")
	}
}

func TestMintToken_BadCredentials(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/token", "", domain.TokenRequest{
		ClientID: testClientID,
		APIKey:   "wrong-key",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	f := newServerFixture(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/sync-settings", testCourseID)},
		{http.MethodPut, fmt.Sprintf("/api/v1/courses/%d/sync-settings", testCourseID)},
		{http.MethodDelete, fmt.Sprintf("/api/v1/courses/%d/sync-settings", testCourseID)},
		{http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/sync", testCourseID)},
		{http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/sync-progress", testCourseID)},
		{http.MethodGet, "/api/v1/tasks/abc"},
		{http.MethodGet, "/api/v1/queue/stats"},
	}

	for _, p := range paths {
		rec := f.do(t, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestAuth_RejectsGarbageToken(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/queue/stats", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSettingsLifecycle(t *testing.T) {
	f := newServerFixture(t)
	token := f.bearerToken(t)
	path := fmt.Sprintf("/api/v1/courses/%d/sync-settings", testCourseID)

	// No settings yet
	rec := f.do(t, http.MethodGet, path, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 before save, got %d", rec.Code)
	}

	// Save
	rec = f.do(t, http.MethodPut, path, token, domain.SyncSettings{
		Tabs:         map[domain.TabID]bool{domain.TabPages: true, domain.TabFiles: true},
		FullFileSync: true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on save, got %d: %s", rec.Code, rec.Body.String())
	}

	// Read back; course ID comes from the path, not the body
	rec = f.do(t, http.MethodGet, path, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after save, got %d", rec.Code)
	}
	var settings domain.SyncSettings
	decodeJSON(t, rec, &settings)
	if settings.CourseID != testCourseID {
		t.Errorf("expected course ID %d, got %d", testCourseID, settings.CourseID)
	}
	if !settings.Tabs[domain.TabPages] || !settings.FullFileSync {
		t.Errorf("unexpected settings %+v", settings)
	}

	// Delete
	rec = f.do(t, http.MethodDelete, path, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, path, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestSaveSettings_UnknownTab(t *testing.T) {
	f := newServerFixture(t)
	token := f.bearerToken(t)

	rec := f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/courses/%d/sync-settings", testCourseID), token,
		domain.SyncSettings{Tabs: map[domain.TabID]bool{"gradebook": true}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown tab, got %d", rec.Code)
	}
}

func TestSaveSettings_InvalidCourseID(t *testing.T) {
	f := newServerFixture(t)
	token := f.bearerToken(t)

	rec := f.do(t, http.MethodPut, "/api/v1/courses/banana/sync-settings", token, domain.SyncSettings{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad course id, got %d", rec.Code)
	}
}

func TestRequestSync(t *testing.T) {
	f := newServerFixture(t)
	f.saveSettings(t)
	token := f.bearerToken(t)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/sync", testCourseID), token,
		SyncRequest{WifiOnly: true})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var task domain.Task
	decodeJSON(t, rec, &task)
	if task.Type != domain.TaskTypeSyncCourse {
		t.Errorf("expected sync task, got %q", task.Type)
	}
	if task.CourseID() != testCourseID {
		t.Errorf("expected course ID %d in task, got %d", testCourseID, task.CourseID())
	}
	if !task.WifiOnly() {
		t.Error("expected wifi_only flag carried into task")
	}

	// Task is pollable through the API
	rec = f.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 polling task, got %d", rec.Code)
	}
}

func TestRequestSync_NoSettings(t *testing.T) {
	f := newServerFixture(t)
	token := f.bearerToken(t)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/sync", testCourseID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without settings, got %d", rec.Code)
	}
}

func TestGetProgress(t *testing.T) {
	f := newServerFixture(t)
	token := f.bearerToken(t)

	// No run recorded yet
	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/sync-progress", testCourseID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 before any run, got %d", rec.Code)
	}

	p := domain.NewSyncProgress(testCourseID, "job-1")
	p.SetTabState(domain.SyncStateCompleted, domain.TabPages)
	if err := f.progress.Save(context.Background(), p); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/sync-progress", testCourseID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var progress domain.SyncProgress
	decodeJSON(t, rec, &progress)
	if progress.Tabs[domain.TabPages].State != domain.SyncStateCompleted {
		t.Errorf("unexpected progress %+v", progress)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	f := newServerFixture(t)
	token := f.bearerToken(t)

	rec := f.do(t, http.MethodGet, "/api/v1/tasks/missing", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestQueueStats(t *testing.T) {
	f := newServerFixture(t)
	f.saveSettings(t)
	token := f.bearerToken(t)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/sync", testCourseID), token, nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("enqueue failed: %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/queue/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var stats struct {
		PendingCount int64 `json:"pending_count"`
	}
	decodeJSON(t, rec, &stats)
	if stats.PendingCount != 1 {
		t.Errorf("expected 1 pending task, got %d", stats.PendingCount)
	}
}
