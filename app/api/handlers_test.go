package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diynews/backend/app/pipeline"
)

type fakeRunner struct {
	startErr error
	started  int
	status   *pipeline.Status
}

func (f *fakeRunner) Start() error {
	f.started++
	return f.startErr
}

func (f *fakeRunner) Status() *pipeline.Status {
	return f.status
}

func newTestServer(runner *fakeRunner) http.Handler {
	if runner.status == nil {
		runner.status = pipeline.NewStatus()
	}
	return NewServer(NewHandler(runner, "1.2.3"))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestStartSync_Accepted(t *testing.T) {
	runner := &fakeRunner{}
	server := newTestServer(runner)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/sync", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("Expected 202, got %d", rec.Code)
	}
	if runner.started != 1 {
		t.Errorf("Expected runner started once, got %d", runner.started)
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("Expected success true, got %v", body["success"])
	}
	if body["message"] != "Sync started." {
		t.Errorf("Unexpected message: %v", body["message"])
	}
	if _, ok := body["status"]; !ok {
		t.Errorf("Expected status in response")
	}
}

func TestStartSync_Conflict(t *testing.T) {
	runner := &fakeRunner{startErr: pipeline.ErrAlreadyRunning}
	server := newTestServer(runner)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest("POST", "/api/sync", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("Expected success false, got %v", body["success"])
	}
}

func TestGetStatus(t *testing.T) {
	status := pipeline.NewStatus()
	status.TryStart()
	status.Finish(pipeline.Result{Success: true, Message: "Sync complete.", Stats: pipeline.Stats{Saved: 2}}, nil)

	runner := &fakeRunner{status: status}
	server := newTestServer(runner)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	statusBody, ok := body["status"].(map[string]any)
	if !ok {
		t.Fatalf("Expected status object, got %v", body["status"])
	}
	if statusBody["is_running"] != false {
		t.Errorf("Expected is_running false, got %v", statusBody["is_running"])
	}
	if statusBody["last_run"] == nil {
		t.Errorf("Expected last_run set")
	}

	lastResult, ok := statusBody["last_result"].(map[string]any)
	if !ok {
		t.Fatalf("Expected last_result object, got %v", statusBody["last_result"])
	}
	if lastResult["message"] != "Sync complete." {
		t.Errorf("Unexpected last result message: %v", lastResult["message"])
	}
}

func TestGetHealth(t *testing.T) {
	server := newTestServer(&fakeRunner{})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["version"] != "1.2.3" {
		t.Errorf("Expected configured version, got %v", body["version"])
	}
	if body["timestamp"] == nil {
		t.Errorf("Expected timestamp in health response")
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(&fakeRunner{})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/api/sync", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS header set")
	}
}
