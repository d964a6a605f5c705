package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"plantdash/internal/dashboard"
	"plantdash/internal/dataset"
	"plantdash/internal/logger"
	"plantdash/internal/models"
	"plantdash/internal/period"
	"plantdash/internal/preferences"
	"plantdash/internal/projector"
	"plantdash/internal/storage"
)

type failingCapturer struct{}

func (failingCapturer) Capture(ctx context.Context, title string, proj projector.Projection) ([]byte, error) {
	return nil, errors.New("no renderer in tests")
}

func newTestServer(t *testing.T) (*Server, *storage.LocalStorageClient) {
	t.Helper()
	client, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	prefs := preferences.NewStore(client, preferences.DefaultKey, len(models.Plants), logger.Discard())
	store := dataset.NewStore(models.Plants, dataset.NewRandomSource(3), logger.Discard())
	dash := dashboard.New(models.Plants, store, prefs, period.DefaultHorizon, period.Monthly(2026, 1), logger.Discard())
	dash.Load(context.Background())

	s := NewServer(dash, client, "test")
	s.Capturer = failingCapturer{}
	s.log = logger.Discard()
	s.now = func() time.Time { return time.Date(2026, 2, 3, 9, 7, 0, 0, time.UTC) }
	return s, client
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.SetupRoutes().ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) dashboard.ViewState {
	t.Helper()
	var st dashboard.ViewState
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("Failed to decode state: %v (%s)", err, rec.Body.String())
	}
	return st
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a request id header")
	}
	if !strings.Contains(rec.Body.String(), `"healthy"`) {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestRoot(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "January 2026") {
		t.Error("Expected page for January 2026")
	}
}

func TestNavigation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     string
		code     int
		expected period.Period
	}{
		{"next", "/api/period/next", "", http.StatusOK, period.Monthly(2026, 2)},
		{"prev", "/api/period/prev", "", http.StatusOK, period.Monthly(2026, 1)},
		{"prev across year", "/api/period/prev", "", http.StatusOK, period.Monthly(2025, 12)},
		{"picker", "/api/period", `{"value":"2024-02"}`, http.StatusOK, period.Monthly(2024, 2)},
		{"picker year", "/api/period", `{"value":"2023"}`, http.StatusOK, period.Monthly(2023, 1)},
		{"invalid picker", "/api/period", `{"value":"soon"}`, http.StatusOK, period.Monthly(2023, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.code {
				t.Fatalf("Expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
			if got := s.Dashboard.State().Current; got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
			if got := decodeState(t, rec).Current; got != tt.expected {
				t.Errorf("Expected response state %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestComparisonPersists(t *testing.T) {
	s, client := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/comparison", `{"enabled":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !decodeState(t, rec).ShowComparison {
		t.Error("Expected comparison on")
	}

	raw, err := client.GetFile(context.Background(), storage.PreferencesPath(preferences.DefaultKey))
	if err != nil {
		t.Fatalf("Expected preferences to be saved, got: %v", err)
	}
	if !strings.Contains(string(raw), `"showComparison":true`) {
		t.Errorf("Unexpected preferences document: %s", raw)
	}

	rec = do(t, s, http.MethodPost, "/api/detail/comparison", `{"enabled":true}`)
	if !decodeState(t, rec).DetailComparison {
		t.Error("Expected detail comparison on")
	}

	rec = do(t, s, http.MethodPost, "/api/cost-view", `{"showCost":false,"showKW":true}`)
	st := decodeState(t, rec)
	if st.ShowCost || !st.ShowKW {
		t.Errorf("Expected cost off and kW on, got %+v", st)
	}

	rec = do(t, s, http.MethodPost, "/api/comparison", `{"enabled":"yes"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestLegend(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		code     int
		suppress bool
	}{
		{"plant series", "/api/legend/production/1", http.StatusOK, true},
		{"comparison line", "/api/legend/production/3", http.StatusOK, false},
		{"cost plant", "/api/legend/cost/0", http.StatusOK, true},
		{"negative index", "/api/legend/cost/-1", http.StatusBadRequest, false},
		{"unknown group", "/api/legend/weather/0", http.StatusBadRequest, false},
		{"non numeric index", "/api/legend/cost/x", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, "")
			if rec.Code != tt.code {
				t.Fatalf("Expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			var body struct {
				SuppressDefault bool `json:"suppressDefault"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body.SuppressDefault != tt.suppress {
				t.Errorf("Expected suppressDefault %v, got %v", tt.suppress, body.SuppressDefault)
			}
		})
	}

	vis := s.Dashboard.Visible("production")
	if vis[1] {
		t.Error("Expected plant 1 hidden after toggle")
	}
}

func TestDashboardJSON(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/period/next", "")

	rec := do(t, s, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var snap struct {
		NoData     bool                  `json:"noData"`
		Production *projector.Projection `json:"production"`
		CostYear   int                   `json:"costYear"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if !snap.NoData || snap.Production != nil {
		t.Error("Expected February 2026 to be past the horizon")
	}
	if snap.CostYear != 2026 {
		t.Errorf("Expected cost year 2026, got %d", snap.CostYear)
	}

	rec = do(t, s, http.MethodGet, "/api/detail", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"label":"2026"`) {
		t.Errorf("Unexpected detail response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestExport(t *testing.T) {
	s, client := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
		filename    string
	}{
		{"pdf", "application/pdf", "Dashboard_1-2026_Download20260203-0907.pdf"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "Dashboard_1-2026_Download20260203-0907.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/export/"+tt.format, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Expected content type %s, got %s", tt.contentType, ct)
			}
			if !strings.Contains(rec.Header().Get("Content-Disposition"), tt.filename) {
				t.Errorf("Expected filename %s, got %s", tt.filename, rec.Header().Get("Content-Disposition"))
			}
			path := rec.Header().Get("X-Export-Path")
			if ok, _ := client.FileExists(context.Background(), path); !ok {
				t.Errorf("Expected archived export at %q", path)
			}
		})
	}

	rec := do(t, s, http.MethodGet, "/api/exports", "")
	if !strings.Contains(rec.Body.String(), `"count":2`) {
		t.Errorf("Expected two archived exports, got: %s", rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/export/csv", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown format, got %d", rec.Code)
	}
}

func TestExportInProgress(t *testing.T) {
	s, _ := newTestServer(t)

	s.exportMutex.Lock()
	defer s.exportMutex.Unlock()

	rec := do(t, s, http.MethodGet, "/api/export/pdf", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 while an export is running, got %d", rec.Code)
	}
}
