package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mission-backend/internal/analysis"
	"mission-backend/internal/astro"
	"mission-backend/internal/llm"
	"mission-backend/internal/missions"
	"mission-backend/internal/services/health"
	"mission-backend/internal/shared/config"
)

func newTestRouter(t *testing.T, perMinute int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	nasa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(nasa.Close)

	svc := &missions.Service{
		Repo:      missions.NewMemoryRepo(),
		Reference: astro.NewProvider(nasa.URL, "", time.Second),
		Analysis:  analysis.NewProvider(llm.PlaceholderClient{}),
	}
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	return NewRouter(RouterDeps{
		Config:         config.Config{Env: "test", AnalyzeRateLimitPerMinute: perMinute},
		MissionHandler: missions.NewHandler(svc, nil),
		Health:         health.NewService(nil, nasa.URL, "none"),
		Now:            func() time.Time { return now },
	})
}

func TestRouterHealthAndStatus(t *testing.T) {
	r := newTestRouter(t, 6)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from status, got %d", resp.Code)
	}
	var report health.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if report.Status != "operational" || report.Version != "1.0.0" {
		t.Fatalf("unexpected status payload: %+v", report)
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	r := newTestRouter(t, 6)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("missions_created_total")) {
		t.Fatalf("expected mission counters in metrics output")
	}
}

func TestRouterRateLimitsAnalyze(t *testing.T) {
	r := newTestRouter(t, 1)

	body := []byte(`{"name":"Ares One","destination":"mars","launchDate":"2030-03-10","durationDays":500,"crewSize":4,"spacecraftType":"orion"}`)
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/missions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode mission: %v", err)
	}

	path := "/api/v1/missions/" + created.ID + "/analyze"
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, path, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected first analyze 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, path, nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second analyze 429, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
