package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/scene-narrator/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubProber struct{ available bool }

func (p stubProber) IsAvailable(context.Context) bool { return p.available }

type stubMetrics struct {
	buckets []metrics.Hourly
	err     error
	hours   int
}

func (m *stubMetrics) GetMetrics(_ context.Context, hours int) ([]metrics.Hourly, error) {
	m.hours = hours
	return m.buckets, m.err
}

type stubNarrator struct{}

func (stubNarrator) PromptVariant() string { return "consolidated" }
func (stubNarrator) Model() string         { return "gemini-1.5-pro" }

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func serve(t *testing.T, h *Handler, target string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	switch req.URL.Path {
	case "/health":
		return rec, h.Liveness(c)
	case "/health/ready":
		return rec, h.Readiness(c)
	default:
		return rec, h.Narrations(c)
	}
}

func TestLiveness(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil, "test")
	rec, err := serve(t, h, "/health")
	if err != nil {
		t.Fatalf("Liveness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	client, _ := newRedis(t)
	h := NewHandler(newDB(t), client, stubProber{available: true}, nil, stubNarrator{}, "test")
	h.IncrementRequests()

	rec, err := serve(t, h, "/health/ready")
	if err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s (%+v)", resp.Status, resp.Components)
	}
	for _, name := range []string{"generator", "database", "redis"} {
		if _, ok := resp.Components[name]; !ok {
			t.Errorf("missing component %s", name)
		}
	}
	if resp.Stats.Narrator.PromptVariant != "consolidated" || resp.Stats.Narrator.Model != "gemini-1.5-pro" {
		t.Errorf("unexpected narrator stats %+v", resp.Stats.Narrator)
	}
	if resp.Stats.Requests.TotalRequests != 1 {
		t.Errorf("expected 1 request, got %d", resp.Stats.Requests.TotalRequests)
	}
}

func TestReadiness_DisabledComponentsOmitted(t *testing.T) {
	h := NewHandler(nil, nil, stubProber{available: true}, nil, nil, "test")

	rec, _ := serve(t, h, "/health/ready")

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Components) != 1 {
		t.Errorf("expected only the generator component, got %+v", resp.Components)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
}

func TestReadiness_GeneratorDown(t *testing.T) {
	h := NewHandler(nil, nil, stubProber{available: false}, nil, nil, "test")

	rec, _ := serve(t, h, "/health/ready")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestReadiness_RedisDownDegrades(t *testing.T) {
	client, mr := newRedis(t)
	mr.Close()
	h := NewHandler(nil, client, stubProber{available: true}, nil, nil, "test")

	rec, _ := serve(t, h, "/health/ready")

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || resp.Status != StatusDegraded {
		t.Errorf("expected degraded 200, got %s %d", resp.Status, rec.Code)
	}
	if resp.Components["redis"].Status != StatusUnhealthy {
		t.Errorf("redis should be unhealthy, got %+v", resp.Components["redis"])
	}
}

func TestComputeOverallStatus(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]ComponentStatus
		want       Status
	}{
		{"empty", map[string]ComponentStatus{}, StatusHealthy},
		{"generator unhealthy", map[string]ComponentStatus{"generator": {Status: StatusUnhealthy}}, StatusUnhealthy},
		{"database degraded", map[string]ComponentStatus{
			"generator": {Status: StatusHealthy},
			"database":  {Status: StatusDegraded},
		}, StatusDegraded},
		{"redis unhealthy", map[string]ComponentStatus{
			"generator": {Status: StatusHealthy},
			"redis":     {Status: StatusUnhealthy},
		}, StatusDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeOverallStatus(tt.components); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNarrations(t *testing.T) {
	m := &stubMetrics{buckets: []metrics.Hourly{{Date: "2024-05-01", Hour: 3, Requests: 4, Succeeded: 3, Failed: 1, AvgLatencyMs: 250}}}
	h := NewHandler(nil, nil, nil, m, nil, "test")

	rec, err := serve(t, h, "/health/narrations?hours=6")
	if err != nil {
		t.Fatalf("Narrations: %v", err)
	}
	if m.hours != 6 {
		t.Errorf("expected 6 hours, got %d", m.hours)
	}

	var summary metrics.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Requests != 4 || summary.ErrorRate != 25 || len(summary.Buckets) != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestNarrations_InvalidHoursUsesDefault(t *testing.T) {
	m := &stubMetrics{}
	h := NewHandler(nil, nil, nil, m, nil, "test")

	for _, q := range []string{"?hours=abc", "?hours=0", "?hours=1000", ""} {
		if _, err := serve(t, h, "/health/narrations"+q); err != nil {
			t.Fatalf("Narrations%s: %v", q, err)
		}
		if m.hours != defaultMetricsHours {
			t.Errorf("%q: expected default hours, got %d", q, m.hours)
		}
	}
}

func TestNarrations_Errors(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil, "test")
	_, err := serve(t, h, "/health/narrations")
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when metrics disabled, got %v", err)
	}

	h = NewHandler(nil, nil, nil, &stubMetrics{err: errors.New("boom")}, nil, "test")
	_, err = serve(t, h, "/health/narrations")
	if !errors.As(err, &he) || he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on store failure, got %v", err)
	}
}
