package health

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eleven-am/scene-narrator/internal/metrics"
	"github.com/eleven-am/scene-narrator/internal/shared"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

const defaultMetricsHours = 24

type ComponentStatus struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type RuntimeStats struct {
	Goroutines         int    `json:"goroutines"`
	MemoryAllocMB      uint64 `json:"memory_alloc_mb"`
	MemoryTotalAllocMB uint64 `json:"memory_total_alloc_mb"`
	MemorySysMB        uint64 `json:"memory_sys_mb"`
	NumGC              uint32 `json:"num_gc"`
}

type NarratorStats struct {
	PromptVariant string `json:"prompt_variant"`
	Model         string `json:"model,omitempty"`
}

type RequestStats struct {
	TotalRequests     uint64 `json:"total_requests"`
	ActiveConnections int64  `json:"active_connections"`
}

type Stats struct {
	Narrator NarratorStats `json:"narrator"`
	Requests RequestStats  `json:"requests"`
	Runtime  RuntimeStats  `json:"runtime"`
}

type HealthResponse struct {
	Status        Status                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	Version       string                     `json:"version"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Stats         Stats                      `json:"stats"`
	Components    map[string]ComponentStatus `json:"components"`
}

// Prober reports whether the text-generation backend is reachable.
type Prober interface {
	IsAvailable(ctx context.Context) bool
}

// MetricsReader reads hourly narration counters.
type MetricsReader interface {
	GetMetrics(ctx context.Context, hours int) ([]metrics.Hourly, error)
}

// Narrator exposes what the narration service is currently configured with.
type Narrator interface {
	PromptVariant() string
	Model() string
}

type Handler struct {
	db        *gorm.DB
	redis     *redis.Client
	generator Prober
	metrics   MetricsReader
	narrator  Narrator
	version   string
	startTime time.Time

	totalRequests     uint64
	activeConnections int64
}

// NewHandler builds the health handler. A nil db or redis client means the
// component is disabled and is left out of readiness checks.
func NewHandler(
	db *gorm.DB,
	redis *redis.Client,
	generator Prober,
	metricsReader MetricsReader,
	narrator Narrator,
	version string,
) *Handler {
	return &Handler{
		db:        db,
		redis:     redis,
		generator: generator,
		metrics:   metricsReader,
		narrator:  narrator,
		version:   version,
		startTime: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Liveness)
	e.GET("/health/ready", h.Readiness)
	e.GET("/health/narrations", h.Narrations)
}

func (h *Handler) IncrementRequests() {
	atomic.AddUint64(&h.totalRequests, 1)
}

func (h *Handler) IncrementConnections() {
	atomic.AddInt64(&h.activeConnections, 1)
}

func (h *Handler) DecrementConnections() {
	atomic.AddInt64(&h.activeConnections, -1)
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Checks the generator and every configured storage backend
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health/ready [get]
func (h *Handler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	components := make(map[string]ComponentStatus)
	var mu sync.Mutex
	var wg sync.WaitGroup

	type check struct {
		name  string
		check func(context.Context) ComponentStatus
	}
	checks := []check{{"generator", h.checkGenerator}}
	if h.db != nil {
		checks = append(checks, check{"database", h.checkDatabase})
	}
	if h.redis != nil {
		checks = append(checks, check{"redis", h.checkRedis})
	}

	wg.Add(len(checks))
	for _, ch := range checks {
		go func(name string, fn func(context.Context) ComponentStatus) {
			defer wg.Done()
			status := fn(ctx)
			mu.Lock()
			components[name] = status
			mu.Unlock()
		}(ch.name, ch.check)
	}
	wg.Wait()

	overallStatus := computeOverallStatus(components)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var narrator NarratorStats
	if h.narrator != nil {
		narrator.PromptVariant = h.narrator.PromptVariant()
		narrator.Model = h.narrator.Model()
	}

	resp := HealthResponse{
		Status:        overallStatus,
		Timestamp:     time.Now().UTC(),
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Stats: Stats{
			Narrator: narrator,
			Requests: RequestStats{
				TotalRequests:     atomic.LoadUint64(&h.totalRequests),
				ActiveConnections: atomic.LoadInt64(&h.activeConnections),
			},
			Runtime: RuntimeStats{
				Goroutines:         runtime.NumGoroutine(),
				MemoryAllocMB:      memStats.Alloc / 1024 / 1024,
				MemoryTotalAllocMB: memStats.TotalAlloc / 1024 / 1024,
				MemorySysMB:        memStats.Sys / 1024 / 1024,
				NumGC:              memStats.NumGC,
			},
		},
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, resp)
}

// Narrations godoc
// @Summary      Narration counters
// @Description  Hourly narration counters for the last N hours (max 168)
// @Tags         health
// @Produce      json
// @Param        hours  query     int  false  "Window in hours"  default(24)
// @Success      200    {object}  metrics.Summary
// @Failure      500    {object}  shared.APIError
// @Failure      503    {object}  shared.APIError
// @Router       /health/narrations [get]
func (h *Handler) Narrations(c echo.Context) error {
	if h.metrics == nil {
		return shared.ServiceUnavailable("metrics_disabled", "narration metrics are not configured")
	}

	hours := defaultMetricsHours
	if hoursStr := c.QueryParam("hours"); hoursStr != "" {
		if hr, err := strconv.Atoi(hoursStr); err == nil && hr > 0 && hr <= metrics.MaxHours {
			hours = hr
		}
	}

	buckets, err := h.metrics.GetMetrics(c.Request().Context(), hours)
	if err != nil {
		return shared.InternalError("get_metrics_failed", "failed to get narration metrics")
	}

	return c.JSON(http.StatusOK, metrics.Summarize(hours, buckets))
}

func (h *Handler) checkGenerator(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.generator == nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "generator not configured",
		}
	}

	if !h.generator.IsAvailable(ctx) {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "generator unreachable",
		}
	}

	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (h *Handler) checkDatabase(ctx context.Context) ComponentStatus {
	start := time.Now()
	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "failed to get underlying db",
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    evaluateDBStats(sqlDB.Stats()),
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func evaluateDBStats(stats sql.DBStats) Status {
	if stats.OpenConnections >= stats.MaxOpenConnections && stats.MaxOpenConnections > 0 {
		return StatusDegraded
	}
	return StatusHealthy
}

func (h *Handler) checkRedis(ctx context.Context) ComponentStatus {
	start := time.Now()
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// computeOverallStatus: an unhealthy generator makes the service unhealthy,
// any other failing component only degrades it.
func computeOverallStatus(components map[string]ComponentStatus) Status {
	if status, ok := components["generator"]; ok && status.Status == StatusUnhealthy {
		return StatusUnhealthy
	}

	for _, status := range components {
		if status.Status == StatusUnhealthy || status.Status == StatusDegraded {
			return StatusDegraded
		}
	}

	return StatusHealthy
}
