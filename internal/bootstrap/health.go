package bootstrap

import (
	"github.com/eleven-am/scene-narrator/internal/health"
	"github.com/eleven-am/scene-narrator/internal/metrics"
	"github.com/eleven-am/scene-narrator/internal/narration"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const version = "1.0.0"

func ProvideHealthHandler(
	db *gorm.DB,
	redis *redis.Client,
	gen TextGenerator,
	metricsStore *metrics.Store,
	svc *narration.Service,
) *health.Handler {
	var reader health.MetricsReader
	if metricsStore != nil {
		reader = metricsStore
	}
	return health.NewHandler(db, redis, gen, reader, svc, version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementConnections()
			defer h.DecrementConnections()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
