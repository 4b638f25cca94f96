package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/scene-narrator/internal/logging"
	"github.com/eleven-am/scene-narrator/internal/narration"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

func ProvideLogger(lc fx.Lifecycle, cfg *Config) *slog.Logger {
	logger, closer := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return closer.Close()
		},
	})
	slog.SetDefault(logger)
	return logger
}

func RegisterRoutes(e *echo.Echo, narrationHandler *narration.Handler) {
	api := e.Group("/v1")
	narrationHandler.RegisterRoutes(api)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

var HandlersModule = fx.Options(
	fx.Invoke(RegisterRoutes),
)
