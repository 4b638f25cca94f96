package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eleven-am/scene-narrator/internal/generator"
	"github.com/eleven-am/scene-narrator/internal/health"
	"github.com/eleven-am/scene-narrator/internal/narration"
	"github.com/eleven-am/scene-narrator/internal/scene"
	"github.com/eleven-am/scene-narrator/internal/worker"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// TextGenerator is what every configured backend client provides.
type TextGenerator interface {
	narration.Generator
	health.Prober
	Model() string
}

func ProvideGenerator(cfg *Config) (TextGenerator, error) {
	switch cfg.GeneratorProvider {
	case generator.ProviderGemini:
		client, err := generator.NewGeminiClient(generator.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.GeneratorTimeout,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case generator.ProviderVertex:
		ts, err := google.DefaultTokenSource(context.Background(), cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("vertex credentials: %w", err)
		}
		client, err := generator.NewGeminiClient(generator.GeminiConfig{
			Model:       cfg.GeminiModel,
			BaseURL:     cfg.GeminiBaseURL,
			Timeout:     cfg.GeneratorTimeout,
			TokenSource: ts,
			Project:     cfg.VertexProject,
			Location:    cfg.VertexLocation,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case generator.ProviderOllama:
		return generator.NewOllamaClient(generator.OllamaConfig{
			URL:     cfg.OllamaURL,
			Model:   cfg.OllamaModel,
			Timeout: cfg.GeneratorTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown generator provider %q", ErrInvalidConfig, cfg.GeneratorProvider)
	}
}

func ProvideNarrationGenerator(g TextGenerator) narration.Generator {
	return g
}

func ProvidePromptBuilder(cfg *Config) (*scene.Builder, error) {
	catalog, err := scene.LoadCatalog(cfg.PromptFile)
	if err != nil {
		return nil, err
	}
	t, err := catalog.Get(cfg.PromptVariant)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, catalog.Names())
	}
	return scene.NewBuilder(t), nil
}

func ProvideNarrationService(
	builder *scene.Builder,
	gen narration.Generator,
	decoder *narration.Decoder,
	recorder narration.Recorder,
	logger *slog.Logger,
) *narration.Service {
	return narration.NewService(builder, gen, decoder, recorder, logger)
}

func ProvideNarrationHandler(svc *narration.Service, logger *slog.Logger) *narration.Handler {
	return narration.NewHandler(svc, logger)
}

// StartPromptWatcher hot-reloads PROMPT_FILE while the app runs.
func StartPromptWatcher(lc fx.Lifecycle, cfg *Config, builder *scene.Builder, logger *slog.Logger) {
	if cfg.PromptFile == "" {
		return
	}
	w := scene.NewWatcher(cfg.PromptFile, cfg.PromptVariant, builder, logger)
	runInBackground(lc, "prompt watcher", w.Run, logger)
}

func StartNatsWorker(lc fx.Lifecycle, conn *nats.Conn, cfg *Config, svc *narration.Service, logger *slog.Logger) error {
	if conn == nil {
		return nil
	}
	w, err := worker.NewNatsWorker(conn, cfg.NatsSubject, cfg.NatsQueue, svc, logger)
	if err != nil {
		return err
	}
	runInBackground(lc, "nats worker", w.Run, logger)
	return nil
}

func runInBackground(lc fx.Lifecycle, name string, run func(context.Context) error, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := run(ctx); err != nil {
					logger.Error(name+" stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

var NarrationModule = fx.Options(
	fx.Provide(
		ProvideGenerator,
		ProvideNarrationGenerator,
		ProvidePromptBuilder,
		narration.NewDecoder,
		ProvideNarrationService,
		ProvideNarrationHandler,
	),
	fx.Invoke(StartPromptWatcher),
	fx.Invoke(StartNatsWorker),
)
