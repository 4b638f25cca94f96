package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eleven-am/scene-narrator/internal/generator"
	"github.com/eleven-am/scene-narrator/internal/scene"
	"github.com/eleven-am/scene-narrator/internal/worker"
	"go.yaml.in/yaml/v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	ServerAddr string `yaml:"server_addr"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	GeneratorProvider string        `yaml:"generator_provider"`
	GeneratorTimeout  time.Duration `yaml:"generator_timeout"`

	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	GeminiBaseURL string `yaml:"gemini_base_url"`

	VertexProject  string `yaml:"vertex_project"`
	VertexLocation string `yaml:"vertex_location"`

	OllamaURL   string `yaml:"ollama_url"`
	OllamaModel string `yaml:"ollama_model"`

	PromptVariant string `yaml:"prompt_variant"`
	PromptFile    string `yaml:"prompt_file"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	DatabaseDSN string `yaml:"database_dsn"`

	NatsURL     string `yaml:"nats_url"`
	NatsSubject string `yaml:"nats_subject"`
	NatsQueue   string `yaml:"nats_queue"`
}

func defaultConfig() *Config {
	return &Config{
		ServerAddr: ":8080",

		LogLevel:  "info",
		LogFormat: "json",

		GeneratorProvider: generator.ProviderGemini,
		GeneratorTimeout:  generator.DefaultTimeout,

		GeminiModel:    generator.DefaultGeminiModel,
		VertexLocation: "us-central1",

		OllamaURL:   "http://localhost:11434",
		OllamaModel: "llama3",

		PromptVariant: scene.VariantConsolidated,

		NatsSubject: worker.DefaultSubject,
		NatsQueue:   worker.DefaultQueue,
	}
}

// LoadConfig builds the configuration from defaults, then the optional
// YAML file named by CONFIG_FILE, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)

	c.GeneratorProvider = strings.ToLower(getEnv("GENERATOR_PROVIDER", c.GeneratorProvider))
	c.GeneratorTimeout = getEnvDuration("GENERATOR_TIMEOUT", c.GeneratorTimeout)

	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.GeminiBaseURL = getEnv("GEMINI_BASE_URL", c.GeminiBaseURL)

	c.VertexProject = getEnv("VERTEX_PROJECT", c.VertexProject)
	c.VertexLocation = getEnv("VERTEX_LOCATION", c.VertexLocation)

	c.OllamaURL = getEnv("OLLAMA_URL", c.OllamaURL)
	c.OllamaModel = getEnv("OLLAMA_MODEL", c.OllamaModel)

	c.PromptVariant = getEnv("PROMPT_VARIANT", c.PromptVariant)
	c.PromptFile = getEnv("PROMPT_FILE", c.PromptFile)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)

	c.DatabaseDSN = getEnv("DATABASE_DSN", c.DatabaseDSN)

	c.NatsURL = getEnv("NATS_URL", c.NatsURL)
	c.NatsSubject = getEnv("NATS_SUBJECT", c.NatsSubject)
	c.NatsQueue = getEnv("NATS_QUEUE", c.NatsQueue)
}

func (c *Config) Validate() error {
	switch c.GeneratorProvider {
	case generator.ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for the gemini provider", ErrInvalidConfig)
		}
	case generator.ProviderVertex:
		if c.VertexProject == "" {
			return fmt.Errorf("%w: VERTEX_PROJECT is required for the vertex provider", ErrInvalidConfig)
		}
	case generator.ProviderOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("%w: OLLAMA_URL is required for the ollama provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown generator provider %q", ErrInvalidConfig, c.GeneratorProvider)
	}

	if c.GeneratorTimeout < 0 {
		return fmt.Errorf("%w: GENERATOR_TIMEOUT must not be negative", ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
