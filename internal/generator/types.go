package generator

import (
	"errors"
	"time"

	"golang.org/x/oauth2"
)

const (
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
	ProviderOllama = "ollama"

	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-1.5-pro"
	DefaultTimeout       = 60 * time.Second
)

var (
	ErrNoCredentials = errors.New("no API key or token source configured")
	ErrEmptyResponse = errors.New("generation returned no candidates")
	ErrBlocked       = errors.New("prompt was blocked")
)

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// TokenSource switches the client to Vertex AI style bearer auth.
	TokenSource oauth2.TokenSource
	Project     string
	Location    string
}

type OllamaConfig struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// APIError is a non-200 answer from the generation backend.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return e.Status + ": " + e.Message
	}
	return e.Message
}
