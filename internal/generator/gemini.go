package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

type GeminiClient struct {
	httpClient *http.Client
	endpoint   string
	modelURL   string
	apiKey     string
	model      string
}

func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	model := strings.TrimPrefix(cfg.Model, "models/")
	if model == "" {
		model = DefaultGeminiModel
	}

	c := &GeminiClient{
		apiKey: cfg.APIKey,
		model:  model,
	}

	switch {
	case cfg.TokenSource != nil:
		c.httpClient = oauth2.NewClient(context.Background(), cfg.TokenSource)
		c.httpClient.Timeout = timeout
		base := cfg.BaseURL
		if base == "" {
			base = "https://" + cfg.Location + "-aiplatform.googleapis.com"
		}
		c.modelURL = fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s",
			strings.TrimRight(base, "/"), url.PathEscape(cfg.Project), url.PathEscape(cfg.Location), url.PathEscape(model))
	case cfg.APIKey != "":
		c.httpClient = &http.Client{Timeout: timeout}
		base := cfg.BaseURL
		if base == "" {
			base = DefaultGeminiBaseURL
		}
		c.modelURL = strings.TrimRight(base, "/") + "/v1beta/models/" + url.PathEscape(model)
	default:
		return nil, ErrNoCredentials
	}

	c.endpoint = c.modelURL + ":generateContent"
	return c, nil
}

func (c *GeminiClient) Model() string {
	return c.model
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate submits a single text prompt and returns the text of the first
// candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", decodeGeminiError(resp.StatusCode, respBody)
	}

	var genResp geminiResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if genResp.PromptFeedback != nil && genResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrBlocked, genResp.PromptFeedback.BlockReason)
	}
	if len(genResp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := genResp.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: candidate has no content (finish reason %s)", ErrEmptyResponse, candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func decodeGeminiError(statusCode int, body []byte) error {
	var errBody geminiErrorBody
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Error.Message != "" {
		return &APIError{
			StatusCode: statusCode,
			Status:     errBody.Error.Status,
			Message:    errBody.Error.Message,
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("gemini returned status %d", statusCode),
	}
}

// IsAvailable reports whether the model metadata endpoint answers.
func (c *GeminiClient) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, availabilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL, nil)
	if err != nil {
		return false
	}
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
