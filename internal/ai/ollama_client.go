package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaClient is a minimal HTTP client for a local Ollama runtime.
// It implements Runtime with the same request/response types as the OpenRouter client.
type OllamaClient struct {
	httpClient *http.Client
	host       string
	retry      retryPolicy
}

// NewOllamaClient creates a new client targeting the given host (e.g., http://127.0.0.1:11434).
func NewOllamaClient(host string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *OllamaClient {
	if host == "" {
		host = "http://127.0.0.1:11434"
	}
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 2
	}
	return &OllamaClient{
		httpClient: &http.Client{Timeout: httpTimeout},
		host:       strings.TrimRight(host, "/"),
		retry:      newRetryPolicy(retryMax, baseDelay, maxDelay, 200*time.Millisecond, time.Second),
	}
}

// Structures aligned with Ollama /api/chat (non-streaming)
type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`

	PromptEvalCount int `json:"prompt_eval_count"`
	EvalCount       int `json:"eval_count"`
}

// Generate sends a chat request to Ollama and maps the response to GenerateResponse.
func (c *OllamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	oreq := ollamaChatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Options:  map[string]any{},
	}
	if req.Temperature > 0 {
		oreq.Options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		oreq.Options["num_predict"] = req.MaxTokens
	}
	payload, err := json.Marshal(oreq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retry.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, retryable, err := c.roundTrip(ctx, payload)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable || attempt == c.retry.maxAttempts {
			break
		}
		if err := sleepCtx(ctx, c.retry.delay(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *OllamaClient) roundTrip(ctx context.Context, payload []byte) (*GenerateResponse, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, isRetryableNetErr(err), &UnreachableError{Host: c.host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp)
		switch {
		case resp.StatusCode == http.StatusNotFound:
			// a missing model is the only 404 /api/chat produces
			return nil, false, &ModelNotFoundError{APIError: apiErr}
		case resp.StatusCode >= 500:
			return nil, true, &ServerError{APIError: apiErr}
		case resp.StatusCode == http.StatusBadRequest:
			return nil, false, &BadRequestError{APIError: apiErr}
		}
		return nil, false, apiErr
	}

	var oresp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&oresp); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return &GenerateResponse{
		Choices: []Choice{{Message: Message{Role: "assistant", Content: oresp.Message.Content}}},
		Usage: Usage{
			PromptTokens:     oresp.PromptEvalCount,
			CompletionTokens: oresp.EvalCount,
			TotalTokens:      oresp.PromptEvalCount + oresp.EvalCount,
		},
		RequestID: fmt.Sprintf("ollama_%d", time.Now().UnixNano()),
	}, false, nil
}
