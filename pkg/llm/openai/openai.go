// Package openai implements pkg/llm's Engine against an OpenAI-compatible
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowwed/emily/pkg/llm"
)

const (
	// DefaultModel is the default completion model.
	DefaultModel = "gpt-4o-mini"

	// DefaultBaseURL is the default OpenAI API URL.
	DefaultBaseURL = "https://api.openai.com/v1"
)

// Engine wraps an OpenAI-compatible chat completions API.
type Engine struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Config holds configuration for the OpenAI engine.
type Config struct {
	// BaseURL is the API URL (e.g., "https://api.openai.com/v1").
	// Defaults to DefaultBaseURL if empty. Any OpenAI-compatible endpoint
	// works (Azure gateways, local servers).
	BaseURL string

	// Model is the completion model to use. Defaults to DefaultModel if empty.
	Model string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds each request. Defaults to 120s if zero.
	Timeout time.Duration
}

// New creates an engine for an OpenAI-compatible chat completions API.
func New(cfg Config) *Engine {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Engine{
		baseURL: baseURL,
		model:   model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete implements llm.Engine.
func (e *Engine) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	return e.complete(ctx, messages, nil)
}

// CompleteJSON implements llm.Engine. The provider is asked for a single
// JSON object via response_format.
func (e *Engine) CompleteJSON(ctx context.Context, messages []llm.Message) (string, error) {
	return e.complete(ctx, messages, &responseFormat{Type: "json_object"})
}

func (e *Engine) complete(ctx context.Context, messages []llm.Message, format *responseFormat) (string, error) {
	reqBody := chatRequest{
		Model:          e.model,
		Messages:       messages,
		ResponseFormat: format,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", llm.ErrCompletion, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", llm.ErrCompletion, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %v", llm.ErrCompletion, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: upstream returned status %d: %s", llm.ErrCompletion, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", llm.ErrCompletion, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", llm.ErrCompletion)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// Compile-time check that Engine implements llm.Engine.
var _ llm.Engine = (*Engine)(nil)
