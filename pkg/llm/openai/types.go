package openai

import "github.com/flowwed/emily/pkg/llm"

// chatRequest is the OpenAI-native chat completions request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []llm.Message   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// responseFormat selects the provider-side output mode ("json_object"
// forces a single valid JSON object).
type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the OpenAI-native chat completions response body.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      llm.Message `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

// apiError is the error envelope OpenAI returns on non-2xx responses.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code,omitempty"`
}
