// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/ideation-engine/internal/httputil"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// chatCompletionsPath is appended to the configured endpoint base URL.
const chatCompletionsPath = "/chat/completions"

// ChatBackend calls an OpenAI-compatible chat-completions API (GitHub
// Models by default) with bearer-token authentication.
type ChatBackend struct {
	Endpoint  string
	Token     string
	Model     string
	TopP      float64
	MaxTokens int
	Client    *http.Client
}

// NewChatBackend builds a ChatBackend from an InferenceConfig, applying
// defaults for unset sampling and transport settings.
func NewChatBackend(cfg types.InferenceConfig) *ChatBackend {
	topP := cfg.TopP
	if topP == 0 {
		topP = 1.0
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &ChatBackend{
		Endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		Token:     cfg.Token,
		Model:     cfg.Model,
		TopP:      topP,
		MaxTokens: maxTokens,
		Client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	TopP           float64         `json:"top_p"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatMessage is a single role-tagged message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat is the structured-output hint for the ranking stage.
type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion candidate in the response.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Complete sends one system+user exchange and returns the assistant text.
func (b *ChatBackend) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := chatRequest{
		Model: b.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		TopP:        b.TopP,
		MaxTokens:   b.MaxTokens,
	}
	if req.JSONObject {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.Endpoint+chatCompletionsPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.Token)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, httpReq, 0)
	if err != nil {
		return "", fmt.Errorf("calling inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("inference service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding inference response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("inference service returned no choices")
	}

	return cResp.Choices[0].Message.Content, nil
}
