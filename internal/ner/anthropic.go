package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linkedscience/crosswalk/internal/model"
)

// anthropicTagger implements Tagger against the Anthropic Messages API.
type anthropicTagger struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cfg        Config
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAnthropicTagger(cfg Config) (*anthropicTagger, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &anthropicTagger{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cfg: cfg,
	}, nil
}

// Tag sends the numbered sentences through the Messages API and parses the
// returned term list.
func (t *anthropicTagger) Tag(ctx context.Context, sentences []model.Sentence) ([]TaggedTerm, error) {
	if len(sentences) == 0 {
		return nil, nil
	}

	var numbered strings.Builder
	for i, s := range sentences {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, s.Text)
	}

	chatModel := t.cfg.Model
	if chatModel == "" {
		chatModel = "claude-3-5-haiku-20241022"
	}

	apiReq := anthropicRequest{
		Model:     chatModel,
		MaxTokens: 1000,
		System:    "You extract scientific terms from sentences and answer only with JSON.",
		Messages: []anthropicMessage{
			{
				Role:    "user",
				Content: fmt.Sprintf(tagPrompt, numbered.String()),
			},
		},
		Temperature: 0.3,
	}

	resp, err := t.makeRequest(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, nil
	}

	return parseTagResponse(resp.Content[0].Text, sentences), nil
}

// makeRequest makes an HTTP request to the Anthropic API
func (t *anthropicTagger) makeRequest(ctx context.Context, apiReq anthropicRequest) (*anthropicResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/messages", t.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", t.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr anthropicError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s - %s", httpResp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}
