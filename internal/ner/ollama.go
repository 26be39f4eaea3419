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

// ollamaTagger implements Tagger against a local Ollama server. No API key
// is needed.
type ollamaTagger struct {
	baseURL    string
	httpClient *http.Client
	cfg        Config
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

func newOllamaTagger(cfg Config) (*ollamaTagger, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second // local models can be slow
	}

	return &ollamaTagger{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cfg: cfg,
	}, nil
}

// Tag sends the numbered sentences to the generate endpoint and parses the
// returned term list.
func (t *ollamaTagger) Tag(ctx context.Context, sentences []model.Sentence) ([]TaggedTerm, error) {
	if len(sentences) == 0 {
		return nil, nil
	}

	chatModel := t.cfg.Model
	if chatModel == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	var numbered strings.Builder
	for i, s := range sentences {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, s.Text)
	}

	apiReq := ollamaRequest{
		Model:  chatModel,
		Prompt: fmt.Sprintf(tagPrompt, numbered.String()),
		Stream: false,
		System: "You extract scientific terms from sentences and answer only with JSON.",
		Options: ollamaOptions{
			Temperature: 0.3,
			NumPredict:  1000,
		},
	}

	resp, err := t.makeRequest(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	return parseTagResponse(resp.Response, sentences), nil
}

// makeRequest makes an HTTP request to the Ollama API
func (t *ollamaTagger) makeRequest(ctx context.Context, apiReq ollamaRequest) (*ollamaResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", t.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

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
		var apiErr ollamaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}
