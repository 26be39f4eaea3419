package ner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/linkedscience/crosswalk/internal/model"
)

// Tagger recognizes scientific terms in abstract sentences.
type Tagger interface {
	Tag(ctx context.Context, sentences []model.Sentence) ([]TaggedTerm, error)
}

// TaggedTerm is one recognized term with its class, keyed by the publication
// the sentence came from.
type TaggedTerm struct {
	URI   string `json:"uri"`
	Term  string `json:"term"`
	Class string `json:"class"`
}

// Config configures the optional tagging provider.
type Config struct {
	Provider string // "" disables tagging
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// NewTagger builds a tagger for the configured provider. A nil tagger with a
// nil error means tagging is disabled.
func NewTagger(cfg Config) (Tagger, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, nil
	case "openai":
		return newOpenAITagger(cfg)
	case "anthropic", "claude":
		return newAnthropicTagger(cfg)
	case "ollama":
		return newOllamaTagger(cfg)
	default:
		return nil, fmt.Errorf("unknown ner provider: %s (supported: openai, anthropic, ollama)", cfg.Provider)
	}
}

type openAITagger struct {
	client *openai.Client
	cfg    Config
}

func newOpenAITagger(cfg Config) (*openAITagger, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &openAITagger{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

const tagPrompt = `Extract scientific and geographic terms from the numbered sentences below.
Return a JSON array of objects with fields "sentence" (the number), "term", and
"class" (one of: MINERAL, CHEMICAL, PLACE, SPECIES, METHOD, OTHER).
Return [] when no terms are present. Do not invent terms not in the text.

Sentences:
%s`

// Tag sends sentences to the chat completion API in one batch and parses the
// returned term list. A malformed response degrades to no terms rather than
// failing the batch.
func (t *openAITagger) Tag(ctx context.Context, sentences []model.Sentence) ([]TaggedTerm, error) {
	if len(sentences) == 0 {
		return nil, nil
	}

	var numbered strings.Builder
	for i, s := range sentences {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, s.Text)
	}

	chatModel := t.cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	timeout := t.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(tagPrompt, numbered.String()),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	return parseTagResponse(resp.Choices[0].Message.Content, sentences), nil
}

func parseTagResponse(content string, sentences []model.Sentence) []TaggedTerm {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil
	}

	var raw []struct {
		Sentence int    `json:"sentence"`
		Term     string `json:"term"`
		Class    string `json:"class"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil
	}

	var terms []TaggedTerm
	for _, item := range raw {
		if item.Term == "" || item.Sentence < 1 || item.Sentence > len(sentences) {
			continue
		}
		terms = append(terms, TaggedTerm{
			URI:   sentences[item.Sentence-1].URI,
			Term:  item.Term,
			Class: item.Class,
		})
	}
	return terms
}
