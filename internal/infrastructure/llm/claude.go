package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"StockPulse/internal/config"
	"StockPulse/internal/ports"
)

const defaultMaxTokens = 1024

// ClaudeClient implements ports.TextGenerator over the Anthropic API.
type ClaudeClient struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

var _ ports.TextGenerator = (*ClaudeClient)(nil)

// NewClaudeClient builds a client from configuration.
func NewClaudeClient(cfg config.ClaudeConfig) *ClaudeClient {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &ClaudeClient{
		client: anthropic.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithRequestTimeout(30*time.Second),
		),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Generate issues one messages call and returns the concatenated text
// blocks. Authentication rejections are tagged with ports.ErrAuthentication
// so callers can distinguish them from throttling and transport failures.
func (c *ClaudeClient) Generate(ctx context.Context, req ports.GenRequest) (string, error) {
	if c.model == "" {
		return "", fmt.Errorf("claude client misconfigured: empty model")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(text.String()), nil
}

func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ports.ErrAuthentication, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("rate limited: %w", err)
		}
	}
	return fmt.Errorf("generate text: %w", err)
}
