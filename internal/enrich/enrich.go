package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
	"StockPulse/internal/sentiment"
)

// NoSummary is the sentinel stored when the text-generation call degrades.
const NoSummary = "No summary available."

const (
	summarySystem = "You are a helpful assistant that summarizes news articles " +
		"with no subjectivity or bias on how the stock will move."
	symbolsSystem = "Identify stock ticker symbols in the text. " +
		"Return them as comma-separated values."

	summaryTemperature = 0.3
	symbolsTemperature = 0.1
	summaryMaxTokens   = 150
)

// Outcome is the tagged result of a text-generation call: Ok carries the
// generated text, Degraded carries the reason the call was abandoned.
type Outcome struct {
	Text   string
	Reason error
}

// Ok wraps a successful generation.
func Ok(text string) Outcome {
	return Outcome{Text: text}
}

// Degraded wraps a failed generation; the pipeline substitutes sentinels.
func Degraded(reason error) Outcome {
	return Outcome{Reason: reason}
}

// OK reports whether the call produced usable text.
func (o Outcome) OK() bool {
	return o.Reason == nil
}

// Engine derives summary, sentiment scores, and ticker symbols from raw
// items. All external calls degrade to sentinels; Enrich never fails.
type Engine struct {
	gen    ports.TextGenerator
	logger *slog.Logger
}

var _ ports.Enricher = (*Engine)(nil)

// NewEngine wires the text-generation boundary into the enrichment stage.
func NewEngine(gen ports.TextGenerator, logger *slog.Logger) *Engine {
	return &Engine{gen: gen, logger: logger}
}

// Enrich produces the full enrichment for one item. The sentiment input is
// the item body when present, otherwise the generated summary; this mirrors
// headline-only feeds where the summary is the only prose available.
func (e *Engine) Enrich(ctx context.Context, item domain.RawItem) domain.Enrichment {
	summary := e.Summarize(ctx, item.Title, item.Body)

	text := item.Body
	if strings.TrimSpace(text) == "" {
		text = summary
	}

	return domain.Enrichment{
		Summary:   summary,
		Sentiment: sentiment.Score(text),
		Symbols:   e.ExtractSymbols(ctx, item.Title+"\n\n"+text),
	}
}

// Summarize requests a short neutral-toned summary and returns the sentinel
// NoSummary when the call degrades.
func (e *Engine) Summarize(ctx context.Context, title, body string) string {
	outcome := e.summarize(ctx, title, body)
	if !outcome.OK() {
		e.warn("summarization degraded", "title", title, "reason", outcome.Reason)
		return NoSummary
	}
	if strings.TrimSpace(outcome.Text) == "" {
		return NoSummary
	}
	return strings.TrimSpace(outcome.Text)
}

func (e *Engine) summarize(ctx context.Context, title, body string) Outcome {
	if e.gen == nil {
		return Degraded(fmt.Errorf("text generator is not configured"))
	}

	prompt := "Please provide a concise summary of the following article with " +
		"no subjectivity or bias on how the stock will move:\n\n" +
		"Title: " + title + "\n\n"
	if body != "" {
		prompt += "Content: " + body + "\n\n"
	}
	prompt += "Summary:"

	text, err := e.gen.Generate(ctx, ports.GenRequest{
		System:      summarySystem,
		Prompt:      prompt,
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return Degraded(err)
	}
	return Ok(text)
}

// ExtractSymbols asks the model for comma-separated tickers and parses the
// reply. Any failure yields an empty set: "no stock identified", not an error.
func (e *Engine) ExtractSymbols(ctx context.Context, text string) []string {
	if e.gen == nil {
		return nil
	}

	prompt := "Identify any stock ticker symbols mentioned in this text:\n\n" +
		text + "\n\nReturn only the ticker symbols separated by commas."

	reply, err := e.gen.Generate(ctx, ports.GenRequest{
		System:      symbolsSystem,
		Prompt:      prompt,
		Temperature: symbolsTemperature,
	})
	if err != nil {
		e.warn("symbol extraction degraded", "reason", err)
		return nil
	}

	return ParseSymbols(reply)
}

// ParseSymbols splits a comma-separated reply into trimmed, non-empty tokens.
func ParseSymbols(reply string) []string {
	parts := strings.Split(reply, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		if symbol := strings.TrimSpace(part); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
