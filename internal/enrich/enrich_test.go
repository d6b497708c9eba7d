package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

// scriptedGenerator answers by system instruction so one fake serves both
// the summary and the extraction call.
type scriptedGenerator struct {
	summary     string
	symbols     string
	summaryErr  error
	symbolsErr  error
	calls       int
	lastRequest ports.GenRequest
}

func (g *scriptedGenerator) Generate(_ context.Context, req ports.GenRequest) (string, error) {
	g.calls++
	g.lastRequest = req
	if strings.Contains(req.System, "summarizes") {
		return g.summary, g.summaryErr
	}
	return g.symbols, g.symbolsErr
}

func TestEnrichHappyPath(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{
		summary: "X Corp reported quarterly results above expectations.",
		symbols: "XCRP, AAPL",
	}
	engine := NewEngine(gen, nil)

	got := engine.Enrich(context.Background(), domain.RawItem{
		Title: "X Corp beats earnings",
		Body:  "X Corp beats earnings with strong growth this quarter.",
	})

	assert.Equal(t, "X Corp reported quarterly results above expectations.", got.Summary)
	assert.Equal(t, []string{"XCRP", "AAPL"}, got.Symbols)
	assert.Equal(t, domain.LabelPositive, got.Sentiment.Label)
	assert.Equal(t, 2, gen.calls)
}

func TestSummarizeDegradesToSentinel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		gen  ports.TextGenerator
	}{
		{name: "generator error", gen: &scriptedGenerator{summaryErr: errors.New("rate limited")}},
		{name: "auth error", gen: &scriptedGenerator{summaryErr: ports.ErrAuthentication}},
		{name: "blank reply", gen: &scriptedGenerator{summary: "   "}},
		{name: "nil generator", gen: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := NewEngine(tt.gen, nil)
			got := engine.Summarize(context.Background(), "Some headline", "")
			assert.Equal(t, NoSummary, got)
		})
	}
}

func TestSummarizePromptIncludesBody(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{summary: "ok"}
	engine := NewEngine(gen, nil)

	engine.Summarize(context.Background(), "Headline", "Full body text")
	require.Contains(t, gen.lastRequest.Prompt, "Content: Full body text")
	assert.InDelta(t, summaryTemperature, gen.lastRequest.Temperature, 1e-9)
}

func TestExtractSymbolsFailureYieldsEmptySet(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&scriptedGenerator{symbolsErr: errors.New("boom")}, nil)
	got := engine.ExtractSymbols(context.Background(), "text mentioning $GME")
	assert.Empty(t, got)
}

func TestParseSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{name: "plain list", reply: "AAPL,MSFT,GME", want: []string{"AAPL", "MSFT", "GME"}},
		{name: "whitespace trimmed", reply: " AAPL , MSFT ", want: []string{"AAPL", "MSFT"}},
		{name: "empty tokens dropped", reply: "AAPL,,MSFT,", want: []string{"AAPL", "MSFT"}},
		{name: "single symbol", reply: "XCRP", want: []string{"XCRP"}},
		{name: "empty reply", reply: "", want: []string{}},
		{name: "only commas", reply: ",,,", want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ParseSymbols(tt.reply))
		})
	}
}

func TestOutcomeTagging(t *testing.T) {
	t.Parallel()

	ok := Ok("text")
	assert.True(t, ok.OK())
	assert.Equal(t, "text", ok.Text)

	degraded := Degraded(errors.New("quota"))
	assert.False(t, degraded.OK())
	assert.Error(t, degraded.Reason)
}
