package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StockPulse/internal/domain"
)

func TestScoreLabelMatchesPolaritySign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want domain.SentimentLabel
	}{
		{name: "positive earnings headline", text: "X Corp beats earnings with strong growth", want: domain.LabelPositive},
		{name: "negative headline", text: "Shares plunge after disappointing losses", want: domain.LabelNegative},
		{name: "no lexicon hits", text: "The company held its annual meeting on Tuesday", want: domain.LabelNeutral},
		{name: "empty text", text: "", want: domain.LabelNeutral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Score(tt.text)
			assert.Equal(t, tt.want, got.Label)
			switch tt.want {
			case domain.LabelPositive:
				assert.Greater(t, got.Polarity, 0.0)
			case domain.LabelNegative:
				assert.Less(t, got.Polarity, 0.0)
			default:
				assert.Zero(t, got.Polarity)
			}
		})
	}
}

func TestScoreRanges(t *testing.T) {
	t.Parallel()

	texts := []string{
		"excellent excellent excellent extremely excellent",
		"terrible fraud bankruptcy crash extremely terrible",
		"very bullish moon undervalued promising",
		"not good not great never profitable",
		"plain text with no opinion words at all",
	}

	for _, text := range texts {
		got := Score(text)
		assert.GreaterOrEqual(t, got.Polarity, -1.0, "text %q", text)
		assert.LessOrEqual(t, got.Polarity, 1.0, "text %q", text)
		assert.GreaterOrEqual(t, got.Subjectivity, 0.0, "text %q", text)
		assert.LessOrEqual(t, got.Subjectivity, 1.0, "text %q", text)
	}
}

func TestScoreNegationFlipsSign(t *testing.T) {
	t.Parallel()

	plain := Score("the outlook is good")
	negated := Score("the outlook is not good")

	assert.Greater(t, plain.Polarity, 0.0)
	assert.Less(t, negated.Polarity, 0.0)
	// Negation reads weaker than outright negative vocabulary.
	assert.Greater(t, negated.Polarity, -plain.Polarity)
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	text := "Strong rally after record profit, but analysts warn the stock is overvalued"
	first := Score(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(text))
	}
}

func TestScoreIntensifierScales(t *testing.T) {
	t.Parallel()

	base := Score("good")
	scaled := Score("very good")
	assert.Greater(t, scaled.Polarity, base.Polarity)
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.LabelPositive, Label(0.001))
	assert.Equal(t, domain.LabelNegative, Label(-0.001))
	assert.Equal(t, domain.LabelNeutral, Label(0))
}
