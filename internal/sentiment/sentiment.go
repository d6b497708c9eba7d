package sentiment

import (
	"strings"
	"unicode"

	"StockPulse/internal/domain"
)

// entry carries the lexicon weights for a single word.
type entry struct {
	polarity     float64
	subjectivity float64
}

// lexicon maps lowercase words to polarity/subjectivity weights. Weighted
// toward the vocabulary of financial headlines and retail-investor posts.
var lexicon = map[string]entry{
	"good":          {0.7, 0.6},
	"great":         {0.8, 0.75},
	"excellent":     {1.0, 1.0},
	"strong":        {0.4, 0.4},
	"positive":      {0.3, 0.4},
	"beats":         {0.6, 0.5},
	"beat":          {0.6, 0.5},
	"surge":         {0.6, 0.5},
	"surges":        {0.6, 0.5},
	"soars":         {0.7, 0.6},
	"rally":         {0.5, 0.5},
	"gain":          {0.4, 0.3},
	"gains":         {0.4, 0.3},
	"growth":        {0.4, 0.3},
	"profit":        {0.5, 0.3},
	"profitable":    {0.6, 0.5},
	"record":        {0.3, 0.3},
	"upgrade":       {0.5, 0.4},
	"upgraded":      {0.5, 0.4},
	"bullish":       {0.6, 0.8},
	"outperform":    {0.5, 0.5},
	"outperforms":   {0.5, 0.5},
	"win":           {0.6, 0.4},
	"wins":          {0.6, 0.4},
	"success":       {0.7, 0.5},
	"successful":    {0.7, 0.5},
	"promising":     {0.5, 0.7},
	"opportunity":   {0.3, 0.4},
	"undervalued":   {0.4, 0.8},
	"moon":          {0.8, 0.9},
	"bad":           {-0.7, 0.65},
	"poor":          {-0.6, 0.6},
	"terrible":      {-1.0, 1.0},
	"weak":          {-0.4, 0.4},
	"negative":      {-0.3, 0.4},
	"misses":        {-0.6, 0.5},
	"miss":          {-0.6, 0.5},
	"missed":        {-0.6, 0.5},
	"plunge":        {-0.7, 0.6},
	"plunges":       {-0.7, 0.6},
	"tumbles":       {-0.6, 0.5},
	"slump":         {-0.6, 0.5},
	"drop":          {-0.4, 0.3},
	"drops":         {-0.4, 0.3},
	"decline":       {-0.4, 0.3},
	"declines":      {-0.4, 0.3},
	"loss":          {-0.5, 0.3},
	"losses":        {-0.5, 0.3},
	"downgrade":     {-0.5, 0.4},
	"downgraded":    {-0.5, 0.4},
	"bearish":       {-0.6, 0.8},
	"underperform":  {-0.5, 0.5},
	"underperforms": {-0.5, 0.5},
	"risk":          {-0.3, 0.4},
	"risky":         {-0.4, 0.7},
	"warning":       {-0.4, 0.4},
	"lawsuit":       {-0.4, 0.3},
	"fraud":         {-0.8, 0.6},
	"bankruptcy":    {-0.8, 0.4},
	"crash":         {-0.8, 0.6},
	"overvalued":    {-0.4, 0.8},
	"volatile":      {-0.2, 0.6},
	"uncertain":     {-0.2, 0.7},
	"disappointing": {-0.6, 0.7},
}

// negators flip the polarity of the following lexicon word.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {},
	"isnt": {}, "wasnt": {}, "dont": {}, "doesnt": {}, "didnt": {},
	"wont": {}, "cant": {}, "couldnt": {}, "wouldnt": {}, "shouldnt": {},
}

// intensifiers scale the weights of the following lexicon word.
var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "highly": 1.3,
	"slightly": 0.7, "somewhat": 0.8, "barely": 0.6,
}

// negationFactor matches the convention of flipping to half strength: "not
// good" reads weaker than "bad".
const negationFactor = -0.5

// Score computes deterministic polarity and subjectivity for the given text.
// Polarity is clamped to [-1, 1], subjectivity to [0, 1]; text with no
// lexicon hits scores exactly zero and labels Neutral.
func Score(text string) domain.Sentiment {
	words := tokenize(text)

	var (
		polaritySum     float64
		subjectivitySum float64
		hits            int
		negated         bool
		scale           = 1.0
	)

	for _, word := range words {
		if _, ok := negators[word]; ok {
			negated = true
			continue
		}
		if factor, ok := intensifiers[word]; ok {
			scale *= factor
			continue
		}

		e, ok := lexicon[word]
		if !ok {
			negated = false
			scale = 1.0
			continue
		}

		polarity := e.polarity * scale
		if negated {
			polarity *= negationFactor
		}
		polaritySum += polarity
		subjectivitySum += clamp(e.subjectivity*scale, 0, 1)
		hits++
		negated = false
		scale = 1.0
	}

	if hits == 0 {
		return domain.Sentiment{Label: domain.LabelNeutral}
	}

	polarity := clamp(polaritySum/float64(hits), -1, 1)
	return domain.Sentiment{
		Polarity:     polarity,
		Subjectivity: clamp(subjectivitySum/float64(hits), 0, 1),
		Label:        Label(polarity),
	}
}

// Label derives the three-way category from polarity sign.
func Label(polarity float64) domain.SentimentLabel {
	switch {
	case polarity > 0:
		return domain.LabelPositive
	case polarity < 0:
		return domain.LabelNegative
	default:
		return domain.LabelNeutral
	}
}

func tokenize(text string) []string {
	// Fold contractions ("isn't" -> "isnt") so negators match.
	text = strings.ReplaceAll(text, "'", "")
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
