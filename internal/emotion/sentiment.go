package emotion

import "github.com/jonreiter/govader"

// vaderScorer backs SentimentScorer with the VADER lexicon. The compound
// score is already normalized by text length, which matches the comparative
// semantics the engine expects.
type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentimentScorer returns the production lexicon-based sentiment provider.
func NewSentimentScorer() SentimentScorer {
	return &vaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *vaderScorer) Comparative(text string) (float64, error) {
	return v.analyzer.PolarityScores(text).Compound, nil
}
