package emotion

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Features holds the linguistic measurements the engine consumes. The POS
// buckets are extracted for completeness (and exposed to callers that want
// them) but only the counts participate in scoring.
type Features struct {
	WordCount  int
	Sentences  int
	Adjectives []string
	Verbs      []string
	Nouns      []string
}

// FeatureExtractor produces linguistic features for a text. Implementations
// must accept empty input and return zero counts rather than an error.
type FeatureExtractor interface {
	Extract(text string) (Features, error)
}

// SentimentScorer returns a length-normalized ("comparative") polarity score
// for a text. The range is implementation-defined; the engine clips it for
// storage and uses fixed thresholds for labeling.
type SentimentScorer interface {
	Comparative(text string) (float64, error)
}

// proseExtractor backs FeatureExtractor with the prose tokenizer and tagger.
type proseExtractor struct{}

// NewFeatureExtractor returns the production linguistic feature provider.
func NewFeatureExtractor() FeatureExtractor { return proseExtractor{} }

func (proseExtractor) Extract(text string) (Features, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(true),
		prose.WithTagging(true),
	)
	if err != nil {
		return Features{}, fmt.Errorf("extracting linguistic features: %w", err)
	}

	var f Features
	for _, tok := range doc.Tokens() {
		if !isWord(tok.Text) {
			continue
		}
		f.WordCount++
		switch {
		case strings.HasPrefix(tok.Tag, "JJ"):
			f.Adjectives = append(f.Adjectives, tok.Text)
		case strings.HasPrefix(tok.Tag, "VB"):
			f.Verbs = append(f.Verbs, tok.Text)
		case strings.HasPrefix(tok.Tag, "NN"):
			f.Nouns = append(f.Nouns, tok.Text)
		}
	}
	f.Sentences = len(doc.Sentences())
	return f, nil
}

// isWord reports whether a token counts as a term (contains at least one
// letter or digit, i.e. is not pure punctuation).
func isWord(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 127 {
			return true
		}
	}
	return false
}
