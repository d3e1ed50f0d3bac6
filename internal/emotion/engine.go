// Package emotion implements the rule-based emotion scoring engine. It turns
// free text into an Analysis record: a confidence-ranked emotion list, a
// sentiment reading, a composite accuracy estimate, and the matched keywords.
//
// The engine is a pure function over its input plus the outputs of two
// injected collaborators (a linguistic feature extractor and a sentiment
// scorer). It keeps no state between calls and is safe for concurrent use.
// Collaborator errors are fatal to a single Analyze call and propagate
// unchanged; the batch variant isolates them per item.
package emotion

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Sentiment labeling thresholds on the comparative score.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// Accuracy blend weights. The overall score is a plain weighted sum of the
// three sub-scores; each sub-score is clamped before blending, so the result
// stays in [0,1] by construction.
const (
	weightClarity    = 0.25
	weightConfidence = 0.45
	weightLanguage   = 0.30
)

// EmotionScore pairs an emotion label with its normalized confidence.
type EmotionScore struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Sentiment is the polarity reading for a text. Score is the comparative
// value clipped to [-1,1]; Comparative keeps the raw (unclipped) value.
type Sentiment struct {
	Score       float64 `json:"score"`
	Comparative float64 `json:"comparative"`
	Label       string  `json:"label"`
}

// Accuracy is the engine's composite confidence in its own analysis. It is a
// heuristic quality estimate, not a ground-truth-validated figure.
type Accuracy struct {
	Overall            float64 `json:"overall"`
	TextClarity        float64 `json:"textClarity"`
	EmotionConfidence  float64 `json:"emotionConfidence"`
	LanguageProcessing float64 `json:"languageProcessing"`
}

// Analysis is the immutable result of analyzing one text.
type Analysis struct {
	PrimaryEmotion string         `json:"primaryEmotion"`
	Emotions       []EmotionScore `json:"emotions"`
	Sentiment      Sentiment      `json:"sentiment"`
	Accuracy       Accuracy       `json:"accuracy"`
	Keywords       []string       `json:"keywords"`
	ProcessedAt    time.Time      `json:"processedAt"`
}

// BatchItem is one entry of a batch analysis request.
type BatchItem struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Languages []string `json:"languages"`
}

// BatchResult carries either the analysis or the per-item error for one
// batch entry; exactly one of Analysis and Error is set.
type BatchResult struct {
	ID       string    `json:"messageId"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Engine scores texts using injected collaborators. The zero value is not
// usable; construct with NewEngine or Default.
type Engine struct {
	features  FeatureExtractor
	sentiment SentimentScorer
}

// NewEngine builds an Engine over the given collaborators.
func NewEngine(f FeatureExtractor, s SentimentScorer) *Engine {
	return &Engine{features: f, sentiment: s}
}

// Default returns an Engine wired to the production collaborators
// (prose-based features, VADER sentiment).
func Default() *Engine {
	return NewEngine(NewFeatureExtractor(), NewSentimentScorer())
}

// Analyze runs the full scoring pipeline for one text. Empty or
// whitespace-only input is not an error; it yields a low-confidence neutral
// result. Languages defaults to ["English"] when empty.
func (e *Engine) Analyze(text string, languages []string) (*Analysis, error) {
	if len(languages) == 0 {
		languages = []string{"English"}
	}

	feats, err := e.features.Extract(text)
	if err != nil {
		return nil, err
	}

	comparative, err := e.sentiment.Comparative(text)
	if err != nil {
		return nil, err
	}
	score := clamp(comparative, -1, 1)

	label := "neutral"
	switch {
	case comparative > positiveThreshold:
		label = "positive"
	case comparative < negativeThreshold:
		label = "negative"
	}

	scores, keywords := matchEmotions(text, feats.WordCount)

	// Rank candidates, keep only those with signal, pick the primary.
	ranked := make([]EmotionScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	detected := ranked[:0:0]
	for _, es := range ranked {
		if es.Confidence > 0 {
			detected = append(detected, es)
		}
	}

	primary := "neutral"
	if len(detected) > 0 {
		primary = detected[0].Emotion
	}

	clarity := textClarity(text, feats)
	confidence := emotionConfidence(detected, scores, text, primary, score)
	language := languageProcessing(text, languages, feats)
	overall := clarity*weightClarity + confidence*weightConfidence + language*weightLanguage

	top := detected
	if len(top) > 5 {
		top = top[:5]
	}
	emotions := make([]EmotionScore, len(top))
	for i, es := range top {
		emotions[i] = EmotionScore{Emotion: es.Emotion, Confidence: round3(es.Confidence)}
	}

	return &Analysis{
		PrimaryEmotion: primary,
		Emotions:       emotions,
		Sentiment: Sentiment{
			Score:       score,
			Comparative: round3(comparative),
			Label:       label,
		},
		Accuracy: Accuracy{
			Overall:            round3(overall),
			TextClarity:        round3(clarity),
			EmotionConfidence:  round3(confidence),
			LanguageProcessing: round3(language),
		},
		Keywords:    dedupe(keywords),
		ProcessedAt: time.Now().UTC(),
	}, nil
}

// AnalyzeBatch applies Analyze to each item independently. A failure on one
// item is recorded in its result and does not abort the remaining items.
func (e *Engine) AnalyzeBatch(items []BatchItem) []BatchResult {
	out := make([]BatchResult, 0, len(items))
	for _, it := range items {
		a, err := e.Analyze(it.Text, it.Languages)
		if err != nil {
			out = append(out, BatchResult{ID: it.ID, Error: err.Error()})
			continue
		}
		out = append(out, BatchResult{ID: it.ID, Analysis: a})
	}
	return out
}

// matchEmotions scans the lowercased text against the trigger table. Every
// occurrence of a trigger adds frequency*0.1 to that emotion's raw score;
// scores are normalized by text length and capped at 1. Matched triggers are
// accumulated (with duplicates) for later deduplication.
func matchEmotions(text string, wordCount int) ([]EmotionScore, []string) {
	lower := strings.ToLower(text)
	denom := math.Max(float64(wordCount)*0.1, 1)

	scores := make([]EmotionScore, 0, len(emotionOrder))
	var found []string
	for _, name := range emotionOrder {
		raw := 0.0
		for _, kw := range triggerWords[name] {
			if !strings.Contains(lower, kw) {
				continue
			}
			found = append(found, kw)
			raw += float64(strings.Count(lower, kw)) * 0.1
		}
		scores = append(scores, EmotionScore{
			Emotion:    name,
			Confidence: math.Min(raw/denom, 1),
		})
	}
	return scores, found
}

// textClarity estimates how cleanly the text expresses itself: word-count
// banding, sentence structure, emotional punctuation, and intensity words.
// Result is clamped to [0.1, 1].
func textClarity(text string, feats Features) float64 {
	clarity := 0.3
	wc := feats.WordCount

	switch {
	case wc >= 3 && wc <= 5:
		clarity += 0.2
	case wc >= 6 && wc <= 15:
		clarity += 0.35
	case wc >= 16 && wc <= 50:
		clarity += 0.25
	case wc >= 51 && wc <= 100:
		clarity += 0.15
	case wc > 100:
		clarity += 0.05
	default:
		// 0–2 words: too short to judge.
		clarity -= 0.1
	}

	if feats.Sentences > 0 {
		avg := float64(wc) / float64(feats.Sentences)
		switch {
		case avg >= 4 && avg <= 12:
			clarity += 0.2
		case avg >= 13 && avg <= 20:
			clarity += 0.1
		case avg > 20:
			clarity -= 0.1
		}
	}

	switch punct := strings.Count(text, "!") + strings.Count(text, "?"); punct {
	case 0:
	case 1:
		clarity += 0.15
	case 2:
		clarity += 0.1
	default:
		clarity -= 0.05
	}

	if n := len(intensityRE.FindAllString(text, -1)); n > 0 {
		clarity += math.Min(float64(n)*0.05, 0.15)
	}

	return clamp(clarity, 0.1, 1)
}

// emotionConfidence estimates how certain the engine is about the primary
// emotion: keyword corroboration from the confidence table, sentiment
// alignment, and a penalty when signals are mixed. Result is clamped to
// [0.1, 1]; with no detected emotion the base drops to a flat 0.2.
func emotionConfidence(detected, all []EmotionScore, text, primary string, sentimentScore float64) float64 {
	if len(detected) == 0 {
		return 0.2
	}
	confidence := detected[0].Confidence

	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range confidenceWords[primary] {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	switch {
	case hits >= 2:
		confidence += 0.3
	case hits == 1:
		confidence += 0.15
	}

	switch {
	case primary == "happy" && sentimentScore > 0.2:
		confidence += 0.2
	case primary == "sad" && sentimentScore < -0.2:
		confidence += 0.2
	case primary == "angry" && sentimentScore < -0.3:
		confidence += 0.2
	}

	significant := 0
	for _, es := range all {
		if es.Confidence > 0.05 {
			significant++
		}
	}
	if significant > 3 {
		confidence -= 0.1
	}

	return clamp(confidence, 0.1, 1)
}

// languageProcessing estimates how well the text could be processed:
// language support, capitalization, terminal punctuation, and vocabulary
// richness. Result is clamped to [0.1, 1].
func languageProcessing(text string, languages []string, feats Features) float64 {
	processing := 0.4
	wc := feats.WordCount

	if containsLanguage(languages, "English") {
		processing += 0.3
	} else {
		processing += 0.2
	}

	capitals := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			capitals++
		}
	}
	if capitals > 0 && float64(capitals) <= float64(wc)*0.3 {
		processing += 0.15
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
		processing += 0.1
	}

	if wc > 0 {
		unique := make(map[string]struct{})
		for _, w := range strings.Fields(strings.ToLower(text)) {
			unique[w] = struct{}{}
		}
		switch richness := float64(len(unique)) / float64(wc); {
		case richness > 0.8:
			processing += 0.2
		case richness > 0.6:
			processing += 0.15
		case richness < 0.4:
			processing -= 0.1
		}
	}

	if wc < 3 {
		processing -= 0.2
	}

	return clamp(processing, 0.1, 1)
}

func containsLanguage(languages []string, want string) bool {
	for _, l := range languages {
		if l == want {
			return true
		}
	}
	return false
}

// dedupe removes duplicate keywords preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
