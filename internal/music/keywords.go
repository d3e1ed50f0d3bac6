package music

// moodKeywords maps an emotion to the free-text terms appended to track
// searches. Unknown emotions fall back to searching the emotion name itself.
var moodKeywords = map[string]string{
	"happy":     "happy upbeat cheerful positive joyful",
	"joy":       "joyful celebration euphoric blissful",
	"sad":       "sad melancholy blues heartbreak sorrow",
	"sadness":   "sadness melancholic depressing emotional",
	"angry":     "aggressive intense rock metal fury",
	"anger":     "anger rage furious mad hostile",
	"calm":      "chill relaxing ambient peaceful serene",
	"excited":   "energetic party dance electronic pump",
	"romantic":  "love romantic ballad intimate tender",
	"love":      "love affection romantic passion devoted",
	"fear":      "dark atmospheric haunting suspense",
	"confident": "confident powerful strong determined",
	"lonely":    "lonely isolation solitude melancholy",
	"nostalgic": "nostalgic memories vintage retro classic",
}

// searchTerms maps an emotion to the ordered queries used by the scored
// recommendation paths. Unknown emotions fall back to the calm set.
var searchTerms = map[string][]string{
	"happy":     {"happy music", "upbeat songs", "feel good playlist", "positive vibes"},
	"joy":       {"joyful music", "celebration songs", "euphoric playlist", "blissful tunes"},
	"sad":       {"sad music", "melancholy songs", "heartbreak playlist", "emotional ballads"},
	"sadness":   {"sadness playlist", "depressing music", "sorrowful songs", "tear jerker"},
	"angry":     {"angry music", "aggressive songs", "rage playlist", "furious beats"},
	"anger":     {"anger management", "hostile music", "mad songs", "fury playlist"},
	"calm":      {"calm music", "relaxing songs", "peaceful playlist", "serene sounds"},
	"excited":   {"excited music", "energetic songs", "pump up playlist", "party beats"},
	"romantic":  {"romantic music", "love songs", "intimate playlist", "tender ballads"},
	"love":      {"love music", "affectionate songs", "passionate playlist", "devoted tunes"},
	"fear":      {"dark music", "atmospheric songs", "suspenseful playlist", "haunting sounds"},
	"confident": {"confident music", "empowering songs", "strong playlist", "powerful beats"},
	"lonely":    {"lonely music", "isolation songs", "solitude playlist", "melancholy tunes"},
	"nostalgic": {"nostalgic music", "throwback songs", "vintage playlist", "retro hits"},
}

// searchParams resolves the query plan for an emotion at a given analysis
// accuracy: the ordered search terms, a coarse accuracy band, and an
// intensity figure surfaced to clients.
func searchParams(emotion string, accuracy float64) (terms []string, level string, intensity float64) {
	switch {
	case accuracy >= 0.8:
		level = "high"
	case accuracy >= 0.6:
		level = "medium"
	default:
		level = "low"
	}

	terms, ok := searchTerms[normalizeEmotion(emotion)]
	if !ok {
		terms = searchTerms["calm"]
	}
	return terms, level, accuracy * 1.5
}
