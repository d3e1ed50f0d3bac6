package music

// Album is the subset of album metadata carried on a recommended track.
type Album struct {
	Name   string   `json:"name"`
	Images []string `json:"images"`
}

// Track is a recommendation candidate in wire format. Match metadata
// (MatchScore and friends) is only populated by the scored recommendation
// paths; plain mood searches leave it zero.
type Track struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Artist      string            `json:"artist"`
	Artists     []string          `json:"artists"`
	Album       Album             `json:"album"`
	PreviewURL  string            `json:"preview_url,omitempty"`
	ExternalURL string            `json:"external_url,omitempty"`
	URLs        map[string]string `json:"external_urls,omitempty"`
	Image       string            `json:"image,omitempty"`
	DurationMS  int               `json:"duration_ms"`
	Popularity  int               `json:"popularity"`
	Explicit    bool              `json:"explicit"`
	URI         string            `json:"uri"`

	AccuracyMatch string `json:"accuracyMatch,omitempty"`
	EmotionMatch  string `json:"emotionMatch,omitempty"`
	SearchQuery   string `json:"searchQuery,omitempty"`
	MatchScore    int    `json:"matchScore,omitempty"`
}

// Playlist is a scored playlist recommendation in wire format.
type Playlist struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Image         string `json:"image,omitempty"`
	Tracks        int    `json:"tracks"`
	Owner         string `json:"owner"`
	AccuracyMatch string `json:"accuracyMatch"`
	EmotionMatch  string `json:"emotionMatch"`
	SearchQuery   string `json:"searchQuery"`
	MatchScore    int    `json:"matchScore"`
}

// MoodMix is the result of the plain mood search with its fallback. Method
// records which search path produced the tracks.
type MoodMix struct {
	Success  bool    `json:"success"`
	Tracks   []Track `json:"tracks"`
	Emotion  string  `json:"emotion"`
	Accuracy float64 `json:"accuracy"`
	Method   string  `json:"method"`
}

// TrackRecommendations is the scored track recommendation payload.
type TrackRecommendations struct {
	Tracks            []Track  `json:"tracks"`
	Emotion           string   `json:"emotion"`
	Accuracy          float64  `json:"accuracy"`
	AccuracyLevel     string   `json:"accuracyLevel"`
	IntensityModifier float64  `json:"intensityModifier"`
	SearchTerms       []string `json:"searchTerms"`
}

// PlaylistRecommendations is the scored playlist recommendation payload.
type PlaylistRecommendations struct {
	Recommendations   []Playlist `json:"recommendations"`
	Emotion           string     `json:"emotion"`
	Accuracy          float64    `json:"accuracy"`
	AccuracyLevel     string     `json:"accuracyLevel"`
	IntensityModifier float64    `json:"intensityModifier"`
	SearchTerms       []string   `json:"searchTerms"`
}
