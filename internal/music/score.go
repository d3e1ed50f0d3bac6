package music

import (
	"regexp"
	"strings"
)

// Keyword sets used by the accuracy-banded scoring below. High-confidence
// analyses prefer intense material, low-confidence ones prefer gentler picks.
var (
	intenseRE  = regexp.MustCompile(`intense|strong|powerful|extreme|deep`)
	moderateRE = regexp.MustCompile(`moderate|good|nice|pleasant|decent`)
	gentleRE   = regexp.MustCompile(`soft|gentle|calm|quiet|chill|ambient`)

	trackIntenseRE  = regexp.MustCompile(`intense|power|energy|fire|strong|hard|heavy|loud`)
	trackModerateRE = regexp.MustCompile(`good|nice|feel|love|heart|soul|mind`)
	trackGentleRE   = regexp.MustCompile(`soft|gentle|quiet|calm|peace|still|slow|acoustic`)
)

// trackMatchScore rates how well a track fits the emotion and the analysis
// accuracy band. Higher is better; scores are only comparable within one
// recommendation request.
func trackMatchScore(t Track, emotion string, accuracy float64) int {
	score := 0
	emotion = normalizeEmotion(emotion)
	name := strings.ToLower(t.Name)
	artists := strings.ToLower(strings.Join(t.Artists, " "))
	album := strings.ToLower(t.Album.Name)

	if strings.Contains(name, emotion) {
		score += 25
	}
	if strings.Contains(artists, emotion) {
		score += 15
	}
	if strings.Contains(album, emotion) {
		score += 10
	}

	switch {
	case accuracy >= 0.8:
		if trackIntenseRE.MatchString(name) {
			score += 20
		}
		if t.Popularity > 70 {
			score += 15
		}
	case accuracy >= 0.6:
		if trackModerateRE.MatchString(name) {
			score += 15
		}
		if t.Popularity > 50 && t.Popularity <= 70 {
			score += 10
		}
	default:
		if trackGentleRE.MatchString(name) {
			score += 20
		}
		if t.Popularity <= 50 {
			score += 10
		}
	}

	if t.PreviewURL != "" {
		score += 5
	}
	if t.Explicit && (emotion == "calm" || emotion == "peaceful") {
		score -= 5
	}
	return score
}

// playlistMatchScore rates how well a playlist fits the emotion and the
// analysis accuracy band.
func playlistMatchScore(p Playlist, emotion string, accuracy float64) int {
	score := 0
	emotion = normalizeEmotion(emotion)
	name := strings.ToLower(p.Name)
	description := strings.ToLower(p.Description)

	if strings.Contains(name, emotion) {
		score += 30
	}
	if strings.Contains(description, emotion) {
		score += 20
	}

	switch {
	case accuracy >= 0.8:
		if intenseRE.MatchString(name) {
			score += 25
		}
	case accuracy >= 0.6:
		if moderateRE.MatchString(name) {
			score += 20
		}
	default:
		if gentleRE.MatchString(name) {
			score += 25
		}
	}

	if p.Tracks > 100 {
		score += 10
	}
	if p.Tracks > 1000 {
		score += 5
	}
	if len(p.Name) > 50 {
		score -= 5
	}
	return score
}
