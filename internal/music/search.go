package music

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
)

const searchMarket = "US"

// SearchTracksByMood searches tracks matching an emotion, optionally seeded
// with a free-text query. Results are filtered to reasonably popular tracks
// and truncated to limit.
func (c *Client) SearchTracksByMood(ctx context.Context, query, emotion string, limit int) ([]Track, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 20
	}

	emotion = normalizeEmotion(emotion)
	keywords, ok := moodKeywords[emotion]
	if !ok {
		keywords = emotion
	}
	searchQuery := keywords
	if query != "" {
		searchQuery = fmt.Sprintf("%s %s", query, keywords)
	}

	fetch := limit * 2
	if fetch > 50 {
		fetch = 50
	}
	result, err := c.api.Search(ctx, searchQuery, spotify.SearchTypeTrack,
		spotify.Limit(fetch), spotify.Market(searchMarket))
	if err != nil {
		return nil, fmt.Errorf("searching tracks for %q: %w", searchQuery, err)
	}
	if result.Tracks == nil {
		return nil, nil
	}
	log.Debug().Str("query", searchQuery).Int("found", len(result.Tracks.Tracks)).Msg("track search")

	tracks := make([]Track, 0, limit)
	for _, ft := range result.Tracks.Tracks {
		t := convertTrack(ft)
		if t.Popularity <= 20 {
			continue
		}
		tracks = append(tracks, t)
		if len(tracks) == limit {
			break
		}
	}
	return tracks, nil
}

// MoodMix is the primary track lookup for an analyzed message: a mood search
// seeded by the emotion, falling back to a broader "music" query when the
// specific search comes back empty.
func (c *Client) MoodMix(ctx context.Context, emotion string, accuracy float64, limit int) (*MoodMix, error) {
	if limit <= 0 {
		limit = 10
	}

	tracks, err := c.SearchTracksByMood(ctx, "", emotion, limit)
	if err != nil {
		return nil, err
	}
	if len(tracks) > 0 {
		return &MoodMix{
			Success:  true,
			Tracks:   tracks,
			Emotion:  emotion,
			Accuracy: accuracy,
			Method:   "track-search",
		}, nil
	}

	log.Warn().Str("emotion", emotion).Msg("no tracks found, trying fallback search")
	fallback, err := c.SearchTracksByMood(ctx, "music", emotion, limit)
	if err != nil {
		return nil, err
	}
	return &MoodMix{
		Success:  len(fallback) > 0,
		Tracks:   fallback,
		Emotion:  emotion,
		Accuracy: accuracy,
		Method:   "fallback-search",
	}, nil
}

// TrackRecommendations runs the scored track path: it queries the first two
// emotion search terms, keeps previewable tracks, scores each against the
// emotion and accuracy band, then dedupes and ranks.
func (c *Client) TrackRecommendations(ctx context.Context, emotion string, accuracy float64, limit int) (*TrackRecommendations, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	terms, level, intensity := searchParams(emotion, accuracy)
	var candidates []Track

	queries := terms
	if len(queries) > 2 {
		queries = queries[:2]
	}
	for _, query := range queries {
		result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack,
			spotify.Limit(15), spotify.Market(searchMarket))
		if err != nil {
			return nil, fmt.Errorf("searching tracks for %q: %w", query, err)
		}
		if result.Tracks == nil {
			continue
		}

		taken := 0
		for _, ft := range result.Tracks.Tracks {
			if ft.PreviewURL == "" {
				continue
			}
			t := convertTrack(ft)
			t.AccuracyMatch = level
			t.EmotionMatch = emotion
			t.SearchQuery = query
			t.MatchScore = trackMatchScore(t, emotion, accuracy)
			candidates = append(candidates, t)
			taken++
			if taken == 5 {
				break
			}
		}
	}

	unique := dedupeTracks(candidates)
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].MatchScore > unique[j].MatchScore })
	if len(unique) > limit {
		unique = unique[:limit]
	}

	return &TrackRecommendations{
		Tracks:            unique,
		Emotion:           emotion,
		Accuracy:          accuracy,
		AccuracyLevel:     level,
		IntensityModifier: intensity,
		SearchTerms:       terms,
	}, nil
}

func convertTrack(ft spotify.FullTrack) Track {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}
	artist := strings.Join(artists, ", ")
	if artist == "" {
		artist = "Unknown Artist"
	}

	albumName := ft.Album.Name
	if albumName == "" {
		albumName = "Unknown Album"
	}
	images := make([]string, len(ft.Album.Images))
	for i, img := range ft.Album.Images {
		images[i] = img.URL
	}
	var image string
	if len(images) > 0 {
		image = images[0]
	}

	uri := string(ft.URI)
	if uri == "" {
		uri = fmt.Sprintf("spotify:track:%s", ft.ID)
	}

	return Track{
		ID:          ft.ID.String(),
		Name:        ft.Name,
		Artist:      artist,
		Artists:     artists,
		Album:       Album{Name: albumName, Images: images},
		PreviewURL:  ft.PreviewURL,
		ExternalURL: ft.ExternalURLs["spotify"],
		URLs:        ft.ExternalURLs,
		Image:       image,
		DurationMS:  int(ft.Duration),
		Popularity:  int(ft.Popularity),
		Explicit:    ft.Explicit,
		URI:         uri,
	}
}

func dedupeTracks(in []Track) []Track {
	seen := make(map[string]struct{}, len(in))
	out := make([]Track, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
