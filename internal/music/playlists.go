package music

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
)

// PlaylistRecommendations runs the scored playlist path: it queries the
// first three emotion search terms, keeps playlists with a meaningful track
// count, scores each against the emotion and accuracy band, then dedupes and
// ranks.
func (c *Client) PlaylistRecommendations(ctx context.Context, emotion string, accuracy float64, limit int) (*PlaylistRecommendations, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 5
	}

	terms, level, intensity := searchParams(emotion, accuracy)
	var candidates []Playlist

	queries := terms
	if len(queries) > 3 {
		queries = queries[:3]
	}
	for _, query := range queries {
		result, err := c.api.Search(ctx, query, spotify.SearchTypePlaylist,
			spotify.Limit(10), spotify.Market(searchMarket))
		if err != nil {
			return nil, fmt.Errorf("searching playlists for %q: %w", query, err)
		}
		if result.Playlists == nil {
			continue
		}
		log.Debug().Str("query", query).Int("found", len(result.Playlists.Playlists)).Msg("playlist search")

		taken := 0
		for _, sp := range result.Playlists.Playlists {
			// Small playlists are usually stubs or spam.
			if int(sp.Tracks.Total) <= 10 {
				continue
			}
			p := convertPlaylist(sp, emotion)
			p.AccuracyMatch = level
			p.SearchQuery = query
			// Score before the fallback description is filled in, so the
			// synthesized text does not count as an emotion match.
			p.MatchScore = playlistMatchScore(p, emotion, accuracy)
			if p.Description == "" {
				p.Description = fmt.Sprintf("Perfect for %s mood", emotion)
			}
			candidates = append(candidates, p)
			taken++
			if taken == 2 {
				break
			}
		}
	}

	unique := dedupePlaylists(candidates)
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].MatchScore > unique[j].MatchScore })
	if len(unique) > limit {
		unique = unique[:limit]
	}

	return &PlaylistRecommendations{
		Recommendations:   unique,
		Emotion:           emotion,
		Accuracy:          accuracy,
		AccuracyLevel:     level,
		IntensityModifier: intensity,
		SearchTerms:       terms,
	}, nil
}

func convertPlaylist(sp spotify.SimplePlaylist, emotion string) Playlist {
	url := sp.ExternalURLs["spotify"]
	if url == "" {
		url = fmt.Sprintf("https://open.spotify.com/playlist/%s", sp.ID)
	}
	var image string
	if len(sp.Images) > 0 {
		image = sp.Images[0].URL
	}
	return Playlist{
		ID:           sp.ID.String(),
		Name:         sp.Name,
		URL:          url,
		Image:        image,
		Tracks:       int(sp.Tracks.Total),
		Owner:        sp.Owner.DisplayName,
		EmotionMatch: emotion,
	}
}

func dedupePlaylists(in []Playlist) []Playlist {
	seen := make(map[string]struct{}, len(in))
	out := make([]Playlist, 0, len(in))
	for _, p := range in {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
