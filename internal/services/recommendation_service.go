// Package services – RecommendationService
//
// This file implements RecommendationService, which turns an emotion label
// and an analysis accuracy into Spotify track and playlist recommendations.
// It sanitizes inputs (accuracy clamped into [0,1], emotion lowercased by
// the music client), resolves message-scoped requests against the store, and
// decorates results with a human-readable emotion label.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/moodtunes/go-mood-backend/internal/music"
	"github.com/moodtunes/go-mood-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MoodMixResult is a mood mix plus the display label for its emotion.
type MoodMixResult struct {
	music.MoodMix
	EmotionLabel string `json:"emotionLabel"`
}

// TrackRecsResult wraps track recommendations with the display label.
type TrackRecsResult struct {
	music.TrackRecommendations
	EmotionLabel string `json:"emotionLabel"`
}

// PlaylistRecsResult wraps playlist recommendations with the display label.
type PlaylistRecsResult struct {
	music.PlaylistRecommendations
	EmotionLabel string `json:"emotionLabel"`
}

// RecommendationService resolves recommendations for explicit emotions or
// for stored messages.
type RecommendationService struct {
	DB    *gorm.DB
	Music *music.Client
}

// Mix returns a quick mood mix for an emotion.
func (s *RecommendationService) Mix(ctx context.Context, emotion string, accuracy float64, limit int) (*MoodMixResult, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Mix",
		trace.WithAttributes(
			attribute.String("emotion", emotion),
			attribute.Float64("accuracy", accuracy),
		),
	)
	defer span.End()

	mix, err := s.Music.MoodMix(ctx, emotion, clampAccuracy(accuracy), limit)
	if err != nil {
		return nil, err
	}
	return &MoodMixResult{MoodMix: *mix, EmotionLabel: displayEmotion(mix.Emotion)}, nil
}

// Tracks returns scored track recommendations for an emotion.
func (s *RecommendationService) Tracks(ctx context.Context, emotion string, accuracy float64, limit int) (*TrackRecsResult, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Tracks",
		trace.WithAttributes(
			attribute.String("emotion", emotion),
			attribute.Float64("accuracy", accuracy),
		),
	)
	defer span.End()

	recs, err := s.Music.TrackRecommendations(ctx, emotion, clampAccuracy(accuracy), limit)
	if err != nil {
		return nil, err
	}
	return &TrackRecsResult{TrackRecommendations: *recs, EmotionLabel: displayEmotion(recs.Emotion)}, nil
}

// Playlists returns scored playlist recommendations for an emotion.
func (s *RecommendationService) Playlists(ctx context.Context, emotion string, accuracy float64, limit int) (*PlaylistRecsResult, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Playlists",
		trace.WithAttributes(
			attribute.String("emotion", emotion),
			attribute.Float64("accuracy", accuracy),
		),
	)
	defer span.End()

	recs, err := s.Music.PlaylistRecommendations(ctx, emotion, clampAccuracy(accuracy), limit)
	if err != nil {
		return nil, err
	}
	return &PlaylistRecsResult{PlaylistRecommendations: *recs, EmotionLabel: displayEmotion(recs.Emotion)}, nil
}

// TracksForMessage resolves a stored message to its primary emotion and
// overall accuracy, then fetches track recommendations. Messages without an
// analysis yield ErrNotAnalyzed.
func (s *RecommendationService) TracksForMessage(ctx context.Context, userID, messageID string, limit int) (*TrackRecsResult, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "TracksForMessage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("message.id", messageID),
		),
	)
	defer span.End()

	emotion, accuracy, err := s.moodOfMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}
	return s.Tracks(ctx, emotion, accuracy, limit)
}

// PlaylistsForMessage is TracksForMessage for playlists.
func (s *RecommendationService) PlaylistsForMessage(ctx context.Context, userID, messageID string, limit int) (*PlaylistRecsResult, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "PlaylistsForMessage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("message.id", messageID),
		),
	)
	defer span.End()

	emotion, accuracy, err := s.moodOfMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}
	return s.Playlists(ctx, emotion, accuracy, limit)
}

func (s *RecommendationService) moodOfMessage(ctx context.Context, userID, messageID string) (string, float64, error) {
	m, err := repo.GetMessage(s.DB.WithContext(ctx), messageID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", 0, ErrMessageNotFound
		}
		return "", 0, err
	}
	if m.Analysis == nil || m.Analysis.PrimaryEmotion == "" {
		return "", 0, ErrNotAnalyzed
	}
	return m.Analysis.PrimaryEmotion, m.Analysis.Accuracy.Overall, nil
}

// displayEmotion renders an emotion key as a UI-friendly label ("happy" to
// "Happy"). Casers are stateful, so one is built per call.
func displayEmotion(emotion string) string {
	if emotion == "" {
		return ""
	}
	return cases.Title(language.English).String(emotion)
}

func clampAccuracy(a float64) float64 {
	switch {
	case a < 0:
		return 0
	case a > 1:
		return 1
	default:
		return a
	}
}
