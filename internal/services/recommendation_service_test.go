package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/emotion"
	"github.com/moodtunes/go-mood-backend/internal/music"
)

// ---------- test helpers ----------

func newRecDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:recsvc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newFakeSpotify serves a token endpoint plus canned search responses: one
// popular previewable track for track searches, one large playlist for
// playlist searches.
func newFakeSpotify(t *testing.T) *music.Client {
	t.Helper()

	trackBody := `{"tracks":{"href":"h","limit":15,"offset":0,"total":1,"items":[{
		"id":"t1","name":"Happy Days","preview_url":"https://p.example/t1","explicit":false,
		"duration_ms":180000,"popularity":80,"uri":"spotify:track:t1",
		"external_urls":{"spotify":"https://open.spotify.com/track/t1"},
		"artists":[{"id":"a1","name":"The Cheerful"}],
		"album":{"id":"al1","name":"Sunrise","images":[{"url":"https://img.example/al1"}]}
	}]}}`
	playlistBody := `{"playlists":{"href":"h","limit":10,"offset":0,"total":1,"items":[{
		"id":"p1","name":"Happy Vibes","owner":{"display_name":"dj"},
		"external_urls":{"spotify":"https://open.spotify.com/playlist/p1"},
		"images":[{"url":"https://img.example/p1"}],"tracks":{"total":120}
	}]}}`

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("type") == "playlist" {
			fmt.Fprint(w, playlistBody)
			return
		}
		fmt.Fprint(w, trackBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return music.NewClient(music.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/token",
		BaseURL:      srv.URL + "/",
	})
}

func seedAnalyzedMessage(t *testing.T, db *gorm.DB, id, userID, primary string, overall float64) {
	t.Helper()
	now := time.Now().UTC()
	m := &domain.Message{
		ID: id, UserID: userID, Text: "seed",
		Analysis: &emotion.Analysis{
			PrimaryEmotion: primary,
			Accuracy:       emotion.Accuracy{Overall: overall},
			ProcessedAt:    now,
		},
		CreatedAt: now, UpdatedAt: now,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}
}

// ---------- message resolution ----------

func TestRecommendationService_TracksForMessage_NotFound(t *testing.T) {
	svc := &RecommendationService{DB: newRecDB(t), Music: newFakeSpotify(t)}
	if _, err := svc.TracksForMessage(context.Background(), "u1", "missing", 5); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestRecommendationService_TracksForMessage_NotAnalyzed(t *testing.T) {
	db := newRecDB(t)
	now := time.Now().UTC()
	if err := db.Create(&domain.Message{ID: "m1", UserID: "u1", Text: "raw", CreatedAt: now, UpdatedAt: now}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := &RecommendationService{DB: db, Music: newFakeSpotify(t)}
	if _, err := svc.TracksForMessage(context.Background(), "u1", "m1", 5); !errors.Is(err, ErrNotAnalyzed) {
		t.Fatalf("expected ErrNotAnalyzed, got %v", err)
	}
}

func TestRecommendationService_TracksForMessage_Success(t *testing.T) {
	db := newRecDB(t)
	seedAnalyzedMessage(t, db, "m1", "u1", "happy", 0.9)

	svc := &RecommendationService{DB: db, Music: newFakeSpotify(t)}
	recs, err := svc.TracksForMessage(context.Background(), "u1", "m1", 5)
	if err != nil {
		t.Fatalf("TracksForMessage error: %v", err)
	}
	if recs.Emotion != "happy" || recs.EmotionLabel != "Happy" {
		t.Fatalf("unexpected emotion fields: %q / %q", recs.Emotion, recs.EmotionLabel)
	}
	if recs.AccuracyLevel != "high" {
		t.Fatalf("expected high accuracy level, got %q", recs.AccuracyLevel)
	}
	if got, want := recs.IntensityModifier, 0.9*1.5; got != want {
		t.Fatalf("expected intensity %v, got %v", want, got)
	}
	if len(recs.Tracks) != 1 || recs.Tracks[0].ID != "t1" {
		t.Fatalf("unexpected tracks: %+v", recs.Tracks)
	}
}

// ---------- direct emotion paths ----------

func TestRecommendationService_Mix(t *testing.T) {
	svc := &RecommendationService{DB: newRecDB(t), Music: newFakeSpotify(t)}

	mix, err := svc.Mix(context.Background(), "Happy", 1.7, 5)
	if err != nil {
		t.Fatalf("Mix error: %v", err)
	}
	if !mix.Success || mix.Method != "track-search" {
		t.Fatalf("unexpected mix: %+v", mix.MoodMix)
	}
	if mix.Accuracy != 1 {
		t.Fatalf("expected accuracy clamped to 1, got %v", mix.Accuracy)
	}
	if mix.EmotionLabel != "Happy" {
		t.Fatalf("expected label Happy, got %q", mix.EmotionLabel)
	}
	if len(mix.Tracks) != 1 || mix.Tracks[0].Name != "Happy Days" {
		t.Fatalf("unexpected tracks: %+v", mix.Tracks)
	}
}

func TestRecommendationService_Playlists(t *testing.T) {
	db := newRecDB(t)
	seedAnalyzedMessage(t, db, "m1", "u1", "calm", 0.5)
	svc := &RecommendationService{DB: db, Music: newFakeSpotify(t)}

	recs, err := svc.PlaylistsForMessage(context.Background(), "u1", "m1", 4)
	if err != nil {
		t.Fatalf("PlaylistsForMessage error: %v", err)
	}
	if recs.EmotionLabel != "Calm" || recs.AccuracyLevel != "low" {
		t.Fatalf("unexpected fields: %+v", recs)
	}
	if len(recs.Recommendations) == 0 || recs.Recommendations[0].ID != "p1" {
		t.Fatalf("unexpected playlists: %+v", recs.Recommendations)
	}
}

// ---------- helpers ----------

func TestClampAccuracy(t *testing.T) {
	cases := map[float64]float64{-0.3: 0, 0: 0, 0.42: 0.42, 1: 1, 2.5: 1}
	for in, want := range cases {
		if got := clampAccuracy(in); got != want {
			t.Fatalf("clampAccuracy(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestDisplayEmotion(t *testing.T) {
	cases := map[string]string{"happy": "Happy", "": "", "EXCITED": "Excited", "calm": "Calm"}
	for in, want := range cases {
		if got := displayEmotion(in); got != want {
			t.Fatalf("displayEmotion(%q) = %q, want %q", in, got, want)
		}
	}
}
