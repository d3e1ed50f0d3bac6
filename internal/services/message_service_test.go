package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/emotion"
)

// ---------- test helpers ----------

func newMsgDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:msgsvc_%s?mode=memory&cache=shared", uuid.NewString())
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

func newMsgService(t *testing.T) *MessageService {
	t.Helper()
	return &MessageService{DB: newMsgDB(t), Engine: emotion.Default()}
}

// ---------- Create ----------

func TestMessageService_Create_EmptyText(t *testing.T) {
	svc := newMsgService(t)
	if _, err := svc.Create(context.Background(), "u1", "   \n\t ", nil); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestMessageService_Create_TooLong(t *testing.T) {
	svc := newMsgService(t)
	svc.MaxTextRunes = 10
	if _, err := svc.Create(context.Background(), "u1", strings.Repeat("a", 11), nil); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
	// Exactly at the limit is allowed.
	if _, err := svc.Create(context.Background(), "u1", strings.Repeat("a", 10), nil); err != nil {
		t.Fatalf("at-limit create failed: %v", err)
	}
}

func TestMessageService_Create_PersistsAnalysis(t *testing.T) {
	svc := newMsgService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "u1", "I am so happy and excited about this trip!", []string{"English"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if m.ID == "" || m.UserID != "u1" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if m.Analysis == nil || m.Analysis.PrimaryEmotion == "" {
		t.Fatalf("expected eager analysis, got %+v", m.Analysis)
	}

	// The stored row must carry the same analysis.
	var got domain.Message
	if err := svc.DB.First(&got, "id = ?", m.ID).Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if got.Analysis == nil || got.Analysis.PrimaryEmotion != m.Analysis.PrimaryEmotion {
		t.Fatalf("stored analysis mismatch: %+v vs %+v", got.Analysis, m.Analysis)
	}
}

// ---------- Get ----------

func TestMessageService_Get(t *testing.T) {
	svc := newMsgService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "u1", "missing"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}

	created, err := svc.Create(ctx, "u1", "quiet evening", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.Get(ctx, "u1", created.ID)
	if err != nil || got.Text != "quiet evening" {
		t.Fatalf("Get failed: err=%v got=%+v", err, got)
	}

	// Other users must not see it.
	if _, err := svc.Get(ctx, "u2", created.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound for other user, got %v", err)
	}
}

// ---------- ListPage ----------

func TestMessageService_ListPage_EmptyAndDefaults(t *testing.T) {
	svc := newMsgService(t)
	items, total, err := svc.ListPage(context.Background(), "u1", 0, 0)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("expected empty page, got total=%d items=%v", total, items)
	}
}

func TestMessageService_ListPage_NewestFirst(t *testing.T) {
	svc := newMsgService(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, txt := range []string{"first", "second", "third"} {
		m := &domain.Message{
			ID:        fmt.Sprintf("m%d", i+1),
			UserID:    "u1",
			Text:      txt,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := svc.DB.Create(m).Error; err != nil {
			t.Fatalf("seed %s: %v", txt, err)
		}
	}

	items, total, err := svc.ListPage(ctx, "u1", 1, 2)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("expected total=3 page of 2, got total=%d len=%d", total, len(items))
	}
	if items[0].Text != "third" || items[1].Text != "second" {
		t.Fatalf("expected newest first, got %q then %q", items[0].Text, items[1].Text)
	}

	items2, _, err := svc.ListPage(ctx, "u1", 2, 2)
	if err != nil || len(items2) != 1 || items2[0].Text != "first" {
		t.Fatalf("page 2 wrong: err=%v items=%v", err, items2)
	}
}

// ---------- Search ----------

func TestMessageService_Search(t *testing.T) {
	svc := newMsgService(t)
	ctx := context.Background()

	if _, err := svc.Search(ctx, "u1", "  ", 5); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText for blank query, got %v", err)
	}

	if _, err := svc.Create(ctx, "u1", "Morning run in the park", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Create(ctx, "u1", "Lazy Sunday breakfast", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Create(ctx, "u2", "park bench thoughts", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	hits, err := svc.Search(ctx, "u1", "PARK", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 || hits[0].Text != "Morning run in the park" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

// ---------- Reanalyze ----------

func TestMessageService_Reanalyze(t *testing.T) {
	svc := newMsgService(t)
	ctx := context.Background()

	if _, err := svc.Reanalyze(ctx, "u1", "missing"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}

	// Seed a row with no analysis, as if analysis had been skipped.
	now := time.Now().UTC()
	seed := &domain.Message{ID: "m1", UserID: "u1", Text: "feeling sad and tired today", CreatedAt: now, UpdatedAt: now}
	if err := svc.DB.Create(seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	m, err := svc.Reanalyze(ctx, "u1", "m1")
	if err != nil {
		t.Fatalf("Reanalyze error: %v", err)
	}
	if m.Analysis == nil || m.Analysis.PrimaryEmotion == "" {
		t.Fatalf("expected fresh analysis, got %+v", m.Analysis)
	}

	var got domain.Message
	if err := svc.DB.First(&got, "id = ?", "m1").Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if got.Analysis == nil || got.Analysis.PrimaryEmotion != m.Analysis.PrimaryEmotion {
		t.Fatalf("analysis not persisted: %+v", got.Analysis)
	}
}

// ---------- Delete ----------

func TestMessageService_Delete(t *testing.T) {
	svc := newMsgService(t)
	ctx := context.Background()

	if err := svc.Delete(ctx, "u1", "missing"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}

	created, err := svc.Create(ctx, "u1", "to be removed", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, "u1", created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.Get(ctx, "u1", created.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected deleted message to be gone, got %v", err)
	}
}

// ---------- AnalyzeBatch ----------

func TestMessageService_AnalyzeBatch_Guards(t *testing.T) {
	svc := newMsgService(t)
	ctx := context.Background()

	if _, err := svc.AnalyzeBatch(ctx, nil); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText for empty batch, got %v", err)
	}

	svc.MaxBatchItems = 2
	three := []emotion.BatchItem{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	if _, err := svc.AnalyzeBatch(ctx, three); !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestMessageService_AnalyzeBatch_Success(t *testing.T) {
	svc := newMsgService(t)

	items := []emotion.BatchItem{
		{ID: "a", Text: "so happy and grateful"},
		{ID: "b", Text: "angry about the delay"},
	}
	results, err := svc.AnalyzeBatch(context.Background(), items)
	if err != nil {
		t.Fatalf("AnalyzeBatch error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.ID != items[i].ID {
			t.Fatalf("result %d: expected id %q, got %q", i, items[i].ID, r.ID)
		}
		if r.Analysis == nil || r.Error != "" {
			t.Fatalf("result %d: expected analysis, got %+v", i, r)
		}
	}
}
