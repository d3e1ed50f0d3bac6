package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/emotion"
)

// test DB helper
func newMsgRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("msg_repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func sampleAnalysis(primary string) *emotion.Analysis {
	return &emotion.Analysis{
		PrimaryEmotion: primary,
		Emotions:       []emotion.EmotionScore{{Emotion: primary, Confidence: 0.5}},
		Sentiment:      emotion.Sentiment{Score: 0.4, Comparative: 0.4, Label: "positive"},
		Accuracy:       emotion.Accuracy{Overall: 0.6, TextClarity: 0.6, EmotionConfidence: 0.6, LanguageProcessing: 0.6},
		Keywords:       []string{primary},
		ProcessedAt:    time.Now().UTC(),
	}
}

func TestCreateMessage_InsertsAndStoresAnalysis(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})

	msg, err := CreateMessage(db, "u1", "feeling happy today", []string{"English"}, sampleAnalysis("happy"))
	if err != nil {
		t.Fatalf("CreateMessage error: %v", err)
	}
	if msg.ID == "" || msg.UserID != "u1" || msg.Text != "feeling happy today" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Analysis == nil || msg.Analysis.PrimaryEmotion != "happy" {
		t.Fatalf("analysis not stored correctly: %+v", msg)
	}
	if msg.CreatedAt.IsZero() || time.Since(msg.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set reasonably: %v", msg.CreatedAt)
	}

	// read it back, scoped to the owner
	got, err := GetMessage(db, msg.ID, "u1")
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.ID != msg.ID || got.Analysis == nil || got.Analysis.PrimaryEmotion != "happy" {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, msg)
	}

	// another user cannot read it
	if _, err := GetMessage(db, msg.ID, "u2"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for wrong owner, got %v", err)
	}
}

func TestCountMessages_Error_NoTable(t *testing.T) {
	db := newMsgRepoDB(t /* no migration for Message */)
	if _, err := CountMessages(db, "ux"); err == nil {
		t.Fatalf("expected error due to missing messages table")
	}
}

func TestCountMessages_Success(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})

	// two messages for ux, one for uy
	if err := db.Create(&domain.Message{ID: "m1", UserID: "ux", Text: "1"}).Error; err != nil {
		t.Fatalf("seed m1: %v", err)
	}
	if err := db.Create(&domain.Message{ID: "m2", UserID: "ux", Text: "2"}).Error; err != nil {
		t.Fatalf("seed m2: %v", err)
	}
	if err := db.Create(&domain.Message{ID: "m3", UserID: "uy", Text: "3"}).Error; err != nil {
		t.Fatalf("seed m3: %v", err)
	}

	total, err := CountMessages(db, "ux")
	if err != nil {
		t.Fatalf("CountMessages error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2, got %d", total)
	}

	// soft-deleted rows are excluded
	if err := DeleteMessage(db, "m2", "ux"); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	total, err = CountMessages(db, "ux")
	if err != nil {
		t.Fatalf("CountMessages after delete: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 after soft delete, got %d", total)
	}
}

func TestListMessagesPage_NewestFirst(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})

	// five entries with ascending CreatedAt + IDs
	base := time.Date(2026, 7, 1, 11, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		m := domain.Message{
			ID:        string(rune('a' + i - 1)),
			UserID:    "u3",
			Text:      "x",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed m%d: %v", i, err)
		}
	}

	out, err := ListMessagesPage(db, "u3", 1, 2) // newest first, skip 1 → "d","c"
	if err != nil {
		t.Fatalf("ListMessagesPage error: %v", err)
	}
	if len(out) != 2 || out[0].ID != "d" || out[1].ID != "c" {
		t.Fatalf("unexpected page slice: %+v", out)
	}
}

func TestListMessagesPage_DeterministicTiebreak(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})

	t0 := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	mA := domain.Message{ID: "a", UserID: "u4", Text: "x", CreatedAt: t0}
	mB := domain.Message{ID: "b", UserID: "u4", Text: "y", CreatedAt: t0}
	if err := db.Create(&mA).Error; err != nil { // insert out of order on purpose
		t.Fatalf("seed mA: %v", err)
	}
	if err := db.Create(&mB).Error; err != nil {
		t.Fatalf("seed mB: %v", err)
	}

	out, err := ListMessagesPage(db, "u4", 0, 10)
	if err != nil {
		t.Fatalf("ListMessagesPage error: %v", err)
	}
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "a" {
		t.Fatalf("unexpected tiebreak order: %+v", out)
	}
}

func TestUpdateMessageAnalysis(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})

	m, err := CreateMessage(db, "u5", "mixed feelings", nil, nil)
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	if err := UpdateMessageAnalysis(db, m.ID, "u5", sampleAnalysis("sad")); err != nil {
		t.Fatalf("UpdateMessageAnalysis: %v", err)
	}
	got, err := GetMessage(db, m.ID, "u5")
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.Analysis == nil || got.Analysis.PrimaryEmotion != "sad" {
		t.Fatalf("analysis not replaced: %+v", got.Analysis)
	}

	// wrong owner / missing row
	if err := UpdateMessageAnalysis(db, m.ID, "someone-else", sampleAnalysis("happy")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := UpdateMessageAnalysis(db, "nope", "u5", sampleAnalysis("happy")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestSearchMessages(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})

	base := time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC)
	seed := []domain.Message{
		{ID: "s1", UserID: "u6", Text: "walked on the beach", CreatedAt: base},
		{ID: "s2", UserID: "u6", Text: "Beach day with friends", CreatedAt: base.Add(time.Second)},
		{ID: "s3", UserID: "u6", Text: "rainy commute", CreatedAt: base.Add(2 * time.Second)},
		{ID: "s4", UserID: "u7", Text: "someone else's beach", CreatedAt: base.Add(3 * time.Second)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed %s: %v", seed[i].ID, err)
		}
	}

	out, err := SearchMessages(db, "u6", "beach", 10)
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	// LIKE is case-insensitive for ASCII in SQLite; newest first, scoped to u6.
	if len(out) != 2 || out[0].ID != "s2" || out[1].ID != "s1" {
		t.Fatalf("unexpected results: %+v", out)
	}

	limited, err := SearchMessages(db, "u6", "beach", 1)
	if err != nil {
		t.Fatalf("SearchMessages(limit): %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "s2" {
		t.Fatalf("unexpected limited results: %+v", limited)
	}
}

func TestDeleteMessage(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})

	m, err := CreateMessage(db, "u8", "to be removed", nil, nil)
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	if err := DeleteMessage(db, m.ID, "other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := DeleteMessage(db, m.ID, "u8"); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	if _, err := GetMessage(db, m.ID, "u8"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

// sanity: the repository funcs accept a *gorm.DB that may have context/tx set;
// ensure they work with a context-scoped DB too
func TestRepoWithContextHandles(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})
	tdb := db.WithContext(context.Background())

	if _, err := CreateMessage(tdb, "uX", "hello", nil, nil); err != nil {
		t.Fatalf("CreateMessage with context: %v", err)
	}
	if _, err := CountMessages(tdb, "uX"); err != nil {
		t.Fatalf("CountMessages with context: %v", err)
	}
	if _, err := ListMessagesPage(tdb, "uX", 0, 1); err != nil {
		t.Fatalf("ListMessagesPage with context: %v", err)
	}
	if _, err := SearchMessages(tdb, "uX", "hello", 5); err != nil {
		t.Fatalf("SearchMessages with context: %v", err)
	}
}
