// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/emotion"
)

// CreateMessage inserts a new journal entry, with or without an analysis.
func CreateMessage(db *gorm.DB, userID, text string, languages []string, analysis *emotion.Analysis) (*domain.Message, error) {
	m := &domain.Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Languages: languages,
		Analysis:  analysis,
		CreatedAt: time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// GetMessage fetches a message by ID scoped to its owner.
func GetMessage(db *gorm.DB, id, userID string) (*domain.Message, error) {
	var m domain.Message
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages WHERE user_id = ? AND deleted_at IS NULL", userID).Scan(&total).Error
	return total, err
}

// ListMessagesPage returns a paginated slice of a user's messages, newest
// first (CreatedAt DESC, ID DESC for a deterministic tiebreak).
func ListMessagesPage(db *gorm.DB, userID string, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateMessageAnalysis replaces the stored analysis of a message owned by
// userID. Returns ErrNotFound when no row matches.
func UpdateMessageAnalysis(db *gorm.DB, id, userID string, analysis *emotion.Analysis) error {
	res := db.Model(&domain.Message{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("analysis", analysis)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchMessages returns a user's messages whose text contains the query
// (case-insensitive), newest first, capped at limit.
func SearchMessages(db *gorm.DB, userID, query string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.
		Where("user_id = ? AND text LIKE ?", userID, "%"+query+"%").
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// DeleteMessage soft-deletes a message owned by userID. Returns ErrNotFound
// when no row matches.
func DeleteMessage(db *gorm.DB, id, userID string) error {
	res := db.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
