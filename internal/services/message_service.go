// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the lifecycle of journal messages. It validates inputs, runs the
// emotion engine over the text, and persists the message together with its
// analysis. Reanalysis recomputes and replaces a stored analysis in place;
// batch analysis is compute-only and never touches the store.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include user identifiers, pagination parameters, and batch sizes where
// applicable.

package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/emotion"
	"github.com/moodtunes/go-mood-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// defaultBatchLimit caps batch analysis requests when MaxBatchItems is unset.
const defaultBatchLimit = 50

// MessageService coordinates journal persistence and emotion analysis.
type MessageService struct {
	DB     *gorm.DB
	Engine *emotion.Engine

	// Optional guards
	MaxTextRunes  int
	MaxBatchItems int
}

// Create validates the text, analyzes it, and persists message plus analysis
// in one step. The analysis is computed before the insert so a stored message
// always carries the scores it was created with.
func (s *MessageService) Create(ctx context.Context, userID, text string, languages []string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if s.MaxTextRunes > 0 && utf8.RuneCountInString(text) > s.MaxTextRunes {
		return nil, ErrTooLong
	}

	analysis, err := s.Engine.Analyze(text, languages)
	if err != nil {
		return nil, err
	}

	var msg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateMessage(tx, userID, text, languages, analysis)
		if err != nil {
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Get returns one message owned by the user.
func (s *MessageService) Get(ctx context.Context, userID, id string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("message.id", id),
		),
	)
	defer span.End()

	m, err := repo.GetMessage(s.DB.WithContext(ctx), id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListPage returns paginated messages for a user, newest first.
func (s *MessageService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountMessages(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	items, err := repo.ListMessagesPage(s.DB.WithContext(ctx), userID, offset, pageSize)
	return items, total, err
}

// Search returns the user's messages whose text contains the query,
// case-insensitively, newest first. An empty query is an error; a zero limit
// falls back to 20.
func (s *MessageService) Search(ctx context.Context, userID, query string, limit int) ([]domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyText
	}
	if limit <= 0 {
		limit = 20
	}
	return repo.SearchMessages(s.DB.WithContext(ctx), userID, query, limit)
}

// Reanalyze recomputes the analysis for a stored message and persists the
// result, returning the updated message.
func (s *MessageService) Reanalyze(ctx context.Context, userID, id string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Reanalyze",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("message.id", id),
		),
	)
	defer span.End()

	m, err := repo.GetMessage(s.DB.WithContext(ctx), id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	analysis, err := s.Engine.Analyze(m.Text, m.Languages)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateMessageAnalysis(s.DB.WithContext(ctx), id, userID, analysis); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	m.Analysis = analysis
	return m, nil
}

// Delete soft-deletes a message owned by the user.
func (s *MessageService) Delete(ctx context.Context, userID, id string) error {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("message.id", id),
		),
	)
	defer span.End()

	err := repo.DeleteMessage(s.DB.WithContext(ctx), id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrMessageNotFound
	}
	return err
}

// AnalyzeBatch scores a set of texts without persisting anything. Failures
// are isolated per item; the call itself fails only on an empty or oversized
// batch.
func (s *MessageService) AnalyzeBatch(ctx context.Context, items []emotion.BatchItem) ([]emotion.BatchResult, error) {
	tr := otel.Tracer("services/MessageService")
	_, span := tr.Start(ctx, "AnalyzeBatch",
		trace.WithAttributes(attribute.Int("batch.size", len(items))),
	)
	defer span.End()

	if len(items) == 0 {
		return nil, ErrEmptyText
	}
	max := s.MaxBatchItems
	if max <= 0 {
		max = defaultBatchLimit
	}
	if len(items) > max {
		return nil, ErrBatchTooLarge
	}
	return s.Engine.AnalyzeBatch(items), nil
}
