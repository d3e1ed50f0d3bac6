// Handler wiring and shared transport types.
//
// This file defines the service contracts consumed by the HTTP layer, the
// Handlers aggregate that binds them, and small helpers shared by all
// endpoints (caller identity, pagination metadata).
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including conditional
// responses).
package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/emotion"
	"github.com/moodtunes/go-mood-backend/internal/services"
	"github.com/moodtunes/go-mood-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AuthService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Signup registers a new account.
	Signup(ctx context.Context, name, email, password string) (*domain.User, error)
	// Login verifies credentials and returns the account.
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// MessageService defines journal message lifecycle and analysis operations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MessageService interface {
	// Create stores a new message with its emotion analysis.
	Create(ctx context.Context, userID, text string, languages []string) (*domain.Message, error)
	// Get returns one message owned by the user.
	Get(ctx context.Context, userID, id string) (*domain.Message, error)
	// ListPage returns a page of the user's messages and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Message, int64, error)
	// Search returns messages whose text contains the query.
	Search(ctx context.Context, userID, query string, limit int) ([]domain.Message, error)
	// Reanalyze recomputes and stores the analysis for a message.
	Reanalyze(ctx context.Context, userID, id string) (*domain.Message, error)
	// Delete removes a message owned by the user.
	Delete(ctx context.Context, userID, id string) error
	// AnalyzeBatch scores texts without persisting them.
	AnalyzeBatch(ctx context.Context, items []emotion.BatchItem) ([]emotion.BatchResult, error)
}

// RecommendationService defines music recommendation lookups.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecommendationService interface {
	// Mix returns a quick mood mix for an emotion.
	Mix(ctx context.Context, emotion string, accuracy float64, limit int) (*services.MoodMixResult, error)
	// Tracks returns scored track recommendations for an emotion.
	Tracks(ctx context.Context, emotion string, accuracy float64, limit int) (*services.TrackRecsResult, error)
	// Playlists returns scored playlist recommendations for an emotion.
	Playlists(ctx context.Context, emotion string, accuracy float64, limit int) (*services.PlaylistRecsResult, error)
	// TracksForMessage resolves a stored message to track recommendations.
	TracksForMessage(ctx context.Context, userID, messageID string, limit int) (*services.TrackRecsResult, error)
	// PlaylistsForMessage resolves a stored message to playlist recommendations.
	PlaylistsForMessage(ctx context.Context, userID, messageID string, limit int) (*services.PlaylistRecsResult, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for accounts, messages, and recommendations.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	authSvc AuthService
	msgSvc  MessageService
	recSvc  RecommendationService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(authSvc AuthService, msgSvc MessageService, recSvc RecommendationService) *Handlers {
	return &Handlers{authSvc: authSvc, msgSvc: msgSvc, recSvc: recSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// Shared DTOs and helpers
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
