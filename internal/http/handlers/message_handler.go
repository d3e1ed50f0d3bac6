// Message HTTP handlers.
//
// This file exposes REST endpoints for journal messages:
//   - POST   /messages               (create a message and analyze it)
//   - GET    /messages               (list paginated messages, ETag support)
//   - GET    /messages/search        (full-text lookup within own messages)
//   - GET    /messages/{id}          (fetch one message)
//   - DELETE /messages/{id}          (remove a message)
//   - POST   /messages/{id}/analysis (recompute the stored analysis)
//   - POST   /analysis/batch         (analyze texts without storing them)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (including newline and length constraints)
//   - delegate to application services (MessageService)
//   - implement conditional responses (ETag) and idempotency semantics
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, key), the handler returns that recorded message
// and sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/emotion"
	"github.com/moodtunes/go-mood-backend/internal/repo"
	"github.com/moodtunes/go-mood-backend/internal/services"
	"github.com/moodtunes/go-mood-backend/internal/utils"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for creating a journal message.
//
// Text is normalized by the handler (line endings and excessive blank lines)
// before being passed to the service layer. The service also enforces a
// maximum rune count, which can be configured in MessageService.
type PostMessageRequest struct {
	// Text is the journal entry. It must be non-empty.
	Text string `json:"text" binding:"required,min=1" example:"Had a long walk and feel surprisingly calm and grateful."`
	// Languages optionally names the languages of the text; defaults to English.
	Languages []string `json:"languages" example:"English"`
}

// MessageResponse is the JSON envelope for a single message.
type MessageResponse struct {
	Message *domain.Message `json:"message"`
}

// ListMessagesResponse contains a page of messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// SearchMessagesResponse contains messages matching a text query.
type SearchMessagesResponse struct {
	Messages []domain.Message `json:"messages"`
	Query    string           `json:"query"`
	Count    int              `json:"count"`
}

// BatchAnalyzeRequest is the JSON payload for stateless batch analysis.
type BatchAnalyzeRequest struct {
	// Items lists the texts to analyze. At most 50 per request.
	Items []emotion.BatchItem `json:"items" binding:"required,min=1"`
}

// BatchAnalyzeResponse carries one result per submitted item, in order.
type BatchAnalyzeResponse struct {
	Results []emotion.BatchResult `json:"results"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeText normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// discoverMaxTextRunes inspects the concrete MessageService for a configured
// text-length limit. If unavailable, it returns a conservative fallback.
func discoverMaxTextRunes(msgSvc MessageService) int {
	const fallback = 4000
	if ms, ok := msgSvc.(*services.MessageService); ok {
		if ms.MaxTextRunes > 0 {
			return ms.MaxTextRunes
		}
	}
	return fallback
}

// serviceDB exposes the concrete service's DB handle for transport-level
// concerns (idempotency records, ETag stats). Nil when the handler runs
// against a fake service.
func serviceDB(msgSvc MessageService) *gorm.DB {
	if ms, ok := msgSvc.(*services.MessageService); ok {
		return ms.DB
	}
	return nil
}

//
// Handlers
//

// PostMessage godoc
// @ID          postMessage
// @Summary     Create a journal message
// @Description Stores a journal entry together with its emotion analysis.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "User ID that owns the message"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.PostMessageRequest  true  "Journal entry payload"
//
// @Success     201  {object}  handlers.MessageResponse  "Stored message with analysis"
// @Failure     400  {object}  handlers.ErrorResponse    "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse    "Internal error"
// @Router      /messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	text := sanitizeText(req.Text)
	maxRunes := discoverMaxTextRunes(h.msgSvc)
	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("text too long: max %d runes", maxRunes))
		return
	}
	if text == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middlewareGetIdempotencyKey(c)
	if idemKey != "" {
		if db := serviceDB(h.msgSvc); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMessage(db, rec.MessageID, currentUser); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, MessageResponse{Message: prev})
					return
				}
			}
		}
	}

	// Normal processing (service has a second guard for length).
	m, err := h.msgSvc.Create(ctx, currentUser, text, req.Languages)
	if err != nil {
		switch err {
		case services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("text too long: max %d runes", maxRunes))
		case services.ErrEmptyText:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if db := serviceDB(h.msgSvc); db != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, idemKey, m.ID, http.StatusCreated, ttl)
		}
	}

	ok(c, http.StatusCreated, MessageResponse{Message: m})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List journal messages
// @Description Returns a paginated list of the caller's messages, newest first.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header string  true  "User ID"         example(user123)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	currentUser := userID(c)

	// ETag pre-check (best effort).
	if db := serviceDB(h.msgSvc); db != nil {
		count, maxTS, err := repo.MessagesStats(ctx, db, currentUser)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"messages:%s:%d:%d"`, currentUser, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampPagination(c)

	items, total, err := h.msgSvc.ListPage(ctx, currentUser, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// SearchMessages godoc
// @ID          searchMessages
// @Summary     Search journal messages
// @Description Case-insensitive substring search over the caller's messages,
// @Description newest first.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header string true  "User ID"             example(user123)
// @Param       q          query  string true  "Text to search for"  example(park)
// @Param       limit      query  int    false "Maximum results"     minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.SearchMessagesResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /messages/search [get]
func (h *Handlers) SearchMessages(c *gin.Context) {
	ctx := c.Request.Context()

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q required")
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 20)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	items, err := h.msgSvc.Search(ctx, userID(c), query, limit)
	if err != nil {
		switch err {
		case services.ErrEmptyText:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, SearchMessagesResponse{Messages: items, Query: query, Count: len(items)})
}

// GetMessage godoc
// @ID          getMessage
// @Summary     Fetch one journal message
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header string true "User ID"           example(user123)
// @Param       id         path   string true "Message ID (UUID)" format(uuid)
//
// @Success     200  {object} handlers.MessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Message not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /messages/{id} [get]
func (h *Handlers) GetMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}

	m, err := h.msgSvc.Get(ctx, userID(c), id)
	if err != nil {
		switch err {
		case services.ErrMessageNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: m})
}

// DeleteMessage godoc
// @ID          deleteMessage
// @Summary     Delete a journal message
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header string true "User ID"           example(user123)
// @Param       id         path   string true "Message ID (UUID)" format(uuid)
//
// @Success     204  "Deleted"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Message not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /messages/{id} [delete]
func (h *Handlers) DeleteMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}

	if err := h.msgSvc.Delete(ctx, userID(c), id); err != nil {
		switch err {
		case services.ErrMessageNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

// ReanalyzeMessage godoc
// @ID          reanalyzeMessage
// @Summary     Recompute the analysis for a message
// @Description Runs the current engine over the stored text and replaces the
// @Description persisted analysis.
// @Tags        Analysis
// @Produce     json
//
// @Param       X-User-ID  header string true "User ID"           example(user123)
// @Param       id         path   string true "Message ID (UUID)" format(uuid)
//
// @Success     200  {object} handlers.MessageResponse "Message with fresh analysis"
// @Failure     400  {object} handlers.ErrorResponse   "Bad request"
// @Failure     404  {object} handlers.ErrorResponse   "Message not found"
// @Failure     500  {object} handlers.ErrorResponse   "Analysis failed"
// @Router      /messages/{id}/analysis [post]
func (h *Handlers) ReanalyzeMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}

	m, err := h.msgSvc.Reanalyze(ctx, userID(c), id)
	if err != nil {
		switch err {
		case services.ErrMessageNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: m})
}

// AnalyzeBatch godoc
// @ID          analyzeBatch
// @Summary     Analyze texts in bulk
// @Description Scores up to 50 texts in one call without storing them.
// @Description Failures are reported per item; one bad text never fails the
// @Description whole batch.
// @Tags        Analysis
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.BatchAnalyzeRequest  true  "Texts to analyze"
//
// @Success     200  {object} handlers.BatchAnalyzeResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Analysis failed"
// @Router      /analysis/batch [post]
func (h *Handlers) AnalyzeBatch(c *gin.Context) {
	ctx := c.Request.Context()

	var req BatchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "items required")
		return
	}

	results, err := h.msgSvc.AnalyzeBatch(ctx, req.Items)
	if err != nil {
		switch err {
		case services.ErrEmptyText:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "items required")
		case services.ErrBatchTooLarge:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "too many items in batch")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, BatchAnalyzeResponse{Results: results})
}

// middlewareGetIdempotencyKey extracts an idempotency key if an upstream
// middleware has already validated/stashed it. The fallback behavior reads
// the "Idempotency-Key" header directly when no dedicated middleware exists.
func middlewareGetIdempotencyKey(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}
