// Recommendation HTTP handlers.
//
// This file exposes REST endpoints for Spotify-backed music recommendations:
//   - GET /recommendations/mix        (quick mood mix for an emotion)
//   - GET /recommendations/tracks     (scored tracks for an emotion)
//   - GET /recommendations/playlists  (scored playlists for an emotion)
//   - GET /messages/{id}/recommendations/tracks
//   - GET /messages/{id}/recommendations/playlists
//
// A backend without Spotify credentials degrades gracefully: emotion-based
// endpoints answer 200 with an empty, unsuccessful payload instead of
// failing, so clients can render the journal without music.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moodtunes/go-mood-backend/internal/music"
	"github.com/moodtunes/go-mood-backend/internal/services"
	"github.com/moodtunes/go-mood-backend/internal/utils"
)

// DegradedRecommendationResponse is returned when the music integration is
// not configured. Success is always false.
type DegradedRecommendationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

//
// Helpers
//

// recParams pulls the shared emotion/accuracy/limit query parameters.
// Accuracy defaults to 0.5 when absent or malformed.
func recParams(c *gin.Context) (emotion string, accuracy float64, limit int) {
	emotion = strings.TrimSpace(c.Query("emotion"))
	accuracy = 0.5
	if raw := c.Query("accuracy"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			accuracy = v
		}
	}
	limit = utils.AtoiDefault(c.Query("limit"), 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	return
}

// failRecommendation translates recommendation errors into responses. The
// unconfigured case is a soft failure by design.
func failRecommendation(c *gin.Context, err error) {
	switch {
	case errors.Is(err, music.ErrNotConfigured):
		ok(c, http.StatusOK, DegradedRecommendationResponse{
			Success: false,
			Error:   "music recommendations unavailable: Spotify is not configured",
		})
	case errors.Is(err, services.ErrMessageNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "message not found")
	case errors.Is(err, services.ErrNotAnalyzed):
		fail(c, http.StatusConflict, ErrCodeConflict, "message has no analysis")
	default:
		fail(c, http.StatusBadGateway, ErrCodeRecommendationFailed, err.Error())
	}
}

//
// Handlers
//

// GetMoodMix godoc
// @ID          getMoodMix
// @Summary     Quick mood mix
// @Description Returns a small set of popular tracks matching an emotion,
// @Description falling back to a broader search when the mood search is empty.
// @Tags        Recommendations
// @Produce     json
//
// @Param       emotion   query  string  true  "Emotion key"              example(happy)
// @Param       accuracy  query  number  false "Analysis accuracy [0,1]"  default(0.5)
// @Param       limit     query  int     false "Maximum tracks"           minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  services.MoodMixResult
// @Failure     400  {object}  handlers.ErrorResponse "Missing emotion"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream failure"
// @Router      /recommendations/mix [get]
func (h *Handlers) GetMoodMix(c *gin.Context) {
	ctx := c.Request.Context()

	emotion, accuracy, limit := recParams(c)
	if emotion == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter emotion required")
		return
	}

	mix, err := h.recSvc.Mix(ctx, emotion, accuracy, limit)
	if err != nil {
		failRecommendation(c, err)
		return
	}
	ok(c, http.StatusOK, mix)
}

// GetTrackRecommendations godoc
// @ID          getTrackRecommendations
// @Summary     Scored track recommendations
// @Description Returns previewable tracks ranked by how well they match the
// @Description emotion and its accuracy band.
// @Tags        Recommendations
// @Produce     json
//
// @Param       emotion   query  string  true  "Emotion key"              example(happy)
// @Param       accuracy  query  number  false "Analysis accuracy [0,1]"  default(0.5)
// @Param       limit     query  int     false "Maximum tracks"           minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  services.TrackRecsResult
// @Failure     400  {object}  handlers.ErrorResponse "Missing emotion"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream failure"
// @Router      /recommendations/tracks [get]
func (h *Handlers) GetTrackRecommendations(c *gin.Context) {
	ctx := c.Request.Context()

	emotion, accuracy, limit := recParams(c)
	if emotion == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter emotion required")
		return
	}

	recs, err := h.recSvc.Tracks(ctx, emotion, accuracy, limit)
	if err != nil {
		failRecommendation(c, err)
		return
	}
	ok(c, http.StatusOK, recs)
}

// GetPlaylistRecommendations godoc
// @ID          getPlaylistRecommendations
// @Summary     Scored playlist recommendations
// @Tags        Recommendations
// @Produce     json
//
// @Param       emotion   query  string  true  "Emotion key"              example(happy)
// @Param       accuracy  query  number  false "Analysis accuracy [0,1]"  default(0.5)
// @Param       limit     query  int     false "Maximum playlists"        minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  services.PlaylistRecsResult
// @Failure     400  {object}  handlers.ErrorResponse "Missing emotion"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream failure"
// @Router      /recommendations/playlists [get]
func (h *Handlers) GetPlaylistRecommendations(c *gin.Context) {
	ctx := c.Request.Context()

	emotion, accuracy, limit := recParams(c)
	if emotion == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter emotion required")
		return
	}

	recs, err := h.recSvc.Playlists(ctx, emotion, accuracy, limit)
	if err != nil {
		failRecommendation(c, err)
		return
	}
	ok(c, http.StatusOK, recs)
}

// GetMessageTrackRecommendations godoc
// @ID          getMessageTrackRecommendations
// @Summary     Track recommendations for a stored message
// @Description Uses the message's primary emotion and overall accuracy.
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-User-ID  header string true  "User ID"           example(user123)
// @Param       id         path   string true  "Message ID (UUID)" format(uuid)
// @Param       limit      query  int    false "Maximum tracks"    minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  services.TrackRecsResult
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Message not found"
// @Failure     409  {object}  handlers.ErrorResponse "Message has no analysis"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream failure"
// @Router      /messages/{id}/recommendations/tracks [get]
func (h *Handlers) GetMessageTrackRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}
	_, _, limit := recParams(c)

	recs, err := h.recSvc.TracksForMessage(ctx, userID(c), id, limit)
	if err != nil {
		failRecommendation(c, err)
		return
	}
	ok(c, http.StatusOK, recs)
}

// GetMessagePlaylistRecommendations godoc
// @ID          getMessagePlaylistRecommendations
// @Summary     Playlist recommendations for a stored message
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-User-ID  header string true  "User ID"           example(user123)
// @Param       id         path   string true  "Message ID (UUID)" format(uuid)
// @Param       limit      query  int    false "Maximum playlists" minimum(1) maximum(50) default(10)
//
// @Success     200  {object}  services.PlaylistRecsResult
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Message not found"
// @Failure     409  {object}  handlers.ErrorResponse "Message has no analysis"
// @Failure     502  {object}  handlers.ErrorResponse "Upstream failure"
// @Router      /messages/{id}/recommendations/playlists [get]
func (h *Handlers) GetMessagePlaylistRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message id must be a UUID")
		return
	}
	_, _, limit := recParams(c)

	recs, err := h.recSvc.PlaylistsForMessage(ctx, userID(c), id, limit)
	if err != nil {
		failRecommendation(c, err)
		return
	}
	ok(c, http.StatusOK, recs)
}
