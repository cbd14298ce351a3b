package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/middleware"
	"github.com/cortexamp/api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ChallengeController struct {
	challengeService service.ChallengeService
	feedbackService  service.FeedbackService
	progressService  service.ProgressService
}

func NewChallengeController(
	challengeService service.ChallengeService,
	feedbackService service.FeedbackService,
	progressService service.ProgressService,
) *ChallengeController {
	return &ChallengeController{
		challengeService: challengeService,
		feedbackService:  feedbackService,
		progressService:  progressService,
	}
}

// GetTodayChallenge godoc
// @Summary Today's challenge
// @Description Returns the published challenge for the current UTC date matching the caller's skill level and the requested track, with skill-level guidance.
// @Tags Challenges
// @Produce json
// @Security BearerAuth
// @Param track_id query int true "Track ID"
// @Success 200 {object} dto.ChallengeDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid track_id"
// @Failure 404 {object} dto.ErrorResponse "No challenge scheduled"
// @Router /challenges/today [get]
func (c *ChallengeController) GetTodayChallenge(ctx *gin.Context) {
	trackID, err := strconv.ParseUint(ctx.Query("track_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid track_id format"})
		return
	}

	resp, err := c.challengeService.GetTodayChallenge(middleware.UserID(ctx), uint(trackID))
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No challenge scheduled for today"})
			return
		}
		log.Error().Err(err).Msg("GetTodayChallenge: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load today's challenge"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetChallenge godoc
// @Summary Get a challenge by ID
// @Description Returns one published challenge with guidance for the caller's skill level.
// @Tags Challenges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} dto.ChallengeDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Router /challenges/{id} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid challenge ID format"})
		return
	}

	resp, err := c.challengeService.GetChallengeDetail(middleware.UserID(ctx), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Challenge not found"})
			return
		}
		log.Error().Err(err).Uint64("id", id).Msg("GetChallenge: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load challenge"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitFeedback godoc
// @Summary Submit an answer for feedback
// @Description Submits a free-text answer to a published challenge and returns the rubric feedback. Re-submitting the same challenge returns the original result.
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitFeedbackDTO true "Challenge ID and submission text"
// @Success 201 {object} dto.SubmissionFeedbackResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found or unpublished"
// @Failure 429 {object} dto.ErrorResponse "Daily submission limit reached"
// @Failure 503 {object} dto.ErrorResponse "AI feedback disabled"
// @Router /feedback [post]
func (c *ChallengeController) SubmitFeedback(ctx *gin.Context) {
	var req dto.SubmitFeedbackDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.feedbackService.SubmitForFeedback(ctx.Request.Context(), middleware.UserID(ctx), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAIDisabled):
			ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrEmptySubmission):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrChallengeNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Challenge not found"})
		case errors.Is(err, service.ErrRateLimited):
			ctx.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint("challengeID", req.ChallengeID).Msg("SubmitFeedback: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to process submission"})
		}
		return
	}

	status := http.StatusCreated
	if resp.Message != "" {
		status = http.StatusOK
	}
	ctx.JSON(status, resp)
}

// GetHistory godoc
// @Summary Submission history
// @Description Lists the caller's submissions newest first, each with its challenge and feedback.
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.HistoryItemResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history [get]
func (c *ChallengeController) GetHistory(ctx *gin.Context) {
	items, err := c.challengeService.GetHistory(middleware.UserID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("GetHistory: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load history"})
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// GetProgress godoc
// @Summary Progress stats
// @Description Returns the caller's completion count, streaks, and average score.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProgressResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress [get]
func (c *ChallengeController) GetProgress(ctx *gin.Context) {
	resp, err := c.progressService.GetProgress(middleware.UserID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("GetProgress: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load progress"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListTracks godoc
// @Summary Active tracks
// @Description Lists the active tracks in display order.
// @Tags Challenges
// @Produce json
// @Success 200 {array} dto.TrackResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tracks [get]
func (c *ChallengeController) ListTracks(ctx *gin.Context) {
	tracks, err := c.challengeService.ListActiveTracks()
	if err != nil {
		log.Error().Err(err).Msg("ListTracks: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load tracks"})
		return
	}
	ctx.JSON(http.StatusOK, tracks)
}
