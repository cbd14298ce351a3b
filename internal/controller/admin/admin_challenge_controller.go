package admin

import (
	"errors"
	"net/http"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AdminChallengeController struct {
	reviewService   service.ReviewService
	feedbackService service.FeedbackService
}

func NewAdminChallengeController(reviewService service.ReviewService, feedbackService service.FeedbackService) *AdminChallengeController {
	return &AdminChallengeController{
		reviewService:   reviewService,
		feedbackService: feedbackService,
	}
}

// GenerateChallenges godoc
// @Summary (Admin) Generate candidate challenges
// @Description Generates a batch of challenge candidates for a track and difficulty. Each candidate is annotated with a fingerprint and a similarity status; nothing is persisted.
// @Tags Admin - Challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateChallengesDTO true "Track, difficulty, and batch size (1-10)"
// @Success 200 {object} dto.GenerateChallengesResponseDTO "Annotated candidates"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Track not found"
// @Failure 500 {object} dto.ErrorResponse "Generation failed"
// @Router /admin/challenges/generate [post]
func (c *AdminChallengeController) GenerateChallenges(ctx *gin.Context) {
	var req dto.GenerateChallengesDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin GenerateChallenges: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.reviewService.Generate(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrackNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Track not found"})
		case errors.Is(err, service.ErrGenerationFailed):
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Challenge generation failed", Details: []string{err.Error()}})
		default:
			log.Error().Err(err).Msg("Admin GenerateChallenges: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate challenges"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SaveChallenge godoc
// @Summary (Admin) Save a reviewed challenge
// @Description Persists one reviewed candidate as a draft or publishes it for a day. Publishing requires a date and is blocked for candidates labeled duplicate.
// @Tags Admin - Challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveChallengeDTO true "Candidate and publish flag"
// @Success 201 {object} dto.SaveChallengeResponseDTO "Challenge saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid body or publish without date"
// @Failure 409 {object} dto.ErrorResponse "Duplicate challenge"
// @Router /admin/challenges [post]
func (c *AdminChallengeController) SaveChallenge(ctx *gin.Context) {
	var req dto.SaveChallengeDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin SaveChallenge: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.reviewService.Save(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPublishDateRequired):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrDuplicateBlocked):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrDuplicateChallenge):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrPermissionDenied):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Msg("Admin SaveChallenge: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save challenge"})
		}
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListChallenges godoc
// @Summary (Admin) List all challenges
// @Description Lists every stored challenge, drafts included, newest first.
// @Tags Admin - Challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ChallengeResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/challenges [get]
func (c *AdminChallengeController) ListChallenges(ctx *gin.Context) {
	challenges, err := c.reviewService.ListChallenges()
	if err != nil {
		log.Error().Err(err).Msg("Admin ListChallenges: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve challenges"})
		return
	}
	ctx.JSON(http.StatusOK, challenges)
}

// ReconcileFeedback godoc
// @Summary (Admin) Backfill missing feedback
// @Description Finds submissions that were saved without a feedback row and scores them now. Returns counts of repaired and failed rows.
// @Tags Admin - Challenges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ReconcileResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/feedback/reconcile [post]
func (c *AdminChallengeController) ReconcileFeedback(ctx *gin.Context) {
	resp, err := c.feedbackService.ReconcileMissingFeedback(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Admin ReconcileFeedback: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to reconcile feedback"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateTrack godoc
// @Summary (Admin) Create a track
// @Description Adds a new curation track.
// @Tags Admin - Tracks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TrackCreateDTO true "Track data"
// @Success 201 {object} dto.TrackResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Slug already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tracks [post]
func (c *AdminChallengeController) CreateTrack(ctx *gin.Context) {
	var req dto.TrackCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.reviewService.CreateTrack(req)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Str("slug", req.Slug).Msg("Admin CreateTrack: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create track"})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListTracks godoc
// @Summary (Admin) List all tracks
// @Description Lists every track, inactive ones included.
// @Tags Admin - Tracks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TrackResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tracks [get]
func (c *AdminChallengeController) ListTracks(ctx *gin.Context) {
	tracks, err := c.reviewService.ListTracks()
	if err != nil {
		log.Error().Err(err).Msg("Admin ListTracks: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve tracks"})
		return
	}
	ctx.JSON(http.StatusOK, tracks)
}
