package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/metrics"
	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	dailySubmissionQuota = 5
	feedbackRetryBackoff = 500 * time.Millisecond
	feedbackMaxRetries   = 1
)

// fallbackFeedback is returned when both scoring attempts fail; submissions
// are never left unscored.
var fallbackFeedback = FeedbackResult{
	Score:             7,
	Strengths:         []string{"Clear effort and relevant direction."},
	Improvements:      []string{"Add more structure and make the output more actionable."},
	SuggestedRevision: "Try rewriting your answer with clear steps and specific examples.",
	NextChallengeTip:  "Focus on making your output easier to apply.",
	Model:             "fallback",
}

// FeedbackService scores submissions and keeps rolling stats current.
type FeedbackService interface {
	SubmitForFeedback(ctx context.Context, userID uint, req dto.SubmitFeedbackDTO) (*dto.SubmissionFeedbackResponse, error)
	ReconcileMissingFeedback(ctx context.Context) (*dto.ReconcileResponseDTO, error)
}

type feedbackService struct {
	challengeRepo  repository.ChallengeRepository
	submissionRepo repository.SubmissionRepository
	feedbackRepo   repository.FeedbackRepository
	progress       ProgressService
	llm            LLMService
	aiEnabled      bool
	now            func() time.Time
}

func NewFeedbackService(
	challengeRepo repository.ChallengeRepository,
	submissionRepo repository.SubmissionRepository,
	feedbackRepo repository.FeedbackRepository,
	progress ProgressService,
	llm LLMService,
	aiEnabled bool,
) FeedbackService {
	return &feedbackService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		feedbackRepo:   feedbackRepo,
		progress:       progress,
		llm:            llm,
		aiEnabled:      aiEnabled,
		now:            time.Now,
	}
}

// SubmitForFeedback runs the pipeline in strict order: preconditions,
// submission insert, scoring with retry and fallback, feedback insert, then a
// best-effort progress upsert. The submission insert comes before any AI call
// so a row that cannot be saved never costs a scoring request.
func (s *feedbackService) SubmitForFeedback(ctx context.Context, userID uint, req dto.SubmitFeedbackDTO) (*dto.SubmissionFeedbackResponse, error) {
	if !s.aiEnabled {
		return nil, ErrAIDisabled
	}

	text := strings.TrimSpace(req.SubmissionText)
	if text == "" {
		return nil, ErrEmptySubmission
	}

	challenge, err := s.challengeRepo.FindPublishedByID(req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("error fetching challenge %d: %w", req.ChallengeID, err)
	}

	// Idempotent read: a repeat submission returns the original row and its
	// feedback instead of erroring.
	existing, err := s.submissionRepo.FindByUserAndChallenge(userID, req.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing submission: %w", err)
	}
	if existing != nil {
		feedback, err := s.feedbackRepo.FindBySubmissionID(existing.ID)
		if err != nil {
			return nil, fmt.Errorf("error fetching existing feedback: %w", err)
		}
		resp := buildSubmissionFeedbackResponse(existing, feedback)
		resp.Message = "You have already submitted this challenge"
		return resp, nil
	}

	// Daily quota over the caller's UTC calendar day.
	dayStart := dateOf(s.now())
	count, err := s.submissionRepo.CountForUserBetween(userID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("error counting submissions: %w", err)
	}
	if count >= dailySubmissionQuota {
		metrics.SubmissionsRejected.Inc()
		return nil, ErrRateLimited
	}

	submission := model.Submission{
		UserID:         userID,
		ChallengeID:    req.ChallengeID,
		SubmissionText: text,
	}
	if err := s.submissionRepo.Create(&submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	result := s.generateWithRetry(ctx, challenge, text)

	feedback := model.Feedback{
		SubmissionID:      submission.ID,
		UserID:            userID,
		Score:             result.Score,
		Strengths:         model.StringList(result.Strengths),
		Improvements:      model.StringList(result.Improvements),
		SuggestedRevision: result.SuggestedRevision,
		NextChallengeTip:  result.NextChallengeTip,
		Model:             result.Model,
	}
	if err := s.feedbackRepo.Create(&feedback); err != nil {
		log.Error().Err(err).Uint("submissionID", submission.ID).Msg("Feedback insert error")
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	// Trailing update is best-effort: a failure here is logged, never rolled
	// back against the already-saved submission and feedback.
	if err := s.progress.RecordCompletion(userID, result.Score, s.now()); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Progress update failed after feedback insert")
	}

	return buildSubmissionFeedbackResponse(&submission, &feedback), nil
}

// generateWithRetry attempts scoring, retries once after a short backoff, and
// falls back to the static feedback object when both attempts fail.
func (s *feedbackService) generateWithRetry(ctx context.Context, challenge *model.Challenge, text string) FeedbackResult {
	fc := FeedbackContext{
		Title:           challenge.Title,
		Difficulty:      challenge.Difficulty,
		Track:           challenge.Track.Title,
		Scenario:        challenge.Scenario,
		Instructions:    challenge.Instructions,
		SuccessCriteria: challenge.SuccessCriteria,
	}
	if fc.Track == "" {
		fc.Track = "General"
	}

	for attempt := 0; attempt <= feedbackMaxRetries; attempt++ {
		result, err := s.llm.GenerateFeedback(ctx, fc, text)
		if err == nil {
			return *result
		}
		log.Error().Err(err).Int("attempt", attempt+1).Uint("challengeID", challenge.ID).
			Msg("AI feedback attempt failed")
		if attempt < feedbackMaxRetries {
			time.Sleep(feedbackRetryBackoff)
		}
	}

	metrics.FeedbackFallbacks.Inc()
	log.Warn().Uint("challengeID", challenge.ID).Msg("All AI feedback attempts failed, using fallback")
	return fallbackFeedback
}

// ReconcileMissingFeedback sweeps submissions that were saved but never
// scored (a crash between pipeline steps) and fills in their feedback rows.
func (s *feedbackService) ReconcileMissingFeedback(ctx context.Context) (*dto.ReconcileResponseDTO, error) {
	orphans, err := s.submissionRepo.FindMissingFeedback()
	if err != nil {
		return nil, fmt.Errorf("error finding submissions without feedback: %w", err)
	}

	resp := &dto.ReconcileResponseDTO{}
	for i := range orphans {
		sub := &orphans[i]
		result := s.generateWithRetry(ctx, &sub.Challenge, sub.SubmissionText)

		feedback := model.Feedback{
			SubmissionID:      sub.ID,
			UserID:            sub.UserID,
			Score:             result.Score,
			Strengths:         model.StringList(result.Strengths),
			Improvements:      model.StringList(result.Improvements),
			SuggestedRevision: result.SuggestedRevision,
			NextChallengeTip:  result.NextChallengeTip,
			Model:             result.Model,
		}
		if err := s.feedbackRepo.Create(&feedback); err != nil {
			log.Error().Err(err).Uint("submissionID", sub.ID).Msg("Reconcile: feedback insert failed")
			resp.Failed++
			continue
		}
		if err := s.progress.RecordCompletion(sub.UserID, result.Score, s.now()); err != nil {
			log.Error().Err(err).Uint("userID", sub.UserID).Msg("Reconcile: progress update failed")
		}
		resp.Repaired++
	}

	log.Info().Int("repaired", resp.Repaired).Int("failed", resp.Failed).Msg("Feedback reconciliation completed")
	return resp, nil
}

func buildSubmissionFeedbackResponse(submission *model.Submission, feedback *model.Feedback) *dto.SubmissionFeedbackResponse {
	resp := &dto.SubmissionFeedbackResponse{}

	var subDTO dto.SubmissionResponse
	copier.Copy(&subDTO, submission)
	resp.Submission = &subDTO

	if feedback != nil {
		var fbDTO dto.FeedbackResponse
		copier.Copy(&fbDTO, feedback)
		fbDTO.Strengths = feedback.Strengths
		fbDTO.Improvements = feedback.Improvements
		resp.Feedback = &fbDTO
	}
	return resp
}
