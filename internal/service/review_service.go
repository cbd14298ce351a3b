package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/fingerprint"
	"github.com/cortexamp/api/internal/metrics"
	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// similarityCandidateCap bounds the comparison set sent to the similarity
// judge; the newest goals are the most likely collisions.
const similarityCandidateCap = 100

// ReviewService turns raw generator output into reviewable, annotated
// candidates and persists operator decisions.
type ReviewService interface {
	Generate(ctx context.Context, req dto.GenerateChallengesDTO) (*dto.GenerateChallengesResponseDTO, error)
	Save(ctx context.Context, req dto.SaveChallengeDTO) (*dto.SaveChallengeResponseDTO, error)
	ListChallenges() ([]dto.ChallengeResponse, error)
	CreateTrack(req dto.TrackCreateDTO) (*dto.TrackResponse, error)
	ListTracks() ([]dto.TrackResponse, error)
}

type reviewService struct {
	trackRepo     repository.TrackRepository
	challengeRepo repository.ChallengeRepository
	llm           LLMService
}

func NewReviewService(
	trackRepo repository.TrackRepository,
	challengeRepo repository.ChallengeRepository,
	llm LLMService,
) ReviewService {
	return &reviewService{
		trackRepo:     trackRepo,
		challengeRepo: challengeRepo,
		llm:           llm,
	}
}

// Generate runs the two-layer dedup pipeline per candidate: fingerprint,
// exact lookup, then the semantic judge for non-exact matches. Nothing is
// persisted; the annotated batch goes back to the operator for review.
func (s *reviewService) Generate(ctx context.Context, req dto.GenerateChallengesDTO) (*dto.GenerateChallengesResponseDTO, error) {
	track, err := s.trackRepo.FindByID(req.TrackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("error fetching track %d: %w", req.TrackID, err)
	}

	generated, err := s.llm.GenerateChallenges(ctx, track.Title, req.Difficulty, req.Count)
	if err != nil {
		log.Error().Err(err).Uint("trackID", req.TrackID).Msg("Generate: generator failure")
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, err.Error())
	}

	existingGoals, err := s.challengeRepo.AllCanonicalGoals()
	if err != nil {
		return nil, fmt.Errorf("error fetching existing canonical goals: %w", err)
	}
	if len(existingGoals) > similarityCandidateCap {
		existingGoals = existingGoals[len(existingGoals)-similarityCandidateCap:]
	}

	candidates := make([]dto.CandidateDTO, 0, len(generated))
	for _, g := range generated {
		fp := fingerprint.Fingerprint(g.CanonicalGoal)

		var status string
		exists, err := s.challengeRepo.ExistsByFingerprint(fp)
		if err != nil {
			return nil, fmt.Errorf("error checking fingerprint: %w", err)
		}
		if exists {
			status = model.SimilarityDuplicate
			metrics.DuplicateCandidates.Inc()
		} else {
			status = s.llm.JudgeSimilarity(ctx, g.CanonicalGoal, existingGoals)
		}

		candidates = append(candidates, dto.CandidateDTO{
			TrackID:          req.TrackID,
			Difficulty:       req.Difficulty,
			Title:            g.Title,
			Scenario:         g.Scenario,
			Instructions:     g.Instructions,
			SuccessCriteria:  g.SuccessCriteria,
			CanonicalGoal:    g.CanonicalGoal,
			Fingerprint:      fp,
			SimilarityStatus: status,
			GeneratedByAI:    true,
			ReviewedByHuman:  false,
			IsPublished:      false,
		})
	}

	log.Info().Int("count", len(candidates)).Str("track", track.Title).Str("difficulty", req.Difficulty).
		Msg("Generated challenge candidates")
	return &dto.GenerateChallengesResponseDTO{Challenges: candidates, Track: track.Title}, nil
}

// Save persists one reviewed candidate. The human saving it is the reviewer,
// so reviewed_by_human is always forced true. Publish requires a date, and a
// duplicate-labeled candidate is blocked from any non-draft save.
func (s *reviewService) Save(ctx context.Context, req dto.SaveChallengeDTO) (*dto.SaveChallengeResponseDTO, error) {
	c := req.Challenge

	var dayDate *time.Time
	if c.DayDate != nil && *c.DayDate != "" {
		parsed, err := time.Parse("2006-01-02", *c.DayDate)
		if err != nil {
			return nil, fmt.Errorf("invalid day_date %q: %w", *c.DayDate, err)
		}
		dayDate = &parsed
	}

	if req.Publish {
		if dayDate == nil {
			return nil, ErrPublishDateRequired
		}
		if c.SimilarityStatus == model.SimilarityDuplicate {
			return nil, ErrDuplicateBlocked
		}
	}

	fp := c.Fingerprint
	if fp == "" {
		fp = fingerprint.Fingerprint(c.CanonicalGoal)
	}

	challenge := model.Challenge{
		TrackID:         c.TrackID,
		Difficulty:      c.Difficulty,
		Title:           c.Title,
		Scenario:        c.Scenario,
		Instructions:    c.Instructions,
		SuccessCriteria: c.SuccessCriteria,
		CanonicalGoal:   c.CanonicalGoal,
		Fingerprint:     fp,
		GeneratedByAI:   c.GeneratedByAI,
		ReviewedByHuman: true,
		IsPublished:     req.Publish,
		DayDate:         dayDate,
	}

	if err := s.challengeRepo.Create(&challenge); err != nil {
		return nil, translateSaveError(err)
	}

	message := "Challenge saved as draft"
	if req.Publish {
		message = "Challenge published successfully"
	}

	var resp dto.ChallengeResponse
	if err := copier.Copy(&resp, &challenge); err != nil {
		log.Error().Err(err).Msg("Save: failed to copy challenge model to response DTO")
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}

	log.Info().Uint("challengeID", challenge.ID).Bool("published", req.Publish).Msg("Challenge saved")
	return &dto.SaveChallengeResponseDTO{Success: true, Challenge: &resp, Message: message}, nil
}

// translateSaveError maps store-level constraint violations to the distinct
// conflict classes the save endpoint reports: 23505 on the fingerprint unique
// index and 23514 on the published-needs-date check.
func translateSaveError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateChallenge
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateChallenge
		case "23502", "23514":
			return ErrPublishDateRequired
		case "42501":
			return ErrPermissionDenied
		}
	}
	log.Error().Err(err).Msg("Challenge save error")
	return fmt.Errorf("database error saving challenge: %w", err)
}

// CreateTrack adds a curation track. New tracks are active unless the request
// says otherwise.
func (s *reviewService) CreateTrack(req dto.TrackCreateDTO) (*dto.TrackResponse, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	track := model.Track{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    isActive,
	}
	if err := s.trackRepo.Create(&track); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %q", ErrSlugTaken, req.Slug)
		}
		return nil, fmt.Errorf("error creating track: %w", err)
	}

	var resp dto.TrackResponse
	copier.Copy(&resp, &track)
	log.Info().Uint("trackID", track.ID).Str("slug", track.Slug).Msg("Track created")
	return &resp, nil
}

func (s *reviewService) ListTracks() ([]dto.TrackResponse, error) {
	tracks, err := s.trackRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching tracks: %w", err)
	}
	out := make([]dto.TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		var resp dto.TrackResponse
		copier.Copy(&resp, &t)
		out = append(out, resp)
	}
	return out, nil
}

func (s *reviewService) ListChallenges() ([]dto.ChallengeResponse, error) {
	challenges, err := s.challengeRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching challenges: %w", err)
	}

	out := make([]dto.ChallengeResponse, 0, len(challenges))
	for _, c := range challenges {
		var resp dto.ChallengeResponse
		if err := copier.Copy(&resp, &c); err != nil {
			log.Error().Err(err).Uint("challengeID", c.ID).Msg("ListChallenges: copy error")
			continue
		}
		resp.TrackTitle = c.Track.Title
		out = append(out, resp)
	}
	return out, nil
}
