package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/guidance"
	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ChallengeService serves the learner-facing challenge surface: today's
// challenge, detail with guidance, submission history, and the track catalog.
type ChallengeService interface {
	GetTodayChallenge(userID uint, trackID uint) (*dto.ChallengeDetailResponse, error)
	GetChallengeDetail(userID uint, challengeID uint) (*dto.ChallengeDetailResponse, error)
	GetHistory(userID uint) ([]dto.HistoryItemResponse, error)
	ListActiveTracks() ([]dto.TrackResponse, error)
}

type challengeService struct {
	challengeRepo  repository.ChallengeRepository
	submissionRepo repository.SubmissionRepository
	feedbackRepo   repository.FeedbackRepository
	profileRepo    repository.ProfileRepository
	trackRepo      repository.TrackRepository
	now            func() time.Time
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	submissionRepo repository.SubmissionRepository,
	feedbackRepo repository.FeedbackRepository,
	profileRepo repository.ProfileRepository,
	trackRepo repository.TrackRepository,
) ChallengeService {
	return &challengeService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		feedbackRepo:   feedbackRepo,
		profileRepo:    profileRepo,
		trackRepo:      trackRepo,
		now:            time.Now,
	}
}

// GetTodayChallenge resolves the published challenge for the current UTC date
// matching the user's skill level and the requested track. Guidance is framed
// by the same skill level the lookup uses.
func (s *challengeService) GetTodayChallenge(userID uint, trackID uint) (*dto.ChallengeDetailResponse, error) {
	level, err := s.skillLevelFor(userID)
	if err != nil {
		return nil, err
	}

	today := dateOf(s.now())
	challenge, err := s.challengeRepo.FindPublishedByDay(today, level, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("error fetching today's challenge: %w", err)
	}

	return buildChallengeDetail(challenge, level)
}

// GetChallengeDetail returns one published challenge with guidance for the
// caller's skill level. Drafts and unpublished rows stay invisible here.
func (s *challengeService) GetChallengeDetail(userID uint, challengeID uint) (*dto.ChallengeDetailResponse, error) {
	level, err := s.skillLevelFor(userID)
	if err != nil {
		return nil, err
	}

	challenge, err := s.challengeRepo.FindPublishedByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("error fetching challenge %d: %w", challengeID, err)
	}

	return buildChallengeDetail(challenge, level)
}

// GetHistory lists the user's submissions newest first, each joined with its
// challenge and feedback when present.
func (s *challengeService) GetHistory(userID uint) ([]dto.HistoryItemResponse, error) {
	submissions, err := s.submissionRepo.FindByUserWithChallenge(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching submission history: %w", err)
	}

	items := make([]dto.HistoryItemResponse, 0, len(submissions))
	for i := range submissions {
		sub := &submissions[i]

		var item dto.HistoryItemResponse
		copier.Copy(&item.Submission, sub)
		copier.Copy(&item.Challenge, &sub.Challenge)
		item.Challenge.TrackTitle = sub.Challenge.Track.Title

		feedback, err := s.feedbackRepo.FindBySubmissionID(sub.ID)
		if err != nil {
			return nil, fmt.Errorf("error fetching feedback for submission %d: %w", sub.ID, err)
		}
		if feedback != nil {
			var fbDTO dto.FeedbackResponse
			copier.Copy(&fbDTO, feedback)
			fbDTO.Strengths = feedback.Strengths
			fbDTO.Improvements = feedback.Improvements
			item.Feedback = &fbDTO
		}

		items = append(items, item)
	}
	return items, nil
}

func (s *challengeService) ListActiveTracks() ([]dto.TrackResponse, error) {
	tracks, err := s.trackRepo.FindActive()
	if err != nil {
		return nil, fmt.Errorf("error fetching tracks: %w", err)
	}

	out := make([]dto.TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		var resp dto.TrackResponse
		if err := copier.Copy(&resp, &t); err != nil {
			log.Error().Err(err).Uint("trackID", t.ID).Msg("ListActiveTracks: copy error")
			continue
		}
		out = append(out, resp)
	}
	return out, nil
}

// skillLevelFor loads the user's skill level, defaulting to beginner for a
// missing or blank profile value.
func (s *challengeService) skillLevelFor(userID uint) (string, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return guidance.SkillBeginner, nil
		}
		return "", fmt.Errorf("error fetching profile %d: %w", userID, err)
	}
	if profile.SkillLevel == "" {
		return guidance.SkillBeginner, nil
	}
	return profile.SkillLevel, nil
}

func buildChallengeDetail(challenge *model.Challenge, level string) (*dto.ChallengeDetailResponse, error) {
	var resp dto.ChallengeDetailResponse
	if err := copier.Copy(&resp.Challenge, challenge); err != nil {
		return nil, fmt.Errorf("error preparing challenge response: %w", err)
	}
	resp.Challenge.TrackTitle = challenge.Track.Title
	resp.Guidance = dto.GuidanceResponse{
		Framing:   guidance.Framing(level),
		Approach:  guidance.Approach(level),
		StuckHint: guidance.StuckHint,
	}
	return &resp, nil
}
