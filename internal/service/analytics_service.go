package service

import (
	"fmt"

	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
)

const (
	dailyActivityWindow = 30
	performanceRowLimit = 50
)

// DashboardResponse aggregates every analytics view into the single payload
// the admin dashboard renders.
type DashboardResponse struct {
	Engagement    *model.EngagementSummary       `json:"engagement"`
	DailyActivity []model.DailyActivity          `json:"daily_activity"`
	Tracks        []model.TrackAnalytics         `json:"tracks"`
	Difficulty    []model.DifficultyDistribution `json:"difficulty"`
	Challenges    []model.ChallengePerformance   `json:"challenges"`
	Scores        []model.ScoreBucket            `json:"scores"`
	Streaks       *model.StreakAnalysis          `json:"streaks"`
}

// AnalyticsService reads the dashboard views.
type AnalyticsService interface {
	Dashboard() (*DashboardResponse, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

func (s *analyticsService) Dashboard() (*DashboardResponse, error) {
	engagement, err := s.analyticsRepo.EngagementSummary()
	if err != nil {
		return nil, fmt.Errorf("error reading engagement summary: %w", err)
	}
	daily, err := s.analyticsRepo.DailyActivity(dailyActivityWindow)
	if err != nil {
		return nil, fmt.Errorf("error reading daily activity: %w", err)
	}
	tracks, err := s.analyticsRepo.TrackAnalytics()
	if err != nil {
		return nil, fmt.Errorf("error reading track analytics: %w", err)
	}
	difficulty, err := s.analyticsRepo.DifficultyDistribution()
	if err != nil {
		return nil, fmt.Errorf("error reading difficulty distribution: %w", err)
	}
	challenges, err := s.analyticsRepo.ChallengePerformance(performanceRowLimit)
	if err != nil {
		return nil, fmt.Errorf("error reading challenge performance: %w", err)
	}
	scores, err := s.analyticsRepo.ScoreDistribution()
	if err != nil {
		return nil, fmt.Errorf("error reading score distribution: %w", err)
	}
	streaks, err := s.analyticsRepo.StreakAnalysis()
	if err != nil {
		return nil, fmt.Errorf("error reading streak analysis: %w", err)
	}

	return &DashboardResponse{
		Engagement:    engagement,
		DailyActivity: daily,
		Tracks:        tracks,
		Difficulty:    difficulty,
		Challenges:    challenges,
		Scores:        scores,
		Streaks:       streaks,
	}, nil
}
