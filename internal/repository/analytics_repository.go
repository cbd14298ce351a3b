package repository

import (
	"github.com/cortexamp/api/internal/model"
	"gorm.io/gorm"
)

// AnalyticsRepository reads the precomputed SQL views behind the admin
// dashboards. All methods are read-only scans.
type AnalyticsRepository interface {
	EngagementSummary() (*model.EngagementSummary, error)
	DailyActivity(limit int) ([]model.DailyActivity, error)
	TrackAnalytics() ([]model.TrackAnalytics, error)
	DifficultyDistribution() ([]model.DifficultyDistribution, error)
	ChallengePerformance(limit int) ([]model.ChallengePerformance, error)
	ScoreDistribution() ([]model.ScoreBucket, error)
	StreakAnalysis() (*model.StreakAnalysis, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) EngagementSummary() (*model.EngagementSummary, error) {
	var summary model.EngagementSummary
	err := r.db.Table("user_engagement_summary").Take(&summary).Error
	return &summary, err
}

func (r *analyticsRepository) DailyActivity(limit int) ([]model.DailyActivity, error) {
	var rows []model.DailyActivity
	err := r.db.Table("daily_user_activity").Order("date DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TrackAnalytics() ([]model.TrackAnalytics, error) {
	var rows []model.TrackAnalytics
	err := r.db.Table("track_analytics").Find(&rows).Error
	return rows, err
}

func (r *analyticsRepository) DifficultyDistribution() ([]model.DifficultyDistribution, error) {
	var rows []model.DifficultyDistribution
	err := r.db.Table("difficulty_distribution").Find(&rows).Error
	return rows, err
}

func (r *analyticsRepository) ChallengePerformance(limit int) ([]model.ChallengePerformance, error) {
	var rows []model.ChallengePerformance
	err := r.db.Table("challenge_performance").Order("total_attempts DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *analyticsRepository) ScoreDistribution() ([]model.ScoreBucket, error) {
	var rows []model.ScoreBucket
	err := r.db.Table("feedback_score_distribution").Order("score ASC").Find(&rows).Error
	return rows, err
}

func (r *analyticsRepository) StreakAnalysis() (*model.StreakAnalysis, error) {
	var analysis model.StreakAnalysis
	err := r.db.Table("streak_analysis").Take(&analysis).Error
	return &analysis, err
}
