package repository

import (
	"errors"
	"time"

	"github.com/cortexamp/api/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	Create(submission *model.Submission) error
	FindByID(id uint) (*model.Submission, error)
	FindByUserAndChallenge(userID, challengeID uint) (*model.Submission, error)
	CountForUserBetween(userID uint, from, to time.Time) (int64, error)
	FindByUserWithChallenge(userID uint) ([]model.Submission, error)
	FindMissingFeedback() ([]model.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.Submission) error {
	return r.db.Create(submission).Error
}

func (r *submissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByUserAndChallenge returns (nil, nil) when no submission exists, so the
// caller can distinguish "not submitted yet" from a query failure.
func (r *submissionRepository) FindByUserAndChallenge(userID, challengeID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) CountForUserBetween(userID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Submission{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) FindByUserWithChallenge(userID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Preload("Challenge").Preload("Challenge.Track").
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// FindMissingFeedback lists submissions that never received a feedback row,
// the input to the reconcile sweep.
func (r *submissionRepository) FindMissingFeedback() ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Preload("Challenge").Preload("Challenge.Track").
		Where("id NOT IN (?)", r.db.Model(&model.Feedback{}).Select("submission_id")).
		Find(&submissions).Error
	return submissions, err
}
