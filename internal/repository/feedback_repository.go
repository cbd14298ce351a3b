package repository

import (
	"errors"

	"github.com/cortexamp/api/internal/model"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(feedback *model.Feedback) error
	FindBySubmissionID(submissionID uint) (*model.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(feedback *model.Feedback) error {
	return r.db.Create(feedback).Error
}

// FindBySubmissionID returns (nil, nil) when the submission has no feedback.
func (r *feedbackRepository) FindBySubmissionID(submissionID uint) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.Where("submission_id = ?", submissionID).First(&feedback).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}
