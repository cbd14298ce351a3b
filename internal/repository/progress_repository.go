package repository

import (
	"errors"

	"github.com/cortexamp/api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	FindByUserID(userID uint) (*model.UserProgress, error)
	Upsert(progress *model.UserProgress) error
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// FindByUserID returns (nil, nil) for users with no progress row yet.
func (r *progressRepository) FindByUserID(userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.db.Where("user_id = ?", userID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) Upsert(progress *model.UserProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(progress).Error
}
