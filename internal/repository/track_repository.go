package repository

import (
	"github.com/cortexamp/api/internal/model"
	"gorm.io/gorm"
)

type TrackRepository interface {
	Create(track *model.Track) error
	FindByID(id uint) (*model.Track, error)
	FindActive() ([]model.Track, error)
	FindAll() ([]model.Track, error)
}

type trackRepository struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &trackRepository{db: db}
}

func (r *trackRepository) Create(track *model.Track) error {
	return r.db.Create(track).Error
}

func (r *trackRepository) FindByID(id uint) (*model.Track, error) {
	var track model.Track
	if err := r.db.First(&track, id).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *trackRepository) FindActive() ([]model.Track, error) {
	var tracks []model.Track
	err := r.db.Where("is_active = ?", true).Order("sort_order ASC").Find(&tracks).Error
	return tracks, err
}

func (r *trackRepository) FindAll() ([]model.Track, error) {
	var tracks []model.Track
	err := r.db.Order("sort_order ASC").Find(&tracks).Error
	return tracks, err
}
