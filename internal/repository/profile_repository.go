package repository

import (
	"errors"

	"github.com/cortexamp/api/internal/model"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindByID(id uint) (*model.Profile, error)
	FindByEmail(email string) (*model.Profile, error)
	Update(profile *model.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) FindByID(id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail returns (nil, nil) when no account exists for the address.
func (r *profileRepository) FindByEmail(email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Where("email = ?", email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	return r.db.Save(profile).Error
}
