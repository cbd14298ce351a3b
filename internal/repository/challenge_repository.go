package repository

import (
	"time"

	"github.com/cortexamp/api/internal/model"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	Create(challenge *model.Challenge) error
	FindByID(id uint) (*model.Challenge, error)
	FindPublishedByID(id uint) (*model.Challenge, error)
	FindByFingerprint(fingerprint string) (*model.Challenge, error)
	ExistsByFingerprint(fingerprint string) (bool, error)
	AllCanonicalGoals() ([]string, error)
	FindPublishedByDay(day time.Time, difficulty string, trackID uint) (*model.Challenge, error)
	FindAll() ([]model.Challenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(challenge *model.Challenge) error {
	return r.db.Create(challenge).Error
}

func (r *challengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.Preload("Track").First(&challenge, id).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) FindPublishedByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.db.Preload("Track").
		Where("id = ? AND is_published = ?", id, true).
		First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) FindByFingerprint(fingerprint string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.db.Where("fingerprint = ?", fingerprint).First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) ExistsByFingerprint(fingerprint string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Challenge{}).Where("fingerprint = ?", fingerprint).Count(&count).Error
	return count > 0, err
}

// AllCanonicalGoals returns the canonical goals of every persisted challenge
// with a non-empty value, oldest first. Callers that cap the comparison set
// for the similarity judge take the tail, so the order matters.
func (r *challengeRepository) AllCanonicalGoals() ([]string, error) {
	var goals []string
	err := r.db.Model(&model.Challenge{}).
		Where("canonical_goal <> ''").
		Order("id").
		Pluck("canonical_goal", &goals).Error
	return goals, err
}

func (r *challengeRepository) FindPublishedByDay(day time.Time, difficulty string, trackID uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.db.Preload("Track").
		Where("day_date = ? AND difficulty = ? AND track_id = ? AND is_published = ?",
			day, difficulty, trackID, true).
		First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) FindAll() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.db.Preload("Track").Order("created_at DESC").Find(&challenges).Error
	return challenges, err
}
