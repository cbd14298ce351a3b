package model

import (
	"time"

	"gorm.io/gorm"
)

// Challenge difficulties.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Similarity statuses attached to generated candidates during review.
const (
	SimilarityDuplicate             = "duplicate"
	SimilarityVerySimilar           = "very_similar"
	SimilaritySufficientlyDifferent = "sufficiently_different"
)

// Challenge is one daily exercise. The fingerprint is unique across all
// challenges, and a published challenge must carry a day date: the check
// constraint backs up the service-level precondition.
type Challenge struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	TrackID         uint           `json:"track_id" gorm:"not null;index"`
	Track           Track          `json:"track,omitempty" gorm:"foreignKey:TrackID"`
	Difficulty      string         `json:"difficulty" gorm:"not null;index"` // "beginner", "intermediate", "advanced"
	Title           string         `json:"title" gorm:"not null"`
	Scenario        string         `json:"scenario" gorm:"type:text;not null"`
	Instructions    string         `json:"instructions" gorm:"type:text;not null"`
	SuccessCriteria string         `json:"success_criteria,omitempty" gorm:"type:text"`
	CanonicalGoal   string         `json:"canonical_goal" gorm:"not null"`
	Fingerprint     string         `json:"challenge_fingerprint" gorm:"not null;uniqueIndex"`
	IsPublished     bool           `json:"is_published" gorm:"default:false;check:published_challenges_must_have_date,(NOT is_published) OR (day_date IS NOT NULL)"`
	DayDate         *time.Time     `json:"day_date,omitempty" gorm:"type:date;index"`
	GeneratedByAI   bool           `json:"generated_by_ai" gorm:"default:false"`
	ReviewedByHuman bool           `json:"reviewed_by_human" gorm:"default:false"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
