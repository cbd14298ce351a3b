package model

import (
	"time"

	"gorm.io/gorm"
)

// Submission is one user's attempt at one challenge. The composite unique
// index closes the race where two concurrent submissions of the same
// challenge both pass the existing-submission check.
type Submission struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_submissions_user_challenge"`
	ChallengeID    uint           `json:"challenge_id" gorm:"not null;uniqueIndex:idx_submissions_user_challenge"`
	Challenge      Challenge      `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID"`
	SubmissionText string         `json:"submission_text" gorm:"type:text;not null"`
	SubmittedAt    time.Time      `json:"submitted_at" gorm:"autoCreateTime"`
	CreatedAt      time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Submission) TableName() string { return "challenge_submissions" }
