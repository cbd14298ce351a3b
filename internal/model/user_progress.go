package model

import (
	"time"
)

// UserProgress holds rolling per-user stats, upserted after every successful
// feedback generation. Streak rules: +1 when the gap since the last completion
// is exactly one day, unchanged on the same day, reset to 1 otherwise. The
// average is a weighted running mean over completed challenges.
type UserProgress struct {
	UserID              uint       `gorm:"primarykey" json:"user_id"`
	ChallengesCompleted int        `json:"challenges_completed" gorm:"default:0"`
	CurrentStreak       int        `json:"current_streak" gorm:"default:0"`
	LongestStreak       int        `json:"longest_streak" gorm:"default:0"`
	LastCompletedDate   *time.Time `json:"last_completed_date,omitempty" gorm:"type:date"`
	AvgScore            float64    `json:"avg_score" gorm:"default:0"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }
