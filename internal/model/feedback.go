package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// StringList stores a JSON array of strings in a single column. Shapes are
// validated once on write, so readers never have to sniff string-vs-array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// Feedback is the AI evaluation of a submission: exactly one row per
// submission, score clamped to [1,10] before insert.
type Feedback struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	SubmissionID      uint           `json:"submission_id" gorm:"not null;uniqueIndex"`
	UserID            uint           `json:"user_id" gorm:"not null;index"`
	Score             int            `json:"score" gorm:"not null"`
	Strengths         StringList     `json:"strengths" gorm:"type:text"`
	Improvements      StringList     `json:"improvements" gorm:"type:text"`
	SuggestedRevision string         `json:"suggested_revision" gorm:"type:text"`
	NextChallengeTip  string         `json:"next_challenge_tip"`
	Model             string         `json:"model" gorm:"not null"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Feedback) TableName() string { return "ai_feedback" }
