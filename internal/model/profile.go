package model

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the account record. Elevated access is a role flag on the row,
// checked wherever admin access is required.
type Profile struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string         `json:"-" gorm:"not null"`
	DisplayName  *string        `json:"display_name,omitempty"`
	SkillLevel   string         `json:"skill_level" gorm:"default:'beginner'"` // "beginner", "intermediate", "advanced"
	Timezone     string         `json:"timezone" gorm:"default:'UTC'"`
	IsAdmin      bool           `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
