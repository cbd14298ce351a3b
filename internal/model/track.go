package model

import (
	"time"

	"gorm.io/gorm"
)

type Track struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `json:"slug" gorm:"not null;uniqueIndex"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description,omitempty"`
	SortOrder   int            `json:"sort_order" gorm:"default:0"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	Challenges  []Challenge    `json:"challenges,omitempty" gorm:"foreignKey:TrackID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
