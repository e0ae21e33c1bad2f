package model

import (
	"time"

	"gorm.io/gorm"
)

// Tutorial represents a guidance video shown on the platform
type Tutorial struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	VideoURL    string         `gorm:"type:varchar(512);not null" json:"video_url"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
}
