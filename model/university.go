package model

import (
	"time"

	"gorm.io/gorm"
)

// University represents a partner institution in the catalog
type University struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"`
	City      string         `gorm:"type:varchar(255)" json:"city"`
	Country   string         `gorm:"type:varchar(255)" json:"country"`
	ImageURL  string         `gorm:"type:varchar(512)" json:"image_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Courses []Course `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}
