package model

import (
	"time"

	"gorm.io/gorm"
)

// Counselor represents a member of the counseling team
type Counselor struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Specialty string         `gorm:"type:varchar(255)" json:"specialty"`
	PhotoURL  string         `gorm:"type:varchar(512)" json:"photo_url"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
}
