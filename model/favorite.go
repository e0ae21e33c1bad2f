package model

import (
	"time"
)

// Favorite associates a user with a saved course. The (user, course)
// pair is unique.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_favorites_user_course" json:"user_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_favorites_user_course" json:"course_id"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}
