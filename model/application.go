package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Application statuses observed in the funnel. Status remains a free-form
// string column; these constants name the values the platform acts on.
const (
	ApplicationStatusSubmitted    = "Submitted"
	ApplicationStatusVisaApproved = "Visa Approved"
)

// Application represents a study-abroad application submitted by a user
type Application struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	UserID          string         `gorm:"type:varchar(191);not null;index" json:"user_id"`
	FullName        string         `gorm:"not null" json:"full_name"`
	Email           string         `gorm:"not null" json:"email"`
	Phone           string         `gorm:"type:varchar(50);not null" json:"phone"`
	SelectedCourses datatypes.JSON `gorm:"type:jsonb" json:"selected_courses"` // ordered []uint of course ids
	Notes           string         `gorm:"type:text" json:"notes"`
	Status          string         `gorm:"type:varchar(50);not null;index" json:"status"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// CourseIDs decodes the ordered selected-course list from the JSON column.
func (a *Application) CourseIDs() []uint {
	if len(a.SelectedCourses) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(a.SelectedCourses, &ids); err != nil {
		return nil
	}
	return ids
}

// ApplicationCourse is a resolved course reference used when listing
// applications back to the user.
type ApplicationCourse struct {
	CourseID       uint   `json:"course_id"`
	CourseName     string `json:"course_name"`
	UniversityName string `json:"university_name"`
}

// ApplicationResponse is the API shape for an application, with the
// selected course ids resolved to names where they still exist.
type ApplicationResponse struct {
	ID              uint                `json:"id"`
	FullName        string              `json:"full_name"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	SelectedCourses []ApplicationCourse `json:"selected_courses"`
	Notes           string              `json:"notes"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
