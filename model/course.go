package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a study program offered by a university
type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UniversityID uint           `gorm:"not null;index" json:"university_id"`
	Name         string         `gorm:"not null" json:"name"`
	Level        string         `gorm:"type:varchar(50);index" json:"level"` // e.g., "Bachelor", "Master"
	Faculty      string         `gorm:"type:varchar(255);index" json:"faculty"`
	DurationYears int           `gorm:"default:1" json:"duration_years"`
	TuitionFee   float64        `gorm:"type:numeric(12,2)" json:"tuition_fee"`
	IELTSOverall float64        `gorm:"type:numeric(3,1);index" json:"ielts_overall"`
	IELTSMinBand float64        `gorm:"type:numeric(3,1)" json:"ielts_min_band"`
	Scholarships datatypes.JSON `gorm:"type:jsonb" json:"scholarships,omitempty"`

	// Relationships
	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
	Favorites  []Favorite `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// ScholarshipNames decodes the scholarship list stored in the JSON column.
func (c *Course) ScholarshipNames() []string {
	if len(c.Scholarships) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(c.Scholarships, &names); err != nil {
		return nil
	}
	return names
}
