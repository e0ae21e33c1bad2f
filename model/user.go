package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform user. The primary key is the opaque subject
// id issued by the external identity provider; rows are provisioned
// lazily on the first authenticated request.
type User struct {
	ID        string         `gorm:"primaryKey;type:varchar(191)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string         `gorm:"type:varchar(255)" json:"first_name"`
	LastName  string         `gorm:"type:varchar(255)" json:"last_name"`
	IsAdmin   bool           `gorm:"default:false" json:"is_admin"`

	// Relationships
	Applications  []Application  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites     []Favorite     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// FullName joins the stored name parts.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
