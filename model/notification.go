package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType tags the origin of a notification
type NotificationType string

const (
	NotificationTypeApplication NotificationType = "application"
	NotificationTypeStatus      NotificationType = "status_update"
	NotificationTypeBroadcast   NotificationType = "broadcast"
	NotificationTypeGeneral     NotificationType = "general"
)

// Notification represents a per-user notification record
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID    string           `gorm:"type:varchar(191);index;not null" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	Read      bool             `gorm:"default:false" json:"read"`
	Metadata  datatypes.JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NotificationResponse is the API shape for a notification
type NotificationResponse struct {
	ID        uint             `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Metadata  datatypes.JSON   `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ToResponse converts a Notification to its API shape
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
	}
}
