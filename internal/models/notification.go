// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

const NotifiableUser = "user"

// Notification is an in-app message addressed to one recipient.
type Notification struct {
	BaseModel
	NotifiableType string     `json:"notifiable_type" gorm:"size:50;not null;index:idx_notifications_notifiable"`
	NotifiableID   uuid.UUID  `json:"notifiable_id" gorm:"type:uuid;not null;index:idx_notifications_notifiable"`
	Type           string     `json:"type" gorm:"size:80;not null;index"`
	Title          string     `json:"title" gorm:"size:255;not null"`
	Message        string     `json:"message" gorm:"type:text;not null"`
	Data           JSONB      `json:"data" gorm:"type:jsonb"`
	ReadAt         *time.Time `json:"read_at"`
}

func (Notification) TableName() string { return "notifications" }
