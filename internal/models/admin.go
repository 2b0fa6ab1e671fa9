// internal/models/admin.go
package models

import (
	"github.com/google/uuid"
)

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	StatusCode   int        `json:"status_code"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// AllModels lists every migrated entity.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Franchise{},
		&Unit{},
		&Lead{},
		&LeadNote{},
		&Task{},
		&TechnicalRequest{},
		&Revenue{},
		&Royalty{},
		&Property{},
		&Staff{},
		&StaffUnit{},
		&Product{},
		&Document{},
		&Review{},
		&Transaction{},
		&Notification{},
		&AuditLog{},
	}
}
