// internal/models/review.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

type Review struct {
	BaseModel
	FranchiseID uuid.UUID    `json:"franchise_id" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	Rating      int          `json:"rating" gorm:"not null"`
	Title       string       `json:"title" gorm:"size:255"`
	Comment     string       `json:"comment" gorm:"type:text"`
	Status      ReviewStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ModeratedBy *uuid.UUID   `json:"moderated_by" gorm:"type:uuid"`
	ModeratedAt *time.Time   `json:"moderated_at"`

	Franchise *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Review) TableName() string { return "reviews" }
