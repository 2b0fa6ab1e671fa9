// internal/models/technical_request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type TechnicalRequestStatus string

const (
	TicketStatusOpen        TechnicalRequestStatus = "open"
	TicketStatusInProgress  TechnicalRequestStatus = "in_progress"
	TicketStatusPendingInfo TechnicalRequestStatus = "pending_info"
	TicketStatusResolved    TechnicalRequestStatus = "resolved"
	TicketStatusClosed      TechnicalRequestStatus = "closed"
	TicketStatusCancelled   TechnicalRequestStatus = "cancelled"
)

// Finished reports whether the ticket no longer accepts work.
func (s TechnicalRequestStatus) Finished() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed || s == TicketStatusCancelled
}

type TechnicalRequest struct {
	BaseModel
	TicketNumber       string                 `json:"ticket_number" gorm:"size:30;uniqueIndex;not null"`
	Title              string                 `json:"title" gorm:"size:255;not null"`
	Description        string                 `json:"description" gorm:"type:text;not null"`
	Category           string                 `json:"category" gorm:"type:varchar(30);index"`
	Priority           Priority               `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Status             TechnicalRequestStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`
	RequesterID        uuid.UUID              `json:"requester_id" gorm:"type:uuid;not null;index"`
	AssignedTo         *uuid.UUID             `json:"assigned_to" gorm:"type:uuid;index"`
	FranchiseID        uuid.UUID              `json:"franchise_id" gorm:"type:uuid;not null;index"`
	UnitID             *uuid.UUID             `json:"unit_id" gorm:"type:uuid;index"`
	Resolution         string                 `json:"resolution,omitempty" gorm:"type:text"`
	ResolvedAt         *time.Time             `json:"resolved_at"`
	ClosedAt           *time.Time             `json:"closed_at"`
	EscalatedAt        *time.Time             `json:"escalated_at"`
	SatisfactionRating *int                   `json:"satisfaction_rating"`
	Attachments        StringArray            `json:"attachments"`

	// Relationships
	Requester *User      `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Assignee  *User      `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo"`
	Franchise *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Unit      *Unit      `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

func (TechnicalRequest) TableName() string { return "technical_requests" }
