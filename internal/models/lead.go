// internal/models/lead.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "new"
	LeadStatusContacted    LeadStatus = "contacted"
	LeadStatusQualified    LeadStatus = "qualified"
	LeadStatusProposalSent LeadStatus = "proposal_sent"
	LeadStatusNegotiating  LeadStatus = "negotiating"
	LeadStatusClosedWon    LeadStatus = "closed_won"
	LeadStatusClosedLost   LeadStatus = "closed_lost"
)

func (s LeadStatus) Closed() bool {
	return s == LeadStatusClosedWon || s == LeadStatusClosedLost
}

type Lead struct {
	BaseModel
	FranchiseID       *uuid.UUID      `json:"franchise_id" gorm:"type:uuid;index"`
	AssignedTo        *uuid.UUID      `json:"assigned_to" gorm:"type:uuid;index"`
	CreatedBy         uuid.UUID       `json:"created_by" gorm:"type:uuid;not null;index"`
	FirstName         string          `json:"first_name" gorm:"size:100;not null"`
	LastName          string          `json:"last_name" gorm:"size:100;not null"`
	Email             string          `json:"email" gorm:"size:255;index"`
	Phone             string          `json:"phone" gorm:"size:30"`
	City              string          `json:"city" gorm:"size:100"`
	State             string          `json:"state" gorm:"size:100"`
	Country           string          `json:"country" gorm:"size:100"`
	Source            string          `json:"source" gorm:"type:varchar(30);index"`
	Status            LeadStatus      `json:"status" gorm:"type:varchar(30);default:'new';index"`
	Priority          Priority        `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	InvestmentBudget  decimal.Decimal `json:"investment_budget" gorm:"type:decimal(14,2);default:0"`
	ExpectedCloseDate *Date           `json:"expected_close_date" gorm:"type:date"`
	LastContactedAt   *time.Time      `json:"last_contacted_at"`
	ConvertedAt       *time.Time      `json:"converted_at"`
	LostReason        string          `json:"lost_reason,omitempty" gorm:"type:text"`

	// Relationships
	Franchise *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Assignee  *User      `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo"`
	Creator   *User      `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Notes     []LeadNote `json:"notes,omitempty" gorm:"foreignKey:LeadID"`
}

func (Lead) TableName() string { return "leads" }

type LeadNote struct {
	BaseModel
	LeadID uuid.UUID `json:"lead_id" gorm:"type:uuid;not null;index"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	Note   string    `json:"note" gorm:"type:text;not null"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (LeadNote) TableName() string { return "lead_notes" }
