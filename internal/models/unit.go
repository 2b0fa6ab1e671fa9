// internal/models/unit.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitStatus string

const (
	UnitStatusPlanning          UnitStatus = "planning"
	UnitStatusConstruction      UnitStatus = "construction"
	UnitStatusTraining          UnitStatus = "training"
	UnitStatusActive            UnitStatus = "active"
	UnitStatusTemporarilyClosed UnitStatus = "temporarily_closed"
	UnitStatusClosed            UnitStatus = "closed"
)

type Unit struct {
	BaseModel
	FranchiseID  uuid.UUID       `json:"franchise_id" gorm:"type:uuid;not null;index"`
	FranchiseeID *uuid.UUID      `json:"franchisee_id" gorm:"type:uuid;index"`
	UnitName     string          `json:"unit_name" gorm:"size:255;not null"`
	UnitCode     string          `json:"unit_code" gorm:"size:30;uniqueIndex;not null"`
	Address      string          `json:"address" gorm:"size:255"`
	City         string          `json:"city" gorm:"size:100;index"`
	State        string          `json:"state" gorm:"size:100"`
	PostalCode   string          `json:"postal_code" gorm:"size:20"`
	Country      string          `json:"country" gorm:"size:100"`
	Phone        string          `json:"phone" gorm:"size:30"`
	Email        string          `json:"email" gorm:"size:255"`
	SizeSqft     int             `json:"size_sqft"`
	MonthlyRent  decimal.Decimal `json:"monthly_rent" gorm:"type:decimal(14,2);default:0"`
	OpeningDate  *Date           `json:"opening_date" gorm:"type:date"`
	Status       UnitStatus      `json:"status" gorm:"type:varchar(30);default:'planning';index"`

	// Relationships
	Franchise  *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Franchisee *User      `json:"franchisee,omitempty" gorm:"foreignKey:FranchiseeID"`
}

func (Unit) TableName() string { return "units" }
