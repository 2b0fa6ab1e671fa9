// internal/models/revenue.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RevenueStatus string

const (
	RevenueStatusDraft    RevenueStatus = "draft"
	RevenueStatusPending  RevenueStatus = "pending"
	RevenueStatusVerified RevenueStatus = "verified"
	RevenueStatusDisputed RevenueStatus = "disputed"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Revenue struct {
	BaseModel
	RevenueNumber   string          `json:"revenue_number" gorm:"size:30;uniqueIndex;not null"`
	FranchiseID     uuid.UUID       `json:"franchise_id" gorm:"type:uuid;not null;index"`
	UnitID          uuid.UUID       `json:"unit_id" gorm:"type:uuid;not null;index"`
	Type            string          `json:"type" gorm:"type:varchar(30);index"`
	Category        string          `json:"category" gorm:"size:100"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	TaxAmount       decimal.Decimal `json:"tax_amount" gorm:"type:decimal(14,2);default:0"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:decimal(14,2);default:0"`
	NetAmount       decimal.Decimal `json:"net_amount" gorm:"type:decimal(14,2);not null"`
	RevenueDate     Date            `json:"revenue_date" gorm:"type:date;not null;index"`
	PaymentMethod   string          `json:"payment_method" gorm:"type:varchar(30)"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`
	Status          RevenueStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Description     string          `json:"description" gorm:"type:text"`
	VerifiedBy      *uuid.UUID      `json:"verified_by" gorm:"type:uuid"`
	VerifiedAt      *time.Time      `json:"verified_at"`
	DisputeReason   string          `json:"dispute_reason,omitempty" gorm:"type:text"`
	ParentRevenueID *uuid.UUID      `json:"parent_revenue_id" gorm:"type:uuid;index"`
	CreatedBy       uuid.UUID       `json:"created_by" gorm:"type:uuid;not null"`

	// Relationships
	Franchise     *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Unit          *Unit      `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	ParentRevenue *Revenue   `json:"parent_revenue,omitempty" gorm:"foreignKey:ParentRevenueID"`
	Verifier      *User      `json:"verifier,omitempty" gorm:"foreignKey:VerifiedBy"`
}

func (Revenue) TableName() string { return "revenues" }

// ComputeNet sets NetAmount from the gross, discount and tax amounts.
func (r *Revenue) ComputeNet() {
	r.NetAmount = r.Amount.Sub(r.DiscountAmount).Sub(r.TaxAmount)
}
