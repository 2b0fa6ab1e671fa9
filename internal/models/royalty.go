// internal/models/royalty.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RoyaltyStatus string

const (
	RoyaltyStatusDraft     RoyaltyStatus = "draft"
	RoyaltyStatusPending   RoyaltyStatus = "pending"
	RoyaltyStatusPaid      RoyaltyStatus = "paid"
	RoyaltyStatusOverdue   RoyaltyStatus = "overdue"
	RoyaltyStatusDisputed  RoyaltyStatus = "disputed"
	RoyaltyStatusCancelled RoyaltyStatus = "cancelled"
)

type Royalty struct {
	BaseModel
	RoyaltyNumber          string          `json:"royalty_number" gorm:"size:30;uniqueIndex;not null"`
	FranchiseID            uuid.UUID       `json:"franchise_id" gorm:"type:uuid;not null;index"`
	FranchiseeID           *uuid.UUID      `json:"franchisee_id" gorm:"type:uuid;index"`
	UnitID                 uuid.UUID       `json:"unit_id" gorm:"type:uuid;not null;uniqueIndex:idx_royalty_unit_period"`
	PeriodYear             int             `json:"period_year" gorm:"not null;uniqueIndex:idx_royalty_unit_period"`
	PeriodMonth            int             `json:"period_month" gorm:"not null;uniqueIndex:idx_royalty_unit_period"`
	GrossRevenue           decimal.Decimal `json:"gross_revenue" gorm:"type:decimal(14,2);not null"`
	RoyaltyPercentage      decimal.Decimal `json:"royalty_percentage" gorm:"type:decimal(5,2);not null"`
	RoyaltyAmount          decimal.Decimal `json:"royalty_amount" gorm:"type:decimal(14,2);not null"`
	MarketingFeePercentage decimal.Decimal `json:"marketing_fee_percentage" gorm:"type:decimal(5,2);default:0"`
	MarketingFeeAmount     decimal.Decimal `json:"marketing_fee_amount" gorm:"type:decimal(14,2);default:0"`
	TotalAmount            decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);not null"`
	DueDate                Date            `json:"due_date" gorm:"type:date;not null;index"`
	Status                 RoyaltyStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaidAt                 *time.Time      `json:"paid_at"`
	PaymentReference       string          `json:"payment_reference,omitempty" gorm:"size:255"`
	PaymentProofURL        string          `json:"payment_proof_url,omitempty" gorm:"size:500"`
	DisputeReason          string          `json:"dispute_reason,omitempty" gorm:"type:text"`
	Notes                  string          `json:"notes,omitempty" gorm:"type:text"`

	// Relationships
	Franchise  *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Franchisee *User      `json:"franchisee,omitempty" gorm:"foreignKey:FranchiseeID"`
	Unit       *Unit      `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

func (Royalty) TableName() string { return "royalties" }

// Calculate derives the royalty, marketing fee and total from the gross revenue.
func (r *Royalty) Calculate() {
	hundred := decimal.NewFromInt(100)
	r.RoyaltyAmount = r.GrossRevenue.Mul(r.RoyaltyPercentage).Div(hundred).Round(2)
	r.MarketingFeeAmount = r.GrossRevenue.Mul(r.MarketingFeePercentage).Div(hundred).Round(2)
	r.TotalAmount = r.RoyaltyAmount.Add(r.MarketingFeeAmount)
}
