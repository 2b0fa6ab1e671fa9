// internal/models/franchise.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FranchiseStatus string

const (
	FranchiseStatusActive    FranchiseStatus = "active"
	FranchiseStatusInactive  FranchiseStatus = "inactive"
	FranchiseStatusPending   FranchiseStatus = "pending"
	FranchiseStatusSuspended FranchiseStatus = "suspended"
)

type Franchise struct {
	BaseModel
	FranchisorID           uuid.UUID       `json:"franchisor_id" gorm:"type:uuid;not null;index"`
	BrokerID               *uuid.UUID      `json:"broker_id" gorm:"type:uuid;index"`
	Name                   string          `json:"name" gorm:"size:255;not null"`
	BusinessName           string          `json:"business_name" gorm:"size:255"`
	BrandCode              string          `json:"brand_code" gorm:"size:20;uniqueIndex;not null"`
	Industry               string          `json:"industry" gorm:"size:50;index"`
	Description            string          `json:"description" gorm:"type:text"`
	Website                string          `json:"website" gorm:"size:255"`
	ContactEmail           string          `json:"contact_email" gorm:"size:255"`
	ContactPhone           string          `json:"contact_phone" gorm:"size:30"`
	HeadquartersAddress    string          `json:"headquarters_address" gorm:"size:255"`
	HeadquartersCity       string          `json:"headquarters_city" gorm:"size:100"`
	HeadquartersState      string          `json:"headquarters_state" gorm:"size:100"`
	HeadquartersCountry    string          `json:"headquarters_country" gorm:"size:100"`
	FranchiseFee           decimal.Decimal `json:"franchise_fee" gorm:"type:decimal(14,2);default:0"`
	RoyaltyPercentage      decimal.Decimal `json:"royalty_percentage" gorm:"type:decimal(5,2);default:0"`
	MarketingFeePercentage decimal.Decimal `json:"marketing_fee_percentage" gorm:"type:decimal(5,2);default:0"`
	TotalInvestmentMin     decimal.Decimal `json:"total_investment_min" gorm:"type:decimal(14,2);default:0"`
	TotalInvestmentMax     decimal.Decimal `json:"total_investment_max" gorm:"type:decimal(14,2);default:0"`
	EstablishedDate        *Date           `json:"established_date" gorm:"type:date"`
	Status                 FranchiseStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	IsMarketplaceListed    bool            `json:"is_marketplace_listed" gorm:"default:false;index"`

	// Relationships
	Franchisor *User  `json:"franchisor,omitempty" gorm:"foreignKey:FranchisorID"`
	Broker     *User  `json:"broker,omitempty" gorm:"foreignKey:BrokerID"`
	Units      []Unit `json:"units,omitempty" gorm:"foreignKey:FranchiseID"`
}

func (Franchise) TableName() string { return "franchises" }
