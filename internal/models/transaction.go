// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome         TransactionType = "income"
	TransactionTypeExpense        TransactionType = "expense"
	TransactionTypeRoyaltyPayment TransactionType = "royalty_payment"
	TransactionTypeRefund         TransactionType = "refund"
	TransactionTypeTransfer       TransactionType = "transfer"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

type Transaction struct {
	BaseModel
	TransactionNumber string            `json:"transaction_number" gorm:"size:30;uniqueIndex;not null"`
	FranchiseID       uuid.UUID         `json:"franchise_id" gorm:"type:uuid;not null;index"`
	UnitID            *uuid.UUID        `json:"unit_id" gorm:"type:uuid;index"`
	RoyaltyID         *uuid.UUID        `json:"royalty_id" gorm:"type:uuid;index"`
	Type              TransactionType   `json:"type" gorm:"type:varchar(20);not null;index"`
	Category          string            `json:"category" gorm:"size:100"`
	Amount            decimal.Decimal   `json:"amount" gorm:"type:decimal(14,2);not null"`
	TransactionDate   Date              `json:"transaction_date" gorm:"type:date;not null;index"`
	PaymentMethod     string            `json:"payment_method" gorm:"size:50"`
	ReferenceNumber   string            `json:"reference_number" gorm:"size:255"`
	Description       string            `json:"description" gorm:"type:text"`
	Status            TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt       *time.Time        `json:"processed_at"`
	CreatedBy         uuid.UUID         `json:"created_by" gorm:"type:uuid;not null"`

	// Relationships
	Franchise *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Unit      *Unit      `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

func (Transaction) TableName() string { return "transactions" }
