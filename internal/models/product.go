// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

type Product struct {
	BaseModel
	FranchiseID    uuid.UUID       `json:"franchise_id" gorm:"type:uuid;not null;uniqueIndex:idx_products_franchise_sku"`
	Name           string          `json:"name" gorm:"size:255;not null"`
	SKU            string          `json:"sku" gorm:"size:64;not null;uniqueIndex:idx_products_franchise_sku"`
	Description    string          `json:"description" gorm:"type:text"`
	Category       string          `json:"category" gorm:"size:100;index"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(14,2);not null"`
	CostPrice      decimal.Decimal `json:"cost_price" gorm:"type:decimal(14,2);default:0"`
	StockQuantity  int             `json:"stock_quantity" gorm:"default:0"`
	Images         StringArray     `json:"images"`
	Specifications JSONB           `json:"specifications" gorm:"type:jsonb"`
	Status         ProductStatus   `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Franchise *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
}

func (Product) TableName() string { return "products" }
