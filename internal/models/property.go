// internal/models/property.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PropertyStatus string

const (
	PropertyStatusAvailable        PropertyStatus = "available"
	PropertyStatusUnderNegotiation PropertyStatus = "under_negotiation"
	PropertyStatusLeased           PropertyStatus = "leased"
	PropertyStatusUnavailable      PropertyStatus = "unavailable"
)

type Property struct {
	BaseModel
	BrokerID      uuid.UUID       `json:"broker_id" gorm:"type:uuid;not null;index"`
	Title         string          `json:"title" gorm:"size:255;not null"`
	PropertyType  string          `json:"property_type" gorm:"type:varchar(30);index"`
	Address       string          `json:"address" gorm:"size:255;not null"`
	City          string          `json:"city" gorm:"size:100;index"`
	State         string          `json:"state" gorm:"size:100"`
	PostalCode    string          `json:"postal_code" gorm:"size:20"`
	Country       string          `json:"country" gorm:"size:100"`
	SizeSqft      int             `json:"size_sqft"`
	MonthlyRent   decimal.Decimal `json:"monthly_rent" gorm:"type:decimal(14,2);default:0"`
	SalePrice     decimal.Decimal `json:"sale_price" gorm:"type:decimal(14,2);default:0"`
	AvailableFrom *Date           `json:"available_from" gorm:"type:date"`
	Description   string          `json:"description" gorm:"type:text"`
	Status        PropertyStatus  `json:"status" gorm:"type:varchar(30);default:'available';index"`

	Broker *User `json:"broker,omitempty" gorm:"foreignKey:BrokerID"`
}

func (Property) TableName() string { return "properties" }
