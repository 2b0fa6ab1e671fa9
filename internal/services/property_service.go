// internal/services/property_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type PropertyService struct {
	db     *gorm.DB
	scopes *scope.Resolver
}

type PropertyInput struct {
	BrokerID      *uuid.UUID             `json:"broker_id"`
	Title         *string                `json:"title"`
	PropertyType  *string                `json:"property_type"`
	Address       *string                `json:"address"`
	City          *string                `json:"city"`
	State         *string                `json:"state"`
	PostalCode    *string                `json:"postal_code"`
	Country       *string                `json:"country"`
	SizeSqft      *int                   `json:"size_sqft"`
	MonthlyRent   *decimal.Decimal       `json:"monthly_rent"`
	SalePrice     *decimal.Decimal       `json:"sale_price"`
	AvailableFrom *models.Date           `json:"available_from"`
	Description   *string                `json:"description"`
	Status        *models.PropertyStatus `json:"status"`
}

func (in PropertyInput) applyTo(pr *models.Property) {
	set(&pr.Title, in.Title)
	set(&pr.PropertyType, in.PropertyType)
	set(&pr.Address, in.Address)
	set(&pr.City, in.City)
	set(&pr.State, in.State)
	set(&pr.PostalCode, in.PostalCode)
	set(&pr.Country, in.Country)
	set(&pr.SizeSqft, in.SizeSqft)
	set(&pr.MonthlyRent, in.MonthlyRent)
	set(&pr.SalePrice, in.SalePrice)
	setPtr(&pr.AvailableFrom, in.AvailableFrom)
	set(&pr.Description, in.Description)
	set(&pr.Status, in.Status)
}

func NewPropertyService(db *gorm.DB, scopes *scope.Resolver) *PropertyService {
	return &PropertyService{db: db, scopes: scopes}
}

func (s *PropertyService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Property](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Property,
		filters: map[string]string{
			"status":        "properties.status",
			"property_type": "properties.property_type",
			"city":          "properties.city",
			"state":         "properties.state",
			"broker_id":     "properties.broker_id",
		},
		search: []string{"properties.title", "properties.address", "properties.city"},
		sorts: map[string]string{
			"title":          "properties.title",
			"city":           "properties.city",
			"size_sqft":      "properties.size_sqft",
			"monthly_rent":   "properties.monthly_rent",
			"sale_price":     "properties.sale_price",
			"available_from": "properties.available_from",
			"created_at":     "properties.created_at",
		},
		defaultSort: "properties.created_at DESC",
		dateColumn:  "properties.available_from",
	})
}

func (s *PropertyService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Property, error) {
	return findScoped[models.Property](ctx, s.db, s.scopes, p, scope.Property, id, "Broker")
}

// Create lists a property. Brokers own what they list; admins list on a
// broker's behalf.
func (s *PropertyService) Create(ctx context.Context, p scope.Principal, in PropertyInput) (*models.Property, error) {
	property := &models.Property{Status: models.PropertyStatusAvailable}

	switch p.Role {
	case models.RoleBroker:
		property.BrokerID = p.UserID
	case models.RoleAdmin:
		if in.BrokerID == nil {
			return nil, NewValidationError("broker_id", "The broker id field is required")
		}
		if _, err := loadUser(ctx, s.db, *in.BrokerID, "broker_id", models.RoleBroker); err != nil {
			return nil, err
		}
		property.BrokerID = *in.BrokerID
	default:
		return nil, ErrForbidden
	}

	in.applyTo(property)
	if err := s.db.WithContext(ctx).Create(property).Error; err != nil {
		return nil, fmt.Errorf("failed to create property: %w", translateWriteError(err))
	}
	return reload[models.Property](ctx, s.db, property.ID, "Broker")
}

func (s *PropertyService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in PropertyInput) (*models.Property, error) {
	property, err := findScoped[models.Property](ctx, s.db, s.scopes, p, scope.Property, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(property)
	if err := save(ctx, s.db, property); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return reload[models.Property](ctx, s.db, property.ID, "Broker")
}

func (s *PropertyService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	property, err := findScoped[models.Property](ctx, s.db, s.scopes, p, scope.Property, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(property).Error
}

func (s *PropertyService) UpdateStatus(ctx context.Context, p scope.Principal, id uuid.UUID, status models.PropertyStatus) (*models.Property, error) {
	property, err := findScoped[models.Property](ctx, s.db, s.scopes, p, scope.Property, id)
	if err != nil {
		return nil, err
	}
	if property.Status == status {
		return nil, domainError(CodeNothingToDo, "Property is already %s", status)
	}
	if err := s.db.WithContext(ctx).Model(property).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update property status: %w", err)
	}
	return reload[models.Property](ctx, s.db, property.ID, "Broker")
}
