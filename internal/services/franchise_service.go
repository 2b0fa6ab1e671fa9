// internal/services/franchise_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type FranchiseService struct {
	db     *gorm.DB
	scopes *scope.Resolver
}

type FranchiseInput struct {
	FranchisorID           *uuid.UUID              `json:"franchisor_id"`
	BrokerID               *uuid.UUID              `json:"broker_id"`
	Name                   *string                 `json:"name"`
	BusinessName           *string                 `json:"business_name"`
	Industry               *string                 `json:"industry"`
	Description            *string                 `json:"description"`
	Website                *string                 `json:"website"`
	ContactEmail           *string                 `json:"contact_email"`
	ContactPhone           *string                 `json:"contact_phone"`
	HeadquartersAddress    *string                 `json:"headquarters_address"`
	HeadquartersCity       *string                 `json:"headquarters_city"`
	HeadquartersState      *string                 `json:"headquarters_state"`
	HeadquartersCountry    *string                 `json:"headquarters_country"`
	FranchiseFee           *decimal.Decimal        `json:"franchise_fee"`
	RoyaltyPercentage      *decimal.Decimal        `json:"royalty_percentage"`
	MarketingFeePercentage *decimal.Decimal        `json:"marketing_fee_percentage"`
	TotalInvestmentMin     *decimal.Decimal        `json:"total_investment_min"`
	TotalInvestmentMax     *decimal.Decimal        `json:"total_investment_max"`
	EstablishedDate        *models.Date            `json:"established_date"`
	Status                 *models.FranchiseStatus `json:"status"`
	IsMarketplaceListed    *bool                   `json:"is_marketplace_listed"`
}

func (in FranchiseInput) applyTo(f *models.Franchise) {
	set(&f.Name, in.Name)
	set(&f.BusinessName, in.BusinessName)
	set(&f.Industry, in.Industry)
	set(&f.Description, in.Description)
	set(&f.Website, in.Website)
	set(&f.ContactEmail, in.ContactEmail)
	set(&f.ContactPhone, in.ContactPhone)
	set(&f.HeadquartersAddress, in.HeadquartersAddress)
	set(&f.HeadquartersCity, in.HeadquartersCity)
	set(&f.HeadquartersState, in.HeadquartersState)
	set(&f.HeadquartersCountry, in.HeadquartersCountry)
	set(&f.FranchiseFee, in.FranchiseFee)
	set(&f.RoyaltyPercentage, in.RoyaltyPercentage)
	set(&f.MarketingFeePercentage, in.MarketingFeePercentage)
	set(&f.TotalInvestmentMin, in.TotalInvestmentMin)
	set(&f.TotalInvestmentMax, in.TotalInvestmentMax)
	setPtr(&f.EstablishedDate, in.EstablishedDate)
	set(&f.Status, in.Status)
	set(&f.IsMarketplaceListed, in.IsMarketplaceListed)
}

func (in FranchiseInput) check() error {
	if in.TotalInvestmentMin != nil && in.TotalInvestmentMax != nil && in.TotalInvestmentMax.LessThan(*in.TotalInvestmentMin) {
		return NewValidationError("total_investment_max", "Must be at least the minimum investment")
	}
	return nil
}

var franchiseRelations = []string{"Franchisor", "Broker"}

func NewFranchiseService(db *gorm.DB, scopes *scope.Resolver) *FranchiseService {
	return &FranchiseService{db: db, scopes: scopes}
}

func (s *FranchiseService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Franchise](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Franchise,
		filters: map[string]string{
			"status":                "franchises.status",
			"industry":              "franchises.industry",
			"franchisor_id":         "franchises.franchisor_id",
			"broker_id":             "franchises.broker_id",
			"is_marketplace_listed": "franchises.is_marketplace_listed",
		},
		search: []string{"franchises.name", "franchises.business_name", "franchises.brand_code", "franchises.headquarters_city"},
		sorts: map[string]string{
			"name":               "franchises.name",
			"brand_code":         "franchises.brand_code",
			"status":             "franchises.status",
			"royalty_percentage": "franchises.royalty_percentage",
			"created_at":         "franchises.created_at",
		},
		defaultSort: "franchises.created_at DESC",
		dateColumn:  "franchises.created_at",
		preloads:    franchiseRelations,
	})
}

func (s *FranchiseService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Franchise, error) {
	return findScoped[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, id, "Franchisor", "Broker", "Units")
}

// Create stores a franchise owned by the calling franchisor. Admins name the
// owner with franchisor_id.
func (s *FranchiseService) Create(ctx context.Context, p scope.Principal, in FranchiseInput) (*models.Franchise, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	franchise := &models.Franchise{Status: models.FranchiseStatusPending}
	in.applyTo(franchise)

	switch {
	case p.Role == models.RoleFranchisor:
		franchise.FranchisorID = p.UserID
	case p.IsAdmin() && in.FranchisorID != nil:
		if _, err := loadUser(ctx, s.db, *in.FranchisorID, "franchisor_id", models.RoleFranchisor); err != nil {
			return nil, err
		}
		franchise.FranchisorID = *in.FranchisorID
	case p.IsAdmin():
		return nil, NewValidationError("franchisor_id", "The franchisor id field is required")
	default:
		return nil, ErrForbidden
	}

	if in.BrokerID != nil {
		if _, err := loadUser(ctx, s.db, *in.BrokerID, "broker_id", models.RoleBroker); err != nil {
			return nil, err
		}
		franchise.BrokerID = in.BrokerID
	}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return database.CreateWithUniqueCode(tx, franchise, "brand_code",
			func() (string, error) { return utils.GenerateBrandCode(franchise.Name) },
			func(code string) { franchise.BrandCode = code })
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create franchise: %w", translateWriteError(err))
	}

	return reload[models.Franchise](ctx, s.db, franchise.ID, franchiseRelations...)
}

func (s *FranchiseService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in FranchiseInput) (*models.Franchise, error) {
	franchise, err := findScoped[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, id)
	if err != nil {
		return nil, err
	}
	if err := in.check(); err != nil {
		return nil, err
	}

	in.applyTo(franchise)
	if franchise.TotalInvestmentMax.LessThan(franchise.TotalInvestmentMin) {
		return nil, NewValidationError("total_investment_max", "Must be at least the minimum investment")
	}
	if p.IsAdmin() && in.FranchisorID != nil && *in.FranchisorID != franchise.FranchisorID {
		if _, err := loadUser(ctx, s.db, *in.FranchisorID, "franchisor_id", models.RoleFranchisor); err != nil {
			return nil, err
		}
		franchise.FranchisorID = *in.FranchisorID
	}

	if err := save(ctx, s.db, franchise); err != nil {
		return nil, fmt.Errorf("failed to update franchise: %w", err)
	}
	return reload[models.Franchise](ctx, s.db, franchise.ID, franchiseRelations...)
}

func (s *FranchiseService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	franchise, err := findScoped[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, id)
	if err != nil {
		return err
	}

	var activeUnits int64
	if err := s.db.WithContext(ctx).Model(&models.Unit{}).
		Where("franchise_id = ? AND status = ?", franchise.ID, models.UnitStatusActive).
		Count(&activeUnits).Error; err != nil {
		return err
	}
	if activeUnits > 0 {
		return domainError(CodeNotDeletable, "Franchise %s still has %d active units", franchise.Name, activeUnits)
	}

	return s.db.WithContext(ctx).Delete(franchise).Error
}

// AssignBroker sets or clears the franchise broker. Only the owning
// franchisor or an admin may change it.
func (s *FranchiseService) AssignBroker(ctx context.Context, p scope.Principal, id uuid.UUID, brokerID *uuid.UUID) (*models.Franchise, error) {
	franchise, err := findScoped[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && franchise.FranchisorID != p.UserID {
		return nil, ErrForbidden
	}

	if brokerID != nil {
		if _, err := loadUser(ctx, s.db, *brokerID, "broker_id", models.RoleBroker); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Model(franchise).Update("broker_id", brokerID).Error; err != nil {
		return nil, fmt.Errorf("failed to assign broker: %w", err)
	}
	return reload[models.Franchise](ctx, s.db, franchise.ID, franchiseRelations...)
}

func (s *FranchiseService) ToggleMarketplace(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Franchise, error) {
	franchise, err := findScoped[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, id)
	if err != nil {
		return nil, err
	}
	listed := !franchise.IsMarketplaceListed
	if listed && franchise.Status != models.FranchiseStatusActive {
		return nil, domainError(CodeInvalidTransition, "Only active franchises can be listed on the marketplace")
	}

	if err := s.db.WithContext(ctx).Model(franchise).Update("is_marketplace_listed", listed).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle marketplace listing: %w", err)
	}
	franchise.IsMarketplaceListed = listed
	return franchise, nil
}

// UpdateStatus changes the franchise status. Leaving active also removes the
// marketplace listing.
func (s *FranchiseService) UpdateStatus(ctx context.Context, p scope.Principal, id uuid.UUID, status models.FranchiseStatus) (*models.Franchise, error) {
	franchise, err := findScoped[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, id)
	if err != nil {
		return nil, err
	}
	if franchise.Status == status {
		return nil, invalidTransition("franchise", string(franchise.Status), string(status))
	}

	updates := map[string]interface{}{"status": status}
	if status != models.FranchiseStatusActive {
		updates["is_marketplace_listed"] = false
	}
	from := franchise.Status
	moved, err := updateFrom(ctx, s.db, franchise, from, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update franchise status: %w", err)
	}
	if !moved {
		return nil, invalidTransition("franchise", string(from), string(status))
	}
	return reload[models.Franchise](ctx, s.db, franchise.ID, franchiseRelations...)
}

// ListMarketplace is the public catalogue of listed, active franchises.
func (s *FranchiseService) ListMarketplace(ctx context.Context, q utils.ListQuery) (utils.Page, error) {
	query := s.db.WithContext(ctx).Model(&models.Franchise{}).
		Where("is_marketplace_listed = ? AND status = ?", true, models.FranchiseStatusActive)
	query = applyListFilters(query, q, listOptions{
		filters: map[string]string{"industry": "franchises.industry"},
		search:  []string{"franchises.name", "franchises.description", "franchises.headquarters_city"},
	}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Page{}, err
	}

	items := make([]models.Franchise, 0)
	sorts := map[string]string{
		"name":                 "franchises.name",
		"franchise_fee":        "franchises.franchise_fee",
		"total_investment_min": "franchises.total_investment_min",
	}
	if err := utils.ApplyPagination(utils.ApplySort(query, q, sorts, "franchises.name ASC"), q).Find(&items).Error; err != nil {
		return utils.Page{}, err
	}
	return utils.NewPage(items, total, q), nil
}

func (s *FranchiseService) GetMarketplace(ctx context.Context, id uuid.UUID) (*models.Franchise, error) {
	var franchise models.Franchise
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_marketplace_listed = ? AND status = ?", id, true, models.FranchiseStatusActive).
		First(&franchise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &franchise, err
}

// MarketplaceReviews lists the approved reviews of a listed franchise.
func (s *FranchiseService) MarketplaceReviews(ctx context.Context, id uuid.UUID, q utils.ListQuery) (utils.Page, error) {
	if _, err := s.GetMarketplace(ctx, id); err != nil {
		return utils.Page{}, err
	}

	query := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("franchise_id = ? AND status = ?", id, models.ReviewStatusApproved).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Page{}, err
	}

	items := make([]models.Review, 0)
	sorts := map[string]string{"rating": "reviews.rating", "created_at": "reviews.created_at"}
	if err := utils.ApplyPagination(utils.ApplySort(query, q, sorts, "reviews.created_at DESC"), q).Find(&items).Error; err != nil {
		return utils.Page{}, err
	}
	return utils.NewPage(items, total, q), nil
}
