// internal/services/unit_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type UnitService struct {
	db     *gorm.DB
	scopes *scope.Resolver
	events events.Publisher
}

type UnitInput struct {
	FranchiseID  *uuid.UUID         `json:"franchise_id"`
	FranchiseeID *uuid.UUID         `json:"franchisee_id"`
	UnitName     *string            `json:"unit_name"`
	Address      *string            `json:"address"`
	City         *string            `json:"city"`
	State        *string            `json:"state"`
	PostalCode   *string            `json:"postal_code"`
	Country      *string            `json:"country"`
	Phone        *string            `json:"phone"`
	Email        *string            `json:"email"`
	SizeSqft     *int               `json:"size_sqft"`
	MonthlyRent  *decimal.Decimal   `json:"monthly_rent"`
	OpeningDate  *models.Date       `json:"opening_date"`
	Status       *models.UnitStatus `json:"status"`
}

func (in UnitInput) applyTo(u *models.Unit) {
	set(&u.UnitName, in.UnitName)
	set(&u.Address, in.Address)
	set(&u.City, in.City)
	set(&u.State, in.State)
	set(&u.PostalCode, in.PostalCode)
	set(&u.Country, in.Country)
	set(&u.Phone, in.Phone)
	set(&u.Email, in.Email)
	set(&u.SizeSqft, in.SizeSqft)
	set(&u.MonthlyRent, in.MonthlyRent)
	setPtr(&u.OpeningDate, in.OpeningDate)
	set(&u.Status, in.Status)
}

// ProvisionInput creates a franchisee account together with the unit they
// will run.
type ProvisionInput struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Password string    `json:"password"`
	Unit     UnitInput `json:"unit"`
}

type ProvisionResult struct {
	User *models.User `json:"user"`
	Unit *models.Unit `json:"unit"`
}

var unitRelations = []string{"Franchise", "Franchisee"}

func NewUnitService(db *gorm.DB, scopes *scope.Resolver, publisher events.Publisher) *UnitService {
	return &UnitService{db: db, scopes: scopes, events: publisher}
}

func (s *UnitService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Unit](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Unit,
		filters: map[string]string{
			"status":        "units.status",
			"franchise_id":  "units.franchise_id",
			"franchisee_id": "units.franchisee_id",
			"city":          "units.city",
			"country":       "units.country",
		},
		search: []string{"units.unit_name", "units.unit_code", "units.city", "units.address"},
		sorts: map[string]string{
			"unit_name":    "units.unit_name",
			"unit_code":    "units.unit_code",
			"city":         "units.city",
			"status":       "units.status",
			"opening_date": "units.opening_date",
			"created_at":   "units.created_at",
		},
		defaultSort: "units.created_at DESC",
		dateColumn:  "units.created_at",
		preloads:    unitRelations,
	})
}

func (s *UnitService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Unit, error) {
	return findScoped[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, id, unitRelations...)
}

func (s *UnitService) Create(ctx context.Context, p scope.Principal, in UnitInput) (*models.Unit, error) {
	var unit *models.Unit
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var err error
		unit, err = s.createUnit(ctx, tx, p, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reload[models.Unit](ctx, s.db, unit.ID, unitRelations...)
}

func (s *UnitService) createUnit(ctx context.Context, tx *gorm.DB, p scope.Principal, in UnitInput) (*models.Unit, error) {
	if in.FranchiseID == nil {
		return nil, NewValidationError("franchise_id", "The franchise id field is required")
	}
	franchise, err := requireParent[models.Franchise](ctx, tx, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id")
	if err != nil {
		return nil, err
	}

	unit := &models.Unit{FranchiseID: franchise.ID, Status: models.UnitStatusPlanning}
	in.applyTo(unit)

	if in.FranchiseeID != nil {
		if err := s.checkFranchisee(ctx, tx, unit, *in.FranchiseeID); err != nil {
			return nil, err
		}
		unit.FranchiseeID = in.FranchiseeID
	}

	err = database.CreateWithUniqueCode(tx, unit, "unit_code",
		func() (string, error) { return unitCode(franchise.BrandCode) },
		func(code string) { unit.UnitCode = code })
	if err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", translateWriteError(err))
	}

	if unit.FranchiseeID != nil {
		if err := linkFranchisee(tx, *unit.FranchiseeID, unit.FranchiseID); err != nil {
			return nil, err
		}
	}
	return unit, nil
}

func (s *UnitService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in UnitInput) (*models.Unit, error) {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		unit, err := findScoped[models.Unit](ctx, tx, s.scopes, p, scope.Unit, id)
		if err != nil {
			return err
		}

		if in.FranchiseID != nil && *in.FranchiseID != unit.FranchiseID {
			if _, err := requireParent[models.Franchise](ctx, tx, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
				return err
			}
			unit.FranchiseID = *in.FranchiseID
		}
		in.applyTo(unit)

		franchiseeID := unit.FranchiseeID
		if in.FranchiseeID != nil {
			franchiseeID = in.FranchiseeID
		}
		if franchiseeID != nil {
			if err := s.checkFranchisee(ctx, tx, unit, *franchiseeID); err != nil {
				return err
			}
			unit.FranchiseeID = franchiseeID
		}

		if err := save(ctx, tx, unit); err != nil {
			return fmt.Errorf("failed to update unit: %w", err)
		}
		if unit.FranchiseeID != nil {
			return linkFranchisee(tx, *unit.FranchiseeID, unit.FranchiseID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reload[models.Unit](ctx, s.db, id, unitRelations...)
}

func (s *UnitService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	unit, err := findScoped[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, id)
	if err != nil {
		return err
	}
	if unit.Status == models.UnitStatusActive {
		return domainError(CodeNotDeletable, "Active units cannot be deleted; close the unit first")
	}
	return s.db.WithContext(ctx).Delete(unit).Error
}

// AssignFranchisee links a franchisee to the unit. The user must be a
// franchisee, must not run another unit and must belong to the unit's
// franchise when already linked to one.
func (s *UnitService) AssignFranchisee(ctx context.Context, p scope.Principal, id, franchiseeID uuid.UUID) (*models.Unit, error) {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		unit, err := findScoped[models.Unit](ctx, tx, s.scopes, p, scope.Unit, id)
		if err != nil {
			return err
		}
		if err := s.checkFranchisee(ctx, tx, unit, franchiseeID); err != nil {
			return err
		}
		if err := tx.Model(unit).Update("franchisee_id", franchiseeID).Error; err != nil {
			return fmt.Errorf("failed to assign franchisee: %w", err)
		}
		return linkFranchisee(tx, franchiseeID, unit.FranchiseID)
	})
	if err != nil {
		return nil, err
	}
	return reload[models.Unit](ctx, s.db, id, unitRelations...)
}

func (s *UnitService) UpdateStatus(ctx context.Context, p scope.Principal, id uuid.UUID, status models.UnitStatus) (*models.Unit, error) {
	unit, err := findScoped[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, id)
	if err != nil {
		return nil, err
	}
	if unit.Status == status || unit.Status == models.UnitStatusClosed {
		return nil, invalidTransition("unit", unit.Status, status)
	}

	updates := map[string]interface{}{"status": status}
	if status == models.UnitStatusActive && unit.OpeningDate == nil {
		updates["opening_date"] = models.NewDate(time.Now().UTC())
	}
	from := unit.Status
	moved, err := updateFrom(ctx, s.db, unit, from, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update unit status: %w", err)
	}
	if !moved {
		return nil, invalidTransition("unit", from, status)
	}
	return reload[models.Unit](ctx, s.db, id, unitRelations...)
}

// CreateFranchiseeWithUnit provisions the account and the unit in one
// transaction. Any failure leaves neither row behind.
func (s *UnitService) CreateFranchiseeWithUnit(ctx context.Context, p scope.Principal, in ProvisionInput) (*ProvisionResult, error) {
	var user *models.User
	var unit *models.Unit

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		user = &models.User{
			Name:   in.Name,
			Email:  strings.ToLower(strings.TrimSpace(in.Email)),
			Phone:  in.Phone,
			Role:   models.RoleFranchisee,
			Status: models.UserStatusActive,
		}
		if err := user.SetPassword(in.Password); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := tx.Create(user).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return NewValidationError("email", "The email has already been taken")
			}
			return fmt.Errorf("failed to create franchisee: %w", err)
		}

		unitIn := in.Unit
		unitIn.FranchiseeID = &user.ID
		var err error
		unit, err = s.createUnit(ctx, tx, p, unitIn)
		if err != nil {
			return prefixFields("unit", err)
		}
		user.FranchiseID = &unit.FranchiseID
		return nil
	})
	if err != nil {
		return nil, err
	}

	unit, err = reload[models.Unit](ctx, s.db, unit.ID, "Franchise")
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, events.New(events.FranchiseeProvisioned,
		"Franchisee account created",
		fmt.Sprintf("%s now runs unit %s (%s)", user.Name, unit.UnitName, unit.UnitCode),
		map[string]interface{}{"user_id": user.ID, "unit_id": unit.ID, "franchise_id": unit.FranchiseID},
		user.ID, unit.Franchise.FranchisorID, p.UserID))

	return &ProvisionResult{User: user, Unit: unit}, nil
}

func (s *UnitService) checkFranchisee(ctx context.Context, tx *gorm.DB, unit *models.Unit, franchiseeID uuid.UUID) error {
	user, err := loadUser(ctx, tx, franchiseeID, "franchisee_id", models.RoleFranchisee)
	if err != nil {
		return err
	}

	var other int64
	if err := tx.Model(&models.Unit{}).
		Where("franchisee_id = ? AND id <> ?", franchiseeID, unit.ID).
		Count(&other).Error; err != nil {
		return err
	}
	if other > 0 {
		return domainError(CodeInvalidAssignee, "%s already manages another unit", user.Name)
	}

	if user.FranchiseID != nil && *user.FranchiseID != unit.FranchiseID {
		return domainError(CodeInvalidAssignee, "%s belongs to a different franchise", user.Name)
	}
	return nil
}

func linkFranchisee(tx *gorm.DB, userID, franchiseID uuid.UUID) error {
	return tx.Model(&models.User{}).
		Where("id = ? AND franchise_id IS NULL", userID).
		Update("franchise_id", franchiseID).Error
}

func unitCode(brandCode string) (string, error) {
	prefix := "U"
	if i := strings.Index(brandCode, "-"); i > 0 {
		prefix = brandCode[:i]
	}
	return utils.GenerateCode(prefix, time.Now().UTC())
}

// prefixFields nests validation errors of a sub-object under prefix.
func prefixFields(prefix string, err error) error {
	verr, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	fields := make(map[string][]string, len(verr.Fields))
	for field, msgs := range verr.Fields {
		fields[prefix+"."+field] = msgs
	}
	return &ValidationError{Fields: fields}
}
