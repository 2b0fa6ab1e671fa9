// internal/services/staff_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type StaffService struct {
	db     *gorm.DB
	scopes *scope.Resolver
}

type StaffInput struct {
	FranchiseID    *uuid.UUID          `json:"franchise_id"`
	UnitID         *uuid.UUID          `json:"unit_id"`
	FirstName      *string             `json:"first_name"`
	LastName       *string             `json:"last_name"`
	Email          *string             `json:"email"`
	Phone          *string             `json:"phone"`
	Position       *string             `json:"position"`
	EmploymentType *string             `json:"employment_type"`
	HireDate       *models.Date        `json:"hire_date"`
	Salary         *decimal.Decimal    `json:"salary"`
	Status         *models.StaffStatus `json:"status"`
}

func (in StaffInput) applyTo(st *models.Staff) {
	set(&st.FirstName, in.FirstName)
	set(&st.LastName, in.LastName)
	set(&st.Email, in.Email)
	set(&st.Phone, in.Phone)
	set(&st.Position, in.Position)
	set(&st.EmploymentType, in.EmploymentType)
	setPtr(&st.HireDate, in.HireDate)
	set(&st.Salary, in.Salary)
	set(&st.Status, in.Status)
}

type AssignStaffInput struct {
	UnitID    uuid.UUID `json:"unit_id"`
	Role      string    `json:"role"`
	IsPrimary bool      `json:"is_primary"`
}

var staffRelations = []string{"Franchise", "Assignments.Unit"}

func NewStaffService(db *gorm.DB, scopes *scope.Resolver) *StaffService {
	return &StaffService{db: db, scopes: scopes}
}

func (s *StaffService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Staff](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Staff,
		filters: map[string]string{
			"status":          "staff_members.status",
			"position":        "staff_members.position",
			"employment_type": "staff_members.employment_type",
			"franchise_id":    "staff_members.franchise_id",
		},
		search: []string{"staff_members.first_name", "staff_members.last_name", "staff_members.email"},
		sorts: map[string]string{
			"first_name": "staff_members.first_name",
			"last_name":  "staff_members.last_name",
			"hire_date":  "staff_members.hire_date",
			"salary":     "staff_members.salary",
			"created_at": "staff_members.created_at",
		},
		defaultSort: "staff_members.last_name ASC",
		dateColumn:  "staff_members.hire_date",
		preloads:    []string{"Assignments.Unit"},
		refine: func(query *gorm.DB, q utils.ListQuery) *gorm.DB {
			if unitID, ok := q.Filters["unit_id"]; ok {
				return query.Where("staff_members.id IN (?)", query.Session(&gorm.Session{NewDB: true}).
					Model(&models.StaffUnit{}).Select("staff_id").Where("unit_id = ?", unitID))
			}
			return query
		},
	})
}

func (s *StaffService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Staff, error) {
	return findScoped[models.Staff](ctx, s.db, s.scopes, p, scope.Staff, id, staffRelations...)
}

// Create adds a staff member to a franchise. When a unit is given the member
// is also assigned to it as primary; franchisees always hire into a unit.
func (s *StaffService) Create(ctx context.Context, p scope.Principal, in StaffInput) (*models.Staff, error) {
	staff := &models.Staff{Status: models.StaffStatusActive}
	in.applyTo(staff)

	var unit *models.Unit
	switch {
	case in.UnitID != nil:
		u, err := requireParent[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, *in.UnitID, "unit_id")
		if err != nil {
			return nil, err
		}
		unit = u
		staff.FranchiseID = u.FranchiseID
	case p.Role == models.RoleFranchisee:
		return nil, NewValidationError("unit_id", "The unit id field is required")
	case in.FranchiseID != nil:
		if _, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
			return nil, err
		}
		staff.FranchiseID = *in.FranchiseID
	default:
		return nil, NewValidationError("franchise_id", "The franchise id field is required")
	}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Create(staff).Error; err != nil {
			return translateWriteError(err)
		}
		if unit == nil {
			return nil
		}
		return tx.Create(&models.StaffUnit{
			StaffID:    staff.ID,
			UnitID:     unit.ID,
			Role:       staff.Position,
			IsPrimary:  true,
			AssignedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return reload[models.Staff](ctx, s.db, staff.ID, staffRelations...)
}

func (s *StaffService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in StaffInput) (*models.Staff, error) {
	staff, err := findScoped[models.Staff](ctx, s.db, s.scopes, p, scope.Staff, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(staff)
	if err := save(ctx, s.db, staff); err != nil {
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}
	return reload[models.Staff](ctx, s.db, staff.ID, staffRelations...)
}

// Delete soft deletes the member together with their unit assignments.
func (s *StaffService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	staff, err := findScoped[models.Staff](ctx, s.db, s.scopes, p, scope.Staff, id)
	if err != nil {
		return err
	}
	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", staff.ID).Delete(&models.StaffUnit{}).Error; err != nil {
			return err
		}
		return tx.Delete(staff).Error
	})
}

// AssignToUnit assigns a member to a unit of their franchise, updating an
// existing assignment in place. A member keeps at most one primary
// assignment and their first assignment is always primary.
func (s *StaffService) AssignToUnit(ctx context.Context, p scope.Principal, id uuid.UUID, in AssignStaffInput) (*models.Staff, error) {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		staff, err := findScoped[models.Staff](ctx, tx, s.scopes, p, scope.Staff, id)
		if err != nil {
			return err
		}
		unit, err := requireParent[models.Unit](ctx, tx, s.scopes, p, scope.Unit, in.UnitID, "unit_id")
		if err != nil {
			return err
		}
		if unit.FranchiseID != staff.FranchiseID {
			return NewValidationError("unit_id", "The unit does not belong to the staff member's franchise")
		}

		var others int64
		if err := tx.Model(&models.StaffUnit{}).
			Where("staff_id = ? AND unit_id <> ?", staff.ID, unit.ID).
			Count(&others).Error; err != nil {
			return err
		}
		primary := in.IsPrimary || others == 0

		var assignment models.StaffUnit
		err = tx.Unscoped().Where("staff_id = ? AND unit_id = ?", staff.ID, unit.ID).First(&assignment).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			assignment = models.StaffUnit{StaffID: staff.ID, UnitID: unit.ID}
		case err != nil:
			return err
		}
		assignment.Role = in.Role
		assignment.IsPrimary = primary
		assignment.AssignedAt = time.Now()
		assignment.DeletedAt = gorm.DeletedAt{}
		if err := tx.Unscoped().Omit(clause.Associations).Save(&assignment).Error; err != nil {
			return translateWriteError(err)
		}

		if primary {
			return tx.Model(&models.StaffUnit{}).
				Where("staff_id = ? AND unit_id <> ?", staff.ID, unit.ID).
				Update("is_primary", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reload[models.Staff](ctx, s.db, id, staffRelations...)
}

// UnassignFromUnit removes the assignment. When it was primary, the oldest
// remaining assignment is promoted.
func (s *StaffService) UnassignFromUnit(ctx context.Context, p scope.Principal, id, unitID uuid.UUID) (*models.Staff, error) {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		staff, err := findScoped[models.Staff](ctx, tx, s.scopes, p, scope.Staff, id)
		if err != nil {
			return err
		}

		var assignment models.StaffUnit
		if err := tx.Where("staff_id = ? AND unit_id = ?", staff.ID, unitID).First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewValidationError("unit_id", "The staff member is not assigned to this unit")
			}
			return err
		}
		if err := tx.Unscoped().Delete(&assignment).Error; err != nil {
			return err
		}
		if !assignment.IsPrimary {
			return nil
		}

		var next models.StaffUnit
		err = tx.Where("staff_id = ?", staff.ID).Order("assigned_at ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_primary", true).Error
	})
	if err != nil {
		return nil, err
	}
	return reload[models.Staff](ctx, s.db, id, staffRelations...)
}
