// internal/services/revenue_service.go
package services

import (
	"context"
	"fmt"
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

type RevenueService struct {
	db     *gorm.DB
	scopes *scope.Resolver
	events events.Publisher
}

type RevenueInput struct {
	UnitID         *uuid.UUID            `json:"unit_id"`
	Type           *string               `json:"type"`
	Category       *string               `json:"category"`
	Amount         *decimal.Decimal      `json:"amount"`
	TaxAmount      *decimal.Decimal      `json:"tax_amount"`
	DiscountAmount *decimal.Decimal      `json:"discount_amount"`
	RevenueDate    *models.Date          `json:"revenue_date"`
	PaymentMethod  *string               `json:"payment_method"`
	PaymentStatus  *models.PaymentStatus `json:"payment_status"`
	Status         *models.RevenueStatus `json:"status"`
	Description    *string               `json:"description"`
}

func (in RevenueInput) applyTo(r *models.Revenue) {
	set(&r.Type, in.Type)
	set(&r.Category, in.Category)
	set(&r.Amount, in.Amount)
	set(&r.TaxAmount, in.TaxAmount)
	set(&r.DiscountAmount, in.DiscountAmount)
	set(&r.RevenueDate, in.RevenueDate)
	set(&r.PaymentMethod, in.PaymentMethod)
	set(&r.PaymentStatus, in.PaymentStatus)
	set(&r.Description, in.Description)
	r.ComputeNet()
}

type RefundInput struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason"`
}

var revenueRelations = []string{"Franchise", "Unit", "Verifier"}

func NewRevenueService(db *gorm.DB, scopes *scope.Resolver, publisher events.Publisher) *RevenueService {
	return &RevenueService{db: db, scopes: scopes, events: publisher}
}

func (s *RevenueService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Revenue](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Revenue,
		filters: map[string]string{
			"status":            "revenues.status",
			"type":              "revenues.type",
			"payment_method":    "revenues.payment_method",
			"payment_status":    "revenues.payment_status",
			"franchise_id":      "revenues.franchise_id",
			"unit_id":           "revenues.unit_id",
			"parent_revenue_id": "revenues.parent_revenue_id",
		},
		search: []string{"revenues.revenue_number", "revenues.category", "revenues.description"},
		sorts: map[string]string{
			"revenue_number": "revenues.revenue_number",
			"revenue_date":   "revenues.revenue_date",
			"amount":         "revenues.amount",
			"net_amount":     "revenues.net_amount",
			"status":         "revenues.status",
			"created_at":     "revenues.created_at",
		},
		defaultSort: "revenues.revenue_date DESC",
		dateColumn:  "revenues.revenue_date",
		preloads:    []string{"Unit"},
	})
}

func (s *RevenueService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Revenue, error) {
	return findScoped[models.Revenue](ctx, s.db, s.scopes, p, scope.Revenue, id, "Franchise", "Unit", "Verifier", "ParentRevenue")
}

func (s *RevenueService) Create(ctx context.Context, p scope.Principal, in RevenueInput) (*models.Revenue, error) {
	if in.UnitID == nil {
		return nil, NewValidationError("unit_id", "The unit id field is required")
	}
	unit, err := requireParent[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, *in.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}

	revenue := &models.Revenue{
		FranchiseID:   unit.FranchiseID,
		UnitID:        unit.ID,
		Status:        models.RevenueStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		CreatedBy:     p.UserID,
	}
	if in.Status != nil && (*in.Status == models.RevenueStatusDraft || *in.Status == models.RevenueStatusPending) {
		revenue.Status = *in.Status
	}
	in.applyTo(revenue)
	if revenue.NetAmount.IsNegative() {
		return nil, NewValidationError("discount_amount", "Discount and tax must not exceed the amount")
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return database.CreateWithUniqueCode(tx, revenue, "revenue_number",
			func() (string, error) { return utils.GenerateCode("REV", time.Now().UTC()) },
			func(code string) { revenue.RevenueNumber = code })
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record revenue: %w", translateWriteError(err))
	}
	return reload[models.Revenue](ctx, s.db, revenue.ID, revenueRelations...)
}

func (s *RevenueService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in RevenueInput) (*models.Revenue, error) {
	revenue, err := findScoped[models.Revenue](ctx, s.db, s.scopes, p, scope.Revenue, id)
	if err != nil {
		return nil, err
	}
	if revenue.Status == models.RevenueStatusVerified {
		return nil, domainError(CodeInvalidTransition, "Verified revenue cannot be edited")
	}
	if revenue.ParentRevenueID != nil {
		return nil, domainError(CodeInvalidTransition, "Refund entries cannot be edited")
	}

	in.applyTo(revenue)
	if revenue.NetAmount.IsNegative() {
		return nil, NewValidationError("discount_amount", "Discount and tax must not exceed the amount")
	}
	if err := save(ctx, s.db, revenue); err != nil {
		return nil, fmt.Errorf("failed to update revenue: %w", err)
	}
	return reload[models.Revenue](ctx, s.db, revenue.ID, revenueRelations...)
}

// Delete refuses verified revenue; it has already fed royalty statements.
func (s *RevenueService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	revenue, err := findScoped[models.Revenue](ctx, s.db, s.scopes, p, scope.Revenue, id)
	if err != nil {
		return err
	}
	if revenue.Status == models.RevenueStatusVerified {
		return domainError(CodeNotDeletable, "Verified revenue %s cannot be deleted", revenue.RevenueNumber)
	}
	return s.db.WithContext(ctx).Delete(revenue).Error
}

func (s *RevenueService) Verify(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Revenue, error) {
	revenue, err := findScoped[models.Revenue](ctx, s.db, s.scopes, p, scope.Revenue, id)
	if err != nil {
		return nil, err
	}
	if revenue.Status != models.RevenueStatusPending && revenue.Status != models.RevenueStatusDraft {
		return nil, invalidTransition("revenue", revenue.Status, models.RevenueStatusVerified)
	}

	from := revenue.Status
	moved, err := updateFrom(ctx, s.db, revenue, from, map[string]interface{}{
		"status":      models.RevenueStatusVerified,
		"verified_by": p.UserID,
		"verified_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify revenue: %w", err)
	}
	if !moved {
		return nil, invalidTransition("revenue", from, models.RevenueStatusVerified)
	}
	return reload[models.Revenue](ctx, s.db, revenue.ID, revenueRelations...)
}

func (s *RevenueService) Dispute(ctx context.Context, p scope.Principal, id uuid.UUID, reason string) (*models.Revenue, error) {
	revenue, err := findScoped[models.Revenue](ctx, s.db, s.scopes, p, scope.Revenue, id, "Franchise", "Unit")
	if err != nil {
		return nil, err
	}
	if revenue.Status != models.RevenueStatusPending && revenue.Status != models.RevenueStatusVerified {
		return nil, invalidTransition("revenue", revenue.Status, models.RevenueStatusDisputed)
	}

	from := revenue.Status
	moved, err := updateFrom(ctx, s.db, revenue, from, map[string]interface{}{
		"status":         models.RevenueStatusDisputed,
		"dispute_reason": reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dispute revenue: %w", err)
	}
	if !moved {
		return nil, invalidTransition("revenue", from, models.RevenueStatusDisputed)
	}

	recipients := []uuid.UUID{revenue.CreatedBy}
	if revenue.Franchise != nil {
		recipients = append(recipients, revenue.Franchise.FranchisorID)
	}
	if revenue.Unit != nil && revenue.Unit.FranchiseeID != nil {
		recipients = append(recipients, *revenue.Unit.FranchiseeID)
	}
	publish(ctx, s.events, events.New(events.RevenueDisputed,
		"Revenue disputed",
		fmt.Sprintf("Revenue %s (%s) was disputed: %s", revenue.RevenueNumber, revenue.NetAmount.StringFixed(2), reason),
		map[string]interface{}{"revenue_id": revenue.ID},
		recipients...))

	return reload[models.Revenue](ctx, s.db, revenue.ID, revenueRelations...)
}

// Refund books a negative child entry against verified revenue and marks
// the parent refunded, in one transaction. Without an amount the whole
// remaining balance is refunded.
func (s *RevenueService) Refund(ctx context.Context, p scope.Principal, id uuid.UUID, in RefundInput) (*models.Revenue, error) {
	var refund *models.Revenue

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		parent, err := findScoped[models.Revenue](ctx, tx, s.scopes, p, scope.Revenue, id)
		if err != nil {
			return err
		}
		if parent.Status != models.RevenueStatusVerified {
			return domainError(CodeInvalidTransition, "Only verified revenue can be refunded")
		}
		if parent.ParentRevenueID != nil {
			return domainError(CodeInvalidTransition, "A refund entry cannot be refunded")
		}

		var refunded []models.Revenue
		if err := tx.Where("parent_revenue_id = ?", parent.ID).Find(&refunded).Error; err != nil {
			return err
		}
		remaining := parent.Amount
		for _, r := range refunded {
			remaining = remaining.Add(r.Amount)
		}
		if !remaining.IsPositive() {
			return domainError(CodeNothingToDo, "Revenue %s has already been fully refunded", parent.RevenueNumber)
		}

		amount := remaining
		if in.Amount != nil {
			amount = *in.Amount
		}
		if !amount.IsPositive() || amount.GreaterThan(remaining) {
			return NewValidationError("amount", fmt.Sprintf("Must be between 0.01 and %s", remaining.StringFixed(2)))
		}

		refund = &models.Revenue{
			FranchiseID:     parent.FranchiseID,
			UnitID:          parent.UnitID,
			Type:            parent.Type,
			Category:        parent.Category,
			Amount:          amount.Neg(),
			RevenueDate:     models.NewDate(time.Now().UTC()),
			PaymentMethod:   parent.PaymentMethod,
			PaymentStatus:   models.PaymentStatusCompleted,
			Status:          models.RevenueStatusVerified,
			Description:     in.Reason,
			VerifiedBy:      &p.UserID,
			ParentRevenueID: &parent.ID,
			CreatedBy:       p.UserID,
		}
		now := time.Now().UTC()
		refund.VerifiedAt = &now
		refund.ComputeNet()

		err = database.CreateWithUniqueCode(tx, refund, "revenue_number",
			func() (string, error) { return utils.GenerateCode("RFD", now) },
			func(code string) { refund.RevenueNumber = code })
		if err != nil {
			return err
		}

		return tx.Model(parent).Update("payment_status", models.PaymentStatusRefunded).Error
	})
	if err != nil {
		return nil, err
	}
	return reload[models.Revenue](ctx, s.db, refund.ID, "Unit", "ParentRevenue")
}
