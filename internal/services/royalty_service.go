// internal/services/royalty_service.go
package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/metrics"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

// Revenue statuses that count towards a royalty statement.
var billableRevenue = []models.RevenueStatus{models.RevenueStatusVerified, models.RevenueStatusPending}

// Unit statuses that are billed.
var billableUnits = []models.UnitStatus{models.UnitStatusActive, models.UnitStatusTemporarilyClosed}

type RoyaltyService struct {
	db       *gorm.DB
	scopes   *scope.Resolver
	events   events.Publisher
	storage  *StorageService
	payments PaymentGateway
	dueDay   int
}

type RoyaltyInput struct {
	UnitID       *uuid.UUID       `json:"unit_id"`
	PeriodYear   *int             `json:"period_year"`
	PeriodMonth  *int             `json:"period_month"`
	GrossRevenue *decimal.Decimal `json:"gross_revenue"`
	DueDate      *models.Date     `json:"due_date"`
	Notes        *string          `json:"notes"`
}

type GenerateRoyaltiesInput struct {
	PeriodYear  int        `json:"period_year"`
	PeriodMonth int        `json:"period_month"`
	FranchiseID *uuid.UUID `json:"franchise_id"`
}

type GenerateRoyaltiesResult struct {
	Generated []models.Royalty `json:"generated"`
	Skipped   int              `json:"skipped"`
}

type MarkPaidInput struct {
	PaymentReference string       `json:"payment_reference"`
	PaidAt           *models.Date `json:"paid_at"`
}

var royaltyRelations = []string{"Franchise", "Franchisee", "Unit"}

func NewRoyaltyService(db *gorm.DB, scopes *scope.Resolver, publisher events.Publisher, storage *StorageService, payments PaymentGateway, dueDay int) *RoyaltyService {
	if dueDay < 1 || dueDay > 28 {
		dueDay = 15
	}
	return &RoyaltyService{
		db:       db,
		scopes:   scopes,
		events:   publisher,
		storage:  storage,
		payments: payments,
		dueDay:   dueDay,
	}
}

func (s *RoyaltyService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Royalty](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Royalty,
		filters: map[string]string{
			"status":        "royalties.status",
			"franchise_id":  "royalties.franchise_id",
			"franchisee_id": "royalties.franchisee_id",
			"unit_id":       "royalties.unit_id",
			"period_year":   "royalties.period_year",
			"period_month":  "royalties.period_month",
		},
		search: []string{"royalties.royalty_number", "royalties.payment_reference"},
		sorts: map[string]string{
			"royalty_number": "royalties.royalty_number",
			"period_year":    "royalties.period_year",
			"period_month":   "royalties.period_month",
			"total_amount":   "royalties.total_amount",
			"due_date":       "royalties.due_date",
			"status":         "royalties.status",
			"created_at":     "royalties.created_at",
		},
		defaultSort: "royalties.due_date DESC",
		dateColumn:  "royalties.due_date",
		preloads:    []string{"Unit", "Franchisee"},
	})
}

func (s *RoyaltyService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Royalty, error) {
	return findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id, royaltyRelations...)
}

// Create records a manual statement for one unit and period.
func (s *RoyaltyService) Create(ctx context.Context, p scope.Principal, in RoyaltyInput) (*models.Royalty, error) {
	if in.UnitID == nil || in.PeriodYear == nil || in.PeriodMonth == nil || in.GrossRevenue == nil {
		return nil, NewValidationError("unit_id", "Unit, period and gross revenue are required")
	}

	var royalty *models.Royalty
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		unit, err := requireParent[models.Unit](ctx, tx, s.scopes, p, scope.Unit, *in.UnitID, "unit_id")
		if err != nil {
			return err
		}
		var franchise models.Franchise
		if err := tx.First(&franchise, "id = ?", unit.FranchiseID).Error; err != nil {
			return err
		}

		var exists int64
		if err := tx.Model(&models.Royalty{}).
			Where("unit_id = ? AND period_year = ? AND period_month = ?", unit.ID, *in.PeriodYear, *in.PeriodMonth).
			Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return domainError(CodeDuplicatePeriod, "A royalty statement for %s %04d-%02d already exists", unit.UnitCode, *in.PeriodYear, *in.PeriodMonth)
		}

		royalty = s.statement(&franchise, unit, *in.PeriodYear, *in.PeriodMonth, *in.GrossRevenue)
		if in.DueDate != nil {
			royalty.DueDate = *in.DueDate
		}
		set(&royalty.Notes, in.Notes)
		return s.insert(tx, royalty)
	})
	if err != nil {
		return nil, err
	}
	return reload[models.Royalty](ctx, s.db, royalty.ID, royaltyRelations...)
}

// Generate creates one statement per billable unit in the caller's scope for
// the period. Units that already have one, or earned nothing, are skipped.
// All statements are written in one transaction.
func (s *RoyaltyService) Generate(ctx context.Context, p scope.Principal, in GenerateRoyaltiesInput) (*GenerateRoyaltiesResult, error) {
	if in.PeriodMonth < 1 || in.PeriodMonth > 12 {
		return nil, NewValidationError("period_month", "Must be between 1 and 12")
	}
	start := time.Date(in.PeriodYear, time.Month(in.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	if !start.Before(time.Now().UTC()) {
		return nil, NewValidationError("period_month", "Royalties can only be generated for a past or current period")
	}
	end := start.AddDate(0, 1, 0)

	result := &GenerateRoyaltiesResult{Generated: []models.Royalty{}}
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		sc, err := s.scopes.WithDB(tx).Resolve(ctx, p, scope.Unit)
		if err != nil {
			return err
		}
		if sc.Empty() {
			return nil
		}

		query := sc.Apply(tx.Model(&models.Unit{})).Where("status IN ?", billableUnits).Preload("Franchise")
		if in.FranchiseID != nil {
			if _, err := requireParent[models.Franchise](ctx, tx, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
				return err
			}
			query = query.Where("franchise_id = ?", *in.FranchiseID)
		}
		var units []models.Unit
		if err := query.Order("unit_code").Find(&units).Error; err != nil {
			return err
		}

		for i := range units {
			unit := &units[i]
			var exists int64
			if err := tx.Model(&models.Royalty{}).
				Where("unit_id = ? AND period_year = ? AND period_month = ?", unit.ID, in.PeriodYear, in.PeriodMonth).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists > 0 {
				result.Skipped++
				continue
			}

			gross, err := grossRevenue(tx, unit.ID, start, end)
			if err != nil {
				return err
			}
			if !gross.IsPositive() {
				result.Skipped++
				continue
			}

			royalty := s.statement(unit.Franchise, unit, in.PeriodYear, in.PeriodMonth, gross)
			if err := s.insert(tx, royalty); err != nil {
				return err
			}
			result.Generated = append(result.Generated, *royalty)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RoyaltiesGenerated.Add(float64(len(result.Generated)))
	for _, royalty := range result.Generated {
		if royalty.FranchiseeID == nil {
			continue
		}
		publish(ctx, s.events, events.New(events.RoyaltyGenerated,
			"Royalty statement issued",
			fmt.Sprintf("Royalty %s for %04d-%02d: %s due %s", royalty.RoyaltyNumber, royalty.PeriodYear, royalty.PeriodMonth, royalty.TotalAmount.StringFixed(2), royalty.DueDate),
			map[string]interface{}{"royalty_id": royalty.ID},
			*royalty.FranchiseeID))
	}
	logrus.WithFields(logrus.Fields{
		"period":    fmt.Sprintf("%04d-%02d", in.PeriodYear, in.PeriodMonth),
		"generated": len(result.Generated),
		"skipped":   result.Skipped,
	}).Info("Royalty statements generated")

	return result, nil
}

// grossRevenue sums billable net revenue in [start, end). Amounts are summed
// as decimals in Go.
func grossRevenue(tx *gorm.DB, unitID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	var rows []models.Revenue
	err := tx.Select("net_amount").
		Where("unit_id = ? AND status IN ? AND revenue_date >= ? AND revenue_date < ?",
			unitID, billableRevenue, models.NewDate(start).String(), models.NewDate(end).String()).
		Find(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.NetAmount)
	}
	return total, nil
}

func (s *RoyaltyService) statement(franchise *models.Franchise, unit *models.Unit, year, month int, gross decimal.Decimal) *models.Royalty {
	royalty := &models.Royalty{
		FranchiseID:            unit.FranchiseID,
		FranchiseeID:           unit.FranchiseeID,
		UnitID:                 unit.ID,
		PeriodYear:             year,
		PeriodMonth:            month,
		GrossRevenue:           gross,
		RoyaltyPercentage:      franchise.RoyaltyPercentage,
		MarketingFeePercentage: franchise.MarketingFeePercentage,
		DueDate:                s.dueDate(year, month),
		Status:                 models.RoyaltyStatusPending,
	}
	royalty.Calculate()
	return royalty
}

// dueDate falls on the configured day of the month after the period.
func (s *RoyaltyService) dueDate(year, month int) models.Date {
	return models.NewDate(time.Date(year, time.Month(month)+1, s.dueDay, 0, 0, 0, 0, time.UTC))
}

func (s *RoyaltyService) insert(tx *gorm.DB, royalty *models.Royalty) error {
	err := database.CreateWithUniqueCode(tx, royalty, "royalty_number",
		func() (string, error) { return utils.GenerateCode("ROY", time.Now().UTC()) },
		func(code string) { royalty.RoyaltyNumber = code })
	if database.IsUniqueViolation(err) {
		return domainError(CodeDuplicatePeriod, "A royalty statement for %04d-%02d already exists", royalty.PeriodYear, royalty.PeriodMonth)
	}
	return err
}

func (s *RoyaltyService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in RoyaltyInput) (*models.Royalty, error) {
	royalty, err := findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id)
	if err != nil {
		return nil, err
	}
	if royalty.Status != models.RoyaltyStatusDraft && royalty.Status != models.RoyaltyStatusPending && royalty.Status != models.RoyaltyStatusDisputed {
		return nil, domainError(CodeInvalidTransition, "A %s royalty cannot be edited", royalty.Status)
	}

	set(&royalty.GrossRevenue, in.GrossRevenue)
	set(&royalty.DueDate, in.DueDate)
	set(&royalty.Notes, in.Notes)
	royalty.Calculate()

	if err := save(ctx, s.db, royalty); err != nil {
		return nil, fmt.Errorf("failed to update royalty: %w", err)
	}
	return reload[models.Royalty](ctx, s.db, royalty.ID, royaltyRelations...)
}

// Delete removes the statement for good so the period can be generated
// again. Paid statements are kept.
func (s *RoyaltyService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	royalty, err := findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id)
	if err != nil {
		return err
	}
	if royalty.Status == models.RoyaltyStatusPaid {
		return domainError(CodeNotDeletable, "Paid royalty %s cannot be deleted", royalty.RoyaltyNumber)
	}
	return s.db.WithContext(ctx).Unscoped().Delete(royalty).Error
}

func (s *RoyaltyService) MarkPaid(ctx context.Context, p scope.Principal, id uuid.UUID, in MarkPaidInput) (*models.Royalty, error) {
	royalty, err := findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id)
	if err != nil {
		return nil, err
	}
	if royalty.Status != models.RoyaltyStatusPending && royalty.Status != models.RoyaltyStatusOverdue {
		return nil, invalidTransition("royalty", royalty.Status, models.RoyaltyStatusPaid)
	}

	paidAt := time.Now().UTC()
	if in.PaidAt != nil {
		paidAt = in.PaidAt.Time
	}
	if err := s.settle(ctx, s.db, p, royalty, in.PaymentReference, paidAt, "bank_transfer"); err != nil {
		return nil, err
	}
	return reload[models.Royalty](ctx, s.db, royalty.ID, royaltyRelations...)
}

// settle marks the royalty paid and books the matching royalty payment
// transaction.
func (s *RoyaltyService) settle(ctx context.Context, db *gorm.DB, p scope.Principal, royalty *models.Royalty, reference string, paidAt time.Time, method string) error {
	from := royalty.Status
	return database.WithTransaction(db.WithContext(ctx), func(tx *gorm.DB) error {
		moved, err := updateFrom(ctx, tx, royalty, from, map[string]interface{}{
			"status":            models.RoyaltyStatusPaid,
			"paid_at":           paidAt,
			"payment_reference": reference,
		})
		if err != nil {
			return fmt.Errorf("failed to mark royalty paid: %w", err)
		}
		if !moved {
			return invalidTransition("royalty", from, models.RoyaltyStatusPaid)
		}

		txn := &models.Transaction{
			FranchiseID:     royalty.FranchiseID,
			UnitID:          &royalty.UnitID,
			RoyaltyID:       &royalty.ID,
			Type:            models.TransactionTypeRoyaltyPayment,
			Category:        "royalty",
			Amount:          royalty.TotalAmount,
			TransactionDate: models.NewDate(paidAt),
			PaymentMethod:   method,
			ReferenceNumber: reference,
			Description:     fmt.Sprintf("Royalty %s for %04d-%02d", royalty.RoyaltyNumber, royalty.PeriodYear, royalty.PeriodMonth),
			Status:          models.TransactionStatusCompleted,
			ProcessedAt:     &paidAt,
			CreatedBy:       p.UserID,
		}
		return database.CreateWithUniqueCode(tx, txn, "transaction_number",
			func() (string, error) { return utils.GenerateCode("TXN", paidAt) },
			func(code string) { txn.TransactionNumber = code })
	})
}

func (s *RoyaltyService) Dispute(ctx context.Context, p scope.Principal, id uuid.UUID, reason string) (*models.Royalty, error) {
	royalty, err := findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id)
	if err != nil {
		return nil, err
	}
	switch royalty.Status {
	case models.RoyaltyStatusPending, models.RoyaltyStatusOverdue, models.RoyaltyStatusPaid:
	default:
		return nil, invalidTransition("royalty", royalty.Status, models.RoyaltyStatusDisputed)
	}

	from := royalty.Status
	moved, err := updateFrom(ctx, s.db, royalty, from, map[string]interface{}{
		"status":         models.RoyaltyStatusDisputed,
		"dispute_reason": reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dispute royalty: %w", err)
	}
	if !moved {
		return nil, invalidTransition("royalty", from, models.RoyaltyStatusDisputed)
	}
	return reload[models.Royalty](ctx, s.db, royalty.ID, royaltyRelations...)
}

func (s *RoyaltyService) Cancel(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Royalty, error) {
	royalty, err := findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id)
	if err != nil {
		return nil, err
	}
	if royalty.Status == models.RoyaltyStatusPaid || royalty.Status == models.RoyaltyStatusCancelled {
		return nil, invalidTransition("royalty", royalty.Status, models.RoyaltyStatusCancelled)
	}

	from := royalty.Status
	moved, err := updateFrom(ctx, s.db, royalty, from, map[string]interface{}{"status": models.RoyaltyStatusCancelled})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel royalty: %w", err)
	}
	if !moved {
		return nil, invalidTransition("royalty", from, models.RoyaltyStatusCancelled)
	}
	return reload[models.Royalty](ctx, s.db, royalty.ID, royaltyRelations...)
}

func (s *RoyaltyService) UploadPaymentProof(ctx context.Context, p scope.Principal, id uuid.UUID, file *multipart.FileHeader) (*models.Royalty, error) {
	royalty, err := findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id)
	if err != nil {
		return nil, err
	}
	if royalty.Status == models.RoyaltyStatusCancelled {
		return nil, domainError(CodeInvalidTransition, "Cannot attach proof to a cancelled royalty")
	}

	upload, err := s.storage.Upload(ctx, file, FolderProofs)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(royalty).Update("payment_proof_url", upload.URL).Error; err != nil {
		s.storage.Delete(ctx, upload.Key)
		return nil, fmt.Errorf("failed to store payment proof: %w", err)
	}
	if old := s.storage.keyFromURL(royalty.PaymentProofURL); old != "" {
		s.storage.Delete(ctx, old)
	}
	return reload[models.Royalty](ctx, s.db, royalty.ID, royaltyRelations...)
}

// CreatePaymentIntent opens a card payment for the outstanding total.
func (s *RoyaltyService) CreatePaymentIntent(ctx context.Context, p scope.Principal, id uuid.UUID) (*PaymentIntent, error) {
	if s.payments == nil {
		return nil, domainError(CodeNotConfigured, "Online payments are not configured")
	}
	royalty, err := findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id)
	if err != nil {
		return nil, err
	}
	if royalty.Status != models.RoyaltyStatusPending && royalty.Status != models.RoyaltyStatusOverdue {
		return nil, domainError(CodeInvalidTransition, "A %s royalty cannot be paid", royalty.Status)
	}

	intent, err := s.payments.CreateIntent(ctx, royalty.TotalAmount, "", map[string]string{
		"royalty_id":     royalty.ID.String(),
		"royalty_number": royalty.RoyaltyNumber,
		"user_id":        p.UserID.String(),
	})
	if err != nil {
		return nil, domainError(CodePaymentFailed, "Could not start the payment: %v", err)
	}
	return intent, nil
}

// ConfirmPayment checks the intent with the gateway and settles the royalty
// when the funds were captured.
func (s *RoyaltyService) ConfirmPayment(ctx context.Context, p scope.Principal, id uuid.UUID, paymentIntentID string) (*models.Royalty, error) {
	if s.payments == nil {
		return nil, domainError(CodeNotConfigured, "Online payments are not configured")
	}
	royalty, err := findScoped[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, id)
	if err != nil {
		return nil, err
	}
	if royalty.Status == models.RoyaltyStatusPaid {
		return nil, domainError(CodeNothingToDo, "Royalty %s is already paid", royalty.RoyaltyNumber)
	}
	if royalty.Status != models.RoyaltyStatusPending && royalty.Status != models.RoyaltyStatusOverdue {
		return nil, invalidTransition("royalty", royalty.Status, models.RoyaltyStatusPaid)
	}

	intent, err := s.payments.GetIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, domainError(CodePaymentFailed, "Could not verify the payment: %v", err)
	}
	if intent.Metadata["royalty_id"] != royalty.ID.String() {
		return nil, NewValidationError("payment_intent_id", "The payment does not belong to this royalty")
	}
	if !intent.Succeeded() {
		return nil, domainError(CodePaymentFailed, "Payment %s is %s", intent.ID, intent.Status)
	}
	if intent.AmountCents < toCents(royalty.TotalAmount) {
		return nil, domainError(CodePaymentFailed, "Payment %s does not cover the royalty total", intent.ID)
	}

	if err := s.settle(ctx, s.db, p, royalty, intent.ID, time.Now().UTC(), "card"); err != nil {
		return nil, err
	}
	return reload[models.Royalty](ctx, s.db, royalty.ID, royaltyRelations...)
}

// MarkOverdue flips pending statements whose due date has passed. It
// returns how many changed.
func (s *RoyaltyService) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Royalty{}).
		Where("status = ? AND due_date < ?", models.RoyaltyStatusPending, models.NewDate(asOf).String()).
		Update("status", models.RoyaltyStatusOverdue)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark royalties overdue: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logrus.WithField("count", result.RowsAffected).Info("Royalties marked overdue")
	}
	return result.RowsAffected, nil
}
