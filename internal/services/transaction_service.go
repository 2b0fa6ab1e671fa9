// internal/services/transaction_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type TransactionService struct {
	db     *gorm.DB
	scopes *scope.Resolver
}

type TransactionInput struct {
	FranchiseID     *uuid.UUID              `json:"franchise_id"`
	UnitID          *uuid.UUID              `json:"unit_id"`
	RoyaltyID       *uuid.UUID              `json:"royalty_id"`
	Type            *models.TransactionType `json:"type"`
	Category        *string                 `json:"category"`
	Amount          *decimal.Decimal        `json:"amount"`
	TransactionDate *models.Date            `json:"transaction_date"`
	PaymentMethod   *string                 `json:"payment_method"`
	ReferenceNumber *string                 `json:"reference_number"`
	Description     *string                 `json:"description"`
}

func (in TransactionInput) applyTo(t *models.Transaction) {
	set(&t.Type, in.Type)
	set(&t.Category, in.Category)
	set(&t.Amount, in.Amount)
	set(&t.TransactionDate, in.TransactionDate)
	set(&t.PaymentMethod, in.PaymentMethod)
	set(&t.ReferenceNumber, in.ReferenceNumber)
	set(&t.Description, in.Description)
}

var transactionRelations = []string{"Franchise", "Unit"}

func NewTransactionService(db *gorm.DB, scopes *scope.Resolver) *TransactionService {
	return &TransactionService{db: db, scopes: scopes}
}

func (s *TransactionService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Transaction](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Transaction,
		filters: map[string]string{
			"type":           "transactions.type",
			"status":         "transactions.status",
			"payment_method": "transactions.payment_method",
			"franchise_id":   "transactions.franchise_id",
			"unit_id":        "transactions.unit_id",
			"royalty_id":     "transactions.royalty_id",
		},
		search: []string{"transactions.transaction_number", "transactions.category", "transactions.reference_number", "transactions.description"},
		sorts: map[string]string{
			"transaction_number": "transactions.transaction_number",
			"transaction_date":   "transactions.transaction_date",
			"amount":             "transactions.amount",
			"status":             "transactions.status",
			"created_at":         "transactions.created_at",
		},
		defaultSort: "transactions.transaction_date DESC",
		dateColumn:  "transactions.transaction_date",
		preloads:    []string{"Unit"},
	})
}

func (s *TransactionService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Transaction, error) {
	return findScoped[models.Transaction](ctx, s.db, s.scopes, p, scope.Transaction, id, transactionRelations...)
}

// Create books a pending transaction. A unit fixes the franchise; franchisees
// must name one of their own units.
func (s *TransactionService) Create(ctx context.Context, p scope.Principal, in TransactionInput) (*models.Transaction, error) {
	txn := &models.Transaction{
		Status:          models.TransactionStatusPending,
		TransactionDate: models.NewDate(time.Now().UTC()),
		CreatedBy:       p.UserID,
	}
	in.applyTo(txn)

	switch {
	case in.UnitID != nil:
		unit, err := requireParent[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, *in.UnitID, "unit_id")
		if err != nil {
			return nil, err
		}
		if in.FranchiseID != nil && *in.FranchiseID != unit.FranchiseID {
			return nil, NewValidationError("unit_id", "The unit does not belong to the selected franchise")
		}
		txn.UnitID = &unit.ID
		txn.FranchiseID = unit.FranchiseID
	case p.Role == models.RoleFranchisee:
		return nil, NewValidationError("unit_id", "The unit id field is required")
	case in.FranchiseID != nil:
		if _, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
			return nil, err
		}
		txn.FranchiseID = *in.FranchiseID
	default:
		return nil, NewValidationError("franchise_id", "The franchise id field is required")
	}

	if in.RoyaltyID != nil {
		royalty, err := requireParent[models.Royalty](ctx, s.db, s.scopes, p, scope.Royalty, *in.RoyaltyID, "royalty_id")
		if err != nil {
			return nil, err
		}
		if royalty.FranchiseID != txn.FranchiseID {
			return nil, NewValidationError("royalty_id", "The royalty does not belong to the selected franchise")
		}
		txn.RoyaltyID = &royalty.ID
	}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return database.CreateWithUniqueCode(tx, txn, "transaction_number",
			func() (string, error) { return utils.GenerateCode("TXN", time.Now().UTC()) },
			func(code string) { txn.TransactionNumber = code })
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", translateWriteError(err))
	}
	return reload[models.Transaction](ctx, s.db, txn.ID, transactionRelations...)
}

func (s *TransactionService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in TransactionInput) (*models.Transaction, error) {
	txn, err := findScoped[models.Transaction](ctx, s.db, s.scopes, p, scope.Transaction, id)
	if err != nil {
		return nil, err
	}
	if txn.Status != models.TransactionStatusPending {
		return nil, domainError(CodeInvalidTransition, "Only pending transactions can be edited")
	}
	in.applyTo(txn)
	if err := save(ctx, s.db, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return reload[models.Transaction](ctx, s.db, txn.ID, transactionRelations...)
}

func (s *TransactionService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	txn, err := findScoped[models.Transaction](ctx, s.db, s.scopes, p, scope.Transaction, id)
	if err != nil {
		return err
	}
	if txn.Status == models.TransactionStatusCompleted {
		return domainError(CodeNotDeletable, "Completed transactions cannot be deleted")
	}
	return s.db.WithContext(ctx).Delete(txn).Error
}

func (s *TransactionService) Complete(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Transaction, error) {
	return s.transition(ctx, p, id, models.TransactionStatusCompleted)
}

func (s *TransactionService) Cancel(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Transaction, error) {
	return s.transition(ctx, p, id, models.TransactionStatusCancelled)
}

func (s *TransactionService) transition(ctx context.Context, p scope.Principal, id uuid.UUID, to models.TransactionStatus) (*models.Transaction, error) {
	txn, err := findScoped[models.Transaction](ctx, s.db, s.scopes, p, scope.Transaction, id)
	if err != nil {
		return nil, err
	}
	if txn.Status != models.TransactionStatusPending {
		return nil, invalidTransition("transaction", txn.Status, to)
	}

	updates := map[string]interface{}{"status": to}
	if to == models.TransactionStatusCompleted {
		updates["processed_at"] = time.Now()
	}
	moved, err := updateFrom(ctx, s.db, txn, models.TransactionStatusPending, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if !moved {
		return nil, invalidTransition("transaction", models.TransactionStatusPending, to)
	}
	return reload[models.Transaction](ctx, s.db, txn.ID, transactionRelations...)
}
