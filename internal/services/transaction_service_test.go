// internal/services/transaction_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type TransactionServiceSuite struct {
	serviceSuite
	svc        *TransactionService
	franchisor *models.User
	franchisee *models.User
	franchise  *models.Franchise
	unit       *models.Unit
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceSuite))
}

func (s *TransactionServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewTransactionService(s.db, s.scopes)
	s.franchisor = s.fx.User(models.RoleFranchisor)
	s.franchisee = s.fx.User(models.RoleFranchisee)
	s.franchise = s.fx.Franchise(s.franchisor)
	s.unit = s.fx.Unit(s.franchise, s.franchisee)
}

func (s *TransactionServiceSuite) expense() *models.Transaction {
	txn, err := s.svc.Create(s.ctx, s.as(s.franchisee), TransactionInput{
		UnitID:   &s.unit.ID,
		Type:     ptr(models.TransactionTypeExpense),
		Category: ptr("supplies"),
		Amount:   ptr(dec("245.50")),
	})
	s.Require().NoError(err)
	return txn
}

func (s *TransactionServiceSuite) TestCreateDerivesFranchiseFromUnit() {
	txn := s.expense()

	s.Equal(s.franchise.ID, txn.FranchiseID)
	s.Equal(models.TransactionStatusPending, txn.Status)
	s.Regexp(`^TXN-\d{8}-`, txn.TransactionNumber)
	s.Equal(s.franchisee.ID, txn.CreatedBy)
}

func (s *TransactionServiceSuite) TestFranchiseeMustNameUnit() {
	_, err := s.svc.Create(s.ctx, s.as(s.franchisee), TransactionInput{
		FranchiseID: &s.franchise.ID,
		Type:        ptr(models.TransactionTypeIncome),
		Amount:      ptr(dec("10")),
	})
	s.requireFieldError(err, "unit_id")
}

func (s *TransactionServiceSuite) TestUnitMustMatchFranchise() {
	other := s.fx.Franchise(s.franchisor)

	_, err := s.svc.Create(s.ctx, s.as(s.franchisor), TransactionInput{
		FranchiseID: &other.ID,
		UnitID:      &s.unit.ID,
		Type:        ptr(models.TransactionTypeIncome),
		Amount:      ptr(dec("10")),
	})
	s.requireFieldError(err, "unit_id")
}

func (s *TransactionServiceSuite) TestCompleteIsFinal() {
	txn := s.expense()

	completed, err := s.svc.Complete(s.ctx, s.as(s.franchisee), txn.ID)
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusCompleted, completed.Status)
	s.NotNil(completed.ProcessedAt)

	_, err = s.svc.Cancel(s.ctx, s.as(s.franchisee), txn.ID)
	s.requireDomainError(err, CodeInvalidTransition)

	_, err = s.svc.Update(s.ctx, s.as(s.franchisee), txn.ID, TransactionInput{Amount: ptr(dec("1"))})
	s.requireDomainError(err, CodeInvalidTransition)

	err = s.svc.Delete(s.ctx, s.as(s.franchisee), txn.ID)
	s.requireDomainError(err, CodeNotDeletable)
}

func (s *TransactionServiceSuite) TestCancelledCanBeDeleted() {
	txn := s.expense()

	cancelled, err := s.svc.Cancel(s.ctx, s.as(s.franchisor), txn.ID)
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusCancelled, cancelled.Status)
	s.Nil(cancelled.ProcessedAt)

	s.Require().NoError(s.svc.Delete(s.ctx, s.as(s.franchisor), txn.ID))
	s.Zero(s.count(&models.Transaction{}, "id = ?", txn.ID))
}

func (s *TransactionServiceSuite) TestRoyaltyMustBelongToFranchise() {
	other := s.fx.Franchise(s.franchisor)
	royalty := &models.Royalty{
		RoyaltyNumber: "ROY-T-000001",
		FranchiseID:   other.ID,
		UnitID:        s.fx.Unit(other, nil).ID,
		PeriodYear:    2024,
		PeriodMonth:   3,
		GrossRevenue:  dec("1000"),
		RoyaltyAmount: dec("60"),
		TotalAmount:   dec("60"),
		DueDate:       models.NewDate(mustTime("2024-04-15T00:00:00Z")),
		Status:        models.RoyaltyStatusPending,
	}
	s.Require().NoError(s.db.Create(royalty).Error)

	_, err := s.svc.Create(s.ctx, s.as(s.franchisor), TransactionInput{
		UnitID:    &s.unit.ID,
		RoyaltyID: &royalty.ID,
		Type:      ptr(models.TransactionTypeRoyaltyPayment),
		Amount:    ptr(dec("100")),
	})
	s.requireFieldError(err, "royalty_id")
}
