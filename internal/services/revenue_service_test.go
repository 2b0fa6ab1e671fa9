// internal/services/revenue_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type RevenueServiceSuite struct {
	serviceSuite
	svc        *RevenueService
	franchisor *models.User
	franchisee *models.User
	unit       *models.Unit
}

func (s *RevenueServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewRevenueService(s.db, s.scopes, s.pub)
	s.franchisor = s.fx.User(models.RoleFranchisor)
	s.franchisee = s.fx.User(models.RoleFranchisee)
	s.unit = s.fx.Unit(s.fx.Franchise(s.franchisor), s.franchisee)
}

func (s *RevenueServiceSuite) TestCreateDerivesFranchiseAndNet() {
	rev, err := s.svc.Create(s.ctx, s.as(s.franchisee), RevenueInput{
		UnitID:         &s.unit.ID,
		Type:           ptr("sales"),
		Amount:         ptr(dec("1000.00")),
		DiscountAmount: ptr(dec("50.00")),
		TaxAmount:      ptr(dec("80.00")),
		RevenueDate:    ptr(models.NewDate(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))),
		PaymentMethod:  ptr("card"),
	})
	s.Require().NoError(err)

	s.Equal(s.unit.FranchiseID, rev.FranchiseID)
	s.True(dec("870").Equal(rev.NetAmount))
	s.Equal(models.RevenueStatusPending, rev.Status)
	s.Equal("2024-03-10", rev.RevenueDate.String())
	s.Regexp(`^REV-\d{8}-[A-Z0-9]{6}$`, rev.RevenueNumber)
}

func (s *RevenueServiceSuite) TestCreateRejectsNegativeNet() {
	_, err := s.svc.Create(s.ctx, s.as(s.franchisee), RevenueInput{
		UnitID:         &s.unit.ID,
		Amount:         ptr(dec("10")),
		DiscountAmount: ptr(dec("20")),
		RevenueDate:    ptr(models.NewDate(time.Now())),
	})
	s.requireFieldError(err, "discount_amount")
}

func (s *RevenueServiceSuite) TestCreateOnForeignUnitIsForbidden() {
	other := s.fx.Unit(s.fx.Franchise(s.fx.User(models.RoleFranchisor)), nil)
	_, err := s.svc.Create(s.ctx, s.as(s.franchisee), RevenueInput{
		UnitID:      &other.ID,
		Amount:      ptr(dec("10")),
		RevenueDate: ptr(models.NewDate(time.Now())),
	})
	s.ErrorIs(err, ErrForbidden)
}

func (s *RevenueServiceSuite) TestDeleteVerifiedRevenueIsRefused() {
	rev := s.fx.Revenue(s.unit, s.franchisee, 500, time.Now(), func(r *models.Revenue) {
		r.Status = models.RevenueStatusVerified
	})

	err := s.svc.Delete(s.ctx, s.as(s.franchisor), rev.ID)
	s.requireDomainError(err, CodeNotDeletable)
	s.Equal(int64(1), s.count(&models.Revenue{}, "id = ?", rev.ID))
}

func (s *RevenueServiceSuite) TestDeletePendingRevenue() {
	rev := s.fx.Revenue(s.unit, s.franchisee, 500, time.Now())
	s.Require().NoError(s.svc.Delete(s.ctx, s.as(s.franchisor), rev.ID))
	s.Equal(int64(0), s.count(&models.Revenue{}, "id = ?", rev.ID))
}

func (s *RevenueServiceSuite) TestVerifyThenVerifyAgainFails() {
	rev := s.fx.Revenue(s.unit, s.franchisee, 500, time.Now())

	verified, err := s.svc.Verify(s.ctx, s.as(s.franchisor), rev.ID)
	s.Require().NoError(err)
	s.Equal(models.RevenueStatusVerified, verified.Status)
	s.Require().NotNil(verified.VerifiedBy)
	s.Equal(s.franchisor.ID, *verified.VerifiedBy)

	_, err = s.svc.Verify(s.ctx, s.as(s.franchisor), rev.ID)
	s.requireDomainError(err, CodeInvalidTransition)
}

func (s *RevenueServiceSuite) TestDisputePublishesToOwners() {
	rev := s.fx.Revenue(s.unit, s.franchisee, 500, time.Now())

	_, err := s.svc.Dispute(s.ctx, s.as(s.franchisor), rev.ID, "Amount does not match the POS report")
	s.Require().NoError(err)

	published := s.pub.ofType("revenue.disputed")
	s.Require().Len(published, 1)
	s.ElementsMatch(published[0].Recipients, []uuid.UUID{s.franchisee.ID, s.franchisor.ID})
}

func (s *RevenueServiceSuite) TestRefundChain() {
	rev := s.fx.Revenue(s.unit, s.franchisee, 300, time.Now(), func(r *models.Revenue) {
		r.Status = models.RevenueStatusVerified
	})

	first, err := s.svc.Refund(s.ctx, s.as(s.franchisor), rev.ID, RefundInput{Amount: ptr(dec("100")), Reason: "Damaged goods"})
	s.Require().NoError(err)
	s.True(dec("-100").Equal(first.Amount))
	s.Require().NotNil(first.ParentRevenueID)
	s.Equal(rev.ID, *first.ParentRevenueID)
	s.Regexp(`^RFD-`, first.RevenueNumber)

	var parent models.Revenue
	s.Require().NoError(s.db.First(&parent, "id = ?", rev.ID).Error)
	s.Equal(models.PaymentStatusRefunded, parent.PaymentStatus)

	_, err = s.svc.Refund(s.ctx, s.as(s.franchisor), rev.ID, RefundInput{Amount: ptr(dec("250"))})
	s.requireFieldError(err, "amount")

	rest, err := s.svc.Refund(s.ctx, s.as(s.franchisor), rev.ID, RefundInput{})
	s.Require().NoError(err)
	s.True(dec("-200").Equal(rest.Amount))

	_, err = s.svc.Refund(s.ctx, s.as(s.franchisor), rev.ID, RefundInput{})
	s.requireDomainError(err, CodeNothingToDo)

	_, err = s.svc.Refund(s.ctx, s.as(s.franchisor), first.ID, RefundInput{})
	s.requireDomainError(err, CodeInvalidTransition)
}

func (s *RevenueServiceSuite) TestRefundRequiresVerifiedRevenue() {
	rev := s.fx.Revenue(s.unit, s.franchisee, 300, time.Now())
	_, err := s.svc.Refund(s.ctx, s.as(s.franchisor), rev.ID, RefundInput{})
	s.requireDomainError(err, CodeInvalidTransition)
	s.Equal(int64(0), s.count(&models.Revenue{}, "parent_revenue_id = ?", rev.ID))
}

func (s *RevenueServiceSuite) TestListIsScopedPerFranchisee() {
	s.fx.Revenue(s.unit, s.franchisee, 100, time.Now())
	otherFranchisee := s.fx.User(models.RoleFranchisee)
	otherUnit := s.fx.Unit(s.fx.Franchise(s.fx.User(models.RoleFranchisor)), otherFranchisee)
	s.fx.Revenue(otherUnit, otherFranchisee, 100, time.Now())

	page, err := s.svc.List(s.ctx, s.as(s.franchisee), listQuery(nil))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	page, err = s.svc.List(s.ctx, s.as(s.fx.User(models.RoleBroker)), listQuery(nil))
	s.Require().NoError(err)
	s.Equal(int64(0), page.Total)
}

func TestRevenueServiceSuite(t *testing.T) {
	suite.Run(t, new(RevenueServiceSuite))
}
