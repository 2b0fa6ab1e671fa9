// internal/services/review_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type ReviewServiceSuite struct {
	serviceSuite
	svc        *ReviewService
	franchisor *models.User
	franchise  *models.Franchise
	broker     *models.User
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceSuite))
}

func (s *ReviewServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewReviewService(s.db, s.scopes)
	s.franchisor = s.fx.User(models.RoleFranchisor)
	s.franchise = s.fx.Franchise(s.franchisor)
	s.broker = s.fx.User(models.RoleBroker)
}

func (s *ReviewServiceSuite) review() *models.Review {
	review, err := s.svc.Create(s.ctx, s.as(s.broker), ReviewInput{
		FranchiseID: &s.franchise.ID,
		Rating:      ptr(4),
		Title:       ptr("Solid support"),
		Comment:     ptr("Onboarding was quick"),
	})
	s.Require().NoError(err)
	return review
}

func (s *ReviewServiceSuite) TestOneReviewPerFranchise() {
	review := s.review()
	s.Equal(models.ReviewStatusPending, review.Status)
	s.Equal(4, review.Rating)

	_, err := s.svc.Create(s.ctx, s.as(s.broker), ReviewInput{FranchiseID: &s.franchise.ID, Rating: ptr(5)})
	s.requireFieldError(err, "franchise_id")

	_, err = s.svc.Create(s.ctx, s.as(s.broker), ReviewInput{FranchiseID: ptr(uuid.New()), Rating: ptr(5)})
	s.requireFieldError(err, "franchise_id")
}

func (s *ReviewServiceSuite) TestFranchisorsCannotReview() {
	_, err := s.svc.Create(s.ctx, s.as(s.franchisor), ReviewInput{FranchiseID: &s.franchise.ID, Rating: ptr(5)})
	s.ErrorIs(err, ErrForbidden)
}

func (s *ReviewServiceSuite) TestModeration() {
	review := s.review()

	_, err := s.svc.Moderate(s.ctx, s.as(s.broker), review.ID, models.ReviewStatusApproved)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.svc.Moderate(s.ctx, s.as(s.franchisor), review.ID, models.ReviewStatusPending)
	s.requireFieldError(err, "status")

	approved, err := s.svc.Moderate(s.ctx, s.as(s.franchisor), review.ID, models.ReviewStatusApproved)
	s.Require().NoError(err)
	s.Equal(models.ReviewStatusApproved, approved.Status)
	s.Equal(s.franchisor.ID, *approved.ModeratedBy)

	_, err = s.svc.Moderate(s.ctx, s.as(s.franchisor), review.ID, models.ReviewStatusRejected)
	s.requireDomainError(err, CodeInvalidTransition)

	other := s.fx.User(models.RoleFranchisor)
	_, err = s.svc.Moderate(s.ctx, s.as(other), review.ID, models.ReviewStatusRejected)
	s.ErrorIs(err, ErrForbidden)
}

func (s *ReviewServiceSuite) TestEditingSendsReviewBackToModeration() {
	review := s.review()
	_, err := s.svc.Moderate(s.ctx, s.as(s.franchisor), review.ID, models.ReviewStatusApproved)
	s.Require().NoError(err)

	edited, err := s.svc.Update(s.ctx, s.as(s.broker), review.ID, ReviewInput{Rating: ptr(2)})
	s.Require().NoError(err)
	s.Equal(2, edited.Rating)
	s.Equal(models.ReviewStatusPending, edited.Status)
	s.Nil(edited.ModeratedBy)

	_, err = s.svc.Update(s.ctx, s.as(s.franchisor), review.ID, ReviewInput{Rating: ptr(5)})
	s.ErrorIs(err, ErrForbidden)
}

func (s *ReviewServiceSuite) TestDelete() {
	review := s.review()

	s.ErrorIs(s.svc.Delete(s.ctx, s.as(s.franchisor), review.ID), ErrForbidden)
	s.Require().NoError(s.svc.Delete(s.ctx, s.as(s.broker), review.ID))
	s.Zero(s.count(&models.Review{}, "id = ?", review.ID))
}
