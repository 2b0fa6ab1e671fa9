// internal/services/lead_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
)

type LeadServiceSuite struct {
	serviceSuite
	svc    *LeadService
	broker *models.User
}

func TestLeadServiceSuite(t *testing.T) {
	suite.Run(t, new(LeadServiceSuite))
}

func (s *LeadServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewLeadService(s.db, s.scopes, s.pub)
	s.broker = s.fx.User(models.RoleBroker)
}

func (s *LeadServiceSuite) TestBrokerCreatesOwnLead() {
	lead, err := s.svc.Create(s.ctx, s.as(s.broker), LeadInput{
		FirstName: ptr("Ada"),
		LastName:  ptr("Byron"),
		Email:     ptr("ada@example.test"),
		Source:    ptr("referral"),
		Status:    ptr(models.LeadStatusClosedWon),
	})
	s.Require().NoError(err)

	s.Equal(s.broker.ID, lead.CreatedBy)
	s.Equal(s.broker.ID, *lead.AssignedTo)
	s.Equal(models.LeadStatusNew, lead.Status)
	s.Empty(s.pub.ofType(events.LeadAssigned))
}

func (s *LeadServiceSuite) TestOnlyBrokersCreateLeads() {
	_, err := s.svc.Create(s.ctx, s.as(s.fx.User(models.RoleFranchisee)), LeadInput{FirstName: ptr("X")})
	s.ErrorIs(err, ErrForbidden)
}

func (s *LeadServiceSuite) TestBrokersAreIsolated() {
	mine := s.fx.Lead(s.broker)
	other := s.fx.User(models.RoleBroker)
	theirs := s.fx.Lead(other)

	page, err := s.svc.List(s.ctx, s.as(s.broker), listQuery(nil))
	s.Require().NoError(err)
	leads := page.Data.([]models.Lead)
	s.Require().Len(leads, 1)
	s.Equal(mine.ID, leads[0].ID)

	_, err = s.svc.Get(s.ctx, s.as(s.broker), theirs.ID)
	s.ErrorIs(err, ErrForbidden)
}

func (s *LeadServiceSuite) TestAssignNotifiesNewOwner() {
	lead := s.fx.Lead(s.broker)
	colleague := s.fx.User(models.RoleBroker)

	updated, err := s.svc.Assign(s.ctx, s.as(s.broker), lead.ID, colleague.ID)
	s.Require().NoError(err)
	s.Equal(colleague.ID, *updated.AssignedTo)

	sent := s.pub.ofType(events.LeadAssigned)
	s.Require().Len(sent, 1)
	s.Equal([]uuid.UUID{colleague.ID}, sent[0].Recipients)

	// The creator keeps access through created_by.
	_, err = s.svc.Get(s.ctx, s.as(s.broker), lead.ID)
	s.NoError(err)
}

func (s *LeadServiceSuite) TestConvertRequiresQualifiedLead() {
	lead := s.fx.Lead(s.broker)

	_, err := s.svc.Convert(s.ctx, s.as(s.broker), lead.ID, "")
	s.requireDomainError(err, CodeInvalidTransition)

	_, err = s.svc.UpdateStatus(s.ctx, s.as(s.broker), lead.ID, models.LeadStatusQualified, "")
	s.Require().NoError(err)

	won, err := s.svc.Convert(s.ctx, s.as(s.broker), lead.ID, "Signed the franchise agreement")
	s.Require().NoError(err)
	s.Equal(models.LeadStatusClosedWon, won.Status)
	s.NotNil(won.ConvertedAt)
	s.Equal(int64(1), s.count(&models.LeadNote{}, "lead_id = ?", lead.ID))
}

func (s *LeadServiceSuite) TestClosedLeadsNeverReopen() {
	lead := s.fx.Lead(s.broker)

	_, err := s.svc.MarkLost(s.ctx, s.as(s.broker), lead.ID, "")
	s.requireFieldError(err, "lost_reason")

	lost, err := s.svc.MarkLost(s.ctx, s.as(s.broker), lead.ID, "Budget too small")
	s.Require().NoError(err)
	s.Equal("Budget too small", lost.LostReason)

	_, err = s.svc.UpdateStatus(s.ctx, s.as(s.broker), lead.ID, models.LeadStatusContacted, "")
	s.requireDomainError(err, CodeInvalidTransition)

	_, err = s.svc.Assign(s.ctx, s.as(s.broker), lead.ID, s.broker.ID)
	s.requireDomainError(err, CodeInvalidTransition)
}

func (s *LeadServiceSuite) TestContactedStampsTimestamp() {
	lead := s.fx.Lead(s.broker)

	updated, err := s.svc.Update(s.ctx, s.as(s.broker), lead.ID, LeadInput{Status: ptr(models.LeadStatusContacted)})
	s.Require().NoError(err)
	s.NotNil(updated.LastContactedAt)
}

func (s *LeadServiceSuite) TestFranchisorSeesLeadsForOwnFranchises() {
	franchisor := s.fx.User(models.RoleFranchisor)
	franchise := s.fx.Franchise(franchisor)
	s.fx.Lead(s.broker, func(l *models.Lead) { l.FranchiseID = &franchise.ID })
	s.fx.Lead(s.broker)

	page, err := s.svc.List(s.ctx, s.as(franchisor), listQuery(nil))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)
}
