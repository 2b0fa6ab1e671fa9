// internal/services/technical_request_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
)

type TechnicalRequestServiceSuite struct {
	serviceSuite
	svc        *TechnicalRequestService
	franchisor *models.User
	franchisee *models.User
	unit       *models.Unit
}

func TestTechnicalRequestServiceSuite(t *testing.T) {
	suite.Run(t, new(TechnicalRequestServiceSuite))
}

func (s *TechnicalRequestServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewTechnicalRequestService(s.db, s.scopes, s.pub, nil)
	s.franchisor = s.fx.User(models.RoleFranchisor)
	s.franchisee = s.fx.User(models.RoleFranchisee)
	s.unit = s.fx.Unit(s.fx.Franchise(s.franchisor), s.franchisee)
}

func (s *TechnicalRequestServiceSuite) TestFranchiseeFilesAgainstOwnUnit() {
	ticket, err := s.svc.Create(s.ctx, s.as(s.franchisee), TechnicalRequestInput{
		Title:       ptr("Fryer broken"),
		Description: ptr("Fryer two will not heat"),
		Category:    ptr("equipment"),
	})
	s.Require().NoError(err)

	s.Require().NotNil(ticket.UnitID)
	s.Equal(s.unit.ID, *ticket.UnitID)
	s.Equal(s.unit.FranchiseID, ticket.FranchiseID)
	s.Equal(models.TicketStatusOpen, ticket.Status)
	s.Equal(models.PriorityMedium, ticket.Priority)
	s.Regexp(`^TR-`, ticket.TicketNumber)
}

func (s *TechnicalRequestServiceSuite) TestFranchiseeWithoutUnitMustNameOne() {
	stray := s.fx.User(models.RoleFranchisee)

	_, err := s.svc.Create(s.ctx, s.as(stray), TechnicalRequestInput{Title: ptr("Help")})
	s.requireFieldError(err, "unit_id")
}

func (s *TechnicalRequestServiceSuite) TestAssignMovesOpenTicketToInProgress() {
	ticket := s.fx.Ticket(s.unit, s.franchisee)

	updated, err := s.svc.Assign(s.ctx, s.as(s.franchisor), ticket.ID, s.franchisor.ID)
	s.Require().NoError(err)
	s.Equal(models.TicketStatusInProgress, updated.Status)
	s.Equal(s.franchisor.ID, *updated.AssignedTo)
	s.Len(s.pub.ofType(events.TicketStatusChanged), 1)

	_, err = s.svc.Assign(s.ctx, s.as(s.franchisor), ticket.ID, s.franchisee.ID)
	s.requireDomainError(err, CodeInvalidAssignee)
}

func (s *TechnicalRequestServiceSuite) TestResolveTwiceFails() {
	ticket := s.fx.Ticket(s.unit, s.franchisee)

	_, err := s.svc.Resolve(s.ctx, s.as(s.franchisor), ticket.ID, "")
	s.requireFieldError(err, "resolution")

	resolved, err := s.svc.Resolve(s.ctx, s.as(s.franchisor), ticket.ID, "Replaced the power supply")
	s.Require().NoError(err)
	s.Equal(models.TicketStatusResolved, resolved.Status)
	s.NotNil(resolved.ResolvedAt)

	_, err = s.svc.Resolve(s.ctx, s.as(s.franchisor), ticket.ID, "again")
	s.requireDomainError(err, CodeInvalidTransition)
}

func (s *TechnicalRequestServiceSuite) TestStatusTransitions() {
	ticket := s.fx.Ticket(s.unit, s.franchisee)

	_, err := s.svc.UpdateStatus(s.ctx, s.as(s.franchisor), ticket.ID, models.TicketStatusClosed, "")
	s.requireDomainError(err, CodeInvalidTransition)

	_, err = s.svc.UpdateStatus(s.ctx, s.as(s.franchisor), ticket.ID, models.TicketStatusResolved, "Rebooted")
	s.Require().NoError(err)

	reopened, err := s.svc.UpdateStatus(s.ctx, s.as(s.franchisor), ticket.ID, models.TicketStatusInProgress, "")
	s.Require().NoError(err)
	s.Nil(reopened.ResolvedAt)

	_, err = s.svc.UpdateStatus(s.ctx, s.as(s.franchisor), ticket.ID, models.TicketStatusCancelled, "")
	s.Require().NoError(err)
	_, err = s.svc.UpdateStatus(s.ctx, s.as(s.franchisor), ticket.ID, models.TicketStatusOpen, "")
	s.requireDomainError(err, CodeInvalidTransition)
}

func (s *TechnicalRequestServiceSuite) TestEscalateUntilUrgent() {
	ticket := s.fx.Ticket(s.unit, s.franchisee)

	escalated, err := s.svc.Escalate(s.ctx, s.as(s.franchisee), ticket.ID)
	s.Require().NoError(err)
	s.Equal(models.PriorityHigh, escalated.Priority)
	s.NotNil(escalated.EscalatedAt)

	escalated, err = s.svc.Escalate(s.ctx, s.as(s.franchisee), ticket.ID)
	s.Require().NoError(err)
	s.Equal(models.PriorityUrgent, escalated.Priority)

	_, err = s.svc.Escalate(s.ctx, s.as(s.franchisee), ticket.ID)
	s.requireDomainError(err, CodeNothingToDo)

	sent := s.pub.ofType(events.TicketEscalated)
	s.Require().Len(sent, 2)
	s.Contains(sent[0].Recipients, s.franchisor.ID)
}

func (s *TechnicalRequestServiceSuite) TestRateRules() {
	ticket := s.fx.Ticket(s.unit, s.franchisee)

	_, err := s.svc.Rate(s.ctx, s.as(s.franchisee), ticket.ID, 5)
	s.requireDomainError(err, CodeInvalidTransition)

	_, err = s.svc.Resolve(s.ctx, s.as(s.franchisor), ticket.ID, "Fixed")
	s.Require().NoError(err)

	_, err = s.svc.Rate(s.ctx, s.as(s.franchisor), ticket.ID, 5)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.svc.Rate(s.ctx, s.as(s.franchisee), ticket.ID, 6)
	s.requireFieldError(err, "satisfaction_rating")

	rated, err := s.svc.Rate(s.ctx, s.as(s.franchisee), ticket.ID, 4)
	s.Require().NoError(err)
	s.Require().NotNil(rated.SatisfactionRating)
	s.Equal(4, *rated.SatisfactionRating)
}

func (s *TechnicalRequestServiceSuite) TestOtherFranchiseeCannotSeeTicket() {
	ticket := s.fx.Ticket(s.unit, s.franchisee)
	other := s.fx.User(models.RoleFranchisee)
	s.fx.Unit(s.fx.Franchise(s.franchisor), other)

	_, err := s.svc.Get(s.ctx, s.as(other), ticket.ID)
	s.ErrorIs(err, ErrForbidden)
}

func (s *TechnicalRequestServiceSuite) TestStaleResolveLosesRace() {
	ticket := s.fx.Ticket(s.unit, s.franchisee)
	stale := *ticket

	_, err := s.svc.Resolve(s.ctx, s.as(s.franchisor), ticket.ID, "Replaced the thermostat")
	s.Require().NoError(err)

	// A second writer that read the ticket while it was still open.
	_, err = s.svc.transition(s.ctx, &stale, models.TicketStatusResolved, "Reset the breaker")
	s.requireDomainError(err, CodeInvalidTransition)

	var stored models.TechnicalRequest
	s.Require().NoError(s.db.First(&stored, "id = ?", ticket.ID).Error)
	s.Equal("Replaced the thermostat", stored.Resolution)
	s.Len(s.pub.ofType(events.TicketStatusChanged), 1)
}
