// internal/services/notification_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
)

type NotificationServiceSuite struct {
	serviceSuite
	svc    *NotificationService
	mailed []string
	texted []string
	user   *models.User
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.mailed, s.texted = nil, nil

	mailer := &MockMailer{SendFunc: func(_ context.Context, to, _, htmlBody, _ string) error {
		s.mailed = append(s.mailed, to)
		s.Contains(htmlBody, "https://backoffice.example.test")
		return nil
	}}
	texter := &MockTexter{SendFunc: func(_ context.Context, phone, _ string) error {
		s.texted = append(s.texted, phone)
		return nil
	}}
	s.svc = NewNotificationService(s.db, s.scopes, mailer, texter, "https://backoffice.example.test")
	s.user = s.fx.User(models.RoleFranchisee, func(u *models.User) { u.Phone = "+15550100" })
}

func (s *NotificationServiceSuite) TestHandleEventStoresOneRowPerRecipient() {
	other := s.fx.User(models.RoleFranchisor)
	e := events.New(events.TaskAssigned, "Task assigned", "Count the stock", nil, s.user.ID, other.ID)

	s.Require().NoError(s.svc.HandleEvent(s.ctx, e))

	s.Equal(int64(1), s.count(&models.Notification{}, "notifiable_id = ?", s.user.ID))
	s.Equal(int64(1), s.count(&models.Notification{}, "notifiable_id = ?", other.ID))
	s.Empty(s.mailed, "task assignments are in-app only")
}

func (s *NotificationServiceSuite) TestEscalationsAreMailedAndTexted() {
	silent := s.fx.User(models.RoleFranchisor)
	e := events.New(events.TicketEscalated, "Escalated", "TR-1 is urgent", nil, s.user.ID, silent.ID)

	s.Require().NoError(s.svc.HandleEvent(s.ctx, e))

	s.ElementsMatch([]string{s.user.Email, silent.Email}, s.mailed)
	s.Equal([]string{"+15550100"}, s.texted)
}

func (s *NotificationServiceSuite) TestDeliveryFailureDoesNotFailEvent() {
	s.svc.mailer = &MockMailer{SendFunc: func(context.Context, string, string, string, string) error {
		return errors.New("throttled")
	}}
	e := events.New(events.RoyaltyGenerated, "Royalty statement", "March is due", nil, s.user.ID)

	s.NoError(s.svc.HandleEvent(s.ctx, e))
	s.Equal(int64(1), s.count(&models.Notification{}, "notifiable_id = ?", s.user.ID))
}

func (s *NotificationServiceSuite) TestReadState() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.svc.HandleEvent(s.ctx, events.New(events.LeadAssigned, "Lead", "New lead", nil, s.user.ID)))
	}
	s.Require().NoError(s.svc.HandleEvent(s.ctx, events.New(events.LeadAssigned, "Lead", "Not yours", nil, uuid.New())))

	page, err := s.svc.List(s.ctx, s.as(s.user), listQuery(nil))
	s.Require().NoError(err)
	s.Equal(int64(3), page.Total)
	first := page.Data.([]models.Notification)[0]

	read, err := s.svc.MarkRead(s.ctx, s.as(s.user), first.ID)
	s.Require().NoError(err)
	s.NotNil(read.ReadAt)

	unread, err := s.svc.UnreadCount(s.ctx, s.as(s.user))
	s.Require().NoError(err)
	s.Equal(int64(2), unread)

	changed, err := s.svc.MarkAllRead(s.ctx, s.as(s.user))
	s.Require().NoError(err)
	s.Equal(int64(2), changed)

	unread, err = s.svc.UnreadCount(s.ctx, s.as(s.user))
	s.Require().NoError(err)
	s.Zero(unread)
}

func (s *NotificationServiceSuite) TestAdminCannotReadOthersNotifications() {
	s.Require().NoError(s.svc.HandleEvent(s.ctx, events.New(events.LeadAssigned, "Lead", "New lead", nil, s.user.ID)))
	var n models.Notification
	s.Require().NoError(s.db.First(&n).Error)

	admin := s.fx.User(models.RoleAdmin)
	_, err := s.svc.MarkRead(s.ctx, s.as(admin), n.ID)
	s.ErrorIs(err, ErrForbidden)
}
