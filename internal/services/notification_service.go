// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/metrics"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

// Events that are also sent by e-mail. Escalations additionally go out by SMS.
var emailedEvents = map[string]bool{
	events.FranchiseeProvisioned: true,
	events.TicketEscalated:       true,
	events.RoyaltyGenerated:      true,
	events.RevenueDisputed:       true,
}

type NotificationService struct {
	db          *gorm.DB
	scopes      *scope.Resolver
	mailer      Mailer
	texter      Texter
	frontendURL string
}

func NewNotificationService(db *gorm.DB, scopes *scope.Resolver, mailer Mailer, texter Texter, frontendURL string) *NotificationService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	if texter == nil {
		texter = LogTexter{}
	}
	return &NotificationService{
		db:          db,
		scopes:      scopes,
		mailer:      mailer,
		texter:      texter,
		frontendURL: frontendURL,
	}
}

// HandleEvent writes one notification row per recipient, then delivers
// e-mail and SMS copies best-effort.
func (s *NotificationService) HandleEvent(ctx context.Context, e events.Event) error {
	if len(e.Recipients) == 0 {
		return nil
	}

	rows := make([]models.Notification, 0, len(e.Recipients))
	for _, recipient := range e.Recipients {
		rows = append(rows, models.Notification{
			NotifiableType: models.NotifiableUser,
			NotifiableID:   recipient,
			Type:           e.Type,
			Title:          e.Title,
			Message:        e.Message,
			Data:           models.JSONB(e.Data),
		})
	}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		metrics.NotificationsDelivered.WithLabelValues("database", "failed").Add(float64(len(rows)))
		return fmt.Errorf("failed to store notifications: %w", err)
	}
	metrics.NotificationsDelivered.WithLabelValues("database", "sent").Add(float64(len(rows)))

	if !emailedEvents[e.Type] {
		return nil
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", e.Recipients).Find(&users).Error; err != nil {
		logrus.WithError(err).WithField("event_type", e.Type).Warn("Failed to load notification recipients")
		return nil
	}

	for _, user := range users {
		s.deliverEmail(ctx, user, e)
		if e.Type == events.TicketEscalated && user.Phone != "" {
			s.deliverSMS(ctx, user, e)
		}
	}
	return nil
}

func (s *NotificationService) deliverEmail(ctx context.Context, user models.User, e events.Event) {
	body, err := renderTemplate(emailLayout, map[string]interface{}{
		"Name":    user.Name,
		"Title":   e.Title,
		"Message": e.Message,
		"URL":     s.frontendURL,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to render email template")
		return
	}

	outcome := "sent"
	if err := s.mailer.Send(ctx, user.Email, e.Title, body, e.Message); err != nil {
		outcome = "failed"
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": user.ID, "event_type": e.Type}).Warn("Failed to send notification email")
	}
	metrics.NotificationsDelivered.WithLabelValues("email", outcome).Inc()
}

func (s *NotificationService) deliverSMS(ctx context.Context, user models.User, e events.Event) {
	outcome := "sent"
	if err := s.texter.Send(ctx, user.Phone, e.Title+": "+e.Message); err != nil {
		outcome = "failed"
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": user.ID, "event_type": e.Type}).Warn("Failed to send notification SMS")
	}
	metrics.NotificationsDelivered.WithLabelValues("sms", outcome).Inc()
}

func (s *NotificationService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Notification](ctx, s.db, s.scopes, p, q, listOptions{
		resource:    scope.Notification,
		filters:     map[string]string{"type": "notifications.type"},
		search:      []string{"notifications.title", "notifications.message"},
		sorts:       map[string]string{"created_at": "notifications.created_at", "read_at": "notifications.read_at"},
		defaultSort: "notifications.created_at DESC",
		dateColumn:  "notifications.created_at",
		refine: func(query *gorm.DB, q utils.ListQuery) *gorm.DB {
			switch q.Filters["unread"] {
			case "true", "1":
				return query.Where("notifications.read_at IS NULL")
			case "false", "0":
				return query.Where("notifications.read_at IS NOT NULL")
			}
			return query
		},
	})
}

func (s *NotificationService) MarkRead(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Notification, error) {
	n, err := findScoped[models.Notification](ctx, s.db, s.scopes, p, scope.Notification, id)
	if err != nil {
		return nil, err
	}
	if n.ReadAt != nil {
		return n, nil
	}
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(n).Update("read_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	n.ReadAt = &now
	return n, nil
}

// MarkAllRead returns the number of notifications it changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, p scope.Principal) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("notifiable_type = ? AND notifiable_id = ? AND read_at IS NULL", models.NotifiableUser, p.UserID).
		Update("read_at", time.Now().UTC())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, p scope.Principal) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("notifiable_type = ? AND notifiable_id = ? AND read_at IS NULL", models.NotifiableUser, p.UserID).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	n, err := findScoped[models.Notification](ctx, s.db, s.scopes, p, scope.Notification, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(n).Error
}

func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const emailLayout = `
<!DOCTYPE html>
<html>
<body>
	<h2>{{.Title}}</h2>
	<p>Hello {{.Name}},</p>
	<p>{{.Message}}</p>
	{{if .URL}}<a href="{{.URL}}">Open the back office</a>{{end}}
	<p>Franchise Back Office</p>
</body>
</html>`
