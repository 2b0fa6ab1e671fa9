// internal/events/events.go

// Package events carries domain events from services to the notification
// consumer after the originating transaction commits.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/franchise-backoffice/internal/metrics"
)

const (
	FranchiseeProvisioned = "franchisee.provisioned"
	TicketStatusChanged   = "technical_request.status_changed"
	TicketEscalated       = "technical_request.escalated"
	TaskAssigned          = "task.assigned"
	LeadAssigned          = "lead.assigned"
	RoyaltyGenerated      = "royalty.generated"
	RevenueDisputed       = "revenue.disputed"
)

type Event struct {
	ID         uuid.UUID              `json:"id"`
	Type       string                 `json:"type"`
	Recipients []uuid.UUID            `json:"recipients"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// New builds an event with a fresh id. Nil recipients are dropped.
func New(eventType, title, message string, data map[string]interface{}, recipients ...uuid.UUID) Event {
	e := Event{
		ID:         uuid.New(),
		Type:       eventType,
		Title:      title,
		Message:    message,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
	seen := map[uuid.UUID]bool{}
	for _, r := range recipients {
		if r == uuid.Nil || seen[r] {
			continue
		}
		seen[r] = true
		e.Recipients = append(e.Recipients, r)
	}
	return e
}

// Handler consumes one event.
type Handler func(ctx context.Context, e Event) error

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Sync runs the handler inline. Handler errors are logged, never returned.
type Sync struct {
	handler Handler
}

func NewSync(h Handler) *Sync {
	return &Sync{handler: h}
}

func (s *Sync) Publish(ctx context.Context, e Event) error {
	metrics.EventsPublished.WithLabelValues(e.Type, "sync").Inc()
	handle(ctx, s.handler, e)
	return nil
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }

func handle(ctx context.Context, h Handler, e Event) {
	if h == nil || len(e.Recipients) == 0 {
		return
	}
	if err := h(ctx, e); err != nil {
		metrics.EventHandlerFailures.WithLabelValues(e.Type).Inc()
		logrus.WithError(err).WithFields(logrus.Fields{
			"event_id":   e.ID,
			"event_type": e.Type,
		}).Error("Event handler failed")
	}
}
