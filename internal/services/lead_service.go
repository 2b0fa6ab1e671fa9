// internal/services/lead_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type LeadService struct {
	db     *gorm.DB
	scopes *scope.Resolver
	events events.Publisher
}

type LeadInput struct {
	FranchiseID       *uuid.UUID         `json:"franchise_id"`
	AssignedTo        *uuid.UUID         `json:"assigned_to"`
	FirstName         *string            `json:"first_name"`
	LastName          *string            `json:"last_name"`
	Email             *string            `json:"email"`
	Phone             *string            `json:"phone"`
	City              *string            `json:"city"`
	State             *string            `json:"state"`
	Country           *string            `json:"country"`
	Source            *string            `json:"source"`
	Status            *models.LeadStatus `json:"status"`
	Priority          *models.Priority   `json:"priority"`
	InvestmentBudget  *decimal.Decimal   `json:"investment_budget"`
	ExpectedCloseDate *models.Date       `json:"expected_close_date"`
}

func (in LeadInput) applyTo(l *models.Lead) {
	set(&l.FirstName, in.FirstName)
	set(&l.LastName, in.LastName)
	set(&l.Email, in.Email)
	set(&l.Phone, in.Phone)
	set(&l.City, in.City)
	set(&l.State, in.State)
	set(&l.Country, in.Country)
	set(&l.Source, in.Source)
	set(&l.Priority, in.Priority)
	set(&l.InvestmentBudget, in.InvestmentBudget)
	setPtr(&l.ExpectedCloseDate, in.ExpectedCloseDate)
}

var leadRelations = []string{"Franchise", "Assignee", "Creator"}

// Roles that may own a lead.
var leadAssigneeRoles = []models.UserRole{models.RoleBroker, models.RoleFranchisor, models.RoleAdmin}

func NewLeadService(db *gorm.DB, scopes *scope.Resolver, publisher events.Publisher) *LeadService {
	return &LeadService{db: db, scopes: scopes, events: publisher}
}

func (s *LeadService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Lead](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Lead,
		filters: map[string]string{
			"status":       "leads.status",
			"source":       "leads.source",
			"priority":     "leads.priority",
			"assigned_to":  "leads.assigned_to",
			"franchise_id": "leads.franchise_id",
			"created_by":   "leads.created_by",
		},
		search: []string{"leads.first_name", "leads.last_name", "leads.email", "leads.phone", "leads.city"},
		sorts: map[string]string{
			"first_name":          "leads.first_name",
			"last_name":           "leads.last_name",
			"status":              "leads.status",
			"priority":            "leads.priority",
			"investment_budget":   "leads.investment_budget",
			"expected_close_date": "leads.expected_close_date",
			"last_contacted_at":   "leads.last_contacted_at",
			"created_at":          "leads.created_at",
		},
		defaultSort: "leads.created_at DESC",
		dateColumn:  "leads.created_at",
		preloads:    leadRelations,
	})
}

func (s *LeadService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Lead, error) {
	return findScoped[models.Lead](ctx, s.db, s.scopes, p, scope.Lead, id, "Franchise", "Assignee", "Creator", "Notes.User")
}

// Create records a lead sourced by the calling broker. It is assigned to the
// creator unless assigned_to names someone else.
func (s *LeadService) Create(ctx context.Context, p scope.Principal, in LeadInput) (*models.Lead, error) {
	if err := requireRole(p, models.RoleBroker); err != nil {
		return nil, err
	}

	lead := &models.Lead{
		CreatedBy:  p.UserID,
		AssignedTo: &p.UserID,
		Status:     models.LeadStatusNew,
		Priority:   models.PriorityMedium,
	}
	in.applyTo(lead)
	if in.Status != nil && !in.Status.Closed() {
		lead.Status = *in.Status
	}

	if in.FranchiseID != nil {
		if _, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
			return nil, err
		}
		lead.FranchiseID = in.FranchiseID
	}
	if in.AssignedTo != nil && *in.AssignedTo != p.UserID {
		if _, err := loadUser(ctx, s.db, *in.AssignedTo, "assigned_to", leadAssigneeRoles...); err != nil {
			return nil, err
		}
		lead.AssignedTo = in.AssignedTo
	}

	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", translateWriteError(err))
	}

	if *lead.AssignedTo != p.UserID {
		s.publishAssigned(ctx, lead)
	}
	return reload[models.Lead](ctx, s.db, lead.ID, leadRelations...)
}

func (s *LeadService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in LeadInput) (*models.Lead, error) {
	lead, err := findScoped[models.Lead](ctx, s.db, s.scopes, p, scope.Lead, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(lead)

	if in.FranchiseID != nil {
		if _, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
			return nil, err
		}
		lead.FranchiseID = in.FranchiseID
	}
	if in.Status != nil && *in.Status != lead.Status {
		if err := stampLeadStatus(lead, *in.Status, ""); err != nil {
			return nil, err
		}
	}

	if err := save(ctx, s.db, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	return reload[models.Lead](ctx, s.db, lead.ID, leadRelations...)
}

func (s *LeadService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	lead, err := findScoped[models.Lead](ctx, s.db, s.scopes, p, scope.Lead, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(lead).Error
}

func (s *LeadService) Assign(ctx context.Context, p scope.Principal, id, assigneeID uuid.UUID) (*models.Lead, error) {
	lead, err := findScoped[models.Lead](ctx, s.db, s.scopes, p, scope.Lead, id)
	if err != nil {
		return nil, err
	}
	if lead.Status.Closed() {
		return nil, domainError(CodeInvalidTransition, "Closed leads cannot be reassigned")
	}
	if _, err := loadUser(ctx, s.db, assigneeID, "assigned_to", leadAssigneeRoles...); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(lead).Update("assigned_to", assigneeID).Error; err != nil {
		return nil, fmt.Errorf("failed to assign lead: %w", err)
	}
	lead.AssignedTo = &assigneeID
	if assigneeID != p.UserID {
		s.publishAssigned(ctx, lead)
	}
	return reload[models.Lead](ctx, s.db, lead.ID, leadRelations...)
}

func (s *LeadService) UpdateStatus(ctx context.Context, p scope.Principal, id uuid.UUID, status models.LeadStatus, lostReason string) (*models.Lead, error) {
	lead, err := findScoped[models.Lead](ctx, s.db, s.scopes, p, scope.Lead, id)
	if err != nil {
		return nil, err
	}
	from := lead.Status
	if err := stampLeadStatus(lead, status, lostReason); err != nil {
		return nil, err
	}
	if err := writeLeadStatus(ctx, s.db, lead, from); err != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}
	return reload[models.Lead](ctx, s.db, lead.ID, leadRelations...)
}

// Convert closes a qualified or later lead as won.
func (s *LeadService) Convert(ctx context.Context, p scope.Principal, id uuid.UUID, notes string) (*models.Lead, error) {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		lead, err := findScoped[models.Lead](ctx, tx, s.scopes, p, scope.Lead, id)
		if err != nil {
			return err
		}
		switch lead.Status {
		case models.LeadStatusQualified, models.LeadStatusProposalSent, models.LeadStatusNegotiating:
		default:
			return invalidTransition("lead", lead.Status, models.LeadStatusClosedWon)
		}

		from := lead.Status
		if err := stampLeadStatus(lead, models.LeadStatusClosedWon, ""); err != nil {
			return err
		}
		if err := writeLeadStatus(ctx, tx, lead, from); err != nil {
			return err
		}
		if notes == "" {
			return nil
		}
		return tx.Create(&models.LeadNote{LeadID: lead.ID, UserID: p.UserID, Note: notes}).Error
	})
	if err != nil {
		return nil, err
	}
	return reload[models.Lead](ctx, s.db, id, leadRelations...)
}

// MarkLost closes any open lead as lost with a reason.
func (s *LeadService) MarkLost(ctx context.Context, p scope.Principal, id uuid.UUID, reason string) (*models.Lead, error) {
	lead, err := findScoped[models.Lead](ctx, s.db, s.scopes, p, scope.Lead, id)
	if err != nil {
		return nil, err
	}
	if lead.Status.Closed() {
		return nil, invalidTransition("lead", lead.Status, models.LeadStatusClosedLost)
	}
	from := lead.Status
	if err := stampLeadStatus(lead, models.LeadStatusClosedLost, reason); err != nil {
		return nil, err
	}
	if err := writeLeadStatus(ctx, s.db, lead, from); err != nil {
		return nil, fmt.Errorf("failed to mark lead lost: %w", err)
	}
	return reload[models.Lead](ctx, s.db, lead.ID, leadRelations...)
}

// AddNote appends a note. Notes are never removed individually.
func (s *LeadService) AddNote(ctx context.Context, p scope.Principal, id uuid.UUID, note string) (*models.LeadNote, error) {
	lead, err := findScoped[models.Lead](ctx, s.db, s.scopes, p, scope.Lead, id)
	if err != nil {
		return nil, err
	}

	row := &models.LeadNote{LeadID: lead.ID, UserID: p.UserID, Note: note}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to add lead note: %w", err)
	}
	return reload[models.LeadNote](ctx, s.db, row.ID, "User")
}

// stampLeadStatus moves lead to status and stamps the matching timestamp.
// Closed leads never reopen.
func stampLeadStatus(lead *models.Lead, status models.LeadStatus, lostReason string) error {
	if lead.Status == status || lead.Status.Closed() {
		return invalidTransition("lead", lead.Status, status)
	}

	now := time.Now().UTC()
	switch status {
	case models.LeadStatusContacted:
		lead.LastContactedAt = &now
	case models.LeadStatusClosedWon:
		lead.ConvertedAt = &now
	case models.LeadStatusClosedLost:
		if lostReason == "" {
			return NewValidationError("lost_reason", "The lost reason field is required")
		}
		lead.LostReason = lostReason
	}
	lead.Status = status
	return nil
}

// writeLeadStatus persists the columns stampLeadStatus touches, guarded on
// the status the lead was read with.
func writeLeadStatus(ctx context.Context, db *gorm.DB, lead *models.Lead, from models.LeadStatus) error {
	moved, err := updateFrom(ctx, db, lead, from, map[string]interface{}{
		"status":            lead.Status,
		"last_contacted_at": lead.LastContactedAt,
		"converted_at":      lead.ConvertedAt,
		"lost_reason":       lead.LostReason,
	})
	if err != nil {
		return err
	}
	if !moved {
		return invalidTransition("lead", from, lead.Status)
	}
	return nil
}

func (s *LeadService) publishAssigned(ctx context.Context, lead *models.Lead) {
	publish(ctx, s.events, events.New(events.LeadAssigned,
		"Lead assigned to you",
		fmt.Sprintf("%s %s has been assigned to you", lead.FirstName, lead.LastName),
		map[string]interface{}{"lead_id": lead.ID},
		*lead.AssignedTo))
}
