// internal/services/technical_request_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

var ticketTransitions = map[models.TechnicalRequestStatus][]models.TechnicalRequestStatus{
	models.TicketStatusOpen:        {models.TicketStatusInProgress, models.TicketStatusPendingInfo, models.TicketStatusResolved, models.TicketStatusCancelled},
	models.TicketStatusInProgress:  {models.TicketStatusOpen, models.TicketStatusPendingInfo, models.TicketStatusResolved, models.TicketStatusCancelled},
	models.TicketStatusPendingInfo: {models.TicketStatusInProgress, models.TicketStatusResolved, models.TicketStatusCancelled},
	models.TicketStatusResolved:    {models.TicketStatusClosed, models.TicketStatusInProgress},
}

// Roles that can work a ticket.
var ticketAssigneeRoles = []models.UserRole{models.RoleAdmin, models.RoleFranchisor, models.RoleBroker}

type TechnicalRequestService struct {
	db      *gorm.DB
	scopes  *scope.Resolver
	events  events.Publisher
	storage *StorageService
}

type TechnicalRequestInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Priority    *models.Priority `json:"priority"`
	FranchiseID *uuid.UUID       `json:"franchise_id"`
	UnitID      *uuid.UUID       `json:"unit_id"`
	AssignedTo  *uuid.UUID       `json:"assigned_to"`
}

func (in TechnicalRequestInput) applyTo(t *models.TechnicalRequest) {
	set(&t.Title, in.Title)
	set(&t.Description, in.Description)
	set(&t.Category, in.Category)
	set(&t.Priority, in.Priority)
}

var ticketRelations = []string{"Requester", "Assignee", "Franchise", "Unit"}

func NewTechnicalRequestService(db *gorm.DB, scopes *scope.Resolver, publisher events.Publisher, storage *StorageService) *TechnicalRequestService {
	return &TechnicalRequestService{db: db, scopes: scopes, events: publisher, storage: storage}
}

func (s *TechnicalRequestService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.TechnicalRequest,
		filters: map[string]string{
			"status":       "technical_requests.status",
			"priority":     "technical_requests.priority",
			"category":     "technical_requests.category",
			"assigned_to":  "technical_requests.assigned_to",
			"requester_id": "technical_requests.requester_id",
			"franchise_id": "technical_requests.franchise_id",
			"unit_id":      "technical_requests.unit_id",
		},
		search: []string{"technical_requests.ticket_number", "technical_requests.title", "technical_requests.description"},
		sorts: map[string]string{
			"ticket_number": "technical_requests.ticket_number",
			"title":         "technical_requests.title",
			"status":        "technical_requests.status",
			"priority":      "technical_requests.priority",
			"resolved_at":   "technical_requests.resolved_at",
			"created_at":    "technical_requests.created_at",
		},
		defaultSort: "technical_requests.created_at DESC",
		dateColumn:  "technical_requests.created_at",
		preloads:    []string{"Requester", "Assignee", "Unit"},
	})
}

func (s *TechnicalRequestService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.TechnicalRequest, error) {
	return findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id, ticketRelations...)
}

// Create opens a ticket for the caller. A franchisee without an explicit
// unit files against the unit they run.
func (s *TechnicalRequestService) Create(ctx context.Context, p scope.Principal, in TechnicalRequestInput) (*models.TechnicalRequest, error) {
	ticket := &models.TechnicalRequest{
		RequesterID: p.UserID,
		Status:      models.TicketStatusOpen,
		Priority:    models.PriorityMedium,
	}
	in.applyTo(ticket)

	if err := s.resolveLocation(ctx, p, ticket, in); err != nil {
		return nil, err
	}

	if in.AssignedTo != nil && (p.IsAdmin() || p.Role == models.RoleFranchisor) {
		if _, err := loadUser(ctx, s.db, *in.AssignedTo, "assigned_to", ticketAssigneeRoles...); err != nil {
			return nil, err
		}
		ticket.AssignedTo = in.AssignedTo
	}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return database.CreateWithUniqueCode(tx, ticket, "ticket_number",
			func() (string, error) { return utils.GenerateCode("TR", time.Now().UTC()) },
			func(code string) { ticket.TicketNumber = code })
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create technical request: %w", translateWriteError(err))
	}
	return reload[models.TechnicalRequest](ctx, s.db, ticket.ID, ticketRelations...)
}

func (s *TechnicalRequestService) resolveLocation(ctx context.Context, p scope.Principal, ticket *models.TechnicalRequest, in TechnicalRequestInput) error {
	unitID := in.UnitID
	if unitID == nil && in.FranchiseID == nil && p.Role == models.RoleFranchisee {
		var own models.Unit
		err := s.db.WithContext(ctx).Where("franchisee_id = ?", p.UserID).First(&own).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("unit_id", "You do not manage a unit to file this request against")
		}
		if err != nil {
			return err
		}
		unitID = &own.ID
	}

	if unitID != nil {
		unit, err := requireParent[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, *unitID, "unit_id")
		if err != nil {
			return err
		}
		if in.FranchiseID != nil && *in.FranchiseID != unit.FranchiseID {
			return NewValidationError("unit_id", "The unit does not belong to the selected franchise")
		}
		ticket.UnitID = unitID
		ticket.FranchiseID = unit.FranchiseID
		return nil
	}

	if in.FranchiseID == nil {
		return NewValidationError("franchise_id", "The franchise id field is required")
	}
	if _, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
		return err
	}
	ticket.FranchiseID = *in.FranchiseID
	return nil
}

func (s *TechnicalRequestService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in TechnicalRequestInput) (*models.TechnicalRequest, error) {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status.Finished() {
		return nil, domainError(CodeInvalidTransition, "A %s request can no longer be edited", ticket.Status)
	}

	in.applyTo(ticket)
	if err := save(ctx, s.db, ticket); err != nil {
		return nil, fmt.Errorf("failed to update technical request: %w", err)
	}
	return reload[models.TechnicalRequest](ctx, s.db, ticket.ID, ticketRelations...)
}

func (s *TechnicalRequestService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id)
	if err != nil {
		return err
	}
	if !p.IsAdmin() && ticket.RequesterID != p.UserID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(ticket).Error
}

// Assign hands the ticket to someone who can work it. An open ticket moves
// to in_progress.
func (s *TechnicalRequestService) Assign(ctx context.Context, p scope.Principal, id, assigneeID uuid.UUID) (*models.TechnicalRequest, error) {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status.Finished() {
		return nil, domainError(CodeInvalidTransition, "Cannot assign a %s request", ticket.Status)
	}
	if _, err := loadUser(ctx, s.db, assigneeID, "assigned_to", ticketAssigneeRoles...); err != nil {
		return nil, err
	}

	from := ticket.Status
	updates := map[string]interface{}{"assigned_to": assigneeID}
	if ticket.Status == models.TicketStatusOpen {
		updates["status"] = models.TicketStatusInProgress
	}
	moved, err := updateFrom(ctx, s.db, ticket, from, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to assign technical request: %w", err)
	}
	if !moved {
		return nil, domainError(CodeInvalidTransition, "Technical request %s is no longer %s", ticket.TicketNumber, from)
	}

	ticket, err = reload[models.TechnicalRequest](ctx, s.db, id, ticketRelations...)
	if err != nil {
		return nil, err
	}
	s.publishStatusChanged(ctx, ticket, from)
	return ticket, nil
}

func (s *TechnicalRequestService) UpdateStatus(ctx context.Context, p scope.Principal, id uuid.UUID, status models.TechnicalRequestStatus, resolution string) (*models.TechnicalRequest, error) {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range ticketTransitions[ticket.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, invalidTransition("technical request", ticket.Status, status)
	}

	return s.transition(ctx, ticket, status, resolution)
}

// Resolve is allowed from open and in_progress only. Resolving twice is an
// error.
func (s *TechnicalRequestService) Resolve(ctx context.Context, p scope.Principal, id uuid.UUID, resolution string) (*models.TechnicalRequest, error) {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status != models.TicketStatusOpen && ticket.Status != models.TicketStatusInProgress {
		return nil, invalidTransition("technical request", ticket.Status, models.TicketStatusResolved)
	}
	return s.transition(ctx, ticket, models.TicketStatusResolved, resolution)
}

func (s *TechnicalRequestService) Close(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.TechnicalRequest, error) {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status != models.TicketStatusResolved {
		return nil, invalidTransition("technical request", ticket.Status, models.TicketStatusClosed)
	}
	return s.transition(ctx, ticket, models.TicketStatusClosed, "")
}

func (s *TechnicalRequestService) transition(ctx context.Context, ticket *models.TechnicalRequest, status models.TechnicalRequestStatus, resolution string) (*models.TechnicalRequest, error) {
	from := ticket.Status
	now := time.Now().UTC()
	updates := map[string]interface{}{"status": status}

	switch status {
	case models.TicketStatusResolved:
		if resolution == "" {
			return nil, NewValidationError("resolution", "The resolution field is required")
		}
		updates["resolution"] = resolution
		updates["resolved_at"] = now
	case models.TicketStatusClosed:
		updates["closed_at"] = now
	case models.TicketStatusInProgress:
		if from == models.TicketStatusResolved {
			updates["resolved_at"] = nil
		}
	}

	moved, err := updateFrom(ctx, s.db, ticket, from, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update technical request: %w", err)
	}
	if !moved {
		return nil, invalidTransition("technical request", from, status)
	}

	updated, err := reload[models.TechnicalRequest](ctx, s.db, ticket.ID, ticketRelations...)
	if err != nil {
		return nil, err
	}
	s.publishStatusChanged(ctx, updated, from)
	return updated, nil
}

// Escalate raises the priority one level and notifies the people working
// the ticket.
func (s *TechnicalRequestService) Escalate(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.TechnicalRequest, error) {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id, "Franchise")
	if err != nil {
		return nil, err
	}
	if ticket.Status.Finished() {
		return nil, domainError(CodeInvalidTransition, "Cannot escalate a %s request", ticket.Status)
	}
	if ticket.Priority == models.PriorityUrgent {
		return nil, domainError(CodeNothingToDo, "Request %s is already urgent", ticket.TicketNumber)
	}

	next := ticket.Priority.Next()
	err = s.db.WithContext(ctx).Model(ticket).Updates(map[string]interface{}{
		"priority":     next,
		"escalated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to escalate technical request: %w", err)
	}

	recipients := []uuid.UUID{ticket.RequesterID}
	if ticket.AssignedTo != nil {
		recipients = append(recipients, *ticket.AssignedTo)
	}
	if ticket.Franchise != nil {
		recipients = append(recipients, ticket.Franchise.FranchisorID)
	}
	publish(ctx, s.events, events.New(events.TicketEscalated,
		"Technical request escalated",
		fmt.Sprintf("%s (%s) escalated to %s priority", ticket.TicketNumber, ticket.Title, next),
		map[string]interface{}{"technical_request_id": ticket.ID, "priority": next},
		recipients...))

	return reload[models.TechnicalRequest](ctx, s.db, ticket.ID, ticketRelations...)
}

// Rate records the requester's satisfaction once the ticket is resolved.
func (s *TechnicalRequestService) Rate(ctx context.Context, p scope.Principal, id uuid.UUID, rating int) (*models.TechnicalRequest, error) {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && ticket.RequesterID != p.UserID {
		return nil, ErrForbidden
	}
	if ticket.Status != models.TicketStatusResolved && ticket.Status != models.TicketStatusClosed {
		return nil, domainError(CodeInvalidTransition, "Only resolved or closed requests can be rated")
	}
	if rating < 1 || rating > 5 {
		return nil, NewValidationError("satisfaction_rating", "Must be between 1 and 5")
	}

	if err := s.db.WithContext(ctx).Model(ticket).Update("satisfaction_rating", rating).Error; err != nil {
		return nil, fmt.Errorf("failed to rate technical request: %w", err)
	}
	return reload[models.TechnicalRequest](ctx, s.db, ticket.ID, ticketRelations...)
}

func (s *TechnicalRequestService) AddAttachment(ctx context.Context, p scope.Principal, id uuid.UUID, file *multipart.FileHeader) (*models.TechnicalRequest, error) {
	ticket, err := findScoped[models.TechnicalRequest](ctx, s.db, s.scopes, p, scope.TechnicalRequest, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed || ticket.Status == models.TicketStatusCancelled {
		return nil, domainError(CodeInvalidTransition, "Cannot attach files to a %s request", ticket.Status)
	}

	upload, err := s.storage.Upload(ctx, file, FolderAttachments)
	if err != nil {
		return nil, err
	}

	attachments := append(models.StringArray{}, ticket.Attachments...)
	attachments = append(attachments, upload.URL)
	if err := s.db.WithContext(ctx).Model(ticket).Update("attachments", attachments).Error; err != nil {
		s.storage.Delete(ctx, upload.Key)
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}
	return reload[models.TechnicalRequest](ctx, s.db, ticket.ID, ticketRelations...)
}

func (s *TechnicalRequestService) publishStatusChanged(ctx context.Context, ticket *models.TechnicalRequest, from models.TechnicalRequestStatus) {
	if ticket.Status == from {
		return
	}
	recipients := []uuid.UUID{ticket.RequesterID}
	if ticket.AssignedTo != nil {
		recipients = append(recipients, *ticket.AssignedTo)
	}
	publish(ctx, s.events, events.New(events.TicketStatusChanged,
		"Technical request updated",
		fmt.Sprintf("%s moved from %s to %s", ticket.TicketNumber, from, ticket.Status),
		map[string]interface{}{"technical_request_id": ticket.ID, "from": from, "to": ticket.Status},
		recipients...))
}
