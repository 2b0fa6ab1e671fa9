// internal/services/task_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type TaskService struct {
	db     *gorm.DB
	scopes *scope.Resolver
	events events.Publisher
}

type TaskInput struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	AssignedTo  *uuid.UUID         `json:"assigned_to"`
	FranchiseID *uuid.UUID         `json:"franchise_id"`
	UnitID      *uuid.UUID         `json:"unit_id"`
	LeadID      *uuid.UUID         `json:"lead_id"`
	Category    *string            `json:"category"`
	Priority    *models.Priority   `json:"priority"`
	Status      *models.TaskStatus `json:"status"`
	DueDate     *models.Date       `json:"due_date"`
}

func (in TaskInput) applyTo(t *models.Task) {
	set(&t.Title, in.Title)
	set(&t.Description, in.Description)
	set(&t.Category, in.Category)
	set(&t.Priority, in.Priority)
	setPtr(&t.DueDate, in.DueDate)
}

var taskRelations = []string{"Assignee", "Creator", "Franchise", "Unit", "Lead"}

func NewTaskService(db *gorm.DB, scopes *scope.Resolver, publisher events.Publisher) *TaskService {
	return &TaskService{db: db, scopes: scopes, events: publisher}
}

func (s *TaskService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Task](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Task,
		filters: map[string]string{
			"status":       "tasks.status",
			"priority":     "tasks.priority",
			"category":     "tasks.category",
			"assigned_to":  "tasks.assigned_to",
			"created_by":   "tasks.created_by",
			"franchise_id": "tasks.franchise_id",
			"unit_id":      "tasks.unit_id",
			"lead_id":      "tasks.lead_id",
		},
		search: []string{"tasks.title", "tasks.description"},
		sorts: map[string]string{
			"title":      "tasks.title",
			"status":     "tasks.status",
			"priority":   "tasks.priority",
			"due_date":   "tasks.due_date",
			"created_at": "tasks.created_at",
		},
		defaultSort: "tasks.due_date ASC",
		dateColumn:  "tasks.due_date",
		preloads:    []string{"Assignee", "Creator"},
	})
}

func (s *TaskService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Task, error) {
	return findScoped[models.Task](ctx, s.db, s.scopes, p, scope.Task, id, taskRelations...)
}

func (s *TaskService) Create(ctx context.Context, p scope.Principal, in TaskInput) (*models.Task, error) {
	task := &models.Task{
		CreatedBy: p.UserID,
		Status:    models.TaskStatusPending,
		Priority:  models.PriorityMedium,
	}
	in.applyTo(task)

	if err := s.attachParents(ctx, p, task, in); err != nil {
		return nil, err
	}

	if in.AssignedTo == nil {
		return nil, NewValidationError("assigned_to", "The assigned to field is required")
	}
	if _, err := loadUser(ctx, s.db, *in.AssignedTo, "assigned_to"); err != nil {
		return nil, err
	}
	task.AssignedTo = in.AssignedTo

	if in.Status != nil && *in.Status != models.TaskStatusPending {
		if err := stampTaskStatus(task, *in.Status); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", translateWriteError(err))
	}

	if *task.AssignedTo != p.UserID {
		s.publishAssigned(ctx, task)
	}
	return reload[models.Task](ctx, s.db, task.ID, taskRelations...)
}

func (s *TaskService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in TaskInput) (*models.Task, error) {
	task, err := findScoped[models.Task](ctx, s.db, s.scopes, p, scope.Task, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(task)
	if err := s.attachParents(ctx, p, task, in); err != nil {
		return nil, err
	}

	reassigned := false
	if in.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *in.AssignedTo) {
		if _, err := loadUser(ctx, s.db, *in.AssignedTo, "assigned_to"); err != nil {
			return nil, err
		}
		task.AssignedTo = in.AssignedTo
		reassigned = true
	}
	if in.Status != nil && *in.Status != task.Status {
		if err := stampTaskStatus(task, *in.Status); err != nil {
			return nil, err
		}
	}

	if err := save(ctx, s.db, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if reassigned && *task.AssignedTo != p.UserID {
		s.publishAssigned(ctx, task)
	}
	return reload[models.Task](ctx, s.db, task.ID, taskRelations...)
}

func (s *TaskService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	task, err := findScoped[models.Task](ctx, s.db, s.scopes, p, scope.Task, id)
	if err != nil {
		return err
	}
	if !p.IsAdmin() && task.CreatedBy != p.UserID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(task).Error
}

func (s *TaskService) Assign(ctx context.Context, p scope.Principal, id, assigneeID uuid.UUID) (*models.Task, error) {
	task, err := findScoped[models.Task](ctx, s.db, s.scopes, p, scope.Task, id)
	if err != nil {
		return nil, err
	}
	if task.Status == models.TaskStatusCompleted || task.Status == models.TaskStatusCancelled {
		return nil, domainError(CodeInvalidTransition, "Cannot reassign a %s task", task.Status)
	}
	if _, err := loadUser(ctx, s.db, assigneeID, "assigned_to"); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(task).Update("assigned_to", assigneeID).Error; err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}
	task.AssignedTo = &assigneeID
	if assigneeID != p.UserID {
		s.publishAssigned(ctx, task)
	}
	return reload[models.Task](ctx, s.db, task.ID, taskRelations...)
}

func (s *TaskService) UpdateStatus(ctx context.Context, p scope.Principal, id uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	task, err := findScoped[models.Task](ctx, s.db, s.scopes, p, scope.Task, id)
	if err != nil {
		return nil, err
	}
	from := task.Status
	if err := stampTaskStatus(task, status); err != nil {
		return nil, err
	}

	moved, err := updateFrom(ctx, s.db, task, from, map[string]interface{}{
		"status":       task.Status,
		"completed_at": task.CompletedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	if !moved {
		return nil, invalidTransition("task", from, status)
	}
	return reload[models.Task](ctx, s.db, task.ID, taskRelations...)
}

func (s *TaskService) Complete(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Task, error) {
	return s.UpdateStatus(ctx, p, id, models.TaskStatusCompleted)
}

// attachParents links the optional franchise, unit and lead, each of which
// must be visible to the caller.
func (s *TaskService) attachParents(ctx context.Context, p scope.Principal, task *models.Task, in TaskInput) error {
	if in.FranchiseID != nil {
		if _, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
			return err
		}
		task.FranchiseID = in.FranchiseID
	}
	if in.UnitID != nil {
		unit, err := requireParent[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, *in.UnitID, "unit_id")
		if err != nil {
			return err
		}
		task.UnitID = in.UnitID
		if task.FranchiseID == nil {
			task.FranchiseID = &unit.FranchiseID
		} else if *task.FranchiseID != unit.FranchiseID {
			return NewValidationError("unit_id", "The unit does not belong to the selected franchise")
		}
	}
	if in.LeadID != nil {
		if _, err := requireParent[models.Lead](ctx, s.db, s.scopes, p, scope.Lead, *in.LeadID, "lead_id"); err != nil {
			return err
		}
		task.LeadID = in.LeadID
	}
	return nil
}

// stampTaskStatus applies a transition allowed by models.TaskTransitions.
func stampTaskStatus(task *models.Task, status models.TaskStatus) error {
	allowed := false
	for _, next := range models.TaskTransitions[task.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return invalidTransition("task", task.Status, status)
	}

	task.Status = status
	if status == models.TaskStatusCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	return nil
}

func (s *TaskService) publishAssigned(ctx context.Context, task *models.Task) {
	publish(ctx, s.events, events.New(events.TaskAssigned,
		"New task assigned",
		fmt.Sprintf("You have been assigned: %s", task.Title),
		map[string]interface{}{"task_id": task.ID, "due_date": task.DueDate},
		*task.AssignedTo))
}
