// internal/models/task.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusOnHold     TaskStatus = "on_hold"
)

// TaskTransitions lists the statuses a task may move to from each status.
var TaskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusOnHold, TaskStatusCompleted, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusOnHold, TaskStatusCompleted, TaskStatusCancelled, TaskStatusPending},
	TaskStatusOnHold:     {TaskStatusInProgress, TaskStatusPending, TaskStatusCancelled},
	TaskStatusCompleted:  {TaskStatusInProgress},
	TaskStatusCancelled:  {TaskStatusPending},
}

type Task struct {
	BaseModel
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	AssignedTo  *uuid.UUID `json:"assigned_to" gorm:"type:uuid;index"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:uuid;not null;index"`
	FranchiseID *uuid.UUID `json:"franchise_id" gorm:"type:uuid;index"`
	UnitID      *uuid.UUID `json:"unit_id" gorm:"type:uuid;index"`
	LeadID      *uuid.UUID `json:"lead_id" gorm:"type:uuid;index"`
	Category    string     `json:"category" gorm:"type:varchar(30)"`
	Priority    Priority   `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	Status      TaskStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	DueDate     *Date      `json:"due_date" gorm:"type:date"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	Assignee  *User      `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo"`
	Creator   *User      `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Franchise *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Unit      *Unit      `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	Lead      *Lead      `json:"lead,omitempty" gorm:"foreignKey:LeadID"`
}

func (Task) TableName() string { return "tasks" }
