// internal/models/staff.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StaffStatus string

const (
	StaffStatusActive     StaffStatus = "active"
	StaffStatusInactive   StaffStatus = "inactive"
	StaffStatusOnLeave    StaffStatus = "on_leave"
	StaffStatusTerminated StaffStatus = "terminated"
)

type Staff struct {
	BaseModel
	FranchiseID    uuid.UUID       `json:"franchise_id" gorm:"type:uuid;not null;index"`
	FirstName      string          `json:"first_name" gorm:"size:100;not null"`
	LastName       string          `json:"last_name" gorm:"size:100;not null"`
	Email          string          `json:"email" gorm:"size:255;index"`
	Phone          string          `json:"phone" gorm:"size:30"`
	Position       string          `json:"position" gorm:"size:100"`
	EmploymentType string          `json:"employment_type" gorm:"type:varchar(20)"`
	HireDate       *Date           `json:"hire_date" gorm:"type:date"`
	Salary         decimal.Decimal `json:"salary" gorm:"type:decimal(14,2);default:0"`
	Status         StaffStatus     `json:"status" gorm:"type:varchar(20);default:'active';index"`

	Franchise   *Franchise  `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Assignments []StaffUnit `json:"assignments,omitempty" gorm:"foreignKey:StaffID"`
}

func (Staff) TableName() string { return "staff_members" }

type StaffUnit struct {
	BaseModel
	StaffID    uuid.UUID `json:"staff_id" gorm:"type:uuid;not null;uniqueIndex:idx_staff_unit"`
	UnitID     uuid.UUID `json:"unit_id" gorm:"type:uuid;not null;uniqueIndex:idx_staff_unit;index"`
	Role       string    `json:"role" gorm:"size:100"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	AssignedAt time.Time `json:"assigned_at"`

	Unit *Unit `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

func (StaffUnit) TableName() string { return "staff_units" }
