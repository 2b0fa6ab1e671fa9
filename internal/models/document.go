// internal/models/document.go
package models

import (
	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentStatusActive   DocumentStatus = "active"
	DocumentStatusArchived DocumentStatus = "archived"
	DocumentStatusExpired  DocumentStatus = "expired"
)

type Document struct {
	BaseModel
	FranchiseID *uuid.UUID     `json:"franchise_id" gorm:"type:uuid;index"`
	UnitID      *uuid.UUID     `json:"unit_id" gorm:"type:uuid;index"`
	UploadedBy  uuid.UUID      `json:"uploaded_by" gorm:"type:uuid;not null;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Type        string         `json:"type" gorm:"type:varchar(30);index"`
	FileName    string         `json:"file_name" gorm:"size:255"`
	FilePath    string         `json:"file_path" gorm:"size:500"`
	FileURL     string         `json:"file_url" gorm:"size:500"`
	MimeType    string         `json:"mime_type" gorm:"size:100"`
	FileSize    int64          `json:"file_size"`
	ExpiresAt   *Date          `json:"expires_at" gorm:"type:date"`
	Status      DocumentStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	Franchise *Franchise `json:"franchise,omitempty" gorm:"foreignKey:FranchiseID"`
	Unit      *Unit      `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	Uploader  *User      `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy"`
}

func (Document) TableName() string { return "documents" }
