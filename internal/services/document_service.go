// internal/services/document_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

const downloadURLTTL = 15 * time.Minute

type DocumentService struct {
	db      *gorm.DB
	scopes  *scope.Resolver
	storage *StorageService
}

type DocumentInput struct {
	Title       *string                `json:"title"`
	Type        *string                `json:"type"`
	FranchiseID *uuid.UUID             `json:"franchise_id"`
	UnitID      *uuid.UUID             `json:"unit_id"`
	ExpiresAt   *models.Date           `json:"expires_at"`
	Status      *models.DocumentStatus `json:"status"`
}

func (in DocumentInput) applyTo(d *models.Document) {
	set(&d.Title, in.Title)
	set(&d.Type, in.Type)
	setPtr(&d.ExpiresAt, in.ExpiresAt)
	set(&d.Status, in.Status)
}

var documentRelations = []string{"Franchise", "Unit", "Uploader"}

func NewDocumentService(db *gorm.DB, scopes *scope.Resolver, storage *StorageService) *DocumentService {
	return &DocumentService{db: db, scopes: scopes, storage: storage}
}

func (s *DocumentService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Document](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Document,
		filters: map[string]string{
			"type":         "documents.type",
			"status":       "documents.status",
			"franchise_id": "documents.franchise_id",
			"unit_id":      "documents.unit_id",
			"uploaded_by":  "documents.uploaded_by",
		},
		search: []string{"documents.title", "documents.file_name"},
		sorts: map[string]string{
			"title":      "documents.title",
			"type":       "documents.type",
			"expires_at": "documents.expires_at",
			"file_size":  "documents.file_size",
			"created_at": "documents.created_at",
		},
		defaultSort: "documents.created_at DESC",
		dateColumn:  "documents.created_at",
		preloads:    []string{"Uploader"},
		refine: func(query *gorm.DB, q utils.ListQuery) *gorm.DB {
			if q.Filters["expiring"] == "true" {
				today := models.NewDate(time.Now().UTC())
				soon := models.NewDate(today.AddDate(0, 0, 30))
				return query.Where("documents.expires_at >= ? AND documents.expires_at <= ?", today.String(), soon.String())
			}
			return query
		},
	})
}

func (s *DocumentService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Document, error) {
	return findScoped[models.Document](ctx, s.db, s.scopes, p, scope.Document, id, documentRelations...)
}

// Upload stores the file and records the document. A franchisee that names
// no unit files against the unit they run.
func (s *DocumentService) Upload(ctx context.Context, p scope.Principal, file *multipart.FileHeader, in DocumentInput) (*models.Document, error) {
	doc := &models.Document{UploadedBy: p.UserID, Status: models.DocumentStatusActive}
	in.applyTo(doc)
	if err := s.resolveOwner(ctx, p, doc, in); err != nil {
		return nil, err
	}

	upload, err := s.storage.Upload(ctx, file, FolderDocuments)
	if err != nil {
		return nil, err
	}
	doc.FileName = upload.FileName
	doc.FilePath = upload.Key
	doc.FileURL = upload.URL
	doc.MimeType = upload.MimeType
	doc.FileSize = upload.Size

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		s.storage.Delete(ctx, upload.Key)
		return nil, fmt.Errorf("failed to save document: %w", translateWriteError(err))
	}
	return reload[models.Document](ctx, s.db, doc.ID, documentRelations...)
}

func (s *DocumentService) resolveOwner(ctx context.Context, p scope.Principal, doc *models.Document, in DocumentInput) error {
	unitID := in.UnitID
	if unitID == nil && in.FranchiseID == nil && p.Role == models.RoleFranchisee {
		var own models.Unit
		err := s.db.WithContext(ctx).Where("franchisee_id = ?", p.UserID).First(&own).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			unitID = &own.ID
		}
	}

	if unitID != nil {
		unit, err := requireParent[models.Unit](ctx, s.db, s.scopes, p, scope.Unit, *unitID, "unit_id")
		if err != nil {
			return err
		}
		doc.UnitID = unitID
		doc.FranchiseID = &unit.FranchiseID
		return nil
	}
	if in.FranchiseID != nil {
		if _, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
			return err
		}
		doc.FranchiseID = in.FranchiseID
	}
	return nil
}

func (s *DocumentService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in DocumentInput) (*models.Document, error) {
	doc, err := s.editable(ctx, p, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(doc)
	if err := save(ctx, s.db, doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return reload[models.Document](ctx, s.db, doc.ID, documentRelations...)
}

// Delete removes the record and then the stored file.
func (s *DocumentService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	doc, err := s.editable(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(doc).Error; err != nil {
		return err
	}
	s.storage.Delete(ctx, doc.FilePath)
	return nil
}

// DownloadURL returns a short-lived link to the stored file.
func (s *DocumentService) DownloadURL(ctx context.Context, p scope.Principal, id uuid.UUID) (string, error) {
	doc, err := findScoped[models.Document](ctx, s.db, s.scopes, p, scope.Document, id)
	if err != nil {
		return "", err
	}
	return s.storage.PresignedURL(doc.FilePath, downloadURLTTL)
}

// editable loads a document the caller may change: the uploader, an admin,
// or a franchisor whose franchise it belongs to.
func (s *DocumentService) editable(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Document, error) {
	doc, err := findScoped[models.Document](ctx, s.db, s.scopes, p, scope.Document, id)
	if err != nil {
		return nil, err
	}
	if p.IsAdmin() || p.Role == models.RoleFranchisor || doc.UploadedBy == p.UserID {
		return doc, nil
	}
	return nil, ErrForbidden
}
