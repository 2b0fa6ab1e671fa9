// internal/services/admin_service.go
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

// AdminService exposes the audit trail written by the audit middleware.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) ListAuditLogs(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	if err := requireRole(p, models.RoleAdmin); err != nil {
		return utils.Page{}, err
	}

	query := applyListFilters(s.db.WithContext(ctx).Model(&models.AuditLog{}), q, listOptions{
		filters: map[string]string{
			"user_id":       "audit_logs.user_id",
			"resource_type": "audit_logs.resource_type",
			"resource_id":   "audit_logs.resource_id",
			"status_code":   "audit_logs.status_code",
		},
		search:     []string{"audit_logs.action", "audit_logs.ip_address"},
		dateColumn: "audit_logs.created_at",
	}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Page{}, err
	}

	logs := make([]models.AuditLog, 0)
	sorts := map[string]string{
		"created_at":  "audit_logs.created_at",
		"action":      "audit_logs.action",
		"status_code": "audit_logs.status_code",
	}
	if err := utils.ApplyPagination(utils.ApplySort(query, q, sorts, "audit_logs.created_at DESC"), q).
		Preload("User").
		Find(&logs).Error; err != nil {
		return utils.Page{}, err
	}
	return utils.NewPage(logs, total, q), nil
}
