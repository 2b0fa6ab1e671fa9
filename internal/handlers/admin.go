// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	page, err := h.adminService.ListAuditLogs(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Audit log")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /options
// Static option tables the front end renders selects and badges from.
func GetOptions(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"options":         models.Options,
		"status_colors":   models.StatusColors,
		"priority_colors": models.PriorityColors,
	})
}

// GET /options/:name
func GetOption(c *gin.Context) {
	values, ok := models.Options[c.Param("name")]
	if !ok {
		utils.NotFoundResponse(c, "Option")
		return
	}
	utils.SuccessResponse(c, values)
}
