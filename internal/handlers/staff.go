// internal/handlers/staff.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type StaffHandler struct {
	staffService *services.StaffService
}

func NewStaffHandler(staffService *services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// GET /staff
func (h *StaffHandler) List(c *gin.Context) {
	page, err := h.staffService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /staff/:id
func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	staff, err := h.staffService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.SuccessResponse(c, staff)
}

// POST /staff
func (h *StaffHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.StaffInput
	if !bindPayload(c, validation.StaffCreate, &in) {
		return
	}

	staff, err := h.staffService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), staff)
}

// PUT /staff/:id
func (h *StaffHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.StaffInput
	if !bindPayload(c, validation.StaffUpdate, &in) {
		return
	}

	staff, err := h.staffService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), staff)
}

// DELETE /staff/:id
func (h *StaffHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.staffService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /staff/:id/units
func (h *StaffHandler) AssignToUnit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.AssignStaffInput
	if !bindPayload(c, validation.StaffAssignUnit, &in) {
		return
	}

	staff, err := h.staffService.AssignToUnit(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStaffAssigned), staff)
}

// DELETE /staff/:id/units/:unitId
func (h *StaffHandler) UnassignFromUnit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	unitID, ok := parseID(c, "unitId")
	if !ok {
		return
	}

	staff, err := h.staffService.UnassignFromUnit(c.Request.Context(), principal(c), id, unitID)
	if err != nil {
		respondError(c, err, "Staff member")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStaffUnassigned), staff)
}
