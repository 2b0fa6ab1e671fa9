// internal/handlers/unit.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type UnitHandler struct {
	unitService *services.UnitService
}

func NewUnitHandler(unitService *services.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// GET /units
func (h *UnitHandler) List(c *gin.Context) {
	page, err := h.unitService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Unit")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /units/:id
func (h *UnitHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	unit, err := h.unitService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Unit")
		return
	}
	utils.SuccessResponse(c, unit)
}

// POST /units
func (h *UnitHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.UnitInput
	if !bindPayload(c, validation.UnitCreate, &in) {
		return
	}

	unit, err := h.unitService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Unit")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), unit)
}

// PUT /units/:id
func (h *UnitHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.UnitInput
	if !bindPayload(c, validation.UnitUpdate, &in) {
		return
	}

	unit, err := h.unitService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Unit")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), unit)
}

// DELETE /units/:id
func (h *UnitHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.unitService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Unit")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /units/:id/assign-franchisee
func (h *UnitHandler) AssignFranchisee(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		FranchiseeID uuid.UUID `json:"franchisee_id"`
	}
	if !bindPayload(c, validation.UnitAssignFranchisee, &req) {
		return
	}

	unit, err := h.unitService.AssignFranchisee(c.Request.Context(), principal(c), id, req.FranchiseeID)
	if err != nil {
		respondError(c, err, "Unit")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUnitFranchiseeAssigned), unit)
}

// PATCH /units/:id/status
func (h *UnitHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.UnitStatus `json:"status"`
	}
	if !bindPayload(c, validation.UnitStatus, &req) {
		return
	}

	unit, err := h.unitService.UpdateStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err, "Unit")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStatusUpdated), unit)
}

// POST /franchisees
// Creates a franchisee account together with the unit it manages.
func (h *UnitHandler) CreateFranchiseeWithUnit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.ProvisionInput
	nested := map[string]validation.Key{"unit": validation.FranchiseeUnit}
	if !bindPayloadNested(c, validation.FranchiseeProvision, &in, nested) {
		return
	}

	result, err := h.unitService.CreateFranchiseeWithUnit(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Unit")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyFranchiseeProvisioned), result)
}
