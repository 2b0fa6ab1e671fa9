// internal/handlers/lead.go
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

type LeadHandler struct {
	leadService *services.LeadService
}

func NewLeadHandler(leadService *services.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// GET /leads
func (h *LeadHandler) List(c *gin.Context) {
	page, err := h.leadService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.SuccessResponse(c, lead)
}

// POST /leads
func (h *LeadHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.LeadInput
	if !bindPayload(c, validation.LeadCreate, &in) {
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), lead)
}

// PUT /leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.LeadInput
	if !bindPayload(c, validation.LeadUpdate, &in) {
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), lead)
}

// DELETE /leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /leads/:id/assign
func (h *LeadHandler) Assign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		AssignedTo uuid.UUID `json:"assigned_to"`
	}
	if !bindPayload(c, validation.LeadAssign, &req) {
		return
	}

	lead, err := h.leadService.Assign(c.Request.Context(), principal(c), id, req.AssignedTo)
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyLeadAssigned), lead)
}

// PATCH /leads/:id/status
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status     models.LeadStatus `json:"status"`
		LostReason string            `json:"lost_reason"`
	}
	if !bindPayload(c, validation.LeadStatus, &req) {
		return
	}

	lead, err := h.leadService.UpdateStatus(c.Request.Context(), principal(c), id, req.Status, req.LostReason)
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStatusUpdated), lead)
}

// POST /leads/:id/convert
func (h *LeadHandler) Convert(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if !bindPayload(c, validation.LeadConvert, &req) {
		return
	}

	lead, err := h.leadService.Convert(c.Request.Context(), principal(c), id, req.Notes)
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyLeadConverted), lead)
}

// POST /leads/:id/mark-lost
func (h *LeadHandler) MarkLost(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		LostReason string `json:"lost_reason"`
	}
	if !bindPayload(c, validation.LeadMarkLost, &req) {
		return
	}

	lead, err := h.leadService.MarkLost(c.Request.Context(), principal(c), id, req.LostReason)
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyLeadLost), lead)
}

// POST /leads/:id/notes
func (h *LeadHandler) AddNote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if !bindPayload(c, validation.LeadNote, &req) {
		return
	}

	note, err := h.leadService.AddNote(c.Request.Context(), principal(c), id, req.Note)
	if err != nil {
		respondError(c, err, "Lead")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyLeadNoteAdded), note)
}
