// internal/handlers/technical_request.go
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

type TechnicalRequestHandler struct {
	ticketService *services.TechnicalRequestService
}

func NewTechnicalRequestHandler(ticketService *services.TechnicalRequestService) *TechnicalRequestHandler {
	return &TechnicalRequestHandler{ticketService: ticketService}
}

// GET /technical-requests
func (h *TechnicalRequestHandler) List(c *gin.Context) {
	page, err := h.ticketService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /technical-requests/:id
func (h *TechnicalRequestHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.ticketService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.SuccessResponse(c, ticket)
}

// POST /technical-requests
func (h *TechnicalRequestHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.TechnicalRequestInput
	if !bindPayload(c, validation.TicketCreate, &in) {
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), ticket)
}

// PUT /technical-requests/:id
func (h *TechnicalRequestHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.TechnicalRequestInput
	if !bindPayload(c, validation.TicketUpdate, &in) {
		return
	}

	ticket, err := h.ticketService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), ticket)
}

// DELETE /technical-requests/:id
func (h *TechnicalRequestHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.ticketService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /technical-requests/:id/assign
func (h *TechnicalRequestHandler) Assign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		AssignedTo uuid.UUID `json:"assigned_to"`
	}
	if !bindPayload(c, validation.TicketAssign, &req) {
		return
	}

	ticket, err := h.ticketService.Assign(c.Request.Context(), principal(c), id, req.AssignedTo)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTicketAssigned), ticket)
}

// PATCH /technical-requests/:id/status
func (h *TechnicalRequestHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status     models.TechnicalRequestStatus `json:"status"`
		Resolution string                        `json:"resolution"`
	}
	if !bindPayload(c, validation.TicketStatus, &req) {
		return
	}

	ticket, err := h.ticketService.UpdateStatus(c.Request.Context(), principal(c), id, req.Status, req.Resolution)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStatusUpdated), ticket)
}

// POST /technical-requests/:id/resolve
func (h *TechnicalRequestHandler) Resolve(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Resolution string `json:"resolution"`
	}
	if !bindPayload(c, validation.TicketResolve, &req) {
		return
	}

	ticket, err := h.ticketService.Resolve(c.Request.Context(), principal(c), id, req.Resolution)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTicketResolved), ticket)
}

// POST /technical-requests/:id/close
func (h *TechnicalRequestHandler) Close(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.ticketService.Close(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTicketClosed), ticket)
}

// POST /technical-requests/:id/escalate
func (h *TechnicalRequestHandler) Escalate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.ticketService.Escalate(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTicketEscalated), ticket)
}

// POST /technical-requests/:id/rate
func (h *TechnicalRequestHandler) Rate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		SatisfactionRating int `json:"satisfaction_rating"`
	}
	if !bindPayload(c, validation.TicketRate, &req) {
		return
	}

	ticket, err := h.ticketService.Rate(c.Request.Context(), principal(c), id, req.SatisfactionRating)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTicketRated), ticket)
}

// POST /technical-requests/:id/attachments
func (h *TechnicalRequestHandler) AddAttachment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	_, file, ok := bindMultipart(c, validation.TicketAttachment)
	if !ok {
		return
	}

	ticket, err := h.ticketService.AddAttachment(c.Request.Context(), principal(c), id, file)
	if err != nil {
		respondError(c, err, "Technical request")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTicketAttachment), ticket)
}
