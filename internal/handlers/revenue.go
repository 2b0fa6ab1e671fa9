// internal/handlers/revenue.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type RevenueHandler struct {
	revenueService *services.RevenueService
}

func NewRevenueHandler(revenueService *services.RevenueService) *RevenueHandler {
	return &RevenueHandler{revenueService: revenueService}
}

// GET /revenues
func (h *RevenueHandler) List(c *gin.Context) {
	page, err := h.revenueService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Revenue")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /revenues/:id
func (h *RevenueHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	revenue, err := h.revenueService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Revenue")
		return
	}
	utils.SuccessResponse(c, revenue)
}

// POST /revenues
func (h *RevenueHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.RevenueInput
	if !bindPayload(c, validation.RevenueCreate, &in) {
		return
	}

	revenue, err := h.revenueService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Revenue")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), revenue)
}

// PUT /revenues/:id
func (h *RevenueHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.RevenueInput
	if !bindPayload(c, validation.RevenueUpdate, &in) {
		return
	}

	revenue, err := h.revenueService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Revenue")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), revenue)
}

// DELETE /revenues/:id
func (h *RevenueHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.revenueService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Revenue")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /revenues/:id/verify
func (h *RevenueHandler) Verify(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	revenue, err := h.revenueService.Verify(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Revenue")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyRevenueVerified), revenue)
}

// POST /revenues/:id/dispute
func (h *RevenueHandler) Dispute(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		DisputeReason string `json:"dispute_reason"`
	}
	if !bindPayload(c, validation.RevenueDispute, &req) {
		return
	}

	revenue, err := h.revenueService.Dispute(c.Request.Context(), principal(c), id, req.DisputeReason)
	if err != nil {
		respondError(c, err, "Revenue")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyRevenueDisputed), revenue)
}

// POST /revenues/:id/refund
func (h *RevenueHandler) Refund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.RefundInput
	if !bindPayload(c, validation.RevenueRefund, &in) {
		return
	}

	refund, err := h.revenueService.Refund(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Revenue")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyRevenueRefunded), refund)
}
