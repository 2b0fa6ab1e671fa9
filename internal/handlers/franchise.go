// internal/handlers/franchise.go
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

type FranchiseHandler struct {
	franchiseService *services.FranchiseService
}

func NewFranchiseHandler(franchiseService *services.FranchiseService) *FranchiseHandler {
	return &FranchiseHandler{franchiseService: franchiseService}
}

// GET /franchises
func (h *FranchiseHandler) List(c *gin.Context) {
	page, err := h.franchiseService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /franchises/:id
func (h *FranchiseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	franchise, err := h.franchiseService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.SuccessResponse(c, franchise)
}

// POST /franchises
func (h *FranchiseHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.FranchiseInput
	if !bindPayload(c, validation.FranchiseCreate, &in) {
		return
	}

	franchise, err := h.franchiseService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), franchise)
}

// PUT /franchises/:id
func (h *FranchiseHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.FranchiseInput
	if !bindPayload(c, validation.FranchiseUpdate, &in) {
		return
	}

	franchise, err := h.franchiseService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), franchise)
}

// DELETE /franchises/:id
func (h *FranchiseHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.franchiseService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /franchises/:id/assign-broker
func (h *FranchiseHandler) AssignBroker(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		BrokerID *uuid.UUID `json:"broker_id"`
	}
	if !bindPayload(c, validation.FranchiseAssignBroker, &req) {
		return
	}

	franchise, err := h.franchiseService.AssignBroker(c.Request.Context(), principal(c), id, req.BrokerID)
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyFranchiseBrokerAssigned), franchise)
}

// POST /franchises/:id/toggle-marketplace
func (h *FranchiseHandler) ToggleMarketplace(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	franchise, err := h.franchiseService.ToggleMarketplace(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyFranchiseMarketplace), franchise)
}

// PATCH /franchises/:id/status
func (h *FranchiseHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.FranchiseStatus `json:"status"`
	}
	if !bindPayload(c, validation.FranchiseStatus, &req) {
		return
	}

	franchise, err := h.franchiseService.UpdateStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStatusUpdated), franchise)
}

// GET /marketplace/franchises
func (h *FranchiseHandler) Marketplace(c *gin.Context) {
	page, err := h.franchiseService.ListMarketplace(c.Request.Context(), listQuery(c))
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /marketplace/franchises/:id
func (h *FranchiseHandler) MarketplaceDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	franchise, err := h.franchiseService.GetMarketplace(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.SuccessResponse(c, franchise)
}

// GET /marketplace/franchises/:id/reviews
func (h *FranchiseHandler) MarketplaceReviews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	page, err := h.franchiseService.MarketplaceReviews(c.Request.Context(), id, listQuery(c))
	if err != nil {
		respondError(c, err, "Franchise")
		return
	}
	utils.PaginatedResponse(c, page)
}
