// internal/handlers/property.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
}

func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// GET /properties
func (h *PropertyHandler) List(c *gin.Context) {
	page, err := h.propertyService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Property")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Property")
		return
	}
	utils.SuccessResponse(c, property)
}

// POST /properties
func (h *PropertyHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.PropertyInput
	if !bindPayload(c, validation.PropertyCreate, &in) {
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Property")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), property)
}

// PUT /properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.PropertyInput
	if !bindPayload(c, validation.PropertyUpdate, &in) {
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Property")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), property)
}

// DELETE /properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Property")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// PATCH /properties/:id/status
func (h *PropertyHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.PropertyStatus `json:"status"`
	}
	if !bindPayload(c, validation.PropertyStatus, &req) {
		return
	}

	property, err := h.propertyService.UpdateStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err, "Property")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStatusUpdated), property)
}
