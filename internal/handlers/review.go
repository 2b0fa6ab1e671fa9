// internal/handlers/review.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// GET /reviews
func (h *ReviewHandler) List(c *gin.Context) {
	page, err := h.reviewService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Review")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Review")
		return
	}
	utils.SuccessResponse(c, review)
}

// POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.ReviewInput
	if !bindPayload(c, validation.ReviewCreate, &in) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Review")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), review)
}

// PUT /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.ReviewInput
	if !bindPayload(c, validation.ReviewUpdate, &in) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Review")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), review)
}

// DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Review")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /reviews/:id/moderate
func (h *ReviewHandler) Moderate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.ReviewStatus `json:"status"`
	}
	if !bindPayload(c, validation.ReviewModerate, &req) {
		return
	}

	review, err := h.reviewService.Moderate(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err, "Review")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyReviewModerated), review)
}
