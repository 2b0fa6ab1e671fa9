// internal/handlers/royalty.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type RoyaltyHandler struct {
	royaltyService *services.RoyaltyService
}

func NewRoyaltyHandler(royaltyService *services.RoyaltyService) *RoyaltyHandler {
	return &RoyaltyHandler{royaltyService: royaltyService}
}

// GET /royalties
func (h *RoyaltyHandler) List(c *gin.Context) {
	page, err := h.royaltyService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /royalties/:id
func (h *RoyaltyHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	royalty, err := h.royaltyService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.SuccessResponse(c, royalty)
}

// POST /royalties
func (h *RoyaltyHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.RoyaltyInput
	if !bindPayload(c, validation.RoyaltyCreate, &in) {
		return
	}

	royalty, err := h.royaltyService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), royalty)
}

// POST /royalties/generate
func (h *RoyaltyHandler) Generate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.GenerateRoyaltiesInput
	if !bindPayload(c, validation.RoyaltyGenerate, &in) {
		return
	}

	result, err := h.royaltyService.Generate(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyRoyaltiesGenerated, len(result.Generated)), result)
}

// PUT /royalties/:id
func (h *RoyaltyHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.RoyaltyInput
	if !bindPayload(c, validation.RoyaltyUpdate, &in) {
		return
	}

	royalty, err := h.royaltyService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), royalty)
}

// DELETE /royalties/:id
func (h *RoyaltyHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.royaltyService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /royalties/:id/mark-paid
func (h *RoyaltyHandler) MarkPaid(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.MarkPaidInput
	if !bindPayload(c, validation.RoyaltyMarkPaid, &in) {
		return
	}

	royalty, err := h.royaltyService.MarkPaid(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyRoyaltyPaid), royalty)
}

// POST /royalties/:id/dispute
func (h *RoyaltyHandler) Dispute(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		DisputeReason string `json:"dispute_reason"`
	}
	if !bindPayload(c, validation.RoyaltyDispute, &req) {
		return
	}

	royalty, err := h.royaltyService.Dispute(c.Request.Context(), principal(c), id, req.DisputeReason)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyRoyaltyDisputed), royalty)
}

// POST /royalties/:id/cancel
func (h *RoyaltyHandler) Cancel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	royalty, err := h.royaltyService.Cancel(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyRoyaltyCancelled), royalty)
}

// POST /royalties/:id/payment-proof
func (h *RoyaltyHandler) UploadPaymentProof(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	_, file, ok := bindMultipart(c, validation.RoyaltyPaymentProof)
	if !ok {
		return
	}

	royalty, err := h.royaltyService.UploadPaymentProof(c.Request.Context(), principal(c), id, file)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyRoyaltyProofUploaded), royalty)
}

// POST /royalties/:id/payment-intent
func (h *RoyaltyHandler) CreatePaymentIntent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	intent, err := h.royaltyService.CreatePaymentIntent(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.SuccessResponse(c, intent)
}

// POST /royalties/:id/confirm-payment
func (h *RoyaltyHandler) ConfirmPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	royalty, err := h.royaltyService.ConfirmPayment(c.Request.Context(), principal(c), id, req.PaymentIntentID)
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyRoyaltyPaid), royalty)
}

// POST /royalties/mark-overdue
func (h *RoyaltyHandler) MarkOverdue(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	count, err := h.royaltyService.MarkOverdue(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err, "Royalty")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyRoyaltiesOverdue, count), gin.H{"updated": count})
}
