// internal/handlers/transaction.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	page, err := h.transactionService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Transaction")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	txn, err := h.transactionService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Transaction")
		return
	}
	utils.SuccessResponse(c, txn)
}

// POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.TransactionInput
	if !bindPayload(c, validation.TransactionCreate, &in) {
		return
	}

	txn, err := h.transactionService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Transaction")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), txn)
}

// PUT /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.TransactionInput
	if !bindPayload(c, validation.TransactionUpdate, &in) {
		return
	}

	txn, err := h.transactionService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Transaction")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), txn)
}

// DELETE /transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Transaction")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /transactions/:id/complete
func (h *TransactionHandler) Complete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	txn, err := h.transactionService.Complete(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Transaction")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTransactionCompleted), txn)
}

// POST /transactions/:id/cancel
func (h *TransactionHandler) Cancel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	txn, err := h.transactionService.Cancel(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Transaction")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTransactionCancelled), txn)
}
