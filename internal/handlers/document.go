// internal/handlers/document.go
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

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// GET /documents
func (h *DocumentHandler) List(c *gin.Context) {
	page, err := h.documentService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Document")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Document")
		return
	}
	utils.SuccessResponse(c, doc)
}

// POST /documents (multipart)
func (h *DocumentHandler) Upload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	data, file, ok := bindMultipart(c, validation.DocumentUpload)
	if !ok {
		return
	}

	doc, err := h.documentService.Upload(c.Request.Context(), principal(c), file, documentInputFromForm(data))
	if err != nil {
		respondError(c, err, "Document")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyDocumentUploaded), doc)
}

// PUT /documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.DocumentInput
	if !bindPayload(c, validation.DocumentUpdate, &in) {
		return
	}

	doc, err := h.documentService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Document")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), doc)
}

// DELETE /documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Document")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// GET /documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	url, err := h.documentService.DownloadURL(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Document")
		return
	}
	utils.SuccessResponse(c, gin.H{"url": url})
}

// documentInputFromForm converts already validated form fields.
func documentInputFromForm(data validation.Data) services.DocumentInput {
	var in services.DocumentInput
	if v, ok := data["title"].(string); ok {
		in.Title = &v
	}
	if v, ok := data["type"].(string); ok {
		in.Type = &v
	}
	if v, ok := data["franchise_id"].(string); ok && v != "" {
		if id, err := uuid.Parse(v); err == nil {
			in.FranchiseID = &id
		}
	}
	if v, ok := data["unit_id"].(string); ok && v != "" {
		if id, err := uuid.Parse(v); err == nil {
			in.UnitID = &id
		}
	}
	if v, ok := data["expires_at"].(string); ok && v != "" {
		if d, err := models.ParseDate(v); err == nil {
			in.ExpiresAt = &d
		}
	}
	return in
}
