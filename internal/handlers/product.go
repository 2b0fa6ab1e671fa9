// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.productService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	utils.SuccessResponse(c, product)
}

// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.ProductInput
	if !bindPayload(c, validation.ProductCreate, &in) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), product)
}

// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.ProductInput
	if !bindPayload(c, validation.ProductUpdate, &in) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), product)
}

// DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Product")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}
