// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.userService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "User")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /users/brokers
func (h *UserHandler) ListBrokers(c *gin.Context) {
	page, err := h.userService.ListBrokers(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "User")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "User")
		return
	}
	utils.SuccessResponse(c, user)
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.UserInput
	if !bindPayload(c, validation.UserCreate, &in) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "User")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), user)
}

// PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.UserInput
	if !bindPayload(c, validation.UserUpdate, &in) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "User")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), user)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "User")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// PATCH /users/:id/status
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.UserStatus `json:"status"`
	}
	if !bindPayload(c, validation.UserStatus, &req) {
		return
	}

	user, err := h.userService.UpdateStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err, "User")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStatusUpdated), user)
}

// POST /users/:id/reset-password
// An empty body generates a password; otherwise password and
// password_confirmation are required.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if c.Request.ContentLength != 0 {
		if !bindPayload(c, validation.UserResetPassword, &req) {
			return
		}
	}

	password, err := h.userService.ResetPassword(c.Request.Context(), principal(c), id, req.Password)
	if err != nil {
		respondError(c, err, "User")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUserPasswordReset), gin.H{"password": password})
}
