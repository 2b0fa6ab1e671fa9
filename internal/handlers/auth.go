// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
	"github.com/javajoker/franchise-backoffice/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if !bindPayload(c, validation.AuthRegister, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "User")
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyAuthRegisterSuccess), user)
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "User")
		return
	}

	utils.MessageResponse(c, i18n.T(lang, i18n.KeyAuthLoginSuccess), authResponse)
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Refresh(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "User")
		return
	}

	utils.MessageResponse(c, i18n.T(lang, i18n.KeyAuthTokenRefreshed), authResponse)
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "User")
		return
	}

	utils.SuccessResponse(c, user)
}

// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ProfileRequest
	if !bindPayload(c, validation.AuthProfile, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err, "User")
		return
	}

	utils.MessageResponse(c, i18n.T(lang, i18n.KeyAuthProfileUpdated), user)
}

// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ChangePasswordRequest
	if !bindPayload(c, validation.AuthChangePassword, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		respondError(c, err, "User")
		return
	}

	utils.MessageResponse(c, i18n.T(lang, i18n.KeyAuthPasswordChanged), nil)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.authService.Logout(c.Request.Context(), claims(c)); err != nil {
		respondError(c, err, "User")
		return
	}

	utils.MessageResponse(c, i18n.T(lang, i18n.KeyAuthLogoutSuccess), nil)
}
