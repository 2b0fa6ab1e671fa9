// internal/handlers/notification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/franchise-backoffice/internal/i18n"
	"github.com/javajoker/franchise-backoffice/internal/services"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	page, err := h.notificationService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Notification")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err, "Notification")
		return
	}
	utils.SuccessResponse(c, gin.H{"count": count})
}

// POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Notification")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyNotificationRead), notification)
}

// POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err, "Notification")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyNotificationsReadAll), gin.H{"updated": updated})
}

// DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Notification")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}
