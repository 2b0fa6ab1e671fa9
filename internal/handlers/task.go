// internal/handlers/task.go
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

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	page, err := h.taskService.List(c.Request.Context(), principal(c), listQuery(c))
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	utils.PaginatedResponse(c, page)
}

// GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	utils.SuccessResponse(c, task)
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var in services.TaskInput
	if !bindPayload(c, validation.TaskCreate, &in) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCreated), task)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var in services.TaskInput
	if !bindPayload(c, validation.TaskUpdate, &in) {
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), principal(c), id, in)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyUpdated), task)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err, "Task")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyDeleted), nil)
}

// POST /tasks/:id/assign
func (h *TaskHandler) Assign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		AssignedTo uuid.UUID `json:"assigned_to"`
	}
	if !bindPayload(c, validation.TaskAssign, &req) {
		return
	}

	task, err := h.taskService.Assign(c.Request.Context(), principal(c), id, req.AssignedTo)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTaskAssigned), task)
}

// PATCH /tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if !bindPayload(c, validation.TaskStatus, &req) {
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyStatusUpdated), task)
}

// POST /tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Complete(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err, "Task")
		return
	}
	utils.MessageResponse(c, i18n.T(lang, i18n.KeyTaskCompleted), task)
}
