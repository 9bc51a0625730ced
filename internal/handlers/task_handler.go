package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"muniplan/internal/authz"
	"muniplan/internal/models"
	"muniplan/internal/realtime"
	"muniplan/internal/repositories"
	"muniplan/internal/services"
)

type TaskHandler struct {
	service services.TaskService

	// notification fan-out; tg may be nil when the bot is disabled
	tg    *services.TelegramService
	email services.EmailService
	users repositories.UserRepository
	hub   *realtime.BoardHub
}

func NewTaskHandler(
	service services.TaskService,
	tg *services.TelegramService,
	email services.EmailService,
	users repositories.UserRepository,
	hub *realtime.BoardHub,
) *TaskHandler {
	return &TaskHandler{service: service, tg: tg, email: email, users: users, hub: hub}
}

type taskRequest struct {
	Title              string              `json:"title" binding:"required"`
	Description        string              `json:"description"`
	Priority           models.TaskPriority `json:"priority"` // low|medium|high
	AssigneeID         *int64              `json:"assignee_id"`
	StartDate          string              `json:"start_date" binding:"required"` // YYYY-MM-DD
	DueDate            string              `json:"due_date" binding:"required"`   // YYYY-MM-DD
	Dependencies       []int64             `json:"dependencies"`
	ResourceID         *int64              `json:"resource_id"`
	ResourceAllocation float64             `json:"resource_allocation"`
}

func (r *taskRequest) toTask(projectID int64) (*models.Task, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDate("due_date", r.DueDate)
	if err != nil {
		return nil, err
	}
	return &models.Task{
		ProjectID:          projectID,
		Title:              r.Title,
		Description:        r.Description,
		Priority:           r.Priority,
		AssigneeID:         r.AssigneeID,
		StartDate:          start,
		DueDate:            due,
		Dependencies:       r.Dependencies,
		ResourceID:         r.ResourceID,
		ResourceAllocation: r.ResourceAllocation,
	}, nil
}

// POST /projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][create] call by userID=%d role=%d", userID, roleID)

	projectID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := req.toTask(projectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, conflicts, err := h.service.Create(c.Request.Context(), task)
	if err != nil {
		if err == repositories.ErrResourceUnavailable {
			log.Printf("[task][create][conflict] resource=%d lost the race", *task.ResourceID)
			c.JSON(http.StatusConflict, gin.H{"error": "resource was claimed by another reservation"})
			return
		}
		log.Printf("[task][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	if len(conflicts) > 0 {
		log.Printf("[task][create][conflict] resource=%d n=%d", *task.ResourceID, len(conflicts))
		c.JSON(http.StatusConflict, gin.H{
			"error":     "resource conflict",
			"conflicts": conflicts,
		})
		return
	}

	log.Printf("[task][create][ok] id=%d project=%d title=%q", created.ID, projectID, created.Title)
	c.JSON(http.StatusCreated, created)

	h.hub.Broadcast(realtime.Event{Kind: "task.created", ProjectID: projectID, Payload: created})
	h.notifyAssignee(c, created)
}

// GET /projects/:id/tasks
func (h *TaskHandler) ListByProject(c *gin.Context) {
	projectID, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var filter models.TaskFilter
	if s := c.Query("status"); s != "" {
		if !models.IsValidTaskStatus(s) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		status := models.TaskStatus(s)
		filter.Status = &status
	}
	if p := c.Query("priority"); p != "" {
		priority := models.TaskPriority(p)
		filter.Priority = &priority
	}

	tasks, err := h.service.GetByProject(c.Request.Context(), projectID, filter)
	if err != nil {
		log.Printf("[task][list][err] project=%d: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updateData, err := req.toTask(0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, conflicts, err := h.service.Update(c.Request.Context(), id, updateData)
	if err != nil {
		log.Printf("[task][update][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	if len(conflicts) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "resource conflict",
			"conflicts": conflicts,
		})
		return
	}

	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)

	h.hub.Broadcast(realtime.Event{Kind: "task.updated", ProjectID: updated.ProjectID, Payload: updated})
}

// POST /tasks/:id/status performs a board move
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidTaskStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	task, err := h.service.ChangeStatus(c.Request.Context(), id, models.TaskStatus(req.Status))
	if err != nil {
		log.Printf("[task][status][err] id=%d to=%s: %v", id, req.Status, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change status"})
		return
	}

	log.Printf("[task][status][ok] id=%d to=%s", id, task.Status)
	c.JSON(http.StatusOK, task)

	h.hub.Broadcast(realtime.Event{Kind: "task.updated", ProjectID: task.ProjectID, Payload: task})
	if task.AssigneeID != nil && h.tg != nil {
		if user, err := h.users.FindByID(c.Request.Context(), *task.AssigneeID); err == nil && user.TelegramChatID != nil {
			if err := h.tg.NotifyTaskStatus(*user.TelegramChatID, task); err != nil {
				log.Printf("[task][status][tg][err] id=%d: %v", id, err)
			}
		}
	}
}

// POST /tasks/:id/assign
func (h *TaskHandler) Assign(c *gin.Context) {
	userID, roleID := getUserAndRole(c)

	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		AssigneeID int64 `json:"assignee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if roleID == authz.RoleStaff && req.AssigneeID != userID {
		log.Printf("[task][assign][deny] staff=%d tried assign to %d", userID, req.AssigneeID)
		c.JSON(http.StatusForbidden, gin.H{"error": "staff can assign only to self"})
		return
	}

	task, err := h.service.UpdateAssignee(c.Request.Context(), id, req.AssigneeID)
	if err != nil {
		log.Printf("[task][assign][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign task"})
		return
	}

	log.Printf("[task][assign][ok] id=%d assignee=%d", id, req.AssigneeID)
	c.JSON(http.StatusOK, task)

	h.hub.Broadcast(realtime.Event{Kind: "task.updated", ProjectID: task.ProjectID, Payload: task})
	h.notifyAssignee(c, task)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[task][delete][err] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	log.Printf("[task][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)

	h.hub.Broadcast(realtime.Event{Kind: "task.deleted", ProjectID: task.ProjectID, Payload: gin.H{"id": id}})
}

func (h *TaskHandler) notifyAssignee(c *gin.Context, task *models.Task) {
	if task.AssigneeID == nil {
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), *task.AssigneeID)
	if err != nil {
		log.Printf("[task][notify][err] assignee=%d: %v", *task.AssigneeID, err)
		return
	}
	if h.tg != nil && user.TelegramChatID != nil {
		if err := h.tg.NotifyTaskAssigned(*user.TelegramChatID, task); err != nil {
			log.Printf("[task][notify][tg][err] assignee=%d: %v", user.ID, err)
		}
	}
	if h.email != nil {
		if err := h.email.SendTaskAssignedEmail(user.Email, task); err != nil {
			log.Printf("[task][notify][email][err] assignee=%d: %v", user.ID, err)
		}
	}
}
