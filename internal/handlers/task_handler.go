package handlers

import (
	"errors"
	"log"
	"net/http"

	"neurohub/backend/internal/middleware"
	"neurohub/backend/internal/models"
	"neurohub/backend/internal/tasks"

	"github.com/gin-gonic/gin"
)

// TaskHandler exposes the per-user daily task list.
type TaskHandler struct {
	svc *tasks.Service
}

func NewTaskHandler(svc *tasks.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func taskError(c *gin.Context, uid string, err error) {
	var verr *tasks.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, tasks.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	default:
		log.Printf("[Tasks] Operation failed for %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tasks"})
	}
}

// List returns the task list together with the completed-task ids.
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, completed, err := h.svc.List(c.Request.Context(), actor.UID)
	if err != nil {
		log.Printf("[Tasks] Failed to list tasks for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": list, "completed": completed})
}

// Create validates and appends a new task.
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), actor.UID, task)
	if err != nil {
		taskError(c, actor.UID, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update edits a task in place.
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	task.ID = c.Param("id")

	updated, err := h.svc.Update(c.Request.Context(), actor.UID, task)
	if err != nil {
		taskError(c, actor.UID, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a task and its completion mark.
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor.UID, c.Param("id")); err != nil {
		taskError(c, actor.UID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// ToggleComplete flips a task between done and pending.
func (h *TaskHandler) ToggleComplete(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	done, err := h.svc.ToggleComplete(c.Request.Context(), actor.UID, c.Param("id"))
	if err != nil {
		taskError(c, actor.UID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": done})
}
