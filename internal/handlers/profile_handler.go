package handlers

import (
	"context"
	"log"
	"net/http"

	"neurohub/backend/internal/feed"
	"neurohub/backend/internal/middleware"
	"neurohub/backend/internal/records"

	"github.com/gin-gonic/gin"
)

// ProfileHandler covers session lifecycle, profiles, the public user list
// and notifications.
type ProfileHandler struct {
	svc   *feed.Service
	store *records.Store
}

func NewProfileHandler(svc *feed.Service, store *records.Store) *ProfileHandler {
	return &ProfileHandler{svc: svc, store: store}
}

// StartSession marks the caller online and ensures both the realtime
// profile and the document-store record exist.
func (h *ProfileHandler) StartSession(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.svc.StartSession(c.Request.Context(), actor)
	if err != nil {
		log.Printf("[Profile] Failed to start session for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}
	if err := h.store.EnsureUser(c.Request.Context(), actor.UID, actor.DisplayName, actor.Email); err != nil {
		log.Printf("[Profile] Failed to ensure user record for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// EndSession marks the caller offline. Best effort: the client is usually
// already navigating away.
func (h *ProfileHandler) EndSession(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Detach from the request context so a client disconnect does not
	// leave the user stuck online.
	h.svc.EndSession(context.WithoutCancel(c.Request.Context()), actor.UID)
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}

// GetProfile returns the caller's private profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), actor.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profilePayload struct {
	Bio         string `json:"bio"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateProfile edits the caller's bio, description and status. The bio is
// mirrored into the public projection by the service.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload profilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.svc.UpdateProfile(c.Request.Context(), actor.UID, payload.Bio, payload.Description, payload.Status); err != nil {
		log.Printf("[Profile] Failed to update profile for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// ListUsers returns everyone else's public profiles, most recently active
// first.
func (h *ProfileHandler) ListUsers(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	users, err := h.svc.ListUsers(c.Request.Context(), actor.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListNotifications returns the caller's notifications, newest first.
func (h *ProfileHandler) ListNotifications(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notes, err := h.svc.ListNotifications(c.Request.Context(), actor.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, notes)
}

// MarkNotificationRead flags one notification as read. Idempotent.
func (h *ProfileHandler) MarkNotificationRead(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.svc.MarkNotificationRead(c.Request.Context(), actor.UID, c.Param("id")); err != nil {
		log.Printf("[Profile] Failed to mark notification for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}
