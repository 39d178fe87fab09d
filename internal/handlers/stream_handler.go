package handlers

import (
	"io"
	"log"
	"net/http"

	"neurohub/backend/internal/feed"
	"neurohub/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// StreamHandler turns hub subscriptions into server-sent event streams.
// Each connection holds one subscription; closing the request cancels it.
type StreamHandler struct {
	svc *feed.Service
}

func NewStreamHandler(svc *feed.Service) *StreamHandler {
	return &StreamHandler{svc: svc}
}

func sseHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
}

// Feed streams feed snapshots. The first event is the current snapshot;
// later events replace it wholesale.
func (h *StreamHandler) Feed(c *gin.Context) {
	sub, err := h.svc.SubscribeFeed(c.Request.Context())
	if err != nil {
		log.Printf("[Stream] Feed subscribe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open feed stream"})
		return
	}
	defer sub.Cancel()

	sseHeaders(c)
	c.Stream(func(w io.Writer) bool {
		select {
		case posts, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("feed", posts)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Users streams the public presence list, excluding the caller.
func (h *StreamHandler) Users(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.svc.SubscribePresence(c.Request.Context(), actor.UID)
	if err != nil {
		log.Printf("[Stream] Presence subscribe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open presence stream"})
		return
	}
	defer sub.Cancel()

	sseHeaders(c)
	c.Stream(func(w io.Writer) bool {
		select {
		case users, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("users", users)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Notifications streams the caller's notification list.
func (h *StreamHandler) Notifications(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.svc.SubscribeNotifications(c.Request.Context(), actor.UID)
	if err != nil {
		log.Printf("[Stream] Notification subscribe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open notification stream"})
		return
	}
	defer sub.Cancel()

	sseHeaders(c)
	c.Stream(func(w io.Writer) bool {
		select {
		case notes, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("notifications", notes)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
