package handlers

import (
	"log"
	"net/http"
	"time"

	"neurohub/backend/internal/models"
	"neurohub/backend/internal/records"

	"github.com/gin-gonic/gin"
)

// ContactHandler stores landing-page contact form submissions. The route
// is public; visitors are not signed in yet.
type ContactHandler struct {
	store *records.Store
}

func NewContactHandler(store *records.Store) *ContactHandler {
	return &ContactHandler{store: store}
}

type contactPayload struct {
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var payload contactPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and message are required"})
		return
	}

	msg := models.ContactMessage{
		Email:     payload.Email,
		Message:   payload.Message,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := h.store.SaveContactMessage(c.Request.Context(), msg); err != nil {
		log.Printf("[Contact] Failed to save message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit message"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Thanks for reaching out"})
}
