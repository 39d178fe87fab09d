package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"neurohub/backend/internal/assessment"
	"neurohub/backend/internal/catalog"
	"neurohub/backend/internal/middleware"
	"neurohub/backend/internal/models"
	"neurohub/backend/internal/records"

	"github.com/gin-gonic/gin"
)

// AssessmentHandler scores the self-assessment quiz, persists the outcome
// and auto-enrolls the user into a matching course.
type AssessmentHandler struct {
	store   *records.Store
	catalog *catalog.Service
}

func NewAssessmentHandler(store *records.Store, cat *catalog.Service) *AssessmentHandler {
	return &AssessmentHandler{store: store, catalog: cat}
}

// Questions returns the quiz questionnaire in presentation order.
func (h *AssessmentHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": assessment.Questions})
}

type assessmentPayload struct {
	Answers []int `json:"answers" binding:"required"`
}

// Submit scores the answers and stores the result on the user record.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload assessmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := assessment.Score(payload.Answers)
	if err != nil {
		if errors.Is(err, assessment.ErrIncomplete) || errors.Is(err, assessment.ErrInvalidValue) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score assessment"})
		return
	}

	stored := models.AssessmentResult{
		Prediction:    result.Prediction,
		Probabilities: result.Probabilities,
		Timestamp:     time.Now().UnixMilli(),
	}
	if err := h.store.SetAssessment(c.Request.Context(), actor.UID, stored); err != nil {
		log.Printf("[Assessment] Failed to persist result for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save assessment"})
		return
	}

	category := assessment.RecommendedCategory(result.Prediction)
	enrolled, err := h.catalog.AutoEnroll(c.Request.Context(), actor.UID, category)
	if err != nil {
		// The assessment itself is saved; enrollment is a convenience.
		log.Printf("[Assessment] Auto-enroll failed for %s: %v", actor.UID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction":    result.Prediction,
		"probabilities": result.Probabilities,
		"category":      category,
		"enrolledIn":    enrolled,
	})
}

// Result returns the stored assessment, if any.
func (h *AssessmentHandler) Result(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.store.GetUser(c.Request.Context(), actor.UID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No user record"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assessment"})
		return
	}
	if rec.Assessment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No assessment taken yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":   rec.Assessment,
		"category": assessment.RecommendedCategory(rec.Assessment.Prediction),
	})
}
