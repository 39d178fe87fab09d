package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"neurohub/backend/internal/catalog"
	"neurohub/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the course, article and game catalogs plus the
// caller's enrollment state.
type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ListCourses filters by category and search term with 1-based pagination.
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	page := h.svc.Courses(
		c.Query("category"),
		c.Query("search"),
		queryInt(c, "page", 1),
		queryInt(c, "perPage", 0),
	)
	c.JSON(http.StatusOK, page)
}

// GetCourse returns one course by id.
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, ok := h.svc.Course(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// ListCategories returns the distinct course categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.svc.Categories()})
}

// ListArticles returns the article catalog.
func (h *CatalogHandler) ListArticles(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Articles())
}

// ListGames returns the game catalog.
func (h *CatalogHandler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Games())
}

// Enrollment returns the caller's enrolled courses and progress.
func (h *CatalogHandler) Enrollment(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	enrolled, completion, err := h.svc.Enrollment(c.Request.Context(), actor.UID)
	if err != nil {
		log.Printf("[Catalog] Failed to read enrollment for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled": enrolled, "completion": completion})
}

// ToggleEnroll enrolls or unenrolls the caller from a course.
func (h *CatalogHandler) ToggleEnroll(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	nowEnrolled, err := h.svc.ToggleEnroll(c.Request.Context(), actor.UID, c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCourse) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		log.Printf("[Catalog] Failed to toggle enrollment for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update enrollment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled": nowEnrolled})
}

type progressPayload struct {
	Percent *int `json:"percent" binding:"required"`
}

// SetProgress records completion percent for an enrolled course.
func (h *CatalogHandler) SetProgress(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload progressPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	err := h.svc.SetProgress(c.Request.Context(), actor.UID, c.Param("id"), *payload.Percent)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrUnknownCourse):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		case errors.Is(err, catalog.ErrNotEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": "Not enrolled in this course"})
		case errors.Is(err, catalog.ErrBadProgress):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Progress must be between 0 and 100"})
		default:
			log.Printf("[Catalog] Failed to set progress for %s: %v", actor.UID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Progress updated"})
}
