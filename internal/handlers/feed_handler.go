package handlers

import (
	"errors"
	"log"
	"net/http"

	"neurohub/backend/internal/feed"
	"neurohub/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// FeedHandler exposes the community feed over HTTP. All writes go through
// feed.Service so subscribers see every change.
type FeedHandler struct {
	svc *feed.Service
}

func NewFeedHandler(svc *feed.Service) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// ListPosts returns the bounded feed snapshot, newest first.
func (h *FeedHandler) ListPosts(c *gin.Context) {
	posts, err := h.svc.Posts(c.Request.Context())
	if err != nil {
		log.Printf("[Feed] Failed to read posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by id.
func (h *FeedHandler) GetPost(c *gin.Context) {
	post, err := h.svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, feed.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost accepts multipart form data so a post can carry an optional
// image or video attachment.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := c.Request.ParseMultipartForm(20 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing form data"})
		return
	}
	content := c.Request.FormValue("content")

	var media *feed.Media
	file, header, err := c.Request.FormFile("media")
	if err == nil {
		defer file.Close()
		kind := c.Request.FormValue("mediaType")
		if kind != "image" && kind != "video" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mediaType must be image or video"})
			return
		}
		media = &feed.Media{Name: header.Filename, Kind: kind, Content: file}
	}

	post, err := h.svc.CreatePost(c.Request.Context(), actor, content, media)
	if err != nil {
		if errors.Is(err, feed.ErrEmptyPost) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Post must have content or media"})
			return
		}
		log.Printf("[Feed] Failed to create post for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ToggleLike flips the caller's like on a post.
func (h *FeedHandler) ToggleLike(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	liked, err := h.svc.ToggleLike(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		if errors.Is(err, feed.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("[Feed] Failed to toggle like for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

type commentPayload struct {
	Content string `json:"content" binding:"required"`
}

// AddComment appends a comment to a post.
func (h *FeedHandler) AddComment(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payload commentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), actor, payload.Content)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, feed.ErrEmptyComment):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		default:
			log.Printf("[Feed] Failed to add comment for %s: %v", actor.UID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		}
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// SharePost bumps the share counter.
func (h *FeedHandler) SharePost(c *gin.Context) {
	actor, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shares, err := h.svc.SharePost(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		if errors.Is(err, feed.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("[Feed] Failed to share post for %s: %v", actor.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares})
}
