package handlers

import (
	"net/http"

	"neurohub/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// HealthCheck responds to load balancer probes.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Deps bundles every handler the router mounts.
type Deps struct {
	Verifier   middleware.TokenVerifier
	Feed       *FeedHandler
	Stream     *StreamHandler
	Profile    *ProfileHandler
	Tasks      *TaskHandler
	Assessment *AssessmentHandler
	Catalog    *CatalogHandler
	Games      *GameHandler
	Contact    *ContactHandler
}

// Register mounts every route. Everything except health and the contact
// form requires a verified identity.
func Register(router *gin.Engine, d Deps) {
	router.GET("/health", HealthCheck)

	api := router.Group("/api/v1")
	api.POST("/contact", d.Contact.Submit)

	protected := api.Group("/").Use(middleware.AuthMiddleware(d.Verifier))
	{
		// SESSION AND PROFILE ROUTES
		protected.POST("/session", d.Profile.StartSession)
		protected.DELETE("/session", d.Profile.EndSession)
		protected.GET("/profile", d.Profile.GetProfile)
		protected.PUT("/profile", d.Profile.UpdateProfile)
		protected.GET("/users", d.Profile.ListUsers)

		// FEED ROUTES
		protected.GET("/posts", d.Feed.ListPosts)
		protected.POST("/posts", d.Feed.CreatePost)
		protected.GET("/posts/:id", d.Feed.GetPost)
		protected.POST("/posts/:id/like", d.Feed.ToggleLike)
		protected.POST("/posts/:id/comments", d.Feed.AddComment)
		protected.POST("/posts/:id/share", d.Feed.SharePost)

		// NOTIFICATION ROUTES
		protected.GET("/notifications", d.Profile.ListNotifications)
		protected.PUT("/notifications/:id/read", d.Profile.MarkNotificationRead)

		// STREAMING ROUTES
		protected.GET("/stream/feed", d.Stream.Feed)
		protected.GET("/stream/users", d.Stream.Users)
		protected.GET("/stream/notifications", d.Stream.Notifications)

		// TASK ROUTES
		protected.GET("/tasks", d.Tasks.List)
		protected.POST("/tasks", d.Tasks.Create)
		protected.PUT("/tasks/:id", d.Tasks.Update)
		protected.DELETE("/tasks/:id", d.Tasks.Delete)
		protected.POST("/tasks/:id/toggle", d.Tasks.ToggleComplete)

		// ASSESSMENT ROUTES
		protected.GET("/assessment/questions", d.Assessment.Questions)
		protected.POST("/assessment", d.Assessment.Submit)
		protected.GET("/assessment", d.Assessment.Result)

		// CATALOG ROUTES
		protected.GET("/courses", d.Catalog.ListCourses)
		protected.GET("/courses/:id", d.Catalog.GetCourse)
		protected.POST("/courses/:id/enroll", d.Catalog.ToggleEnroll)
		protected.PUT("/courses/:id/progress", d.Catalog.SetProgress)
		protected.GET("/categories", d.Catalog.ListCategories)
		protected.GET("/enrollment", d.Catalog.Enrollment)
		protected.GET("/articles", d.Catalog.ListArticles)

		// GAME ROUTES
		protected.GET("/games", d.Catalog.ListGames)
		protected.POST("/games/:game/sessions", d.Games.StartSession)
		protected.GET("/games/:game/leaderboard", d.Games.Leaderboard)
		protected.GET("/game-sessions/:id", d.Games.GetState)
		protected.POST("/game-sessions/:id/input", d.Games.Input)
		protected.DELETE("/game-sessions/:id", d.Games.EndSession)
	}
}
