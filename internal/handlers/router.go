package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/middleware"
)

// RouterConfig collects what SetupRouter wires together
type RouterConfig struct {
	Log            *logrus.Logger
	Auth           *AuthHandler
	Tasks          *TaskHandler
	Users          *UserHandler
	Notifications  *NotificationHandler
	Verifier       middleware.TokenVerifier
	RateLimiter    *middleware.RateLimiter
	Metrics        middleware.RequestRecorder
	MetricsHandler http.Handler
	CORSOrigins    []string
}

// SetupRouter builds the gin engine with every route mounted.
// RateLimiter, Metrics and MetricsHandler are optional.
func SetupRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(cfg.Log))
	r.Use(middleware.RequestLogger(cfg.Log))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Assignment API is running",
		})
	})
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	limit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimiter != nil {
		limit = cfg.RateLimiter.Middleware()
	}
	requireAuth := middleware.RequireAuth(cfg.Verifier)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", limit, cfg.Auth.Register)
			auth.POST("/login", limit, cfg.Auth.Login)
			auth.GET("/me", requireAuth, limit, cfg.Auth.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth, limit)
		{
			tasks.GET("", cfg.Tasks.ListTasks)
			tasks.POST("", cfg.Tasks.CreateTask)
			tasks.PATCH("/:id/status", cfg.Tasks.UpdateTaskStatus)
			tasks.DELETE("/:id", cfg.Tasks.DeleteTask)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth, limit)
		{
			users.GET("/employees", cfg.Users.ListEmployees)
		}

		if cfg.Notifications != nil {
			notifications := api.Group("/notifications")
			notifications.Use(requireAuth, limit)
			{
				notifications.POST("/test", cfg.Notifications.SendTest)
			}
		}
	}

	return r
}
