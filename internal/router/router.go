package router

import (
	"net/http"
	"time"

	"github.com/eduhub/examcore/internal/config"
	"github.com/eduhub/examcore/internal/handler"
	"github.com/eduhub/examcore/internal/metrics"
	"github.com/eduhub/examcore/internal/middleware"
	"github.com/eduhub/examcore/internal/model"
	"github.com/eduhub/examcore/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Submission *handler.SubmissionHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	auth middleware.Authenticator,
	limiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(metrics.Middleware())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", metrics.Handler())

	// ─── 1. Authenticated API ──────────────────────────────────────────
	api := router.Group("/api/v1")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	api.Use(middleware.RequireAuth(auth))

	studentOnly := middleware.RequireRole(model.RoleStudent)
	staffOnly := middleware.RequireRole(model.RoleTeacher, model.RoleAdmin)

	api.POST("/exam/:examId/start", studentOnly, handlers.Submission.StartExam)

	submissions := api.Group("/submission")
	{
		submissions.GET("", staffOnly, handlers.Submission.ListAll)
		submissions.GET("/my", studentOnly, handlers.Submission.ListMine)
		submissions.GET("/my/completed", studentOnly, handlers.Submission.ListCompleted)
		submissions.GET("/exam/:examId", studentOnly, handlers.Submission.GetLatestForExam)
		submissions.GET("/:id", handlers.Submission.GetSubmission)
		submissions.POST("/:id/answer", studentOnly, handlers.Submission.SubmitAnswer)
		submissions.POST("/:id/finish", studentOnly, handlers.Submission.FinishExam)
	}

	return router
}
