package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobhunter/internal/services"
)

type RouterConfig struct {
	AllowedOrigins []string
	// Auth routes are limited to RatePerMinute requests per client IP.
	RatePerMinute int
	RateBurst     int
}

type Dependencies struct {
	Store       Pinger
	JobService  *services.JobService
	AuthService *services.AuthService
	// LLMService is nil when extraction is disabled.
	LLMService *services.LLMService
	Log        *slog.Logger
}

func SetupRouter(cfg RouterConfig, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), LoggerMiddleware(deps.Log))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	jobHandler := NewJobHandler(deps.LLMService, deps.JobService)
	statsHandler := NewStatsHandler(deps.JobService)
	authHandler := NewAuthHandler(deps.AuthService)
	requireAuth := AuthMiddleware(deps.AuthService)
	authLimit := RateLimitMiddleware(cfg.RatePerMinute, cfg.RateBurst)

	api := r.Group("/api")
	{
		api.GET("/health", HealthCheck(deps.Store))

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authLimit, authHandler.Register)
			authRoutes.POST("/login", authLimit, authHandler.Login)
			authRoutes.POST("/logout", requireAuth, authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
		}

		jobs := api.Group("/jobs", requireAuth)
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.POST("", jobHandler.CreateJob)
			jobs.POST("/extract", jobHandler.ParseJob)
			jobs.POST("/import", jobHandler.ImportJobs)
			jobs.GET("/export", jobHandler.ExportJobs)
			jobs.GET("/stats", statsHandler.Summary)
			jobs.GET("/stats/:card", statsHandler.Pool)

			jobs.GET("/:id", jobHandler.GetJob)
			jobs.PATCH("/:id", jobHandler.PatchJob)
			jobs.DELETE("/:id", jobHandler.DeleteJob)
			jobs.POST("/:id/status", jobHandler.ChangeStatus)
			jobs.POST("/:id/date", jobHandler.ChangeDate)
			jobs.POST("/:id/archive", jobHandler.ToggleArchive)
			jobs.POST("/:id/history", jobHandler.AddHistory)
			jobs.DELETE("/:id/history/:index", jobHandler.RemoveHistory)
			jobs.POST("/:id/resources", jobHandler.AddResource)
			jobs.DELETE("/:id/resources/:index", jobHandler.RemoveResource)
			jobs.POST("/:id/reminders", jobHandler.AddReminder)
			jobs.DELETE("/:id/reminders/:index", jobHandler.RemoveReminder)
			jobs.POST("/:id/notes", jobHandler.AddNote)
			jobs.DELETE("/:id/notes/:index", jobHandler.RemoveNote)
		}
	}
	return r
}
