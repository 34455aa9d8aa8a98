package server

import (
	"context"
	"net/http"
	"time"

	"service-scheduler/internal/config"
	"service-scheduler/internal/handlers"
	"service-scheduler/internal/middleware"
	"service-scheduler/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionName = "scheduler_session"

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(cfg *config.Config, h *handlers.Handler, users middleware.UserGetter, db Pinger, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// ГЛАВНАЯ
	r.GET("/", h.Index)

	api := r.Group("/api/v1")

	// AUTH
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)

	auth := api.Group("/")
	auth.Use(
		middleware.RequireAuth(cfg.JWTSecret),
		middleware.InjectUser(users),
		middleware.RequireRole(models.RoleAdmin, models.RoleOwner),
	)

	auth.GET("/me", h.Me)

	// КАТАЛОГ
	auth.GET("/projects", h.ListProjects)
	auth.POST("/projects", h.CreateProject)
	auth.GET("/projects/:id", h.GetProject)
	auth.PUT("/projects/:id", h.UpdateProject)
	auth.DELETE("/projects/:id", h.DeleteProject)

	// РАСПИСАНИЕ
	auth.GET("/schedule", h.ListSchedule)
	auth.POST("/schedule", h.PlaceProject)
	auth.GET("/schedule/export", h.ExportSchedule)
	auth.POST("/schedule/recurrence", h.PlaceRecurrence)
	auth.PATCH("/schedule/:id", h.UpdateSchedule)
	auth.POST("/schedule/:id/move", h.MoveSchedule)
	auth.DELETE("/schedule/:id", h.DeleteSchedule)

	// КАЛЕНДАРЬ
	auth.GET("/calendar", h.Calendar)
	auth.GET("/calendar/slots", h.TimeSlots)
	auth.GET("/events", h.Events)

	// АУДИТ
	auth.GET("/audit", h.ListAuditLogs)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
