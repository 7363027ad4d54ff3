package server

import (
	"context"
	"net/http"
	"time"

	"anoa.com/eventtech/internal/config"
	"anoa.com/eventtech/internal/middleware"
	"anoa.com/eventtech/pkg/database"
	"anoa.com/eventtech/pkg/metrics"
	"anoa.com/eventtech/pkg/ratelimit"
	"anoa.com/eventtech/pkg/response"
	"anoa.com/eventtech/pkg/session"
	"anoa.com/eventtech/pkg/storage"
	"anoa.com/eventtech/pkg/validator"

	activityHttp "anoa.com/eventtech/internal/modules/activity/delivery/http"
	activityService "anoa.com/eventtech/internal/modules/activity/service"

	adminHttp "anoa.com/eventtech/internal/modules/admin/delivery/http"
	adminRepo "anoa.com/eventtech/internal/modules/admin/repository"
	adminService "anoa.com/eventtech/internal/modules/admin/service"

	certHttp "anoa.com/eventtech/internal/modules/certificate/delivery/http"
	certRepo "anoa.com/eventtech/internal/modules/certificate/repository"
	certService "anoa.com/eventtech/internal/modules/certificate/service"

	dashboardHttp "anoa.com/eventtech/internal/modules/dashboard/delivery/http"
	dashboardService "anoa.com/eventtech/internal/modules/dashboard/service"

	eventHttp "anoa.com/eventtech/internal/modules/event/delivery/http"
	eventRepo "anoa.com/eventtech/internal/modules/event/repository"
	eventService "anoa.com/eventtech/internal/modules/event/service"

	exportHttp "anoa.com/eventtech/internal/modules/export/delivery/http"
	exportService "anoa.com/eventtech/internal/modules/export/service"

	registrationHttp "anoa.com/eventtech/internal/modules/registration/delivery/http"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	registrationService "anoa.com/eventtech/internal/modules/registration/service"

	searchService "anoa.com/eventtech/internal/modules/search/service"

	winnerHttp "anoa.com/eventtech/internal/modules/winner/delivery/http"
	winnerService "anoa.com/eventtech/internal/modules/winner/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the external clients the server runs against. Only DB is
// required; every other client degrades gracefully when nil.
type Deps struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	MeiliClient meilisearch.ServiceManager
	Archive     storage.ArchiveStorage
	Metrics     *metrics.Metrics
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	validator.Register()

	db := deps.DB
	redisClient := deps.RedisClient
	m := deps.Metrics
	if m == nil {
		m = metrics.New(nil)
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, redisClient, cfg.IsProduction()).
		WithMaxLifetime(cfg.SessionMaxAge)
	limiter := ratelimit.New(redisClient)
	publisher := activityService.NewPublisher(redisClient)
	searchSvc := searchService.NewSearchService(deps.MeiliClient)

	// Admin Module
	adminRepository := adminRepo.NewAdminRepository(db)
	adminSvc := adminService.NewAdminService(adminRepository, publisher)
	adminHandler := adminHttp.NewAdminHandler(adminSvc, sessions, limiter, m)

	// Registration and certificates
	registrationRepository := registrationRepo.NewRegistrationRepository(db)
	certSvc := certService.NewCertificateService(certRepo.NewCertificateRepository(db), registrationRepository, m, cfg.EventTitle)
	certHandler := certHttp.NewCertificateHandler(certSvc)

	registrationSvc := registrationService.NewRegistrationService(registrationRepository, certSvc, searchSvc, publisher, m)
	registrationHandler := registrationHttp.NewRegistrationHandler(registrationSvc)

	// Events
	eventSvc := eventService.NewEventService(eventRepo.NewEventRepository(db), adminSvc)
	eventHandler := eventHttp.NewEventHandler(eventSvc)

	// Winners
	winnerSvc := winnerService.NewWinnerService(registrationRepository, certSvc, adminSvc, searchSvc, m)
	winnerHandler := winnerHttp.NewWinnerHandler(winnerSvc)

	// Exports
	exportSvc := exportService.NewExportService(registrationRepository, adminSvc, deps.Archive, m, exportService.Options{
		EventTitle: cfg.EventTitle,
		Archive:    cfg.ExportArchive,
	})
	exportHandler := exportHttp.NewExportHandler(exportSvc)

	// Dashboard
	dashboardSvc := dashboardService.NewDashboardService(registrationRepository, eventSvc, certSvc, adminSvc, searchSvc)
	dashboardHandler := dashboardHttp.NewDashboardHandler(dashboardSvc, exportSvc)

	activityHandler := activityHttp.NewActivityHandler(redisClient, cfg.Origins())

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.Origins())

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/metrics", "/healthz"},
	}))
	router.Use(m.Middleware())

	authMiddleware := middleware.NewAuthMiddleware(adminRepository, sessions)

	// Public routes (no auth required)
	router.POST("/register", middleware.RateLimit(limiter, ratelimit.ActionRegister, cfg.RateLimitRegister), registrationHandler.Register)
	router.GET("/register", registrationHandler.HandleGet)
	router.POST("/admin-login", middleware.RateLimit(limiter, ratelimit.ActionLogin, cfg.RateLimitLogin), adminHandler.HandlePost)
	router.GET("/admin-login", adminHandler.HandleGet)
	router.GET("/events", eventHandler.ListPublic)
	router.GET("/certificate", authMiddleware.RequireAdminFor("history"), certHandler.HandleGet)

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		response.Success(c, "ok", nil)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Protected routes (apply auth middleware explicitly)
	protected := router.Group("")
	protected.Use(authMiddleware.RequireAdmin())
	{
		protected.GET("/admin/me", adminHandler.Me)

		protected.GET("/admin-dashboard", dashboardHandler.HandleGet)
		protected.POST("/admin-dashboard", dashboardHandler.HandlePost)
		protected.GET("/admin-dashboard/ws", activityHandler.HandleWebSocket)

		protected.GET("/event-settings", eventHandler.HandleGet)
		protected.POST("/event-settings", eventHandler.HandlePost)

		protected.GET("/export", exportHandler.Export)

		protected.GET("/winner", winnerHandler.HandleGet)
		protected.POST("/winner", winnerHandler.HandlePost)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", exportHttp.ArchiveHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
