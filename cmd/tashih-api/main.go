package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/bahtsul-masail/tashih-api/api/swagger"
	"github.com/bahtsul-masail/tashih-api/internal/handler"
	"github.com/bahtsul-masail/tashih-api/internal/middleware"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	"github.com/bahtsul-masail/tashih-api/internal/repository"
	"github.com/bahtsul-masail/tashih-api/internal/service"
	"github.com/bahtsul-masail/tashih-api/pkg/cache"
	"github.com/bahtsul-masail/tashih-api/pkg/config"
	"github.com/bahtsul-masail/tashih-api/pkg/database"
	"github.com/bahtsul-masail/tashih-api/pkg/jobs"
	"github.com/bahtsul-masail/tashih-api/pkg/logger"
	corsmiddleware "github.com/bahtsul-masail/tashih-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bahtsul-masail/tashih-api/pkg/middleware/requestid"
	"github.com/bahtsul-masail/tashih-api/pkg/storage"
)

// @title Tashih al-Masa'il API
// @version 1.0.0
// @description Verification workflow for bahtsul masail issue documents and collections.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	cacheEnabled := false
	var cacheRepo service.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
		cacheEnabled = true
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.StatisticsCacheTTL, logr, cacheEnabled)

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	collectionRepo := repository.NewTaqrirJamaiRepository(db)
	documentRepo := repository.NewTaqrirKhassRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	annotationRepo := repository.NewAnnotationRepository(db)

	dashboardSvc := service.NewDashboardService(documentRepo, collectionRepo, annotationRepo, verificationRepo, cacheSvc, logr, service.DashboardServiceConfig{
		StatisticsCacheTTL: cfg.Dashboard.StatisticsCacheTTL,
	})

	// The dashboard consumes workflow events so cached statistics never
	// outlive a transition.
	notifySvc := service.NewNotificationService(service.NotificationSinkFunc(dashboardSvc.HandleWorkflowEvent), jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	}, logr)

	authSvc := service.NewAuthService(userRepo, auditRepo, validator.New(), logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "tashih-api",
		Audience:           []string{"tashih-clients"},
		SingleSession:      true,
	})
	collectionSvc := service.NewTaqrirJamaiService(collectionRepo, documentRepo, nil, auditRepo, notifySvc, metrics, logr)
	if cfg.Export.Enabled {
		archive, err := storage.NewExportArchive(cfg.Export.Dir)
		if err != nil {
			logr.Warn("export archive unavailable, exports will not be kept on disk", zap.Error(err))
		} else {
			if deleted, err := archive.CleanupOlderThan(cfg.Export.Retention); err != nil {
				logr.Warn("export archive cleanup failed", zap.Error(err))
			} else if len(deleted) > 0 {
				logr.Info("pruned expired export files", zap.Int("count", len(deleted)))
			}
			collectionSvc.WithArchive(archive)
		}
	}
	documentSvc := service.NewTaqrirKhassService(documentRepo, collectionRepo, verificationRepo, auditRepo, notifySvc, metrics, logr)
	verificationSvc := service.NewVerificationService(verificationRepo, documentRepo, auditRepo, notifySvc, metrics, logr)
	annotationSvc := service.NewAnnotationService(annotationRepo, documentRepo, nil, auditRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	collectionHandler := handler.NewTaqrirJamaiHandler(collectionSvc)
	documentHandler := handler.NewTaqrirKhassHandler(documentSvc)
	verificationHandler := handler.NewVerificationHandler(verificationSvc)
	annotationHandler := handler.NewAnnotationHandler(annotationSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)

	authed := api.Group("", middleware.JWT(authSvc))

	mushohehOnly := middleware.RequireRoles(models.RoleMushoheh)
	authorOrMushoheh := middleware.RequireRoles(models.RoleAuthor, models.RoleMushoheh)

	collections := authed.Group("/taqrir-jamai")
	collections.GET("", collectionHandler.List)
	collections.POST("", middleware.RequireRoles(models.RoleAuthor), collectionHandler.Create)
	collections.GET("/:id", collectionHandler.Get)
	collections.PATCH("/:id", middleware.RequireRoles(models.RoleAuthor), collectionHandler.Update)
	collections.DELETE("/:id", middleware.RequireRoles(models.RoleAuthor), collectionHandler.Delete)
	collections.POST("/:id/submit_for_review", middleware.RequireRoles(models.RoleAuthor), collectionHandler.SubmitForReview)
	collections.POST("/:id/approve", mushohehOnly, collectionHandler.Approve)
	collections.POST("/:id/publish", mushohehOnly, collectionHandler.Publish)
	if cfg.Export.Enabled {
		collections.GET("/:id/export", collectionHandler.Export)
	}

	documents := authed.Group("/taqrir-khass")
	documents.GET("", documentHandler.List)
	documents.POST("", middleware.RequireRoles(models.RoleAuthor), documentHandler.Create)
	documents.GET("/:id", documentHandler.Get)
	documents.PATCH("/:id", middleware.RequireRoles(models.RoleAuthor), documentHandler.Update)
	documents.POST("/:id/submit_for_review", authorOrMushoheh, documentHandler.SubmitForReview)
	documents.POST("/:id/request_revision", mushohehOnly, documentHandler.RequestRevision)

	verifications := authed.Group("/mushoheh-verification", mushohehOnly)
	verifications.POST("", verificationHandler.Upsert)
	verifications.GET("/:id", verificationHandler.Get)
	verifications.POST("/:id/complete", verificationHandler.Complete)

	annotations := authed.Group("/reference-annotation")
	annotations.GET("", annotationHandler.List)
	if cfg.Export.Enabled {
		annotations.GET("/export", mushohehOnly, annotationHandler.Export)
	}
	annotations.POST("", annotationHandler.Create)
	annotations.GET("/:id", annotationHandler.Get)
	annotations.PATCH("/:id", annotationHandler.Update)
	annotations.POST("/:id/verify", mushohehOnly, annotationHandler.Verify)

	dashboard := authed.Group("/tashih", mushohehOnly)
	dashboard.GET("/pending-verification", dashboardHandler.Pending)
	dashboard.GET("/completed-verification", dashboardHandler.Completed)
	dashboard.GET("/statistics", dashboardHandler.Statistics)
	dashboard.GET("/system-metrics", metricsHandler.System)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifySvc.Start(ctx)
	defer notifySvc.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
