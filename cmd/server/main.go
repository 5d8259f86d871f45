package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/kolkore/open-calls-api/api/swagger"
	"github.com/kolkore/open-calls-api/internal/handler"
	"github.com/kolkore/open-calls-api/internal/middleware"
	"github.com/kolkore/open-calls-api/internal/models"
	"github.com/kolkore/open-calls-api/internal/repository"
	"github.com/kolkore/open-calls-api/internal/service"
	"github.com/kolkore/open-calls-api/pkg/cache"
	"github.com/kolkore/open-calls-api/pkg/config"
	"github.com/kolkore/open-calls-api/pkg/database"
	"github.com/kolkore/open-calls-api/pkg/logger"
	corsmiddleware "github.com/kolkore/open-calls-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kolkore/open-calls-api/pkg/middleware/requestid"
)

// @title Open Calls API
// @version 1.0.0
// @description Bilingual open-calls board: public listing plus admin management
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The board works without Redis; options queries just skip the cache.
		logr.Sugar().Warnw("redis unavailable, filter options cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	callRepo := repository.NewCallRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	callSvc := service.NewCallService(callRepo, cacheRepo, cfg.Calls.OptionsCacheTTL, logr)
	adminCallSvc := service.NewAdminCallService(callRepo, cacheRepo, validate, logr, cfg.Calls.ExportMaxRows)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "open-calls-api",
	})
	metricsSvc := service.NewMetricsService()

	callHandler := handler.NewCallHandler(callSvc)
	adminCallHandler := handler.NewAdminCallHandler(adminCallSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/calls", callHandler.List)
		api.GET("/calls/options", callHandler.Options)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		}

		admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/calls", adminCallHandler.List)
			admin.POST("/calls", adminCallHandler.Create)
			admin.GET("/calls/export", adminCallHandler.Export)
			admin.PATCH("/calls/:id", adminCallHandler.Update)
			admin.POST("/calls/:id/archive", adminCallHandler.Archive)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
