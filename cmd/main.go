package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"callpanel/internal/caching"
	"callpanel/internal/config"
	"callpanel/internal/handlers"
	"callpanel/internal/middleware"
	"callpanel/internal/migrations"
	"callpanel/internal/repositories"
	"callpanel/internal/services"
	"callpanel/internal/sipuni"
	"callpanel/pkg/database"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	if err := migrations.Up(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Cache and object storage are supporting services; the panel degrades
	// without them but still boots.
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	var storageSvc services.StorageService
	storageSvc, err = services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		log.Printf("WARN: MinIO unavailable, number lists will not be archived: %v", err)
		storageSvc = nil
	} else if err := storageSvc.EnsureBucketExists(ctx); err != nil {
		log.Printf("WARN: failed to ensure MinIO bucket %q: %v", cfg.MinioBucket, err)
	}

	if cfg.SipuniToken == "" {
		log.Println("WARN: SIPUNI_TOKEN is not set, vendor API calls will fail until it is configured")
	}
	sipuniClient := sipuni.NewClient(cfg.SipuniBaseURL, cfg.SipuniToken, cfg.SipuniAutocallToken, cfg.SipuniTimeout)

	// Repositories and services.
	userRepo := repositories.NewUserRepo(pool)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	campaignSvc := services.NewCampaignService(sipuniClient, cacheSvc, storageSvc)

	// Handlers.
	authHandlers := handlers.NewAuthHandlers(authSvc)
	userHandlers := handlers.NewUserHandlers(authSvc)
	campaignHandlers := handlers.NewCampaignHandlers(campaignSvc)
	operatorHandlers := handlers.NewOperatorHandlers(campaignSvc)
	numberHandlers := handlers.NewNumberHandlers(campaignSvc)
	reportHandlers := handlers.NewReportHandlers(campaignSvc)
	lineHandlers := handlers.NewLineHandlers(campaignSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, sipuniClient)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Public routes.
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.POST("/api/auth/register", authHandlers.Register)
	e.POST("/api/auth/login", authHandlers.Login)

	// Everything else requires a valid token.
	api := e.Group("/api", middleware.JWTMiddleware(authSvc))

	api.GET("/auth/me", authHandlers.Me)
	api.PUT("/users/me", userHandlers.UpdateProfile)
	api.DELETE("/users/me", userHandlers.DeleteAccount)

	api.GET("/campaigns", campaignHandlers.ListCampaigns)
	api.POST("/campaigns", campaignHandlers.CreateCampaign)
	api.POST("/campaigns/select-line", lineHandlers.SelectLine)
	api.GET("/campaigns/:id", campaignHandlers.GetCampaign)
	api.PUT("/campaigns/:id", campaignHandlers.UpdateCampaign)
	api.DELETE("/campaigns/:id", campaignHandlers.DeleteCampaign)
	api.POST("/campaigns/:id/start", campaignHandlers.StartCampaign)
	api.POST("/campaigns/:id/stop", campaignHandlers.StopCampaign)

	api.GET("/campaigns/:id/operators", operatorHandlers.ListOperators)
	api.POST("/campaigns/:id/operators", operatorHandlers.AssignOperators)
	api.DELETE("/campaigns/:id/operators/:operatorId", operatorHandlers.UnassignOperator)

	api.GET("/campaigns/:id/numbers", numberHandlers.ListNumbers)
	api.POST("/campaigns/:id/numbers", numberHandlers.UploadNumbers)

	api.GET("/campaigns/:id/results", reportHandlers.CallResults)
	api.GET("/campaigns/:id/report", reportHandlers.CallReport)

	api.GET("/lines", lineHandlers.ListLines)
	api.GET("/employees", operatorHandlers.ListEmployees)
	api.GET("/employees/extensions", operatorHandlers.ListEmployeeExtensions)

	log.Printf("Starting server on port %s", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
